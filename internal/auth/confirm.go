package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Confirmer blocks until an external signal says the operator has finished
// logging in.
type Confirmer interface {
	Confirm(ctx context.Context) error
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context) error

// Confirm calls f.
func (f ConfirmerFunc) Confirm(ctx context.Context) error {
	return f(ctx)
}

// TerminalConfirmer waits for the operator to press ENTER.
type TerminalConfirmer struct {
	in io.Reader
}

// NewTerminalConfirmer creates a TerminalConfirmer reading from in,
// typically os.Stdin.
func NewTerminalConfirmer(in io.Reader) *TerminalConfirmer {
	return &TerminalConfirmer{in: in}
}

// Confirm returns once a line has been read from the input or ctx is done.
// On cancellation the pending read is abandoned; it ends when the process
// exits or the input is closed.
func (c *TerminalConfirmer) Confirm(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(c.in).ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		return nil
	}
}
