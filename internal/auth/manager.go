package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Launcher opens a visible browser window for the operator.
type Launcher interface {
	Launch(ctx context.Context, url string) (Window, error)
}

// Window is a browser the operator is logging in with.
type Window interface {
	// Snapshot captures the current cookies and local storage.
	Snapshot(ctx context.Context) (*StorageState, error)

	// Close shuts the browser down.
	Close() error
}

// Manager establishes and persists the logged-in browser state.
type Manager struct {
	// statePath is where the state file lives.
	statePath string

	// rootURL is the page the login window opens at.
	rootURL string

	launcher  Launcher
	confirmer Confirmer

	// out receives the operator instructions.
	out io.Writer

	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLauncher sets the browser used for interactive login.
func WithLauncher(l Launcher) ManagerOption {
	return func(m *Manager) {
		m.launcher = l
	}
}

// WithConfirmer sets the signal the login waits on.
func WithConfirmer(c Confirmer) ManagerOption {
	return func(m *Manager) {
		m.confirmer = c
	}
}

// WithOutput sets where operator instructions are printed.
func WithOutput(w io.Writer) ManagerOption {
	return func(m *Manager) {
		m.out = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager for the state file at statePath.
func NewManager(statePath, rootURL string, opts ...ManagerOption) *Manager {
	m := &Manager{
		statePath: statePath,
		rootURL:   rootURL,
		out:       io.Discard,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m
}

// StatePath returns the location of the state file.
func (m *Manager) StatePath() string {
	return m.statePath
}

// Status reports the current state without side effects.
func (m *Manager) Status() (State, error) {
	ok, err := stateExists(m.statePath)
	if err != nil {
		return Unauthenticated, fmt.Errorf("failed to check browser state: %w", err)
	}
	if ok {
		return Authenticated, nil
	}
	return Unauthenticated, nil
}

// Ensure returns Authenticated, running the interactive login first when no
// state file exists. With a state file present it never prompts.
func (m *Manager) Ensure(ctx context.Context) (State, error) {
	state, err := m.Status()
	if err != nil {
		return Unauthenticated, err
	}
	if state == Authenticated {
		m.logger.Debug("reusing persisted browser state", "path", m.statePath)
		return Authenticated, nil
	}

	if err := m.Login(ctx); err != nil {
		return Unauthenticated, err
	}
	return Authenticated, nil
}

// Login runs the interactive login and overwrites any existing state file.
func (m *Manager) Login(ctx context.Context) error {
	if m.launcher == nil {
		return ErrNoLauncher
	}
	if m.confirmer == nil {
		return ErrNoConfirmer
	}

	fmt.Fprintf(m.out, "No saved login at %s.\n", m.statePath)
	fmt.Fprintf(m.out, "A browser window is opening at %s.\n", m.rootURL)
	fmt.Fprintln(m.out, "Log in there, then press ENTER here to continue.")

	window, err := m.launcher.Launch(ctx, m.rootURL)
	if err != nil {
		return fmt.Errorf("failed to open login browser: %w", err)
	}
	defer func() {
		if cerr := window.Close(); cerr != nil {
			m.logger.Debug("failed to close login browser", "error", cerr)
		}
	}()

	if err := m.confirmer.Confirm(ctx); err != nil {
		return fmt.Errorf("login not confirmed: %w", err)
	}

	snapshot, err := window.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture browser state: %w", err)
	}
	if snapshot == nil {
		snapshot = &StorageState{}
	}
	if snapshot.IsEmpty() {
		m.logger.Warn("browser state has no cookies or storage; the login may not have completed")
	}

	if err := SaveState(m.statePath, snapshot); err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Login saved to %s.\n", m.statePath)
	m.logger.Info("browser state saved", "path", m.statePath, "count", len(snapshot.Cookies))
	return nil
}
