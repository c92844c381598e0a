package log

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Redacted replaces the value of any attribute judged secret.
const Redacted = "***REDACTED***"

// secretKeys are masked on an exact, case-insensitive key match.
var secretKeys = map[string]struct{}{
	"authorization":       {},
	"proxy-authorization": {},
	"x-api-key":           {},
	"x-auth-token":        {},
	"api_key":             {},
	"apikey":              {},
	"api-key":             {},
	"session_id":          {},
	"sessionid":           {},
	"sid":                 {},
	"local_storage":       {},
	"storagestate":        {},
	"storage_state":       {},
}

// secretKeyFragments mask any key containing them. "session" and "key" are
// left out: mission sessions are logged under "session" and "primary_key"
// is not a secret.
var secretKeyFragments = []string{
	"cookie",
	"localstorage",
	"password",
	"passwd",
	"secret",
	"token",
	"credential",
}

// secretValues mask a string value whatever its key.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
	// login cookie pairs as they appear in a storage state or Cookie header
	regexp.MustCompile(`(?i)(^|;\s*)(next-auth|__secure-|__host-)[^=]*=`),
}

// SecureHandler masks login secrets in every attribute before handing the
// record to the wrapped handler. Groups are searched recursively.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next falls back to slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled defers to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle forwards a copy of r with secret attributes masked.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(redact(a))
		return true
	})
	return h.next.Handle(ctx, masked)
}

// WithAttrs masks attrs before they are bound to the wrapped handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SecureHandler{next: h.next.WithAttrs(redactAll(attrs))}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch {
	case a.Value.Kind() == slog.KindGroup:
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redactAll(a.Value.Group())...)}
	case keyIsSecret(a.Key):
		return slog.String(a.Key, Redacted)
	case a.Value.Kind() == slog.KindString && valueIsSecret(a.Value.String()):
		return slog.String(a.Key, Redacted)
	default:
		return a
	}
}

func redactAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redact(a)
	}
	return out
}

func keyIsSecret(key string) bool {
	key = strings.ToLower(key)
	if _, ok := secretKeys[key]; ok {
		return true
	}
	for _, fragment := range secretKeyFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

func valueIsSecret(v string) bool {
	for _, re := range secretValues {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
