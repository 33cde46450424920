// Package panels holds the role-specific views of the client: what each role
// sees, the operations it may perform, and the lifecycle of its notification
// channel. A panel is mounted with a context; unmounting cancels that
// context, which drops any still-in-flight fetch so a late response can never
// touch a view the user has already left.
package panels

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"food-delivery-client/api"
	"food-delivery-client/config"
	"food-delivery-client/models"
	"food-delivery-client/session"
)

// Notifier surfaces blocking notices to the user, the alert() analog. All
// user-facing errors go through it; nothing else does.
type Notifier interface {
	Notice(format string, args ...any)
}

// NoticeFunc adapts a function to the Notifier interface.
type NoticeFunc func(format string, args ...any)

func (f NoticeFunc) Notice(format string, args ...any) { f(format, args...) }

// Deps is everything a panel needs, injected by the shell.
type Deps struct {
	API      *api.Client
	Session  *session.Session
	Config   *config.Config
	Notifier Notifier
	Logger   *slog.Logger
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (d *Deps) notice(format string, args ...any) {
	if d.Notifier != nil {
		d.Notifier.Notice(format, args...)
	}
}

// Panel is one role-specific view. Mount starts fetches and long-lived
// resources; Close tears them down.
type Panel interface {
	Mount(ctx context.Context) error
	Render(w io.Writer)
	Close()
}

// Defaults used when the user profile carries no address or coordinates.
var (
	defaultAddress  = "123 Main St, City, State"
	defaultLocation = models.Location{Lat: 40.7128, Lng: -74.0060}
)

// fallbackPanel renders a static message for roles the client does not know.
type fallbackPanel struct {
	userType models.UserType
}

func (p *fallbackPanel) Mount(ctx context.Context) error { return nil }

func (p *fallbackPanel) Render(w io.Writer) {
	fmt.Fprintf(w, "Unknown user type %q\n", p.userType)
}

func (p *fallbackPanel) Close() {}
