package panels_test

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"food-delivery-client/api"
	"food-delivery-client/apitest"
	"food-delivery-client/config"
	"food-delivery-client/models"
	"food-delivery-client/panels"
	"food-delivery-client/session"
)

// recorder collects blocking notices for assertions.
type recorder struct {
	mu      sync.Mutex
	notices []string
}

func (r *recorder) Notice(format string, args ...any) {
	r.mu.Lock()
	r.notices = append(r.notices, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recorder) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notices {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newDeps builds panel dependencies wired to the fake platform, logged in as
// user.
func newDeps(t *testing.T, srv *apitest.Server, user models.User) (panels.Deps, *recorder) {
	t.Helper()
	sess := session.New(nil)
	require.NoError(t, sess.Login(&user, srv.TokenFor(user)))

	cfg := &config.Config{
		BackendURL:       srv.URL(),
		LocationInterval: 10 * time.Millisecond,
	}
	rec := &recorder{}
	deps := panels.Deps{
		API:      api.NewClient(cfg.APIBase(), sess),
		Session:  sess,
		Config:   cfg,
		Notifier: rec,
	}
	return deps, rec
}
