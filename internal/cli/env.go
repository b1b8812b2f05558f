package cli

import (
	"errors"
	"io"
	"sync"

	"github.com/xeno347/supervisor-final/internal/interfaces"
	"github.com/xeno347/supervisor-final/internal/notify"
	"github.com/xeno347/supervisor-final/internal/session"
	"github.com/xeno347/supervisor-final/internal/store"
	"github.com/xeno347/supervisor-final/internal/triplog"
)

// Env carries the wired dependencies shared by every command. It is filled
// by the entrypoint before a command runs.
type Env struct {
	Config   *store.Config
	Fetcher  interfaces.OrderFetcher
	Identity interfaces.IdentityProvider
	Session  *session.Store
	Push     notify.Native
	Journal  *triplog.Journal
}

var errNoSession = errors.New("session store is not available")

// syncWriter serializes writes coming from the stream and poll goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
