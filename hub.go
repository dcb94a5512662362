package main

import (
	"sync"
	"time"

	"github.com/oomph-ac/movement/session"
	"github.com/oomph-ac/movement/worker"
	"github.com/sirupsen/logrus"
)

// hub ticks every connected authoritative actor at the tick rate, spreading the work over a
// worker pool.
type hub struct {
	log  *logrus.Logger
	pool *worker.Pool

	mu      sync.Mutex
	servers map[*session.Server]struct{}
}

func newHub(log *logrus.Logger) *hub {
	return &hub{log: log, pool: worker.New(0), servers: make(map[*session.Server]struct{})}
}

func (h *hub) add(srv *session.Server) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.servers[srv] = struct{}{}
}

func (h *hub) run() {
	t := time.NewTicker(time.Second / tickRate)
	defer t.Stop()
	defer h.pool.Close()

	for range t.C {
		h.pool.Run(h.tickFuncs()...)
	}
}

func (h *hub) tickFuncs() []func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	fs := make([]func(), 0, len(h.servers))
	for srv := range h.servers {
		select {
		case <-srv.Done():
			delete(h.servers, srv)
			srv.Tick()
			_ = srv.Close()
			h.log.Infof("connection closed after %d moves (%d corrections, %d rejected), final position %v",
				srv.Processed(), srv.Corrections(), srv.Rejected(), srv.Component().State().Position())
			continue
		default:
		}
		fs = append(fs, srv.Tick)
	}
	return fs
}
