package arenaserver

import (
	"github.com/codetanks/codetanks/common/healthcheck"
	"github.com/pkg/errors"
)

// RegisterHealthChecks reports the arena unhealthy once its match got aborted.
func (server *Server) RegisterHealthChecks(hc *healthcheck.HealthCheckServer) {
	hc.Register("arena", func() (error, bool) {
		if server.IsAborted() {
			return errors.New("match " + server.gameDescription.GetId() + " was aborted"), false
		}

		return nil, true
	})
}
