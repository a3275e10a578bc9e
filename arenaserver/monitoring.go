package arenaserver

import (
	"sync/atomic"
)

// startMonitoring reports the tick rate, agent failures and events of the
// match at the metrics client interval.
func (server *Server) startMonitoring() {
	if server.metrics == nil {
		return
	}

	server.metrics.Loop(func() {
		server.reportMetrics()
	})

	server.AddTearDownCall(func() error {
		server.reportMetrics()
		return server.metrics.TearDown()
	})
}

func (server *Server) reportMetrics() {
	fields := map[string]interface{}{
		"ticks":          server.tickCounter.GetAndReset(),
		"agent_failures": server.failureCounter.GetAndReset(),
		"events":         server.eventCounter.GetAndReset(),
		"alive":          int(atomic.LoadInt32(&server.alive)),
	}

	if err := server.metrics.WriteAppMetric("match", fields); err != nil {
		logger := server.logger()
		logger.Warn().Err(err).Msg("Could not write metrics")
	}
}
