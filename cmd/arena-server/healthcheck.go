package main

import (
	"github.com/codetanks/codetanks/arenaserver"
	"github.com/codetanks/codetanks/common/healthcheck"
	"github.com/codetanks/codetanks/common/mq"
)

func NewHealthCheck(addr string, srv *arenaserver.Server, brokerclient *mq.Client) *healthcheck.HealthCheckServer {
	healthCheckServer := healthcheck.NewHealthCheckServer(addr)

	srv.RegisterHealthChecks(healthCheckServer)

	if brokerclient != nil {
		healthCheckServer.Register("mq", func() (err error, ok bool) {
			pingErr := brokerclient.Ping()

			if pingErr != nil {
				return pingErr, false
			} else {
				return nil, true
			}
		})
	}

	return healthCheckServer
}
