package main

import (
	"time"

	"github.com/codetanks/codetanks/arenaserver"
	"github.com/codetanks/codetanks/common/mq"
	"github.com/codetanks/codetanks/common/utils"
)

var (
	startedAt = time.Now()
)

type healthReport struct {
	Id      string `json:"id"`
	Health  string `json:"health"`
	Running bool   `json:"running"`
	Tick    uint32 `json:"tick"`
	Uptime  string `json:"uptime"`
}

// StartMQHealthCheck answers game:healthcheck requests on game:healthcheck-res.
func StartMQHealthCheck(brokerclient *mq.Client, srv *arenaserver.Server) error {
	id := srv.GetGameDescription().GetId()

	return brokerclient.Subscribe("game", "healthcheck", func(msg mq.BrokerMessage) {
		var status = "OK"

		if srv.IsAborted() {
			status = "NOK"
		}

		if err := brokerclient.Ping(); err != nil {
			status = "NOK"
		}

		err := brokerclient.Publish("game", "healthcheck-res", healthReport{
			Id:      id,
			Health:  status,
			Running: srv.IsRunning(),
			Tick:    srv.GetTurn().GetSeq(),
			Uptime:  time.Since(startedAt).Round(time.Second).String(),
		})

		if err != nil {
			utils.WarnWith(err)
		}
	})
}
