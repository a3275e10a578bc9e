package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/codetanks/codetanks/arenaserver"
	"github.com/codetanks/codetanks/arenaserver/agent"
	"github.com/codetanks/codetanks/arenaserver/config"
	"github.com/codetanks/codetanks/common/influxdb"
	"github.com/codetanks/codetanks/common/mq"
	"github.com/codetanks/codetanks/common/recording"
	"github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/utils"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("arena-server", pflag.ExitOnError)

	configFile := flags.String("config", "", "Configuration file (json or yaml)")
	flags.String("game", "", "Match description file; required")
	flags.String("log_level", "info", "Log level (debug, info, warn, error)")
	flags.String("agent.resolver", "dns", "How agent containers are resolved (dns or docker)")
	flags.Duration("agent.deadline", 0, "Time given to agents to answer each tick")
	flags.String("record.dir", "", "Directory receiving match records; stdout when empty")
	flags.String("mq.url", "", "Message broker websocket URL; disabled when empty")
	flags.String("influx.addr", "", "InfluxDB address; metrics are logged when empty")
	flags.String("healthcheck.addr", "", "Health check listen address; disabled when empty")

	_ = flags.Parse(os.Args[1:])

	conf, err := config.Load(*configFile, flags)
	if err != nil {
		utils.FailWith(err)
	}

	if err := utils.SetLogLevel(conf.LogLevel); err != nil {
		utils.FailWith(errors.Wrap(err, "invalid log level"))
	}

	utils.Assert(conf.Game != "", "game must be set")

	desc, err := types.LoadGameDescription(conf.Game)
	if err != nil {
		utils.FailWith(err)
	}

	utils.Debug("arena-server", "CodeTanks arena server "+utils.GetVersion()+" match #"+desc.GetId())

	resolver, err := makeResolver(conf.Agent)
	if err != nil {
		utils.FailWith(err)
	}

	recorder, err := makeRecorder(conf.Record)
	if err != nil {
		utils.FailWith(err)
	}

	metrics, err := influxdb.NewClient("arena-server", influxdb.Config{
		Addr:     conf.Influx.Addr,
		Database: conf.Influx.Database,
		Interval: conf.Influx.Interval,
	})
	if err != nil {
		utils.FailWith(err)
	}

	opts := arenaserver.Options{
		Rules:    conf.Rules,
		Deadline: conf.Agent.Deadline,
		Resolver: resolver,
		Recorder: recorder,
		Metrics:  metrics,
	}

	var brokerclient *mq.Client
	if conf.MQ.URL != "" {
		brokerclient, err = mq.NewClient(conf.MQ.URL, conf.MQ.Timeout)
		if err != nil {
			utils.FailWith(errors.Wrap(err, "could not connect to message broker on "+conf.MQ.URL))
		}

		opts.Publisher = brokerclient
	}

	srv, err := arenaserver.NewServer(desc, opts)
	if err != nil {
		utils.FailWith(err)
	}

	if brokerclient != nil {
		srv.AddTearDownCall(brokerclient.Close)

		err := brokerclient.Subscribe("game", "stop", func(msg mq.BrokerMessage) {
			var payload struct {
				Id string `json:"id"`
			}

			if err := json.Unmarshal(msg.Data, &payload); err != nil {
				utils.WarnWith(errors.Wrap(err, "invalid game:stop payload "+string(msg.Data)))
				return
			}

			if payload.Id == desc.GetId() {
				utils.Debug("mq", "Stop requested by the message broker")
				srv.Stop()
			}
		})
		if err != nil {
			utils.FailWith(err)
		}

		if err := StartMQHealthCheck(brokerclient, srv); err != nil {
			utils.FailWith(err)
		}
	}

	if conf.HealthCheck.Addr != "" {
		hc := NewHealthCheck(conf.HealthCheck.Addr, srv, brokerclient)
		if err := hc.Listen(); err != nil {
			utils.FailWith(err)
		}

		srv.AddTearDownCall(hc.Stop)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := srv.Run(ctx)
	if err != nil {
		_ = srv.TearDown()
		utils.FailWith(err)
	}

	if err := srv.TearDown(); err != nil {
		utils.WarnWith(err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	utils.Check(err, "could not serialize match result")

	fmt.Println(string(out))
}

func makeResolver(conf config.AgentConfig) (agent.Resolver, error) {
	if conf.Resolver == "docker" {
		return agent.NewDockerResolver(conf.Network, conf.Port, conf.Path)
	}

	return agent.NameResolver{Port: conf.Port, Path: conf.Path}, nil
}

func makeRecorder(conf config.RecordConfig) (recording.Recorder, error) {
	if conf.Dir == "" {
		return recording.MakeStreamRecorder(os.Stderr), nil
	}

	return recording.MakeMultiMatchRecorder(conf.Dir, conf.Compress)
}
