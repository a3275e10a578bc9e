package arenaserver

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codetanks/codetanks/arenaserver/agent"
	"github.com/codetanks/codetanks/common/influxdb"
	"github.com/codetanks/codetanks/common/recording"
	"github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/utils"
	"github.com/codetanks/codetanks/game"
	"github.com/codetanks/codetanks/game/deathmatch"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Publisher is the part of the message broker client the server needs.
type Publisher interface {
	Publish(channel string, topic string, payload interface{}) error
}

type Options struct {
	Rules deathmatch.Rules

	// Deadline bounds the wait for agent answers on every tick.
	Deadline time.Duration

	// Transports by tank name take precedence over endpoint resolution.
	Transports map[string]agent.Transport
	Resolver   agent.Resolver
	HTTPClient *http.Client

	Recorder  recording.Recorder
	Publisher Publisher
	Metrics   *influxdb.Client
}

type Server struct {
	gameDescription types.GameDescriptionInterface
	rules           deathmatch.Rules
	deadline        time.Duration
	tickspersec     int

	transports map[string]agent.Transport
	resolver   agent.Resolver
	httpClient *http.Client

	recorder  recording.Recorder
	publisher Publisher
	metrics   *influxdb.Client

	game *deathmatch.DeathmatchGame

	currentturn      utils.Tickturn
	currentturnmutex sync.Mutex

	stopticking chan struct{}
	stopOnce    sync.Once
	running     int32
	aborted     int32

	tickCounter    *influxdb.Counter
	failureCounter *influxdb.Counter
	eventCounter   *influxdb.Counter
	alive          int32

	tearDownCallbacks      []types.TearDownCallback
	tearDownCallbacksMutex sync.Mutex
}

func NewServer(gameDescription types.GameDescriptionInterface, opts Options) (*Server, error) {
	rules := opts.Rules
	if gameDescription.GetMaxTicks() > 0 {
		rules.MaxTicks = gameDescription.GetMaxTicks()
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = agent.NameResolver{Port: 8080, Path: "/command"}
	}

	recorder := opts.Recorder
	if recorder == nil {
		recorder = recording.MakeEmptyRecorder()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Server{
		gameDescription: gameDescription,
		rules:           rules,
		deadline:        opts.Deadline,
		tickspersec:     gameDescription.GetTps(),

		transports: opts.Transports,
		resolver:   resolver,
		httpClient: httpClient,

		recorder:  recorder,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,

		stopticking: make(chan struct{}),

		tickCounter:    influxdb.NewCounter(),
		failureCounter: influxdb.NewCounter(),
		eventCounter:   influxdb.NewCounter(),
	}, nil
}

func (server *Server) GetTicksPerSecond() int {
	return server.tickspersec
}

func (server *Server) GetGameDescription() types.GameDescriptionInterface {
	return server.gameDescription
}

// GetGame is nil until the match is set up by Run.
func (server *Server) GetGame() *deathmatch.DeathmatchGame {
	return server.game
}

func (server *Server) IsRunning() bool {
	return atomic.LoadInt32(&server.running) == 1
}

func (server *Server) IsAborted() bool {
	return atomic.LoadInt32(&server.aborted) == 1
}

func (server *Server) setTurn(turn utils.Tickturn) {
	server.currentturnmutex.Lock()
	server.currentturn = turn
	server.currentturnmutex.Unlock()
}

func (server *Server) GetTurn() utils.Tickturn {
	server.currentturnmutex.Lock()
	defer server.currentturnmutex.Unlock()

	return server.currentturn
}

// resolveAgents gives every contestant a transport, in description order.
func (server *Server) resolveAgents(ctx context.Context) ([]agent.AgentProxy, error) {
	contestants := server.gameDescription.GetContestants()
	agents := make([]agent.AgentProxy, 0, len(contestants))

	for _, contestant := range contestants {
		transport, ok := server.transports[contestant.Name]

		if !ok {
			endpoint := contestant.Endpoint

			if endpoint == "" {
				resolved, err := server.resolver.Resolve(ctx, contestant.Container)
				if err != nil {
					return nil, errors.Wrapf(err, "could not resolve the agent of %s", contestant.Name)
				}

				endpoint = resolved
			}

			transport = agent.NewHTTPTransport(endpoint, server.httpClient)
			utils.Debug("arena", "Agent of "+contestant.Name+" reachable at "+endpoint)
		}

		agents = append(agents, agent.MakeAgentProxy(contestant.Name, contestant.Container, transport))
	}

	return agents, nil
}

func (server *Server) publishResult(result game.Result) {
	if server.publisher == nil {
		return
	}

	if err := server.publisher.Publish("game", "result", result); err != nil {
		logger := server.logger()
		logger.Error().Err(err).Msg("Could not publish match result")
	}
}

func (server *Server) logger() *zerolog.Logger {
	logger := utils.Logger("arena").With().Str("match", server.gameDescription.GetId()).Logger()
	return &logger
}
