package arenaserver

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/codetanks/codetanks/common/recording"
	"github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/utils"
	"github.com/codetanks/codetanks/game"
	"github.com/codetanks/codetanks/game/deathmatch"
	"github.com/pkg/errors"
)

// Run sets the match up and ticks until it is over, stopped or aborted.
// Only a setup failure is returned as an error: a match that started always
// yields a result, which is also recorded and published.
func (server *Server) Run(ctx context.Context) (game.Result, error) {
	desc := server.gameDescription

	utils.Debug("arena", "Resolving agents of match "+desc.GetId())
	agents, err := server.resolveAgents(ctx)
	if err != nil {
		return game.Result{}, err
	}

	arena := *desc.GetMapContainer()
	dm, err := deathmatch.NewDeathmatchGame(desc.GetId(), arena, server.rules, agents)
	if err != nil {
		return game.Result{}, errors.Wrap(err, "could not set the match up")
	}

	server.game = dm

	if err := server.recorder.RecordMetadata(desc.GetId(), &arena); err != nil {
		return game.Result{}, err
	}

	server.AddTearDownCall(func() error {
		return server.recorder.Close(desc.GetId())
	})

	server.startMonitoring()

	atomic.StoreInt32(&server.running, 1)
	defer atomic.StoreInt32(&server.running, 0)

	status, cause := server.tickUntilDone(ctx, dm)

	result := dm.Result(status, cause)

	if cause != nil {
		atomic.StoreInt32(&server.aborted, 1)
		logger := utils.Logger("core-loop")
		logger.Error().Err(cause).Str("match", desc.GetId()).Msg("Match aborted")
	}

	if err := server.recorder.Record(desc.GetId(), recording.EntryTypeResult, result); err != nil {
		utils.WarnWith(err)
	}

	server.publishResult(result)

	utils.Debug("arena", "Match "+desc.GetId()+" is over ("+string(status)+")")

	return result, nil
}

func (server *Server) tickUntilDone(ctx context.Context, dm *deathmatch.DeathmatchGame) (game.ResultStatus, error) {
	var ticker <-chan time.Time

	if server.tickspersec > 0 {
		tickduration := time.Second / time.Duration(server.tickspersec)
		t := time.NewTicker(tickduration)
		defer t.Stop()

		ticker = t.C
	}

	for !dm.IsFinished() {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return game.ResultStatusStopped, nil
			case <-server.stopticking:
				utils.Debug("core-loop", "Received stop ticking signal")
				return game.ResultStatusStopped, nil
			case <-ticker:
			}
		} else {
			select {
			case <-ctx.Done():
				return game.ResultStatusStopped, nil
			case <-server.stopticking:
				utils.Debug("core-loop", "Received stop ticking signal")
				return game.ResultStatusStopped, nil
			default:
			}
		}

		if err := server.doTick(ctx, dm); err != nil {
			return game.ResultStatusAborted, err
		}
	}

	return game.ResultStatusCompleted, nil
}

func (server *Server) doTick(ctx context.Context, dm *deathmatch.DeathmatchGame) error {
	turn := server.GetTurn().Next()
	server.setTurn(turn)

	if server.tickspersec > 0 && turn.GetSeq()%uint32(server.tickspersec) == 0 {
		utils.Debug("core-loop", "######## Tick ######## "+strconv.Itoa(int(turn.GetSeq())))
	}

	report, err := dm.Step(ctx, game.TickContext{
		Match:    server.gameDescription.GetId(),
		Tick:     turn.GetSeq(),
		Deadline: server.deadline,
	})
	if err != nil {
		return err
	}

	for _, event := range report.Events {
		if err := server.recorder.Record(server.gameDescription.GetId(), recording.EntryTypeEvent, event); err != nil {
			return errors.Wrap(err, "could not record event")
		}
	}

	for _, failure := range report.AgentFailures {
		logger := utils.Logger("core-loop")
		logger.Debug().
			Uint32("tick", report.Tick).
			Uint64("tank", failure.Tank).
			Str("error", failure.Error).
			Msg("Agent failed to answer")
	}

	server.tickCounter.Add(1)
	server.failureCounter.Add(len(report.AgentFailures))
	server.eventCounter.Add(len(report.Events))
	atomic.StoreInt32(&server.alive, int32(report.Alive))

	return nil
}

// Stop interrupts the match at the next tick boundary.
func (server *Server) Stop() {
	server.stopOnce.Do(func() {
		utils.Debug("arena-server", "Stop requested")
		close(server.stopticking)
	})
}

func (server *Server) AddTearDownCall(fn types.TearDownCallback) {
	server.tearDownCallbacksMutex.Lock()
	defer server.tearDownCallbacksMutex.Unlock()

	server.tearDownCallbacks = append(server.tearDownCallbacks, fn)
}

// TearDown runs the teardown callbacks, last registered first. It returns the
// first error met but runs all of them.
func (server *Server) TearDown() error {
	utils.Debug("arena", "teardown")

	server.tearDownCallbacksMutex.Lock()
	callbacks := server.tearDownCallbacks
	// Reset to avoid calling teardown callback multiple times
	server.tearDownCallbacks = make([]types.TearDownCallback, 0)
	server.tearDownCallbacksMutex.Unlock()

	var firstErr error
	for i := len(callbacks) - 1; i >= 0; i-- {
		if err := callbacks[i](); err != nil {
			utils.WarnWith(err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
