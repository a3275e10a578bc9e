package deathmatch

import (
	"context"

	"github.com/codetanks/codetanks/arenaserver/agent"
	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/game"
)

func systemAcquisition(ctx context.Context, deathmatch *DeathmatchGame, tc game.TickContext, report *game.TickReport) {
	deadline := tc.Deadline
	if deadline <= 0 {
		deadline = deathmatch.rules.TickDuration
	}

	tanks := deathmatch.world.Tanks()
	requests := make([]agent.Request, 0, len(tanks))

	for _, tank := range tanks {
		events := tank.LastEvents
		if events == nil {
			events = make([]protocol.Event, 0)
		}

		requests = append(requests, agent.Request{
			Key:       uint64(tank.ID),
			Transport: tank.Agent.GetTransport(),
			Payload: protocol.TickRequest{
				Match:  tc.Match,
				Tick:   tc.Tick,
				Tank:   tank.State(),
				Events: events,
			},
		})
	}

	responses := agent.Gather(ctx, deadline, requests)

	for _, tank := range tanks {
		response := responses[uint64(tank.ID)]
		if response.Err != nil {
			tank.AgentFailures++
			tank.Commands.Clear()

			report.AgentFailures = append(report.AgentFailures, game.AgentFailure{
				Tank:  uint64(tank.ID),
				Error: response.Err.Error(),
			})

			deathmatch.log.AddEntry(MakeLogEntryOfType(tc.Tick, EVENT_AGENT_FAILED, tank.ID, tank.ID))
			continue
		}

		tank.Commands.Push(response.Intent)
	}
}
