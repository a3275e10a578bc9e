package agent

import (
	"context"

	"github.com/codetanks/codetanks/arenaserver/protocol"
)

// Func runs an agent in-process.
type Func func(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error)

func (f Func) RequestIntent(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error) {
	return f(ctx, req)
}

// Fixed answers the same intent on every tick.
func Fixed(intent protocol.Intent) Func {
	return func(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error) {
		return intent, nil
	}
}

// Silent never answers; it only returns once ctx is done.
func Silent() Func {
	return func(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error) {
		<-ctx.Done()
		return protocol.Intent{}, ErrAgentTimeout
	}
}
