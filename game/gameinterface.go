package game

import (
	"context"
	"time"
)

// TickContext carries everything a tick needs to know about the match it belongs to.
type TickContext struct {
	Match    string
	Tick     uint32
	Deadline time.Duration
}

type GameInterface interface {
	Step(ctx context.Context, tc TickContext) (TickReport, error)
	IsFinished() bool
	Result(status ResultStatus, cause error) Result
}
