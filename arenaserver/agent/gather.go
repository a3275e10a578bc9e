package agent

import (
	"context"
	"sync"
	"time"

	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/common/utils"
	"github.com/pkg/errors"
)

// Request is one agent query of a tick; Key identifies the tank it is for.
type Request struct {
	Key       uint64
	Transport Transport
	Payload   protocol.TickRequest
}

// Response holds either an intent or the reason why there is none.
type Response struct {
	Key     uint64
	Intent  protocol.Intent
	Err     error
	Latency time.Duration
}

type collector struct {
	mu      sync.Mutex
	sealed  bool
	results map[uint64]Response
}

func (c *collector) put(res Response) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return false
	}

	c.results[res.Key] = res
	return true
}

func (c *collector) seal() map[uint64]Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sealed = true
	return c.results
}

// Gather queries every agent concurrently and returns once all answered or
// the deadline elapsed, whichever comes first. Answers arriving after the
// deadline are dropped; every request gets a Response.
func Gather(ctx context.Context, deadline time.Duration, requests []Request) map[uint64]Response {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	col := &collector{
		results: make(map[uint64]Response, len(requests)),
	}

	var wg sync.WaitGroup
	wg.Add(len(requests))

	for _, req := range requests {
		go func(req Request) {
			defer wg.Done()

			start := time.Now()
			intent, err := req.Transport.RequestIntent(ctx, req.Payload)
			if err == nil && ctx.Err() != nil {
				err = ErrAgentTimeout
			}

			if err == nil {
				if invalid := intent.Validate(); invalid != nil {
					intent = protocol.Intent{}
					err = errors.Wrap(ErrAgentMalformedResponse, invalid.Error())
				}
			}

			col.put(Response{
				Key:     req.Key,
				Intent:  intent,
				Err:     err,
				Latency: time.Since(start),
			})
		}(req)
	}

	utils.WaitContext(ctx, &wg)
	results := col.seal()

	for _, req := range requests {
		if _, ok := results[req.Key]; !ok {
			results[req.Key] = Response{
				Key:     req.Key,
				Err:     errors.Wrapf(ErrAgentTimeout, "no answer within %s", deadline),
				Latency: deadline,
			}
		}
	}

	return results
}
