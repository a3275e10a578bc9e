package agent

import "github.com/pkg/errors"

var (
	ErrAgentTimeout           = errors.New("agent did not answer before the tick deadline")
	ErrAgentUnreachable       = errors.New("agent is unreachable")
	ErrAgentMalformedResponse = errors.New("agent answered with a malformed intent")
)
