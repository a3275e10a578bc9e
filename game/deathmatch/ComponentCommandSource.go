package deathmatch

import "github.com/codetanks/codetanks/arenaserver/protocol"

// CommandSource holds at most one pending intent; nil means no-op.
type CommandSource struct {
	pending *protocol.Intent
}

func (source *CommandSource) Push(intent protocol.Intent) {
	source.pending = &intent
}

func (source *CommandSource) Pop() (protocol.Intent, bool) {
	if source.pending == nil {
		return protocol.Intent{}, false
	}

	intent := *source.pending
	source.pending = nil

	return intent, true
}

func (source *CommandSource) Clear() {
	source.pending = nil
}

func (source CommandSource) HasPending() bool {
	return source.pending != nil
}
