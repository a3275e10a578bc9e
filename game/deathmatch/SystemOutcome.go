package deathmatch

import (
	"github.com/codetanks/codetanks/game"
)

// systemOutcome ends the match when at most one tank stands or when the tick
// limit is reached.
func systemOutcome(deathmatch *DeathmatchGame, report *game.TickReport) {
	alive := deathmatch.world.AliveCount()

	if alive <= 1 || int(deathmatch.ticknum) >= deathmatch.rules.MaxTicks {
		deathmatch.finished = true
	}

	report.Alive = alive
	report.Finished = deathmatch.finished
}
