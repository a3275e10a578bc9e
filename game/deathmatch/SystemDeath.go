package deathmatch

import (
	"github.com/codetanks/codetanks/game"
)

// systemDeath purges the entities flagged during the tick. Tanks go to the
// fallen table with their radar; their bullets keep flying.
func systemDeath(deathmatch *DeathmatchGame, report *game.TickReport) error {
	for _, tank := range deathmatch.world.Tanks() {
		if tank.IsAlive() {
			continue
		}

		if _, err := deathmatch.world.RemoveTank(tank.ID); err != nil {
			return err
		}

		deathmatch.destroyBody(tank.Radar.GetPhysicalBody())
		deathmatch.destroyBody(tank.GetPhysicalBody())

		report.Destroyed = append(report.Destroyed, uint64(tank.ID))
	}

	for _, bullet := range deathmatch.world.Bullets() {
		if !bullet.Lifecycle.IsDead() {
			continue
		}

		if _, err := deathmatch.world.RemoveBullet(bullet.ID); err != nil {
			return err
		}

		deathmatch.destroyBody(bullet.GetPhysicalBody())
	}

	return nil
}
