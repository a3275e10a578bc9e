package deathmatch

import (
	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/game"
)

// systemHealth drains the event sinks. Bullet hits cost the target the damage
// of the bullet and credit it to the tank that fired it, even if that tank has
// fallen since.
func systemHealth(deathmatch *DeathmatchGame, report *game.TickReport) error {
	tick := deathmatch.ticknum

	for _, tank := range deathmatch.world.Tanks() {
		events := tank.Events.Drain()

		for _, event := range events {
			report.Events = append(report.Events, game.TankEvent{
				Tick:  tick,
				Tank:  uint64(tank.ID),
				Event: event,
			})

			if event.Info.CollisionType != protocol.CollisionTypeBullet {
				continue
			}

			if err := impactWithDamage(deathmatch, tank, EntityID(event.Info.Entity)); err != nil {
				return err
			}
		}

		if events == nil {
			events = make([]protocol.Event, 0)
		}
		tank.LastEvents = events
	}

	return nil
}

func impactWithDamage(deathmatch *DeathmatchGame, target *Tank, bulletID EntityID) error {
	bullet, err := deathmatch.world.Bullet(bulletID)
	if err != nil {
		return err
	}

	shooter, err := deathmatch.world.TankRecord(bullet.GetOwner())
	if err != nil {
		return err
	}

	damage := bullet.Impactor.GetDamage()

	target.Health.AddLife(-1 * damage)
	shooter.DamageDealt += damage

	deathmatch.log.AddEntry(MakeLogEntryOfType(deathmatch.ticknum, EVENT_TANK_HIT, shooter.ID, target.ID))

	if target.Health.IsDepleted() && target.IsAlive() {
		target.Lifecycle.SetDeath(deathmatch.ticknum)
		deathmatch.log.AddEntry(MakeLogEntryOfType(deathmatch.ticknum, EVENT_TANK_DESTROYED, shooter.ID, target.ID))
	}

	return nil
}
