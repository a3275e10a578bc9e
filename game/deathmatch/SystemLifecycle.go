package deathmatch

// systemLifecycle spends the bullets that flew for too long.
func systemLifecycle(deathmatch *DeathmatchGame) {
	tick := deathmatch.ticknum

	for _, bullet := range deathmatch.world.Bullets() {
		if bullet.Lifecycle.IsDead() || !bullet.Lifecycle.IsExpired(tick) {
			continue
		}

		bullet.Lifecycle.SetDeath(tick)
		deathmatch.log.AddEntry(MakeLogEntryOfType(tick, EVENT_BULLET_SPENT, bullet.GetOwner(), bullet.ID))
	}
}
