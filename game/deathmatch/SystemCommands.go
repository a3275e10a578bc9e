package deathmatch

import (
	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/common/utils/number"
	"github.com/codetanks/codetanks/common/utils/vector"
)

func systemCommands(deathmatch *DeathmatchGame) {
	for _, tank := range deathmatch.world.Tanks() {
		intent, ok := tank.Commands.Pop()
		if ok {
			applySteering(deathmatch, tank, intent)
			applyGun(deathmatch, tank, intent)
			applyRadar(deathmatch, tank, intent)
		}

		if ok && intent.Fire && tank.Shooting.CanShoot() && !tank.Gun.Locked {
			fire(deathmatch, tank)
		}

		// every tick, firing ones included
		tank.Shooting.Cool()
	}
}

func applySteering(deathmatch *DeathmatchGame, tank *Tank, intent protocol.Intent) {
	rules := deathmatch.rules
	body := tank.GetPhysicalBody()

	if !number.IsZero(intent.Rotate) {
		rotation := number.ClampAbs(intent.Rotate, rules.MaxTankRotation)
		body.SetOrientation(normalizeAngle(body.GetOrientation() + rotation))
	}

	move := number.Clamp(intent.Move, -1, 1)
	target := vector.MakeHeadingVector2(body.GetOrientation()).Scale(move * rules.MaxSpeed)

	body.ApplyVelocityChange(target.Sub(body.GetVelocity()))
}

func applyGun(deathmatch *DeathmatchGame, tank *Tank, intent protocol.Intent) {
	if intent.LockGun != nil {
		tank.Gun.Locked = *intent.LockGun
	}

	if tank.Gun.Locked {
		return
	}

	turn := number.ClampAbs(intent.TurnGun, deathmatch.rules.MaxGunRotation)
	tank.Gun.Rotation = normalizeAngle(tank.Gun.Rotation + turn)
}

func applyRadar(deathmatch *DeathmatchGame, tank *Tank, intent protocol.Intent) {
	if intent.LockRadar != nil {
		tank.Radar.Locked = *intent.LockRadar
	}

	if tank.Radar.Locked {
		return
	}

	turn := number.ClampAbs(intent.TurnRadar, deathmatch.rules.MaxRadarRotation)
	tank.Radar.Rotation = normalizeAngle(tank.Radar.Rotation + turn)
}

// fire spawns a bullet at the muzzle, in the direction the gun points.
func fire(deathmatch *DeathmatchGame, tank *Tank) *Bullet {
	rules := deathmatch.rules
	body := tank.GetPhysicalBody()

	heading := vector.MakeHeadingVector2(body.GetOrientation() + tank.Gun.Rotation)
	muzzle := body.GetPosition().Add(heading.Scale(rules.BarrelLength))

	bullet := deathmatch.NewEntityBullet(tank.ID, muzzle, heading.Scale(rules.MuzzleSpeed))
	tank.Shooting.Shot()

	deathmatch.log.AddEntry(MakeLogEntryOfType(deathmatch.ticknum, EVENT_SHOT_FIRED, tank.ID, bullet.ID))

	return bullet
}
