package deathmatch

import (
	"github.com/pkg/errors"
)

// systemPhysics advances the simulation by one tick and returns the contacts
// that began during the step, in the order Box2D reported them.
func systemPhysics(deathmatch *DeathmatchGame) ([]RawContact, error) {
	for _, tank := range deathmatch.world.Tanks() {
		syncRadar(tank)
	}

	deathmatch.PhysicalWorld.Step(
		deathmatch.tickSeconds(),
		velocityIterations,
		positionIterations,
	)

	contacts := deathmatch.collisionListener.PopCollisions()

	for _, tank := range deathmatch.world.Tanks() {
		if !tank.GetPhysicalBody().IsFinite() {
			return nil, errors.Wrapf(ErrPhysicsDegenerate, "tank #%d", tank.ID)
		}
	}

	for _, bullet := range deathmatch.world.Bullets() {
		if !bullet.GetPhysicalBody().IsFinite() {
			return nil, errors.Wrapf(ErrPhysicsDegenerate, "bullet #%d", bullet.ID)
		}
	}

	return contacts, nil
}

// syncRadar puts the radar cone on the tank, pointing where the radar looks.
func syncRadar(tank *Tank) {
	chassis := tank.GetPhysicalBody()
	radar := tank.Radar.GetPhysicalBody()

	radar.GetBody().SetTransform(
		chassis.GetBody().GetPosition(),
		chassis.GetOrientation()+tank.Radar.Rotation,
	)
	radar.GetBody().SetLinearVelocity(chassis.GetBody().GetLinearVelocity())
}
