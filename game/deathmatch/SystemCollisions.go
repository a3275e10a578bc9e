package deathmatch

import (
	"github.com/codetanks/codetanks/arenaserver/protocol"
	commontypes "github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/utils/vector"
	"github.com/pkg/errors"
)

var descriptorType = commontypes.PhysicalBodyDescriptorType

// systemCollisions turns the contacts of the step into events for the tanks
// they concern. A bullet is spent by its first solid contact; later contacts
// involving it in the same tick are ignored.
func systemCollisions(deathmatch *DeathmatchGame, contacts []RawContact) error {
	for _, contact := range contacts {
		if deathmatch.isSpentBullet(contact.A) || deathmatch.isSpentBullet(contact.B) {
			continue
		}

		if err := deathmatch.classify(contact); err != nil {
			return err
		}
	}

	return nil
}

func (deathmatch *DeathmatchGame) isSpentBullet(descriptor commontypes.PhysicalBodyDescriptor) bool {
	if descriptor.Type != descriptorType.Bullet {
		return false
	}

	bullet, err := deathmatch.world.Bullet(EntityID(descriptor.ID))
	return err == nil && bullet.Lifecycle.IsDead()
}

func (deathmatch *DeathmatchGame) classify(contact RawContact) error {
	a, b := contact.A, contact.B

	switch {
	case commontypes.IsPair(a, b, descriptorType.Radar, descriptorType.Tank),
		commontypes.IsPair(a, b, descriptorType.Radar, descriptorType.Bullet),
		commontypes.IsPair(a, b, descriptorType.Radar, descriptorType.Wall):
		radar, detected := a, b
		if b.Type == descriptorType.Radar {
			radar, detected = b, a
		}

		return deathmatch.notify(EntityID(radar.ID), protocol.CollisionTypeRadar, detected, contact)

	case commontypes.IsPair(a, b, descriptorType.Tank, descriptorType.Bullet):
		tank, bullet := a, b
		if a.Type == descriptorType.Bullet {
			tank, bullet = b, a
		}

		if err := deathmatch.notify(EntityID(tank.ID), protocol.CollisionTypeBullet, bullet, contact); err != nil {
			return err
		}

		return deathmatch.spendBullet(EntityID(bullet.ID))

	case commontypes.IsPair(a, b, descriptorType.Tank, descriptorType.Wall):
		tank, wall := a, b
		if a.Type == descriptorType.Wall {
			tank, wall = b, a
		}

		return deathmatch.notify(EntityID(tank.ID), protocol.CollisionTypeWall, wall, contact)

	case commontypes.IsPair(a, b, descriptorType.Tank, descriptorType.Tank):
		if err := deathmatch.notify(EntityID(a.ID), protocol.CollisionTypeTank, b, contact); err != nil {
			return err
		}

		return deathmatch.notify(EntityID(b.ID), protocol.CollisionTypeTank, a, contact)

	case commontypes.IsPair(a, b, descriptorType.Bullet, descriptorType.Wall):
		bullet := a
		if a.Type == descriptorType.Wall {
			bullet = b
		}

		return deathmatch.spendBullet(EntityID(bullet.ID))
	}

	return nil
}

// notify pushes an event in the sink of the tank, describing the other entity.
func (deathmatch *DeathmatchGame) notify(tankID EntityID, collisionType protocol.CollisionType, other commontypes.PhysicalBodyDescriptor, contact RawContact) error {
	tank, err := deathmatch.world.Tank(tankID)
	if err != nil {
		return err
	}

	event, err := deathmatch.describe(collisionType, other, contact)
	if err != nil {
		return err
	}

	tank.Events.Push(event)
	return nil
}

func (deathmatch *DeathmatchGame) describe(collisionType protocol.CollisionType, descriptor commontypes.PhysicalBodyDescriptor, contact RawContact) (protocol.Event, error) {
	id := EntityID(descriptor.ID)

	var body *PhysicalBody

	switch descriptor.Type {
	case descriptorType.Tank:
		tank, err := deathmatch.world.Tank(id)
		if err != nil {
			return protocol.Event{}, err
		}
		body = tank.GetPhysicalBody()

	case descriptorType.Bullet:
		bullet, err := deathmatch.world.Bullet(id)
		if err != nil {
			return protocol.Event{}, err
		}
		body = bullet.GetPhysicalBody()

	case descriptorType.Wall:
		if _, err := deathmatch.world.Wall(id); err != nil {
			return protocol.Event{}, err
		}

		// walls are located where they were touched or seen
		return MakeHitEvent(collisionType, id, contact.Point, 0, vector.MakeNullVector2(), 0), nil

	default:
		return protocol.Event{}, errors.Wrapf(ErrEntityNotFound, "no %s entity can be described", descriptor.Type)
	}

	return MakeHitEvent(
		collisionType,
		id,
		body.GetPosition(),
		body.GetOrientation(),
		body.GetVelocity(),
		body.GetAngularVelocity(),
	), nil
}

func (deathmatch *DeathmatchGame) spendBullet(id EntityID) error {
	bullet, err := deathmatch.world.Bullet(id)
	if err != nil {
		return err
	}

	bullet.Lifecycle.SetDeath(deathmatch.ticknum)
	return nil
}
