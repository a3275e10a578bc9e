package deathmatch

import (
	"github.com/ByteArena/box2d"
	commontypes "github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/utils/vector"
)

type Bullet struct {
	ID        EntityID
	Owned     Owned
	Impactor  Impactor
	Lifecycle *Lifecycle

	physicalBody *PhysicalBody
}

func (bullet *Bullet) GetPhysicalBody() *PhysicalBody {
	return bullet.physicalBody
}

func (bullet *Bullet) GetOwner() EntityID {
	return bullet.Owned.GetOwner()
}

func (deathmatch *DeathmatchGame) NewEntityBullet(ownerid EntityID, position vector.Vector2, velocity vector.Vector2) *Bullet {
	rules := deathmatch.rules
	id := deathmatch.world.allocateID()

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.AllowSleep = false
	bodydef.FixedRotation = true

	bodydef.Position.Set(rules.toMeters(position.GetX()), rules.toMeters(position.GetY()))
	bodydef.LinearVelocity = box2d.MakeB2Vec2(rules.toMeters(velocity.GetX()), rules.toMeters(velocity.GetY()))

	body := deathmatch.PhysicalWorld.CreateBody(&bodydef)
	body.SetLinearDamping(0.0) // no aerodynamic drag

	shape := box2d.MakeB2CircleShape()
	shape.SetRadius(rules.toMeters(rules.BulletRadius))

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = 1.0
	body.CreateFixtureFromDef(&fixturedef)
	body.SetUserData(commontypes.MakePhysicalBodyDescriptor(
		commontypes.PhysicalBodyDescriptorType.Bullet,
		uint64(id),
	))
	body.SetBullet(true)

	bullet := &Bullet{
		ID:        id,
		Owned:     Owned{owner: ownerid},
		Impactor:  Impactor{damage: rules.BulletDamage},
		Lifecycle: NewLifecycle(deathmatch.ticknum, rules.BulletMaxAge),
		physicalBody: &PhysicalBody{
			body:           body,
			pixelsPerMeter: rules.PixelsPerMeter,
		},
	}

	deathmatch.world.InsertBullet(bullet)

	return bullet
}
