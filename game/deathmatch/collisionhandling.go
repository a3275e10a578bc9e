package deathmatch

import (
	"github.com/ByteArena/box2d"
	commontypes "github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/utils/vector"
)

// RawContact is a contact copied out of Box2D at BeginContact time; Box2D
// recycles its contact objects so nothing may hold on to them.
type RawContact struct {
	A      commontypes.PhysicalBodyDescriptor
	B      commontypes.PhysicalBodyDescriptor
	Point  vector.Vector2 // px
	Normal vector.Vector2
	Sensor bool
}

type collisionFilter struct { /* implements box2d.B2World.B2ContactFilterInterface */
	game *DeathmatchGame
}

func (filter *collisionFilter) ShouldCollide(fixtureA *box2d.B2Fixture, fixtureB *box2d.B2Fixture) bool {
	descriptorA, ok := fixtureA.GetBody().GetUserData().(commontypes.PhysicalBodyDescriptor)
	if !ok {
		return false
	}

	descriptorB, ok := fixtureB.GetBody().GetUserData().(commontypes.PhysicalBodyDescriptor)
	if !ok {
		return false
	}

	return filter.game.shouldCollide(descriptorA, descriptorB)
}

func (deathmatch *DeathmatchGame) shouldCollide(descriptorA, descriptorB commontypes.PhysicalBodyDescriptor) bool {
	collidableA, ok := collidableOf(descriptorA)
	if !ok {
		return false
	}

	collidableB, ok := collidableOf(descriptorB)
	if !ok {
		return false
	}

	if !collidableA.Accepts(collidableB) {
		return false
	}

	tankType := commontypes.PhysicalBodyDescriptorType.Tank

	// a radar never detects its own tank
	if commontypes.IsPair(descriptorA, descriptorB, commontypes.PhysicalBodyDescriptorType.Radar, tankType) {
		return descriptorA.ID != descriptorB.ID
	}

	// a bullet never hits the tank that fired it
	if commontypes.IsPair(descriptorA, descriptorB, commontypes.PhysicalBodyDescriptorType.Bullet, tankType) {
		bulletDescriptor, tankDescriptor := descriptorA, descriptorB
		if descriptorA.Type == tankType {
			bulletDescriptor, tankDescriptor = descriptorB, descriptorA
		}

		bullet, err := deathmatch.world.Bullet(EntityID(bulletDescriptor.ID))
		if err != nil {
			return false
		}

		return bullet.GetOwner() != EntityID(tankDescriptor.ID)
	}

	return true
}

func newCollisionFilter(game *DeathmatchGame) *collisionFilter {
	return &collisionFilter{
		game: game,
	}
}

type collisionListener struct { /* implements box2d.B2World.B2ContactListenerInterface */
	pixelsPerMeter  float64
	collisionbuffer []RawContact
}

func (listener *collisionListener) PopCollisions() []RawContact {
	defer func() { listener.collisionbuffer = nil }()
	return listener.collisionbuffer
}

/// Called when two fixtures begin to touch.
func (listener *collisionListener) BeginContact(contact box2d.B2ContactInterface) { // contact has to be backed by a pointer
	fixtureA := contact.GetFixtureA()
	fixtureB := contact.GetFixtureB()

	descriptorA, ok := fixtureA.GetBody().GetUserData().(commontypes.PhysicalBodyDescriptor)
	if !ok {
		return
	}

	descriptorB, ok := fixtureB.GetBody().GetUserData().(commontypes.PhysicalBodyDescriptor)
	if !ok {
		return
	}

	raw := RawContact{
		A:      descriptorA,
		B:      descriptorB,
		Sensor: fixtureA.IsSensor() || fixtureB.IsSensor(),
	}

	wallType := commontypes.PhysicalBodyDescriptorType.Wall

	if raw.Sensor {
		// a detected wall is located at its point nearest to the observer
		switch wallType {
		case descriptorA.Type:
			raw.Point = closestPoint(fixtureA, contact.GetChildIndexA(), fixtureB.GetBody().GetPosition()).Scale(listener.pixelsPerMeter)
		case descriptorB.Type:
			raw.Point = closestPoint(fixtureB, contact.GetChildIndexB(), fixtureA.GetBody().GetPosition()).Scale(listener.pixelsPerMeter)
		}
	} else {
		worldManifold := box2d.MakeB2WorldManifold()
		contact.GetWorldManifold(&worldManifold)

		raw.Point = vector.FromB2Vec2(worldManifold.Points[0]).Scale(listener.pixelsPerMeter)
		raw.Normal = vector.FromB2Vec2(worldManifold.Normal)
	}

	listener.collisionbuffer = append(listener.collisionbuffer, raw)
}

// closestPoint returns the point of the fixture child nearest to target, in meters.
func closestPoint(fixture *box2d.B2Fixture, childIndex int, target box2d.B2Vec2) vector.Vector2 {
	point := box2d.MakeB2CircleShape()

	input := box2d.MakeB2DistanceInput()
	input.ProxyA.Set(fixture.GetShape(), childIndex)
	input.TransformA = fixture.GetBody().GetTransform()
	input.ProxyB.Set(&point, 0)
	input.TransformB.Set(target, 0)

	cache := box2d.MakeB2SimplexCache()
	output := box2d.MakeB2DistanceOutput()
	box2d.B2Distance(&output, &cache, &input)

	return vector.FromB2Vec2(output.PointA)
}

/// Called when two fixtures cease to touch.
func (listener *collisionListener) EndContact(contact box2d.B2ContactInterface) { // contact has to be backed by a pointer
}

/// Called before the solver; not called for sensors.
func (listener *collisionListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) { // contact has to be backed by a pointer
}

/// Called after the solver, only for touching solid contacts.
func (listener *collisionListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) { // contact has to be backed by a pointer
}

func newCollisionListener(pixelsPerMeter float64) *collisionListener {
	return &collisionListener{
		pixelsPerMeter: pixelsPerMeter,
	}
}
