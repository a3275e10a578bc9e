package deathmatch

import (
	"math"

	"github.com/ByteArena/box2d"
	"github.com/codetanks/codetanks/arenaserver/agent"
	"github.com/codetanks/codetanks/arenaserver/protocol"
	commontypes "github.com/codetanks/codetanks/common/types"
	"github.com/codetanks/codetanks/common/utils/vector"
)

// Gun rotation is relative to the chassis. It has no body of its own.
type Gun struct {
	Locked   bool
	Rotation float64
}

// Radar rotation is relative to the chassis; its sensor body follows the tank.
type Radar struct {
	Locked       bool
	Rotation     float64
	physicalBody *PhysicalBody
}

func (r Radar) GetPhysicalBody() *PhysicalBody {
	return r.physicalBody
}

type Tank struct {
	ID    EntityID
	Agent agent.AgentProxy

	Gun       Gun
	Radar     Radar
	Shooting  *Shooting
	Health    *Health
	Lifecycle *Lifecycle

	DamageDealt   float64
	AgentFailures int

	Commands   CommandSource
	Events     EventSink
	LastEvents []protocol.Event

	physicalBody *PhysicalBody
}

func (tank *Tank) GetPhysicalBody() *PhysicalBody {
	return tank.physicalBody
}

func (tank *Tank) IsAlive() bool {
	return !tank.Lifecycle.IsDead()
}

func (tank *Tank) State() protocol.TankState {
	position := tank.physicalBody.GetPosition()
	velocity := tank.physicalBody.GetVelocity()

	return protocol.TankState{
		ID:            uint64(tank.ID),
		Name:          tank.Agent.GetName(),
		X:             position.GetX(),
		Y:             position.GetY(),
		Rotation:      tank.physicalBody.GetOrientation(),
		GunRotation:   tank.Gun.Rotation,
		RadarRotation: tank.Radar.Rotation,
		GunLocked:     tank.Gun.Locked,
		RadarLocked:   tank.Radar.Locked,
		Health:        tank.Health.GetLife(),
		Cooldown:      tank.Shooting.GetCooldown(),
		Linvel:        protocol.Vec{X: velocity.GetX(), Y: velocity.GetY()},
	}
}

func (deathmatch *DeathmatchGame) NewEntityTank(ag agent.AgentProxy, position vector.Vector2, angle float64) *Tank {
	rules := deathmatch.rules
	id := deathmatch.world.allocateID()

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Position.Set(rules.toMeters(position.GetX()), rules.toMeters(position.GetY()))
	bodydef.Angle = angle
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.AllowSleep = false
	bodydef.FixedRotation = true

	body := deathmatch.PhysicalWorld.CreateBody(&bodydef)

	shape := box2d.MakeB2CircleShape()
	shape.SetRadius(rules.toMeters(rules.TankRadius))

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = rules.TankDensity
	body.CreateFixtureFromDef(&fixturedef)
	body.SetUserData(commontypes.MakePhysicalBodyDescriptor(
		commontypes.PhysicalBodyDescriptorType.Tank,
		uint64(id),
	))
	body.SetBullet(false)

	tank := &Tank{
		ID:        id,
		Agent:     ag,
		Shooting:  NewShooting(rules.GunCooldown),
		Health:    NewHealth(rules.MaxHealth),
		Lifecycle: NewLifecycle(deathmatch.ticknum, 0),
		Radar: Radar{
			physicalBody: deathmatch.newRadarBody(id, position, angle),
		},
		physicalBody: &PhysicalBody{
			body:           body,
			pixelsPerMeter: rules.PixelsPerMeter,
		},
	}

	deathmatch.world.InsertTank(tank)

	return tank
}

// newRadarBody builds the detection cone (0,0), (-w, r), (w, r) in tank-local
// coordinates, forward being local +Y.
func (deathmatch *DeathmatchGame) newRadarBody(owner EntityID, position vector.Vector2, angle float64) *PhysicalBody {
	rules := deathmatch.rules

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Position.Set(rules.toMeters(position.GetX()), rules.toMeters(position.GetY()))
	bodydef.Angle = angle
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.AllowSleep = false
	bodydef.FixedRotation = true

	body := deathmatch.PhysicalWorld.CreateBody(&bodydef)

	halfWidth := rules.toMeters(rules.RadarHalfWidth)
	reach := rules.toMeters(rules.radarRange())

	vertices := []box2d.B2Vec2{
		box2d.MakeB2Vec2(0, 0),
		box2d.MakeB2Vec2(-halfWidth, reach),
		box2d.MakeB2Vec2(halfWidth, reach),
	}

	shape := box2d.MakeB2PolygonShape()
	shape.Set(vertices, len(vertices))

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.IsSensor = true
	body.CreateFixtureFromDef(&fixturedef)
	body.SetUserData(commontypes.MakePhysicalBodyDescriptor(
		commontypes.PhysicalBodyDescriptorType.Radar,
		uint64(owner),
	))

	return &PhysicalBody{
		body:           body,
		pixelsPerMeter: rules.PixelsPerMeter,
	}
}

// normalizeAngle maps an angle to [-pi, pi].
func normalizeAngle(angle float64) float64 {
	return math.Remainder(angle, 2*math.Pi)
}
