package deathmatch

import (
	"github.com/ByteArena/box2d"
	"github.com/codetanks/codetanks/common/utils/number"
	"github.com/codetanks/codetanks/common/utils/vector"
)

// PhysicalBody wraps a Box2D body; its accessors speak pixels, Box2D speaks meters.
type PhysicalBody struct {
	body           *box2d.B2Body
	pixelsPerMeter float64
	static         bool
}

func (p *PhysicalBody) GetBody() *box2d.B2Body {
	return p.body
}

func (p PhysicalBody) GetPosition() vector.Vector2 {
	return vector.FromB2Vec2(p.body.GetPosition()).Scale(p.pixelsPerMeter)
}

func (p PhysicalBody) GetVelocity() vector.Vector2 {
	if p.static {
		return vector.MakeNullVector2()
	}

	return vector.FromB2Vec2(p.body.GetLinearVelocity()).Scale(p.pixelsPerMeter)
}

func (p PhysicalBody) GetAngularVelocity() float64 {
	if p.static {
		return 0
	}

	return p.body.GetAngularVelocity()
}

func (p PhysicalBody) GetOrientation() float64 {
	return p.body.GetAngle()
}

func (p *PhysicalBody) SetOrientation(angle float64) *PhysicalBody {
	p.body.SetTransform(p.body.GetPosition(), angle)
	return p
}

// ApplyVelocityChange pushes the body by dv (px/s) with an impulse proportional to its mass.
func (p *PhysicalBody) ApplyVelocityChange(dv vector.Vector2) *PhysicalBody {
	impulse := dv.Scale(p.body.GetMass() / p.pixelsPerMeter)
	p.body.ApplyLinearImpulse(impulse.ToB2Vec2(), p.body.GetWorldCenter(), true)
	return p
}

func (p PhysicalBody) IsFinite() bool {
	return p.GetPosition().IsFinite() &&
		p.GetVelocity().IsFinite() &&
		number.IsFinite(p.GetOrientation()) &&
		number.IsFinite(p.GetAngularVelocity())
}
