package main

import (
	"math"

	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/common/utils/vector"
)

// pilot orbits a pin point and shoots at whatever its radar reports.
type pilot struct {
	pincenter vector.Vector2
	radius    float64
	aimSlack  float64
	radarSpin float64
}

func makePilot() pilot {
	return pilot{
		pincenter: vector.MakeNullVector2(),
		radius:    130,
		aimSlack:  0.1,
		radarSpin: 0.3,
	}
}

// headingAngle converts a body rotation to the angle of its heading from +X.
func headingAngle(rotation float64) float64 {
	return rotation + math.Pi/2
}

func wrapAngle(a float64) float64 {
	return math.Atan2(math.Sin(a), math.Cos(a))
}

func (p pilot) Decide(req protocol.TickRequest) protocol.Intent {
	tank := req.Tank
	position := vector.MakeVector2(tank.X, tank.Y)

	orbit := float64(req.Tick) / 54.0
	desired := p.pincenter.Add(vector.MakeVector2(p.radius*math.Cos(orbit), p.radius*math.Sin(orbit))).Sub(position)

	intent := protocol.Intent{
		Move:      1,
		TurnRadar: p.radarSpin,
	}

	if !desired.IsNull() {
		x, y := desired.Get()
		intent.Rotate = wrapAngle(math.Atan2(y, x) - headingAngle(tank.Rotation))
	}

	// arrival, slow down
	if dist := desired.Mag(); dist < p.radius/2 {
		intent.Move = dist / (p.radius / 2)
	}

	for _, event := range req.Events {
		if event.Info.CollisionType != protocol.CollisionTypeRadar {
			continue
		}

		target := vector.MakeVector2(event.Info.Transform.X, event.Info.Transform.Y).Sub(position)
		if target.IsNull() {
			continue
		}

		x, y := target.Get()
		gun := headingAngle(tank.Rotation + tank.GunRotation)
		aim := wrapAngle(math.Atan2(y, x) - gun)

		intent.TurnGun = aim
		intent.Fire = math.Abs(aim) < p.aimSlack
		// keep the radar on the target
		intent.TurnRadar = 0
		break
	}

	return intent
}
