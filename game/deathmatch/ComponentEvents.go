package deathmatch

import (
	"math"

	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/codetanks/codetanks/common/utils/vector"
)

// EventSink queues the events generated for one tank during the current tick.
type EventSink struct {
	queue []protocol.Event
}

func (sink *EventSink) Push(event protocol.Event) {
	sink.queue = append(sink.queue, event)
}

func (sink *EventSink) Drain() []protocol.Event {
	res := sink.queue
	sink.queue = nil

	return res
}

func (sink EventSink) Len() int {
	return len(sink.queue)
}

// MakeHitEvent snapshots the entity of interest. Pass a zero velocity for static bodies.
func MakeHitEvent(collisionType protocol.CollisionType, entity EntityID, position vector.Vector2, angle float64, linvel vector.Vector2, angvel float64) protocol.Event {
	heading := vector.MakeHeadingVector2(angle)

	return protocol.Event{
		EventType: protocol.EventTypeHit,
		Info: protocol.EventInfo{
			CollisionType: collisionType,
			Entity:        uint64(entity),
			Transform: protocol.Transform{
				X:        position.GetX(),
				Y:        position.GetY(),
				Rotation: math.Atan2(heading.GetY(), heading.GetX()),
			},
			Velocity: protocol.Velocity{
				Linvel: protocol.Vec{X: linvel.GetX(), Y: linvel.GetY()},
				Angvel: angvel,
			},
		},
	}
}
