package protocol

const EventTypeHit = "hit"

// CollisionType tells a tank what it collided with, from its own point of view.
type CollisionType string

const (
	CollisionTypeBullet CollisionType = "Bullet"
	CollisionTypeWall   CollisionType = "Wall"
	CollisionTypeTank   CollisionType = "Tank"
	CollisionTypeRadar  CollisionType = "Radar"
)

type Event struct {
	EventType string    `json:"event_type"`
	Info      EventInfo `json:"info"`
}

type EventInfo struct {
	CollisionType CollisionType `json:"collision_type"`
	Entity        uint64        `json:"entity"`
	Transform     Transform     `json:"transform"`
	Velocity      Velocity      `json:"velocity"`
}

// Transform is expressed in pixels; Rotation is the angle of the entity heading measured from +X.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

type Velocity struct {
	Linvel Vec     `json:"linvel"`
	Angvel float64 `json:"angvel"`
}

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
