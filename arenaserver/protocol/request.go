package protocol

// TickRequest is sent to every live agent at the beginning of a tick.
type TickRequest struct {
	Match  string    `json:"match"`
	Tick   uint32    `json:"tick"`
	Tank   TankState `json:"tank"`
	Events []Event   `json:"events"`
}

type TankState struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Rotation      float64 `json:"rotation"`
	GunRotation   float64 `json:"gun_rotation"`
	RadarRotation float64 `json:"radar_rotation"`
	GunLocked     bool    `json:"gun_locked"`
	RadarLocked   bool    `json:"radar_locked"`
	Health        float64 `json:"health"`
	Cooldown      int     `json:"cooldown"`
	Linvel        Vec     `json:"linvel"`
}
