package game

type ResultStatus string

const (
	ResultStatusCompleted ResultStatus = "completed"
	ResultStatusStopped   ResultStatus = "stopped"
	ResultStatusAborted   ResultStatus = "aborted"
)

type TankResult struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Container       string  `json:"container"`
	Health          float64 `json:"health"`
	DamageDealt     float64 `json:"damage_dealt"`
	Alive           bool    `json:"alive"`
	DestroyedAtTick uint32  `json:"destroyed_at_tick,omitempty"`
	AgentFailures   int     `json:"agent_failures"`
}

// Result is emitted once, when the match ends. Winner is nil when nobody won.
type Result struct {
	Match  string       `json:"match"`
	Status ResultStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
	Ticks  uint32       `json:"ticks"`
	Tanks  []TankResult `json:"tanks"`
	Winner *uint64      `json:"winner"`
}
