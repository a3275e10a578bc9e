package deathmatch

// Prefer use lightweight representation of constants for the future transport
const (
	EVENT_SHOT_FIRED eventType = 1 << iota
	EVENT_TANK_HIT
	EVENT_TANK_DESTROYED
	EVENT_BULLET_SPENT
	EVENT_AGENT_FAILED
)

type eventType uint8

func (t eventType) String() string {
	switch t {
	case EVENT_SHOT_FIRED:
		return "shot_fired"
	case EVENT_TANK_HIT:
		return "tank_hit"
	case EVENT_TANK_DESTROYED:
		return "tank_destroyed"
	case EVENT_BULLET_SPENT:
		return "bullet_spent"
	case EVENT_AGENT_FAILED:
		return "agent_failed"
	}

	return "unknown"
}

type LogEntry struct {
	Tick         uint32
	EventType    eventType
	SourceEntity EntityID
	TargetEntity EntityID
}

// DeathmatchGameLog keeps the notable facts of the current tick.
type DeathmatchGameLog struct {
	entries []LogEntry
}

func NewDeathmatchGameLog() *DeathmatchGameLog {
	return &DeathmatchGameLog{
		entries: make([]LogEntry, 0),
	}
}

func MakeLogEntryOfType(tick uint32, eventType eventType, source EntityID, target EntityID) LogEntry {
	return LogEntry{
		Tick:         tick,
		EventType:    eventType,
		SourceEntity: source,
		TargetEntity: target,
	}
}

func (l *DeathmatchGameLog) AddEntry(entry LogEntry) {
	l.entries = append(l.entries, entry)
}

func (l *DeathmatchGameLog) Count(eventType eventType) int {
	n := 0
	for _, entry := range l.entries {
		if entry.EventType == eventType {
			n++
		}
	}

	return n
}

func (l *DeathmatchGameLog) Entries() []LogEntry {
	return l.entries
}

func (l *DeathmatchGameLog) Reset() {
	l.entries = l.entries[:0]
}
