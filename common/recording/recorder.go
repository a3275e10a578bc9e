package recording

import (
	"encoding/json"
	"time"

	"github.com/codetanks/codetanks/common/types/mapcontainer"
)

const (
	EntryTypeMetadata = "metadata"
	EntryTypeEvent    = "event"
	EntryTypeResult   = "result"
)

// Recorder writes the log of a match as JSON lines: metadata first, one line
// per combat event, the result last.
type Recorder interface {
	RecordMetadata(matchID string, arena *mapcontainer.MapContainer) error
	Record(matchID string, entryType string, data interface{}) error
	Close(matchID string) error
}

type Entry struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type RecordMetadata struct {
	Match        string                     `json:"match"`
	MapContainer *mapcontainer.MapContainer `json:"map"`
	Date         string                     `json:"date"`
}

func makeMetadata(matchID string, arena *mapcontainer.MapContainer) RecordMetadata {
	return RecordMetadata{
		Match:        matchID,
		MapContainer: arena,
		Date:         time.Now().Format(time.RFC3339),
	}
}

func marshalEntry(entryType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	line, err := json.Marshal(Entry{Type: entryType, Data: raw})
	if err != nil {
		return nil, err
	}

	return append(line, '\n'), nil
}
