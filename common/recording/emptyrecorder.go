package recording

import (
	"github.com/codetanks/codetanks/common/types/mapcontainer"
)

type EmptyRecorder struct{}

func MakeEmptyRecorder() EmptyRecorder {
	return EmptyRecorder{}
}

func (r EmptyRecorder) Record(matchID string, entryType string, data interface{}) error {
	return nil
}

func (r EmptyRecorder) RecordMetadata(matchID string, mapcontainer *mapcontainer.MapContainer) error {
	return nil
}

func (r EmptyRecorder) Close(matchID string) error {
	return nil
}
