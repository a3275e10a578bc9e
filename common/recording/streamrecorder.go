package recording

import (
	"io"
	"sync"

	"github.com/codetanks/codetanks/common/types/mapcontainer"
	"github.com/pkg/errors"
)

// StreamRecorder writes the lines of every match to a single writer, stdout
// for instance. Closing a match does not close the writer.
type StreamRecorder struct {
	mu sync.Mutex
	w  io.Writer
}

func MakeStreamRecorder(w io.Writer) *StreamRecorder {
	return &StreamRecorder{w: w}
}

func (r *StreamRecorder) Record(matchID string, entryType string, data interface{}) error {
	line, err := marshalEntry(entryType, data)
	if err != nil {
		return errors.Wrapf(err, "could not serialize %s record of match %s", entryType, matchID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.w.Write(line)
	return errors.Wrap(err, "could not write record entry")
}

func (r *StreamRecorder) RecordMetadata(matchID string, arena *mapcontainer.MapContainer) error {
	return r.Record(matchID, EntryTypeMetadata, makeMetadata(matchID, arena))
}

func (r *StreamRecorder) Close(matchID string) error {
	return nil
}
