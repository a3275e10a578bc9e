package recording

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codetanks/codetanks/common/types/mapcontainer"
	"github.com/codetanks/codetanks/common/utils"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	recordExtension           = ".jsonl"
	compressedRecordExtension = ".jsonl.zst"
)

type recordFile struct {
	file    *os.File
	buf     *bufio.Writer
	encoder *zstd.Encoder
	w       io.Writer
}

func (f *recordFile) close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if f.encoder != nil {
		keep(f.encoder.Close())
	}

	keep(f.buf.Flush())
	keep(f.file.Sync())
	keep(f.file.Close())

	return firstErr
}

// MultiMatchRecorder keeps one record file per match in a directory,
// optionally zstd-compressed.
type MultiMatchRecorder struct {
	directory string
	compress  bool

	mu    sync.Mutex
	files map[string]*recordFile
}

func MakeMultiMatchRecorder(directory string, compress bool) (*MultiMatchRecorder, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, errors.Wrapf(err, "could not create record directory %s", directory)
	}

	return &MultiMatchRecorder{
		directory: directory,
		compress:  compress,
		files:     make(map[string]*recordFile),
	}, nil
}

func (r *MultiMatchRecorder) GetDirectory() string {
	return r.directory
}

// GetFilename tells where the record of the match is written.
func (r *MultiMatchRecorder) GetFilename(matchID string) string {
	extension := recordExtension
	if r.compress {
		extension = compressedRecordExtension
	}

	return filepath.Join(r.directory, matchID+extension)
}

// validateMatchID keeps record files inside the record directory.
func validateMatchID(matchID string) error {
	if matchID == "" || matchID == "." || matchID == ".." || strings.ContainsAny(matchID, `/\`) {
		return errors.Errorf("match id %q cannot be used as a record file name", matchID)
	}

	return nil
}

func (r *MultiMatchRecorder) open(matchID string) (*recordFile, error) {
	if handle, ok := r.files[matchID]; ok {
		return handle, nil
	}

	if err := validateMatchID(matchID); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(r.GetFilename(matchID), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "could not open record file")
	}

	handle := &recordFile{
		file: file,
		buf:  bufio.NewWriter(file),
	}
	handle.w = handle.buf

	if r.compress {
		encoder, err := zstd.NewWriter(handle.buf)
		if err != nil {
			file.Close()
			return nil, errors.Wrap(err, "could not create record encoder")
		}

		handle.encoder = encoder
		handle.w = encoder
	}

	r.files[matchID] = handle

	return handle, nil
}

func (r *MultiMatchRecorder) Record(matchID string, entryType string, data interface{}) error {
	line, err := marshalEntry(entryType, data)
	if err != nil {
		return errors.Wrapf(err, "could not serialize %s record of match %s", entryType, matchID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	handle, err := r.open(matchID)
	if err != nil {
		return err
	}

	_, err = handle.w.Write(line)
	return errors.Wrap(err, "could not write record entry")
}

func (r *MultiMatchRecorder) RecordMetadata(matchID string, arena *mapcontainer.MapContainer) error {
	return r.Record(matchID, EntryTypeMetadata, makeMetadata(matchID, arena))
}

func (r *MultiMatchRecorder) Close(matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, ok := r.files[matchID]
	if !ok {
		utils.Debug("MultiMatchRecorder", "no running recording for match "+matchID)
		return nil
	}

	delete(r.files, matchID)

	if err := handle.close(); err != nil {
		return errors.Wrapf(err, "could not close record of match %s", matchID)
	}

	utils.Debug("MultiMatchRecorder", "stopped recording for match "+matchID)

	return nil
}
