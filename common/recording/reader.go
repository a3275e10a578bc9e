package recording

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// ReadEntries decodes a record, one entry per line.
func ReadEntries(r io.Reader) ([]Entry, error) {
	entries := make([]Entry, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return entries, errors.Wrapf(err, "invalid record line %d", len(entries)+1)
		}

		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// ReadFile reads a record written by a recorder, compressed or not.
func ReadFile(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if !strings.HasSuffix(filename, ".zst") {
		return ReadEntries(file)
	}

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode record")
	}
	defer decoder.Close()

	return ReadEntries(decoder)
}
