package journal

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// streamReader holds a YAML journal fully loaded in memory.
type streamReader struct {
	entries []Entry
	byTest  map[string][]int
}

func readStream(path string) (*streamReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open journal '%s'", path)
	}
	defer f.Close()

	r := &streamReader{byTest: make(map[string][]int)}
	dec := yaml.NewDecoder(f)
	for {
		var e Entry
		err := dec.Decode(&e)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode entry %d of journal '%s'", len(r.entries), path)
		}

		if e.TestID == "" {
			continue
		}

		r.byTest[e.TestID] = append(r.byTest[e.TestID], len(r.entries))
		r.entries = append(r.entries, e)
	}

	return r, nil
}

func (r *streamReader) Last(testID string) (*Entry, error) {
	indexes := r.byTest[testID]
	if len(indexes) == 0 {
		return nil, nil
	}

	e := r.entries[indexes[len(indexes)-1]]
	return &e, nil
}

func (r *streamReader) Entries(testID string) ([]Entry, error) {
	indexes := r.byTest[testID]
	out := make([]Entry, len(indexes))
	for i, index := range indexes {
		out[i] = r.entries[index]
	}
	return out, nil
}

func (r *streamReader) All() ([]Entry, error) {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *streamReader) Close() error {
	return nil
}

type streamWriter struct {
	mu   sync.Mutex
	file *os.File
}

func openStreamWriter(path string) (*streamWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open journal '%s' for writing", path)
	}

	return &streamWriter{file: f}, nil
}

func (w *streamWriter) Append(e Entry) error {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return errors.Wrapf(err, "failed to encode journal entry for '%s'", e.TestID)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to flush journal entry")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// One write per entry keeps entries whole even with several writers.
	if _, err := w.file.Write(buf.Bytes()); err != nil {
		return errors.Wrapf(err, "failed to append journal entry for '%s'", e.TestID)
	}

	return nil
}

func (w *streamWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
