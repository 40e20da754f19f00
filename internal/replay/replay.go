// Package replay records simulation runs as zstd-compressed JSONL files:
// one header line identifying the run, then one line per action step. The
// format is append-only and line-oriented so a partial file from an
// interrupted run still replays up to its last complete step.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrMissingHeader means the file held no header line.
var ErrMissingHeader = errors.New("replay: missing header line")

// Header is the first line of a replay file.
type Header struct {
	RunID    string    `json:"run_id"`
	Seed     string    `json:"seed"`
	Policy   string    `json:"policy"`
	Sessions int       `json:"sessions"`
	Budget   float64   `json:"budget"`
	Created  time.Time `json:"created"`
}

// FoundKind values a step can carry.
const (
	FoundArea       = "area"
	FoundLocation   = "location"
	FoundConnection = "connection"
)

// Step is one recorded action.
type Step struct {
	// Session and Step locate the action within the run.
	Session int `json:"session"`
	Step    int `json:"step"`
	// Action is the action name; Target is set for travel.
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
	// Area is where the action ran (for travel, where the player arrived).
	Area string `json:"area"`
	// Success, Ticks and Elapsed report the outcome and the session clock
	// after it.
	Success bool    `json:"success"`
	Ticks   float64 `json:"ticks"`
	Elapsed float64 `json:"elapsed"`
	// Found identifies a discovery; FoundKind is area, location or connection.
	Found     string `json:"found,omitempty"`
	FoundKind string `json:"found_kind,omitempty"`
	// Bonus reports an area-completion bonus banked by this step.
	Bonus bool `json:"bonus,omitempty"`
	// Error carries a failure reason for steps that were refused.
	Error string `json:"error,omitempty"`
}

// Writer appends JSONL lines through a zstd encoder. Every write flushes a
// complete line, so readers never see a torn step.
type Writer struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
}

// Create opens dir/<run-id>.jsonl.zst and writes the header line.
//
// Precondition: h.RunID must be non-empty.
// Postcondition: Returns an open Writer; the caller must Close it.
func Create(dir string, h Header) (*Writer, error) {
	if h.RunID == "" {
		panic("replay: Create with empty RunID")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay: creating dir %q: %w", dir, err)
	}

	path := filepath.Join(dir, h.RunID+".jsonl.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("replay: creating %q: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: zstd writer for %q: %w", path, err)
	}

	w := &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}
	if err := w.writeLine(h); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// Path returns the file the Writer records to.
func (w *Writer) Path() string { return w.path }

// WriteStep appends one step line.
func (w *Writer) WriteStep(s Step) error {
	return w.writeLine(s)
}

func (w *Writer) writeLine(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("replay: marshaling line: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes and closes the underlying encoder and file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	if w.w != nil {
		if err := w.w.Flush(); err != nil {
			errs = append(errs, err)
		}
		w.w = nil
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			errs = append(errs, err)
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err != nil {
			errs = append(errs, err)
		}
		w.f = nil
	}
	return errors.Join(errs...)
}

// Read loads a replay file: the header line, then every step in order.
func Read(path string) (Header, []Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("replay: opening %q: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return Header{}, nil, fmt.Errorf("replay: zstd reader for %q: %w", path, err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Header{}, nil, fmt.Errorf("replay: reading %q: %w", path, err)
		}
		return Header{}, nil, fmt.Errorf("%w: %s", ErrMissingHeader, path)
	}
	var h Header
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return Header{}, nil, fmt.Errorf("replay: decoding header of %q: %w", path, err)
	}

	var steps []Step
	for sc.Scan() {
		var s Step
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			return Header{}, nil, fmt.Errorf("replay: decoding step %d of %q: %w", len(steps), path, err)
		}
		steps = append(steps, s)
	}
	if err := sc.Err(); err != nil {
		return Header{}, nil, fmt.Errorf("replay: reading %q: %w", path, err)
	}
	return h, steps, nil
}
