package outcome

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("outcome writer closed")

// Writer appends one row per Outcome to a CSV sink.
// The header is written exactly once, at construction. Safe for concurrent use.
// There is no transactional guarantee: a crash mid-run may leave a partial
// file whose complete rows remain readable.
type Writer struct {
	mu     sync.Mutex
	csv    *csv.Writer
	closer io.Closer // nil when the caller owns the sink
	closed bool
	rows   int
}

// NewWriter writes the header to w and returns a Writer appending to it.
// If w is an io.Closer it is NOT closed by Close; use Create for owned files.
func NewWriter(w io.Writer) (*Writer, error) {
	ow := &Writer{csv: csv.NewWriter(w)}
	if err := ow.writeRecord(Header); err != nil {
		return nil, fmt.Errorf("writing outcome header: %w", err)
	}
	return ow, nil
}

// Create truncates or creates the file at path and returns a Writer that
// owns it.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating outcome log %s: %w", path, err)
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Write appends one Outcome. Each row is flushed so that write failures
// surface on the call that caused them.
func (w *Writer) Write(o Outcome) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := w.writeRecord(Row(o)); err != nil {
		return fmt.Errorf("writing outcome for task %d: %w", o.TaskID, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Close flushes pending output and closes an owned file. Calling Close more
// than once is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.csv.Flush()
	err := w.csv.Error()
	if w.closer != nil {
		if cerr := w.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (w *Writer) writeRecord(record []string) error {
	if err := w.csv.Write(record); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Row renders an Outcome as log columns in Header order.
func Row(o Outcome) []string {
	return []string{
		strconv.Itoa(o.TaskID),
		strconv.Itoa(o.ProviderIndex),
		formatFloat(o.StartTime),
		formatFloat(o.EndTime),
		formatFloat(o.ExecutionTime),
		formatFloat(o.Cost),
		formatFloat(o.SLADeadline),
		yesNo(o.SLAMet),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
