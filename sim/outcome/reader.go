package outcome

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Read parses an outcome log written by Writer. On a damaged row it returns
// the rows read before it together with the error.
func Read(path string) ([]Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening outcome log: %w", err)
	}
	defer func() { _ = f.Close() }()
	outcomes, err := Parse(f)
	if err != nil {
		return outcomes, fmt.Errorf("%s: %w", path, err)
	}
	return outcomes, nil
}

// Parse reads an outcome log from r. The header must match Header exactly.
// A trailing partial row (e.g. from a crashed run) is reported as an error
// together with the rows parsed before it.
func Parse(r io.Reader) ([]Outcome, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty outcome log")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(header, ","))
	}

	var outcomes []Outcome
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return outcomes, nil
		}
		if err != nil {
			return outcomes, fmt.Errorf("line %d: %w", line, err)
		}
		o, err := parseRow(rec)
		if err != nil {
			return outcomes, fmt.Errorf("line %d: %w", line, err)
		}
		outcomes = append(outcomes, o)
	}
}

func parseRow(rec []string) (Outcome, error) {
	var o Outcome
	var err error
	if o.TaskID, err = strconv.Atoi(rec[0]); err != nil {
		return o, fmt.Errorf("TaskID: %w", err)
	}
	if o.ProviderIndex, err = strconv.Atoi(rec[1]); err != nil {
		return o, fmt.Errorf("SelectedCloud: %w", err)
	}
	floats := []*float64{&o.StartTime, &o.EndTime, &o.ExecutionTime, &o.Cost, &o.SLADeadline}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(rec[2+i], 64); err != nil {
			return o, fmt.Errorf("%s: %w", Header[2+i], err)
		}
	}
	switch strings.ToUpper(strings.TrimSpace(rec[7])) {
	case "YES":
		o.SLAMet = true
	case "NO":
		o.SLAMet = false
	default:
		return o, fmt.Errorf("SLAMet: unexpected value %q", rec[7])
	}
	return o, nil
}
