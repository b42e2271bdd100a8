// Package replay provides a hardware-free stand-in for the sensor
// drivers in pkg/devices, so cmd/fusiond's -replay flag can drive the
// estimator from a recorded CSV trace instead of a live I2C bus
// (SPEC_FULL.md §4.9).
package replay

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/itohio/fusion/pkg/devices"
	"github.com/itohio/fusion/pkg/linalg"
)

// Kind identifies which stream a recorded entry belongs to.
type Kind string

const (
	KindAccel Kind = "accel"
	KindGyro  Kind = "gyro"
	KindMag   Kind = "mag"
)

// Entry is one recorded sample: kind,x,y,z,dt.
type Entry struct {
	Kind   Kind
	Sample devices.Sample
}

// Recording replays a fixed sequence of entries in order.
type Recording struct {
	entries []Entry
	pos     int
}

// Load parses a CSV trace (one line per sample: kind,x,y,z,dt) into a
// Recording.
func Load(r io.Reader) (*Recording, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = 5

	var entries []Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("replay: parse trace: %w", err)
		}

		x, err := strconv.ParseFloat(rec[1], 32)
		if err != nil {
			return nil, fmt.Errorf("replay: bad x %q: %w", rec[1], err)
		}
		y, err := strconv.ParseFloat(rec[2], 32)
		if err != nil {
			return nil, fmt.Errorf("replay: bad y %q: %w", rec[2], err)
		}
		z, err := strconv.ParseFloat(rec[3], 32)
		if err != nil {
			return nil, fmt.Errorf("replay: bad z %q: %w", rec[3], err)
		}
		dt, err := strconv.ParseFloat(rec[4], 32)
		if err != nil {
			return nil, fmt.Errorf("replay: bad dt %q: %w", rec[4], err)
		}

		entries = append(entries, Entry{
			Kind: Kind(rec[0]),
			Sample: devices.Sample{
				Vector: linalg.NewVector3(float32(x), float32(y), float32(z)),
				DT:     float32(dt),
			},
		})
	}

	return &Recording{entries: entries}, nil
}

// Next returns the next recorded entry, or false once the recording is
// exhausted.
func (r *Recording) Next() (Entry, bool) {
	if r.pos >= len(r.entries) {
		return Entry{}, false
	}
	e := r.entries[r.pos]
	r.pos++
	return e, true
}

// Len returns the total number of recorded entries.
func (r *Recording) Len() int { return len(r.entries) }
