package replay

import (
	"strings"
	"testing"
)

func TestLoad_RoundTripsEntries(t *testing.T) {
	trace := "accel,0,0,9.81,0.01\ngyro,0,0,1.57,0.01\nmag,0,30,-40,0\n"

	rec, err := Load(strings.NewReader(trace))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", rec.Len())
	}

	want := []Kind{KindAccel, KindGyro, KindMag}
	for i, k := range want {
		e, ok := rec.Next()
		if !ok {
			t.Fatalf("entry %d: expected more entries", i)
		}
		if e.Kind != k {
			t.Errorf("entry %d: expected kind %s, got %s", i, k, e.Kind)
		}
	}

	if _, ok := rec.Next(); ok {
		t.Errorf("expected Next to report exhausted after 3 entries")
	}
}

func TestLoad_RejectsMalformedField(t *testing.T) {
	if _, err := Load(strings.NewReader("accel,x,0,0,0.01\n")); err == nil {
		t.Errorf("expected an error for a non-numeric x field")
	}
}
