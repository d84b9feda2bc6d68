package recording

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Call is one native call in a trace.
type Call struct {
	Seq  int    `msgpack:"seq"`
	Op   string `msgpack:"op"`
	Args string `msgpack:"args,omitempty"`
}

// Trace is the exported form of a recorded session.
type Trace struct {
	Backend string         `msgpack:"backend"`
	Calls   []Call         `msgpack:"calls"`
	Counts  map[string]int `msgpack:"counts"`
}

// SetTracing starts or stops recording individual calls. Counters are kept
// either way.
func (d *Device) SetTracing(on bool) {
	d.tracing = on
}

// Trace returns the calls recorded since tracing was enabled.
func (d *Device) Trace() []Call {
	return append([]Call(nil), d.trace...)
}

// WriteTrace encodes the trace and the call counters as msgpack.
func (d *Device) WriteTrace(w io.Writer) error {
	t := Trace{
		Backend: d.Type().String(),
		Calls:   d.trace,
		Counts:  d.calls,
	}
	if err := msgpack.NewEncoder(w).Encode(&t); err != nil {
		return fmt.Errorf("recording: encode trace: %w", err)
	}
	return nil
}

// ReadTrace decodes a trace written by WriteTrace.
func ReadTrace(r io.Reader) (*Trace, error) {
	var t Trace
	if err := msgpack.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("recording: decode trace: %w", err)
	}
	return &t, nil
}
