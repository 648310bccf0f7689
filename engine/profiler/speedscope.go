package profiler

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
)

// event is one scope boundary, in recording order.
type event struct {
	at    int64 // unix nanoseconds
	scope int
	open  bool
}

type ssDocument struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // microseconds since the first event
	Frame int    `json:"frame"`
}

// toSpeedscope turns a recorded event stream into an evented profile.
// Closes without a matching open are dropped and scopes still open at the
// end are closed at the last timestamp, so the output is always balanced.
func toSpeedscope(evs []event, names []string) (*ssDocument, error) {
	if len(evs) == 0 {
		return nil, errors.New("profiler: no events recorded")
	}

	base := evs[0].at
	out := make([]ssEvent, 0, len(evs))
	var open []int
	var last int64

	for _, e := range evs {
		at := max((e.at-base)/1000, last)
		if e.open {
			open = append(open, e.scope)
		} else {
			if len(open) == 0 || open[len(open)-1] != e.scope {
				continue
			}
			open = open[:len(open)-1]
		}
		out = append(out, ssEvent{Type: eventType(e.open), At: at, Frame: e.scope})
		last = at
	}
	for i := len(open) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: open[i]})
	}
	if len(out) == 0 {
		return nil, errors.New("profiler: no balanced scopes")
	}

	frames := make([]ssFrame, len(names))
	for i, n := range names {
		frames[i] = ssFrame{Name: n}
	}
	return &ssDocument{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "lumen frames",
			Unit:     "microseconds",
			EndValue: last,
			Events:   out,
		}},
		Exporter: "lumen-profiler",
		Name:     "lumen capture",
	}, nil
}

func eventType(open bool) string {
	if open {
		return "O"
	}
	return "C"
}

// writeJSON replaces path atomically with the indented encoding of doc.
func writeJSON(path string, doc any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "profiler: create dump")
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrap(err, "profiler: encode dump")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "profiler: close dump")
	}
	return os.Rename(tmp, path)
}
