//go:build profile

// Package profiler records nested timing scopes into a fixed-size ring and
// dumps them as a speedscope evented profile. Without the "profile" build tag
// every call is a no-op.
package profiler

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

// Enabled reports whether the binary was built with the "profile" tag.
const Enabled = true

// Init allocates room for capacity scope boundaries. Recording starts after
// the first call; older events are overwritten once the ring is full.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	events.reset(capacity)
}

// Start opens the scope name and returns the func that closes it.
func Start(name string) func() {
	if !events.ready.Load() {
		return func() {}
	}
	id := scopeID(name)
	begin := time.Now().UnixNano()
	events.push(event{at: begin, scope: id, open: true})
	return func() {
		events.push(event{at: max(time.Now().UnixNano(), begin), scope: id})
	}
}

// Dump writes the recorded events to a speedscope file in the temp
// directory and opens it with the speedscope CLI when one is installed. The
// path is returned even when the viewer fails to start.
func Dump() (string, error) {
	doc, err := toSpeedscope(events.snapshot(), scopeNames())
	if err != nil {
		return "", err
	}
	path := filepath.Join(os.TempDir(), "lumen.speedscope.json")
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}
	if bin, err := exec.LookPath("speedscope"); err == nil {
		if err := exec.Command(bin, path).Start(); err != nil {
			return path, errors.Wrap(err, "profiler: start speedscope")
		}
	}
	return path, nil
}

type ring struct {
	ready atomic.Bool
	size  uint64
	next  atomic.Uint64
	buf   []event
}

func (r *ring) reset(capacity int) {
	r.size = uint64(capacity)
	r.buf = make([]event, capacity)
	r.next.Store(0)
	r.ready.Store(true)
}

func (r *ring) push(e event) {
	i := r.next.Add(1) - 1
	r.buf[i%r.size] = e
}

// snapshot returns the retained events oldest first.
func (r *ring) snapshot() []event {
	n := r.next.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.size {
		start = n - r.size
	}
	out := make([]event, 0, n-start)
	for i := start; i < n; i++ {
		out = append(out, r.buf[i%r.size])
	}
	return out
}

var (
	events ring

	scopesMu sync.Mutex
	scopes   []string
	scopeIDs = map[string]int{}
)

func scopeID(name string) int {
	scopesMu.Lock()
	defer scopesMu.Unlock()
	if id, ok := scopeIDs[name]; ok {
		return id
	}
	id := len(scopes)
	scopeIDs[name] = id
	scopes = append(scopes, name)
	return id
}

func scopeNames() []string {
	scopesMu.Lock()
	defer scopesMu.Unlock()
	return append([]string(nil), scopes...)
}
