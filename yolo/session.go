package yolo

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionID returns a fresh unique session identifier (spec.md §4.10:
// "each run has a unique session id").
func NewSessionID() string {
	return uuid.NewString()
}

// DefaultSeed derives a non-repeatable seed from wall time, process id,
// and a persisted launch counter (spec.md §4.10's "Randomness" note), so
// repeated manual runs explore different paths by default. counterPath
// names a small text file holding the next counter value; it is created
// (starting at 0) if absent, and the read-increment-write is best-effort
// — a failure to persist the counter still yields a usable seed, just
// one that may collide with a future run's if the file couldn't be
// updated.
func DefaultSeed(counterPath string) int64 {
	counter := nextLaunchCounter(counterPath)
	mix := time.Now().UnixNano() ^ int64(os.Getpid()) ^ counter
	if mix == 0 {
		mix = 1
	}
	return mix
}

func nextLaunchCounter(counterPath string) int64 {
	var counter int64
	if data, err := os.ReadFile(counterPath); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64); err == nil {
			counter = v
		}
	}
	next := counter + 1
	_ = os.WriteFile(counterPath, []byte(fmt.Sprintf("%d\n", next)), 0o644)
	return counter
}
