package scoring

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	sessionAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	sessionSuffixLength = 9
)

// NewSessionIDFunc builds a session identifier generator from an explicit
// clock and random source, so tests can pin both and assert exact ids.
// Shape: session_<unix-millis>_<9 alphanumeric chars>.
func NewSessionIDFunc(now func() time.Time, rnd *rand.Rand) func() string {
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		var suffix strings.Builder
		for i := 0; i < sessionSuffixLength; i++ {
			suffix.WriteByte(sessionAlphabet[rnd.Intn(len(sessionAlphabet))])
		}
		return "session_" + strconv.FormatInt(now().UnixMilli(), 10) + "_" + suffix.String()
	}
}

// DefaultSessionIDFunc is the production generator: wall clock plus a
// freshly seeded random source.
func DefaultSessionIDFunc() func() string {
	return NewSessionIDFunc(time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}
