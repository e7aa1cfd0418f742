package ordernum

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	prefix      = "E3"
	suffixLen   = 9
	suffixChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// filter sizing: well beyond the traffic this service sees between restarts
const (
	filterCapacity = 100000
	filterFPRate   = 1e-6
)

// Generator produces order numbers of the form
// E3-<millisecond epoch>-<9 uppercase base36 characters>.
//
// Uniqueness is probabilistic. Issued numbers are never stored or checked
// against prior issuance; a bloom filter only flags a probable in-process
// repeat in the logs. Output is not reproducible, so tests should inject
// the clock and random source and assert the format rather than the value.
type Generator struct {
	mu     sync.Mutex
	now    func() time.Time
	rnd    *rand.Rand
	issued *bloom.BloomFilter
}

// New creates a Generator backed by the wall clock and a time-seeded
// random source.
func New() *Generator {
	return NewWithSource(time.Now, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource creates a Generator with an injected clock and random
// source, for tests.
func NewWithSource(now func() time.Time, src rand.Source) *Generator {
	return &Generator{
		now:    now,
		rnd:    rand.New(src),
		issued: bloom.NewWithEstimates(filterCapacity, filterFPRate),
	}
}

// Next returns a freshly generated order number.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	suffix := make([]byte, suffixLen)
	for i := range suffix {
		suffix[i] = suffixChars[g.rnd.Intn(len(suffixChars))]
	}

	number := fmt.Sprintf("%s-%d-%s", prefix, g.now().UnixMilli(), suffix)

	if g.issued.TestOrAddString(number) {
		log.Printf("Warning: probable duplicate order number issued: %s", number)
	}

	return number
}
