package generator

import (
	"math/rand"
	"time"
)

// Rand is the subset of *math/rand.Rand the engines draw from.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// RandSource creates the random source for a single generation call.
// A *rand.Rand is not safe for concurrent use, so engines never share one.
type RandSource func() Rand

func defaultRandSource() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// SeededSource returns a RandSource that yields the same sequence on every call.
func SeededSource(seed int64) RandSource {
	return func() Rand {
		return rand.New(rand.NewSource(seed))
	}
}

// Option configures an engine.
type Option func(*engineOptions)

type engineOptions struct {
	rand RandSource
}

// WithRandSource injects the random source used for every call.
func WithRandSource(src RandSource) Option {
	return func(o *engineOptions) {
		if src != nil {
			o.rand = src
		}
	}
}

func applyOptions(opts []Option) engineOptions {
	o := engineOptions{rand: defaultRandSource}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func choice(r Rand, items []string) string {
	return items[r.Intn(len(items))]
}

// randInt returns an integer in [lo, hi].
func randInt(r Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

// sample draws k distinct positions from items, keeping draw order.
func sample(r Rand, items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}
	pool := make([]string, len(items))
	copy(pool, items)
	out := make([]string, 0, k)
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}

func shuffleStrings(r Rand, s []string) {
	r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
