package randx

import (
	"math/rand"
	"sync"
)

// Source supplies the random values used by synthetic data generators.
// Tests inject a fixed seed to pin synthetic output exactly.
type Source interface {
	Float64() float64
	Intn(n int) int
	Perm(n int) []int
}

type locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a goroutine-safe Source seeded with the given value.
func New(seed int64) Source {
	return &locked{r: rand.New(rand.NewSource(seed))}
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *locked) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}
