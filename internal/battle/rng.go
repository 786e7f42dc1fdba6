package battle

import (
	"math/rand"
	"time"
)

func newRNG() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }

// pickIndex returns a uniform index into a collection of n elements.
func pickIndex(r *rand.Rand, n int) int { return r.Intn(n) }
