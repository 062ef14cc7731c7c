// Package dice provides the randomness abstraction used by the combat engine.
// Every random draw in a battle flows through a Source so that battles can be
// replayed exactly from a seed or scripted in tests.
package dice

// Source is the randomness provider for combat draws.
//
// Implementations need not be safe for concurrent use; a battle is single-threaded.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// Chance reports whether an event with probability p occurs.
// p <= 0 never occurs and p >= 1 always occurs; neither consumes a draw.
//
// Postcondition: For 0 < p < 1, exactly one Float64 draw is consumed.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Pick returns a uniformly chosen index in [0, n).
//
// Precondition: n > 0.
func Pick(src Source, n int) int {
	if n <= 0 {
		panic("dice: Pick called with n <= 0")
	}
	return src.Intn(n)
}

// Weighted selects an index from weights by walking their cumulative sum
// against a single Float64 draw scaled to the total weight.
//
// Precondition: len(weights) > 0; every weight >= 0; sum > 0.
// Postcondition: Returns an index whose weight is > 0.
func Weighted(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("dice: Weighted called with a negative weight")
		}
		total += w
	}
	if total <= 0 {
		panic("dice: Weighted called with zero total weight")
	}
	roll := src.Float64() * total
	last := -1
	cumulative := 0.0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		last = i
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	// Floating point drift can leave roll == total; the last bucket absorbs it.
	return last
}
