package testutil

import "fmt"

// ScriptedSource is a deterministic randomness source that replays queued
// values. Intn and Float64 draw from independent queues; exhausting either
// queue panics so a test never silently consumes an unplanned draw.
type ScriptedSource struct {
	ints     []int
	floats   []float64
	consumed int
}

// NewScriptedSource returns an empty ScriptedSource.
func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{}
}

// Ints appends values to the Intn queue and returns s for chaining.
func (s *ScriptedSource) Ints(vals ...int) *ScriptedSource {
	s.ints = append(s.ints, vals...)
	return s
}

// Floats appends values to the Float64 queue and returns s for chaining.
func (s *ScriptedSource) Floats(vals ...float64) *ScriptedSource {
	s.floats = append(s.floats, vals...)
	return s
}

// Intn pops the next queued int. The value is reduced modulo n.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	if len(s.ints) == 0 {
		panic(fmt.Sprintf("testutil: scripted Intn(%d) queue exhausted after %d draws", n, s.consumed))
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	s.consumed++
	return v % n
}

// Float64 pops the next queued float.
func (s *ScriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		panic(fmt.Sprintf("testutil: scripted Float64 queue exhausted after %d draws", s.consumed))
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	s.consumed++
	return v
}

// Consumed returns the number of draws taken so far.
func (s *ScriptedSource) Consumed() int { return s.consumed }

// Remaining returns the number of queued values not yet drawn.
func (s *ScriptedSource) Remaining() int { return len(s.ints) + len(s.floats) }
