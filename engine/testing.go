package engine

// ScriptedSource replays fixed draws for deterministic tests
// Float64 cycles through Floats (0 when empty); IntN cycles through Ints
// reduced modulo n, so a zero script always picks the first candidate
type ScriptedSource struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

// Float64 returns the next scripted float
func (s *ScriptedSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

// IntN returns the next scripted int reduced into [0, n)
func (s *ScriptedSource) IntN(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	return ((v % n) + n) % n
}

// Draws returns how many Float64 and IntN calls have been served
func (s *ScriptedSource) Draws() (floats, ints int) {
	return s.fi, s.ii
}
