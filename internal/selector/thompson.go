package selector

import "gonum.org/v1/gonum/stat/distuv"

// sampleBeta тянет один сэмпл из Beta(alpha, beta).
//
// Источник случайности общий с weighted random выбором,
// поэтому сэмплирование идёт под мьютексом Selector'а.
func (s *Selector) sampleBeta(alpha, beta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	dist := distuv.Beta{Alpha: alpha, Beta: beta, Src: s.rng}
	return dist.Rand()
}
