package sim

import "math/rand/v2"

// Source — инъецируемый источник случайности. Вероятностные ветвления
// (смена задачи, сэмплинг качества связи) ходят только через него,
// чтобы тесты могли подставить детерминированную последовательность
// и проверять точные исходы переходов.
type Source interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

type pcgSource struct {
	r *rand.Rand
}

// NewSource — боевой источник на PCG из math/rand/v2.
func NewSource(seed uint64) Source {
	return &pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *pcgSource) Float64() float64 { return s.r.Float64() }
func (s *pcgSource) IntN(n int) int   { return s.r.IntN(n) }
