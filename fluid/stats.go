package fluid

import "math"

// DivergenceNorms returns the L2 norm of the divergence field as it stood
// before the last pressure projection and the L2 norm of the divergence of
// the current (projected) velocity. The post value is computed on the fly
// without disturbing the solver buffers.
func (s *Solver) DivergenceNorms() (pre, post float64) {
	var preSum float64
	for _, d := range s.divergence {
		preSum += float64(d) * float64(d)
	}

	w, h := s.width, s.height
	cur := s.velocity.Cur()
	var postSum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := clampi(x-1, 0, w-1)
			r := clampi(x+1, 0, w-1)
			d := clampi(y-1, 0, h-1)
			u := clampi(y+1, 0, h-1)

			div := 0.5 * ((cur[2*(y*w+r)] - cur[2*(y*w+l)]) +
				(cur[2*(u*w+x)+1] - cur[2*(d*w+x)+1]))
			postSum += float64(div) * float64(div)
		}
	}

	return math.Sqrt(preSum), math.Sqrt(postSum)
}

// SpeedStats returns the maximum and mean velocity magnitude over the grid.
func (s *Solver) SpeedStats() (max, mean float64) {
	cur := s.velocity.Cur()
	n := s.width * s.height
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		vx := float64(cur[2*i])
		vy := float64(cur[2*i+1])
		speed := math.Sqrt(vx*vx + vy*vy)
		sum += speed
		if speed > max {
			max = speed
		}
	}
	return max, sum / float64(n)
}

// HasNaN reports whether any velocity component is NaN or Inf.
func (s *Solver) HasNaN() bool {
	for _, v := range s.velocity.Cur() {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}
