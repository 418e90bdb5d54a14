package fluid

// diffuse approximates viscosity with a fixed number of Jacobi iterations.
// Each iteration replaces a cell with a weighted blend of its four
// neighbors and its own value; the weights follow the implicit diffusion
// discretization. The iteration count is a visual-character parameter, not
// a convergence target.
func (s *Solver) diffuse(dt float32) {
	if s.diffusionIterations <= 0 {
		return
	}

	w, h := s.width, s.height
	centerFactor := 1.0 / (s.viscosity * dt)
	stencilFactor := 1.0 / (4.0 + centerFactor)

	for iter := 0; iter < s.diffusionIterations; iter++ {
		cur := s.velocity.Cur()
		next := s.velocity.Next()

		s.disp.Dispatch(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				yd := clampi(y-1, 0, h-1)
				yu := clampi(y+1, 0, h-1)
				for x := 0; x < w; x++ {
					xl := clampi(x-1, 0, w-1)
					xr := clampi(x+1, 0, w-1)

					i := 2 * (y*w + x)
					l := 2 * (y*w + xl)
					r := 2 * (y*w + xr)
					d := 2 * (yd*w + x)
					u := 2 * (yu*w + x)

					next[i] = (cur[l] + cur[r] + cur[d] + cur[u] + centerFactor*cur[i]) * stencilFactor
					next[i+1] = (cur[l+1] + cur[r+1] + cur[d+1] + cur[u+1] + centerFactor*cur[i+1]) * stencilFactor
				}
			}
		})

		s.velocity.Swap()
	}
}

// inject adds dt·force to the velocity field in place. Purely per-cell, so
// the single-buffer update is safe.
func (s *Solver) inject(dt float32, force []float32) {
	cur := s.velocity.Cur()

	s.disp.Dispatch(s.height, func(y0, y1 int) {
		start := 2 * y0 * s.width
		end := 2 * y1 * s.width
		for i := start; i < end; i++ {
			cur[i] += dt * force[i]
		}
	})
}
