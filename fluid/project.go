package fluid

import "github.com/pthm-cable/drift/config"

// computeDivergence writes the central-difference divergence of the
// velocity field into the scalar divergence buffer. Out-of-grid neighbors
// clamp to the boundary cell.
func (s *Solver) computeDivergence() {
	w, h := s.width, s.height
	vel := s.velocity.Cur()
	div := s.divergence

	s.disp.Dispatch(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			yd := clampi(y-1, 0, h-1)
			yu := clampi(y+1, 0, h-1)
			for x := 0; x < w; x++ {
				xl := clampi(x-1, 0, w-1)
				xr := clampi(x+1, 0, w-1)

				vxRight := vel[2*(y*w+xr)]
				vxLeft := vel[2*(y*w+xl)]
				vyUp := vel[2*(yu*w+x)+1]
				vyDown := vel[2*(yd*w+x)+1]

				div[y*w+x] = 0.5 * ((vxRight - vxLeft) + (vyUp - vyDown))
			}
		}
	})
}

// solvePressure runs a fixed number of Jacobi iterations on the discrete
// Poisson equation ∇²p = divergence. Boundary cells read their own value in
// place of any neighbor outside the grid (zero-gradient condition).
func (s *Solver) solvePressure() {
	if s.pressureMode == config.PressureClear {
		s.pressure.Fill(s.clearPressure)
	}

	w, h := s.width, s.height
	div := s.divergence

	for iter := 0; iter < s.pressureIterations; iter++ {
		cur := s.pressure.Cur()
		next := s.pressure.Next()

		s.disp.Dispatch(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				yd := clampi(y-1, 0, h-1)
				yu := clampi(y+1, 0, h-1)
				for x := 0; x < w; x++ {
					xl := clampi(x-1, 0, w-1)
					xr := clampi(x+1, 0, w-1)

					l := cur[y*w+xl]
					r := cur[y*w+xr]
					d := cur[yd*w+x]
					u := cur[yu*w+x]

					next[y*w+x] = (l + r + d + u - div[y*w+x]) * 0.25
				}
			}
		})

		s.pressure.Swap()
	}
}

// subtractGradient removes the pressure gradient from the velocity field,
// leaving it near divergence-free. At the domain edges the component
// normal to the wall is forced to zero.
func (s *Solver) subtractGradient() {
	w, h := s.width, s.height
	vel := s.velocity.Cur()
	next := s.velocity.Next()
	p := s.pressure.Cur()

	s.disp.Dispatch(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			yd := clampi(y-1, 0, h-1)
			yu := clampi(y+1, 0, h-1)
			for x := 0; x < w; x++ {
				xl := clampi(x-1, 0, w-1)
				xr := clampi(x+1, 0, w-1)

				i := 2 * (y*w + x)
				gradX := 0.5 * (p[y*w+xr] - p[y*w+xl])
				gradY := 0.5 * (p[yu*w+x] - p[yd*w+x])

				vx := vel[i] - gradX
				vy := vel[i+1] - gradY

				if x == 0 || x == w-1 {
					vx = 0
				}
				if y == 0 || y == h-1 {
					vy = 0
				}

				next[i] = vx
				next[i+1] = vy
			}
		}
	})

	s.velocity.Swap()
}
