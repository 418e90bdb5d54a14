package fluid

import "github.com/pthm-cable/drift/config"

// advect self-advects the velocity field by dt using semi-Lagrangian
// backtracing, optionally corrected with a reverse pass to cancel
// first-order smoothing. Multiplicative decay 1/(1 + dissipation·dt) is
// applied once, in the final write.
func (s *Solver) advect(dt float32) {
	decay := 1.0 / (1.0 + s.dissipation*dt)

	switch s.advectionMode {
	case config.AdvectSingle:
		s.advectPass(s.velocity.Next(), s.velocity.Cur(), s.velocity.Cur(), dt, decay)
		s.velocity.Swap()
	default:
		// Trace forward, trace the result back, and use the discrepancy
		// between the round trip and the original field as a first-order
		// error estimate.
		cur := s.velocity.Cur()
		s.advectPass(s.forward, cur, cur, dt, 1)
		s.advectPass(s.reverse, s.forward, s.forward, -dt, 1)
		s.adjustAdvection(dt, decay)
		s.velocity.Swap()
	}
}

// advectPass writes one semi-Lagrangian pass into dst: every cell traces
// backward along trace by dt and bilinearly samples src at that point.
func (s *Solver) advectPass(dst, src, trace []float32, dt, decay float32) {
	w, h := s.width, s.height

	s.disp.Dispatch(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := 2 * (y*w + x)
				px := float32(x) - dt*trace[i]
				py := float32(y) - dt*trace[i+1]
				vx, vy := sampleVec2(src, w, h, px, py)
				dst[i] = decay * vx
				dst[i+1] = decay * vy
			}
		}
	})
}

// adjustAdvection blends the forward and reverse passes into the next
// velocity buffer: adjusted = forward + 0.5·(v − reverse), clamped to the
// value range of the cells the forward trace sampled from so the
// correction cannot introduce new extrema.
func (s *Solver) adjustAdvection(dt, decay float32) {
	w, h := s.width, s.height
	cur := s.velocity.Cur()
	next := s.velocity.Next()
	forward := s.forward
	reverse := s.reverse

	s.disp.Dispatch(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := 2 * (y*w + x)

				ax := forward[i] + 0.5*(cur[i]-reverse[i])
				ay := forward[i+1] + 0.5*(cur[i+1]-reverse[i+1])

				// Bounds of the 2x2 neighborhood the forward trace read.
				px := clampf(float32(x)-dt*cur[i], 0, float32(w-1))
				py := clampf(float32(y)-dt*cur[i+1], 0, float32(h-1))
				x0 := int(px)
				y0c := int(py)
				x1 := clampi(x0+1, 0, w-1)
				y1c := clampi(y0c+1, 0, h-1)

				minX, maxX := neighborhoodRange(cur, w, x0, x1, y0c, y1c, 0)
				minY, maxY := neighborhoodRange(cur, w, x0, x1, y0c, y1c, 1)

				next[i] = decay * clampf(ax, minX, maxX)
				next[i+1] = decay * clampf(ay, minY, maxY)
			}
		}
	})
}

// neighborhoodRange returns the min and max of one vector component over
// the four cells (x0,y0) (x1,y0) (x0,y1) (x1,y1).
func neighborhoodRange(buf []float32, w, x0, x1, y0, y1, comp int) (float32, float32) {
	a := buf[2*(y0*w+x0)+comp]
	b := buf[2*(y0*w+x1)+comp]
	c := buf[2*(y1*w+x0)+comp]
	d := buf[2*(y1*w+x1)+comp]

	mn, mx := a, a
	for _, v := range [3]float32{b, c, d} {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}
