package colorcycle

import (
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/golang/glog"
)

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM of the positive values; non-positive values are ignored. Returns 1 for none.
func LCM(values ...int) int {
	l := 1
	for _, v := range values {
		if v <= 0 {
			continue
		}
		l = l / gcd(l, v) * v
	}
	return l
}

// Active filters cycles down to those referenced by at least one frame.
func Active(a *raster.Animation, cycles []Cycle) []Cycle {
	var active []Cycle
	for _, c := range cycles {
		for _, f := range a.Frames {
			if c.UsedBy(f) {
				active = append(active, c)
				break
			}
		}
	}
	return active
}

// Synthesize bakes palette cycles into a. Every output frame is a clone of the
// base frame showing at that moment, carrying its own palette and delay. The
// delays sum to the least common multiple of the animation's duration and all
// used cycles' durations, so the result loops without a seam. Cycles apply in
// order, each onto the previous result. A nil base falls back to a.Palette.
// If no cycle is used or there is no palette at all, a is returned.
func Synthesize(a *raster.Animation, defaultDelay int, base *raster.Palette, cycles []Cycle) *raster.Animation {
	if base == nil {
		base = a.Palette
	}
	if base == nil {
		if len(cycles) > 0 {
			glog.Warning("colorcycle: no palette to cycle, leaving animation unchanged")
		}
		return a
	}
	active := Active(a, cycles)
	if len(active) == 0 {
		return a
	}

	delay := func(i int) int {
		if d := raster.FrameDelay(a.Frames[i], defaultDelay); d > 0 {
			return d
		}
		return 1
	}
	animated := len(a.Frames) > 1

	durations := make([]int, 0, len(active)+1)
	animTotal := 1
	if animated {
		animTotal = 0
		for i := range a.Frames {
			animTotal += delay(i)
		}
	}
	durations = append(durations, animTotal)
	for _, c := range active {
		durations = append(durations, c.Duration())
	}
	total := LCM(durations...)

	var (
		out         []*raster.Frame
		cycleStep   int
		cycleRemain = TickDuration
		frame       int
		frameRemain = delay(0)
	)
	for clock := 0; clock < total; {
		step := cycleRemain
		if animated && frameRemain < step {
			step = frameRemain
		}
		if rest := total - clock; rest < step {
			step = rest
		}

		pal := base.Clone()
		for _, c := range active {
			c.Apply(pal, cycleStep)
		}
		f := a.Frames[frame].Clone()
		f.Palette = pal
		f.Delay = step
		out = append(out, f)

		clock += step
		cycleRemain -= step
		if cycleRemain == 0 {
			cycleRemain = TickDuration
			cycleStep++
		}
		if animated {
			frameRemain -= step
			if frameRemain == 0 {
				frame = (frame + 1) % len(a.Frames)
				frameRemain = delay(frame)
			}
		}
	}

	glog.V(1).Infof("colorcycle: %d of %d cycles used, %d base frames -> %d frames over %d cs",
		len(active), len(cycles), len(a.Frames), len(out), total)
	return &raster.Animation{Frames: out, Palette: base}
}
