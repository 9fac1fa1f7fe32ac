package main

import (
	"strconv"
	"strings"

	"github.com/cam-per/rgeshape/rge/colorcycle"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// parseCycle reads "single:IDX:#rrggbb,#rrggbb" or "ring:FIRST:#rrggbb,...".
func parseCycle(s string) (colorcycle.Cycle, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return nil, errors.Errorf("cycle %q: want KIND:INDEX:COLORS", s)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, errors.Wrapf(err, "cycle %q: index", s)
	}
	idx, err := raster.NewIndex(n)
	if err != nil {
		return nil, errors.Wrapf(err, "cycle %q", s)
	}
	colors, err := parseColors(parts[2])
	if err != nil {
		return nil, errors.Wrapf(err, "cycle %q", s)
	}
	switch parts[0] {
	case "single":
		return colorcycle.NewSingle(idx, colors)
	case "ring":
		return colorcycle.NewRing(idx, colors)
	}
	return nil, errors.Errorf("cycle %q: unknown kind %q", s, parts[0])
}

func parseColors(s string) ([]raster.Color, error) {
	var colors []raster.Color
	for _, hex := range strings.Split(s, ",") {
		c, err := colorful.Hex(strings.TrimSpace(hex))
		if err != nil {
			return nil, errors.Wrapf(err, "color %q", hex)
		}
		r, g, b := c.RGB255()
		colors = append(colors, raster.Color{R: r, G: g, B: b})
	}
	return colors, nil
}

// parseSlice reads "START:END" with either side optional.
func parseSlice(s string, n int) (start, end int, err error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.Errorf("slice %q: want START:END", s)
	}
	start, end = 0, n
	if lo != "" {
		if start, err = strconv.Atoi(lo); err != nil {
			return 0, 0, errors.Wrapf(err, "slice %q", s)
		}
	}
	if hi != "" {
		if end, err = strconv.Atoi(hi); err != nil {
			return 0, 0, errors.Wrapf(err, "slice %q", s)
		}
	}
	return start, end, nil
}
