// Package rge holds what the shape decoders share: the caller-supplied parsing
// options, the error taxonomy and a registry of formats keyed by magic.
//
// Decoders are strict about headers and lenient inside row streams: a bad
// magic, comment or frame count fails the whole file with a *FormatError,
// while an opcode whose meaning is unknown is reported as an
// *UnimplementedCommandError warning and decoding continues.
package rge

import "github.com/cam-per/rgeshape/rge/raster"

// Options carries the palette-independent parsing context.
type Options struct {
	// PlayerColorBase is added to player-color placeholder indices.
	PlayerColorBase raster.Index
	// ShadowIndex is written by shadow-fill commands.
	ShadowIndex raster.Index
}

var DefaultOptions = Options{
	PlayerColorBase: 16,
	ShadowIndex:     0,
}

// PlayerColor maps a placeholder index onto the player's palette range.
func (o Options) PlayerColor(idx byte) raster.Index {
	return raster.Index(idx) + o.PlayerColorBase
}
