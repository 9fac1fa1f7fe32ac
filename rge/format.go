package rge

import (
	"bufio"
	"io"
	"sort"
	"sync"

	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/pkg/errors"
)

// DecodeFunc decodes one fully buffered shape file.
type DecodeFunc func(r io.Reader, opts Options) (*raster.Animation, error)

type format struct {
	name, magic string
	decode      DecodeFunc
}

var (
	formatsMu sync.Mutex
	formats   []format
)

// RegisterFormat makes a decoder available to Decode. Shape packages call it
// from init, so importing a package for its side effect is enough.
func RegisterFormat(name, magic string, decode DecodeFunc) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	formats = append(formats, format{name: name, magic: magic, decode: decode})
}

// Formats lists the registered format names.
func Formats() []string {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.name)
	}
	sort.Strings(names)
	return names
}

func sniff(magic []byte) (format, bool) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	for _, f := range formats {
		if len(magic) >= len(f.magic) && string(magic[:len(f.magic)]) == f.magic {
			return f, true
		}
	}
	return format{}, false
}

// Decode identifies the format by its magic and decodes it. The format name
// is returned alongside the animation.
func Decode(r io.Reader, opts Options) (*raster.Animation, string, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, "", errors.Wrap(err, "rge: reading magic")
	}
	f, ok := sniff(magic)
	if !ok {
		return nil, "", errors.Wrapf(ErrUnknownFormat, "magic %q", magic)
	}
	a, err := f.decode(br, opts)
	return a, f.name, err
}
