package main

import (
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/cam-per/rgeshape/internal/drs"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

// inputs reads FILE arguments from disk or, with --drs, from an archive.
type inputs struct {
	archive *drs.Archive
	file    *os.File
}

func openInputs(cmd *cli.Command) (*inputs, error) {
	name := cmd.String("drs")
	if name == "" {
		return &inputs{}, nil
	}
	archive, f, err := openArchive(name)
	if err != nil {
		return nil, err
	}
	return &inputs{archive: archive, file: f}, nil
}

func openArchive(name string) (*drs.Archive, *os.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	archive, err := drs.NewArchive(f)
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "opening archive %s", name)
	}
	return archive, f, nil
}

func (in *inputs) Close() error {
	if in.file == nil {
		return nil
	}
	return in.file.Close()
}

// read returns the bytes of name. Inside an archive a bare resource id is
// looked up among the shape tables.
func (in *inputs) read(name string) ([]byte, error) {
	if in.archive == nil {
		return os.ReadFile(name)
	}
	if id, err := strconv.Atoi(name); err == nil {
		for _, ext := range []string{"slp", "shp", "scp"} {
			if e, ok := in.archive.Lookup(ext, id); ok {
				name = e.Path()
				break
			}
		}
	}
	return fs.ReadFile(in.archive, strings.TrimPrefix(name, "/"))
}

// stem names output files after their input.
func stem(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
