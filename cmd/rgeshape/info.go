package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print format, frame count and geometry of shape files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "frames", Aliases: []string{"f"}, Usage: "also list every frame"},
		},
		Action: runInfo,
	}
}

func runInfo(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return cli.Exit("info: no input files", 2)
	}
	in, err := openInputs(cmd)
	if err != nil {
		return err
	}
	defer in.Close()

	failed := 0
	for _, name := range names {
		if err := printInfo(os.Stdout, in, name, cmd.Bool("frames")); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			failed++
		}
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("info: %d of %d files failed", failed, len(names)), 1)
	}
	return nil
}

func printInfo(w io.Writer, in *inputs, name string, frames bool) error {
	data, err := in.read(name)
	if err != nil {
		return err
	}
	anim, format, err := rge.Decode(bytes.NewReader(data), rge.DefaultOptions)
	if err != nil {
		return err
	}
	bounds := anim.Bounds()
	fmt.Fprintf(w, "%s: %s, %s, %d frames, bounds %s (%dx%d)\n",
		name, format, humanize.Bytes(uint64(len(data))), anim.Len(), formatRect(bounds), bounds.Dx(), bounds.Dy())
	if !frames {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tsize\tanchor\tbounds\tpixels")
	for i, f := range anim.Frames {
		fmt.Fprintf(tw, "  %d\t%dx%d\t%d,%d\t%s\t%s\n",
			i, f.Width(), f.Height(), f.Anchor.X, f.Anchor.Y, formatRect(f.Bounds()), humanize.Comma(int64(opaque(f))))
	}
	return tw.Flush()
}

func opaque(f *raster.Frame) int {
	n := 0
	for _, idx := range f.Pix {
		if idx != raster.Transparent {
			n++
		}
	}
	return n
}

func formatRect(r raster.Rect) string {
	if r.Empty() {
		return "empty"
	}
	return fmt.Sprintf("[%d,%d..%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

func lsCommand() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list the entries of a DRS archive",
		ArgsUsage: "ARCHIVE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("ls: want exactly one archive", 2)
			}
			name := cmd.Args().First()
			archive, f, err := openArchive(name)
			if err != nil {
				return err
			}
			defer f.Close()

			fmt.Printf("%s: %s, version %s\n", name, archive.Type(), archive.Version())
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			var total int64
			for _, e := range archive.Entries() {
				fmt.Fprintf(tw, "%s\t%s\n", e.Path(), humanize.Bytes(uint64(e.Size())))
				total += e.Size()
			}
			fmt.Fprintf(tw, "total\t%s\n", humanize.Bytes(uint64(total)))
			return tw.Flush()
		},
	}
}
