package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/gif"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/cam-per/rgeshape/rge"
	"github.com/cam-per/rgeshape/rge/colorcycle"
	"github.com/cam-per/rgeshape/rge/export"
	"github.com/cam-per/rgeshape/rge/pal"
	"github.com/cam-per/rgeshape/rge/raster"
	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"
)

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "convert shape files to GIF animations or BMP frames",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "palette",
				Aliases: []string{"p"},
				Usage:   "JASC-PAL or raw RGB palette file",
				Sources: cli.EnvVars("RGESHAPE_PALETTE"),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "output directory",
				Sources: cli.EnvVars("RGESHAPE_OUT"),
			},
			&cli.StringFlag{Name: "format", Value: "gif", Usage: "gif or bmp"},
			&cli.IntFlag{Name: "player-base", Value: int(rge.DefaultOptions.PlayerColorBase), Usage: "first palette index of the player color range"},
			&cli.IntFlag{Name: "shadow-index", Value: int(rge.DefaultOptions.ShadowIndex), Usage: "palette index written for shadow pixels"},
			&cli.IntFlag{Name: "delay", Value: export.DefaultOptions.DefaultDelay, Usage: "frame delay in centiseconds"},
			&cli.IntFlag{Name: "transparent", Value: int(raster.Transparent), Usage: "transparent palette index, -1 for none"},
			&cli.StringSliceFlag{Name: "cycle", Usage: "palette cycle, single:IDX:#rrggbb,... or ring:FIRST:#rrggbb,..."},
			&cli.BoolFlag{Name: "mirror", Usage: "flip frames horizontally"},
			&cli.StringFlag{Name: "slice", Usage: "keep frames START:END"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: runtime.NumCPU(), Sources: cli.EnvVars("RGESHAPE_JOBS")},
		},
		Action: runDecode,
	}
}

type decodeJob struct {
	in      *inputs
	opts    rge.Options
	export  export.Options
	palette *raster.Palette
	cycles  []colorcycle.Cycle
	mirror  bool
	slice   string
	format  string
	outDir  string
}

func newDecodeJob(cmd *cli.Command) (*decodeJob, error) {
	job := &decodeJob{
		export: export.DefaultOptions,
		mirror: cmd.Bool("mirror"),
		slice:  cmd.String("slice"),
		format: cmd.String("format"),
		outDir: cmd.String("out"),
	}
	if job.format != "gif" && job.format != "bmp" {
		return nil, errors.Errorf("unknown output format %q", job.format)
	}

	base, err := raster.NewIndex(cmd.Int("player-base"))
	if err != nil {
		return nil, errors.Wrap(err, "--player-base")
	}
	shadow, err := raster.NewIndex(cmd.Int("shadow-index"))
	if err != nil {
		return nil, errors.Wrap(err, "--shadow-index")
	}
	job.opts = rge.Options{PlayerColorBase: base, ShadowIndex: shadow}
	job.export.DefaultDelay = cmd.Int("delay")
	job.export.Transparent = export.TransparentIndex(cmd.Int("transparent"))

	for _, s := range cmd.StringSlice("cycle") {
		c, err := parseCycle(s)
		if err != nil {
			return nil, err
		}
		job.cycles = append(job.cycles, c)
	}

	name := cmd.String("palette")
	if name == "" {
		return nil, errors.New("--palette is required")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if job.palette, err = pal.Load(data); err != nil {
		return nil, errors.Wrapf(err, "loading palette %s", name)
	}
	return job, nil
}

func runDecode(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return cli.Exit("decode: no input files", 2)
	}
	job, err := newDecodeJob(cmd)
	if err != nil {
		return err
	}
	if job.in, err = openInputs(cmd); err != nil {
		return err
	}
	defer job.in.Close()
	if err := os.MkdirAll(job.outDir, 0o755); err != nil {
		return err
	}

	jobs := cmd.Int("jobs")
	if jobs < 1 {
		jobs = 1
	}
	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	g.SetLimit(jobs)
	for _, name := range names {
		g.Go(func() error {
			if err := job.safeRun(name); err != nil {
				glog.Errorf("%s: %v", name, err)
				failed.Add(1)
			}
			return nil
		})
	}
	g.Wait()
	if n := failed.Load(); n > 0 {
		return cli.Exit(fmt.Sprintf("decode: %d of %d files failed", n, len(names)), 1)
	}
	return nil
}

// safeRun turns a panic while handling one file into that file's error, so
// the rest of the batch still runs.
func (job *decodeJob) safeRun(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return job.run(name)
}

func (job *decodeJob) run(name string) error {
	data, err := job.in.read(name)
	if err != nil {
		return err
	}
	anim, format, err := rge.Decode(bytes.NewReader(data), job.opts)
	if err != nil {
		return err
	}
	glog.V(1).Infof("%s: %s, %d frames", name, format, anim.Len())

	if job.slice != "" {
		start, end, err := parseSlice(job.slice, anim.Len())
		if err != nil {
			return err
		}
		if anim, err = anim.Slice(start, end); err != nil {
			return err
		}
	}
	if job.mirror {
		anim = anim.Mirror()
	}
	anim.Palette = job.palette
	anim = colorcycle.Synthesize(anim, job.export.DefaultDelay, job.palette, job.cycles)

	switch job.format {
	case "bmp":
		return job.writeBMP(name, anim)
	default:
		return job.writeGIF(name, anim)
	}
}

func (job *decodeJob) writeGIF(name string, anim *raster.Animation) error {
	g, err := export.GIF(anim, job.export)
	if err != nil {
		return err
	}
	out := filepath.Join(job.outDir, stem(name)+".gif")
	return writeFile(out, func(w *bufio.Writer) error { return gif.EncodeAll(w, g) })
}

func (job *decodeJob) writeBMP(name string, anim *raster.Animation) error {
	frames, err := export.Frames(anim, job.export)
	if err != nil {
		return err
	}
	for i, f := range frames {
		out := filepath.Join(job.outDir, fmt.Sprintf("%s_%03d.bmp", stem(name), i))
		if err := writeFile(out, func(w *bufio.Writer) error { return bmp.Encode(w, f.Image) }); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(name string, encode func(w *bufio.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", name)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(name); err == nil {
		fmt.Printf("%s\t%s\n", name, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}
