// Command rgeshape inspects and converts SHP, SLP and SCP shape files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/urfave/cli/v3"

	_ "github.com/cam-per/rgeshape/rge/scp"
	_ "github.com/cam-per/rgeshape/rge/shp"
	_ "github.com/cam-per/rgeshape/rge/slp"
)

func main() {
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse(nil)
	defer glog.Flush()

	cmd := &cli.Command{
		Name:  "rgeshape",
		Usage: "inspect and convert RGE shape files",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "verbosity",
				Usage: "glog verbosity level",
			},
			&cli.StringFlag{
				Name:    "drs",
				Usage:   "resolve FILE arguments inside this DRS archive",
				Sources: cli.EnvVars("RGESHAPE_DRS"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if v := cmd.Int("verbosity"); v > 0 {
				if err := flag.Set("v", strconv.Itoa(v)); err != nil {
					return ctx, err
				}
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			infoCommand(),
			decodeCommand(),
			lsCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		glog.Errorln(err)
		glog.Flush()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
