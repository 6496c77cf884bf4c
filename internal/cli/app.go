// Package cli implements the simpletemplate command: render a template file
// against merged data files, optionally watching inputs for changes.
package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Program is the command name.
const Program = "simpletemplate"

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// NewApp builds the command line application. Streams are passed in so the
// app can be driven from tests.
func NewApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	cfg := &Config{}
	var (
		logger *logrus.Logger
		closer io.Closer = nopCloser{}
	)

	return &cli.App{
		Name:      Program,
		Usage:     "render {{ }} templates against JSON, YAML or dotenv data",
		UsageText: Program + " [options] [template]",
		Version:   Version,
		Flags:     cfg.flags(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Before: func(*cli.Context) error {
			logger, closer = newLogger(cfg, stderr)
			return nil
		},
		After: func(*cli.Context) error {
			return closer.Close()
		},
		Action: func(ctx *cli.Context) error {
			if cfg.Template == "" && ctx.NArg() > 0 {
				cfg.Template = ctx.Args().First()
			}
			r, err := newRunner(cfg, logger, stdin, stdout)
			if err != nil {
				return err
			}
			if cfg.Watch {
				return r.watch(ctx.Context)
			}
			return r.render()
		},
	}
}
