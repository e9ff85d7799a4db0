// Command iffmeta inspects and edits the ID3 metadata chunk of AIFF and WAV
// files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// app holds the state shared by all subcommands.
type app struct {
	out        io.Writer
	logger     *slog.Logger
	cfg        Config
	format     string
	configPath string
	verbose    bool
}

func newApp(out io.Writer) *cli.Command {
	a := &app{out: out, logger: slog.Default()}

	return &cli.Command{
		Name:  "iffmeta",
		Usage: "Inspect and edit ID3 metadata in AIFF and WAV files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format: text, json or yaml",
				Value:       "text",
				Destination: &a.format,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Value:       configPath(),
				Destination: &a.configPath,
			},
			&cli.BoolFlag{Name: "verbose", Usage: "log diagnostics to stderr", Destination: &a.verbose},
		},
		Before: a.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			a.dumpCmd(),
			a.tagsCmd(),
			a.setCmd(),
			a.stripCmd(),
			a.versionCmd(),
		},
	}
}

// before loads the config file and applies it to flags the user did not set.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg

	if cfg.Format != "" && !cmd.IsSet("format") {
		a.format = cfg.Format
	}
	switch a.format {
	case formatText, formatJSON, formatYAML:
	default:
		return ctx, fmt.Errorf("unknown output format %q", a.format)
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return ctx, nil
}

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
