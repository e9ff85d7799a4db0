package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/simonhull/iffmeta"
)

func (a *app) versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := iffmeta.GetVersionInfo()
			fmt.Fprintf(a.out, "version:    %s\n", info)
			if info.BuildTime != "" {
				fmt.Fprintf(a.out, "build time: %s\n", info.BuildTime)
			}
			fmt.Fprintf(a.out, "go:         %s\n", info.GoVersion)
			return nil
		},
	}
}
