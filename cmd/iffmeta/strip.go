package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/simonhull/iffmeta"
)

func (a *app) stripCmd() *cli.Command {
	var wf writeFlags

	return &cli.Command{
		Name:      "strip",
		Usage:     "Remove the ID3 chunk from one or more files",
		ArgsUsage: "FILE...",
		Flags:     wf.flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return errors.New("strip: no files given")
			}

			opts := wf.options(cmd, a)
			for _, path := range paths {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := iffmeta.DeleteTags(path, opts...)
				if err != nil {
					return err
				}
				if err := a.printWrite(newWriteReport(path, res)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
