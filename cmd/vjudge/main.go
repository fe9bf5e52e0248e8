package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"
)

func main() {
	a := &app{}
	cmd := &cli.Command{
		Name:  "vjudge",
		Usage: "browse contests and submit solutions to vjudge",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.toml (default $XDG_CONFIG_HOME/vjudge/config.toml)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging and submit lifecycle output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, a.setup(cmd.String("config"), cmd.Bool("verbose"))
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			a.close()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "log in and resolve your user id",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.login(ctx)
				},
			},
			{
				Name:  "contests",
				Usage: "list your contests",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.contests(ctx)
				},
			},
			{
				Name:      "problems",
				Usage:     "list the problems of a contest with your solved state",
				ArgsUsage: "<contestId>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					contestID, err := intArg(cmd, 0, "contestId")
					if err != nil {
						return err
					}
					return a.problems(ctx, contestID)
				},
			},
			{
				Name:      "describe",
				Usage:     "open a problem description",
				ArgsUsage: "<descId> <version> [title]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					descID, err := intArg(cmd, 0, "descId")
					if err != nil {
						return err
					}
					version, err := intArg(cmd, 1, "version")
					if err != nil {
						return err
					}
					return a.describe(ctx, descID, version, cmd.Args().Get(2))
				},
			},
			{
				Name:      "submit",
				Usage:     "submit a source file and wait for the verdict",
				ArgsUsage: "<contestId> <problemNum> <file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "lang",
						Aliases:  []string{"l"},
						Usage:    "judge language id",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print a JSON record of the submit action",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					contestID, err := intArg(cmd, 0, "contestId")
					if err != nil {
						return err
					}
					if cmd.Args().Len() < 3 {
						return fmt.Errorf("usage: submit <contestId> <problemNum> <file> --lang <id>")
					}
					return a.submit(ctx, contestID, cmd.Args().Get(1), cmd.Args().Get(2), cmd.String("lang"), cmd.Bool("json"))
				},
			},
			{
				Name:  "shell",
				Usage: "interactive session",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.shell(ctx)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if a.log != nil {
			a.log.Error("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func intArg(cmd *cli.Command, i int, name string) (int, error) {
	v := cmd.Args().Get(i)
	if v == "" {
		return 0, fmt.Errorf("missing argument <%s>", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid <%s> %q: %w", name, v, err)
	}
	return n, nil
}
