//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/justyntemme/retrocall/pkg/framework/param"
)

func paramsCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "save",
			Usage: "Write the resulting parameters and seed to a state file (zstd-compressed for .zst)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "console",
		},
	}
	flags = append(flags, effectFlags()...)

	return &cli.Command{
		Name:  "params",
		Usage: "List the parameter surface, optionally saving it as a state file",
		Flags: flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			p, err := newProcessor(cmd, nil, 2)
			if err != nil {
				return err
			}

			if path := cmd.String("save"); path != "" {
				f, err := os.Create(path) //nolint:gosec // CLI tool writes user-specified paths
				if err != nil {
					return fmt.Errorf("creating state: %w", err)
				}
				save := p.State().Save
				if strings.HasSuffix(path, ".zst") {
					save = p.State().SaveCompressed
				}
				if err = save(f); err != nil {
					_ = f.Close()
					return fmt.Errorf("saving state: %w", err)
				}
				if err = f.Close(); err != nil {
					return err
				}
			}

			all := p.Parameters().All()
			data := make([]*format.Data, 0, len(all))
			for _, prm := range all {
				data = append(data, &format.Data{
					Object: prm.Name,
					Meta:   describe(prm),
				})
			}

			formatter, err := format.GetFormatter(cmd.String("format"))
			if err != nil {
				return err
			}

			return formatter.PrintAll(data, os.Stdout)
		},
	}
}

func describe(p *param.Parameter) map[string]any {
	meta := map[string]any{
		"id":      p.ID,
		"value":   p.String(),
		"default": p.FormatValue(p.DefaultValue),
	}
	if p.ShortName != "" {
		meta["short"] = p.ShortName
	}
	if len(p.Labels) > 0 {
		meta["options"] = strings.Join(p.Labels, ", ")
	} else {
		meta["range"] = fmt.Sprintf("%g..%g %s", p.Min, p.Max, p.Unit)
	}

	var flags []string
	if p.Flags&param.IsReadOnly != 0 {
		flags = append(flags, "read-only")
	}
	if p.Flags&param.IsBypass != 0 {
		flags = append(flags, "bypass")
	}
	if p.Flags&param.CanAutomate != 0 {
		flags = append(flags, "automatable")
	}
	if len(flags) > 0 {
		meta["flags"] = strings.Join(flags, ", ")
	}

	return meta
}
