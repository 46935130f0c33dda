package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"md2docx/reference"
	"md2docx/state"
	"md2docx/tables"
)

// usageError shows command help and returns error for missing arguments.
func usageError(cmd *cli.Command, msg string) error {
	tmpl := cmd.CustomHelpTemplate
	if tmpl == "" {
		tmpl = cli.CommandHelpTemplate
	}
	cli.HelpPrinter(cmd.Root().Writer, tmpl, cmd)
	return errors.New(msg)
}

// Reference builds styled reference template and keeps it at requested
// location.
func Reference(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("reference")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		return usageError(cmd, "no destination has been specified")
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	if err := prepareOutput(dst, cmd.Bool("overwrite"), log); err != nil {
		return err
	}

	var tableStyle string
	if env.Cfg.Document.Tables.Enable {
		tableStyle = env.Cfg.Document.Tables.Style
	}
	if style := cmd.String("table-style"); style != "" {
		tableStyle = style
	}

	if err := reference.BuildFile(&env.Cfg.Document.Reference, tableStyle, dst, log); err != nil {
		return fmt.Errorf("unable to build reference template: %w", err)
	}
	env.Rpt.Store("reference"+outputExt, dst)

	log.Info("Reference template created", zap.String("file", dst))
	return nil
}

// Tables normalizes tables of already converted document, in place when
// destination is not specified.
func Tables(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("tables")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return usageError(cmd, "no input document has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := src
	if arg := cmd.Args().Get(1); arg != "" {
		if dst, err = filepath.Abs(arg); err != nil {
			return err
		}
		if dst != src {
			if err := prepareOutput(dst, cmd.Bool("overwrite"), log); err != nil {
				return err
			}
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	opts := tables.FromConfig(&env.Cfg.Document.Tables)
	if style := cmd.String("style"); style != "" {
		opts.Style = style
	}

	if err := tables.Normalize(src, dst, opts, log); err != nil {
		return err
	}
	env.Rpt.Store("result"+outputExt, dst)
	return nil
}
