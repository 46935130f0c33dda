package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"md2docx/config"
	"md2docx/docx"
	"md2docx/misc"
	"md2docx/pandoc"
	"md2docx/reference"
	"md2docx/state"
	"md2docx/tables"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return usageError(cmd, "no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if from := cmd.String("from"); from != "" {
		env.Cfg.Document.Pandoc.From = from
	}
	if style := cmd.String("table-style"); style != "" {
		env.Cfg.Document.Tables.Style = style
	}
	env.NoDirs, env.Overwrite, env.Open = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("open")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process handles the core conversion logic independently of CLI framework.
// Source is either single Markdown file or directory to look for them.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsDir() {
		if err := processDir(ctx, src, dst, log); err != nil {
			return fmt.Errorf("unable to process directory: %w", err)
		}
		return nil
	}

	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	if !isMarkdownFile(src) {
		log.Warn("Source does not look like Markdown, trying anyway", zap.String("file", src))
	}

	// explicitly named result is only possible for a single file
	var outputName string
	if isOutputFile(dst) {
		outputName = dst
	}
	outputName, err = processFile(ctx, src, filepath.Base(src), dst, outputName, log)
	if err != nil {
		return fmt.Errorf("unable to process file (%s): %w", src, err)
	}

	if env.Open {
		if err := config.OpenWithDefaultApp(outputName); err != nil {
			log.Warn("Unable to open result", zap.String("file", outputName), zap.Error(err))
		}
	}
	return nil
}

// collectSources returns Markdown files under dir relative to it in natural
// order.
func collectSources(ctx context.Context, dir string, log *zap.Logger) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !isMarkdownFile(path) {
			log.Debug("Skipping file, not recognized as Markdown", zap.String("file", path))
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(files, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return files, nil
}

// processDir converts every Markdown file found in directory tree. Failure of
// a single file does not stop processing, unless converter is not available
// at all.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	files, err := collectSources(ctx, dir, log)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}

	failed := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, rel)
		if _, err := processFile(ctx, path, rel, dst, "", log); err != nil {
			if errors.Is(err, pandoc.ErrNotFound) || ctx.Err() != nil {
				return err
			}
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files were not converted", failed, len(files))
	}
	return nil
}

// processFile converts single Markdown file. "rel" is part of the source path
// (always including file name) relative to the original path. When actual file
// was specified it will be just base file name without a path. "dst" is the
// destination directory, "outputName" when not empty overrides resulting
// file name. Returns name of produced document.
func processFile(ctx context.Context, path, rel, dst, outputName string, log *zap.Logger) (_ string, rerr error) {
	env := state.EnvFromContext(ctx)

	log.Info("Conversion starting", zap.String("from", rel))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	s, err := loadSource(path, rel, env.Cfg.Document.SourceEncoding, log)
	if err != nil {
		return "", err
	}

	if outputName == "" {
		outputName = buildOutputPath(s, dst, env)
	}
	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return "", err
	}

	if err := convertSource(ctx, s, outputName, env, log); err != nil {
		return "", err
	}
	return outputName, nil
}

// prepareOutput makes sure result could be written.
func prepareOutput(name string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
		return os.Remove(name)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// convertSource runs full pipeline for prepared source: builds reference
// template, invokes converter and normalizes tables of the result. Template
// only lives for the duration of the call.
func convertSource(ctx context.Context, s *source, outputName string, env *state.LocalEnv, log *zap.Logger) error {
	cfg := &env.Cfg.Document

	workDir, err := os.MkdirTemp("", misc.GetAppName()+"-*")
	if err != nil {
		return fmt.Errorf("unable to create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn("Unable to remove temporary files", zap.String("dir", workDir), zap.Error(err))
		}
	}()

	id := uuid.NewString()

	var tableStyle string
	if cfg.Tables.Enable {
		tableStyle = cfg.Tables.Style
	}
	refName := filepath.Join(workDir, "reference-"+id+outputExt)
	if err := reference.BuildFile(&cfg.Reference, tableStyle, refName, log.Named("reference")); err != nil {
		return fmt.Errorf("unable to build reference template: %w", err)
	}
	if err := env.Rpt.StoreCopy("reference-"+id+outputExt, refName); err != nil {
		log.Warn("Unable to store reference template in report", zap.Error(err))
	}

	input, err := s.workingCopy(workDir)
	if err != nil {
		return err
	}

	conv := pandoc.NewConverter(&cfg.Pandoc, env.Runner)
	env.Rpt.StoreData("pandoc-"+id+".txt", []byte(conv.CommandLine(input, refName, outputName)))
	if err := conv.Convert(ctx, input, refName, outputName, log.Named("pandoc")); err != nil {
		return err
	}

	if cfg.Tables.Enable {
		if err := tables.Normalize(outputName, outputName, tables.FromConfig(&cfg.Tables), log.Named("tables")); err != nil {
			return fmt.Errorf("unable to post-process tables: %w", err)
		}
	}

	env.Rpt.Store("result-"+id+outputExt, outputName)
	if env.Rpt != nil {
		if d, err := docx.Open(outputName); err == nil {
			env.Rpt.StoreData("outline-"+id+".txt", []byte(d.Describe()))
		} else {
			log.Warn("Unable to describe result", zap.Error(err))
		}
	}
	return nil
}
