package state

import (
	"context"
	"io"
	stdlog "log"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"md2docx/pandoc"
)

func TestContextWithEnv_Defaults(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	if env.start.IsZero() {
		t.Error("start time is not set")
	}
	if _, ok := env.Runner.(*pandoc.ExecRunner); !ok {
		t.Errorf("Runner = %T, want *pandoc.ExecRunner", env.Runner)
	}
	if env.NoDirs || env.Overwrite || env.Open {
		t.Error("switches should be off by default")
	}
	if env.Cfg != nil || env.Rpt != nil || env.Log != nil {
		t.Error("configuration, report and logger are set up by the program, not by context")
	}
}

func TestContextWithEnv_Separate(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	env.Overwrite = true

	if EnvFromContext(ctx) != env {
		t.Error("same context returned different environment")
	}
	derived, cancel := context.WithCancel(ctx)
	defer cancel()
	if EnvFromContext(derived) != env {
		t.Error("derived context lost environment")
	}
	if other := EnvFromContext(ContextWithEnv(context.Background())); other == env || other.Overwrite {
		t.Error("new context shares environment")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when environment is not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	out, flags, prefix := stdlog.Writer(), stdlog.Flags(), stdlog.Prefix()
	stdlog.SetOutput(io.Discard)
	t.Cleanup(func() {
		stdlog.SetOutput(out)
		stdlog.SetFlags(flags)
		stdlog.SetPrefix(prefix)
	})

	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core).Named("md2docx")}

	env.RedirectStdLog()
	stdlog.Print("temporary file left behind")
	env.RestoreStdLog()
	stdlog.Print("after restore")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("captured %d entries, want 1", len(entries))
	}
	if entries[0].Message != "temporary file left behind" || entries[0].LoggerName != "md2docx" {
		t.Errorf("unexpected entry %q from %q", entries[0].Message, entries[0].LoggerName)
	}
}

func TestLocalEnv_NoLogger(t *testing.T) {
	env := &LocalEnv{}

	env.RedirectStdLog()
	if env.restoreStdLog != nil {
		t.Error("redirected without logger")
	}
	env.RestoreStdLog()
}
