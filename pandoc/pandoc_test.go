package pandoc

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"md2docx/config"
)

type MockRunner struct {
	Stdout     string
	Stderr     string
	Err        error
	CalledWith []string
}

func (m *MockRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	m.CalledWith = append([]string{name}, args...)
	return m.Stdout, m.Stderr, m.Err
}

func newConverter(r CommandRunner, extra ...string) *Converter {
	return NewConverter(&config.PandocConfig{Path: "pandoc", From: "markdown+footnotes+mark", ExtraArgs: extra}, r)
}

func TestConvert_Arguments(t *testing.T) {
	r := &MockRunner{}
	c := newConverter(r, "--toc")

	if err := c.Convert(context.Background(), "in.md", "ref.docx", "out.docx", zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := []string{"pandoc", "--from=markdown+footnotes+mark", "in.md", "--reference-doc=ref.docx", "--toc", "-o", "out.docx"}
	if !slices.Equal(r.CalledWith, want) {
		t.Errorf("called with %v, want %v", r.CalledWith, want)
	}
}

func TestConvert_Failures(t *testing.T) {
	tests := []struct {
		name    string
		runner  *MockRunner
		wantErr error
		wantMsg string
	}{
		{
			name:    "non zero exit",
			runner:  &MockRunner{Stderr: "Unknown extension: mrak\n", Err: errors.New("exit status 64")},
			wantErr: ErrConversionFailed,
			wantMsg: "Unknown extension: mrak",
		},
		{
			name:    "no stderr",
			runner:  &MockRunner{Err: errors.New("exit status 1")},
			wantErr: ErrConversionFailed,
		},
		{
			name:    "not installed",
			runner:  &MockRunner{Err: &exec.Error{Name: "pandoc", Err: exec.ErrNotFound}},
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newConverter(tt.runner).Convert(context.Background(), "in.md", "ref.docx", "out.docx", zaptest.NewLogger(t))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Convert() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestConvert_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &MockRunner{Err: errors.New("signal: killed")}
	err := newConverter(r).Convert(ctx, "in.md", "ref.docx", "out.docx", zaptest.NewLogger(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestConvert_WarningsAreNotFatal(t *testing.T) {
	r := &MockRunner{Stderr: "[WARNING] Could not fetch resource 'x.png'\n"}
	if err := newConverter(r).Convert(context.Background(), "in.md", "ref.docx", "out.docx", zaptest.NewLogger(t)); err != nil {
		t.Errorf("Convert() error = %v", err)
	}
}

func TestCommandLine(t *testing.T) {
	c := newConverter(&MockRunner{})
	got := c.CommandLine("my notes.md", "ref.docx", "out.docx")
	want := `pandoc --from=markdown+footnotes+mark "my notes.md" --reference-doc=ref.docx -o out.docx`
	if got != want {
		t.Errorf("CommandLine() = %s, want %s", got, want)
	}
}

func TestVersion(t *testing.T) {
	r := &MockRunner{Stdout: "pandoc 3.1.11\nFeatures: +server +lua\n"}
	v, err := newConverter(r).Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v != "pandoc 3.1.11" {
		t.Errorf("Version() = %q", v)
	}
	if !slices.Equal(r.CalledWith, []string{"pandoc", "--version"}) {
		t.Errorf("called with %v", r.CalledWith)
	}

	_, err = newConverter(&MockRunner{Err: fmt.Errorf("wrapped: %w", exec.ErrNotFound)}).Version(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Version() error = %v, want ErrNotFound", err)
	}
	_, err = newConverter(&MockRunner{Err: errors.New("boom")}).Version(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Version() error = %v", err)
	}
}

func TestExecRunner(t *testing.T) {
	_, _, err := (&ExecRunner{}).Run(context.Background(), "md2docx-no-such-binary-here")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Run() error = %v, want exec.ErrNotFound", err)
	}
}
