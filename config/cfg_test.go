package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	ref := cfg.Document.Reference
	if ref.FontName != "IBM Plex Sans" {
		t.Errorf("FontName = %q, want IBM Plex Sans", ref.FontName)
	}
	if ref.Placeholder != "X" {
		t.Errorf("Placeholder = %q, want X", ref.Placeholder)
	}
	if len(ref.Materialize) != 10 {
		t.Errorf("Materialize has %d names, want 10", len(ref.Materialize))
	}
	if len(ref.Styles) == 0 {
		t.Error("Expected default style overrides")
	}
	if len(ref.CharacterStyles) != 1 || ref.CharacterStyles[0].BaseName != "Hyperlink" {
		t.Errorf("CharacterStyles = %+v, want single Hyperlink entry", ref.CharacterStyles)
	}
	if got := ref.CharacterStyles[0].FontColor.Hex(); got != "0F62FE" {
		t.Errorf("Hyperlink color = %s, want 0F62FE", got)
	}

	if cfg.Document.Pandoc.From != "markdown+footnotes+mark" {
		t.Errorf("Pandoc.From = %q, want markdown+footnotes+mark", cfg.Document.Pandoc.From)
	}
	if cfg.Document.Pandoc.Path != "pandoc" {
		t.Errorf("Pandoc.Path = %q, want pandoc", cfg.Document.Pandoc.Path)
	}

	tbl := cfg.Document.Tables
	if !tbl.Enable || tbl.Style != "Light Shading" || !tbl.Autofit || tbl.WidthPct != 100 || !tbl.SpacerParagraph {
		t.Errorf("unexpected tables defaults: %+v", tbl)
	}
	want := TableLookConfig{FirstRow: true, NoHBand: true, NoVBand: true}
	if tbl.Look != want {
		t.Errorf("Look = %+v, want %+v", tbl.Look, want)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
document:
  reference:
    styles:
      - base_name: "Heading 1"
        custom_name: "IBM Heading 1"
        font_size: 18
        bold: true
  pandoc:
    from: "gfm"
  tables:
    style: "Table Grid"
    width_pct: 50
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	styles := cfg.Document.Reference.Styles
	if len(styles) != 1 {
		t.Fatalf("Styles length = %d, want 1 (file list replaces defaults)", len(styles))
	}
	s := styles[0]
	if s.BaseName != "Heading 1" || s.CustomName != "IBM Heading 1" || s.FontSize != 18 || !s.Bold || s.Italic {
		t.Errorf("unexpected style: %+v", s)
	}
	if s.FontColor != (Color{}) {
		t.Errorf("FontColor = %+v, want black", s.FontColor)
	}
	if cfg.Document.Pandoc.From != "gfm" {
		t.Errorf("Pandoc.From = %q, want gfm", cfg.Document.Pandoc.From)
	}
	// untouched values keep defaults
	if cfg.Document.Pandoc.Path != "pandoc" {
		t.Errorf("Pandoc.Path = %q, want pandoc", cfg.Document.Pandoc.Path)
	}
	if cfg.Document.Tables.Style != "Table Grid" || cfg.Document.Tables.WidthPct != 50 {
		t.Errorf("unexpected tables: %+v", cfg.Document.Tables)
	}
	if !cfg.Document.Tables.SpacerParagraph {
		t.Error("SpacerParagraph should keep default value")
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `version: 1
document:
  reference:
  invalid indent
`)
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	path := writeConfig(t, `version: 1
pandoc_options:
  from: markdown
`)
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{
			name:   "invalid version",
			config: "version: 2\n",
		},
		{
			name: "missing base name",
			config: `version: 1
document:
  reference:
    styles:
      - custom_name: "IBM Heading 1"
        font_size: 18
`,
		},
		{
			name: "missing custom name",
			config: `version: 1
document:
  reference:
    styles:
      - base_name: "Heading 1"
        font_size: 18
`,
		},
		{
			name: "missing font size",
			config: `version: 1
document:
  reference:
    styles:
      - base_name: "Heading 1"
        custom_name: "IBM Heading 1"
`,
		},
		{
			name: "bad underline",
			config: `version: 1
document:
  reference:
    character_styles:
      - base_name: "Hyperlink"
        custom_name: "Link"
        font_size: 10
        underline: "sparkly"
`,
		},
		{
			name: "table width out of range",
			config: `version: 1
document:
  tables:
    width_pct: 150
`,
		},
		{
			name: "empty pandoc path",
			config: `version: 1
document:
  pandoc:
    path: ""
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.config)); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_BadColor(t *testing.T) {
	path := writeConfig(t, `version: 1
document:
  reference:
    styles:
      - base_name: "Heading 1"
        custom_name: "IBM Heading 1"
        font_size: 18
        font_color: [0, 300, 0]
`)
	_, err := LoadConfiguration(path)
	if err == nil {
		t.Fatal("Expected error for out of range color")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if len(cfg2.Document.Reference.Styles) != len(cfg.Document.Reference.Styles) {
		t.Errorf("Styles mismatch after dump/load: got %d, want %d",
			len(cfg2.Document.Reference.Styles), len(cfg.Document.Reference.Styles))
	}
	if cfg2.Document.Reference.Styles[1].FontColor != cfg.Document.Reference.Styles[1].FontColor {
		t.Errorf("Color mismatch after dump/load: got %+v, want %+v",
			cfg2.Document.Reference.Styles[1].FontColor, cfg.Document.Reference.Styles[1].FontColor)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		result, err := unmarshalConfig([]byte(`version: 1`), &Config{}, false)
		if err != nil {
			t.Fatalf("unmarshalConfig() error = %v", err)
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := unmarshalConfig([]byte(`invalid: [yaml`), &Config{}, false); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}
