package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// StyleConfig describes override of a single built-in paragraph style.
	StyleConfig struct {
		BaseName    string  `yaml:"base_name" validate:"required"`
		CustomName  string  `yaml:"custom_name" validate:"required"`
		FontName    string  `yaml:"font_name,omitempty"`
		FontSize    float64 `yaml:"font_size" validate:"gt=0"`
		Bold        bool    `yaml:"bold"`
		Italic      bool    `yaml:"italic"`
		FontColor   Color   `yaml:"font_color"`
		SpaceBefore float64 `yaml:"space_before" validate:"gte=0"`
		SpaceAfter  float64 `yaml:"space_after" validate:"gte=0"`
	}

	// CharacterStyleConfig describes override of a character style, which
	// is synthesized when template does not have it.
	CharacterStyleConfig struct {
		BaseName   string  `yaml:"base_name" validate:"required"`
		CustomName string  `yaml:"custom_name" validate:"required"`
		FontName   string  `yaml:"font_name,omitempty"`
		FontSize   float64 `yaml:"font_size" validate:"gt=0"`
		Underline  string  `yaml:"underline" validate:"omitempty,oneof=none single double thick dotted dash wave words"`
		FontColor  Color   `yaml:"font_color"`
	}

	ReferenceConfig struct {
		FontName        string                 `yaml:"font_name" validate:"required"`
		Placeholder     string                 `yaml:"placeholder" validate:"required"`
		Materialize     []string               `yaml:"materialize" validate:"dive,required"`
		Styles          []StyleConfig          `yaml:"styles" validate:"dive"`
		CharacterStyles []CharacterStyleConfig `yaml:"character_styles" validate:"dive"`
	}

	PandocConfig struct {
		Path      string   `yaml:"path" validate:"required"`
		From      string   `yaml:"from" validate:"required"`
		ExtraArgs []string `yaml:"extra_args"`
	}

	TableLookConfig struct {
		FirstRow    bool `yaml:"first_row"`
		LastRow     bool `yaml:"last_row"`
		FirstColumn bool `yaml:"first_column"`
		LastColumn  bool `yaml:"last_column"`
		NoHBand     bool `yaml:"no_hband"`
		NoVBand     bool `yaml:"no_vband"`
	}

	TablesConfig struct {
		Enable          bool            `yaml:"enable"`
		Style           string          `yaml:"style" validate:"required_if=Enable true"`
		Autofit         bool            `yaml:"autofit"`
		WidthPct        float64         `yaml:"width_pct" validate:"gt=0,lte=100"`
		SpacerParagraph bool            `yaml:"spacer_paragraph"`
		Look            TableLookConfig `yaml:"look"`
	}

	DocumentConfig struct {
		OutputNameTemplate    string          `yaml:"output_name_template"`
		FileNameTransliterate bool            `yaml:"file_name_transliterate"`
		SourceEncoding        string          `yaml:"source_encoding"`
		Reference             ReferenceConfig `yaml:"reference"`
		Pandoc                PandocConfig    `yaml:"pandoc"`
		Tables                TablesConfig    `yaml:"tables"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation. Lists (styles, materialized
// names, etc.) from the file replace default lists entirely.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
