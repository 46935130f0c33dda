package reference

import (
	"fmt"

	"go.uber.org/zap"

	"md2docx/config"
	"md2docx/docx"
)

// Build creates reference template document according to configuration.
// Style lookup problems are reported and skipped. When tableStyle is not
// empty the table style is made concrete as well, so converter copies it
// into produced document.
func Build(cfg *config.ReferenceConfig, tableStyle string, log *zap.Logger) (*docx.Document, error) {
	doc, err := docx.New()
	if err != nil {
		return nil, fmt.Errorf("unable to create blank document: %w", err)
	}
	initial := len(doc.Paragraphs())

	ph := NewPlaceholders(doc, cfg.Placeholder)
	n := ph.Materialize(cfg.Materialize, log)
	log.Debug("Styles materialized", zap.Int("requested", len(cfg.Materialize)), zap.Int("materialized", n))

	e := NewEngine(doc.Styles(), log)
	for _, s := range cfg.Styles {
		if err := e.ApplyParagraph(paragraphOverride(&s, cfg.FontName)); err != nil {
			log.Warn("Unable to override style, skipping", zap.String("style", s.BaseName), zap.Error(err))
		}
	}
	for _, s := range cfg.CharacterStyles {
		if err := InjectCharacter(doc, ph, e, characterOverride(&s, cfg.FontName)); err != nil {
			log.Warn("Unable to override character style, skipping", zap.String("style", s.BaseName), zap.Error(err))
		}
	}

	if tableStyle != "" {
		if err := materializeTable(doc, tableStyle); err != nil {
			log.Warn("Unable to add table style, skipping", zap.String("style", tableStyle), zap.Error(err))
		}
	}

	removed := ph.Remove()
	if left := len(doc.Paragraphs()); left != initial {
		return nil, fmt.Errorf("placeholder cleanup left %d paragraphs instead of %d", left, initial)
	}
	log.Debug("Reference document prepared", zap.Int("placeholders", removed), zap.Int("styles", doc.Styles().Len()))
	return doc, nil
}

// BuildFile builds reference template and saves it to dst.
func BuildFile(cfg *config.ReferenceConfig, tableStyle, dst string, log *zap.Logger) error {
	doc, err := Build(cfg, tableStyle, log)
	if err != nil {
		return err
	}
	if err := doc.Save(dst); err != nil {
		return fmt.Errorf("unable to save reference document: %w", err)
	}
	return nil
}

func materializeTable(doc *docx.Document, name string) error {
	st, err := doc.Styles().Materialize(name)
	if err != nil {
		return err
	}
	if st.Type() != docx.StyleTable {
		return fmt.Errorf("%w: %q is %s style, expected %s", docx.ErrStyleType, name, st.Type(), docx.StyleTable)
	}
	return nil
}

func paragraphOverride(s *config.StyleConfig, font string) Override {
	if s.FontName != "" {
		font = s.FontName
	}
	return Override{
		BaseName:    s.BaseName,
		CustomName:  s.CustomName,
		FontName:    font,
		FontSize:    s.FontSize,
		Bold:        s.Bold,
		Italic:      s.Italic,
		Color:       s.FontColor.Hex(),
		SpaceBefore: s.SpaceBefore,
		SpaceAfter:  s.SpaceAfter,
	}
}

func characterOverride(s *config.CharacterStyleConfig, font string) CharOverride {
	if s.FontName != "" {
		font = s.FontName
	}
	return CharOverride{
		BaseName:   s.BaseName,
		CustomName: s.CustomName,
		FontName:   font,
		FontSize:   s.FontSize,
		Underline:  s.Underline,
		Color:      s.FontColor.Hex(),
	}
}
