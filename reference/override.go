package reference

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"md2docx/docx"
)

// Override describes new appearance of a paragraph style.
type Override struct {
	BaseName    string
	CustomName  string
	FontName    string
	FontSize    float64
	Bold        bool
	Italic      bool
	Color       string
	SpaceBefore float64
	SpaceAfter  float64
}

// CharOverride describes new appearance of a character style. Paragraph
// level properties do not apply to character styles.
type CharOverride struct {
	BaseName   string
	CustomName string
	FontName   string
	FontSize   float64
	Underline  string
	Color      string
}

// Engine restyles existing styles keeping their identifiers intact, so
// content produced by converter still refers to them.
type Engine struct {
	styles *docx.Styles
	log    *zap.Logger
	// base names already restyled, to their identifiers
	resolved map[string]string
}

func NewEngine(styles *docx.Styles, log *zap.Logger) *Engine {
	return &Engine{
		styles:   styles,
		log:      log,
		resolved: make(map[string]string),
	}
}

func baseKey(name string) string {
	return cases.Fold().String(name)
}

// find looks style up by its base name. Styles renamed by earlier overrides
// are found by identifier, so later overrides of the same base name replace
// earlier ones.
func (e *Engine) find(base string, want docx.StyleType) (*docx.Style, error) {
	var st *docx.Style
	if id, ok := e.resolved[baseKey(base)]; ok {
		st = e.styles.ByID(id)
	}
	if st == nil {
		st = e.styles.Lookup(base)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %q", docx.ErrStyleNotFound, base)
	}
	if st.Type() != want {
		return nil, fmt.Errorf("%w: %q is %s style, expected %s", docx.ErrStyleType, base, st.Type(), want)
	}
	return st, nil
}

// ApplyParagraph restyles paragraph style. Missing style or style of a
// different type leave document unchanged and return error.
func (e *Engine) ApplyParagraph(o Override) error {
	st, err := e.find(o.BaseName, docx.StyleParagraph)
	if err != nil {
		return err
	}

	st.SetName(o.CustomName)
	if o.FontName != "" {
		st.SetFontName(o.FontName)
	}
	st.SetFontSize(o.FontSize)
	st.SetBold(o.Bold)
	st.SetItalic(o.Italic)
	st.SetColor(o.Color)
	st.SetSpacing(o.SpaceBefore, o.SpaceAfter)

	e.resolved[baseKey(o.BaseName)] = st.ID()
	e.log.Debug("Paragraph style restyled",
		zap.String("base", o.BaseName), zap.String("name", o.CustomName), zap.String("id", st.ID()))
	return nil
}

// ApplyCharacter restyles character style, see ApplyParagraph.
func (e *Engine) ApplyCharacter(o CharOverride) error {
	st, err := e.find(o.BaseName, docx.StyleCharacter)
	if err != nil {
		return err
	}

	st.SetName(o.CustomName)
	if o.FontName != "" {
		st.SetFontName(o.FontName)
	}
	st.SetFontSize(o.FontSize)
	if o.Underline != "" {
		st.SetUnderline(o.Underline)
	}
	st.SetColor(o.Color)

	e.resolved[baseKey(o.BaseName)] = st.ID()
	e.log.Debug("Character style restyled",
		zap.String("base", o.BaseName), zap.String("name", o.CustomName), zap.String("id", st.ID()))
	return nil
}
