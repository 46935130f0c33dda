// Package tables post-processes tables of produced documents: converter
// does not give enough control over table appearance.
package tables

import (
	"fmt"

	"go.uber.org/zap"

	"md2docx/config"
	"md2docx/docx"
)

// Options define how every table is going to look.
type Options struct {
	// table style UI name, empty keeps style converter assigned
	Style    string
	Autofit  bool
	WidthPct float64
	// put empty paragraph after tables not followed by one
	SpacerParagraph bool
	Look            docx.TableLook
}

func FromConfig(cfg *config.TablesConfig) Options {
	return Options{
		Style:           cfg.Style,
		Autofit:         cfg.Autofit,
		WidthPct:        cfg.WidthPct,
		SpacerParagraph: cfg.SpacerParagraph,
		Look: docx.TableLook{
			FirstRow:    cfg.Look.FirstRow,
			LastRow:     cfg.Look.LastRow,
			FirstColumn: cfg.Look.FirstColumn,
			LastColumn:  cfg.Look.LastColumn,
			NoHBand:     cfg.Look.NoHBand,
			NoVBand:     cfg.Look.NoVBand,
		},
	}
}

// styleID resolves table style, adding it from built-in catalogue when
// document does not have it. Problems are reported and style is not applied.
func styleID(doc *docx.Document, name string, log *zap.Logger) string {
	if name == "" {
		return ""
	}
	st, err := doc.Styles().Materialize(name)
	if err != nil {
		log.Warn("Table style is not available, keeping original", zap.String("style", name), zap.Error(err))
		return ""
	}
	if st.Type() != docx.StyleTable {
		log.Warn("Not a table style, keeping original", zap.String("style", name), zap.Stringer("type", st.Type()))
		return ""
	}
	return st.ID()
}

// NormalizeDocument applies options to every top level table in document
// order and returns number of tables processed.
func NormalizeDocument(doc *docx.Document, opts Options, log *zap.Logger) int {
	tables := doc.Tables()
	if len(tables) == 0 {
		return 0
	}

	id := styleID(doc, opts.Style, log)
	for i, t := range tables {
		if id != "" {
			t.SetStyleID(id)
		}
		t.SetAutofit(opts.Autofit)
		cells := t.ClearCellWidths()
		if opts.WidthPct > 0 {
			t.SetWidthPct(opts.WidthPct)
		}
		t.SetLook(opts.Look)

		spacer := opts.SpacerParagraph && t.Next() != "p"
		if spacer {
			t.InsertParagraphAfter()
		}
		log.Debug("Table normalized",
			zap.Int("index", i),
			zap.String("style", t.StyleID()),
			zap.Int("cell widths removed", cells),
			zap.Bool("spacer", spacer))
	}
	return len(tables)
}

// Normalize processes tables of the document in src and saves result to dst,
// which may be the same file.
func Normalize(src, dst string, opts Options, log *zap.Logger) error {
	doc, err := docx.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open document: %w", err)
	}
	n := NormalizeDocument(doc, opts, log)
	if err := doc.Save(dst); err != nil {
		return fmt.Errorf("unable to save document: %w", err)
	}
	log.Info("Tables normalized", zap.Int("tables", n), zap.String("file", dst))
	return nil
}
