package docx

import (
	"strconv"

	"md2docx/utils/debug"
)

func formatPt(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(on bool) string {
	if on {
		return "on"
	}
	return ""
}

// Describe returns human readable outline of concrete styles and tables.
func (d *Document) Describe() string {
	tw := debug.NewTreeWriter()

	styles := d.Styles().All()
	tw.Line(0, "styles: %d", len(styles))
	for _, st := range styles {
		tw.Line(1, "%s [%s] id=%s", st.Name(), st.Type(), st.ID())
		if b := st.BasedOn(); b != "" {
			tw.TextBlock(2, "based on", b)
		}
		if f := st.FontName(); f != "" {
			tw.TextBlock(2, "font", f)
		}
		tw.Props(2, "run",
			"size", formatPt(st.FontSize()),
			"bold", formatFlag(st.Bold()),
			"italic", formatFlag(st.Italic()),
			"color", st.Color(),
			"underline", st.Underline())
		before, after := st.Spacing()
		tw.Props(2, "spacing", "before", formatPt(before), "after", formatPt(after))
		if st.HasThemeFonts() || st.HasThemeColor() {
			tw.Line(2, "theme references")
		}
	}

	tables := d.Tables()
	tw.Line(0, "tables: %d", len(tables))
	for i, t := range tables {
		w, typ := t.Width()
		tw.Line(1, "#%d style=%s cells=%d", i, t.StyleID(), len(t.Cells()))
		tw.Props(2, "layout",
			"autofit", formatFlag(t.Autofit()),
			"width", w,
			"type", typ,
			"look", t.Look().Val(),
			"fixed cells", formatFlag(t.HasCellWidths()),
			"next", t.Next())
	}
	return tw.String()
}
