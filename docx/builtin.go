package docx

import (
	"strconv"

	"github.com/beevik/etree"
)

// RunProps are character formatting properties of a style definition. Zero
// values mean "not set".
type RunProps struct {
	FontName  string
	Size      float64
	Bold      bool
	Italic    bool
	Color     string
	Underline string
	VertAlign string
}

// ParagraphProps are paragraph formatting properties of a style definition.
type ParagraphProps struct {
	Spacing     bool
	SpaceBefore float64
	SpaceAfter  float64
	KeepNext    bool
	KeepLines   bool
	// 1 based outline level, 0 - body text
	Outline int
	Justify string
	Indent  float64
}

// TableProps describe simple table style: borders of the whole table and
// conditional formatting of the header row and banded rows.
type TableProps struct {
	Borders     []string
	BorderColor string
	HeaderBold  bool
	HeaderRule  bool
	BandFill    string
}

// StyleDef is a complete definition of the style to be added to document.
type StyleDef struct {
	ID             string
	Name           string
	Type           StyleType
	BasedOn        string
	Next           string
	UIPriority     int
	QFormat        bool
	SemiHidden     bool
	UnhideWhenUsed bool
	Run            RunProps
	Paragraph      ParagraphProps
	Table          *TableProps
}

func (def StyleDef) apply(st *Style) {
	el := st.el
	if def.BasedOn != "" {
		getOrAdd(el, "basedOn", styleOrder).CreateAttr(attr("val"), def.BasedOn)
	}
	if def.Next != "" {
		getOrAdd(el, "next", styleOrder).CreateAttr(attr("val"), def.Next)
	}
	if def.UIPriority > 0 {
		getOrAdd(el, "uiPriority", styleOrder).CreateAttr(attr("val"), strconv.Itoa(def.UIPriority))
	}
	if def.SemiHidden {
		getOrAdd(el, "semiHidden", styleOrder)
	}
	if def.UnhideWhenUsed {
		getOrAdd(el, "unhideWhenUsed", styleOrder)
	}
	if def.QFormat {
		getOrAdd(el, "qFormat", styleOrder)
	}

	p := def.Paragraph
	if p.KeepNext {
		getOrAdd(st.pPr(), "keepNext", pPrOrder)
	}
	if p.KeepLines {
		getOrAdd(st.pPr(), "keepLines", pPrOrder)
	}
	if p.Spacing {
		st.SetSpacing(p.SpaceBefore, p.SpaceAfter)
	}
	if p.Indent > 0 {
		ind := getOrAdd(st.pPr(), "ind", pPrOrder)
		ind.CreateAttr(attr("left"), twips(p.Indent))
		ind.CreateAttr(attr("right"), twips(p.Indent))
	}
	if p.Justify != "" {
		getOrAdd(st.pPr(), "jc", pPrOrder).CreateAttr(attr("val"), p.Justify)
	}
	if p.Outline > 0 {
		getOrAdd(st.pPr(), "outlineLvl", pPrOrder).CreateAttr(attr("val"), strconv.Itoa(p.Outline-1))
	}

	r := def.Run
	if r.FontName != "" {
		st.SetFontName(r.FontName)
	}
	if r.Bold {
		st.SetBold(true)
	}
	if r.Italic {
		st.SetItalic(true)
	}
	if r.Color != "" {
		st.SetColor(r.Color)
	}
	if r.Size > 0 {
		st.SetFontSize(r.Size)
	}
	if r.Underline != "" {
		st.SetUnderline(r.Underline)
	}
	if r.VertAlign != "" {
		getOrAdd(st.rPr(), "vertAlign", rPrOrder).CreateAttr(attr("val"), r.VertAlign)
	}

	if def.Table != nil {
		def.Table.apply(st)
	}
}

func (tp *TableProps) apply(st *Style) {
	tblPr := getOrAdd(st.el, "tblPr", styleOrder)
	getOrAdd(tblPr, "tblStyleRowBandSize", tblPrOrder).CreateAttr(attr("val"), "1")
	getOrAdd(tblPr, "tblStyleColBandSize", tblPrOrder).CreateAttr(attr("val"), "1")
	if len(tp.Borders) > 0 {
		borders := getOrAdd(tblPr, "tblBorders", tblPrOrder)
		for _, edge := range tp.Borders {
			setBorder(borders, edge, tp.BorderColor)
		}
	}
	mar := getOrAdd(tblPr, "tblCellMar", tblPrOrder)
	for _, side := range []string{"left", "right"} {
		m := getOrAdd(mar, side, bordersOrder)
		m.CreateAttr(attr("w"), "108")
		m.CreateAttr(attr("type"), "dxa")
	}

	if tp.HeaderBold || tp.HeaderRule {
		cond := conditional(st.el, "firstRow")
		if tp.HeaderBold {
			rpr := getOrAdd(cond, "rPr", tblStylePrOrder)
			setOnOff(rpr, "b", true, rPrOrder)
			setOnOff(rpr, "bCs", true, rPrOrder)
		}
		if tp.HeaderRule {
			tcPr := getOrAdd(cond, "tcPr", tblStylePrOrder)
			setBorder(getOrAdd(tcPr, "tcBorders", tcPrOrder), "bottom", tp.BorderColor)
		}
	}
	if tp.BandFill != "" {
		for _, band := range []string{"band1Vert", "band1Horz"} {
			tcPr := getOrAdd(conditional(st.el, band), "tcPr", tblStylePrOrder)
			shd := getOrAdd(tcPr, "shd", tcPrOrder)
			shd.CreateAttr(attr("val"), "clear")
			shd.CreateAttr(attr("color"), "auto")
			shd.CreateAttr(attr("fill"), tp.BandFill)
		}
	}
}

// conditional adds table style conditional formatting section; they are
// the last children of the style.
func conditional(style *etree.Element, kind string) *etree.Element {
	el := style.CreateElement(tag("tblStylePr"))
	el.CreateAttr(attr("type"), kind)
	return el
}

func setBorder(parent *etree.Element, edge, color string) {
	if color == "" {
		color = "auto"
	}
	b := getOrAdd(parent, edge, bordersOrder)
	b.CreateAttr(attr("val"), "single")
	b.CreateAttr(attr("sz"), "8")
	b.CreateAttr(attr("space"), "0")
	b.CreateAttr(attr("color"), color)
}

func heading(level int, size float64, before float64) StyleDef {
	return StyleDef{
		ID:         "Heading" + strconv.Itoa(level),
		Name:       "Heading " + strconv.Itoa(level),
		Type:       StyleParagraph,
		BasedOn:    "Normal",
		Next:       "Normal",
		UIPriority: 9,
		QFormat:    true,
		Run:        RunProps{Size: size, Bold: true, Color: "2F5496"},
		Paragraph:  ParagraphProps{Spacing: true, SpaceBefore: before, KeepNext: true, KeepLines: true, Outline: level},
	}
}

// catalogue of built-in styles Word (and pandoc reference document) define.
// Values follow default Word 2013+ appearance closely enough.
var catalogue = []StyleDef{
	{ID: "Normal", Name: "Normal", Type: StyleParagraph, QFormat: true},
	{ID: "Title", Name: "Title", Type: StyleParagraph, BasedOn: "Normal", Next: "Normal", UIPriority: 10, QFormat: true,
		Run: RunProps{Size: 28}, Paragraph: ParagraphProps{Spacing: true, SpaceAfter: 0}},
	{ID: "Subtitle", Name: "Subtitle", Type: StyleParagraph, BasedOn: "Normal", Next: "Normal", UIPriority: 11, QFormat: true,
		Run: RunProps{Size: 11, Color: "5A5A5A"}, Paragraph: ParagraphProps{Spacing: true, SpaceAfter: 8}},
	heading(1, 16, 12),
	heading(2, 13, 2),
	heading(3, 12, 2),
	heading(4, 11, 2),
	heading(5, 11, 2),
	heading(6, 11, 2),
	heading(7, 11, 2),
	heading(8, 10.5, 2),
	heading(9, 10.5, 2),
	{ID: "Quote", Name: "Quote", Type: StyleParagraph, BasedOn: "Normal", Next: "Normal", UIPriority: 29, QFormat: true,
		Run: RunProps{Italic: true, Color: "404040"}, Paragraph: ParagraphProps{Spacing: true, SpaceBefore: 10, SpaceAfter: 8, Justify: "center", Indent: 43.2}},
	{ID: "IntenseQuote", Name: "Intense Quote", Type: StyleParagraph, BasedOn: "Normal", Next: "Normal", UIPriority: 30, QFormat: true,
		Run: RunProps{Italic: true, Color: "4472C4"}, Paragraph: ParagraphProps{Spacing: true, SpaceBefore: 18, SpaceAfter: 18, Justify: "center", Indent: 43.2}},
	{ID: "BodyText", Name: "Body Text", Type: StyleParagraph, BasedOn: "Normal", UIPriority: 99, UnhideWhenUsed: true,
		Paragraph: ParagraphProps{Spacing: true, SpaceBefore: 9, SpaceAfter: 9}},
	{ID: "FirstParagraph", Name: "First Paragraph", Type: StyleParagraph, BasedOn: "BodyText", Next: "BodyText", QFormat: true},
	{ID: "Compact", Name: "Compact", Type: StyleParagraph, BasedOn: "BodyText", QFormat: true,
		Paragraph: ParagraphProps{Spacing: true, SpaceBefore: 1.8, SpaceAfter: 1.8}},
	{ID: "BlockText", Name: "Block Text", Type: StyleParagraph, BasedOn: "BodyText", Next: "BodyText", UIPriority: 99, UnhideWhenUsed: true,
		Paragraph: ParagraphProps{Spacing: true, SpaceBefore: 5, SpaceAfter: 5}},
	{ID: "Caption", Name: "Caption", Type: StyleParagraph, BasedOn: "Normal", Next: "Normal", UIPriority: 35, SemiHidden: true, UnhideWhenUsed: true, QFormat: true,
		Run: RunProps{Size: 9, Italic: true, Color: "44546A"}, Paragraph: ParagraphProps{Spacing: true, SpaceAfter: 10}},
	{ID: "FootnoteText", Name: "Footnote Text", Type: StyleParagraph, BasedOn: "Normal", UIPriority: 9, UnhideWhenUsed: true, QFormat: true,
		Run: RunProps{Size: 10}},
	{ID: "TOCHeading", Name: "TOC Heading", Type: StyleParagraph, BasedOn: "Heading1", Next: "BodyText", UIPriority: 39, UnhideWhenUsed: true, QFormat: true,
		Paragraph: ParagraphProps{Spacing: true, SpaceBefore: 12}},

	{ID: "DefaultParagraphFont", Name: "Default Paragraph Font", Type: StyleCharacter, UIPriority: 1, SemiHidden: true, UnhideWhenUsed: true},
	{ID: "Hyperlink", Name: "Hyperlink", Type: StyleCharacter, BasedOn: "DefaultParagraphFont", UIPriority: 99, UnhideWhenUsed: true,
		Run: RunProps{Color: "0563C1", Underline: "single"}},
	{ID: "FollowedHyperlink", Name: "FollowedHyperlink", Type: StyleCharacter, BasedOn: "DefaultParagraphFont", UIPriority: 99, SemiHidden: true, UnhideWhenUsed: true,
		Run: RunProps{Color: "954F72", Underline: "single"}},
	{ID: "FootnoteReference", Name: "Footnote Reference", Type: StyleCharacter, BasedOn: "DefaultParagraphFont", UIPriority: 99, SemiHidden: true, UnhideWhenUsed: true,
		Run: RunProps{VertAlign: "superscript"}},
	{ID: "VerbatimChar", Name: "Verbatim Char", Type: StyleCharacter, BasedOn: "DefaultParagraphFont",
		Run: RunProps{FontName: "Consolas", Size: 11}},

	{ID: "TableNormal", Name: "Normal Table", Type: StyleTable, UIPriority: 99, SemiHidden: true, UnhideWhenUsed: true,
		Table: &TableProps{}},
	{ID: "TableGrid", Name: "Table Grid", Type: StyleTable, BasedOn: "TableNormal", UIPriority: 39,
		Table: &TableProps{Borders: []string{"top", "left", "bottom", "right", "insideH", "insideV"}, BorderColor: "000000"}},
	{ID: "LightShading", Name: "Light Shading", Type: StyleTable, BasedOn: "TableNormal", UIPriority: 60,
		Table: &TableProps{Borders: []string{"top", "bottom"}, BorderColor: "000000", HeaderBold: true, HeaderRule: true, BandFill: "C0C0C0"}},
}

// BuiltinStyle returns definition of the built-in style by its UI name.
func BuiltinStyle(name string) (StyleDef, bool) {
	for _, def := range catalogue {
		if def.Name == name || sameName(def.Name, name) {
			return def, true
		}
	}
	return StyleDef{}, false
}
