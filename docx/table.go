package docx

import (
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"
)

// TableLook is a set of conditional formatting flags (w:tblLook) telling
// which parts of the table style apply to the table.
type TableLook struct {
	FirstRow    bool
	LastRow     bool
	FirstColumn bool
	LastColumn  bool
	NoHBand     bool
	NoVBand     bool
}

// legacy bitmask encoding of tblLook flags
const (
	lookFirstRow    = 0x0020
	lookLastRow     = 0x0040
	lookFirstColumn = 0x0080
	lookLastColumn  = 0x0100
	lookNoHBand     = 0x0200
	lookNoVBand     = 0x0400
)

func (l TableLook) flags() []struct {
	name string
	mask uint64
	on   bool
} {
	return []struct {
		name string
		mask uint64
		on   bool
	}{
		{"firstRow", lookFirstRow, l.FirstRow},
		{"lastRow", lookLastRow, l.LastRow},
		{"firstColumn", lookFirstColumn, l.FirstColumn},
		{"lastColumn", lookLastColumn, l.LastColumn},
		{"noHBand", lookNoHBand, l.NoHBand},
		{"noVBand", lookNoVBand, l.NoVBand},
	}
}

// Val returns legacy hexadecimal encoding of the flags, older consumers read
// only it.
func (l TableLook) Val() string {
	var v uint64
	for _, f := range l.flags() {
		if f.on {
			v |= f.mask
		}
	}
	return fmt.Sprintf("%04X", v)
}

// Table is top level body table (w:tbl).
type Table struct {
	el *etree.Element
}

// Tables returns top level body tables in document order.
func (d *Document) Tables() []*Table {
	var res []*Table
	for _, el := range d.body().SelectElements(tag("tbl")) {
		res = append(res, &Table{el: el})
	}
	return res
}

func (t *Table) tblPr() *etree.Element {
	if pr := child(t.el, "tblPr"); pr != nil {
		return pr
	}
	pr := etree.NewElement(tag("tblPr"))
	t.el.InsertChildAt(0, pr)
	return pr
}

// StyleID returns identifier of the table style.
func (t *Table) StyleID() string {
	v, _ := val(child(t.el, "tblPr"), "tblStyle")
	return v
}

func (t *Table) SetStyleID(id string) {
	getOrAdd(t.tblPr(), "tblStyle", tblPrOrder).CreateAttr(attr("val"), id)
}

// Autofit reports whether table layout is automatic. Missing layout means
// autofit.
func (t *Table) Autofit() bool {
	l := child(child(t.el, "tblPr"), "tblLayout")
	if l == nil {
		return true
	}
	return l.SelectAttrValue(attr("type"), "autofit") != "fixed"
}

func (t *Table) SetAutofit(on bool) {
	layout := getOrAdd(t.tblPr(), "tblLayout", tblPrOrder)
	if on {
		layout.CreateAttr(attr("type"), "autofit")
		return
	}
	layout.CreateAttr(attr("type"), "fixed")
}

// Cells returns all cells of the table rows, nested tables excluded.
func (t *Table) Cells() []*etree.Element {
	return t.el.FindElements("./" + tag("tr") + "/" + tag("tc"))
}

// ClearCellWidths removes explicit widths of all cells and grid columns, so
// widths are calculated from content. Returns number of cell widths removed.
func (t *Table) ClearCellWidths() int {
	var n int
	for _, tc := range t.Cells() {
		n += remove(child(tc, "tcPr"), "tcW")
	}
	if grid := child(t.el, "tblGrid"); grid != nil {
		for _, col := range grid.SelectElements(tag("gridCol")) {
			col.RemoveAttr(attr("w"))
		}
	}
	return n
}

// HasCellWidths reports whether any cell or grid column has explicit width.
func (t *Table) HasCellWidths() bool {
	for _, tc := range t.Cells() {
		if child(child(tc, "tcPr"), "tcW") != nil {
			return true
		}
	}
	if grid := child(t.el, "tblGrid"); grid != nil {
		for _, col := range grid.SelectElements(tag("gridCol")) {
			if col.SelectAttr(attr("w")) != nil {
				return true
			}
		}
	}
	return false
}

// SetWidthPct sets table width relative to the text area, pct is in percents.
// Value is stored in fiftieths of a percent.
func (t *Table) SetWidthPct(pct float64) {
	w := getOrAdd(t.tblPr(), "tblW", tblPrOrder)
	w.CreateAttr(attr("w"), strconv.Itoa(int(math.Round(pct*50))))
	w.CreateAttr(attr("type"), "pct")
}

// Width returns table width value and its type.
func (t *Table) Width() (string, string) {
	w := child(child(t.el, "tblPr"), "tblW")
	if w == nil {
		return "", ""
	}
	return w.SelectAttrValue(attr("w"), ""), w.SelectAttrValue(attr("type"), "")
}

// SetLook replaces table look flags. Both explicit attributes and legacy
// bitmask are written.
func (t *Table) SetLook(l TableLook) {
	look := getOrAdd(t.tblPr(), "tblLook", tblPrOrder)
	look.CreateAttr(attr("val"), l.Val())
	for _, f := range l.flags() {
		v := "0"
		if f.on {
			v = "1"
		}
		look.CreateAttr(attr(f.name), v)
	}
}

// Look returns table look flags. Explicit attributes win over the legacy
// bitmask.
func (t *Table) Look() TableLook {
	var l TableLook
	look := child(child(t.el, "tblPr"), "tblLook")
	if look == nil {
		return l
	}
	mask, _ := strconv.ParseUint(look.SelectAttrValue(attr("val"), "0"), 16, 32)
	get := func(name string, bit uint64) bool {
		if a := look.SelectAttr(attr(name)); a != nil {
			return a.Value == "1" || a.Value == "true" || a.Value == "on"
		}
		return mask&bit != 0
	}
	l.FirstRow = get("firstRow", lookFirstRow)
	l.LastRow = get("lastRow", lookLastRow)
	l.FirstColumn = get("firstColumn", lookFirstColumn)
	l.LastColumn = get("lastColumn", lookLastColumn)
	l.NoHBand = get("noHBand", lookNoHBand)
	l.NoVBand = get("noVBand", lookNoVBand)
	return l
}

// Next returns following body sibling element name ("p", "tbl", "sectPr")
// or empty string when table is the last element of the body.
func (t *Table) Next() string {
	parent := t.el.Parent()
	if parent == nil {
		return ""
	}
	for _, tok := range parent.Child[t.el.Index()+1:] {
		if el, ok := tok.(*etree.Element); ok {
			return el.Tag
		}
	}
	return ""
}

// InsertParagraphAfter puts empty paragraph immediately after the table.
func (t *Table) InsertParagraphAfter() *Paragraph {
	el := etree.NewElement(tag("p"))
	t.el.Parent().InsertChildAt(t.el.Index()+1, el)
	return &Paragraph{el: el}
}

// AddTable appends table with fixed column widths (in points) to the end of
// the body. Every cell gets an empty paragraph, as schema requires.
func (d *Document) AddTable(rows int, widths ...float64) *Table {
	el := etree.NewElement(tag("tbl"))
	t := &Table{el: el}
	pr := t.tblPr()
	w := getOrAdd(pr, "tblW", tblPrOrder)
	w.CreateAttr(attr("w"), "0")
	w.CreateAttr(attr("type"), "auto")

	grid := el.CreateElement(tag("tblGrid"))
	for _, cw := range widths {
		grid.CreateElement(tag("gridCol")).CreateAttr(attr("w"), twips(cw))
	}
	for range rows {
		tr := el.CreateElement(tag("tr"))
		for _, cw := range widths {
			tc := tr.CreateElement(tag("tc"))
			tcW := tc.CreateElement(tag("tcPr")).CreateElement(tag("tcW"))
			tcW.CreateAttr(attr("w"), twips(cw))
			tcW.CreateAttr(attr("type"), "dxa")
			tc.CreateElement(tag("p"))
		}
	}
	d.insertBody(el)
	return t
}
