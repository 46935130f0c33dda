package docx

import (
	"math"
	"slices"
	"strconv"

	"github.com/beevik/etree"
)

// ns is prefix WordprocessingML main namespace is bound to in every part
// produced by Word, LibreOffice and pandoc.
const ns = "w"

// Schema order of children for the elements we are modifying. OOXML
// consumers (Word in particular) refuse documents with children out of
// sequence, so new elements are always inserted at the proper position.
var (
	styleOrder = []string{
		"name", "aliases", "basedOn", "next", "link", "autoRedefine", "hidden",
		"uiPriority", "semiHidden", "unhideWhenUsed", "qFormat", "locked",
		"personal", "personalCompose", "personalReply", "rsid",
		"pPr", "rPr", "tblPr", "trPr", "tcPr", "tblStylePr",
	}
	rPrOrder = []string{
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps",
		"strike", "dstrike", "outline", "shadow", "emboss", "imprint",
		"noProof", "snapToGrid", "vanish", "webHidden", "color", "spacing",
		"w", "kern", "position", "sz", "szCs", "highlight", "u", "effect",
		"bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang",
		"eastAsianLayout", "specVanish", "oMath",
	}
	pPrOrder = []string{
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr",
		"widowControl", "numPr", "suppressLineNumbers", "pBdr", "shd", "tabs",
		"suppressAutoHyphens", "kinsoku", "wordWrap", "overflowPunct",
		"topLinePunct", "autoSpaceDE", "autoSpaceDN", "bidi",
		"adjustRightInd", "snapToGrid", "spacing", "ind", "contextualSpacing",
		"mirrorIndents", "suppressOverlap", "jc", "textDirection",
		"textAlignment", "textboxTightWrap", "outlineLvl", "divId",
		"cnfStyle", "rPr", "sectPr", "pPrChange",
	}
	tblPrOrder = []string{
		"tblStyle", "tblpPr", "tblOverlap", "bidiVisual", "tblStyleRowBandSize",
		"tblStyleColBandSize", "tblW", "jc", "tblCellSpacing", "tblInd",
		"tblBorders", "shd", "tblLayout", "tblCellMar", "tblLook",
		"tblCaption", "tblDescription",
	}
	tcPrOrder = []string{
		"cnfStyle", "tcW", "gridSpan", "hMerge", "vMerge", "tcBorders", "shd",
		"noWrap", "tcMar", "textDirection", "tcFitText", "vAlign", "hideMark",
	}
	tblStylePrOrder = []string{"pPr", "rPr", "tblPr", "trPr", "tcPr"}
	bordersOrder    = []string{"top", "left", "start", "bottom", "right", "end", "insideH", "insideV"}
)

func tag(name string) string {
	return ns + ":" + name
}

func attr(name string) string {
	return ns + ":" + name
}

// child returns first child element in main namespace or nil.
func child(parent *etree.Element, name string) *etree.Element {
	if parent == nil {
		return nil
	}
	return parent.SelectElement(tag(name))
}

// getOrAdd returns existing child element or creates new one placing it
// according to the schema order.
func getOrAdd(parent *etree.Element, name string, order []string) *etree.Element {
	if el := child(parent, name); el != nil {
		return el
	}
	el := etree.NewElement(tag(name))
	pos := slices.Index(order, name)
	for i, t := range parent.Child {
		c, ok := t.(*etree.Element)
		if !ok || c.Space != ns {
			continue
		}
		if slices.Index(order, c.Tag) > pos {
			parent.InsertChildAt(i, el)
			return el
		}
	}
	parent.AddChild(el)
	return el
}

// remove deletes all children with the given name and reports how many were
// removed.
func remove(parent *etree.Element, name string) int {
	if parent == nil {
		return 0
	}
	var n int
	for _, el := range parent.SelectElements(tag(name)) {
		parent.RemoveChild(el)
		n++
	}
	return n
}

// val returns w:val attribute of the named child.
func val(parent *etree.Element, name string) (string, bool) {
	el := child(parent, name)
	if el == nil {
		return "", false
	}
	a := el.SelectAttr(attr("val"))
	if a == nil {
		return "", true
	}
	return a.Value, true
}

// onOff interprets ST_OnOff toggle: element presence without value means on.
func onOff(parent *etree.Element, name string) bool {
	v, ok := val(parent, name)
	if !ok {
		return false
	}
	switch v {
	case "", "1", "true", "on":
		return true
	}
	return false
}

func setOnOff(parent *etree.Element, name string, on bool, order []string) {
	el := getOrAdd(parent, name, order)
	if on {
		el.RemoveAttr(attr("val"))
		return
	}
	el.CreateAttr(attr("val"), "0")
}

func halfPoints(pt float64) string {
	return strconv.Itoa(int(math.Round(pt * 2)))
}

func twips(pt float64) string {
	return strconv.Itoa(int(math.Round(pt * 20)))
}

func fromHalfPoints(s string) float64 {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return float64(v) / 2
}

func fromTwips(s string) float64 {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return float64(v) / 20
}
