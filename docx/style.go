package docx

import (
	"github.com/beevik/etree"
)

// Style is a concrete style definition (w:style element). All setters
// overwrite previous values completely.
type Style struct {
	el *etree.Element
}

// ID returns style identifier. Identifier is what content refers to and is
// never changed by this package.
func (s *Style) ID() string {
	return s.el.SelectAttrValue(attr("styleId"), "")
}

// Name returns style UI name.
func (s *Style) Name() string {
	return uiName(styleName(s.el))
}

// SetName changes UI name of the style.
func (s *Style) SetName(name string) {
	getOrAdd(s.el, "name", styleOrder).CreateAttr(attr("val"), internalName(name))
}

func (s *Style) Type() StyleType {
	return parseStyleType(s.el.SelectAttrValue(attr("type"), ""))
}

// BasedOn returns identifier of the parent style.
func (s *Style) BasedOn() string {
	v, _ := val(s.el, "basedOn")
	return v
}

// Element gives access to underlying XML.
func (s *Style) Element() *etree.Element {
	return s.el
}

func (s *Style) rPr() *etree.Element {
	return getOrAdd(s.el, "rPr", styleOrder)
}

func (s *Style) pPr() *etree.Element {
	return getOrAdd(s.el, "pPr", styleOrder)
}

var themeFontAttrs = []string{"asciiTheme", "hAnsiTheme", "eastAsiaTheme", "cstheme"}

// SetFontName sets explicit font family. Theme font references are removed,
// otherwise they take precedence over explicit names.
func (s *Style) SetFontName(name string) {
	fonts := getOrAdd(s.rPr(), "rFonts", rPrOrder)
	for _, a := range []string{"ascii", "hAnsi", "cs"} {
		fonts.CreateAttr(attr(a), name)
	}
	for _, a := range themeFontAttrs {
		fonts.RemoveAttr(attr(a))
	}
}

// FontName returns explicit latin font family.
func (s *Style) FontName() string {
	fonts := child(child(s.el, "rPr"), "rFonts")
	if fonts == nil {
		return ""
	}
	return fonts.SelectAttrValue(attr("ascii"), "")
}

// HasThemeFonts reports whether any theme font reference is present.
func (s *Style) HasThemeFonts() bool {
	fonts := child(child(s.el, "rPr"), "rFonts")
	if fonts == nil {
		return false
	}
	for _, a := range themeFontAttrs {
		if fonts.SelectAttr(attr(a)) != nil {
			return true
		}
	}
	return false
}

// SetFontSize sets font size in points for both complex and regular scripts.
func (s *Style) SetFontSize(pt float64) {
	rpr := s.rPr()
	getOrAdd(rpr, "sz", rPrOrder).CreateAttr(attr("val"), halfPoints(pt))
	getOrAdd(rpr, "szCs", rPrOrder).CreateAttr(attr("val"), halfPoints(pt))
}

// FontSize returns font size in points or 0 when not set.
func (s *Style) FontSize() float64 {
	v, _ := val(child(s.el, "rPr"), "sz")
	return fromHalfPoints(v)
}

func (s *Style) SetBold(on bool) {
	rpr := s.rPr()
	setOnOff(rpr, "b", on, rPrOrder)
	setOnOff(rpr, "bCs", on, rPrOrder)
}

func (s *Style) Bold() bool {
	return onOff(child(s.el, "rPr"), "b")
}

func (s *Style) SetItalic(on bool) {
	rpr := s.rPr()
	setOnOff(rpr, "i", on, rPrOrder)
	setOnOff(rpr, "iCs", on, rPrOrder)
}

func (s *Style) Italic() bool {
	return onOff(child(s.el, "rPr"), "i")
}

// SetColor sets explicit font color as RRGGBB hex string, dropping theme
// color references.
func (s *Style) SetColor(hex string) {
	c := getOrAdd(s.rPr(), "color", rPrOrder)
	c.CreateAttr(attr("val"), hex)
	for _, a := range []string{"themeColor", "themeTint", "themeShade"} {
		c.RemoveAttr(attr(a))
	}
}

func (s *Style) Color() string {
	v, _ := val(child(s.el, "rPr"), "color")
	return v
}

// HasThemeColor reports whether color is linked to document theme.
func (s *Style) HasThemeColor() bool {
	c := child(child(s.el, "rPr"), "color")
	return c != nil && c.SelectAttr(attr("themeColor")) != nil
}

// SetUnderline sets underline type (single, double, none, etc.).
func (s *Style) SetUnderline(kind string) {
	getOrAdd(s.rPr(), "u", rPrOrder).CreateAttr(attr("val"), kind)
}

func (s *Style) Underline() string {
	v, _ := val(child(s.el, "rPr"), "u")
	return v
}

// SetSpacing sets paragraph spacing before and after in points. Automatic
// and line based spacing is removed, as it takes precedence.
func (s *Style) SetSpacing(before, after float64) {
	sp := getOrAdd(s.pPr(), "spacing", pPrOrder)
	sp.CreateAttr(attr("before"), twips(before))
	sp.CreateAttr(attr("after"), twips(after))
	for _, a := range []string{"beforeLines", "afterLines", "beforeAutospacing", "afterAutospacing"} {
		sp.RemoveAttr(attr(a))
	}
}

// Spacing returns paragraph spacing before and after in points.
func (s *Style) Spacing() (before, after float64) {
	sp := child(child(s.el, "pPr"), "spacing")
	if sp == nil {
		return 0, 0
	}
	return fromTwips(sp.SelectAttrValue(attr("before"), "")), fromTwips(sp.SelectAttrValue(attr("after"), ""))
}
