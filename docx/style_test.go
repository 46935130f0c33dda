package docx

import (
	"slices"
	"testing"

	"github.com/beevik/etree"
)

func childTags(el *etree.Element) []string {
	var res []string
	for _, c := range el.ChildElements() {
		res = append(res, c.Tag)
	}
	return res
}

func TestStyle_Properties(t *testing.T) {
	d := newDoc(t)
	st, err := d.Styles().Materialize("Heading 1")
	if err != nil {
		t.Fatal(err)
	}
	id := st.ID()

	st.SetName("IBM Heading 1")
	st.SetFontName("IBM Plex Sans")
	st.SetFontSize(18)
	st.SetBold(true)
	st.SetItalic(false)
	st.SetColor("0F62FE")
	st.SetSpacing(6, 12)

	if st.ID() != id {
		t.Errorf("ID changed: %s -> %s", id, st.ID())
	}
	if st.Name() != "IBM Heading 1" {
		t.Errorf("Name() = %q", st.Name())
	}
	if st.FontName() != "IBM Plex Sans" || st.FontSize() != 18 || !st.Bold() || st.Italic() || st.Color() != "0F62FE" {
		t.Errorf("unexpected run properties: font=%q size=%v bold=%v italic=%v color=%s",
			st.FontName(), st.FontSize(), st.Bold(), st.Italic(), st.Color())
	}
	if before, after := st.Spacing(); before != 6 || after != 12 {
		t.Errorf("Spacing() = %v, %v, want 6, 12", before, after)
	}

	rpr := child(st.Element(), "rPr")
	if v, _ := val(rpr, "szCs"); v != "36" {
		t.Errorf("szCs = %s, want 36", v)
	}
	if v, ok := val(rpr, "i"); !ok || v != "0" {
		t.Errorf("italic off must be explicit, got %q %v", v, ok)
	}
	if b := child(rpr, "b"); b.SelectAttr(attr("val")) != nil {
		t.Error("bold on should not carry value")
	}
	sp := child(child(st.Element(), "pPr"), "spacing")
	if sp.SelectAttrValue(attr("before"), "") != "120" || sp.SelectAttrValue(attr("after"), "") != "240" {
		t.Error("spacing is not stored in twips")
	}
}

func TestStyle_Idempotent(t *testing.T) {
	d := newDoc(t)
	st, err := d.Styles().Materialize("Title")
	if err != nil {
		t.Fatal(err)
	}
	apply := func() string {
		st.SetName("IBM Title")
		st.SetFontName("IBM Plex Sans")
		st.SetFontSize(28)
		st.SetBold(true)
		st.SetItalic(false)
		st.SetColor("000000")
		st.SetSpacing(0, 12)
		doc := etree.NewDocument()
		doc.SetRoot(st.Element().Copy())
		s, _ := doc.WriteToString()
		return s
	}
	first := apply()
	if second := apply(); first != second {
		t.Errorf("second application changed style:\n%s\n%s", first, second)
	}
}

func TestStyle_ThemeReferencesStripped(t *testing.T) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(`<w:style xmlns:w="x" w:type="paragraph" w:styleId="Heading1">
<w:name w:val="heading 1"/>
<w:rPr><w:rFonts w:asciiTheme="majorHAnsi" w:hAnsiTheme="majorHAnsi" w:eastAsiaTheme="majorEastAsia" w:cstheme="majorBidi"/>
<w:color w:val="2F5496" w:themeColor="accent1" w:themeShade="BF"/></w:rPr></w:style>`); err != nil {
		t.Fatal(err)
	}
	st := &Style{el: doc.Root()}
	if !st.HasThemeFonts() || !st.HasThemeColor() {
		t.Fatal("fixture should reference theme")
	}
	st.SetFontName("IBM Plex Sans")
	st.SetColor("000000")
	if st.HasThemeFonts() {
		t.Error("theme fonts are still referenced")
	}
	if st.HasThemeColor() {
		t.Error("theme color is still referenced")
	}
	c := child(child(st.Element(), "rPr"), "color")
	if c.SelectAttr(attr("themeShade")) != nil {
		t.Error("theme shade is still present")
	}
}

func TestStyle_ChildOrder(t *testing.T) {
	d := newDoc(t)
	st, err := d.Styles().Add(StyleDef{Name: "Ordered", Type: StyleParagraph})
	if err != nil {
		t.Fatal(err)
	}
	// set in reverse schema order
	st.SetSpacing(1, 2)
	st.SetFontSize(10)
	st.SetColor("FF0000")
	st.SetItalic(true)
	st.SetBold(true)
	st.SetFontName("Arial")

	want := []string{"name", "pPr", "rPr"}
	if got := childTags(st.Element()); !slices.Equal(got, want) {
		t.Errorf("style children = %v, want %v", got, want)
	}
	wantR := []string{"rFonts", "b", "bCs", "i", "iCs", "color", "sz", "szCs"}
	if got := childTags(child(st.Element(), "rPr")); !slices.Equal(got, wantR) {
		t.Errorf("rPr children = %v, want %v", got, wantR)
	}
}

func TestOnOff(t *testing.T) {
	tests := []struct {
		xml  string
		want bool
	}{
		{`<w:rPr xmlns:w="x"><w:b/></w:rPr>`, true},
		{`<w:rPr xmlns:w="x"><w:b w:val="1"/></w:rPr>`, true},
		{`<w:rPr xmlns:w="x"><w:b w:val="true"/></w:rPr>`, true},
		{`<w:rPr xmlns:w="x"><w:b w:val="0"/></w:rPr>`, false},
		{`<w:rPr xmlns:w="x"><w:b w:val="false"/></w:rPr>`, false},
		{`<w:rPr xmlns:w="x"/>`, false},
	}
	for _, tt := range tests {
		doc := etree.NewDocument()
		if err := doc.ReadFromString(tt.xml); err != nil {
			t.Fatal(err)
		}
		if got := onOff(doc.Root(), "b"); got != tt.want {
			t.Errorf("onOff(%s) = %v, want %v", tt.xml, got, tt.want)
		}
	}
}

func TestUnits(t *testing.T) {
	if halfPoints(10.5) != "21" || twips(6) != "120" {
		t.Error("conversion to storage units failed")
	}
	if fromHalfPoints("21") != 10.5 || fromTwips("120") != 6 || fromTwips("bad") != 0 {
		t.Error("conversion from storage units failed")
	}
}
