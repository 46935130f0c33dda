package docx

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestAddParagraph(t *testing.T) {
	d := newDoc(t)

	p, err := d.AddParagraph("  padded ", "")
	if err != nil {
		t.Fatalf("AddParagraph() error = %v", err)
	}
	if p.Text() != "  padded " || p.StyleID() != "" || p.Runs() != 1 {
		t.Errorf("unexpected paragraph: %q %q %d", p.Text(), p.StyleID(), p.Runs())
	}

	if _, err := d.AddParagraph("x", "Quote"); err != nil {
		t.Fatalf("AddParagraph() with latent style error = %v", err)
	}
	styles := d.Styles().Len()
	if _, err := d.AddParagraph("x", "Hyperlink"); !errors.Is(err, ErrStyleType) {
		t.Errorf("AddParagraph() with character style error = %v, want ErrStyleType", err)
	}
	if _, err := d.AddParagraph("x", "Light Shading"); !errors.Is(err, ErrStyleType) {
		t.Errorf("AddParagraph() with table style error = %v, want ErrStyleType", err)
	}
	if got := d.Styles().Len(); got != styles {
		t.Errorf("rejected styles were added: %d -> %d", styles, got)
	}
	if _, err := d.AddParagraph("x", "Unknown"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("AddParagraph() with unknown style error = %v, want ErrStyleNotFound", err)
	}
	if got := len(d.Paragraphs()); got != 2 {
		t.Errorf("got %d paragraphs, want 2", got)
	}

	// section properties stay last
	body := d.body().ChildElements()
	if body[len(body)-1].Tag != "sectPr" {
		t.Errorf("last body element is %s, want sectPr", body[len(body)-1].Tag)
	}

	p.AddRun("", "Hyperlink")
	if p.Runs() != 2 {
		t.Errorf("Runs() = %d, want 2", p.Runs())
	}
	d.RemoveParagraph(p)
	if got := len(d.Paragraphs()); got != 1 {
		t.Errorf("got %d paragraphs after removal, want 1", got)
	}
}

func TestTableLook_Val(t *testing.T) {
	tests := []struct {
		look TableLook
		want string
	}{
		{TableLook{}, "0000"},
		{TableLook{FirstRow: true, NoHBand: true, NoVBand: true}, "0620"},
		{TableLook{FirstRow: true, FirstColumn: true, NoVBand: true}, "04A0"},
		{TableLook{FirstRow: true, LastRow: true, FirstColumn: true, LastColumn: true, NoHBand: true, NoVBand: true}, "07E0"},
	}
	for _, tt := range tests {
		if got := tt.look.Val(); got != tt.want {
			t.Errorf("%+v.Val() = %s, want %s", tt.look, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	d := newDoc(t)
	tbl := d.AddTable(3, 100, 200)

	if !tbl.HasCellWidths() {
		t.Fatal("fixture table should have fixed widths")
	}
	if got := len(tbl.Cells()); got != 6 {
		t.Fatalf("Cells() = %d, want 6", got)
	}
	if tbl.Next() != "sectPr" {
		t.Errorf("Next() = %q, want sectPr", tbl.Next())
	}
	if !tbl.Autofit() {
		t.Error("table without layout should be autofit")
	}

	tbl.SetLook(TableLook{FirstRow: true, NoHBand: true, NoVBand: true})
	tbl.SetStyleID("LightShading")
	tbl.SetAutofit(false)
	if tbl.Autofit() {
		t.Error("SetAutofit(false) did not stick")
	}
	tbl.SetAutofit(true)
	tbl.SetWidthPct(100)

	if n := tbl.ClearCellWidths(); n != 6 {
		t.Errorf("ClearCellWidths() = %d, want 6", n)
	}
	if tbl.HasCellWidths() {
		t.Error("cell widths remain")
	}
	if w, typ := tbl.Width(); w != "5000" || typ != "pct" {
		t.Errorf("Width() = %s %s, want 5000 pct", w, typ)
	}

	wantOrder := []string{"tblStyle", "tblW", "tblLayout", "tblLook"}
	if got := childTags(child(tbl.el, "tblPr")); !slices.Equal(got, wantOrder) {
		t.Errorf("tblPr children = %v, want %v", got, wantOrder)
	}

	p := tbl.InsertParagraphAfter()
	if tbl.Next() != "p" || p.Text() != "" {
		t.Errorf("Next() = %q after InsertParagraphAfter", tbl.Next())
	}

	// survives save
	name := filepath.Join(t.TempDir(), "table.docx")
	if err := d.Save(name); err != nil {
		t.Fatal(err)
	}
	d, err := Open(name)
	if err != nil {
		t.Fatal(err)
	}
	tables := d.Tables()
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	tbl = tables[0]
	if tbl.StyleID() != "LightShading" || !tbl.Autofit() || tbl.HasCellWidths() {
		t.Error("table properties lost after save")
	}
	if want := (TableLook{FirstRow: true, NoHBand: true, NoVBand: true}); tbl.Look() != want {
		t.Errorf("Look() = %+v, want %+v", tbl.Look(), want)
	}
}

func TestTable_LookFromBitmask(t *testing.T) {
	d := newDoc(t)
	tbl := d.AddTable(1, 50)
	look := getOrAdd(tbl.tblPr(), "tblLook", tblPrOrder)
	look.CreateAttr(attr("val"), "04A0")

	want := TableLook{FirstRow: true, FirstColumn: true, NoVBand: true}
	if got := tbl.Look(); got != want {
		t.Errorf("Look() = %+v, want %+v", got, want)
	}

	// explicit attribute wins
	look.CreateAttr(attr("firstColumn"), "0")
	want.FirstColumn = false
	if got := tbl.Look(); got != want {
		t.Errorf("Look() = %+v, want %+v", got, want)
	}
}
