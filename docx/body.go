package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

func (d *Document) body() *etree.Element {
	return child(d.main.Root(), "body")
}

// Paragraph is top level body paragraph (w:p).
type Paragraph struct {
	el *etree.Element
}

// Text returns concatenated text of all runs of the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, t := range p.el.FindElements(".//" + tag("t")) {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

// StyleID returns identifier of paragraph style or empty string.
func (p *Paragraph) StyleID() string {
	v, _ := val(child(p.el, "pPr"), "pStyle")
	return v
}

// AddRun appends text run to paragraph. When styleID is not empty run
// refers to that character style.
func (p *Paragraph) AddRun(text, styleID string) {
	r := p.el.CreateElement(tag("r"))
	if styleID != "" {
		r.CreateElement(tag("rPr")).CreateElement(tag("rStyle")).CreateAttr(attr("val"), styleID)
	}
	if text == "" {
		return
	}
	t := r.CreateElement(tag("t"))
	if strings.TrimSpace(text) != text {
		t.CreateAttr("xml:space", "preserve")
	}
	t.SetText(text)
}

// Runs returns number of runs in paragraph.
func (p *Paragraph) Runs() int {
	return len(p.el.SelectElements(tag("r")))
}

// Paragraphs returns top level body paragraphs in document order.
func (d *Document) Paragraphs() []*Paragraph {
	var res []*Paragraph
	for _, el := range d.body().SelectElements(tag("p")) {
		res = append(res, &Paragraph{el: el})
	}
	return res
}

// AddParagraph appends paragraph with a single run of text to the end of
// the body. Style is looked up by UI name and materialized from built-in
// catalogue if document has it only as latent, just like Word does when
// style is applied. Empty style means default paragraph style.
func (d *Document) AddParagraph(text, style string) (*Paragraph, error) {
	var id string
	if style != "" {
		// nothing is added to styles part for unusable style
		if d.styles.Lookup(style) == nil {
			if def, ok := BuiltinStyle(style); ok && def.Type != StyleParagraph {
				return nil, fmt.Errorf("%w: %q is %s style", ErrStyleType, style, def.Type)
			}
		}
		st, err := d.styles.Materialize(style)
		if err != nil {
			return nil, err
		}
		if st.Type() != StyleParagraph {
			return nil, fmt.Errorf("%w: %q is %s style", ErrStyleType, style, st.Type())
		}
		id = st.ID()
	}

	el := etree.NewElement(tag("p"))
	if id != "" {
		el.CreateElement(tag("pPr")).CreateElement(tag("pStyle")).CreateAttr(attr("val"), id)
	}
	p := &Paragraph{el: el}
	if text != "" {
		p.AddRun(text, "")
	}
	d.insertBody(el)
	return p, nil
}

// insertBody appends block level element to body keeping final section
// properties last.
func (d *Document) insertBody(el *etree.Element) {
	body := d.body()
	if sect := child(body, "sectPr"); sect != nil {
		body.InsertChildAt(sect.Index(), el)
		return
	}
	body.AddChild(el)
}

// RemoveParagraph removes paragraph from the document.
func (d *Document) RemoveParagraph(p *Paragraph) {
	if parent := p.el.Parent(); parent != nil {
		parent.RemoveChild(p.el)
	}
}
