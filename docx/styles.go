package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/cases"
)

// StyleType is style category as stored in w:type attribute.
type StyleType int

const (
	StyleUnknown StyleType = iota
	StyleParagraph
	StyleCharacter
	StyleTable
	StyleNumbering
)

func (t StyleType) String() string {
	switch t {
	case StyleParagraph:
		return "paragraph"
	case StyleCharacter:
		return "character"
	case StyleTable:
		return "table"
	case StyleNumbering:
		return "numbering"
	}
	return "unknown"
}

func parseStyleType(s string) StyleType {
	switch s {
	// missing type means paragraph
	case "paragraph", "":
		return StyleParagraph
	case "character":
		return StyleCharacter
	case "table":
		return StyleTable
	case "numbering":
		return StyleNumbering
	}
	return StyleUnknown
}

// Word stores some built-in style names in lowercase while showing them
// capitalized in the UI. Lookups are done by UI names.
var uiToInternal = map[string]string{
	"Caption":            "caption",
	"Footer":             "footer",
	"Header":             "header",
	"Footnote Text":      "footnote text",
	"Footnote Reference": "footnote reference",
	"Heading 1":          "heading 1",
	"Heading 2":          "heading 2",
	"Heading 3":          "heading 3",
	"Heading 4":          "heading 4",
	"Heading 5":          "heading 5",
	"Heading 6":          "heading 6",
	"Heading 7":          "heading 7",
	"Heading 8":          "heading 8",
	"Heading 9":          "heading 9",
}

var internalToUI = func() map[string]string {
	m := make(map[string]string, len(uiToInternal))
	for k, v := range uiToInternal {
		m[v] = k
	}
	return m
}()

func internalName(name string) string {
	if n, ok := uiToInternal[name]; ok {
		return n
	}
	return name
}

func uiName(name string) string {
	if n, ok := internalToUI[name]; ok {
		return n
	}
	return name
}

// sameName compares style names the way Word does: case insensitive.
func sameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// Styles is styles part of the document.
type Styles struct {
	root *etree.Element
}

func (s *Styles) elements() []*etree.Element {
	return s.root.SelectElements(tag("style"))
}

// Len returns number of concrete styles.
func (s *Styles) Len() int {
	return len(s.elements())
}

// All returns concrete styles in document order.
func (s *Styles) All() []*Style {
	els := s.elements()
	res := make([]*Style, 0, len(els))
	for _, el := range els {
		res = append(res, &Style{el: el})
	}
	return res
}

// Lookup finds concrete style by its UI name. Exact match is preferred,
// otherwise names are compared case insensitively. Returns nil when style
// is not found (it may still be latent).
func (s *Styles) Lookup(name string) *Style {
	internal := internalName(name)
	els := s.elements()
	for _, el := range els {
		if styleName(el) == internal {
			return &Style{el: el}
		}
	}
	for _, el := range els {
		if n := styleName(el); sameName(n, internal) || sameName(uiName(n), name) {
			return &Style{el: el}
		}
	}
	return nil
}

// ByID finds concrete style by its identifier.
func (s *Styles) ByID(id string) *Style {
	for _, el := range s.elements() {
		if el.SelectAttrValue(attr("styleId"), "") == id {
			return &Style{el: el}
		}
	}
	return nil
}

// Default returns default style of the requested type.
func (s *Styles) Default(t StyleType) *Style {
	for _, el := range s.elements() {
		st := &Style{el: el}
		if st.Type() == t && onOffAttr(el, "default") {
			return st
		}
	}
	return nil
}

// IsLatent reports whether style is known to the document only through
// latent styles declarations.
func (s *Styles) IsLatent(name string) bool {
	if s.Lookup(name) != nil {
		return false
	}
	ls := child(s.root, "latentStyles")
	if ls == nil {
		return false
	}
	internal := internalName(name)
	for _, ex := range ls.SelectElements(tag("lsdException")) {
		if sameName(ex.SelectAttrValue(attr("name"), ""), internal) {
			return true
		}
	}
	return false
}

// Add creates new concrete style from definition. Style identifier is made
// unique if necessary, so the returned style may have identifier different
// from the requested one.
func (s *Styles) Add(def StyleDef) (*Style, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("unable to add style without name")
	}
	if s.Lookup(def.Name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrStyleExists, def.Name)
	}
	if def.Type == StyleUnknown {
		return nil, fmt.Errorf("%w: %q has no type", ErrStyleType, def.Name)
	}
	id := def.ID
	if id == "" {
		id = strings.ReplaceAll(def.Name, " ", "")
	}

	el := etree.NewElement(tag("style"))
	el.CreateAttr(attr("type"), def.Type.String())
	el.CreateAttr(attr("styleId"), s.uniqueID(id))
	st := &Style{el: el}
	st.SetName(def.Name)
	def.apply(st)

	// styles go after docDefaults and latentStyles, appending is fine
	s.root.AddChild(el)
	return st, nil
}

func (s *Styles) uniqueID(id string) string {
	if s.ByID(id) == nil {
		return id
	}
	for i := 1; ; i++ {
		if candidate := fmt.Sprintf("%s%d", id, i); s.ByID(candidate) == nil {
			return candidate
		}
	}
}

// Materialize returns concrete style with the given name, creating it from
// built-in catalogue when document does not have it yet. This is what Word
// does when latent style is applied to content for the first time.
func (s *Styles) Materialize(name string) (*Style, error) {
	if st := s.Lookup(name); st != nil {
		return st, nil
	}
	def, ok := BuiltinStyle(name)
	if !ok {
		if s.IsLatent(name) {
			return nil, fmt.Errorf("%w: %q is latent and has no built-in definition", ErrStyleNotFound, name)
		}
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return s.Add(def)
}

func styleName(el *etree.Element) string {
	v, _ := val(el, "name")
	return v
}

func onOffAttr(el *etree.Element, name string) bool {
	switch el.SelectAttrValue(attr(name), "") {
	case "1", "true", "on":
		return true
	}
	return false
}
