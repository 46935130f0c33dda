package reference

import (
	"fmt"

	"md2docx/docx"
)

// InjectCharacter makes sure character style exists in the document and
// restyles it. Blank document only knows most character styles as latent
// and they could not be materialized with paragraphs, so missing definition
// is synthesized and referenced from a placeholder run.
func InjectCharacter(doc *docx.Document, ph *Placeholders, e *Engine, o CharOverride) error {
	st := doc.Styles().Lookup(o.BaseName)
	if st == nil {
		if _, ok := e.resolved[baseKey(o.BaseName)]; ok {
			// restyled already, renamed
			return e.ApplyCharacter(o)
		}
		def, ok := docx.BuiltinStyle(o.BaseName)
		if !ok {
			def = docx.StyleDef{
				Name:           o.BaseName,
				Type:           docx.StyleCharacter,
				BasedOn:        "DefaultParagraphFont",
				UIPriority:     99,
				UnhideWhenUsed: true,
			}
		}
		if def.Type != docx.StyleCharacter {
			return fmt.Errorf("%w: %q is %s style, expected %s", docx.ErrStyleType, o.BaseName, def.Type, docx.StyleCharacter)
		}
		var err error
		if st, err = doc.Styles().Add(def); err != nil {
			return err
		}
	}
	if st.Type() != docx.StyleCharacter {
		return fmt.Errorf("%w: %q is %s style, expected %s", docx.ErrStyleType, o.BaseName, st.Type(), docx.StyleCharacter)
	}

	para, err := doc.AddParagraph("", "")
	if err != nil {
		return err
	}
	para.AddRun(ph.Text(), st.ID())
	ph.Track(para)

	return e.ApplyCharacter(o)
}
