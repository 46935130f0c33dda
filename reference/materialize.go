// Package reference builds reference template for the document converter:
// a blank document where built-in styles are made concrete and then
// restyled according to configuration.
package reference

import (
	"strings"

	"go.uber.org/zap"

	"md2docx/docx"
)

// Placeholders keeps track of throwaway paragraphs added to the document to
// force latent styles into concrete definitions.
type Placeholders struct {
	doc   *docx.Document
	text  string
	added []*docx.Paragraph
}

func NewPlaceholders(doc *docx.Document, text string) *Placeholders {
	return &Placeholders{doc: doc, text: text}
}

// Text returns placeholder paragraph content.
func (p *Placeholders) Text() string {
	return p.text
}

// Materialize appends one placeholder paragraph per style name. Names which
// cannot be used for paragraphs are reported and skipped. Returns number of
// paragraphs added.
func (p *Placeholders) Materialize(names []string, log *zap.Logger) int {
	var n int
	for _, name := range names {
		para, err := p.doc.AddParagraph(p.text, name)
		if err != nil {
			log.Warn("Unable to materialize style, skipping", zap.String("style", name), zap.Error(err))
			continue
		}
		p.Track(para)
		n++
	}
	return n
}

// Track registers paragraph for removal.
func (p *Placeholders) Track(para *docx.Paragraph) {
	p.added = append(p.added, para)
}

// Remove deletes tracked paragraphs whose content is still placeholder text.
// Nothing else is ever removed. Returns number of paragraphs removed.
func (p *Placeholders) Remove() int {
	var n int
	for _, para := range p.added {
		if strings.TrimSpace(para.Text()) != p.text {
			continue
		}
		p.doc.RemoveParagraph(para)
		n++
	}
	p.added = nil
	return n
}
