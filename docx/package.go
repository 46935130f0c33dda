// Package docx is a small WordprocessingML object model: it opens and saves
// OOXML packages, exposes the styles part and the top level body content
// (paragraphs and tables) of the main document as etree trees.
package docx

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"
	zip "github.com/hidez8891/zip"

	"md2docx/archive"
)

var (
	ErrNotPackage    = errors.New("not an OOXML package")
	ErrNoMainPart    = errors.New("main document part not found")
	ErrStyleNotFound = errors.New("style not found")
	ErrStyleExists   = errors.New("style already exists")
	ErrStyleType     = errors.New("unexpected style type")
)

const (
	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	ctStyles          = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
)

//go:embed blank/*.xml
var blank embed.FS

// blank template files in the order they are written into new package.
var blankParts = []struct{ file, name string }{
	{"content_types.xml", contentTypesPart},
	{"rels.xml", packageRelsPart},
	{"document.xml", "word/document.xml"},
	{"document_rels.xml", "word/_rels/document.xml.rels"},
	{"styles.xml", "word/styles.xml"},
	{"settings.xml", "word/settings.xml"},
	{"core.xml", "docProps/core.xml"},
	{"app.xml", "docProps/app.xml"},
}

// part is a single package entry. Parts which were never parsed are copied
// into resulting archive as is, without recompression.
type part struct {
	name string
	file *zip.File
	tree *etree.Document
}

func (p *part) parse() (*etree.Document, error) {
	if p.tree != nil {
		return p.tree, nil
	}
	rc, err := p.file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open part %s: %w", p.name, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("unable to parse part %s: %w", p.name, err)
	}
	p.tree = doc
	return doc, nil
}

// Document is an opened WordprocessingML package.
type Document struct {
	parts    []*part
	index    map[string]*part
	mainName string
	main     *etree.Document
	styles   *Styles
}

// New creates empty document from embedded blank template. Only a handful of
// styles are concrete in it, everything else is latent.
func New() (*Document, error) {
	d := &Document{index: make(map[string]*part)}
	for _, bp := range blankParts {
		data, err := blank.ReadFile("blank/" + bp.file)
		if err != nil {
			return nil, err
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return nil, fmt.Errorf("unable to parse blank part %s: %w", bp.name, err)
		}
		d.add(&part{name: bp.name, tree: doc})
	}
	if err := d.resolve(); err != nil {
		return nil, err
	}
	return d, nil
}

// Open reads package from file. File is loaded into memory, so it could be
// overwritten by Save.
func Open(name string) (*Document, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if !filetype.Is(data, "zip") {
		return nil, fmt.Errorf("%s: %w", name, ErrNotPackage)
	}
	r, err := archive.NewReader(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	d := &Document{index: make(map[string]*part)}
	if err := archive.Walk(r, "", func(f *zip.File) error {
		d.add(&part{name: f.Name, file: f})
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if _, ok := d.index[contentTypesPart]; !ok {
		return nil, fmt.Errorf("%s: %w: no content types", name, ErrNotPackage)
	}
	if err := d.resolve(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func (d *Document) add(p *part) {
	d.parts = append(d.parts, p)
	d.index[p.name] = p
}

func (d *Document) tree(name string) (*etree.Document, error) {
	p, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	return p.parse()
}

// resolve follows package relationships to the main document and its styles.
func (d *Document) resolve() error {
	rels, err := d.tree(packageRelsPart)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoMainPart, err)
	}
	target, ok := findTarget(rels, "", relOfficeDocument)
	if !ok {
		return ErrNoMainPart
	}
	d.mainName = target
	if d.main, err = d.tree(target); err != nil {
		return fmt.Errorf("%w: %w", ErrNoMainPart, err)
	}
	if d.body() == nil {
		return fmt.Errorf("%w: %s has no body", ErrNoMainPart, target)
	}

	mainRels := relsName(d.mainName)
	if _, ok := d.index[mainRels]; !ok {
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		doc.CreateElement("Relationships").CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
		d.add(&part{name: mainRels, tree: doc})
	}
	rels, err = d.tree(mainRels)
	if err != nil {
		return err
	}
	if target, ok = findTarget(rels, path.Dir(d.mainName), relStyles); !ok {
		if target, err = d.addStylesPart(rels); err != nil {
			return err
		}
	}
	tree, err := d.tree(target)
	if err != nil {
		return err
	}
	d.styles = &Styles{root: tree.Root()}
	return nil
}

// addStylesPart puts blank styles part into package which does not have one.
func (d *Document) addStylesPart(rels *etree.Document) (string, error) {
	data, err := blank.ReadFile("blank/styles.xml")
	if err != nil {
		return "", err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", err
	}
	name := path.Join(path.Dir(d.mainName), "styles.xml")
	d.add(&part{name: name, tree: doc})

	ct, err := d.tree(contentTypesPart)
	if err != nil {
		return "", err
	}
	o := ct.Root().CreateElement("Override")
	o.CreateAttr("PartName", "/"+name)
	o.CreateAttr("ContentType", ctStyles)

	root := rels.Root()
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", uniqueRelID(root))
	rel.CreateAttr("Type", relStyles)
	rel.CreateAttr("Target", "styles.xml")
	return name, nil
}

// relsName returns name of relationships part for the given part.
func relsName(name string) string {
	return path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
}

// findTarget returns package name of the first relationship of requested
// type. Targets are relative to the directory of the source part.
func findTarget(rels *etree.Document, dir, relType string) (string, bool) {
	if rels.Root() == nil {
		return "", false
	}
	for _, rel := range rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") != relType || rel.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		target := rel.SelectAttrValue("Target", "")
		if strings.HasPrefix(target, "/") {
			return strings.TrimPrefix(target, "/"), true
		}
		return path.Join(dir, target), true
	}
	return "", false
}

func uniqueRelID(root *etree.Element) string {
	ids := make(map[string]bool)
	for _, rel := range root.SelectElements("Relationship") {
		ids[rel.SelectAttrValue("Id", "")] = true
	}
	for i := 1; ; i++ {
		if id := fmt.Sprintf("rId%d", i); !ids[id] {
			return id
		}
	}
}

// Styles returns styles part of the document.
func (d *Document) Styles() *Styles {
	return d.styles
}

// Save writes package to the file. Parts which were never looked at are
// copied from the source archive untouched. Resulting file is written
// next to destination and renamed, so it is safe to save document
// into the file it was opened from. Permissions of the existing destination
// are kept, new file gets the same mode os.Create would give it.
func (d *Document) Save(name string) (err error) {
	mode := newFileMode()
	if fi, err := os.Stat(name); err == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("unable to create file for %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = d.Write(tmp); err != nil {
		return fmt.Errorf("unable to write %s: %w", name, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("unable to set permissions of %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to write %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("unable to save %s: %w", name, err)
	}
	return nil
}

// Write writes complete package to w.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		if p.tree == nil {
			// entry is not going to be re-read, no need for descriptor
			p.file.Flags &= ^zip.FlagDataDescriptor
			if err := zw.CopyFile(p.file); err != nil {
				return fmt.Errorf("unable to copy part %s: %w", p.name, err)
			}
			continue
		}
		var buf bytes.Buffer
		if _, err := p.tree.WriteTo(&buf); err != nil {
			return fmt.Errorf("unable to serialize part %s: %w", p.name, err)
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := fw.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return zw.Close()
}
