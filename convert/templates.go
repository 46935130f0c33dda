package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"md2docx/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Date       string
	Format     string
	SourceFile string
	SourceDir  string
}

func expandTemplate(s *source, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	dir := filepath.ToSlash(filepath.Dir(s.rel))
	if dir == "." {
		dir = ""
	}
	values := Values{
		Context:    string(name),
		Title:      s.title,
		Date:       s.date,
		Format:     "docx",
		SourceFile: strings.TrimSuffix(filepath.Base(s.rel), filepath.Ext(s.rel)),
		SourceDir:  dir,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
