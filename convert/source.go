package convert

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
	yaml "gopkg.in/yaml.v3"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// source is a single Markdown file prepared for conversion.
type source struct {
	// absolute path to the file on disk
	path string
	// path relative to processed directory including base name, or just base
	// name when file was specified directly
	rel string
	// UTF-8 text
	text []byte
	// name of the encoding text was converted from, empty if it was not
	encoding string
	modTime  time.Time
	title    string
	date     string
}

func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// loadSource reads file and brings it to UTF-8. When enc is not empty it
// names source encoding explicitly, otherwise encoding is detected.
func loadSource(path, rel, enc string, log *zap.Logger) (*source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read source: %w", err)
	}

	text, name, err := decodeText(data, enc)
	if err != nil {
		return nil, err
	}
	if name != "" {
		log.Debug("Source transcoded to UTF-8", zap.String("file", rel), zap.String("charset", name))
	}

	s := &source{path: path, rel: rel, text: text, encoding: name, modTime: fi.ModTime()}
	s.title, s.date = extractMetadata(text)
	if s.date == "" {
		s.date = s.modTime.Format("2006-01-02")
	}
	return s, nil
}

// decodeText returns UTF-8 text and name of the encoding it was converted
// from. Name is empty when data could be used as is.
func decodeText(data []byte, enc string) ([]byte, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], "utf-8", nil
	}

	var (
		e    encoding.Encoding
		name string
	)
	switch {
	case enc != "":
		var err error
		if e, err = ianaindex.IANA.Encoding(enc); err != nil || e == nil {
			return nil, "", fmt.Errorf("unknown source encoding %q", enc)
		}
		name, _ = ianaindex.IANA.Name(e)
	case utf8.Valid(data):
		return data, "", nil
	default:
		e, name, _ = charset.DetermineEncoding(data, "text/plain")
	}

	out, _, err := transform.Bytes(e.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode source from %s: %w", name, err)
	}
	// decoders for UTF-16 may leave BOM in place
	out = bytes.TrimPrefix(out, utf8BOM)
	return out, name, nil
}

type frontMatter struct {
	Title any `yaml:"title"`
	Date  any `yaml:"date"`
}

// extractMetadata looks for document title and date: YAML metadata block
// first, then pandoc title block, then first level one heading.
func extractMetadata(text []byte) (title, date string) {
	if fm, ok := parseFrontMatter(text); ok {
		title, date = scalar(fm.Title), scalar(fm.Date)
		if title != "" {
			return title, date
		}
	}

	sc := bufio.NewScanner(bytes.NewReader(text))
	first := true
	fence := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if first {
			first = false
			if t, ok := strings.CutPrefix(line, "% "); ok {
				return strings.TrimSpace(t), date
			}
		}
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			fence = !fence
			continue
		}
		if fence {
			continue
		}
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(strings.TrimRight(t, "#")), date
		}
	}
	return "", date
}

func parseFrontMatter(text []byte) (frontMatter, bool) {
	var fm frontMatter

	lines := strings.Split(strings.ReplaceAll(string(text), "\r\n", "\n"), "\n")
	if len(lines) < 2 || lines[0] != "---" {
		return fm, false
	}
	for i, line := range lines[1:] {
		if line != "---" && line != "..." {
			continue
		}
		if err := yaml.Unmarshal([]byte(strings.Join(lines[1:i+1], "\n")), &fm); err != nil {
			return fm, false
		}
		return fm, true
	}
	return fm, false
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// workingCopy returns path converter should read. Text which required
// transcoding is written into dir.
func (s *source) workingCopy(dir string) (string, error) {
	if s.encoding == "" {
		return s.path, nil
	}
	name := filepath.Join(dir, filepath.Base(s.path))
	if err := os.WriteFile(name, s.text, 0644); err != nil {
		return "", fmt.Errorf("unable to write transcoded source: %w", err)
	}
	return name, nil
}
