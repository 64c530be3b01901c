package documents

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
)

// Template is a parsed DOCX file. Parts that carry placeholders are compiled
// to text/template; every other zip entry is copied through untouched.
type Template struct {
	Name  string
	parts []templatePart
}

type templatePart struct {
	header zip.FileHeader
	raw    []byte
	tmpl   *template.Template
}

var templatedPart = regexp.MustCompile(`^word/(document|header\d*|footer\d*|footnotes|endnotes)\.xml$`)

// ParseTemplate reads a DOCX archive and compiles its placeholder parts.
func ParseTemplate(name string, data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a docx archive: %v", ErrInvalidTemplate, name, err)
	}
	tpl := &Template{Name: name}
	sawDocument := false
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s in %s: %v", ErrInvalidTemplate, f.Name, name, err)
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s in %s: %v", ErrInvalidTemplate, f.Name, name, err)
		}
		part := templatePart{header: f.FileHeader, raw: raw}
		if f.Name == "word/document.xml" {
			sawDocument = true
		}
		if templatedPart.MatchString(f.Name) && bytes.ContainsRune(raw, '{') {
			src, err := translateJinja(patchXML(string(raw)))
			if err != nil {
				return nil, fmt.Errorf("%w: %s in %s: %v", ErrInvalidTemplate, f.Name, name, err)
			}
			t, err := template.New(f.Name).
				Delims(leftDelim, rightDelim).
				Option("missingkey=error").
				Funcs(templateFuncs).
				Parse(src)
			if err != nil {
				return nil, fmt.Errorf("%w: %s in %s: %v", ErrInvalidTemplate, f.Name, name, err)
			}
			part.tmpl = t
			part.raw = nil
		}
		tpl.parts = append(tpl.parts, part)
	}
	if !sawDocument {
		return nil, fmt.Errorf("%w: %s has no word/document.xml", ErrInvalidTemplate, name)
	}
	return tpl, nil
}

// Execute fills the template and returns the resulting DOCX bytes. Nothing
// is returned unless every part rendered.
func (t *Template) Execute(rc RenderContext) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range t.parts {
		h := p.header
		h.Method = zip.Deflate
		w, err := zw.CreateHeader(&h)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", h.Name, err)
		}
		if p.tmpl == nil {
			if _, err := w.Write(p.raw); err != nil {
				return nil, fmt.Errorf("write %s: %w", h.Name, err)
			}
			continue
		}
		if err := p.tmpl.Execute(w, map[string]any(rc)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateContextMismatch, t.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

var templateFuncs = template.FuncMap{
	"xml":  xmlValue,
	"add1": func(i int) int { return i + 1 },
	"same": func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
}

// xmlValue escapes v for a w:t element. Newlines become Word line breaks.
func xmlValue(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		s = ""
	case string:
		s = x
	default:
		s = fmt.Sprint(x)
	}
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	escaped := b.String()
	escaped = strings.ReplaceAll(escaped, "&#xD;&#xA;", "&#xA;")
	if !strings.Contains(escaped, "&#xA;") {
		return escaped
	}
	return strings.ReplaceAll(escaped, "&#xA;", `</w:t><w:br/><w:t xml:space="preserve">`)
}

var (
	xmlTag = regexp.MustCompile(`<[^>]*>`)
	// Word splits "{{" into separate runs; rejoin the braces first.
	splitOpen  = regexp.MustCompile(`\{((?:<[^>]*>)+)([{%#])`)
	splitClose = regexp.MustCompile(`([%}#])((?:<[^>]*>)+)\}`)
	xmlEntity  = strings.NewReplacer("&quot;", `"`, "&apos;", "'", "&#39;", "'", "&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// patchXML rejoins Jinja tags that Word spread across runs, then lifts
// paragraph-level tags ({%p ... %}) and table-row tags ({%tr ... %}) out of
// their enclosing element.
func patchXML(src string) string {
	src = splitOpen.ReplaceAllString(src, "{$2")
	src = splitClose.ReplaceAllString(src, "$1}")
	src = stripTagsInsideJinja(src)
	src = liftElementTags(src, "p", "w:p")
	src = liftElementTags(src, "tr", "w:tr")
	return src
}

func stripTagsInsideJinja(src string) string {
	var out strings.Builder
	out.Grow(len(src))
	rest := src
	for {
		start, open := nextOpenTag(rest)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		closeTok := map[string]string{"{{": "}}", "{%": "%}", "{#": "#}"}[open]
		end := strings.Index(rest[start+2:], closeTok)
		if end < 0 {
			out.WriteString(rest)
			return out.String()
		}
		body := rest[start+2 : start+2+end]
		body = xmlEntity.Replace(xmlTag.ReplaceAllString(body, ""))
		out.WriteString(rest[:start])
		out.WriteString(open)
		out.WriteString(body)
		out.WriteString(closeTok)
		rest = rest[start+2+end+2:]
	}
}

// liftElementTags replaces the element enclosing "{%<marker> ... %}" with the
// bare "{% ... %}" tag so loops and conditions can repeat whole paragraphs or
// rows.
func liftElementTags(src, marker, element string) string {
	open := "{%" + marker + " "
	for {
		i := strings.Index(src, open)
		if i < 0 {
			return src
		}
		end := strings.Index(src[i:], "%}")
		if end < 0 {
			return src
		}
		stmt := strings.TrimSpace(src[i+len(open) : i+end])
		tag := "{% " + stmt + " %}"

		start := lastElementStart(src[:i], element)
		closeTag := "</" + element + ">"
		stop := strings.Index(src[i+end:], closeTag)
		if start < 0 || stop < 0 {
			src = src[:i] + tag + src[i+end+2:]
			continue
		}
		stop = i + end + stop + len(closeTag)
		src = src[:start] + tag + src[stop:]
	}
}

func lastElementStart(s, element string) int {
	needle := "<" + element
	for end := len(s); end > 0; {
		i := strings.LastIndex(s[:end], needle)
		if i < 0 {
			return -1
		}
		if next := i + len(needle); next < len(s) && (s[next] == ' ' || s[next] == '>') {
			return i
		}
		end = i
	}
	return -1
}
