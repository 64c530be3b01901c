package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"
)

type fileKind int

const (
	kindUnknown fileKind = iota
	kindPDF
	kindDOCX
	kindText
)

// Upload is a file received from a client. ContentType is the declared
// type of the multipart part.
type Upload struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Policy decides which declared content types are accepted.
type Policy int

const (
	// Lenient accepts any wordprocessingml type and any text/* type.
	Lenient Policy = iota
	// Strict accepts exactly application/pdf, the DOCX type and text/plain.
	Strict
)

func classify(contentType string, policy Policy) fileKind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if policy == Strict {
		if base, _, ok := strings.Cut(ct, ";"); ok {
			ct = strings.TrimSpace(base)
		}
		switch ct {
		case ContentTypePDF:
			return kindPDF
		case ContentTypeDOCX:
			return kindDOCX
		case ContentTypeText:
			return kindText
		}
		return kindUnknown
	}
	switch {
	case strings.HasPrefix(ct, ContentTypePDF):
		return kindPDF
	case strings.Contains(ct, "wordprocessingml"):
		return kindDOCX
	case strings.HasPrefix(ct, "text/"):
		return kindText
	}
	return kindUnknown
}

// CheckContentType returns ErrUnsupportedFileType for types policy rejects.
func CheckContentType(contentType string, policy Policy) error {
	if classify(contentType, policy) == kindUnknown {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, contentType)
	}
	return nil
}

// ExtractText decodes the upload according to its declared content type.
// Control characters are stripped; an empty result is ErrNoExtractableText.
func ExtractText(u Upload, policy Policy) (string, error) {
	var (
		text string
		err  error
	)
	switch classify(u.ContentType, policy) {
	case kindPDF:
		text, err = pdfText(u.Data)
	case kindDOCX:
		text, err = docxText(u.Data)
	case kindText:
		text = string(u.Data)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "")
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, u.ContentType)
	}
	if err != nil {
		return "", err
	}
	text = stripControl(text)
	if strings.TrimSpace(text) == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}

// ReadError is a file that matched its declared type but could not be read.
type ReadError struct {
	Format string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %s file: %v", e.Format, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ReadError{Format: "PDF", Err: err}
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", &ReadError{Format: "PDF", Err: err}
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", &ReadError{Format: "PDF", Err: err}
	}
	return string(b), nil
}

// docxText returns the text of word/document.xml, one line per paragraph.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ReadError{Format: "DOCX", Err: err}
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", &ReadError{Format: "DOCX", Err: fmt.Errorf("word/document.xml missing")}
	}
	rc, err := doc.Open()
	if err != nil {
		return "", &ReadError{Format: "DOCX", Err: err}
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var out strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ReadError{Format: "DOCX", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return out.String(), nil
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
