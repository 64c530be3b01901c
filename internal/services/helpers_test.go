package services

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/platform/gemini"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type fakeConverter struct {
	fail bool
}

func (f *fakeConverter) ConvertToPDF(_ context.Context, inputPath, outDir string) (string, error) {
	if f.fail {
		return "", os.ErrPermission
	}
	out := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(inputPath), ".docx")+".pdf")
	return out, os.WriteFile(out, []byte("%PDF-1.4\n"), 0o644)
}

type fakeGemini struct {
	resp  *gemini.Response
	err   error
	calls []gemini.Request
}

func (f *fakeGemini) Generate(_ context.Context, req gemini.Request) (*gemini.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// writeDocx writes a one-part DOCX whose body is the given WordprocessingML.
func writeDocx(t *testing.T, dir, name, body string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}

func newPipeline(t *testing.T, conv documents.Converter) (*documents.Pipeline, string, string) {
	t.Helper()
	tplDir, outDir := t.TempDir(), t.TempDir()
	p, err := documents.NewPipeline(logger.NewNop(), documents.PipelineConfig{
		OutputDir: outDir,
		Loader:    documents.NewLoader(tplDir),
		Converter: conv,
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p, tplDir, outDir
}

func para(s string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + s + `</w:t></w:r></w:p>`
}
