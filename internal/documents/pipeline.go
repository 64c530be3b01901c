package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// Converter produces a PDF rendition of a document next to it in outDir.
type Converter interface {
	ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error)
}

// Observer receives render and conversion outcomes.
type Observer interface {
	IncRender(kind, status string)
	IncConversion(status string)
}

type Artifact struct {
	Name string `json:"name"`
	Path string `json:"-"`
	URL  string `json:"url"`
}

// ArtifactPair is the outcome of one render. Secondary is nil when the PDF
// rendition could not be produced.
type ArtifactPair struct {
	Primary   Artifact
	Secondary *Artifact
}

// Links is the client-facing form of an ArtifactPair.
type Links struct {
	DocxURL string  `json:"docx_url"`
	PDFURL  *string `json:"pdf_url"`
}

func (p *ArtifactPair) Links() Links {
	l := Links{DocxURL: p.Primary.URL}
	if p.Secondary != nil {
		u := p.Secondary.URL
		l.PDFURL = &u
	}
	return l
}

type PipelineConfig struct {
	OutputDir string
	Loader    *Loader
	Converter Converter
	Publisher Publisher
	Observer  Observer
	Now       func() time.Time
}

type Pipeline struct {
	log       *logger.Logger
	outputDir string
	loader    *Loader
	converter Converter
	publisher Publisher
	observer  Observer
	now       func() time.Time
}

func NewPipeline(log *logger.Logger, cfg PipelineConfig) (*Pipeline, error) {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, fmt.Errorf("output dir required")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = NewLocalPublisher("/static/outputs")
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{
		log:       log.With("service", "DocumentPipeline"),
		outputDir: cfg.OutputDir,
		loader:    cfg.Loader,
		converter: cfg.Converter,
		publisher: cfg.Publisher,
		observer:  cfg.Observer,
		now:       cfg.Now,
	}, nil
}

func (p *Pipeline) OutputDir() string { return p.outputDir }

// Now is the clock used for date fields and file names.
func (p *Pipeline) Now() time.Time { return p.now() }

// Generate loads the kind's template, builds the context and renders it
// under a unique name derived from req.BaseName.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*ArtifactPair, RenderContext, error) {
	return p.generate(ctx, req, "")
}

// GenerateNamed is Generate with a caller-chosen file stem.
func (p *Pipeline) GenerateNamed(ctx context.Context, req Request, name string) (*ArtifactPair, RenderContext, error) {
	if SanitizeFilename(name) != name || name == "" {
		return nil, nil, fmt.Errorf("%w: unsafe output name %q", ErrInvalidRequest, name)
	}
	return p.generate(ctx, req, name)
}

func (p *Pipeline) generate(ctx context.Context, req Request, name string) (*ArtifactPair, RenderContext, error) {
	kind := string(req.Kind())
	if p.loader == nil {
		return nil, nil, fmt.Errorf("pipeline has no template loader")
	}
	tpl, err := p.loader.Load(TemplateFor(req.Kind()))
	if err != nil {
		p.observer.IncRender(kind, "template_error")
		return nil, nil, err
	}
	rc, err := BuildContext(req, p.now())
	if err != nil {
		p.observer.IncRender(kind, "error")
		return nil, nil, err
	}
	var pair *ArtifactPair
	if name == "" {
		pair, err = p.Render(ctx, tpl, rc, req.BaseName())
	} else {
		pair, err = p.RenderNamed(ctx, tpl, rc, name)
	}
	switch {
	case err != nil:
		p.observer.IncRender(kind, "error")
		return nil, rc, err
	case pair.Secondary == nil:
		p.observer.IncRender(kind, "degraded")
	default:
		p.observer.IncRender(kind, "ok")
	}
	return pair, rc, nil
}

// Render fills tpl with rc, writes "<sanitized base>_<unix>_<suffix>.docx"
// and attempts a PDF rendition.
func (p *Pipeline) Render(ctx context.Context, tpl *Template, rc RenderContext, baseName string) (*ArtifactPair, error) {
	return p.RenderNamed(ctx, tpl, rc, UniqueName(baseName, p.now()))
}

// RenderNamed is Render with the final file stem supplied by the caller.
// A conversion failure leaves Secondary nil and is not an error.
func (p *Pipeline) RenderNamed(ctx context.Context, tpl *Template, rc RenderContext, name string) (*ArtifactPair, error) {
	if tpl == nil {
		return nil, fmt.Errorf("nil template")
	}
	data, err := tpl.Execute(rc)
	if err != nil {
		return nil, err
	}

	docxName := name + ".docx"
	docxPath := filepath.Join(p.outputDir, docxName)
	if err := writeFileAtomic(docxPath, data); err != nil {
		return nil, fmt.Errorf("save %s: %w", docxName, err)
	}
	docxURL, err := p.publisher.Publish(ctx, docxName, docxPath)
	if err != nil {
		_ = os.Remove(docxPath)
		return nil, fmt.Errorf("publish %s: %w", docxName, err)
	}
	pair := &ArtifactPair{Primary: Artifact{Name: docxName, Path: docxPath, URL: docxURL}}
	pair.Secondary = p.convert(ctx, docxPath)
	return pair, nil
}

func (p *Pipeline) convert(ctx context.Context, docxPath string) *Artifact {
	if p.converter == nil {
		p.observer.IncConversion("skipped")
		return nil
	}
	pdfPath, err := p.converter.ConvertToPDF(ctx, docxPath, p.outputDir)
	if err != nil {
		p.observer.IncConversion("failed")
		p.log.Warn("PDF conversion failed; returning docx only", "file", filepath.Base(docxPath), "error", err)
		return nil
	}
	pdfName := filepath.Base(pdfPath)
	pdfURL, err := p.publisher.Publish(ctx, pdfName, pdfPath)
	if err != nil {
		p.observer.IncConversion("publish_failed")
		p.log.Warn("Publishing PDF failed; returning docx only", "file", pdfName, "error", err)
		return nil
	}
	p.observer.IncConversion("ok")
	return &Artifact{Name: pdfName, Path: pdfPath, URL: pdfURL}
}

// UniqueName returns "<sanitized base>_<unix seconds>_<8 hex>". The random
// suffix separates renders of the same base within one second.
func UniqueName(baseName string, now time.Time) string {
	base := SanitizeFilename(baseName)
	if base == "" {
		base = "document"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", base, now.Unix(), suffix)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".render-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// IsNotFound reports whether err means a template or artifact is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) || errors.Is(err, os.ErrNotExist)
}

type nopObserver struct{}

func (nopObserver) IncRender(string, string) {}
func (nopObserver) IncConversion(string)     {}
