package localmedia

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// Tools wraps the system binaries used to produce document renditions.
//
// Required binary: libreoffice (soffice) for DOCX -> PDF.
type Tools interface {
	AssertReady(ctx context.Context) error
	ConvertToPDF(ctx context.Context, inputPath, outDir string) (pdfPath string, err error)
	CountPDFPages(ctx context.Context, pdfPath string) (int, error)
}

type Config struct {
	SofficePath string
	WorkRoot    string
	Timeout     time.Duration
}

var ErrEmptyPDF = errors.New("converted pdf has no pages")

type tools struct {
	log *logger.Logger

	sofficePath string
	workRoot    string

	defaultTimeout time.Duration
}

func New(log *logger.Logger, cfg Config) Tools {
	if strings.TrimSpace(cfg.SofficePath) == "" {
		cfg.SofficePath = "soffice"
	}
	if strings.TrimSpace(cfg.WorkRoot) == "" {
		cfg.WorkRoot = filepath.Join(os.TempDir(), "kanoon-convert")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &tools{
		log:            log.With("service", "LocalMediaTools"),
		sofficePath:    cfg.SofficePath,
		workRoot:       cfg.WorkRoot,
		defaultTimeout: cfg.Timeout,
	}
}

func (m *tools) AssertReady(ctx context.Context) error {
	if _, err := exec.LookPath(m.sofficePath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", m.sofficePath, err)
	}
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return fmt.Errorf("create workRoot: %w", err)
	}
	return nil
}

// ConvertToPDF runs a headless LibreOffice conversion of inputPath into outDir
// and checks that the produced file is a readable PDF with at least one page.
func (m *tools) ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if inputPath == "" {
		return "", fmt.Errorf("inputPath required")
	}
	if outDir == "" {
		return "", fmt.Errorf("outDir required")
	}
	if err := m.AssertReady(ctx); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir outDir: %w", err)
	}

	// Concurrent soffice processes sharing one profile block each other.
	profileDir := filepath.Join(m.workRoot, "profile-"+uuid.NewString())
	defer func() { _ = os.RemoveAll(profileDir) }()

	ctx, cancel := context.WithTimeout(ctx, m.defaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.sofficePath,
		"-env:UserInstallation=file://"+filepath.ToSlash(profileDir),
		"--headless",
		"--nologo",
		"--nolockcheck",
		"--nodefault",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)
	start := time.Now()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("soffice convert failed: %w; out=%s", err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, statErr := os.Stat(pdfPath); statErr != nil {
		return "", fmt.Errorf("pdf output not found at %s; soffice out=%s", pdfPath, strings.TrimSpace(string(out)))
	}

	pages, err := m.CountPDFPages(ctx, pdfPath)
	if err != nil {
		_ = os.Remove(pdfPath)
		return "", err
	}
	m.log.Debug("Converted document to PDF", "input", filepath.Base(inputPath), "pages", pages, "duration_ms", time.Since(start).Milliseconds())
	return pdfPath, nil
}

// CountPDFPages validates pdfPath in relaxed mode and returns its page count.
func (m *tools) CountPDFPages(ctx context.Context, pdfPath string) (int, error) {
	if pdfPath == "" {
		return 0, fmt.Errorf("pdfPath required")
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(pdfPath, conf); err != nil {
		return 0, fmt.Errorf("validate pdf %s: %w", filepath.Base(pdfPath), err)
	}
	n, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("count pdf pages: %w", err)
	}
	if n <= 0 {
		return 0, ErrEmptyPDF
	}
	return n, nil
}
