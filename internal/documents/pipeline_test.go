package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type stubConverter struct {
	err   error
	calls int
}

func (s *stubConverter) ConvertToPDF(_ context.Context, inputPath, outDir string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(outDir, base+".pdf")
	return out, os.WriteFile(out, []byte("%PDF-1.4\n"), 0o644)
}

type recordingObserver struct {
	mu          sync.Mutex
	renders     []string
	conversions []string
}

func (o *recordingObserver) IncRender(kind, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.renders = append(o.renders, kind+":"+status)
}

func (o *recordingObserver) IncConversion(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conversions = append(o.conversions, status)
}

const ndaBody = `<w:p><w:r><w:t>NON-DISCLOSURE AGREEMENT dated {{ agreement_date }}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Between {{ disclosing_party.name }} of {{ disclosing_party.address }}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>{%p for p in receiving_parties %}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>{{ loop.index }}. {{ p.name }}, {{ p.address }}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>{%p endfor %}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Term: {{ duration_years }} years. Courts of {{ jurisdiction_city }}.</w:t></w:r></w:p>`

func newTestPipeline(t *testing.T, conv Converter) (*Pipeline, *recordingObserver, string) {
	t.Helper()
	tplDir, outDir := t.TempDir(), t.TempDir()
	writeTemplate(t, tplDir, "nda_template.docx", ndaBody)
	obs := &recordingObserver{}
	p, err := NewPipeline(logger.NewNop(), PipelineConfig{
		OutputDir: outDir,
		Loader:    NewLoader(tplDir),
		Converter: conv,
		Observer:  obs,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return p, obs, outDir
}

func TestGenerateNDAEndToEnd(t *testing.T) {
	conv := &stubConverter{}
	p, obs, outDir := newTestPipeline(t, conv)

	pair, rc, err := p.Generate(context.Background(), validNDA())
	require.NoError(t, err)
	require.Equal(t, "March 05, 2025", rc["agreement_date"])

	require.True(t, strings.HasPrefix(pair.Primary.Name, "nda_Raj-Sons-Pvt-Ltd_1741170600_"), pair.Primary.Name)
	require.Equal(t, "/static/outputs/"+pair.Primary.Name, pair.Primary.URL)
	require.NotNil(t, pair.Secondary)
	require.Equal(t, strings.TrimSuffix(pair.Primary.Name, ".docx")+".pdf", pair.Secondary.Name)

	data, err := os.ReadFile(filepath.Join(outDir, pair.Primary.Name))
	require.NoError(t, err)
	xml := documentXML(t, data)
	require.Contains(t, xml, "dated March 05, 2025")
	require.Contains(t, xml, "1. Beta LLP, Pune")
	require.Contains(t, xml, "2. Gamma Ltd, Delhi")
	require.Contains(t, xml, "Term: 2 years. Courts of Mumbai.")

	links := pair.Links()
	require.Equal(t, pair.Primary.URL, links.DocxURL)
	require.NotNil(t, links.PDFURL)
	require.Equal(t, []string{"nda:ok"}, obs.renders)
	require.Equal(t, []string{"ok"}, obs.conversions)
}

func TestRenderSucceedsWhenConversionFails(t *testing.T) {
	conv := &stubConverter{err: errors.New("soffice: executable file not found in $PATH")}
	p, obs, outDir := newTestPipeline(t, conv)

	pair, _, err := p.Generate(context.Background(), validNDA())
	require.NoError(t, err)
	require.Equal(t, 1, conv.calls)
	require.NotEmpty(t, pair.Primary.URL)
	require.FileExists(t, filepath.Join(outDir, pair.Primary.Name))
	require.Nil(t, pair.Secondary)
	require.Nil(t, pair.Links().PDFURL)
	require.Equal(t, []string{"nda:degraded"}, obs.renders)
	require.Equal(t, []string{"failed"}, obs.conversions)
}

func TestRenderWithoutConverter(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil)
	pair, _, err := p.Generate(context.Background(), validNDA())
	require.NoError(t, err)
	require.Nil(t, pair.Secondary)
}

func TestRenderMismatchWritesNothing(t *testing.T) {
	conv := &stubConverter{}
	p, _, outDir := newTestPipeline(t, conv)
	tpl, err := ParseTemplate("t.docx", buildDocx(t, para("{{ agreement_date }} {{ governing_law }}")))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		pair, err := p.Render(context.Background(), tpl, RenderContext{"agreement_date": "x"}, "nda_x")
		require.Nil(t, pair)
		require.True(t, errors.Is(err, ErrTemplateContextMismatch), "got %v", err)
	}
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Zero(t, conv.calls)
}

func TestGenerateMissingTemplate(t *testing.T) {
	p, obs, _ := newTestPipeline(t, nil)
	_, _, err := p.Generate(context.Background(), AffidavitRequest{DeponentFullName: "A"})
	require.True(t, errors.Is(err, ErrTemplateNotFound), "got %v", err)
	require.Equal(t, []string{"affidavit:template_error"}, obs.renders)
}

func TestGenerateNamedUsesExactStem(t *testing.T) {
	tplDir, outDir := t.TempDir(), t.TempDir()
	writeTemplate(t, tplDir, "faq_template.docx",
		para("{{ topic }}")+para("{%p for f in faqs %}")+para("Q{{ loop.index }}: {{ f.question }}")+para("{%p endfor %}"))
	p, err := NewPipeline(logger.NewNop(), PipelineConfig{OutputDir: outDir, Loader: NewLoader(tplDir), Converter: &stubConverter{}})
	require.NoError(t, err)

	req := FAQSheetRequest{Topic: "Bail", FAQs: []FAQItem{{Question: "What is bail?", Answer: "Release."}}}
	pair, _, err := p.GenerateNamed(context.Background(), req, "0b7c5d1e-2f3a-4b5c-8d9e-0f1a2b3c4d5e")
	require.NoError(t, err)
	require.Equal(t, "0b7c5d1e-2f3a-4b5c-8d9e-0f1a2b3c4d5e.docx", pair.Primary.Name)
	require.Equal(t, "0b7c5d1e-2f3a-4b5c-8d9e-0f1a2b3c4d5e.pdf", pair.Secondary.Name)

	_, _, err = p.GenerateNamed(context.Background(), req, "../escape")
	require.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestUniqueName(t *testing.T) {
	t1 := time.Unix(1741170600, 0)
	t2 := t1.Add(time.Second)

	a := UniqueName("Raj & Sons", t1)
	b := UniqueName("Raj & Sons", t2)
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "Raj-Sons_1741170600_"))
	require.True(t, strings.HasPrefix(b, "Raj-Sons_1741170601_"))

	// Same base and same second still differ through the random suffix.
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := UniqueName("Raj & Sons", t1)
		require.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
	require.True(t, strings.HasPrefix(UniqueName("!!!", t1), "document_"))
}

type memStore struct {
	objects map[string][]byte
	err     error
}

func (m *memStore) Upload(_ context.Context, key string, r io.Reader) error {
	if m.err != nil {
		return m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *memStore) PublicURL(key string) string { return "https://storage.example/bucket/" + key }

func TestBucketPublisher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.docx")
	require.NoError(t, os.WriteFile(path, []byte("doc"), 0o644))

	store := &memStore{objects: map[string][]byte{}}
	pub := NewBucketPublisher(store, "/outputs/")
	url, err := pub.Publish(context.Background(), "a.docx", path)
	require.NoError(t, err)
	require.Equal(t, "https://storage.example/bucket/outputs/a.docx", url)
	require.Equal(t, []byte("doc"), store.objects["outputs/a.docx"])

	store.err = errors.New("403")
	_, err = pub.Publish(context.Background(), "a.docx", path)
	require.Error(t, err)
}

func TestRenderFailsWhenPrimaryPublishFails(t *testing.T) {
	tplDir, outDir := t.TempDir(), t.TempDir()
	writeTemplate(t, tplDir, "nda_template.docx", ndaBody)
	p, err := NewPipeline(logger.NewNop(), PipelineConfig{
		OutputDir: outDir,
		Loader:    NewLoader(tplDir),
		Publisher: NewBucketPublisher(&memStore{objects: map[string][]byte{}, err: errors.New("unavailable")}, "outputs"),
	})
	require.NoError(t, err)

	_, _, err = p.Generate(context.Background(), validNDA())
	require.Error(t, err)
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
