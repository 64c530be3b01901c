package documents

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "nda_template.docx", para("{{ jurisdiction_city }}"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.docx"), []byte("nope"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.docx"), 0o755))
	l := NewLoader(dir)

	tpl, err := l.Load("nda_template.docx")
	require.NoError(t, err)
	require.Equal(t, "nda_template.docx", tpl.Name)

	cases := []struct {
		name   string
		target error
	}{
		{name: "missing.docx", target: ErrTemplateNotFound},
		{name: "folder.docx", target: ErrTemplateNotFound},
		{name: "corrupt.docx", target: ErrInvalidTemplate},
		{name: "../nda_template.docx", target: ErrInvalidTemplateName},
		{name: "sub/nda_template.docx", target: ErrInvalidTemplateName},
		{name: "", target: ErrInvalidTemplateName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Load(tc.name)
			require.True(t, errors.Is(err, tc.target), "got %v", err)
		})
	}
}

func TestLoaderReadsFreshCopyEachCall(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)
	writeTemplate(t, dir, "faq_template.docx", para("v1 {{ topic }}"))
	first, err := l.Load("faq_template.docx")
	require.NoError(t, err)

	writeTemplate(t, dir, "faq_template.docx", para("v2 {{ topic }}"))
	second, err := l.Load("faq_template.docx")
	require.NoError(t, err)
	require.NotSame(t, first, second)

	out, err := second.Execute(RenderContext{"topic": "bail"})
	require.NoError(t, err)
	require.Contains(t, documentXML(t, out), "v2 bail")
}
