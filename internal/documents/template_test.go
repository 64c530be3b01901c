package documents

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplateExecuteEscapesValues(t *testing.T) {
	tpl, err := ParseTemplate("t.docx", buildDocx(t, para("Hello {{ name }}, amount {{ amount }}")))
	require.NoError(t, err)

	out, err := tpl.Execute(RenderContext{"name": `Raj & Sons <"Pvt">`, "amount": json.Number("25000")})
	require.NoError(t, err)
	xml := documentXML(t, out)
	require.Contains(t, xml, "Hello Raj &amp; Sons &lt;&#34;Pvt&#34;&gt;, amount 25000")
}

func TestTemplateMergesSplitPlaceholders(t *testing.T) {
	body := `<w:p><w:r><w:t>{</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>{ party_</w:t></w:r>` +
		`<w:proofErr w:type="spellStart"/><w:r><w:t>name }</w:t></w:r><w:r><w:t>}</w:t></w:r></w:p>`
	tpl, err := ParseTemplate("split.docx", buildDocx(t, body))
	require.NoError(t, err)

	out, err := tpl.Execute(RenderContext{"party_name": "Asha"})
	require.NoError(t, err)
	require.Contains(t, documentXML(t, out), "<w:t>Asha</w:t>")
}

func TestTemplateParagraphLoop(t *testing.T) {
	body := para("{%p for party in receiving_parties %}") +
		para("{{ loop.index }}. {{ party.name }}, {{ party.address }}") +
		para("{%p endfor %}") +
		para("{% if duration_years == 2 %}two years{% else %}other{% endif %}")
	tpl, err := ParseTemplate("loop.docx", buildDocx(t, body))
	require.NoError(t, err)

	out, err := tpl.Execute(RenderContext{
		"receiving_parties": []any{
			map[string]any{"name": "Beta LLP", "address": "Pune"},
			map[string]any{"name": "Gamma Ltd", "address": "Delhi"},
		},
		"duration_years": json.Number("2"),
	})
	require.NoError(t, err)
	xml := documentXML(t, out)
	require.Contains(t, xml, "1. Beta LLP, Pune")
	require.Contains(t, xml, "2. Gamma Ltd, Delhi")
	require.Contains(t, xml, "two years")
	require.NotContains(t, xml, "{%")
	require.NotContains(t, xml, "endfor")
}

func TestTemplateMultilineValueBecomesBreaks(t *testing.T) {
	tpl, err := ParseTemplate("br.docx", buildDocx(t, para("{{ address }}")))
	require.NoError(t, err)
	out, err := tpl.Execute(RenderContext{"address": "Line 1\nLine 2"})
	require.NoError(t, err)
	require.Contains(t, documentXML(t, out), `Line 1</w:t><w:br/><w:t xml:space="preserve">Line 2`)
}

func TestTemplateMissingKeyIsMismatch(t *testing.T) {
	tpl, err := ParseTemplate("t.docx", buildDocx(t, para("{{ name }} {{ jurisdiction_city }}")))
	require.NoError(t, err)

	out, err := tpl.Execute(RenderContext{"name": "Asha"})
	require.Nil(t, out)
	require.True(t, errors.Is(err, ErrTemplateContextMismatch), "got %v", err)
}

func TestParseTemplateRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{name: "not a zip", data: []byte("plain text")},
		{name: "unclosed tag", data: buildDocx(t, para("{{ name"))},
		{name: "unclosed block", data: buildDocx(t, para("{% if a %}x"))},
		{name: "unknown statement", data: buildDocx(t, para("{% macro x() %}"))},
		{name: "filters", data: buildDocx(t, para("{{ name | upper }}"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTemplate(tc.name, tc.data)
			require.True(t, errors.Is(err, ErrInvalidTemplate), "got %v", err)
		})
	}
}

func TestTranslateJinja(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "{{ a.b }}", want: leftDelim + "xml $.a.b" + rightDelim},
		{in: "{# note #}x", want: "x"},
		{in: "{%- if not a and b != 'x' -%}", want: leftDelim + `if (and (not $.a) (not (same $.b "x")))` + rightDelim},
		{
			in: "{% for i in items %}{{ loop.index }}{{ i }}{% endfor %}",
			want: leftDelim + "range $_idx1, $i := $.items" + rightDelim +
				leftDelim + "xml (add1 $_idx1)" + rightDelim +
				leftDelim + "xml $i" + rightDelim +
				leftDelim + "end" + rightDelim,
		},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := translateJinja(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
