package documents

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Go template delimiters used for translated sources. Control characters are
// illegal in XML, so they can never collide with document text.
const (
	leftDelim  = "\x01{"
	rightDelim = "}\x01"
)

type blockKind int

const (
	blockIf blockKind = iota
	blockFor
)

type block struct {
	kind     blockKind
	loopVar  string
	indexVar string
	listExpr string
}

type translator struct {
	blocks []block
	loops  int
}

// translateJinja rewrites the docxtpl subset of Jinja found in src into
// text/template source:
//
//	{{ expr }}                      value, XML escaped
//	{% for x in expr %}...{% endfor %}
//	{% if expr %} {% elif expr %} {% else %} {% endif %}
//	{# comment #}
//
// Expressions are dotted names, string and number literals, loop.index,
// loop.index0, loop.first, loop.last, loop.length, ==, !=, not, and, or and
// parentheses.
func translateJinja(src string) (string, error) {
	t := &translator{}
	var out strings.Builder
	out.Grow(len(src))

	rest := src
	for {
		start, open := nextOpenTag(rest)
		if start < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		closeTok := map[string]string{"{{": "}}", "{%": "%}", "{#": "#}"}[open]
		end := strings.Index(rest[start+2:], closeTok)
		if end < 0 {
			return "", fmt.Errorf("unclosed %s tag near %q", open, snippet(rest[start:]))
		}
		body := rest[start+2 : start+2+end]
		rest = rest[start+2+end+2:]

		body = strings.TrimPrefix(body, "-")
		body = strings.TrimSuffix(body, "-")
		body = strings.TrimSpace(body)

		switch open {
		case "{#":
			continue
		case "{{":
			expr, err := t.expr(body)
			if err != nil {
				return "", err
			}
			out.WriteString(leftDelim + "xml " + expr + rightDelim)
		case "{%":
			action, err := t.statement(body)
			if err != nil {
				return "", err
			}
			out.WriteString(leftDelim + action + rightDelim)
		}
	}
	if len(t.blocks) > 0 {
		return "", fmt.Errorf("unclosed block: missing %s", endTagFor(t.blocks[len(t.blocks)-1].kind))
	}
	return out.String(), nil
}

func nextOpenTag(s string) (int, string) {
	best, tok := -1, ""
	for _, open := range []string{"{{", "{%", "{#"} {
		if i := strings.Index(s, open); i >= 0 && (best < 0 || i < best) {
			best, tok = i, open
		}
	}
	return best, tok
}

func endTagFor(k blockKind) string {
	if k == blockFor {
		return "endfor"
	}
	return "endif"
}

func snippet(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

func (t *translator) statement(body string) (string, error) {
	keyword, args, _ := strings.Cut(body, " ")
	args = strings.TrimSpace(args)
	switch keyword {
	case "for":
		name, listSrc, ok := strings.Cut(args, " in ")
		name = strings.TrimSpace(name)
		if !ok || !isIdent(name) {
			return "", fmt.Errorf("unsupported for statement %q", body)
		}
		list, err := t.expr(strings.TrimSpace(listSrc))
		if err != nil {
			return "", err
		}
		t.loops++
		b := block{kind: blockFor, loopVar: name, indexVar: fmt.Sprintf("$_idx%d", t.loops), listExpr: list}
		t.blocks = append(t.blocks, b)
		return fmt.Sprintf("range %s, $%s := %s", b.indexVar, name, list), nil
	case "endfor":
		if err := t.pop(blockFor); err != nil {
			return "", err
		}
		return "end", nil
	case "if":
		cond, err := t.expr(args)
		if err != nil {
			return "", err
		}
		t.blocks = append(t.blocks, block{kind: blockIf})
		return "if " + cond, nil
	case "elif":
		if len(t.blocks) == 0 || t.blocks[len(t.blocks)-1].kind != blockIf {
			return "", fmt.Errorf("elif outside if")
		}
		cond, err := t.expr(args)
		if err != nil {
			return "", err
		}
		return "else if " + cond, nil
	case "else":
		if len(t.blocks) == 0 {
			return "", fmt.Errorf("else outside block")
		}
		return "else", nil
	case "endif":
		if err := t.pop(blockIf); err != nil {
			return "", err
		}
		return "end", nil
	default:
		return "", fmt.Errorf("unsupported statement %q", keyword)
	}
}

func (t *translator) pop(k blockKind) error {
	if len(t.blocks) == 0 || t.blocks[len(t.blocks)-1].kind != k {
		return fmt.Errorf("unexpected %s", endTagFor(k))
	}
	t.blocks = t.blocks[:len(t.blocks)-1]
	return nil
}

func (t *translator) innermostLoop() *block {
	for i := len(t.blocks) - 1; i >= 0; i-- {
		if t.blocks[i].kind == blockFor {
			return &t.blocks[i]
		}
	}
	return nil
}

func (t *translator) isLoopVar(name string) bool {
	for _, b := range t.blocks {
		if b.kind == blockFor && b.loopVar == name {
			return true
		}
	}
	return false
}

// name translates a dotted identifier.
func (t *translator) name(ident string) (string, error) {
	parts := strings.Split(ident, ".")
	for _, p := range parts {
		if !isIdent(p) {
			return "", fmt.Errorf("invalid name %q", ident)
		}
	}
	head := parts[0]
	switch head {
	case "true", "True":
		return "true", nil
	case "false", "False":
		return "false", nil
	case "none", "None":
		return "nil", nil
	}
	if head == "loop" && !t.isLoopVar("loop") {
		lp := t.innermostLoop()
		if lp == nil {
			return "", fmt.Errorf("loop.%s used outside a for block", strings.Join(parts[1:], "."))
		}
		if len(parts) != 2 {
			return "", fmt.Errorf("unsupported loop attribute %q", ident)
		}
		switch parts[1] {
		case "index":
			return "(add1 " + lp.indexVar + ")", nil
		case "index0":
			return lp.indexVar, nil
		case "first":
			return "(eq " + lp.indexVar + " 0)", nil
		case "last":
			return "(eq (add1 " + lp.indexVar + ") (len " + lp.listExpr + "))", nil
		case "length":
			return "(len " + lp.listExpr + ")", nil
		default:
			return "", fmt.Errorf("unsupported loop attribute %q", ident)
		}
	}
	if t.isLoopVar(head) {
		return "$" + ident, nil
	}
	return "$." + ident, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

type tokenKind int

const (
	tokName tokenKind = iota
	tokString
	tokNumber
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(' || c == ')':
			toks = append(toks, token{tokOp, string(c)})
			i++
		case (c == '=' || c == '!') && i+1 < len(src) && src[i+1] == '=':
			toks = append(toks, token{tokOp, src[i : i+2]})
			i += 2
		case c == '"' || c == '\'':
			j := strings.IndexByte(src[i+1:], c)
			if j < 0 {
				return nil, fmt.Errorf("unterminated string in %q", src)
			}
			toks = append(toks, token{tokString, src[i+1 : i+1+j]})
			i += j + 2
		case c >= '0' && c <= '9' || c == '-' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9':
			j := i + 1
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j]})
			i = j
		default:
			j := i
			for j < len(src) && !strings.ContainsRune(" \t\r\n()=!\"'", rune(src[j])) {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("unexpected %q in %q", c, src)
			}
			toks = append(toks, token{tokName, src[i:j]})
			i = j
		}
	}
	return toks, nil
}

type exprParser struct {
	t    *translator
	toks []token
	pos  int
}

func (t *translator) expr(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("empty expression")
	}
	if strings.Contains(src, "|") {
		return "", fmt.Errorf("filters are not supported: %q", src)
	}
	toks, err := tokenize(src)
	if err != nil {
		return "", err
	}
	p := &exprParser{t: t, toks: toks}
	out, err := p.or()
	if err != nil {
		return "", err
	}
	if p.pos != len(p.toks) {
		return "", fmt.Errorf("unexpected %q in expression %q", p.toks[p.pos].text, src)
	}
	return out, nil
}

func (p *exprParser) peekWord(w string) bool {
	return p.pos < len(p.toks) && p.toks[p.pos].kind == tokName && p.toks[p.pos].text == w
}

func (p *exprParser) or() (string, error) {
	left, err := p.and()
	if err != nil {
		return "", err
	}
	for p.peekWord("or") {
		p.pos++
		right, err := p.and()
		if err != nil {
			return "", err
		}
		left = "(or " + left + " " + right + ")"
	}
	return left, nil
}

func (p *exprParser) and() (string, error) {
	left, err := p.not()
	if err != nil {
		return "", err
	}
	for p.peekWord("and") {
		p.pos++
		right, err := p.not()
		if err != nil {
			return "", err
		}
		left = "(and " + left + " " + right + ")"
	}
	return left, nil
}

func (p *exprParser) not() (string, error) {
	if p.peekWord("not") {
		p.pos++
		inner, err := p.not()
		if err != nil {
			return "", err
		}
		return "(not " + inner + ")", nil
	}
	return p.compare()
}

func (p *exprParser) compare() (string, error) {
	left, err := p.operand()
	if err != nil {
		return "", err
	}
	if p.pos < len(p.toks) && p.toks[p.pos].kind == tokOp && (p.toks[p.pos].text == "==" || p.toks[p.pos].text == "!=") {
		op := p.toks[p.pos].text
		p.pos++
		right, err := p.operand()
		if err != nil {
			return "", err
		}
		cmp := "(same " + left + " " + right + ")"
		if op == "!=" {
			cmp = "(not " + cmp + ")"
		}
		return cmp, nil
	}
	return left, nil
}

func (p *exprParser) operand() (string, error) {
	if p.pos >= len(p.toks) {
		return "", fmt.Errorf("expression ends early")
	}
	tok := p.toks[p.pos]
	p.pos++
	switch tok.kind {
	case tokString:
		return strconv.Quote(tok.text), nil
	case tokNumber:
		return tok.text, nil
	case tokName:
		return p.t.name(tok.text)
	case tokOp:
		if tok.text != "(" {
			return "", fmt.Errorf("unexpected %q", tok.text)
		}
		inner, err := p.or()
		if err != nil {
			return "", err
		}
		if p.pos >= len(p.toks) || p.toks[p.pos].text != ")" {
			return "", fmt.Errorf("missing )")
		}
		p.pos++
		return inner, nil
	}
	return "", fmt.Errorf("unexpected token %q", tok.text)
}
