package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// parser builds a tree of map[string]any, []any, string, int64, float64 and bool
type parser struct {
	lx    *lexer
	tok   token
	root  map[string]any
	table map[string]any
	// defined records explicitly declared table paths to reject duplicates
	defined map[string]bool
}

// Parse decodes a document into a generic tree
func Parse(data []byte) (map[string]any, error) {
	p := &parser{lx: newLexer(data), root: map[string]any{}, defined: map[string]bool{}}
	p.table = p.root
	p.advance()

	for p.tok.kind != tokEOF {
		var err error
		switch p.tok.kind {
		case tokNewline:
			p.advance()
			continue
		case tokLBracket:
			err = p.header()
		case tokKey, tokString, tokInt, tokBool:
			err = p.keyValue(p.table)
		case tokError:
			err = fmt.Errorf("toml: %s", p.tok.text)
		default:
			err = p.unexpected("key or table")
		}
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokNewline && p.tok.kind != tokEOF {
			return nil, p.unexpected("end of line")
		}
	}
	return p.root, nil
}

func (p *parser) advance() {
	p.tok = p.lx.next()
}

func (p *parser) unexpected(want string) error {
	if p.tok.kind == tokError {
		return fmt.Errorf("toml: %s", p.tok.text)
	}
	return fmt.Errorf("toml: line %d: expected %s, got %s", p.tok.line, want, p.tok)
}

func (p *parser) expect(k tokenKind, want string) error {
	if p.tok.kind != k {
		return p.unexpected(want)
	}
	p.advance()
	return nil
}

// header handles [a.b] and [[a.b]]
func (p *parser) header() error {
	p.advance()
	array := p.tok.kind == tokLBracket
	if array {
		p.advance()
	}

	path, err := p.key()
	if err != nil {
		return err
	}
	if err := p.expect(tokRBracket, "]"); err != nil {
		return err
	}
	if array {
		if err := p.expect(tokRBracket, "]]"); err != nil {
			return err
		}
	}

	parent, err := p.walk(p.root, path[:len(path)-1])
	if err != nil {
		return err
	}
	last := path[len(path)-1]

	if array {
		t := map[string]any{}
		switch cur := parent[last].(type) {
		case nil:
			parent[last] = []map[string]any{t}
		case []map[string]any:
			parent[last] = append(cur, t)
		default:
			return fmt.Errorf("toml: %s is not an array of tables", strings.Join(path, "."))
		}
		p.table = t
		return nil
	}

	name := strings.Join(path, ".")
	if p.defined[name] {
		return fmt.Errorf("toml: table %s defined twice", name)
	}
	p.defined[name] = true
	t, err := p.walk(parent, []string{last})
	if err != nil {
		return err
	}
	p.table = t
	return nil
}

// walk descends through path from t, creating tables; an array of tables
// resolves to its last element
func (p *parser) walk(t map[string]any, path []string) (map[string]any, error) {
	for _, k := range path {
		switch cur := t[k].(type) {
		case nil:
			next := map[string]any{}
			t[k] = next
			t = next
		case map[string]any:
			t = cur
		case []map[string]any:
			t = cur[len(cur)-1]
		default:
			return nil, fmt.Errorf("toml: key %s is not a table", k)
		}
	}
	return t, nil
}

// key reads a possibly dotted key
func (p *parser) key() ([]string, error) {
	var parts []string
	for {
		switch p.tok.kind {
		case tokKey, tokString, tokInt, tokBool:
			parts = append(parts, p.tok.text)
		default:
			return nil, p.unexpected("key")
		}
		p.advance()
		if p.tok.kind != tokDot {
			return parts, nil
		}
		p.advance()
	}
}

func (p *parser) keyValue(t map[string]any) error {
	path, err := p.key()
	if err != nil {
		return err
	}
	if err := p.expect(tokEqual, "="); err != nil {
		return err
	}
	v, err := p.value()
	if err != nil {
		return err
	}

	t, err = p.walk(t, path[:len(path)-1])
	if err != nil {
		return err
	}
	last := path[len(path)-1]
	if _, dup := t[last]; dup {
		return fmt.Errorf("toml: duplicate key %s", strings.Join(path, "."))
	}
	t[last] = v
	return nil
}

func (p *parser) value() (any, error) {
	tok := p.tok
	switch tok.kind {
	case tokString:
		p.advance()
		return tok.text, nil
	case tokBool:
		p.advance()
		return tok.text == "true", nil
	case tokInt:
		p.advance()
		return strconv.ParseInt(tok.text, 0, 64)
	case tokFloat:
		p.advance()
		return strconv.ParseFloat(strings.ReplaceAll(tok.text, "_", ""), 64)
	case tokLBracket:
		return p.array()
	case tokLBrace:
		return p.inlineTable()
	}
	return nil, p.unexpected("value")
}

func (p *parser) skipNewlines() {
	for p.tok.kind == tokNewline {
		p.advance()
	}
}

func (p *parser) array() ([]any, error) {
	p.advance()
	out := []any{}
	for {
		p.skipNewlines()
		if p.tok.kind == tokRBracket {
			p.advance()
			return out, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		p.skipNewlines()
		switch p.tok.kind {
		case tokComma:
			p.advance()
		case tokRBracket:
		default:
			return nil, p.unexpected(", or ]")
		}
	}
}

func (p *parser) inlineTable() (map[string]any, error) {
	p.advance()
	t := map[string]any{}
	if p.tok.kind == tokRBrace {
		p.advance()
		return t, nil
	}
	for {
		if err := p.keyValue(t); err != nil {
			return nil, err
		}
		switch p.tok.kind {
		case tokComma:
			p.advance()
		case tokRBrace:
			p.advance()
			return t, nil
		default:
			return nil, p.unexpected(", or }")
		}
	}
}
