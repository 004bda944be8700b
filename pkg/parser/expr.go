package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/eslym/tinybars/pkg/ast"
)

// exprScanner parses the interior of a mustache. It tracks absolute source
// coordinates so nested expressions carry their real template position.
type exprScanner struct {
	src  string
	pos  int
	line int
	col  int
}

func newExprScanner(src string, at ast.Position) *exprScanner {
	return &exprScanner{src: src, line: at.Line, col: at.Column}
}

// parseMustacheExpr parses the interior of a {{ ... }} token into the leading
// expression and any helper-call arguments that follow it.
func parseMustacheExpr(content string, at ast.Position) (ast.Expression, []ast.Expression, error) {
	s := newExprScanner(content, at)

	first, err := s.parseTerm()
	if err != nil {
		return nil, nil, err
	}

	var params []ast.Expression
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		term, err := s.parseTerm()
		if err != nil {
			return nil, nil, err
		}
		params = append(params, term)
	}

	if len(params) > 0 {
		if _, ok := first.(*ast.PathExpression); !ok {
			return nil, nil, errorf(first.Pos(), "helper name must be a path")
		}
	}

	return first, params, nil
}

// parseBlockExpr parses the interior of a {{#helper expr}} token.
func parseBlockExpr(content string, at ast.Position) (string, ast.Expression, error) {
	s := newExprScanner(content, at)

	s.skipSpace()
	pos := s.position()
	helper := s.scanIdent()
	if helper == "" {
		return "", nil, errorf(pos, "expected block helper name")
	}

	s.skipSpace()
	if s.eof() {
		return "", nil, errorf(s.position(), "block helper %q requires an argument", helper)
	}

	expr, err := s.parseTerm()
	if err != nil {
		return "", nil, err
	}

	s.skipSpace()
	if !s.eof() {
		return "", nil, errorf(s.position(), "unexpected %q after block argument", rest(s))
	}

	return helper, expr, nil
}

// parseTerm parses a single expression: a literal, a path, or a
// parenthesized sub-expression.
func (s *exprScanner) parseTerm() (ast.Expression, error) {
	s.skipSpace()
	if s.eof() {
		return nil, errorf(s.position(), "expected expression")
	}

	switch c := s.peek(); {
	case c == '(':
		return s.parseSubExpression()
	case c == '"' || c == '\'':
		return s.parseString()
	case c >= '0' && c <= '9':
		return s.parseNumber()
	case c == '-' && s.pos+1 < len(s.src) && s.src[s.pos+1] >= '0' && s.src[s.pos+1] <= '9':
		return s.parseNumber()
	default:
		return s.parsePath()
	}
}

// parseSubExpression parses (helper arg ...).
func (s *exprScanner) parseSubExpression() (ast.Expression, error) {
	pos := s.position()
	s.advance() // consume '('

	callee, err := s.parseTerm()
	if err != nil {
		return nil, err
	}
	path, ok := callee.(*ast.PathExpression)
	if !ok {
		return nil, errorf(callee.Pos(), "helper name must be a path")
	}

	var params []ast.Expression
	for {
		s.skipSpace()
		if s.eof() {
			return nil, errorf(pos, "unclosed '(' in expression")
		}
		if s.peek() == ')' {
			s.advance()
			break
		}
		term, err := s.parseTerm()
		if err != nil {
			return nil, err
		}
		params = append(params, term)
	}

	return &ast.SubExpression{
		Base:   ast.Base{Position: pos},
		Path:   path,
		Params: params,
	}, nil
}

// parseString parses a single- or double-quoted string literal.
func (s *exprScanner) parseString() (ast.Expression, error) {
	pos := s.position()
	quote := s.peek()
	s.advance()

	var b strings.Builder
	for !s.eof() {
		c := s.peek()
		if c == quote {
			s.advance()
			return &ast.StringLiteral{Base: ast.Base{Position: pos}, Value: b.String()}, nil
		}
		if c == '\\' {
			s.advance()
			if s.eof() {
				break
			}
			switch e := s.peek(); e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
			s.advance()
			continue
		}
		b.WriteByte(c)
		s.advance()
	}

	return nil, errorf(pos, "unterminated string literal")
}

// parseNumber parses a numeric literal, preserving its source spelling.
func (s *exprScanner) parseNumber() (ast.Expression, error) {
	pos := s.position()
	start := s.pos

	if s.peek() == '-' {
		s.advance()
	}
	for !s.eof() {
		c := s.peek()
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		s.advance()
	}

	text := s.src[start:s.pos]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errorf(pos, "invalid number literal %q", text)
	}

	return &ast.NumberLiteral{Base: ast.Base{Position: pos}, Value: value, Text: text}, nil
}

// parsePath parses a path reference, converting the bare keywords true,
// false, null and undefined into literals.
func (s *exprScanner) parsePath() (ast.Expression, error) {
	pos := s.position()

	data := false
	if s.peek() == '@' {
		s.advance()
		data = true
	}

	// {{.}} and {{this}} both resolve to the current scope.
	if !data && s.peek() == '.' && !strings.HasPrefix(s.src[s.pos:], "..") {
		s.advance()
		return &ast.PathExpression{Base: ast.Base{Position: pos}}, nil
	}

	if strings.HasPrefix(s.src[s.pos:], "..") {
		return nil, errorf(pos, "parent path segments are not supported")
	}

	var parts []ast.PathPart
	for {
		if s.peek() == '[' {
			part, err := s.parseBracketSegment()
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		} else {
			segPos := s.position()
			name := s.scanIdent()
			if name == "" {
				return nil, errorf(segPos, "expected identifier in path")
			}
			parts = append(parts, ast.PathPart{Name: name})
		}

		if !s.eof() && (s.peek() == '.' || s.peek() == '/') {
			s.advance()
			continue
		}
		break
	}

	if !data && len(parts) > 0 && parts[0].Sub == nil && parts[0].Name == "this" {
		parts = parts[1:]
	}

	if !data && len(parts) == 1 && parts[0].Sub == nil {
		switch parts[0].Name {
		case "true", "false":
			return &ast.BooleanLiteral{Base: ast.Base{Position: pos}, Value: parts[0].Name == "true"}, nil
		case "null":
			return &ast.NullLiteral{Base: ast.Base{Position: pos}}, nil
		case "undefined":
			return &ast.UndefinedLiteral{Base: ast.Base{Position: pos}}, nil
		}
	}

	return &ast.PathExpression{Base: ast.Base{Position: pos}, Data: data, Parts: parts}, nil
}

// parseBracketSegment parses a [...] path segment. Quoted strings and bare
// words are literal property names; @-references are computed subscripts.
func (s *exprScanner) parseBracketSegment() (ast.PathPart, error) {
	open := s.position()
	s.advance() // consume '['
	s.skipSpace()

	var part ast.PathPart
	switch c := s.peek(); {
	case c == '@':
		sub, err := s.parsePath()
		if err != nil {
			return ast.PathPart{}, err
		}
		part = ast.PathPart{Sub: sub}
	case c == '"' || c == '\'':
		lit, err := s.parseString()
		if err != nil {
			return ast.PathPart{}, err
		}
		part = ast.PathPart{Name: lit.(*ast.StringLiteral).Value}
	default:
		start := s.pos
		for !s.eof() && s.peek() != ']' {
			s.advance()
		}
		part = ast.PathPart{Name: strings.TrimSpace(s.src[start:s.pos])}
	}

	s.skipSpace()
	if s.eof() || s.peek() != ']' {
		return ast.PathPart{}, errorf(open, "unclosed '[' in path")
	}
	s.advance()

	return part, nil
}

// Helper methods

func (s *exprScanner) eof() bool { return s.pos >= len(s.src) }

func (s *exprScanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *exprScanner) advance() {
	if s.eof() {
		return
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *exprScanner) skipSpace() {
	for !s.eof() {
		c := s.peek()
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			break
		}
		s.advance()
	}
}

// scanIdent scans a path segment name: anything up to a separator.
func (s *exprScanner) scanIdent() string {
	start := s.pos
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n', '.', '/', '[', ']', '(', ')', '"', '\'', '@':
			return s.src[start:s.pos]
		}
		s.advance()
	}
	return s.src[start:s.pos]
}

func (s *exprScanner) position() ast.Position {
	return ast.Position{Line: s.line, Column: s.col}
}

// rest returns what remains of the input, for error messages.
func rest(s *exprScanner) string {
	r := strings.TrimSpace(s.src[s.pos:])
	if len(r) > 20 {
		r = r[:20] + "..."
	}
	return r
}
