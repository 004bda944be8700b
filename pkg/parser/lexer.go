package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/eslym/tinybars/pkg/ast"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for template token types.
const (
	TokenContent    TokenType = iota // Literal text
	TokenMustache                    // {{ expr }}
	TokenUnescaped                   // {{{ expr }}} or {{& expr }}
	TokenBlockOpen                   // {{#helper expr}}
	TokenBlockClose                  // {{/helper}}
	TokenElse                        // {{else}}
	TokenComment                     // {{! note }} or {{!-- note --}}
	TokenEOF                         // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenContent:
		return "CONTENT"
	case TokenMustache:
		return "MUSTACHE"
	case TokenUnescaped:
		return "UNESCAPED"
	case TokenBlockOpen:
		return "BLOCK_OPEN"
	case TokenBlockClose:
		return "BLOCK_CLOSE"
	case TokenElse:
		return "ELSE"
	case TokenComment:
		return "COMMENT"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token. Pos is the position of the opening
// delimiter; ValuePos is the position of the first character of Value,
// which the parser uses to locate sub-expressions inside the mustache.
type Token struct {
	Type     TokenType
	Value    string
	Pos      ast.Position
	ValuePos ast.Position
}

// Lexer tokenizes a template string.
type Lexer struct {
	input    string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		pos:   0,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}

// nextToken returns the next token from the input.
func (l *Lexer) nextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position()}, nil
	}

	if l.matchString("{{") {
		return l.scanMustache()
	}

	return l.scanContent()
}

// scanContent scans literal text until a mustache or EOF.
func (l *Lexer) scanContent() (Token, error) {
	l.markStart()
	start := l.pos

	for l.pos < len(l.input) {
		if l.matchString("{{") {
			break
		}
		l.advance()
	}

	if l.pos == start {
		// No text consumed, something is wrong
		return Token{}, errorf(l.position(), "unexpected state in lexer")
	}

	return Token{
		Type:  TokenContent,
		Value: l.input[start:l.pos],
		Pos:   l.startPosition(),
	}, nil
}

// scanMustache scans a {{ ... }} construct and classifies it.
func (l *Lexer) scanMustache() (Token, error) {
	l.markStart()

	switch {
	case l.matchString("{{!--"):
		return l.scanDelimited(5, "--}}", TokenComment)
	case l.matchString("{{!"):
		return l.scanDelimited(3, "}}", TokenComment)
	case l.matchString("{{{"):
		return l.scanDelimited(3, "}}}", TokenUnescaped)
	case l.matchString("{{&"):
		return l.scanDelimited(3, "}}", TokenUnescaped)
	case l.matchString("{{#"):
		return l.scanDelimited(3, "}}", TokenBlockOpen)
	case l.matchString("{{/"):
		return l.scanDelimited(3, "}}", TokenBlockClose)
	default:
		tok, err := l.scanDelimited(2, "}}", TokenMustache)
		if err == nil && tok.Value == "else" {
			tok.Type = TokenElse
		}
		return tok, err
	}
}

// scanDelimited scans from after an opening delimiter of openLen bytes up to
// the closing delimiter, trimming surrounding whitespace from the value.
func (l *Lexer) scanDelimited(openLen int, closer string, typ TokenType) (Token, error) {
	// Skip the opening delimiter (never contains a newline)
	l.pos += openLen
	l.col += openLen

	l.skipWhitespace()
	valuePos := l.position()
	start := l.pos

	for l.pos < len(l.input) {
		if l.matchString(closer) {
			value := strings.TrimRight(l.input[start:l.pos], " \t\r\n")

			l.pos += len(closer)
			l.col += len(closer)

			return Token{
				Type:     typ,
				Value:    value,
				Pos:      l.startPosition(),
				ValuePos: valuePos,
			}, nil
		}
		l.advance()
	}

	return Token{}, errorf(l.startPosition(), "unclosed mustache: missing %q", closer)
}

// Helper methods

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// matchString checks if the input at current position matches s.
func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// skipWhitespace skips whitespace characters, including newlines.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			break
		}
		l.advance()
	}
}

// markStart records the start position for the current token.
func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

// position returns the current position.
func (l *Lexer) position() ast.Position {
	return ast.Position{Line: l.line, Column: l.col}
}

// startPosition returns the position where the current token started.
func (l *Lexer) startPosition() ast.Position {
	return ast.Position{Line: l.lastLine, Column: l.lastCol}
}
