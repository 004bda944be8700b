// Package parser turns template source text into the AST consumed by the
// compiler. The grammar is a small handlebars subset: {{expr}}, {{{raw}}},
// {{! comments }}, and the block helpers #if, #unless, #each and #with.
package parser

import (
	"github.com/eslym/tinybars/pkg/ast"
)

// Parser builds a Program from the lexer's token stream.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse parses template source into a Program. Malformed input yields a
// *ParseError carrying the offending source position.
func Parse(source string) (*ast.Program, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens}
	prog, err := p.parseProgram(ast.Position{Line: 1, Column: 1})
	if err != nil {
		return nil, err
	}

	switch tok := p.peek(); tok.Type {
	case TokenEOF:
		return prog, nil
	case TokenElse:
		return nil, errorf(tok.Pos, "{{else}} outside of a block")
	case TokenBlockClose:
		return nil, errorf(tok.Pos, "{{/%s}} without matching {{#%s}}", tok.Value, tok.Value)
	default:
		return nil, errorf(tok.Pos, "unexpected %s token", tok.Type)
	}
}

// parseProgram collects statements until EOF, {{else}} or a block close.
// The terminating token is left for the caller.
func (p *Parser) parseProgram(at ast.Position) (*ast.Program, error) {
	prog := &ast.Program{Base: ast.Base{Position: at}}

	for {
		tok := p.peek()
		switch tok.Type {
		case TokenEOF, TokenElse, TokenBlockClose:
			return prog, nil

		case TokenContent:
			p.next()
			prog.Body = append(prog.Body, &ast.ContentStatement{
				Base:  ast.Base{Position: tok.Pos},
				Value: tok.Value,
			})

		case TokenComment:
			p.next()
			prog.Body = append(prog.Body, &ast.CommentStatement{
				Base:  ast.Base{Position: tok.Pos},
				Value: tok.Value,
			})

		case TokenMustache, TokenUnescaped:
			p.next()
			expr, params, err := parseMustacheExpr(tok.Value, tok.ValuePos)
			if err != nil {
				return nil, err
			}
			prog.Body = append(prog.Body, &ast.MustacheStatement{
				Base:    ast.Base{Position: tok.Pos},
				Path:    expr,
				Params:  params,
				Escaped: tok.Type == TokenMustache,
			})

		case TokenBlockOpen:
			block, err := p.parseBlock(tok)
			if err != nil {
				return nil, err
			}
			prog.Body = append(prog.Body, block)

		default:
			return nil, errorf(tok.Pos, "unexpected %s token", tok.Type)
		}
	}
}

// parseBlock parses {{#helper expr}} body [{{else}} body] {{/helper}}.
func (p *Parser) parseBlock(open Token) (*ast.BlockStatement, error) {
	p.next()

	helper, expr, err := parseBlockExpr(open.Value, open.ValuePos)
	if err != nil {
		return nil, err
	}

	body, err := p.parseProgram(p.peek().Pos)
	if err != nil {
		return nil, err
	}

	var inverse *ast.Program
	if p.peek().Type == TokenElse {
		p.next()
		inverse, err = p.parseProgram(p.peek().Pos)
		if err != nil {
			return nil, err
		}
	}

	closeTok := p.peek()
	if closeTok.Type != TokenBlockClose {
		return nil, errorf(open.Pos, "unclosed block %q: missing {{/%s}}", helper, helper)
	}
	p.next()
	if closeTok.Value != helper {
		return nil, errorf(closeTok.Pos, "{{/%s}} does not match {{#%s}}", closeTok.Value, helper)
	}

	return &ast.BlockStatement{
		Base:    ast.Base{Position: open.Pos},
		Helper:  helper,
		Expr:    expr,
		Program: body,
		Inverse: inverse,
	}, nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}
