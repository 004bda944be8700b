// Package compiler translates parsed templates into the source of a
// JavaScript function (scope, data = {}) => string, together with a source
// map pointing every generated construct back at the template.
package compiler

import (
	"fmt"
	"strings"

	"github.com/eslym/tinybars/pkg/parser"
	"github.com/eslym/tinybars/pkg/sourcemap"
)

// Format selects the output module format.
type Format string

// Recognized output module formats.
const (
	FormatESM Format = "esm" // export default + import
	FormatCJS Format = "cjs" // module.exports + require
)

// Defaults applied when Options fields are left empty.
const (
	DefaultScopeVar   = "ctx"
	DefaultDataVar    = "data"
	DefaultSourceName = "template.hbs"
)

// Options configure a single compilation.
type Options struct {
	ScopeVar      string // name of the scope parameter
	DataVar       string // name of the data parameter
	FunctionName  string // optional name for the generated function
	SourceName    string // source name recorded in the source map
	StripComments bool   // drop {{! ... }} comments from the output
	Format        Format // output module format
}

// Result is the compiled output.
type Result struct {
	Code      string
	SourceMap *sourcemap.Map
}

// Compile parses source and compiles it into a JavaScript function plus a
// source map. Failures are returned as *parser.ParseError or *CompileError
// with no partial output.
func Compile(source string, opts Options) (*Result, error) {
	if opts.ScopeVar == "" {
		opts.ScopeVar = DefaultScopeVar
	}
	if opts.DataVar == "" {
		opts.DataVar = DefaultDataVar
	}
	if opts.SourceName == "" {
		opts.SourceName = DefaultSourceName
	}
	switch opts.Format {
	case "":
		opts.Format = FormatESM
	case FormatESM, FormatCJS:
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}

	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}

	ctx := context{
		scope:   opts.ScopeVar,
		data:    opts.DataVar,
		strip:   opts.StripComments,
		imports: &importSet{},
	}

	body, err := compileProgram(prog, ctx)
	if err != nil {
		return nil, err
	}

	name := opts.FunctionName
	if name != "" {
		name = " " + name
	}

	out := newFragment()
	out.add(ctx.imports.prologue(opts.Format))
	if opts.Format == FormatCJS {
		out.rawf("module.exports = function%s(%s, %s = {}) {\n", name, opts.ScopeVar, opts.DataVar)
	} else {
		out.rawf("export default function%s(%s, %s = {}) {\n", name, opts.ScopeVar, opts.DataVar)
	}
	out.rawf("    var %s = %s;\n    return ", rootVar, opts.ScopeVar)
	out.add(body)
	out.raw(";\n}")
	if opts.Format == FormatCJS {
		out.raw(";")
	}
	out.raw("\n")

	code, srcMap := render(out, opts.SourceName, source)
	return &Result{Code: code, SourceMap: srcMap}, nil
}

// render flattens the fragment to text, emitting one source-map entry per
// mapped chunk.
func render(frag *Fragment, sourceName, source string) (string, *sourcemap.Map) {
	var sb strings.Builder
	var b sourcemap.Builder

	genLine, genCol := 0, 0
	for _, c := range frag.chunks {
		if c.pos.IsValid() {
			b.Add(genLine, genCol, c.pos.Line-1, c.pos.Column-1)
		}
		sb.WriteString(c.text)
		for _, r := range c.text {
			if r == '\n' {
				genLine++
				genCol = 0
			} else {
				genCol++
			}
		}
	}

	return sb.String(), b.Build("", sourceName, source)
}
