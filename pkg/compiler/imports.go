package compiler

// RuntimeModule is the module specifier the generated code imports runtime
// helpers from.
const RuntimeModule = "@eslym/tinybars/runtime"

// Runtime helper symbols, each imported under a fixed local alias.
const (
	escapeSymbol = "escape"
	escapeAlias  = "_escape"
)

type runtimeImport struct {
	symbol string
	alias  string
}

// importSet accumulates the runtime symbols required by the generated code.
// It grows monotonically during one compile and is flushed exactly once as
// the output prologue.
type importSet struct {
	symbols []runtimeImport
}

func (s *importSet) add(symbol, alias string) {
	for _, imp := range s.symbols {
		if imp.symbol == symbol {
			return
		}
	}
	s.symbols = append(s.symbols, runtimeImport{symbol: symbol, alias: alias})
}

// prologue emits one import or require line per accumulated symbol, in the
// form matching the output module format.
func (s *importSet) prologue(format Format) *Fragment {
	frag := newFragment()
	for _, imp := range s.symbols {
		if format == FormatCJS {
			frag.rawf("const { %s: %s } = require(%q);\n", imp.symbol, imp.alias, RuntimeModule)
		} else {
			frag.rawf("import { %s as %s } from %q;\n", imp.symbol, imp.alias, RuntimeModule)
		}
	}
	return frag
}
