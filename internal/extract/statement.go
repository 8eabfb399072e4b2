package extract

import (
	"fmt"
	"strings"
)

// TypeParam is one declared generic parameter of a type alias.
type TypeParam struct {
	Name string
	// Pack marks a variadic type pack, written T... in source.
	Pack bool
	// Default is the bare identifier the parameter defaults to, or empty.
	Default string
}

// ExportStatement is one `type` declaration found in a package's entry file.
// Only statements with Exported set are forwarded through link files;
// non-exported ones are tracked transiently to correct defaults.
type ExportStatement struct {
	Name     string
	Exported bool
	Params   []TypeParam
}

// Forwarding renders the re-export line that makes this alias visible through
// a link file, with the required value bound to module.
func (s ExportStatement) Forwarding(module string) string {
	if len(s.Params) == 0 {
		return fmt.Sprintf("export type %s = %s.%s", s.Name, module, s.Name)
	}

	params := make([]string, len(s.Params))
	args := make([]string, len(s.Params))
	for i, p := range s.Params {
		pack := ""
		if p.Pack {
			pack = "..."
		}
		args[i] = p.Name + pack
		params[i] = p.Name + pack
		if p.Default != "" {
			params[i] += " = " + p.Default
		}
	}

	return fmt.Sprintf(
		"export type %s<%s> = %s.%s<%s>",
		s.Name,
		strings.Join(params, ", "),
		module,
		s.Name,
		strings.Join(args, ", "),
	)
}

// Result is the ordered set of forwarded export statements extracted from one
// package.
type Result struct {
	Statements []ExportStatement
}

// IsEmpty reports whether the package exports no type aliases.
func (r *Result) IsEmpty() bool {
	return len(r.Statements) == 0
}

// add keeps the statement only if it was explicitly exported.
func (r *Result) add(s ExportStatement) {
	if s.Exported {
		r.Statements = append(r.Statements, s)
	}
}

// ForwardingStatements renders one forwarding line per statement, in
// declaration order, joined by newlines.
func (r *Result) ForwardingStatements(module string) string {
	lines := make([]string, len(r.Statements))
	for i, s := range r.Statements {
		lines[i] = s.Forwarding(module)
	}
	return strings.Join(lines, "\n")
}
