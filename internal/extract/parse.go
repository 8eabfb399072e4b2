package extract

import "strings"

// parseState is the state of the export-type statement parser.
type parseState int

const (
	stCode               parseState = iota // scanning for "export" or a bare "type"
	stExport                               // after "export", expecting "type"
	stType                                 // expecting the declaration name
	stStartTypeParamList                   // optionally expecting '<'
	stTypeParam                            // expecting a parameter name
	stTypePack                             // optionally expecting "..."
	stTypeDefault                          // optionally expecting '='
	stTypeDefaultName                      // expecting the default's type name
	stNextTypeParam                        // expecting ',' or '>'
)

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// identRun reads an identifier run (letters, digits, underscore) starting at
// i and returns it with the index past its end. The run may be empty.
func identRun(s string, i int) (string, int) {
	start := i
	for isIdentByte(at(s, i)) {
		i++
	}
	return s[start:i], i
}

// Parse strips comments and strings from Luau source and scans the remainder
// for export type declarations. The parser is permissive: a byte with no
// matching rule in the current state is skipped, and nothing here ever fails.
// At worst a malformed construct goes unrecognized.
func Parse(src string) *Result {
	return parseExports(stripSource(src))
}

func parseExports(src string) *Result {
	result := &Result{}
	nonExported := make(map[string]struct{})

	var stmt ExportStatement
	var param TypeParam
	state := stCode

	i := 0
	for i < len(src) {
		for i < len(src) && isSpaceByte(src[i]) {
			i++
		}
		if i >= len(src) {
			break
		}
		c := src[i]

		switch state {
		case stCode:
			switch {
			case c == 'e' && strings.HasPrefix(src[i:], "export"):
				stmt = ExportStatement{Exported: true}
				i += len("export")
				state = stExport
			case c == 't' && strings.HasPrefix(src[i:], "type"):
				stmt = ExportStatement{Exported: false}
				i += len("type")
				state = stType
			default:
				i++
			}

		case stExport:
			if c == 't' && strings.HasPrefix(src[i:], "type") {
				i += len("type")
				state = stType
			} else {
				// An `export` not followed by `type` is not a type
				// declaration; abandon it.
				state = stCode
			}

		case stType:
			var name string
			name, i = identRun(src, i)
			stmt.Name = name
			if !stmt.Exported {
				nonExported[name] = struct{}{}
			}
			state = stStartTypeParamList

		case stStartTypeParamList:
			if c == '<' {
				i++
				state = stTypeParam
			} else {
				result.add(stmt)
				state = stCode
			}

		case stTypeParam:
			name, end := identRun(src, i)
			if name == "" {
				i++
				break
			}
			param = TypeParam{Name: name}
			i = end
			state = stTypePack

		case stTypePack:
			if c == '.' && strings.HasPrefix(src[i:], "...") {
				param.Pack = true
				i += 3
			}
			state = stTypeDefault

		case stTypeDefault:
			if c == '=' {
				i++
				state = stTypeDefaultName
			} else {
				stmt.Params = append(stmt.Params, param)
				state = stNextTypeParam
			}

		case stTypeDefaultName:
			name, end := identRun(src, i)
			if name == "" {
				i++
				break
			}
			param.Default = name
			i = end
			stmt.Params = append(stmt.Params, param)
			state = stNextTypeParam

		case stNextTypeParam:
			switch c {
			case ',':
				i++
				state = stTypeParam
			case '>':
				result.add(stmt)
				i++
				state = stCode
			default:
				i++
			}
		}
	}

	// A default referencing a non-exported type cannot be reproduced across
	// the module boundary, so it is dropped rather than left dangling.
	for si := range result.Statements {
		for pi := range result.Statements[si].Params {
			p := &result.Statements[si].Params[pi]
			if p.Default == "" {
				continue
			}
			if _, ok := nonExported[p.Default]; ok {
				p.Default = ""
			}
		}
	}

	return result
}
