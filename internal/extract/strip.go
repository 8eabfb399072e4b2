// Package extract scans a package's entry source for exported generic type
// aliases so link files can forward them across module boundaries. The
// scanner is a purpose-built two-stage state machine, not a full Luau parser:
// it only needs to find `export type` declarations reliably, and it fails
// soft on anything it does not understand.
package extract

import "strings"

// lexState is the state of the comment/string stripper.
type lexState int

const (
	lexCode lexState = iota
	lexTemplateString    // ``
	lexDoubleQuoteString // ""
	lexSingleQuoteString // ''
	lexBlockString       // [=[ ]=] at blockDepth
	lexLineComment       // --
	lexBlockComment      // --[=[ ]=] at blockDepth
)

// at returns the byte at index i, or 0 past the end of s.
func at(s string, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

// isBlockEnd reports whether s[i:] starts a closing long bracket of exactly
// the given depth: ']' followed by depth '=' bytes and another ']'.
func isBlockEnd(s string, i, depth int) bool {
	if at(s, i) != ']' {
		return false
	}
	i++
	for range depth {
		if at(s, i) != '=' {
			return false
		}
		i++
	}
	return at(s, i) == ']'
}

// quoteByte returns the closing quote character for a quoted-string state.
func quoteByte(state lexState) byte {
	switch state {
	case lexTemplateString:
		return '`'
	case lexDoubleQuoteString:
		return '"'
	default:
		return '\''
	}
}

// stripSource removes comment bodies and string-literal bodies from Luau
// source, preserving every other character. A plain keyword search over raw
// source would be unsafe because `export type` may legitimately appear inside
// a string or a comment; stripping first guarantees the statement parser only
// ever sees real code.
//
// An unterminated region at end of input is not an error: the scan simply
// stops and whatever was emitted so far is returned.
func stripSource(src string) string {
	var out strings.Builder
	state := lexCode
	blockDepth := 0

	i := 0
	for i < len(src) {
		c := at(src, i)
		switch state {
		case lexCode:
			switch {
			case c == '`':
				state = lexTemplateString
				i++
			case c == '"':
				state = lexDoubleQuoteString
				i++
			case c == '\'':
				state = lexSingleQuoteString
				i++
			case c == '[' && (at(src, i+1) == '=' || at(src, i+1) == '['):
				// Long-bracket string opener. Depth zero is legal: [[.
				blockDepth = 0
				if at(src, i+1) == '=' {
					blockDepth = 1
				}
				i += 2
				for at(src, i) == '=' {
					blockDepth++
					i++
				}
				if blockDepth > 0 && at(src, i) == '[' {
					i++
				}
				state = lexBlockString
			case c == '-' && at(src, i+1) == '-':
				i += 2
				state = lexLineComment
				if at(src, i) == '[' {
					j := i + 1
					depth := 0
					for at(src, j) == '=' {
						depth++
						j++
					}
					if at(src, j) == '[' {
						i = j + 1
						blockDepth = depth
						state = lexBlockComment
					}
				}
			default:
				out.WriteByte(c)
				i++
			}

		case lexTemplateString, lexDoubleQuoteString, lexSingleQuoteString:
			quote := quoteByte(state)
			switch {
			case c == '\\' && at(src, i+1) == quote:
				// Escaped quote is a two-byte unit, not a terminator.
				i += 2
			case c == quote:
				state = lexCode
				i++
			default:
				i++
			}

		case lexBlockString, lexBlockComment:
			// A ']' only closes the region when followed by exactly
			// blockDepth '=' bytes and another ']'.
			if c == ']' && isBlockEnd(src, i, blockDepth) {
				state = lexCode
				i += blockDepth + 2
			} else {
				i++
			}

		case lexLineComment:
			if c == '\n' {
				// The newline is not part of the comment; let the code
				// state emit it.
				state = lexCode
			} else {
				i++
			}
		}
	}

	return out.String()
}
