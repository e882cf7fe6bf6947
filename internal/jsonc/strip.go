// Package jsonc converts JSON-with-comments text into strict JSON.
// It removes // line comments and /* */ block comments while preserving
// every other byte, including whitespace and the full contents of
// double-quoted strings. Comment markers inside strings are never treated
// as comments.
package jsonc

// scanState tracks the scanner position relative to string literals.
type scanState int

const (
	stateNormal scanState = iota
	stateString
	stateStringEscape
)

// Strip removes // and /* */ comments from raw and returns the cleaned text.
// It never fails: an unterminated block comment consumes the remainder of the
// input, and any actual JSON syntax problem is left for the JSON parser to
// report. Block comments do not nest.
func Strip(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	state := stateNormal
	i := 0
	n := len(raw)

	for i < n {
		ch := raw[i]

		switch state {
		case stateString:
			out = append(out, ch)
			switch ch {
			case '\\':
				state = stateStringEscape
			case '"':
				state = stateNormal
			}
			i++

		case stateStringEscape:
			// The escaped character is copied verbatim, whatever it is.
			out = append(out, ch)
			state = stateString
			i++

		default:
			switch {
			case ch == '"':
				state = stateString
				out = append(out, ch)
				i++

			case ch == '/' && i+1 < n && raw[i+1] == '/':
				// Line comment: drop up to, but not including, the newline.
				i += 2
				for i < n && raw[i] != '\n' && raw[i] != '\r' {
					i++
				}

			case ch == '/' && i+1 < n && raw[i+1] == '*':
				// Block comment: drop through the closing */, or to EOF
				// when the comment is unterminated.
				i += 2
				closed := false
				for i+1 < n {
					if raw[i] == '*' && raw[i+1] == '/' {
						i += 2
						closed = true
						break
					}
					i++
				}
				if !closed {
					i = n
				}

			default:
				out = append(out, ch)
				i++
			}
		}
	}

	return out
}
