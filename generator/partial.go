package generator

import (
	"encoding/json"
	"strings"
)

// The streaming API hands back raw JSON text in chunks, so at almost
// every point the accumulated buffer is a truncated document. The
// functions below repair such a prefix into valid JSON (closing open
// strings, dropping half-written keys and literals, balancing
// brackets) so a partial snapshot can be decoded and forwarded
// downstream after each chunk.

type jsonFrame struct {
	kind      byte // '{' or '['
	expectKey bool // object frame: currently positioned at a member key
}

// CompleteJSON repairs a truncated JSON document prefix.
// Returns false when the input cannot be the prefix of a valid
// document (or is empty).
func CompleteJSON(raw string) (string, bool) {
	s := strings.TrimLeft(raw, " \t\r\n")
	if s == "" {
		return "", false
	}
	if s[0] != '{' && s[0] != '[' {
		return "", false
	}

	var stack []jsonFrame
	inString := false
	escaped := false
	stringStart := 0 // index of the opening quote of the current string
	memberStart := 0 // index where the current member/element began

	top := func() *jsonFrame {
		if len(stack) == 0 {
			return nil
		}
		return &stack[len(stack)-1]
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			escaped = false
			stringStart = i
		case '{', '[':
			stack = append(stack, jsonFrame{kind: c, expectKey: c == '{'})
			memberStart = i + 1
		case '}', ']':
			if t := top(); t == nil || (c == '}') != (t.kind == '{') {
				return "", false
			}
			stack = stack[:len(stack)-1]
		case ':':
			if t := top(); t != nil && t.kind == '{' {
				t.expectKey = false
			}
		case ',':
			if t := top(); t != nil && t.kind == '{' {
				t.expectKey = true
			}
			memberStart = i + 1
		}
	}

	if len(stack) == 0 && !inString {
		// already complete
		return s, true
	}

	if inString {
		if t := top(); t != nil && t.kind == '{' && t.expectKey {
			// A half-written member key is useless; drop the member.
			s = s[:memberStart]
		} else {
			if escaped {
				// trailing lone backslash cannot be closed as-is
				s = s[:len(s)-1]
			}
			s += `"`
		}
		_ = stringStart
	} else {
		// The buffer may end mid-literal ("tru", "12.", "-"). A literal
		// that is not already valid JSON gets dropped.
		end := len(s)
		start := end
		for start > 0 && isLiteralByte(s[start-1]) {
			start--
		}
		if tok := s[start:end]; tok != "" && !validJSONLiteral(tok) {
			s = s[:start]
		}
	}

	s = strings.TrimRight(s, " \t\r\n")
	if strings.HasSuffix(s, ",") {
		s = strings.TrimRight(s[:len(s)-1], " \t\r\n")
	}
	if strings.HasSuffix(s, ":") {
		s += "null"
	}

	// Close whatever is still open, innermost first.
	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind == '{' {
			closers.WriteByte('}')
		} else {
			closers.WriteByte(']')
		}
	}
	return s + closers.String(), true
}

func isLiteralByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c == '-' || c == '+' || c == '.':
		return true
	}
	return false
}

func validJSONLiteral(tok string) bool {
	switch tok {
	case "true", "false", "null":
		return true
	}
	return validJSONNumber(tok)
}

// validJSONNumber checks the strict JSON number grammar; strconv is
// laxer than JSON (it accepts "12.").
func validJSONNumber(tok string) bool {
	i := 0
	n := len(tok)
	if i < n && tok[i] == '-' {
		i++
	}
	// integer part
	switch {
	case i < n && tok[i] == '0':
		i++
	case i < n && tok[i] >= '1' && tok[i] <= '9':
		for i < n && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
	default:
		return false
	}
	// fraction
	if i < n && tok[i] == '.' {
		i++
		if i >= n || tok[i] < '0' || tok[i] > '9' {
			return false
		}
		for i < n && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
	}
	// exponent
	if i < n && (tok[i] == 'e' || tok[i] == 'E') {
		i++
		if i < n && (tok[i] == '+' || tok[i] == '-') {
			i++
		}
		if i >= n || tok[i] < '0' || tok[i] > '9' {
			return false
		}
		for i < n && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
	}
	return i == n
}

// DecodePartial repairs a truncated buffer and decodes it into a
// partial GeneratedSet. ok is false while the buffer is not yet
// decodable (too little text, or mid-token in a way repair rejects).
func DecodePartial(raw string) (GeneratedSet, bool) {
	completed, ok := CompleteJSON(raw)
	if !ok {
		return GeneratedSet{}, false
	}
	var set GeneratedSet
	if err := json.Unmarshal([]byte(completed), &set); err != nil {
		return GeneratedSet{}, false
	}
	return set, true
}
