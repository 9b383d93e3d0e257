package pdf

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// operand is a value pushed before a content-stream operator.
type operand struct {
	str   []byte
	isStr bool
	num   float64
	isNum bool
	arr   []operand
}

// tjSpaceThreshold is the TJ kerning adjustment (thousandths of text space)
// below which a gap is treated as a word break.
const tjSpaceThreshold = -200

// textFromContentStream interprets the text-showing operators of a page
// content stream (Tj, TJ, ', ") and its line-positioning operators (Td, TD,
// T*, Tm). Strings are decoded as PDFDocEncoding or UTF-16BE; font encodings
// are not consulted.
func textFromContentStream(data []byte) string {
	var (
		out   strings.Builder
		stack []operand
		s     = &scanner{data: data}
	)
	newline := func() {
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
	}
	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.op == "" {
			stack = append(stack, tok.val)
			continue
		}
		switch tok.op {
		case "Tj":
			if v, ok := lastString(stack); ok {
				out.WriteString(decodeTextString(v))
			}
		case "'", "\"":
			newline()
			if v, ok := lastString(stack); ok {
				out.WriteString(decodeTextString(v))
			}
		case "TJ":
			if len(stack) > 0 {
				for _, el := range stack[len(stack)-1].arr {
					switch {
					case el.isStr:
						out.WriteString(decodeTextString(el.str))
					case el.isNum && el.num < tjSpaceThreshold:
						out.WriteByte(' ')
					}
				}
			}
		case "Td", "TD":
			if len(stack) >= 2 && stack[len(stack)-1].isNum && stack[len(stack)-1].num != 0 {
				newline()
			} else {
				out.WriteByte(' ')
			}
		case "T*", "Tm":
			newline()
		case "ID":
			s.skipInlineImage()
		}
		stack = stack[:0]
	}
	return cleanContentText(out.String())
}

func lastString(stack []operand) ([]byte, bool) {
	if len(stack) == 0 || !stack[len(stack)-1].isStr {
		return nil, false
	}
	return stack[len(stack)-1].str, true
}

// decodeTextString decodes a PDF string as UTF-16BE when it carries a BOM,
// otherwise byte-per-rune.
func decodeTextString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// cleanContentText collapses horizontal whitespace, drops control characters and blank lines.
func cleanContentText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		var b strings.Builder
		prevSpace := false
		for _, r := range line {
			switch {
			case unicode.IsSpace(r):
				if !prevSpace && b.Len() > 0 {
					b.WriteByte(' ')
				}
				prevSpace = true
			case unicode.IsPrint(r):
				b.WriteRune(r)
				prevSpace = false
			}
		}
		if l := strings.TrimSpace(b.String()); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

type token struct {
	op  string
	val operand
}

type scanner struct {
	data []byte
	pos  int
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func (s *scanner) skipSpaceAndComments() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isWhite(c) {
			s.pos++
			continue
		}
		if c == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
			continue
		}
		return
	}
}

// next returns the next operand or operator. Dictionaries and names are
// returned as empty operands so they occupy a stack slot.
func (s *scanner) next() (token, bool) {
	s.skipSpaceAndComments()
	if s.pos >= len(s.data) {
		return token{}, false
	}
	c := s.data[s.pos]
	switch {
	case c == '(':
		s.pos++
		return token{val: operand{str: s.literal(), isStr: true}}, true
	case c == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<':
		s.skipDict()
		return token{}, true
	case c == '<':
		s.pos++
		return token{val: operand{str: s.hex(), isStr: true}}, true
	case c == '[':
		s.pos++
		return token{val: operand{arr: s.array()}}, true
	case c == '/':
		s.pos++
		s.word()
		return token{}, true
	case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
		s.pos++
		return token{}, true
	}
	w := s.word()
	if w == "" {
		s.pos++
		return token{}, true
	}
	if f, err := strconv.ParseFloat(w, 64); err == nil {
		return token{val: operand{num: f, isNum: true}}, true
	}
	return token{op: w}, true
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isWhite(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func (s *scanner) literal() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; k++ {
						v = v*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

func (s *scanner) hex() []byte {
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if !isWhite(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}

func (s *scanner) array() []operand {
	var elems []operand
	for {
		s.skipSpaceAndComments()
		if s.pos >= len(s.data) {
			return elems
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return elems
		}
		tok, ok := s.next()
		if !ok {
			return elems
		}
		if tok.op == "" {
			elems = append(elems, tok.val)
		}
	}
}

func (s *scanner) skipDict() {
	depth := 0
	for s.pos+1 < len(s.data) {
		switch {
		case s.data[s.pos] == '<' && s.data[s.pos+1] == '<':
			depth++
			s.pos += 2
		case s.data[s.pos] == '>' && s.data[s.pos+1] == '>':
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
		case s.data[s.pos] == '(':
			s.pos++
			s.literal()
		default:
			s.pos++
		}
	}
	s.pos = len(s.data)
}

// skipInlineImage advances past the binary data of an inline image up to its EI operator.
func (s *scanner) skipInlineImage() {
	for s.pos+2 < len(s.data) {
		if isWhite(s.data[s.pos]) && s.data[s.pos+1] == 'E' && s.data[s.pos+2] == 'I' &&
			(s.pos+3 == len(s.data) || isWhite(s.data[s.pos+3])) {
			s.pos += 3
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}
