package engine

// preprocessSource rewrites polytope Lisp into something zygomys reads:
//
//   - `:at` becomes the string "__kw_at", which parseArgs later recognises
//     as a keyword. Registering keywords as symbols would clash with user
//     variables of the same name.
//   - `my-star` becomes `my_star`; zygomys reads a hyphen inside a symbol as
//     subtraction. A hyphen only counts as part of a name when it joins an
//     identifier character to a letter, so `(- a 1)` and `x-1` are left
//     alone.
//   - `;` and `;;` comments become `//` comments.
//
// String literals, double quoted or backquoted, pass through unchanged, and
// so does everything inside a comment.
func preprocessSource(source string) string {
	s := &rewriter{src: []byte(source)}
	s.out = make([]byte, 0, len(source)+len(source)/4)
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; c {
		case '"':
			s.literal('"', true)
		case '`':
			s.literal('`', false)
		case ';':
			s.comment()
		case ':':
			s.colon()
		case '-':
			s.hyphen()
		default:
			s.emit(c)
		}
	}
	return string(s.out)
}

type rewriter struct {
	src, out []byte
	pos      int
}

func (s *rewriter) emit(c ...byte) {
	s.out = append(s.out, c...)
	s.pos += len(c)
}

// literal copies a string literal through its closing quote. Escapes are
// honoured only in double-quoted strings.
func (s *rewriter) literal(quote byte, escapes bool) {
	s.emit(quote)
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == quote:
			s.emit(c)
			return
		case escapes && c == '\\' && s.pos+1 < len(s.src):
			s.emit(c, s.src[s.pos+1])
		default:
			s.emit(c)
		}
	}
}

func (s *rewriter) comment() {
	for s.pos < len(s.src) && s.src[s.pos] == ';' {
		s.pos++
	}
	s.out = append(s.out, '/', '/')
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.emit(s.src[s.pos])
	}
}

func (s *rewriter) colon() {
	if s.pos+1 >= len(s.src) {
		s.emit(':')
		return
	}
	next := s.src[s.pos+1]
	if next == '=' {
		s.emit(':', '=')
		return
	}
	if !isLetter(next) {
		s.emit(':')
		return
	}

	end := s.pos + 1
	for end < len(s.src) && isKWChar(s.src[end]) {
		end++
	}
	s.out = append(s.out, '"')
	s.out = append(s.out, kwPrefix...)
	s.out = append(s.out, s.src[s.pos+1:end]...)
	s.out = append(s.out, '"')
	s.pos = end
}

func (s *rewriter) hyphen() {
	joins := s.pos > 0 && s.pos+1 < len(s.src) &&
		isIdentChar(s.src[s.pos-1]) && isLetter(s.src[s.pos+1])
	if joins {
		s.out = append(s.out, '_')
		s.pos++
		return
	}
	s.emit('-')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isKWChar reports whether c may appear in a keyword after the first letter.
func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
