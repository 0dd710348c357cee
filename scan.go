package vasmpp

import "strconv"

// escape decodes one backslash escape starting at s[pos] (which must hold
// '\\'), mirroring escape(s, &out_byte) from spec.md section 4.1. With esc
// off, it emits the backslash itself and advances one byte. Unknown escapes
// report ErrBadEscape and advance just past the backslash, per spec: "single
// char consumed".
func escape(s []byte, pos int, escOn bool, p *Preprocessor) (out byte, next int) {
	if !escOn {
		return '\\', pos + 1
	}
	if pos+1 >= len(s) {
		p.reportSyntax(ErrBadEscape, "unterminated escape")
		return '\\', pos + 1
	}
	c := s[pos+1]
	switch c {
	case 'b':
		return '\b', pos + 2
	case 'f':
		return '\f', pos + 2
	case 'n':
		return '\n', pos + 2
	case 'r':
		return '\r', pos + 2
	case 't':
		return '\t', pos + 2
	case '\\':
		return '\\', pos + 2
	case '"':
		return '"', pos + 2
	case '\'':
		return '\'', pos + 2
	case 'e':
		return 0x1b, pos + 2
	case 'x', 'X':
		i := pos + 2
		start := i
		for i < len(s) && isHexDigit(s[i]) {
			i++
		}
		if i == start {
			// No hex digits follow: decodes to 0, matching escape()'s own
			// behavior rather than reporting a diagnostic.
			return 0, i
		}
		v, _ := strconv.ParseUint(string(s[start:i]), 16, 8)
		return byte(v), i
	default:
		if c >= '0' && c <= '7' {
			i := pos + 1
			start := i
			for i < len(s) && s[i] >= '0' && s[i] <= '7' {
				i++
			}
			v, _ := strconv.ParseUint(string(s[start:i]), 8, 16)
			return byte(v), i
		}
		p.reportSyntax(ErrBadEscape, "unknown escape %q", c)
		return c, pos + 1
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isSpaceOrTab(c byte) bool { return c == ' ' || c == '\t' }

// parseName accepts a quoted ("..." or '...'), angle-bracketed (<...>), or
// unquoted name starting at s[pos], mirroring parse_name(&s). Returns the
// decoded name and the position just past trailing whitespace, or ("",
// pos) if nothing was read.
func parseName(s []byte, pos int, cfg *Config) (name string, next int) {
	for pos < len(s) && isSpaceOrTab(s[pos]) {
		pos++
	}
	if pos >= len(s) {
		return "", pos
	}
	switch s[pos] {
	case '"', '\'':
		delim := s[pos]
		start := pos + 1
		i := start
		for i < len(s) && s[i] != delim {
			if s[i] == '\\' && i+1 < len(s) {
				i += 2
				continue
			}
			i++
		}
		name = string(s[start:i])
		if i < len(s) {
			i++
		}
		return name, skipSpaceTab(s, i)
	case '<':
		start := pos + 1
		i := start
		for i < len(s) && s[i] != '>' {
			i++
		}
		name = string(s[start:i])
		if i < len(s) {
			i++
		}
		return name, skipSpaceTab(s, i)
	default:
		start := pos
		i := start
		for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != ',' && s[i] != cfg.CommentChar && s[i] != '\n' && s[i] != '\r' {
			i++
		}
		if i == start {
			return "", pos
		}
		return string(s[start:i]), skipSpaceTab(s, i)
	}
}

func skipSpaceTab(s []byte, pos int) int {
	for pos < len(s) && isSpaceOrTab(s[pos]) {
		pos++
	}
	return pos
}

// skipIdentifier advances pos past one identifier using the configured
// ISIDSTART/ISIDCHAR predicates, mirroring skip_identifier.
func skipIdentifier(s []byte, pos int, cfg *Config) int {
	if pos >= len(s) || !cfg.idStart(rune(s[pos])) {
		return pos
	}
	pos++
	for pos < len(s) && cfg.idChar(rune(s[pos])) {
		pos++
	}
	return pos
}

// parseIdentifier is skipIdentifier plus materializing the matched text,
// mirroring parse_identifier.
func parseIdentifier(s []byte, pos int, cfg *Config) (name string, next int) {
	start := pos
	next = skipIdentifier(s, pos, cfg)
	return string(s[start:next]), next
}

// skipString skips a delimited string supporting backslash escapes and the
// doubled-delimiter convention, mirroring skip_string(s, delim, &size?). It
// reports ErrDelimiterExpected if the closing delimiter is missing before
// end of line. size receives the decoded byte count.
func skipString(s []byte, pos int, delim byte, p *Preprocessor) (next int, size int) {
	if pos >= len(s) || s[pos] != delim {
		p.reportSyntax(ErrDelimiterExpected, "expected %q", delim)
		return pos, 0
	}
	i := pos + 1
	for {
		if i >= len(s) || s[i] == '\n' {
			p.reportSyntax(ErrDelimiterExpected, "missing closing %q", delim)
			return i, size
		}
		if s[i] == delim {
			if i+1 < len(s) && s[i+1] == delim {
				size++
				i += 2
				continue
			}
			return i + 1, size
		}
		if s[i] == '\\' {
			_, after := escape(s, i, p.cfg.EscSequences, p)
			i = after
			size++
			continue
		}
		i++
		size++
	}
}

// parseString is like skipString but materializes the decoded bytes,
// padded to widthBits/8 bytes big-endian, mirroring parse_string(&s, delim,
// width_bits). A one-byte string returns (nil, next) so the caller falls
// back to expression evaluation, as spec.md requires.
func parseString(s []byte, pos int, delim byte, widthBits int, p *Preprocessor) (data []byte, next int) {
	if pos >= len(s) || s[pos] != delim {
		p.reportSyntax(ErrDelimiterExpected, "expected %q", delim)
		return nil, pos
	}
	width := widthBits / 8
	var decoded []byte
	i := pos + 1
	for {
		if i >= len(s) || s[i] == '\n' {
			p.reportSyntax(ErrDelimiterExpected, "missing closing %q", delim)
			return nil, i
		}
		if s[i] == delim {
			if i+1 < len(s) && s[i+1] == delim {
				decoded = append(decoded, delim)
				i += 2
				continue
			}
			i++
			break
		}
		if s[i] == '\\' {
			b, after := escape(s, i, p.cfg.EscSequences, p)
			decoded = append(decoded, b)
			i = after
			continue
		}
		decoded = append(decoded, s[i])
		i++
	}
	if len(decoded) == 1 {
		return nil, i
	}
	out := make([]byte, 0, len(decoded)*width)
	for _, b := range decoded {
		buf := make([]byte, width)
		buf[width-1] = b
		out = append(out, buf...)
	}
	return out, i
}

// checkIndir reports whether s[p:q) begins with '(', ends with ')', and
// every prefix has non-negative paren depth, mirroring check_indir(p, q).
func checkIndir(s []byte) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for _, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}

// directive names one end-directive keyword in an enddir_list, mirroring
// the {name, len} entries dirlist_match/dirlist_minlen scan over.
type directive struct {
	Name string
}

// dirlistMatch returns the first entry of list whose name matches s[pos:]
// case-insensitively and is followed by whitespace (or end of input),
// mirroring dirlist_match(s, e, list).
func dirlistMatch(s []byte, pos int, list []directive) (*directive, int) {
	for i := range list {
		d := &list[i]
		n := len(d.Name)
		if pos+n > len(s) {
			continue
		}
		if !equalFoldBytes(s[pos:pos+n], d.Name) {
			continue
		}
		if pos+n < len(s) {
			c := s[pos+n]
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				continue
			}
		}
		return d, pos + n
	}
	return nil, pos
}

// dirlistMinlen returns the minimum name length among list's entries,
// mirroring dirlist_minlen(list) - used so a scanner can cheaply skip
// positions too close to end of buffer to possibly match.
func dirlistMinlen(list []directive) int {
	if len(list) == 0 {
		return 0
	}
	min := len(list[0].Name)
	for _, d := range list[1:] {
		if len(d.Name) < min {
			min = len(d.Name)
		}
	}
	return min
}

func equalFoldBytes(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := range b {
		bc, sc := b[i], s[i]
		if 'A' <= bc && bc <= 'Z' {
			bc += 'a' - 'A'
		}
		if 'A' <= sc && sc <= 'Z' {
			sc += 'a' - 'A'
		}
		if bc != sc {
			return false
		}
	}
	return true
}
