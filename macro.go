package vasmpp

import (
	"strings"

	"vasmpp/internal/expr"
)

// Macro is an immutable-after-registration macro definition, mirroring
// spec.md section 3's Macro data model. Text aliases the source buffer it
// was captured from; the caller must keep that buffer alive for as long as
// the macro may be invoked (see section 5's lifetime note).
type Macro struct {
	Name     string
	Text     []byte
	ArgNames []string
}

func macroKey(cfg *Config, name string) string {
	if cfg.NoCaseMacros {
		return strings.ToLower(name)
	}
	return name
}

// lookupMacro resolves name against the macro table, case-sensitive or not
// depending on NoCaseMacros, mirroring execute_macro's lookup step.
func (p *Preprocessor) lookupMacro(name string) *Macro {
	return p.macros[macroKey(&p.cfg, name)]
}

// newMacro begins definition capture for a macro, mirroring new_macro.
// Preconditions: no capture is currently active and no macro is currently
// open; violating either is an internal error (ierror), matching section
// 4.3. When namedParams is true, it additionally parses the leading
// `\name,name,...` argument-name list off s, advancing pos past it.
//
// Defining a macro while the current frame is itself a macro expansion is
// a recoverable diagnostic (error 26, "macro definition inside macro"),
// not a precondition violation - mirroring new_macro's
// `if (nparam>=0 && cur_macro!=NULL) general_error(26,...)` check. Capture
// still proceeds afterward exactly as the original does; the end-directive
// scan has no notion of macro nesting, so the body this captures is
// whatever text precedes the first ENDM-looking line regardless of what
// directive opened it.
func (p *Preprocessor) newMacro(name string, s []byte, pos int) (next int) {
	if p.capture != nil {
		ierror("newMacro: capture already active")
	}
	if p.curMacro != nil {
		ierror("newMacro: macro already open")
	}
	if p.cur != nil && p.cur.isMacroExpansion() {
		p.reportSyntax(ErrMacroInMacro, "macro definition inside macro")
	}
	m := &Macro{Name: macroKey(&p.cfg, name)}
	next = pos
	if p.cfg.NamedMacParams {
		next = skipSpaceTab(s, next)
		if next < len(s) && s[next] == '\\' {
			next++
			for {
				next = skipSpaceTab(s, next)
				id, after := parseIdentifier(s, next, &p.cfg)
				if id == "" {
					break
				}
				p.namedMacroArg(m, id)
				next = after
				next = skipSpaceTab(s, next)
				if next < len(s) && s[next] == ',' {
					next++
					continue
				}
				break
			}
		}
	}
	p.curMacro = m
	p.capture = &captureState{
		kind:         captureMacro,
		enddirList:   endmDirectives,
		reptdirList:  reptDirectives,
		enddirMinlen: dirlistMinlen(endmDirectives),
		bodyStart:    p.cur.srcptr,
		reptCnt:      -1,
	}
	return next
}

// namedMacroArg appends name to m.ArgNames, bounds-checked against
// MaxMacParams-1, mirroring named_macro_arg.
func (p *Preprocessor) namedMacroArg(m *Macro, name string) {
	if len(m.ArgNames) >= p.cfg.MaxMacParams-1 {
		p.reportSyntax(ErrTooManyArgs, "too many named macro arguments")
		return
	}
	m.ArgNames = append(m.ArgNames, name)
}

// addMacro commits the macro currently being captured, storing its body as
// [bodyStart, bodyEnd) of the current frame's text, mirroring add_macro.
func (p *Preprocessor) addMacro(bodyEnd int) {
	m := p.curMacro
	m.Text = p.cur.text[p.capture.bodyStart:bodyEnd]
	p.macros[m.Name] = m
	p.curMacro = nil
	p.capture = nil
}

// ExecuteMacro looks up name and, on a hit, pushes a new expansion frame
// parsing the operand tail starting at pos, mirroring execute_macro.
// Returns ok=false without side effects on a lookup miss.
func (p *Preprocessor) ExecuteMacro(name string, qualifiers []string, s []byte, pos int, condLevel int) (ok bool, next int) {
	m := p.lookupMacro(name)
	if m == nil {
		return false, pos
	}

	f := newFrame(m.Name, m.Text)

	params := make([][]byte, p.cfg.MaxMacParams)
	paramLen := make([]int, p.cfg.MaxMacParams)

	if p.cfg.MaxQualifiers > 0 {
		q0 := qualifiers
		if len(q0) == 0 {
			q0 = p.cfg.DefaultQualifiers
		}
		if len(q0) > 0 {
			params[0] = []byte(q0[0])
			paramLen[0] = len(q0[0])
		}
	}

	n, next2 := p.parseMacroArgs(s, pos, params, paramLen)

	f.numParams = n
	f.param = params
	f.paramLen = paramLen
	f.paramNames = m.ArgNames
	f.condLevel = condLevel

	f.cargexp = p.carg
	p.push(f)
	p.setCarg(f, expr.NumberExpr(1))

	return true, next2
}

// parseMacroArgs reads up to MaxMacParams arguments off s starting at pos,
// mirroring execute_macro step 3. Arguments beyond index 0 (the qualifier
// slot) are stored starting at params[1].
func (p *Preprocessor) parseMacroArgs(s []byte, pos int, params [][]byte, paramLen []int) (n int, next int) {
	n = 1 // slot 0 reserved for the qualifier, even if empty
	pos = skipSpaceTab(s, pos)
	for pos < len(s) && s[pos] != '\n' && s[pos] != p.cfg.CommentChar {
		if n >= p.cfg.MaxMacParams {
			p.reportSyntax(ErrTooManyArgs, "too many macro arguments")
			n = p.cfg.MaxMacParams
			// skip the rest of the operand field
			for pos < len(s) && s[pos] != '\n' {
				pos++
			}
			break
		}
		var arg []byte
		switch s[pos] {
		case '"', '\'':
			delim := s[pos]
			start := pos
			end, _ := skipString(s, pos, delim, p)
			arg = s[start:end]
			pos = end
		case '<':
			start := pos + 1
			i := start
			for i < len(s) && s[i] != '\n' {
				if s[i] == '>' {
					if i+1 < len(s) && s[i+1] == '>' {
						copy(s[i:], s[i+1:])
						s = s[:len(s)-1]
						i++
						continue
					}
					break
				}
				i++
			}
			arg = s[start:i]
			pos = i
			if pos < len(s) && s[pos] == '>' {
				pos++
			}
		default:
			start := pos
			for pos < len(s) && s[pos] != ',' && s[pos] != '\n' && s[pos] != p.cfg.CommentChar {
				pos++
			}
			end := pos
			for end > start && isSpaceOrTab(s[end-1]) {
				end--
			}
			arg = s[start:end]
		}
		if n < len(params) {
			params[n] = arg
			paramLen[n] = len(arg)
		}
		n++
		pos = skipSpaceTab(s, pos)
		if pos < len(s) && s[pos] == ',' {
			pos++
			pos = skipSpaceTab(s, pos)
			continue
		}
		break
	}
	return n - 1, pos
}

// LeaveMacro arranges for the current frame to be popped at the next
// ReadNextLine call by exhausting it, mirroring leave_macro(). Reports
// ErrExitMacroNoMacro (36) if the current frame is not a macro expansion.
func (p *Preprocessor) LeaveMacro() {
	if p.cur == nil || !p.cur.isMacroExpansion() {
		p.reportGeneral(ErrExitMacroNoMacro, "exit-macro outside of a macro")
		return
	}
	p.cur.srcptr = p.cur.size
}

// copyMacroParam returns parameter n's bytes, clamped to the parameter's
// recorded length, mirroring copy_macro_param(n, d, len); callers truncate
// the line buffer to its limit after appending. Out-of-range n yields zero
// bytes.
func copyMacroParam(f *Frame, n int, maxMacParams int) []byte {
	if n < 0 || n >= maxMacParams || n > f.numParams || n >= len(f.param) {
		return nil
	}
	return f.param[n][:f.paramLen[n]]
}
