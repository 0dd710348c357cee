package vasmpp

// captureKind names which definition is being captured, selecting how a
// matched end directive is committed in section 4.4's scan.
type captureKind int

const (
	captureMacro captureKind = iota
	captureStructure
	captureRepeat
)

var (
	endmDirectives      = []directive{{"ENDM"}}
	endrDirectives      = []directive{{"ENDR"}}
	endstructDirectives = []directive{{"ENDSTRUCT"}}
	reptDirectives      = []directive{{"REPT"}}
)

// captureState is the transient definition-capture state spec.md section 3
// calls the "Repeat descriptor": enddir_list/reptdir_list/enddir_minlen
// plus repeat nesting bookkeeping, shared by new_macro/new_structure/
// new_repeat and consumed by the end-directive scan.
type captureState struct {
	kind captureKind

	enddirList   []directive
	reptdirList  []directive
	enddirMinlen int

	bodyStart int // offset into the frame's text where the body begins

	reptNest int // nesting depth of repeat blocks seen while scanning
	reptCnt  int // >=0 while capturing a repeat body, -1 otherwise
	reptStart int
	reptEnd   int
	reptCaptured bool
}

// newStructure begins definition capture for a structure, mirroring
// new_structure. Same preconditions as newMacro.
func (p *Preprocessor) newStructure(name string) {
	if p.capture != nil {
		ierror("newStructure: capture already active")
	}
	if p.curMacro != nil {
		ierror("newStructure: structure may not be opened while a macro is open")
	}
	sname := name
	if p.cfg.NoCaseStructure {
		sname = lower(name)
	}
	p.curStruct = &Structure{Macro: Macro{Name: sname}}
	p.capture = &captureState{
		kind:         captureStructure,
		enddirList:   endstructDirectives,
		reptdirList:  reptDirectives,
		enddirMinlen: dirlistMinlen(endstructDirectives),
		bodyStart:    p.cur.srcptr,
		reptCnt:      -1,
	}
}

// newRepeat begins definition capture for a repeat block's body, mirroring
// new_repeat. A repeat may be opened whether or not a macro is currently
// open (it is how `rept` inside a macro body is itself captured).
func (p *Preprocessor) newRepeat(cnt int) {
	if p.capture != nil {
		ierror("newRepeat: capture already active")
	}
	p.capture = &captureState{
		kind:         captureRepeat,
		enddirList:   endrDirectives,
		reptdirList:  reptDirectives,
		enddirMinlen: dirlistMinlen(endrDirectives),
		bodyStart:    p.cur.srcptr,
		reptCnt:      cnt,
		reptStart:    p.cur.srcptr,
		reptNest:     1,
	}
}

// runCaptureScan advances the current frame's srcptr through an active
// end-directive scan, mirroring section 4.4. It returns true once capture
// has terminated (successfully or via a reported missing-end error); the
// caller (ReadNextLine) must re-check p.capture after a true return, since
// committing may chain into a structure/macro table insert or a queued
// start_repeat.
func (p *Preprocessor) runCaptureScan() bool {
	c := p.capture
	f := p.cur
	s := f.text

	for {
		limit := len(s) - c.enddirMinlen
		if f.srcptr > limit {
			// No closing directive before EOF: missing end diagnostic.
			switch c.kind {
			case captureMacro:
				p.reportSyntax(ErrMissingENDM, "missing ENDM")
			case captureStructure:
				p.reportSyntax(ErrMissingENDSTRUCT, "missing ENDSTRUCT")
			case captureRepeat:
				p.reportSyntax(ErrMissingENDR, "missing ENDR")
			}
			f.srcptr = len(s)
			p.abortCapture()
			return true
		}

		switch s[f.srcptr] {
		case '"', '\'':
			next, _ := skipString(s, f.srcptr, s[f.srcptr], p)
			f.srcptr = next
			continue
		case byte(p.cfg.CommentChar):
			for f.srcptr < len(s) && s[f.srcptr] != '\n' {
				f.srcptr++
			}
			continue
		case '\n':
			f.line++
			f.srcptr++
			continue
		case '\r':
			f.line++
			f.srcptr++
			if f.srcptr < len(s) && s[f.srcptr] == '\n' {
				f.srcptr++
			}
			continue
		}

		if c.kind == captureRepeat {
			if _, next := dirlistMatch(s, f.srcptr, c.reptdirList); next != f.srcptr {
				c.reptNest++
				f.srcptr = next
				continue
			}
		}
		if d, next := dirlistMatch(s, f.srcptr, c.enddirList); d != nil {
			bodyEnd := f.srcptr
			f.srcptr = next
			terminated := p.commitCapture(bodyEnd)
			for f.srcptr < len(s) && s[f.srcptr] != '\n' {
				f.srcptr++
			}
			if f.srcptr < len(s) {
				f.line++
				f.srcptr++
			}
			if terminated {
				return true
			}
			continue
		}
		f.srcptr++
	}
}

// commitCapture finalizes whichever definition was being captured once its
// end directive is found, mirroring the add_macro/add_structure/rept_nest
// decrement branch of section 4.4. Returns true once capture has fully
// terminated (always true for macro/structure; only once rept_nest reaches
// zero for a repeat).
func (p *Preprocessor) commitCapture(bodyEnd int) bool {
	c := p.capture
	switch c.kind {
	case captureMacro:
		p.addMacro(bodyEnd)
		return true
	case captureStructure:
		p.addStructure(bodyEnd)
		return true
	case captureRepeat:
		c.reptNest--
		if c.reptNest <= 0 {
			c.reptEnd = bodyEnd
			c.reptCaptured = true
			p.capture = nil
			p.pendingRepeat = c
			return true
		}
		return false
	}
	return true
}

func (p *Preprocessor) abortCapture() {
	switch p.capture.kind {
	case captureMacro:
		p.curMacro = nil
	case captureStructure:
		p.curStruct = nil
	}
	p.capture = nil
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
