package vasmpp

import "fmt"

// startRepeat pushes a new frame replaying the just-captured repeat body,
// mirroring start_repeat(rept_end) from section 4.4. The new frame's text
// is the slice [rept_start, rept_end) of the enclosing frame's buffer, its
// repeat count is rept_cnt, and it inherits num_params/param/paramLen/
// paramNames from the enclosing frame so that \1 etc. still resolve inside
// a repeat nested in a macro expansion. If reptCnt is 0 the block is
// dropped entirely.
func (p *Preprocessor) startRepeat(c *captureState) {
	if c.reptCnt == 0 {
		return
	}
	parent := p.cur
	body := parent.text[c.reptStart:c.reptEnd]
	f := newFrame(fmt.Sprintf("REPEAT:%s:line %d", parent.Name, parent.line), body)
	f.repeat = c.reptCnt
	f.numParams = parent.numParams
	f.param = parent.param
	f.paramLen = parent.paramLen
	f.paramNames = parent.paramNames
	p.push(f)
	p.setReptn(1)
	f.reptn = 1
}
