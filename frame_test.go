package vasmpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasmpp/internal/expr"
)

func TestPushPopRestoresCargAndReptn(t *testing.T) {
	p := New()
	p.PushSource("root.s", []byte("x\n"))
	root := p.cur

	saved := p.carg
	f := newFrame("child", []byte("y\n"))
	f.cargexp = saved
	p.push(f)
	require.Equal(t, f, p.cur)
	assert.Equal(t, root, f.parent)
	assert.NotEqual(t, root.id, f.id)

	p.setCarg(f, expr.NumberExpr(7))
	p.setReptn(3)

	got := p.pop()
	assert.Equal(t, root, got)
	assert.Equal(t, root, p.cur)
	assert.Same(t, saved, p.carg)
	assert.Equal(t, root.reptn, p.reptn)
}

func TestAtEOFOnSizeOrEmbeddedNUL(t *testing.T) {
	f := newFrame("f", []byte("ab\x00cd"))
	assert.False(t, f.atEOF())
	f.srcptr = 2
	assert.True(t, f.atEOF(), "embedded NUL terminates the frame early")
	f.srcptr = len(f.text)
	assert.True(t, f.atEOF())
}

func TestRestartRepeatResetsCursorAndBumpsReptn(t *testing.T) {
	p := New()
	f := newFrame("rep", []byte("line\n"))
	f.srcptr = len(f.text)
	f.line = 3
	p.push(f)

	p.restartRepeat(f)
	assert.Equal(t, 0, f.srcptr)
	assert.Equal(t, 0, f.line)
	assert.Equal(t, 1, f.reptn)
	assert.Equal(t, 1, p.reptn)

	p.restartRepeat(f)
	assert.Equal(t, 2, f.reptn)
	assert.Equal(t, 2, p.reptn)
}

func TestIsMacroExpansion(t *testing.T) {
	f := newFrame("f", []byte(""))
	assert.False(t, f.isMacroExpansion(), "numParams defaults to -1 for a plain source frame")
	f.numParams = 0
	assert.True(t, f.isMacroExpansion(), "zero is a valid (argless) macro invocation")
}
