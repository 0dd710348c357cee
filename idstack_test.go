package vasmpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingReporter captures reported codes for assertions without needing a
// real io.Writer-backed logger.
type recordingReporter struct {
	general []int
	syntax  []int
}

func (r *recordingReporter) GeneralError(code int, _ string, _ ...interface{}) {
	r.general = append(r.general, code)
}

func (r *recordingReporter) SyntaxError(code int, _ int, _ string, _ ...interface{}) {
	r.syntax = append(r.syntax, code)
}

func TestIDStackPushPopRoundTrip(t *testing.T) {
	var s idStack
	p := &Preprocessor{reporter: &recordingReporter{}}
	s.push(p, 7)
	require.Equal(t, 1, s.depth())
	assert.Equal(t, uint64(7), s.pop(p))
	assert.Equal(t, 0, s.depth())
}

// TestIDStackInsertBelowTopIsDepthNeutral exercises scenario S2: push, then
// insert-below-top, then pop must return the stack to depth 0 - see
// DESIGN.md's idstack.go entry for why insertBelowTop must not grow n.
func TestIDStackInsertBelowTopIsDepthNeutral(t *testing.T) {
	var s idStack
	p := &Preprocessor{reporter: &recordingReporter{}}
	s.push(p, 1)
	s.insertBelowTop(p, 99)
	require.Equal(t, 1, s.depth())
	assert.Equal(t, uint64(99), s.pop(p))
	assert.Equal(t, 0, s.depth())
}

func TestIDStackInsertBelowTopAtDepthTwo(t *testing.T) {
	var s idStack
	p := &Preprocessor{reporter: &recordingReporter{}}
	s.push(p, 1)
	s.push(p, 2)
	s.insertBelowTop(p, 42)
	require.Equal(t, 2, s.depth())
	assert.Equal(t, uint64(2), s.pop(p))
	assert.Equal(t, uint64(42), s.pop(p))
}

func TestIDStackUnderflowReports(t *testing.T) {
	var s idStack
	rep := &recordingReporter{}
	p := &Preprocessor{reporter: rep}
	got := s.pop(p)
	assert.Equal(t, uint64(0), got)
	assert.Equal(t, []int{ErrIDStackUnderflow}, rep.general)
}

func TestIDStackInsertOnEmptyReports(t *testing.T) {
	var s idStack
	rep := &recordingReporter{}
	p := &Preprocessor{reporter: rep}
	s.insertBelowTop(p, 1)
	assert.Equal(t, []int{ErrIDStackInsertEmpty}, rep.general)
}

func TestIDStackOverflowReports(t *testing.T) {
	var s idStack
	rep := &recordingReporter{}
	p := &Preprocessor{reporter: rep}
	for i := 0; i < IDStackSize; i++ {
		s.push(p, uint64(i))
	}
	require.Empty(t, rep.general)
	s.push(p, 999)
	assert.Equal(t, []int{ErrIDStackOverflow}, rep.general)
	assert.Equal(t, IDStackSize, s.depth())
}
