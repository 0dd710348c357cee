package vasmpp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasmpp/internal/atom"
)

// expandString is the small test harness every scenario below builds on: push
// src as the root frame and drive ExpandAll, returning each emitted line with
// its trailing newline (ExpandAll now yields NUL-stripped, newline-terminated
// lines - see line.go's cleanLine) trimmed for readable assertions.
func expandString(t *testing.T, p *Preprocessor, src string) []string {
	t.Helper()
	p.PushSource("test.s", []byte(src))
	var got []string
	for _, line := range p.ExpandAll() {
		got = append(got, strings.TrimRight(string(line), "\n"))
	}
	return got
}

// TestMacroPositionalExpansion exercises scenario S1: a macro with
// positional parameters (\1, \2) expands its body substituting each
// invocation argument.
func TestMacroPositionalExpansion(t *testing.T) {
	p := New()
	src := "macro greet\nhello \\1 and \\2\nendm\ngreet world,there\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"hello world and there"}, got)
}

// TestMacroQualifierSlot exercises \0, the qualifier slot reserved for a CPU
// qualifier string (empty when the invocation supplies none).
func TestMacroQualifierSlot(t *testing.T) {
	p := New()
	src := "macro noop\n[\\0]\nendm\nnoop\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"[]"}, got)
}

// TestMacroParamCount exercises \#, the argument-count substitution form.
func TestMacroParamCount(t *testing.T) {
	p := New()
	src := "macro count\nargs=\\#\nendm\ncount a,b,c\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"args=3"}, got)
}

// TestUniqueIDStackRoundTrip exercises scenario S2: push (\@!), insert below
// top (\@?), then pop (\@@) returns the id stack to depth 0 within a single
// macro expansion frame.
func TestUniqueIDStackRoundTrip(t *testing.T) {
	p := New()
	src := "macro once\n\\@!\n\\@?\n\\@@\nendm\nonce\n"
	p.PushSource("test.s", []byte(src))
	for _, line := range p.ExpandAll() {
		_ = line
	}
	assert.Equal(t, 0, p.ids.depth())
}

// TestUniqueIDLabelsAreFrameScoped exercises the \@ substitution form: each
// invocation of a macro gets a distinct frame id, so two invocations of the
// same macro produce two distinct generated labels.
func TestUniqueIDLabelsAreFrameScoped(t *testing.T) {
	p := New()
	src := "macro lbl\nL\\@:\nendm\nlbl\nlbl\n"
	got := expandString(t, p, src)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0], got[1])
	assert.True(t, strings.HasPrefix(got[0], "L_"))
	assert.True(t, strings.HasPrefix(got[1], "L_"))
}

// TestRepeatBody checks that a rept block replays its body count times.
func TestRepeatBody(t *testing.T) {
	p := New()
	src := "rept 3\nline\nendr\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"line", "line", "line"}, got)
}

func TestRepeatZeroCountDropsBody(t *testing.T) {
	p := New()
	src := "rept 0\nline\nendr\nafter\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"after"}, got)
}

// TestRepeatNestedInsideMacro exercises a repeat block opened from within a
// macro body, inheriting the macro's positional parameters.
func TestRepeatNestedInsideMacro(t *testing.T) {
	p := New()
	src := "macro thrice\nrept 3\ngot \\1\nendr\nendm\nthrice X\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"got X", "got X", "got X"}, got)
}

// TestStructureCompileAndInstantiate exercises scenario S4: a structure
// definition compiles into fields plus offset labels, and an instantiation
// emits one atom per field.
func TestStructureCompileAndInstantiate(t *testing.T) {
	p := New(WithStructureTypeLookup([]TypeInfo{
		{Name: "byte", Bitlen: 8},
		{Name: "word", Bitlen: 16},
	}))
	src := "struct point\nx word\ny word\nendstruct\npoint 1,2\n"
	p.PushSource("test.s", []byte(src))
	for range p.ExpandAll() {
	}

	st := p.lookupStructure("point")
	require.NotNil(t, st)
	want := []StructureField{
		{Name: "x", Bitsize: 16},
		{Name: "y", Bitsize: 16},
	}
	if diff := cmp.Diff(want, st.Fields); diff != "" {
		t.Fatalf("structure fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 32, st.LengthBits)
	assert.Len(t, p.atoms.(*atom.Section).Atoms, 2)
}

// TestStructureFieldOffsetLabels checks that addStructure published the
// expected "name.field" offset labels through the symbol-table collaborator.
func TestStructureFieldOffsetLabels(t *testing.T) {
	p := New(WithStructureTypeLookup([]TypeInfo{{Name: "word", Bitlen: 16}}))
	src := "struct point\nx word\ny word\nendstruct\n"
	p.PushSource("test.s", []byte(src))
	for range p.ExpandAll() {
	}

	sym := p.symtab.Lookup("point.y")
	require.NotNil(t, sym)
	assert.Equal(t, int64(2), sym.Expr.Val)
}

// TestMissingENDMReportsSyntaxError exercises scenario S5: a macro body that
// never closes is a recoverable error, not a fatal one - the pump reports it
// and still terminates cleanly instead of hanging.
func TestMissingENDMReportsSyntaxError(t *testing.T) {
	rep := &recordingReporter{}
	p := New(WithErrorReporter(rep))
	src := "macro broken\nnever closes\n"
	got := expandString(t, p, src)
	assert.Empty(t, got)
	assert.Equal(t, []int{ErrMissingENDM}, rep.syntax)
}

// TestAngleBracketCollapse exercises scenario S6: a doubled '>>' inside an
// angle-bracketed macro argument collapses to a single '>'.
func TestAngleBracketCollapse(t *testing.T) {
	p := New()
	src := "macro echo\n[\\1]\nendm\necho <a>>b>\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"[a>b]"}, got)
}

func TestLeaveMacroOutsideMacroReportsError(t *testing.T) {
	rep := &recordingReporter{}
	p := New(WithErrorReporter(rep))
	_ = expandString(t, p, "exitm\n")
	assert.Equal(t, []int{ErrExitMacroNoMacro}, rep.general)
}

func TestExitMStopsExpansionEarly(t *testing.T) {
	p := New()
	src := "macro early\nfirst\nexitm\nsecond\nendm\nearly\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"first"}, got)
}

// TestNestedMacroDefinitionReportsError exercises the "macro definition
// inside macro" diagnostic (error 26): a `macro` directive encountered
// while the current frame is itself a macro expansion is a recoverable
// error, mirroring new_macro's nparam>=0/cur_macro!=NULL check.
func TestNestedMacroDefinitionReportsError(t *testing.T) {
	rep := &recordingReporter{}
	p := New(WithErrorReporter(rep))
	src := "macro outer\nmacro inner\nx\nendm\nendm\nouter\n"
	_ = expandString(t, p, src)
	assert.Contains(t, rep.syntax, ErrMacroInMacro)
}

// TestTooManyMacroArgsClampsToMaxMinusOne exercises spec.md's testable
// property: passing maxmacparams+1 arguments raises error 27 and the
// expansion sees exactly maxmacparams-1 parameters - not maxmacparams-2,
// which an off-by-one in the overflow branch previously produced.
func TestTooManyMacroArgsClampsToMaxMinusOne(t *testing.T) {
	rep := &recordingReporter{}
	p := New(WithErrorReporter(rep), WithMaxMacParams(10))
	src := "macro m\ncount=\\#\nninth=\\9\nendm\nm a,b,c,d,e,f,g,h,i,j\n"
	got := expandString(t, p, src)
	require.Equal(t, []string{"count=9", "ninth=i"}, got)
	assert.Equal(t, []int{ErrTooManyArgs}, rep.syntax)
}
