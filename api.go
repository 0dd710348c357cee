package vasmpp

import (
	"context"
	"io"
	"os"

	"vasmpp/internal/atom"
	"vasmpp/internal/expr"
	"vasmpp/internal/logio"
	"vasmpp/internal/panicerr"
	"vasmpp/internal/symtab"
)

// SymbolTable is the symbol-table collaborator spec.md section 6 names:
// internal_abs, set_internal_abs and new_abs, plus Lookup. make_local_label
// is the plain function internal/symtab.MakeLocalLabel, not part of this
// interface. The default implementation is internal/symtab.Table.
type SymbolTable interface {
	InternalAbs(name string) *symtab.Symbol
	SetInternalAbs(name string, value int64)
	NewAbs(name string, e *expr.Expr) *symtab.Symbol
	Lookup(name string) *symtab.Symbol
}

// AtomSink is the atom-layer collaborator spec.md section 6 names: add_atom
// against "the current section". The default implementation is
// internal/atom.Section.
type AtomSink interface {
	AddAtom(a *atom.Atom)
}

// ListingRecord is one entry of the preprocessor's listing output, mirroring
// the read_next_line listing hook in section 4.8 step 5. parse.c represents
// these as a linked list (first_listing/cur_listing); an append-only slice
// is the idiomatic Go equivalent.
type ListingRecord struct {
	Source string
	Line   int
	Text   string
}

// Preprocessor is the Go-native replacement for the C implementation's
// process-wide globals (cur_src, cur_macro, cur_struct, enddir_list,
// id_stack, first_macro, first_struct, macrohash, structhash, CARGSYM,
// REPTNSYM): a single value threading the whole source-stack/definition-
// capture/line-materializer state, per spec.md section 9's own redesign
// note.
type Preprocessor struct {
	cfg Config

	cur       *Frame
	curMacro  *Macro
	curStruct *Structure
	capture   *captureState
	// pendingRepeat holds a just-completed repeat capture's descriptor
	// until ReadNextLine can invoke startRepeat with it.
	pendingRepeat *captureState

	ids idStack

	macros  map[string]*Macro
	structs map[string]*Structure

	carg  *expr.Expr
	reptn int

	reporter      ErrorReporter
	symtab        SymbolTable
	atoms         AtomSink
	operandParser atom.OperandParser

	frameSeq uint64

	// Listing collects ListingRecords when cfg.ListingEnabled is set.
	Listing []ListingRecord
}

// New constructs a Preprocessor, applying DefaultConfig and then the given
// options in order, mirroring the teacher's New(opts ...VMOption) pattern.
func New(opts ...PreOption) *Preprocessor {
	p := &Preprocessor{
		cfg:     DefaultConfig(),
		macros:  make(map[string]*Macro),
		structs: make(map[string]*Structure),
		carg:    expr.NumberExpr(1),
	}
	log := &logio.Logger{}
	log.SetOutput(stdoutNoCloser{os.Stderr})
	p.reporter = &loggingReporter{logf: log.Leveledf("")}
	p.symtab = &symtab.Table{}
	p.atoms = &atom.Section{}
	p.operandParser = atom.DefaultOperandParser{}

	if err := Options(opts...)(p); err != nil {
		ierror("New: %v", err)
	}
	return p
}

type stdoutNoCloser struct{ io.Writer }

func (stdoutNoCloser) Close() error { return nil }

// PushSource loads name's source text as the new root frame, mirroring the
// caller driving new_source+push for the top-level file.
func (p *Preprocessor) PushSource(name string, text []byte) {
	p.push(newFrame(name, text))
}

// Run drives nextEmittedLine to exhaustion, writing each expanded,
// NUL-stripped, newline-terminated line to out, and recovers any
// internal-invariant panic via internal/panicerr.Recover - the same
// goroutine-isolated recovery discipline the teacher's Core.Run uses to
// turn a VM panic into a plain error for its caller.
func (p *Preprocessor) Run(ctx context.Context, out io.Writer) error {
	return panicerr.Recover("vasmpp", func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			line, ok := p.nextEmittedLine()
			if !ok {
				return nil
			}
			if _, err := out.Write(line); err != nil {
				return err
			}
		}
	})
}

func (p *Preprocessor) nextFrameID() uint64 {
	p.frameSeq++
	return p.frameSeq
}

func (p *Preprocessor) reportGeneral(code int, format string, args ...interface{}) {
	p.reporter.GeneralError(code, format, args...)
}

func (p *Preprocessor) reportSyntax(code int, format string, args ...interface{}) {
	line := 0
	if p.cur != nil {
		line = p.cur.line
	}
	p.reporter.SyntaxError(code, line, format, args...)
}

// setCarg replaces the shared CARG expression, publishing it through the
// injected symbol table so an expression evaluator observes the same value
// a real CARGSYM lookup would see.
func (p *Preprocessor) setCarg(f *Frame, e *expr.Expr) {
	p.carg = e
	if p.symtab != nil {
		p.symtab.NewAbs("CARG", e)
	}
	_ = f
}

// setReptn publishes the current repeat iteration through REPTNSYM.
func (p *Preprocessor) setReptn(n int) {
	p.reptn = n
	if p.symtab != nil {
		p.symtab.SetInternalAbs("REPTN", int64(n))
	}
}
