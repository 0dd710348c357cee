package vasmpp

import (
	"vasmpp/internal/atom"
	"vasmpp/internal/logio"
)

// PreOption configures a Preprocessor at construction time, mirroring the
// teacher's VMOption functional-option pattern (options.go/api.go).
type PreOption func(*Preprocessor) error

// Options collapses a list of PreOptions into one, applying them in order
// and stopping at the first error - the same collapsing helper the teacher
// provides for its own VMOption list.
func Options(opts ...PreOption) PreOption {
	return func(p *Preprocessor) error {
		for _, opt := range opts {
			if opt == nil {
				continue
			}
			if err := opt(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithConfig replaces the preprocessor's tuning knobs wholesale.
func WithConfig(cfg Config) PreOption {
	return func(p *Preprocessor) error {
		p.cfg = cfg
		return nil
	}
}

// WithEscSequences toggles backslash escape decoding.
func WithEscSequences(on bool) PreOption {
	return func(p *Preprocessor) error { p.cfg.EscSequences = on; return nil }
}

// WithNoCaseMacros toggles case-insensitive macro name lookup.
func WithNoCaseMacros(on bool) PreOption {
	return func(p *Preprocessor) error { p.cfg.NoCaseMacros = on; return nil }
}

// WithNoCaseStructure toggles case-insensitive structure name lookup.
func WithNoCaseStructure(on bool) PreOption {
	return func(p *Preprocessor) error { p.cfg.NoCaseStructure = on; return nil }
}

// WithMaxMacParams sets the per-expansion parameter array size (10 or 36).
func WithMaxMacParams(n int) PreOption {
	return func(p *Preprocessor) error {
		if n <= 0 || n > MaxMacParamsHard {
			ierror("WithMaxMacParams: %d out of range", n)
		}
		p.cfg.MaxMacParams = n
		return nil
	}
}

// WithNamedMacParams enables \name substitution, disabling \a..\z.
func WithNamedMacParams(on bool) PreOption {
	return func(p *Preprocessor) error { p.cfg.NamedMacParams = on; return nil }
}

// WithStructureTypeLookup installs the syntax module's type-name table.
func WithStructureTypeLookup(table []TypeInfo) PreOption {
	return func(p *Preprocessor) error { p.cfg.StructureTypeLookup = table; return nil }
}

// WithListing enables listing-record emission.
func WithListing(on bool) PreOption {
	return func(p *Preprocessor) error { p.cfg.ListingEnabled = on; return nil }
}

// WithCommentChar sets the end-of-line comment character.
func WithCommentChar(c byte) PreOption {
	return func(p *Preprocessor) error { p.cfg.CommentChar = c; return nil }
}

// WithQualifiers installs the CPU collaborator's default instruction
// qualifiers, used by ExecuteMacro to promote a qualifier into \0 when the
// caller passed none explicitly.
func WithQualifiers(defq []string) PreOption {
	return func(p *Preprocessor) error {
		p.cfg.MaxQualifiers = len(defq)
		p.cfg.DefaultQualifiers = defq
		return nil
	}
}

// WithLogger installs a custom *logio.Logger backing the default
// ErrorReporter, in place of the stderr-backed one New installs.
func WithLogger(log *logio.Logger) PreOption {
	return func(p *Preprocessor) error {
		p.reporter = &loggingReporter{logf: log.Leveledf("")}
		return nil
	}
}

// WithErrorReporter installs a caller-supplied ErrorReporter, overriding the
// default logging one entirely.
func WithErrorReporter(r ErrorReporter) PreOption {
	return func(p *Preprocessor) error { p.reporter = r; return nil }
}

// WithSymbolTable installs a caller-supplied symbol-table collaborator, in
// place of the internal/symtab default.
func WithSymbolTable(t SymbolTable) PreOption {
	return func(p *Preprocessor) error { p.symtab = t; return nil }
}

// WithAtomSink installs a caller-supplied atom-layer collaborator, in place
// of the internal/atom default.
func WithAtomSink(s AtomSink) PreOption {
	return func(p *Preprocessor) error { p.atoms = s; return nil }
}

// WithOperandParser installs a caller-supplied operand-parser collaborator.
func WithOperandParser(op atom.OperandParser) PreOption {
	return func(p *Preprocessor) error { p.operandParser = op; return nil }
}
