// Package atom implements the minimal atom/data-block sink the preprocessor
// core needs from its "atom layer" collaborator: enough to emit the bytes a
// structure instantiation or a binary include produces. Spec.md scopes the
// real atom layer (section/relocation/object-format aware) out of this
// repository, so this stays a small append-only sink.
package atom

import "fmt"

// DBlock is an owned byte buffer, mirroring dblock.
type DBlock struct {
	Data []byte
}

// NewDBlock allocates an empty data block, mirroring new_dblock().
func NewDBlock() *DBlock { return &DBlock{} }

// Kind distinguishes the atoms this minimal sink can hold.
type Kind int

const (
	// DataKind is a raw byte block repeated Multiplier times.
	DataKind Kind = iota
	// DatadefKind is an operand-derived data definition of Bitsize width.
	DatadefKind
	// SpaceKind is Count repetitions of a Bitsize-wide Fill value.
	SpaceKind
)

// Atom is one emitted unit of data, mirroring the atom contract just enough
// for execute_struct and include_binary_file to record their output.
type Atom struct {
	Kind       Kind
	Block      *DBlock
	Multiplier int
	Bitsize    int
	Operand    *Operand
	Count      int64
	Fill       int64
}

// NewDataAtom builds a DataKind atom, mirroring new_data_atom(db, multiplier).
func NewDataAtom(db *DBlock, multiplier int) *Atom {
	return &Atom{Kind: DataKind, Block: db, Multiplier: multiplier}
}

// NewDatadefAtom builds a DatadefKind atom, mirroring
// new_datadef_atom(bitsize, operand).
func NewDatadefAtom(bitsize int, op *Operand) *Atom {
	return &Atom{Kind: DatadefKind, Bitsize: bitsize, Operand: op}
}

// NewSpaceAtom builds a SpaceKind atom, mirroring
// new_space_atom(count, bytesize, fill).
func NewSpaceAtom(count int64, byteSize int, fill int64) *Atom {
	return &Atom{Kind: SpaceKind, Count: count, Bitsize: byteSize * 8, Fill: fill}
}

// Operand is a parsed operand, mirroring the operand contract. Text retains
// the raw operand text since this minimal sink has no real expression
// backend to resolve it against.
type Operand struct {
	Text string
}

// NewOperand allocates an empty operand, mirroring new_operand().
func NewOperand() *Operand { return &Operand{} }

// DataOperand mirrors the DATA_OPERAND(bitsize) macro/constant: an operand
// kind tag keyed by the field width it must fit.
func DataOperand(bitsize int) int { return bitsize }

// OperandParser mirrors parse_operand(start, len, op, kind): a
// syntax-module collaborator the preprocessor calls to turn raw operand text
// into a parsed Operand. The default implementation below accepts any
// non-empty text; a real syntax module would validate against its grammar.
type OperandParser interface {
	ParseOperand(text string, op *Operand, kind int) bool
}

// DefaultOperandParser accepts whitespace-trimmed, non-empty operand text
// verbatim. It is the stand-in used when no syntax-specific parser is
// injected, matching the fact that spec.md treats the real operand parser as
// an out-of-scope collaborator.
type DefaultOperandParser struct{}

// ParseOperand implements OperandParser.
func (DefaultOperandParser) ParseOperand(text string, op *Operand, _ int) bool {
	if text == "" {
		return false
	}
	op.Text = text
	return true
}

// Section is an ordered append-only sink of emitted atoms, mirroring
// add_atom(section, atom) with section modeled as *Section rather than an
// opaque pointer (structure instantiation always targets "the current
// section", so one sink is enough for this core).
type Section struct {
	Atoms []*Atom
}

// AddAtom appends a to the section, mirroring add_atom(section, atom).
func (s *Section) AddAtom(a *Atom) { s.Atoms = append(s.Atoms, a) }

func (a *Atom) String() string {
	switch a.Kind {
	case DataKind:
		return fmt.Sprintf("data(%d bytes x%d)", len(a.Block.Data), a.Multiplier)
	case DatadefKind:
		return fmt.Sprintf("datadef(%d-bit %q)", a.Bitsize, a.Operand.Text)
	case SpaceKind:
		return fmt.Sprintf("space(%d x %d-bit fill=%d)", a.Count, a.Bitsize, a.Fill)
	default:
		return "atom(?)"
	}
}
