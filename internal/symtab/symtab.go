// Package symtab implements the minimal symbol table the preprocessor core
// needs from its "symbol table" collaborator: internal built-in symbols
// (CARG, REPTN) plus absolute symbols defined by the structure compiler.
// Spec.md scopes the real symbol table out of this repository, so this
// stays a small map-backed implementation rather than a full linker symbol
// table.
package symtab

import (
	"strings"

	"vasmpp/internal/expr"
)

// Symbol is an absolute (constant-valued) symbol.
type Symbol struct {
	Name string
	Expr *expr.Expr
}

// Table is a name-indexed symbol table, built-ins and structure/field labels
// alike. The zero value is ready to use.
type Table struct {
	syms map[string]*Symbol
}

func (t *Table) ensure() {
	if t.syms == nil {
		t.syms = make(map[string]*Symbol)
	}
}

// InternalAbs returns the symbol with the given name, creating it (value 0)
// if absent, mirroring internal_abs(name).
func (t *Table) InternalAbs(name string) *Symbol {
	t.ensure()
	if s, ok := t.syms[name]; ok {
		return s
	}
	s := &Symbol{Name: name, Expr: expr.NumberExpr(0)}
	t.syms[name] = s
	return s
}

// SetInternalAbs sets a built-in symbol's value, mirroring
// set_internal_abs(name, value).
func (t *Table) SetInternalAbs(name string, value int64) {
	t.InternalAbs(name).Expr = expr.NumberExpr(value)
}

// NewAbs defines (or redefines) an absolute symbol with the given
// expression, mirroring new_abs(name, expr).
func (t *Table) NewAbs(name string, e *expr.Expr) *Symbol {
	t.ensure()
	s := &Symbol{Name: name, Expr: e}
	t.syms[name] = s
	return s
}

// Lookup returns the named symbol, or nil if undefined.
func (t *Table) Lookup(name string) *Symbol {
	t.ensure()
	return t.syms[name]
}

// MakeLocalLabel composes a scoped local label name, mirroring
// make_local_label(scope, scope_len, local, local_len). The preprocessor
// uses this for "<structname>.<fieldname>" struct field offset labels.
func MakeLocalLabel(scope, local string) string {
	var b strings.Builder
	b.Grow(len(scope) + len(local))
	b.WriteString(scope)
	b.WriteString(local)
	return b.String()
}
