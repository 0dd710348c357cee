package vasmpp

import (
	"fmt"
	"io"
	"strings"

	"vasmpp/internal/atom"
	"vasmpp/internal/runeio"
)

// DumpListing writes one human-readable line per ListingRecord to w,
// adapted from the teacher's dumper.go: control characters in the
// materialized text are rendered through internal/runeio's caret forms
// rather than printed raw, so a listing stays legible even when a macro
// expansion produced an odd escape byte.
func (p *Preprocessor) DumpListing(w io.Writer) error {
	for _, rec := range p.Listing {
		if _, err := fmt.Fprintf(w, "%s:%d: %s\n", rec.Source, rec.Line, visibleText(rec.Text)); err != nil {
			return err
		}
	}
	return nil
}

// visibleText renders s up to its first NUL, with any other control
// character replaced by its caret form (e.g. "^C"), mirroring the
// teacher's use of internal/runeio for readable dumps of raw VM memory.
func visibleText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == 0 {
			break // NUL terminator
		}
		if caret := runeio.CaretForm(r); caret != "" {
			b.WriteString(caret)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DumpAtoms writes one line per atom in section, mirroring the teacher's
// dumper.go writing one stack/memory entry per line.
func DumpAtoms(w io.Writer, section *atom.Section) error {
	for i, a := range section.Atoms {
		if _, err := fmt.Fprintf(w, "%4d: %s\n", i, a); err != nil {
			return err
		}
	}
	return nil
}
