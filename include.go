package vasmpp

import (
	"vasmpp/internal/atom"
	"vasmpp/internal/fileinput"
)

// IncludeBinaryFile resolves name, reads [skip, skip+effectiveKeep) of it
// into a fresh data block, and attaches it as an atom, mirroring
// include_binary_file(name, skip, keep) from section 4.9. effectiveKeep is
// keep unless keep is 0 or exceeds size-skip, in which case it becomes
// size-skip. Reports ErrBadFileOffset (46) for an out-of-range skip; an
// empty resulting file is silently ignored.
func (p *Preprocessor) IncludeBinaryFile(name string, skip, keep int64) {
	size, err := fileinput.Size(name)
	if err != nil {
		p.reportGeneral(ErrBadFileOffset, "cannot locate %s: %v", name, err)
		return
	}
	if skip < 0 || skip > size {
		p.reportGeneral(ErrBadFileOffset, "bad file offset %d into %s", skip, name)
		return
	}
	effectiveKeep := keep
	if keep == 0 || keep > size-skip {
		effectiveKeep = size - skip
	}
	if effectiveKeep == 0 {
		return
	}
	data, err := fileinput.ReadRange(name, skip, effectiveKeep)
	if err != nil {
		p.reportGeneral(ErrBadFileOffset, "reading %s: %v", name, err)
		return
	}
	p.atoms.AddAtom(atom.NewDataAtom(&atom.DBlock{Data: data}, 1))
}
