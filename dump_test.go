package vasmpp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasmpp/internal/atom"
)

func TestDumpListingRendersControlCharacters(t *testing.T) {
	p := New(WithListing(true))
	p.Listing = append(p.Listing, ListingRecord{Source: "main.s", Line: 1, Text: "ok\x01done"})

	var buf bytes.Buffer
	require.NoError(t, p.DumpListing(&buf))
	assert.Contains(t, buf.String(), "main.s:1:")
	assert.Contains(t, buf.String(), "ok^Adone")
}

func TestDumpListingStopsAtNUL(t *testing.T) {
	p := New()
	p.Listing = append(p.Listing, ListingRecord{Source: "main.s", Line: 1, Text: "line\x00garbage"})

	var buf bytes.Buffer
	require.NoError(t, p.DumpListing(&buf))
	assert.Equal(t, "main.s:1: line\n", buf.String())
}

func TestDumpAtomsWritesOneLinePerAtom(t *testing.T) {
	sec := &atom.Section{}
	sec.AddAtom(atom.NewDataAtom(&atom.DBlock{Data: []byte("ab")}, 1))
	sec.AddAtom(atom.NewSpaceAtom(4, 2, 0))

	var buf bytes.Buffer
	require.NoError(t, DumpAtoms(&buf, sec))
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "data(2 bytes x1)")
	assert.Contains(t, string(lines[1]), "space(4 x 16-bit fill=0)")
}
