package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstexpr(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in      string
		want    int64
		wantErr bool
		rest    string
	}{
		{name: "decimal", in: "42", want: 42},
		{name: "hex", in: "0x2a", want: 42},
		{name: "char literal", in: "'A'", want: 65},
		{name: "add", in: "1+2", want: 3},
		{name: "precedence", in: "2+3*4", want: 14},
		{name: "parens", in: "(2+3)*4", want: 20},
		{name: "unary minus", in: "-5+1", want: -4},
		{name: "division", in: "10/3", want: 3},
		{name: "division by zero", in: "10/0", wantErr: true},
		{name: "trailing garbage kept", in: "5,foo", want: 5, rest: ",foo"},
		{name: "bad input", in: "+", wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.in
			v, err := ParseConstexpr(&s)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
			assert.Equal(t, tc.rest, s)
		})
	}
}

func TestSimplifyExpr(t *testing.T) {
	e := MakeExpr(ADD, NumberExpr(2), MakeExpr(MUL, NumberExpr(3), NumberExpr(4)))
	got := SimplifyExpr(e)
	require.True(t, got.IsNum())
	assert.Equal(t, int64(14), got.Val)
}

func TestSimplifyNeg(t *testing.T) {
	e := MakeExpr(NEG, NumberExpr(7), nil)
	got := SimplifyExpr(e)
	require.True(t, got.IsNum())
	assert.Equal(t, int64(-7), got.Val)
}

func TestCopyTreeIndependence(t *testing.T) {
	orig := MakeExpr(ADD, NumberExpr(1), NumberExpr(2))
	cp := CopyTree(orig)
	cp.A.Val = 99
	assert.Equal(t, int64(1), orig.A.Val)
	assert.Equal(t, int64(99), cp.A.Val)
}
