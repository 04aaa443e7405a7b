package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgerrors "github.com/stackabletech/product-config/pkg/errors"
)

func TestParse(t *testing.T) {
	v, err := Parse("0.9.11")
	require.NoError(t, err)
	assert.Equal(t, "0.9.11", v.String())

	_, err = Parse("a.bc.2")
	require.Error(t, err)
	var se *cfgerrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, cfgerrors.ErrCodeBadVersion, se.Code)

	_, err = Parse("")
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"1.0", "1.0.0", 0},
		{"1", "1.0.0", 0},
		{"2", "1.99.99", 1},
		{"0.5.0", "0.9.11", -1},
	}
	for _, c := range cases {
		a := MustParse(c.a)
		b := MustParse(c.b)
		assert.Equalf(t, c.want, a.Compare(b), "compare(%s, %s)", c.a, c.b)
	}
}

func TestRangeContains(t *testing.T) {
	from := MustParse("0.5.0")
	to := MustParse("1.0.0")
	r := Range{From: from, To: &to}

	assert.True(t, r.Contains(MustParse("0.5.0")))
	assert.True(t, r.Contains(MustParse("0.9.11")))
	assert.False(t, r.Contains(MustParse("1.0.0")))
	assert.False(t, r.Contains(MustParse("0.4.9")))

	unbounded := Range{From: from}
	assert.True(t, unbounded.Contains(MustParse("999.0.0")))
}

func TestRangeOverlaps(t *testing.T) {
	to1 := MustParse("1.0.0")
	r1 := Range{From: MustParse("0.5.0"), To: &to1}
	r2 := Range{From: MustParse("1.0.0")}
	assert.False(t, r1.Overlaps(r2))

	to2 := MustParse("1.0.1")
	r3 := Range{From: MustParse("0.5.0"), To: &to2}
	assert.True(t, r3.Overlaps(r2))
}
