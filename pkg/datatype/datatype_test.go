package datatype

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackabletech/product-config/pkg/outcome"
	"github.com/stackabletech/product-config/pkg/unit"
)

func dec(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestCheckBool(t *testing.T) {
	c := Constraint{Kind: KindBool}
	assert.Nil(t, c.Check("true"))
	assert.Nil(t, c.Check("false"))

	err := c.Check("yes")
	require.NotNil(t, err)
	assert.Equal(t, outcome.ErrInvalidType, err.Kind)
}

func TestCheckBoolRejectsParseBoolSpellings(t *testing.T) {
	c := Constraint{Kind: KindBool}
	for _, v := range []string{"1", "0", "t", "T", "TRUE", "True", "f", "F", "FALSE", "False"} {
		err := c.Check(v)
		require.NotNilf(t, err, "%q must not be accepted as a boolean", v)
		assert.Equal(t, outcome.ErrInvalidType, err.Kind)
	}
}

func TestCheckIntegerBounds(t *testing.T) {
	c := Constraint{Kind: KindInteger, Min: dec("1"), Max: dec("10")}
	assert.Nil(t, c.Check("5"))

	err := c.Check("0")
	require.NotNil(t, err)
	assert.Equal(t, outcome.ErrOutOfBounds, err.Kind)

	err = c.Check("11")
	require.NotNil(t, err)
	assert.Equal(t, outcome.ErrOutOfBounds, err.Kind)

	err = c.Check("5.5")
	require.NotNil(t, err)
	assert.Equal(t, outcome.ErrInvalidType, err.Kind)
}

func TestCheckFloatWithUnit(t *testing.T) {
	u, err := unit.Compile("memory", `\d+(?=[kmgKMG]i?b)[kmgKMG]i?b`)
	require.NoError(t, err)

	c := Constraint{Kind: KindFloat, Unit: u, UnitName: "memory", Min: dec("1"), Max: dec("1024")}
	assert.Nil(t, c.Check("512mib"))

	err2 := c.Check("512")
	require.NotNil(t, err2)
	assert.Equal(t, outcome.ErrUnitMismatch, err2.Kind)
}

func TestCheckStringLength(t *testing.T) {
	minLen, maxLen := 2, 5
	c := Constraint{Kind: KindString, MinLength: &minLen, MaxLength: &maxLen}
	assert.Nil(t, c.Check("abc"))

	err := c.Check("a")
	require.NotNil(t, err)
	assert.Equal(t, outcome.ErrOutOfBounds, err.Kind)

	err = c.Check("abcdef")
	require.NotNil(t, err)
	assert.Equal(t, outcome.ErrOutOfBounds, err.Kind)
}

func TestCheckAllowedValues(t *testing.T) {
	c := Constraint{Kind: KindString, AllowedValues: []string{"INFO", "DEBUG", "WARN"}}
	assert.Nil(t, c.Check("DEBUG"))

	err := c.Check("TRACE")
	require.NotNil(t, err)
	assert.Equal(t, outcome.ErrNotAllowed, err.Kind)
}

func TestCheckBothAllowedAndUnitFail(t *testing.T) {
	u, err := unit.Compile("percent", `\d{1,3}%`)
	require.NoError(t, err)

	c := Constraint{
		Kind:          KindFloat,
		Unit:          u,
		UnitName:      "percent",
		AllowedValues: []string{"50%", "100%"},
	}

	got := c.Check("abc")
	require.NotNil(t, got)
	assert.Contains(t, got.Kinds, outcome.ErrUnitMismatch)
	assert.Contains(t, got.Kinds, outcome.ErrInvalidType)
	assert.Contains(t, got.Kinds, outcome.ErrNotAllowed)
}
