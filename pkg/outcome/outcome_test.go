package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap("app.properties")
	m.Put("b", Outcome{Status: StatusValid, Value: "2"})
	m.Put("a", Outcome{Status: StatusValid, Value: "1"})
	m.Put("b", Outcome{Status: StatusDefault, Value: "3"})

	assert.Equal(t, []string{"b", "a"}, m.Names())

	got, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, StatusDefault, got.Status, "re-Put overwrites in place without changing position")
}

func TestSummarize(t *testing.T) {
	m := NewMap("app.properties")
	m.Put("a", Outcome{Status: StatusValid})
	m.Put("b", Outcome{Status: StatusError})
	m.Put("c", Outcome{Status: StatusWarn, Hidden: true})

	s := m.Summarize()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Valid)
	assert.Equal(t, 1, s.Errored)
	assert.Equal(t, 1, s.Warned)
	assert.Equal(t, 1, s.Hidden)
}

func TestNewMapStampsHeader(t *testing.T) {
	m := NewMap("app.properties")
	assert.Equal(t, Kind, m.Kind)
	assert.NotEmpty(t, m.Metadata["correlation-id"])
	assert.NotEmpty(t, m.Metadata["validated-at"])
}

func TestCheckErrorMerge(t *testing.T) {
	var merged *CheckError
	merged = merged.Merge(&CheckError{Kind: ErrUnitMismatch, Kinds: []ErrorKind{ErrUnitMismatch}, Message: "bad unit"})
	merged = merged.Merge(&CheckError{Kind: ErrInvalidType, Kinds: []ErrorKind{ErrInvalidType}, Message: "bad type"})

	require.NotNil(t, merged)
	assert.Equal(t, ErrUnitMismatch, merged.Kind, "primary kind stays the first one encountered")
	assert.ElementsMatch(t, []ErrorKind{ErrUnitMismatch, ErrInvalidType}, merged.Kinds)
}
