package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndWrap(t *testing.T) {
	e := New(ErrCodeInvalidRequest, "bad request")
	assert.Equal(t, ErrCodeInvalidRequest, e.Code)
	assert.Nil(t, e.Unwrap())

	cause := errors.New("underlying failure")
	wrapped := Wrap(ErrCodeInternal, "something broke", cause)
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.Contains(t, wrapped.Error(), "underlying failure")
}

func TestWrapWithContext(t *testing.T) {
	e := WrapWithContext(ErrCodeBadVersion, "bad version", nil, map[string]any{"field": "asOfVersion"})
	assert.Equal(t, "asOfVersion", e.Details["field"])
}

func TestLoadReport(t *testing.T) {
	report := &LoadReport{}
	assert.False(t, report.HasErrors())
	assert.NoError(t, report.AsReport())

	report.Add(New(ErrCodeUnknownSchemaField, "unexpected field foo"))
	report.Add(New(ErrCodeDanglingUnitReference, "unit bar not found"))

	require.True(t, report.HasErrors())
	err := report.AsReport()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 schema load error(s)")

	var got *LoadReport
	require.ErrorAs(t, err, &got)
	assert.Len(t, got.Errors, 2)
}
