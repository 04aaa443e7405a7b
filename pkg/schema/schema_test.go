package schema

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgerrors "github.com/stackabletech/product-config/pkg/errors"
	"github.com/stackabletech/product-config/pkg/version"
)

const validDoc = `
formatVersion: v1
units:
  - name: memory
    pattern: '\d+(?=[kmgKMG]i?b)[kmgKMG]i?b'
properties:
  - name: log.level
    datatype:
      kind: string
      allowedValues: ["INFO", "DEBUG", "WARN"]
    defaults:
      - from: "0.0.0"
        value: "INFO"
    recommendations:
      - from: "0.0.0"
        value: "WARN"
    roles:
      - role: master
        required: true
  - name: log.level.worker
    datatype:
      kind: string
      allowedValues: ["INFO", "DEBUG", "WARN"]
    roles:
      - role: worker
        noCopy: false
  - name: broker.memory
    datatype:
      kind: integer
      unit: memory
      min: "1"
`

func TestLoadValid(t *testing.T) {
	sch, err := Load(strings.NewReader(validDoc))
	require.NoError(t, err)
	require.NotNil(t, sch)
	assert.Equal(t, 3, sch.Len())

	p, ok := sch.Lookup("log.level")
	require.True(t, ok)
	assert.True(t, p.RequiredForRole("master"))

	def, ok := p.DefaultFor(version.MustParse("1.0.0"))
	require.True(t, ok)
	assert.Equal(t, "INFO", def)
}

func TestLoadDanglingUnitReference(t *testing.T) {
	doc := `
properties:
  - name: p
    datatype:
      kind: integer
      unit: nonexistent
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	found := false
	for _, e := range report.Errors {
		if e.Code == cfgerrors.ErrCodeDanglingUnitReference {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadDanglingPropertyReference(t *testing.T) {
	doc := `
properties:
  - name: a
    datatype:
      kind: bool
`
	// mutate via YAML to add an expandsTo pointing nowhere
	doc = strings.TrimSuffix(doc, "\n") + "\n    expandsTo:\n      - target: b\n"
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	assert.Equal(t, cfgerrors.ErrCodeDanglingPropertyReference, report.Errors[0].Code)
}

func TestLoadCyclicExpansion(t *testing.T) {
	doc := `
properties:
  - name: a
    datatype:
      kind: bool
    expandsTo:
      - target: b
  - name: b
    datatype:
      kind: bool
    expandsTo:
      - target: a
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	found := false
	for _, e := range report.Errors {
		if e.Code == cfgerrors.ErrCodeCyclicExpansion {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadOverlappingVersionRanges(t *testing.T) {
	doc := `
properties:
  - name: a
    datatype:
      kind: bool
    defaults:
      - from: "0.0.0"
        to: "2.0.0"
        value: "true"
      - from: "1.0.0"
        value: "false"
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	assert.Equal(t, cfgerrors.ErrCodeOverlappingVersionRanges, report.Errors[0].Code)
}

func TestLoadDefaultFailsOwnDatatype(t *testing.T) {
	doc := `
properties:
  - name: a
    datatype:
      kind: integer
      min: "1"
    defaults:
      - from: "0.0.0"
        value: "not-a-number"
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	found := false
	for _, e := range report.Errors {
		if e.Code == cfgerrors.ErrCodeSchemaDefaultFailsValidation {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadRecommendationFailsOwnDatatype(t *testing.T) {
	doc := `
properties:
  - name: a
    datatype:
      kind: integer
      min: "1"
      max: "10"
    recommendations:
      - from: "0.0.0"
        value: "99"
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	assert.Equal(t, cfgerrors.ErrCodeSchemaDefaultFailsValidation, report.Errors[0].Code)
}

func TestLoadExpansionForcedValueFailsTargetDatatype(t *testing.T) {
	doc := `
properties:
  - name: a
    datatype:
      kind: bool
    expandsTo:
      - target: b
        forcedValue: "not-a-bool"
  - name: b
    datatype:
      kind: bool
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	found := false
	for _, e := range report.Errors {
		if e.Code == cfgerrors.ErrCodeSchemaDefaultFailsValidation {
			found = true
		}
	}
	assert.True(t, found)
}

const multiNameDoc = `
properties:
  - name: log.level
    datatype:
      kind: string
      allowedValues: ["INFO", "DEBUG"]
    names:
      - kind: env
        name: LOG_LEVEL
      - kind: file
        file: log4j.properties
        name: log4j.logger.root
`

func TestLoadResolvesMultipleNames(t *testing.T) {
	sch, err := Load(strings.NewReader(multiNameDoc))
	require.NoError(t, err)

	p, ok := sch.Lookup("log.level")
	require.True(t, ok)

	envNames := p.NamesForFileTarget("env")
	require.Len(t, envNames, 1)
	assert.Equal(t, "LOG_LEVEL", envNames[0].Name)

	fileNames := p.NamesForFileTarget("log4j.properties")
	require.Len(t, fileNames, 1)
	assert.Equal(t, "log4j.logger.root", fileNames[0].Name)

	assert.Empty(t, p.NamesForFileTarget("other.properties"))
}

func TestLoadNameMissingFileIsRejected(t *testing.T) {
	doc := `
properties:
  - name: a
    datatype:
      kind: bool
    names:
      - kind: file
        name: whatever
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	var report *cfgerrors.LoadReport
	require.ErrorAs(t, err, &report)
	assert.Equal(t, cfgerrors.ErrCodeUnknownSchemaField, report.Errors[0].Code)
}

func TestLoadUnknownField(t *testing.T) {
	doc := `
properties:
  - name: a
    bogusField: 1
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLoadFileConcurrentCallsReturnSamePointer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	var wg sync.WaitGroup
	results := make([]*Schema, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sch, err := LoadFile(path)
			require.NoError(t, err)
			results[i] = sch
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		assert.Same(t, results[0], results[i])
	}
}
