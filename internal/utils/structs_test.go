package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID       int64   `db:"id"`
	Name     string  `db:"name,omitempty"`
	Note     *string `db:"note"`
	Ignored  string  `db:"-"`
	Untagged string
	hidden   string `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "note"}, StructTagValues(row{}))
	assert.Equal(t, []string{"id", "name", "note"}, StructTagValues(&row{}))
}

func TestStructTagValuesPanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructTagValues("nope") })
}

func TestStructToMap(t *testing.T) {
	m := StructToMap(&row{ID: 7, Name: "pothole", Note: StringPtr("deep"), hidden: "x"})

	require.Len(t, m, 3)
	assert.Equal(t, int64(7), m["id"])
	assert.Equal(t, "pothole", m["name"])
	assert.Equal(t, "deep", PtrString(m["note"].(*string)))
	assert.NotContains(t, m, "hidden")
}

func TestErrorWrapOrNil(t *testing.T) {
	assert.NoError(t, ErrorWrapOrNil(nil, "ignored"))

	base := assert.AnError
	assert.Same(t, base, ErrorWrapOrNil(base, ""))

	wrapped := ErrorWrapOrNil(base, "insert issue")
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "insert issue: "+base.Error(), wrapped.Error())
}

func TestRequestID(t *testing.T) {
	a, b := RequestID(), RequestID()
	assert.Len(t, a, RequestIDSize)
	assert.NotEqual(t, a, b)
	assert.Len(t, NanoIDSize(4), 4)
}
