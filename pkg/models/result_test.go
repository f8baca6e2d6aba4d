package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSetFlatten(t *testing.T) {
	rs := ResultSet{
		"b": {{Path: "b1"}, {Path: "b2"}},
		"a": {{Path: "a1"}},
		"c": nil,
	}

	flat := rs.Flatten()
	paths := make([]string, len(flat))
	for i, r := range flat {
		paths[i] = r.Path
	}

	assert.Equal(t, []string{"a1", "b1", "b2"}, paths)
	assert.Equal(t, 3, rs.Len())
}

func TestResultSetFlattenEmpty(t *testing.T) {
	var rs ResultSet
	assert.Empty(t, rs.Flatten())
	assert.Equal(t, 0, rs.Len())
}
