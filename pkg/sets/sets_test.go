/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package sets

import (
	"testing"

	"gotest.tools/assert"
)

func TestSet(t *testing.T) {
	s := NewSetByKeys("job-a", "job-b")
	assert.Equal(t, s.Len(), 2)
	assert.Equal(t, s.Has("job-a"), true)
	assert.Equal(t, s.Has("job-c"), false)

	s.Insert("job-c")
	assert.Equal(t, s.Has("job-c"), true)

	s.Delete("job-a")
	assert.Equal(t, s.Has("job-a"), false)
	assert.Equal(t, s.Len(), 2)
}

func TestNilSetHas(t *testing.T) {
	var s Set
	assert.Equal(t, s.Has("anything"), false)
}
