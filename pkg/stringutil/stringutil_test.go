/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package stringutil

import (
	"strings"
	"testing"

	"gotest.tools/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, NormalizeName("Word_Count"), "word-count")
	assert.Equal(t, NormalizeName("  book_words \n"), "book-words")
	assert.Equal(t, NormalizeName("already-fine"), "already-fine")
	assert.Equal(t, NormalizeName(""), "")
}

func TestRandomTag(t *testing.T) {
	tag, err := RandomTag(5)
	assert.NilError(t, err)
	assert.Equal(t, len(tag), 5)
	for _, c := range tag {
		assert.Assert(t, strings.ContainsRune(tagAlphabet, c), "unexpected character %q", c)
	}

	// Two tags colliding would make this test flaky once in ~60 million
	// runs; good enough to catch a broken random source.
	other, err := RandomTag(5)
	assert.NilError(t, err)
	assert.Assert(t, tag != other)
}

func TestRandomAlphanumeric(t *testing.T) {
	password, err := RandomAlphanumeric(32)
	assert.NilError(t, err)
	assert.Equal(t, len(password), 32)
	for _, c := range password {
		assert.Assert(t, strings.ContainsRune(passwordAlphabet, c), "unexpected character %q", c)
	}
}
