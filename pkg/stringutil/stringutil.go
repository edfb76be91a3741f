/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package stringutil

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// tagAlphabet is the character set for job name tags. Lowercase alphanumeric
// only, so the result stays a valid DNS label.
const tagAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// passwordAlphabet is the character set for generated credentials.
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NormalizeName converts string to lowercase, trims whitespace, and replaces
// underscores with hyphens, yielding a DNS-safe fragment.
func NormalizeName(str string) string {
	if str == "" {
		return ""
	}
	str = strings.ToLower(str)
	str = strings.TrimSpace(str)
	str = strings.ReplaceAll(str, "_", "-")
	str = strings.ReplaceAll(str, "\n", "")
	str = strings.ReplaceAll(str, "\r", "")
	return str
}

// RandomTag returns n random characters drawn from a lowercase alphanumeric
// alphabet, used to make generated Kubernetes job names unique.
func RandomTag(n int) (string, error) {
	return randomString(n, tagAlphabet)
}

// RandomAlphanumeric returns n random characters drawn from a mixed-case
// alphanumeric alphabet, used to generate the Postgres password at deploy
// time.
func RandomAlphanumeric(n int) (string, error) {
	return randomString(n, passwordAlphabet)
}

func randomString(n int, alphabet string) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	var b strings.Builder
	for _, c := range bytes {
		b.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return b.String(), nil
}
