/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package version

// Version is the semantic version of falconeri. falconerid reports it from
// GET /version; the CLI and the worker send it as their User-Agent so version
// skew shows up in the server logs.
const Version = "0.3.0"

// UserAgent returns the User-Agent header value used by falconeri clients.
func UserAgent(component string) string {
	return component + "/" + Version
}
