// SPDX-License-Identifier: MPL-2.0

//go:build !embed_payload

package main

// Development builds carry no payloads and fail in the extraction phase.
var (
	runtimeArchive     []byte
	applicationPayload []byte
	launcherManifest   []byte
)
