// SPDX-License-Identifier: MPL-2.0

//go:build embed_payload

package main

import _ "embed"

var (
	//go:embed payload/runtime.zip
	runtimeArchive []byte

	//go:embed payload/application.jar
	applicationPayload []byte

	//go:embed payload/launcher.cue
	launcherManifest []byte
)
