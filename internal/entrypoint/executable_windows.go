// SPDX-License-Identifier: MPL-2.0

//go:build windows

package entrypoint

import (
	"io/fs"

	"github.com/jarstub/jarstub/pkg/platform"
)

// isExecutableMode decides by extension; Windows has no execute bit.
func isExecutableMode(info fs.FileInfo) bool {
	return platform.HasWindowsExecutableSuffix(info.Name())
}
