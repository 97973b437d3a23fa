// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package entrypoint

import "io/fs"

// isExecutableMode requires at least one execute permission bit.
func isExecutableMode(info fs.FileInfo) bool {
	return info.Mode().Perm()&0o111 != 0
}
