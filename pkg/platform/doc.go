// SPDX-License-Identifier: MPL-2.0

// Package platform holds the small amount of host knowledge the launcher
// needs regardless of where it is compiled: GOOS names, the native name of
// the runtime entry point, and the file names Windows refuses to create.
//
// Archive entries are checked against the Windows rules on every platform,
// because a runtime archive that only unpacks on Linux is useless for the
// hidden-window target.
package platform
