// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides the Must* filesystem helpers, it builds runtime archives in memory
// (BuildZip, BuildTarGz) so launcher tests never depend on a real JRE.
package testutil
