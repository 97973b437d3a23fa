// SPDX-License-Identifier: MPL-2.0

// Package process starts the runtime as a child with no visible console.
//
// The child never inherits the launcher's standard streams: stdin, stdout and
// stderr are all bound to the null device, never to pipes. Platform specifics live
// behind the Concealer capability so that the launch code itself is the same
// everywhere.
package process
