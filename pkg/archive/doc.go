// SPDX-License-Identifier: MPL-2.0

// Package archive reads runtime archives held in memory and unpacks them
// onto disk.
//
// Two container formats are recognized by their leading bytes: ZIP and
// gzip-compressed tar. Both are exposed through the same [Reader], which
// yields entries in container order. [Extract] writes those entries under a
// destination root, creating parent directories on demand, and refuses any
// entry whose canonical path would land outside that root.
//
// Example usage:
//
//	r, err := archive.Open(runtimeZip)
//	if err != nil {
//	    return err
//	}
//	stats, err := archive.Extract(r, stagingDir)
//	if err != nil {
//	    return err
//	}
//
// [PackDir] is the build-time counterpart: it zips a runtime directory so
// the result can be embedded in the launcher.
package archive
