// SPDX-License-Identifier: MPL-2.0

// Package launcher runs the five launch phases in order: stage, extract the
// runtime, write the application payload, resolve the entry point and start
// it.
//
// Both payloads are handed to New as byte slices; the launcher never reads
// package-level state. Every failure is a *PhaseError that matches exactly
// the sentinels of its class with errors.Is:
//
//	staging             ErrIO
//	runtime extraction  ErrArchiveFormat, ErrPathTraversal (also matches
//	                    ErrArchiveFormat), or ErrIO for write failures
//	payload placement   ErrIO
//	entry point         ErrEntryPointNotFound
//	process launch      ErrLaunch
package launcher
