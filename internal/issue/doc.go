// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The Issue catalog maps every launch failure class to
// Markdown guidance that the packaging tool renders with glamour and the
// launcher writes to its diagnostics log.
package issue
