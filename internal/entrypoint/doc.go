// SPDX-License-Identifier: MPL-2.0

// Package entrypoint locates the runtime executable inside an extracted
// staging tree.
//
// Two policies are supported. The scan policy walks the immediate
// subdirectories of the root in lexical order and picks the first one that
// has bin/<binary>, which tolerates runtimes packed under a versioned
// directory such as "jdk-21.0.2+13-jre". The fixed policy checks a single
// <root>/<subdir>/bin/<binary> path.
package entrypoint
