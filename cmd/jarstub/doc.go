// SPDX-License-Identifier: MPL-2.0

// Command jarstub is the launcher stub shipped to end users.
//
// It carries a Java runtime archive, an application jar and a build manifest
// in its own binary, unpacks them into a staging directory and starts the
// application with the bundled runtime. It has no command line surface and
// prints nothing.
//
// Release builds embed the files in payload/ with the embed_payload tag:
//
//	go build -tags embed_payload -ldflags "-H windowsgui" ./cmd/jarstub
//
// The -H windowsgui flag keeps Windows from allocating a console for the stub
// itself; the child's console is suppressed by the launcher.
package main
