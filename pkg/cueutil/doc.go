// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// The flow is always the same:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate, then decode
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	fields, err := cueutil.DecodeMap(schema, data, "#Manifest",
//	    cueutil.WithFilename("launcher.cue"))
//	if err != nil {
//	    return err // Error includes the CUE path of the offending field
//	}
package cueutil
