// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the size of a document accepted by Unify.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures Unify.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete requires every field to be concrete after unification.
// Documents with optional fields leave this off.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// Unify compiles schema and data, unifies data with the schema definition
// at definitionPath (e.g., "#Manifest") and validates the result.
func Unify(schema, data []byte, definitionPath string, opts ...Option) (cue.Value, error) {
	o := options{filename: "<input>", maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	definition := schemaValue.LookupPath(cue.ParsePath(definitionPath))
	if definition.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", definitionPath, definition.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), o.filename)
	}

	unified := definition.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}

	return unified, nil
}

// DecodeMap runs Unify and decodes the result into a generic map, the shape
// viper.MergeConfigMap expects.
func DecodeMap(schema, data []byte, definitionPath string, opts ...Option) (map[string]any, error) {
	unified, err := Unify(schema, data, definitionPath, opts...)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := unified.Decode(&fields); err != nil {
		o := options{filename: "<input>"}
		for _, opt := range opts {
			opt(&o)
		}
		return nil, FormatError(err, o.filename)
	}
	return fields, nil
}
