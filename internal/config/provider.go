// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// Manifest holds the embedded manifest bytes. Empty means defaults only.
	Manifest []byte
	// ManifestName names Manifest in error messages.
	ManifestName string
	// ManifestPath loads the manifest from disk instead, for build tooling.
	ManifestPath string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type manifestProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &manifestProvider{}
}

// Load resolves the configuration from the requested manifest.
func (p *manifestProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}
