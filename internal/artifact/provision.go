package artifact

import (
	"context"
	"fmt"
)

// Provisioner makes sure artifacts are present, then loads them.
type Provisioner struct {
	layout  Layout
	remote  Remote
	fetcher *Fetcher
}

// NewProvisioner creates a provisioner. A nil fetcher only reads local files.
func NewProvisioner(l Layout, r Remote, f *Fetcher) *Provisioner {
	return &Provisioner{layout: l, remote: r, fetcher: f}
}

// Layout returns where artifacts are read from.
func (p *Provisioner) Layout() Layout { return p.layout }

// Load downloads missing artifacts (when URLs are configured) and loads the model.
func (p *Provisioner) Load(ctx context.Context) (*Model, error) {
	if p.fetcher != nil {
		if err := p.fetcher.Ensure(ctx, p.layout, p.remote); err != nil {
			return nil, err
		}
	}
	m, err := Load(p.layout)
	if err != nil {
		return nil, fmt.Errorf("load artifacts from %s: %w", p.layout.Dir, err)
	}
	return m, nil
}
