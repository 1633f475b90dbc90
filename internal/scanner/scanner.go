package scanner

import (
	"context"
	"fmt"

	"Wavecrest/internal/domain"
)

// Request carries the parameters of a single profile scan.
type Request struct {
	Handle   string
	MaxPosts int
}

// Scanner reads a public profile and its most recent posts from one social
// network. Implementations return domain.ErrProfileNotFound for unknown
// handles; recoverable partial failures go into ScrapeWarning.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) (domain.ScrapeResult, error)
}

// Registry maps competitor platforms to scanner implementations.
type Registry struct {
	scanners map[domain.Platform]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[domain.Platform]Scanner{}}
}

// Register binds scanner to each of the given platforms, replacing any
// previous binding.
func (r *Registry) Register(scanner Scanner, platforms ...domain.Platform) {
	if r.scanners == nil {
		r.scanners = map[domain.Platform]Scanner{}
	}
	for _, p := range platforms {
		r.scanners[p] = scanner
	}
}

// Resolve returns the scanner for a platform. An empty platform is treated
// as instagram.
func (r *Registry) Resolve(platform domain.Platform) (Scanner, error) {
	if platform == "" {
		platform = domain.PlatformInstagram
	}
	if scanner, ok := r.scanners[platform]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("no scanner registered for platform %s", platform)
}
