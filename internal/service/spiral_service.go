// Package service exposes spiral generation behind an interface so the HTTP
// layer can be tested against a mock.
package service

//go:generate mockgen -source=spiral_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"

	"github.com/agbru/ulam/internal/logging"
	"github.com/agbru/ulam/internal/orchestration"
	"github.com/agbru/ulam/internal/spiral"
)

var (
	// ErrMaxCountExceeded is returned when a request asks for more coordinates
	// than the configured limit.
	ErrMaxCountExceeded = errors.New("maximum coordinate count exceeded")
)

// maxPrealloc bounds the capacity reserved up front for a response.
const maxPrealloc = 1 << 16

// Service generates prefixes of the spiral.
type Service interface {
	// Generate returns the first n coordinates of the spiral, starting at the
	// origin. It stops early with the context's error when ctx is done.
	Generate(ctx context.Context, n uint64) ([]spiral.Coord[int64], error)
}

// SpiralService runs the generation pipeline into memory.
type SpiralService struct {
	maxN    uint64
	subject *spiral.ProgressSubject
	logger  logging.Logger
}

// Ensure SpiralService implements Service interface.
var _ Service = (*SpiralService)(nil)

// NewSpiralService creates a service refusing counts above maxN (0 for no
// limit). Observers registered on subject see the progress of every request;
// subject and logger may be nil.
func NewSpiralService(maxN uint64, subject *spiral.ProgressSubject, logger logging.Logger) *SpiralService {
	return &SpiralService{maxN: maxN, subject: subject, logger: logger}
}

// Generate validates n and runs a fresh sequence through the pipeline.
func (s *SpiralService) Generate(ctx context.Context, n uint64) ([]spiral.Coord[int64], error) {
	if s.maxN > 0 && n > s.maxN {
		return nil, ErrMaxCountExceeded
	}

	sink := &collector{coords: make([]spiral.Coord[int64], 0, min(n, maxPrealloc))}
	_, err := orchestration.Generate(ctx, spiral.New[int64](), sink, orchestration.Options{
		Count:   n,
		Subject: s.subject,
		Logger:  s.logger,
	})
	if err != nil {
		return nil, err
	}
	return sink.coords, nil
}

// collector is an in-memory sink.
type collector struct {
	coords []spiral.Coord[int64]
}

func (c *collector) Write(batch []spiral.Coord[int64]) error {
	c.coords = append(c.coords, batch...)
	return nil
}

func (c *collector) Close() error { return nil }

func (c *collector) Name() string { return "memory" }
