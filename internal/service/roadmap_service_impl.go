package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/importer"
)

type roadmapService struct {
	store    ProgressStore
	observer UseCaseObserver
}

func NewRoadmapService(store ProgressStore, observers ...UseCaseObserver) RoadmapService {
	return &roadmapService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *roadmapService) LoadFile(ctx context.Context, path string) (*RoadmapResult, error) {
	schema, err := importer.LoadRoadmapSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading roadmap file: %w", err)
	}
	return s.LoadSchema(ctx, schema)
}

// LoadSchema validates schema and makes it the current roadmap, replacing
// any previous one.
func (s *roadmapService) LoadSchema(ctx context.Context, schema *importer.RoadmapSchema) (result *RoadmapResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"nodes": len(schema.Nodes)}
	defer func() { observe(ctx, s.observer, "load-roadmap", startedAt, err, fields) }()

	if errs := importer.ValidateRoadmapSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	rm := importer.Convert(schema)
	s.store.SetCurrentRoadmap(rm)

	stats := s.store.State().ProgressStats
	fields["roadmap"] = rm.ID
	return &RoadmapResult{
		Roadmap:   rm,
		Completed: stats.Completed,
		Total:     stats.Total,
	}, nil
}

func (s *roadmapService) Clear(ctx context.Context) {
	startedAt := time.Now()
	s.store.ClearRoadmap()
	observe(ctx, s.observer, "clear-roadmap", startedAt, nil, nil)
}
