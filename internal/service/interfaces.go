package service

import (
	"context"

	"github.com/alexanderramin/waypoint/internal/api"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/importer"
)

// ProgressStore is the part of store.Manager the services drive.
type ProgressStore interface {
	State() domain.Snapshot
	SetCurrentRoadmap(r *domain.Roadmap)
	ClearRoadmap()
	AddMilestone(m domain.Milestone)
	UpdateProgressStats(p domain.StatsPatch)
	SetAnalytics(a *domain.ProgressAnalytics)
	Login(u domain.User)
}

// RoadmapResult holds the outcome of loading a roadmap definition.
type RoadmapResult struct {
	Roadmap   *domain.Roadmap
	Completed int
	Total     int
}

type RoadmapService interface {
	LoadFile(ctx context.Context, path string) (*RoadmapResult, error)
	LoadSchema(ctx context.Context, schema *importer.RoadmapSchema) (*RoadmapResult, error)
	Clear(ctx context.Context)
}

// SyncService exchanges progress with the remote server. Remote failures
// are returned as *RemoteError and never change local state.
type SyncService interface {
	Health(ctx context.Context) (api.Health, error)
	SignIn(ctx context.Context) (domain.User, error)
	PushProgress(ctx context.Context, ids ...string) (int, error)
	PullStats(ctx context.Context) (domain.ProgressStats, error)
	PullHistory(ctx context.Context) ([]domain.ProgressHistoryEntry, error)
	Analytics(ctx context.Context, remote bool) (domain.ProgressAnalytics, error)
	Export(ctx context.Context) (api.Export, error)
	CreateMilestone(ctx context.Context, m domain.Milestone) (domain.Milestone, error)
}
