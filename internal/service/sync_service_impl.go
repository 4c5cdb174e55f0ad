package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/waypoint/internal/api"
	"github.com/alexanderramin/waypoint/internal/domain"
)

type syncService struct {
	client   api.Client
	store    ProgressStore
	observer UseCaseObserver
	now      func() time.Time
}

func NewSyncService(
	client api.Client,
	store ProgressStore,
	observers ...UseCaseObserver,
) SyncService {
	return &syncService{
		client:   client,
		store:    store,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *syncService) Health(ctx context.Context) (h api.Health, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "sync-health", startedAt, err, nil) }()

	res := s.client.CheckHealth(ctx)
	if !res.Success {
		return api.Health{}, remoteError("check health", res)
	}
	return res.Data, nil
}

// SignIn fetches the profile for the configured token and opens a session.
func (s *syncService) SignIn(ctx context.Context) (user domain.User, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "sync-signin", startedAt, err, nil) }()

	res := s.client.GetUserData(ctx)
	if !res.Success {
		return domain.User{}, remoteError("fetch profile", res)
	}
	s.store.Login(res.Data)
	return res.Data, nil
}

// PushProgress sends the named milestones, or all of them when no ids are
// given. It stops at the first failure and returns how many were sent.
func (s *syncService) PushProgress(ctx context.Context, ids ...string) (pushed int, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		fields["pushed"] = pushed
		observe(ctx, s.observer, "sync-push", startedAt, err, fields)
	}()

	snap := s.store.State()
	targets := snap.Milestones
	if len(ids) > 0 {
		targets = make([]domain.Milestone, 0, len(ids))
		for _, id := range ids {
			m, found := snap.Milestone(id)
			if !found {
				return 0, fmt.Errorf("%w: %s", ErrMilestoneNotFound, id)
			}
			targets = append(targets, m)
		}
	}
	fields["requested"] = len(targets)

	for _, m := range targets {
		res := s.client.SaveProgress(ctx, api.ProgressUpdate{
			MilestoneID: m.ID,
			Progress:    m.Progress,
			Status:      m.Status,
		})
		if !res.Success {
			return pushed, remoteError("save progress for "+m.ID, res)
		}
		pushed++
	}
	return pushed, nil
}

// PullStats replaces local stats with the server's through the explicit
// override path.
func (s *syncService) PullStats(ctx context.Context) (stats domain.ProgressStats, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "sync-pull-stats", startedAt, err, nil) }()

	res := s.client.GetProgressStats(ctx)
	if !res.Success {
		return domain.ProgressStats{}, remoteError("fetch stats", res)
	}
	stats = res.Data
	s.store.UpdateProgressStats(domain.StatsPatch{
		Completed:  &stats.Completed,
		Total:      &stats.Total,
		Percentage: &stats.Percentage,
	})
	return stats, nil
}

func (s *syncService) PullHistory(ctx context.Context) (history []domain.ProgressHistoryEntry, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "sync-pull-history", startedAt, err, map[string]any{"entries": len(history)})
	}()

	res := s.client.GetProgressHistory(ctx)
	if !res.Success {
		return nil, remoteError("fetch history", res)
	}
	return res.Data, nil
}

// Analytics computes analytics locally, or fetches them when remote is
// set, and caches the result on the session.
func (s *syncService) Analytics(ctx context.Context, remote bool) (a domain.ProgressAnalytics, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "sync-analytics", startedAt, err, map[string]any{"remote": remote})
	}()

	if !remote {
		snap := s.store.State()
		a = domain.Analyze(snap.Milestones, snap.ProgressHistory, s.now())
		s.store.SetAnalytics(&a)
		return a, nil
	}

	res := s.client.GetProgressAnalytics(ctx)
	if !res.Success {
		return domain.ProgressAnalytics{}, remoteError("fetch analytics", res)
	}
	a = res.Data
	a.FetchedAt = domain.FormatTimestamp(s.now())
	s.store.SetAnalytics(&a)
	return a, nil
}

func (s *syncService) Export(ctx context.Context) (exp api.Export, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "sync-export", startedAt, err, map[string]any{"bytes": len(exp.Body)})
	}()

	res := s.client.ExportProgress(ctx)
	if !res.Success {
		return api.Export{}, remoteError("export progress", res)
	}
	return res.Data, nil
}

// CreateMilestone registers m on the server and adds the server's copy to
// the store.
func (s *syncService) CreateMilestone(ctx context.Context, m domain.Milestone) (created domain.Milestone, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "sync-create-milestone", startedAt, err, map[string]any{"milestone": m.ID})
	}()

	res := s.client.CreateMilestone(ctx, m)
	if !res.Success {
		return domain.Milestone{}, remoteError("create milestone", res)
	}
	created = res.Data
	if created.ID == "" {
		created = m
	}
	s.store.AddMilestone(created)
	return created, nil
}
