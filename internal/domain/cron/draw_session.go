package cron

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/xoso-lab/backend/internal/domain/drawengine"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

const drawWorkers = 4

// DrawSessionCronJob scans every unfinished fast-draw session on a short
// interval and advances it through the state machine. Sessions still being
// advanced by a previous tick are skipped, so a slow settlement pass never
// stacks up concurrent passes over the same session.
type DrawSessionCronJob struct {
	sessionRepo repository.SessionRepository
	lifecycle   *drawengine.Lifecycle
	interval    time.Duration
	inFlight    *xsync.MapOf[string, struct{}]
}

func NewDrawSessionCronJob(
	ctx context.Context,
	sessionRepo repository.SessionRepository,
	lifecycle *drawengine.Lifecycle,
) *DrawSessionCronJob {
	return &DrawSessionCronJob{
		sessionRepo: sessionRepo,
		lifecycle:   lifecycle,
		interval:    xcontext.Configs(ctx).Lottery.SchedulerInterval,
		inFlight:    xsync.NewMapOf[struct{}](),
	}
}

func (job *DrawSessionCronJob) Do(ctx context.Context) {
	sessions, err := job.sessionRepo.GetUnfinishedByGameTypes(ctx, entity.FastGameTypes)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get unfinished sessions: %v", err)
		return
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(drawWorkers)

	for i := range sessions {
		session := sessions[i]
		if _, loaded := job.inFlight.LoadOrStore(session.ID, struct{}{}); loaded {
			continue
		}

		group.Go(func() error {
			defer job.inFlight.Delete(session.ID)

			_, err := job.lifecycle.Advance(groupCtx, &session, false)
			if err != nil {
				xcontext.Logger(ctx).Errorf(
					"Cannot advance session %s: %v", session.ID, err)
			}

			return nil
		})
	}

	group.Wait()
}

func (job *DrawSessionCronJob) RunNow() bool {
	return true
}

func (job *DrawSessionCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
