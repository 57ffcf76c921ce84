package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/testutil"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

func sampleDraw() entity.DrawResult {
	return entity.DrawResult{
		Special: "12345",
		First:   "67890",
		Second:  []string{"11111", "22222"},
		Third:   []string{"00001", "00002", "00003", "00004", "00005", "00006"},
		Fourth:  []string{"1111", "2222", "3333", "4444"},
		Fifth:   []string{"5555", "6666", "7777", "8888", "9999", "1234"},
		Sixth:   []string{"111", "222", "333"},
		Seventh: []string{"11", "22", "33", "44"},
	}
}

func TestCheckAndUpdateStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertSessions(ctx)

	sessionRepo := repository.NewSessionRepository(nil)

	err := sessionRepo.CheckAndUpdateStatus(
		ctx, testutil.Session1.ID, entity.SessionOpen, entity.SessionClosing)
	require.NoError(t, err)

	// The second caller expecting the old status loses the race.
	err = sessionRepo.CheckAndUpdateStatus(
		ctx, testutil.Session1.ID, entity.SessionOpen, entity.SessionClosing)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	session, err := sessionRepo.GetByID(ctx, testutil.Session1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SessionClosing, session.Status)
}

func TestCheckAndSaveResultsIsOnce(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertSessions(ctx)

	sessionRepo := repository.NewSessionRepository(nil)

	draw := sampleDraw()
	err := sessionRepo.CheckAndSaveResults(
		ctx, testutil.Session1.ID, draw, draw.TwoDigitEndings())
	require.NoError(t, err)

	// A second draw attempt must fail: the status left the open/closing
	// window with the first draw.
	other := sampleDraw()
	other.Special = "99999"
	err = sessionRepo.CheckAndSaveResults(
		ctx, testutil.Session1.ID, other, other.TwoDigitEndings())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	session, err := sessionRepo.GetByID(ctx, testutil.Session1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SessionDrawing, session.Status)
	require.Equal(t, draw, session.Results)
	require.Len(t, session.WinningNumbers, 27)
}

func TestGetCurrentByGameTypeCachesTheResult(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertSessions(ctx)

	var cachedKey string
	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(_ context.Context, key string, _ any, ttl time.Duration) error {
			cachedKey = key
			require.Greater(t, ttl, time.Duration(0))
			return nil
		},
	}

	sessionRepo := repository.NewSessionRepository(redisClient)
	session, err := sessionRepo.GetCurrentByGameType(ctx, entity.GameFast1m)
	require.NoError(t, err)
	require.Equal(t, testutil.Session1.ID, session.ID)
	require.Equal(t, "current_session:fast_1m", cachedKey)
}

func TestGetCurrentByGameTypeHitsWarmCache(t *testing.T) {
	ctx := testutil.MockContext()

	cached := testutil.Session1
	cached.Status = entity.SessionOpen
	cached.EndTime = time.Now().Add(time.Minute)

	redisClient := &testutil.MockRedisClient{
		GetObjFunc: func(_ context.Context, key string, v any) error {
			*(v.(*entity.LotterySession)) = cached
			return nil
		},
	}

	// No session was inserted, so a cache miss would fail on the database.
	sessionRepo := repository.NewSessionRepository(redisClient)
	session, err := sessionRepo.GetCurrentByGameType(ctx, entity.GameFast1m)
	require.NoError(t, err)
	require.Equal(t, cached.ID, session.ID)
}

func TestGetRecentCompletedCachesTheList(t *testing.T) {
	ctx := testutil.MockContext()

	completed := testutil.Session1
	completed.Status = entity.SessionCompleted
	require.NoError(t, xcontext.DB(ctx).Create(&completed).Error)

	store := map[string][]entity.LotterySession{}
	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(_ context.Context, key string, obj any, _ time.Duration) error {
			store[key] = obj.([]entity.LotterySession)
			return nil
		},
		GetObjFunc: func(_ context.Context, key string, v any) error {
			cached, ok := store[key]
			if !ok {
				return redis.Nil
			}
			*(v.(*[]entity.LotterySession)) = cached
			return nil
		},
	}

	sessionRepo := repository.NewSessionRepository(redisClient)

	sessions, err := sessionRepo.GetRecentCompleted(ctx, entity.GameFast1m, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Contains(t, store, "recent_results:fast_1m")

	// The second read is served from the cache even after the row is gone.
	err = xcontext.DB(ctx).Delete(&entity.LotterySession{}, "id=?", completed.ID).Error
	require.NoError(t, err)

	sessions, err = sessionRepo.GetRecentCompleted(ctx, entity.GameFast1m, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, completed.ID, sessions[0].ID)
}

func TestGetUnfinishedByGameTypes(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertSessions(ctx)

	sessionRepo := repository.NewSessionRepository(nil)

	sessions, err := sessionRepo.GetUnfinishedByGameTypes(ctx, entity.FastGameTypes)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	err = sessionRepo.CheckAndUpdateStatus(
		ctx, testutil.Session1.ID, entity.SessionOpen, entity.SessionCompleted)
	require.NoError(t, err)

	sessions, err = sessionRepo.GetUnfinishedByGameTypes(ctx, entity.FastGameTypes)
	require.NoError(t, err)
	require.Empty(t, sessions)
}
