package data

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/domain/job"
	"github.com/target/accessjobs/internal/domain/model"
	"github.com/target/accessjobs/internal/testutil"
)

func acquire(t *testing.T, repo *JobRunRepo, kind model.JobKind, holder string) (string, bool) {
	t.Helper()
	id := uuid.NewString()
	ok, err := repo.TryAcquire(context.Background(), core.AcquireJobRunParams{Kind: kind, JobID: id, Holder: holder})
	require.NoError(t, err)
	return id, ok
}

func TestJobRunRepo_TryAcquire(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("second acquire is refused while first holds", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})

			firstID, ok := acquire(t, repo, model.JobKindNotification, "host-a:1")
			require.True(t, ok)

			_, ok = acquire(t, repo, model.JobKindNotification, "host-b:2")
			assert.False(t, ok)

			holder, err := repo.GetActiveHolder(context.Background(), model.JobKindNotification)
			require.NoError(t, err)
			require.NotNil(t, holder)
			assert.Equal(t, firstID, holder.ID)
			assert.Equal(t, "host-a:1", holder.StartedBy)
			assert.Equal(t, model.JobRunInProgress, holder.Status)
		})
	})

	t.Run("complete releases the lock", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})
			ctx := context.Background()

			id, ok := acquire(t, repo, model.JobKindNotification, "host-a:1")
			require.True(t, ok)
			require.NoError(t, repo.Complete(ctx, core.CompleteJobRunParams{JobID: id, Processed: 3, Failed: 1}))

			holder, err := repo.GetActiveHolder(ctx, model.JobKindNotification)
			require.NoError(t, err)
			assert.Nil(t, holder)

			_, ok = acquire(t, repo, model.JobKindNotification, "host-b:2")
			assert.True(t, ok)
		})
	})

	t.Run("fail releases the lock", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})

			id, ok := acquire(t, repo, model.JobKindRevoke, "host-a:1")
			require.True(t, ok)
			require.NoError(t, repo.Fail(context.Background(), id, "select work: connection refused"))

			_, ok = acquire(t, repo, model.JobKindRevoke, "host-b:2")
			assert.True(t, ok)
		})
	})

	t.Run("kinds do not block each other", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})

			_, ok := acquire(t, repo, model.JobKindNotification, "host-a:1")
			require.True(t, ok)
			_, ok = acquire(t, repo, model.JobKindRevoke, "host-a:1")
			assert.True(t, ok)
		})
	})

	t.Run("stale holder does not block", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			clock := NewFixedTimeProvider(testutil.TestTime())
			repo := NewJobRunRepo(db, JobRunRepoConfig{TimeProvider: clock})

			_, ok := acquire(t, repo, model.JobKindNotification, "crashed:1")
			require.True(t, ok)

			clock.AddTime(job.StalenessWindow - time.Second)
			_, ok = acquire(t, repo, model.JobKindNotification, "host-b:2")
			assert.False(t, ok, "holder inside the window must still block")

			clock.AddTime(time.Second)
			holder, err := repo.GetActiveHolder(context.Background(), model.JobKindNotification)
			require.NoError(t, err)
			assert.Nil(t, holder, "a holder exactly at the window is stale")

			_, ok = acquire(t, repo, model.JobKindNotification, "host-b:2")
			assert.True(t, ok)
		})
	})

	t.Run("concurrent acquires admit exactly one", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})
			const contenders = 12

			var (
				wg  sync.WaitGroup
				mu  sync.Mutex
				won int
			)
			for i := range contenders {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					ok, err := repo.TryAcquire(context.Background(), core.AcquireJobRunParams{
						Kind:   model.JobKindNotification,
						JobID:  uuid.NewString(),
						Holder: "host:" + string(rune('a'+i)),
					})
					assert.NoError(t, err)
					if ok {
						mu.Lock()
						won++
						mu.Unlock()
					}
				}(i)
			}
			wg.Wait()

			assert.Equal(t, 1, won)
		})
	})

	t.Run("rejects missing id", func(t *testing.T) {
		repo := NewJobRunRepo(nil, JobRunRepoConfig{})
		_, err := repo.TryAcquire(context.Background(), core.AcquireJobRunParams{Kind: model.JobKindRevoke})
		assert.ErrorIs(t, err, ErrJobIDRequired)
	})
}

func TestJobRunRepo_TerminalTransitions(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	t.Run("complete stores counts once", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})
			ctx := context.Background()

			id, ok := acquire(t, repo, model.JobKindNotification, "host-a:1")
			require.True(t, ok)
			require.NoError(t, repo.Complete(ctx, core.CompleteJobRunParams{JobID: id, Processed: 5, Failed: 2}))

			err := repo.Complete(ctx, core.CompleteJobRunParams{JobID: id, Processed: 9, Failed: 0})
			require.ErrorIs(t, err, ErrJobRunNotInProgress)
			require.ErrorIs(t, repo.Fail(ctx, id, "late failure"), ErrJobRunNotInProgress)

			runs, err := repo.ListRecent(ctx, model.JobKindNotification, 10)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			run := runs[0]
			assert.Equal(t, model.JobRunCompleted, run.Status)
			require.NotNil(t, run.ProcessedCount)
			require.NotNil(t, run.FailedCount)
			assert.Equal(t, 5, *run.ProcessedCount)
			assert.Equal(t, 2, *run.FailedCount)
			assert.NotNil(t, run.CompletedAt)
			assert.Nil(t, run.ErrorMessage)
		})
	})

	t.Run("fail truncates the message", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})
			ctx := context.Background()

			id, ok := acquire(t, repo, model.JobKindRevoke, "host-a:1")
			require.True(t, ok)
			require.NoError(t, repo.Fail(ctx, id, strings.Repeat("x", 800)))

			runs, err := repo.ListRecent(ctx, model.JobKindRevoke, 1)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, model.JobRunFailed, runs[0].Status)
			require.NotNil(t, runs[0].ErrorMessage)
			assert.Len(t, *runs[0].ErrorMessage, model.MaxErrorMessageLength)
			assert.Nil(t, runs[0].ProcessedCount)
		})
	})

	t.Run("unknown id is not in progress", func(t *testing.T) {
		testutil.WithAutoDB(t, func(db *sql.DB) {
			repo := NewJobRunRepo(db, JobRunRepoConfig{})
			err := repo.Fail(context.Background(), uuid.NewString(), "nothing")
			assert.ErrorIs(t, err, ErrJobRunNotInProgress)
		})
	})
}

func TestJobRunRepo_ListRecent(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewJobRunRepo(db, JobRunRepoConfig{})
		base := time.Now().Add(-time.Hour)
		for i := range 3 {
			testutil.SeedJobRun(t, db, testutil.JobRunSeed{
				Kind:      string(model.JobKindNotification),
				Status:    string(model.JobRunCompleted),
				StartedAt: base.Add(time.Duration(i) * time.Minute),
			})
		}
		testutil.SeedJobRun(t, db, testutil.JobRunSeed{
			Kind:      string(model.JobKindRevoke),
			Status:    string(model.JobRunCompleted),
			StartedAt: base,
		})

		runs, err := repo.ListRecent(context.Background(), model.JobKindNotification, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt), "newest first")
		for _, r := range runs {
			assert.Equal(t, model.JobKindNotification, r.Kind)
		}
	})
}

func TestJobRunRepo_FailAbandoned(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		clock := NewFixedTimeProvider(testutil.TestTime())
		repo := NewJobRunRepo(db, JobRunRepoConfig{TimeProvider: clock})
		ctx := context.Background()

		abandoned := testutil.SeedJobRun(t, db, testutil.JobRunSeed{
			Kind:      string(model.JobKindNotification),
			StartedAt: clock.Now().Add(-2 * time.Hour),
		})
		live := testutil.SeedJobRun(t, db, testutil.JobRunSeed{
			Kind:      string(model.JobKindRevoke),
			StartedAt: clock.Now().Add(-time.Minute),
		})

		n, err := repo.FailAbandoned(ctx, core.FailAbandonedParams{
			OlderThan: time.Minute,
			BatchSize: 10,
			Message:   "abandoned: exceeded staleness window",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "OlderThan is clamped up to the staleness window")

		assert.ErrorIs(t, repo.Complete(ctx, core.CompleteJobRunParams{JobID: abandoned}), ErrJobRunNotInProgress)
		assert.NoError(t, repo.Complete(ctx, core.CompleteJobRunParams{JobID: live}))
	})
}
