package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/accessjobs/internal/domain/job"
	"github.com/target/accessjobs/internal/domain/model"
	"github.com/target/accessjobs/internal/mocks"
	"go.uber.org/mock/gomock"
)

var selectorNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSelector(t *testing.T) (*WorkSelector, *mocks.MockAccessRequestRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAccessRequestRepository(ctrl)
	sel := NewWorkSelector(WorkSelectorOptions{
		Repo: repo,
		Now:  func() time.Time { return selectorNow },
	})
	return sel, repo
}

func grantIn(id string, d time.Duration) model.ExpiringAccess {
	return model.ExpiringAccess{
		ID:        id,
		Email:     id + "@example.com",
		Resource:  "warehouse",
		ExpiresAt: selectorNow.Add(d),
	}
}

func TestNewWorkSelector_RequiresRepo(t *testing.T) {
	assert.Panics(t, func() { NewWorkSelector(WorkSelectorOptions{}) })
}

func TestWorkSelector_SelectPendingNotifications(t *testing.T) {
	sel, repo := newTestSelector(t)
	ctx := context.Background()
	const day = 24 * time.Hour

	grants := []model.ExpiringAccess{
		grantIn("today", time.Hour),          // 0 days, none sent -> first
		grantIn("d30", 30*day+time.Hour),     // 30 days, none sent -> first
		grantIn("d7-once", 7*day+time.Hour),  // 7 days, one sent -> final
		grantIn("d8-once", 8*day+time.Hour),  // 8 days, one sent -> nothing
		grantIn("d3-twice", 3*day),           // exhausted
		grantIn("d31", 31*day+time.Minute),   // outside window
		grantIn("past", -time.Minute),        // already expired
	}

	repo.EXPECT().
		ListActiveExpiring(ctx, selectorNow, job.NotificationWindowEnd(selectorNow)).
		Return(grants, nil)
	repo.EXPECT().
		CountNotifications(ctx, gomock.Len(len(grants))).
		Return(map[string]int{"d7-once": 1, "d8-once": 1, "d3-twice": 2}, nil)

	items, err := sel.SelectPendingNotifications(ctx)
	require.NoError(t, err)

	got := make(map[string]model.WorkAction, len(items))
	for _, it := range items {
		got[it.EntityID] = it.Action
	}
	assert.Equal(t, map[string]model.WorkAction{
		"today":   model.WorkActionFirstReminder,
		"d30":     model.WorkActionFirstReminder,
		"d7-once": model.WorkActionFinalReminder,
	}, got)

	for _, it := range items {
		assert.Equal(t, it.EntityID+"@example.com", it.Recipient)
		if it.EntityID == "d7-once" {
			assert.Equal(t, 7, it.DaysRemaining)
		}
	}
}

func TestWorkSelector_SelectPendingNotifications_NoCandidates(t *testing.T) {
	sel, repo := newTestSelector(t)
	ctx := context.Background()

	repo.EXPECT().ListActiveExpiring(ctx, gomock.Any(), gomock.Any()).Return(nil, nil)
	// CountNotifications must not be called for an empty candidate set.

	items, err := sel.SelectPendingNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWorkSelector_SelectPendingNotifications_Errors(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		sel, repo := newTestSelector(t)
		repo.EXPECT().ListActiveExpiring(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		_, err := sel.SelectPendingNotifications(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list expiring access")
	})

	t.Run("count", func(t *testing.T) {
		sel, repo := newTestSelector(t)
		repo.EXPECT().ListActiveExpiring(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.ExpiringAccess{grantIn("a", time.Hour)}, nil)
		repo.EXPECT().CountNotifications(gomock.Any(), []string{"a"}).Return(nil, errors.New("boom"))

		_, err := sel.SelectPendingNotifications(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count notifications")
	})
}

func TestWorkSelector_SelectExpiredActive(t *testing.T) {
	sel, repo := newTestSelector(t)
	ctx := context.Background()

	refs := []model.EntityRef{
		{ID: "expired", Email: "a@example.com", ExpiresAt: selectorNow.Add(-time.Hour)},
		{ID: "exact", Email: "b@example.com", ExpiresAt: selectorNow},
		{ID: "never", Email: "c@example.com", ExpiresAt: model.NeverExpires},
		{ID: "future", Email: "d@example.com", ExpiresAt: selectorNow.Add(time.Minute)},
	}
	repo.EXPECT().ListExpiredActive(ctx, selectorNow).Return(refs, nil)

	got, err := sel.SelectExpiredActive(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"expired", "exact"}, ids)
}
