package marketplace_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seekit/internal/marketplace"
	mt "seekit/internal/marketplace/marketplacetest"
	"seekit/models"
)

func TestPostJobRejectsInvertedBudget(t *testing.T) {
	svc, _ := newService()
	bob := mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)

	_, err := svc.PostJob(context.Background(), bob, marketplace.JobInput{
		Title:       "Logo design",
		Description: "A logo",
		BudgetMin:   mt.Float(500),
		BudgetMax:   mt.Float(100),
	})
	require.ErrorIs(t, err, marketplace.ErrValidation)
}

func TestPostJobValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	bob := mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)
	alice := mt.MustRegister(t, svc, "alice", "a@x.com", models.RoleFreelancer, "Go")
	past := time.Now().Add(-48 * time.Hour)

	_, err := svc.PostJob(ctx, bob, marketplace.JobInput{Title: "t", Description: "d", Deadline: &past})
	require.ErrorIs(t, err, marketplace.ErrValidation)

	_, err = svc.PostJob(ctx, bob, marketplace.JobInput{Title: " ", Description: "d"})
	require.ErrorIs(t, err, marketplace.ErrValidation)

	_, err = svc.PostJob(ctx, bob, marketplace.JobInput{Title: "t", Description: "d", BudgetMin: mt.Float(-1)})
	require.ErrorIs(t, err, marketplace.ErrValidation)

	_, err = svc.PostJob(ctx, alice, marketplace.JobInput{Title: "t", Description: "d"})
	require.ErrorIs(t, err, marketplace.ErrForbidden)

	nan, inf := math.NaN(), math.Inf(1)
	for _, b := range []struct{ min, max *float64 }{
		{&nan, mt.Float(100)},
		{mt.Float(500), &nan},
		{&inf, &inf},
		{mt.Float(1e15), mt.Float(1e16)},
		{mt.Float(500), mt.Float(100)},
	} {
		_, err = svc.PostJob(ctx, bob, marketplace.JobInput{Title: "t", Description: "d", BudgetMin: b.min, BudgetMax: b.max})
		require.ErrorIs(t, err, marketplace.ErrValidation)
	}
	jobs, err := svc.ListClientJobs(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, jobs)

	_, err = svc.SearchJobs(ctx, alice, models.JobFilter{MinBudget: &nan})
	require.ErrorIs(t, err, marketplace.ErrValidation)
	_, err = svc.SearchJobs(ctx, alice, models.JobFilter{MaxBudget: &inf})
	require.ErrorIs(t, err, marketplace.ErrValidation)

	future := time.Now().Add(72 * time.Hour)
	job, err := svc.PostJob(ctx, bob, marketplace.JobInput{
		Title: "Logo design", Description: "A logo", Deadline: &future,
		BudgetMin: mt.Float(50), BudgetMax: mt.Float(200),
	})
	require.NoError(t, err)
	require.Equal(t, models.JobOpen, job.Status)
}

func TestSearchJobs(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	bob := mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)
	alice := mt.MustRegister(t, svc, "alice", "a@x.com", models.RoleFreelancer, "Go")

	logo := mt.MustPostJob(t, svc, bob, "Logo design", "Illustrator")
	mt.MustPostJob(t, svc, bob, "Go service", "Go")
	closed := mt.MustPostJob(t, svc, bob, "Old logo refresh")
	_, err := svc.CloseJob(ctx, bob, closed.ID)
	require.NoError(t, err)

	jobs, err := svc.SearchJobs(ctx, alice, models.JobFilter{Keywords: "LOGO"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, logo.ID, jobs[0].ID)

	jobs, err = svc.SearchJobs(ctx, alice, models.JobFilter{Keywords: "illustrator"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	jobs, err = svc.SearchJobs(ctx, nil, models.JobFilter{MinBudget: mt.Float(300)})
	require.NoError(t, err)
	require.Empty(t, jobs)

	jobs, err = svc.SearchJobs(ctx, nil, models.JobFilter{MaxBudget: mt.Float(60)})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	_, err = svc.SearchJobs(ctx, nil, models.JobFilter{MinBudget: mt.Float(10), MaxBudget: mt.Float(5)})
	require.ErrorIs(t, err, marketplace.ErrValidation)

	history, err := svc.SearchHistory(ctx, alice)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "illustrator", history[0].Query)
}

func TestCloseJobMovesForwardOnly(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	bob := mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)
	job := mt.MustPostJob(t, svc, bob, "Logo design")

	closed, err := svc.CloseJob(ctx, bob, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobClosed, closed.Status)

	_, err = svc.CloseJob(ctx, bob, job.ID)
	require.ErrorIs(t, err, marketplace.ErrState)
}

func TestJobStatusTransitions(t *testing.T) {
	require.True(t, models.JobOpen.CanMoveTo(models.JobInProgress))
	require.True(t, models.JobOpen.CanMoveTo(models.JobClosed))
	require.True(t, models.JobInProgress.CanMoveTo(models.JobClosed))
	require.False(t, models.JobInProgress.CanMoveTo(models.JobOpen))
	require.False(t, models.JobClosed.CanMoveTo(models.JobOpen))
	require.False(t, models.JobClosed.CanMoveTo(models.JobInProgress))
}
