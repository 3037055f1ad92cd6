package marketplace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"seekit/internal/marketplace"
	"seekit/models"
)

func TestReviewRequiresCompletedProject(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()

	_, err := f.svc.AddReview(ctx, f.client, f.project.ID, f.freelancer.ID, 5, "great")
	require.ErrorIs(t, err, marketplace.ErrState)

	_, err = f.svc.CompleteProject(ctx, f.client, f.project.ID)
	require.NoError(t, err)

	r, err := f.svc.AddReview(ctx, f.client, f.project.ID, f.freelancer.ID, 5, "great")
	require.NoError(t, err)
	require.Equal(t, "bob", r.ReviewerName)

	_, err = f.svc.AddReview(ctx, f.client, f.project.ID, f.freelancer.ID, 4, "again")
	require.ErrorIs(t, err, marketplace.ErrDuplicate)

	_, err = f.svc.AddReview(ctx, f.freelancer, f.project.ID, f.client.ID, 4, "clear brief")
	require.NoError(t, err)

	reviews, err := f.svc.ProjectReviews(ctx, f.project.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
}

func TestReviewValidation(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()
	_, err := f.svc.CompleteProject(ctx, f.client, f.project.ID)
	require.NoError(t, err)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.AddReview(ctx, f.client, f.project.ID, f.freelancer.ID, rating, "")
		require.ErrorIs(t, err, marketplace.ErrValidation)
	}

	_, err = f.svc.AddReview(ctx, f.client, f.project.ID, f.client.ID, 5, "me")
	require.ErrorIs(t, err, marketplace.ErrValidation)

	outsider := mustOutsider(t, f)
	_, err = f.svc.AddReview(ctx, f.client, f.project.ID, outsider.ID, 5, "who?")
	require.ErrorIs(t, err, marketplace.ErrValidation)

	_, err = f.svc.AddReview(ctx, outsider, f.project.ID, f.freelancer.ID, 5, "drive-by")
	require.ErrorIs(t, err, marketplace.ErrForbidden)
}

func mustOutsider(t *testing.T, f workspaceFixture) *models.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), marketplace.RegisterInput{
		Name: "olga", Email: "olga@x.com", Password: "secret1", Role: models.RoleClient,
	})
	require.NoError(t, err)
	return u
}

func TestPortfolio(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()

	empty, err := f.svc.Portfolio(ctx, f.freelancer.ID)
	require.NoError(t, err)
	require.Empty(t, empty.Entries)
	require.Zero(t, empty.Stats.AverageRating)

	_, err = f.svc.CompleteProject(ctx, f.client, f.project.ID)
	require.NoError(t, err)
	_, err = f.svc.AddReview(ctx, f.client, f.project.ID, f.freelancer.ID, 4, "solid work")
	require.NoError(t, err)

	pf, err := f.svc.Portfolio(ctx, f.freelancer.ID)
	require.NoError(t, err)
	require.Len(t, pf.Entries, 1)
	require.Equal(t, "Logo design", pf.Entries[0].Title)
	require.NotNil(t, pf.Entries[0].Rating)
	require.Equal(t, 4, *pf.Entries[0].Rating)
	require.Equal(t, "solid work", pf.Entries[0].ReviewComment)
	require.Equal(t, models.PortfolioStats{CompletedProjects: 1, TotalReviews: 1, AverageRating: 4}, pf.Stats)

	_, err = f.svc.Portfolio(ctx, f.client.ID)
	require.ErrorIs(t, err, marketplace.ErrValidation)
}
