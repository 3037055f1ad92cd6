package marketplace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seekit/internal/marketplace"
	mt "seekit/internal/marketplace/marketplacetest"
	"seekit/models"
)

type workspaceFixture struct {
	svc        *marketplace.Service
	client     *models.User
	freelancer *models.User
	project    *models.Project
	milestones []models.Milestone
}

func newWorkspace(t *testing.T) workspaceFixture {
	t.Helper()
	svc, _ := newService()
	alice := mt.MustRegister(t, svc, "alice", "a@x.com", models.RoleFreelancer, "Go")
	bob := mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)
	project := mt.MustStartProject(t, svc, bob, alice, "Logo design")

	ws, err := svc.GetWorkspace(context.Background(), bob, project.ID)
	require.NoError(t, err)
	return workspaceFixture{svc: svc, client: bob, freelancer: alice, project: project, milestones: ws.Milestones}
}

func TestSubmissionVersionsIncrease(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()
	first, second := f.milestones[0].ID, f.milestones[1].ID

	for want := 1; want <= 3; want++ {
		sub, err := f.svc.SubmitDeliverable(ctx, f.freelancer, first, "draft", "/tmp/logo.png")
		require.NoError(t, err)
		require.Equal(t, want, sub.VersionNumber)
	}

	// у другого этапа своя нумерация
	sub, err := f.svc.SubmitDeliverable(ctx, f.freelancer, second, "api skeleton", "")
	require.NoError(t, err)
	require.Equal(t, 1, sub.VersionNumber)

	subs, err := f.svc.ListSubmissions(ctx, f.client, first)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	require.Equal(t, 3, subs[0].VersionNumber)
	require.Equal(t, 1, subs[2].VersionNumber)

	ws, err := f.svc.GetWorkspace(ctx, f.freelancer, f.project.ID)
	require.NoError(t, err)
	require.Equal(t, models.MilestoneInProgress, ws.Milestones[0].Status)
}

func TestSubmitDeliverableRules(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()
	m := f.milestones[0].ID

	_, err := f.svc.SubmitDeliverable(ctx, f.client, m, "draft", "")
	require.ErrorIs(t, err, marketplace.ErrForbidden)

	stranger := mt.MustRegister(t, f.svc, "mallory", "m@x.com", models.RoleFreelancer, "Go")
	_, err = f.svc.SubmitDeliverable(ctx, stranger, m, "draft", "")
	require.ErrorIs(t, err, marketplace.ErrForbidden)

	_, err = f.svc.SubmitDeliverable(ctx, f.freelancer, m, "  ", "")
	require.ErrorIs(t, err, marketplace.ErrValidation)

	_, err = f.svc.SubmitDeliverable(ctx, f.freelancer, 9999, "draft", "")
	require.ErrorIs(t, err, marketplace.ErrNotFound)
}

func TestFeedbackDoesNotCreateVersion(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()
	m := f.milestones[0].ID

	sub, err := f.svc.SubmitDeliverable(ctx, f.freelancer, m, "draft", "")
	require.NoError(t, err)

	updated, err := f.svc.AddFeedback(ctx, f.client, sub.ID, "Make it blue")
	require.NoError(t, err)
	require.Equal(t, 1, updated.VersionNumber)
	require.Equal(t, "Make it blue", *updated.Feedback)

	subs, err := f.svc.ListSubmissions(ctx, f.freelancer, m)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, "Make it blue", *subs[0].Feedback)

	_, err = f.svc.AddFeedback(ctx, f.freelancer, sub.ID, "self praise")
	require.ErrorIs(t, err, marketplace.ErrForbidden)
}

func TestReviewDeliverableFlow(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()

	_, err := f.svc.ReviewDeliverable(ctx, f.client, f.milestones[0].ID, true, "")
	require.ErrorIs(t, err, marketplace.ErrState, "nothing submitted yet")

	_, err = f.svc.SubmitDeliverable(ctx, f.freelancer, f.milestones[0].ID, "draft", "")
	require.NoError(t, err)

	_, err = f.svc.ReviewDeliverable(ctx, f.client, f.milestones[0].ID, false, "")
	require.ErrorIs(t, err, marketplace.ErrValidation)

	p, err := f.svc.ReviewDeliverable(ctx, f.client, f.milestones[0].ID, false, "Needs contrast")
	require.NoError(t, err)
	require.Zero(t, p.ProgressPercentage)

	want := []int{25, 50, 75, 100}
	for i, m := range f.milestones {
		_, err := f.svc.SubmitDeliverable(ctx, f.freelancer, m.ID, "final", "")
		require.NoError(t, err)
		p, err = f.svc.ReviewDeliverable(ctx, f.client, m.ID, true, "Looks good")
		require.NoError(t, err)
		require.Equal(t, want[i], p.ProgressPercentage)
	}
	require.Equal(t, models.ProjectCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)

	job, err := f.svc.GetJob(ctx, p.JobID)
	require.NoError(t, err)
	require.Equal(t, models.JobClosed, job.Status)

	log, err := f.svc.ActivityLog(ctx, f.freelancer, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.ActivityProjectCompleted, log[0].ActivityType)

	_, err = f.svc.SubmitDeliverable(ctx, f.freelancer, f.milestones[0].ID, "late", "")
	require.ErrorIs(t, err, marketplace.ErrState)
}

func TestAddMilestoneOrdering(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()

	m, err := f.svc.AddMilestone(ctx, f.client, f.project.ID, marketplace.MilestoneInput{Name: "Handover"})
	require.NoError(t, err)
	require.Equal(t, 5, m.OrderNumber)

	_, err = f.svc.AddMilestone(ctx, f.client, f.project.ID, marketplace.MilestoneInput{Name: "Extra", OrderNumber: 3})
	require.ErrorIs(t, err, marketplace.ErrValidation)

	m, err = f.svc.AddMilestone(ctx, f.client, f.project.ID, marketplace.MilestoneInput{Name: "Support", OrderNumber: 10})
	require.NoError(t, err)
	require.Equal(t, 10, m.OrderNumber)

	_, err = f.svc.AddMilestone(ctx, f.freelancer, f.project.ID, marketplace.MilestoneInput{Name: "Party"})
	require.ErrorIs(t, err, marketplace.ErrForbidden)

	ws, err := f.svc.GetWorkspace(ctx, f.client, f.project.ID)
	require.NoError(t, err)
	require.Len(t, ws.Milestones, 6)
	require.Equal(t, "Support", ws.Milestones[5].Name)
}

func TestCancelProject(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()

	p, err := f.svc.CancelProject(ctx, f.freelancer, f.project.ID)
	require.NoError(t, err)
	require.Equal(t, models.ProjectCancelled, p.Status)
	require.Nil(t, p.CompletedAt)

	_, err = f.svc.CancelProject(ctx, f.client, f.project.ID)
	require.ErrorIs(t, err, marketplace.ErrState)

	_, err = f.svc.AddReview(ctx, f.client, f.project.ID, f.freelancer.ID, 4, "cancelled anyway")
	require.ErrorIs(t, err, marketplace.ErrState)
}

func TestProgress(t *testing.T) {
	require.Zero(t, models.Progress(nil))
	ms := []models.Milestone{
		{Status: models.MilestoneDone},
		{Status: models.MilestoneInProgress},
		{Status: models.MilestonePending},
	}
	require.Equal(t, 33, models.Progress(ms))
}

func TestMilestoneDueToday(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()
	y, mon, d := time.Now().UTC().Date()
	today := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	m, err := f.svc.AddMilestone(ctx, f.client, f.project.ID, marketplace.MilestoneInput{Name: "Hotfix", DueDate: &today})
	require.NoError(t, err)
	require.Equal(t, today, *m.DueDate)

	_, err = f.svc.AddMilestone(ctx, f.client, f.project.ID, marketplace.MilestoneInput{Name: "Late", DueDate: &yesterday})
	require.ErrorIs(t, err, marketplace.ErrValidation)
}

func TestAddMilestoneLowersProgress(t *testing.T) {
	f := newWorkspace(t)
	ctx := context.Background()
	first := f.milestones[0].ID

	_, err := f.svc.SubmitDeliverable(ctx, f.freelancer, first, "draft", "")
	require.NoError(t, err)
	p, err := f.svc.ReviewDeliverable(ctx, f.client, first, true, "")
	require.NoError(t, err)
	require.Equal(t, 25, p.ProgressPercentage)

	_, err = f.svc.AddMilestone(ctx, f.client, f.project.ID, marketplace.MilestoneInput{Name: "Handover"})
	require.NoError(t, err)

	ws, err := f.svc.GetWorkspace(ctx, f.client, f.project.ID)
	require.NoError(t, err)
	require.Equal(t, 20, ws.Project.ProgressPercentage)
}

func TestReviewFailureLeavesNoPartialWrite(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	alice := mt.MustRegister(t, svc, "alice", "a@x.com", models.RoleFreelancer, "Go")
	bob := mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)
	project := mt.MustStartProject(t, svc, bob, alice, "Logo design")
	ws, err := svc.GetWorkspace(ctx, bob, project.ID)
	require.NoError(t, err)
	first := ws.Milestones[0].ID

	sub, err := svc.SubmitDeliverable(ctx, alice, first, "draft", "")
	require.NoError(t, err)
	before, err := svc.ActivityLog(ctx, bob, project.ID)
	require.NoError(t, err)

	store.Err = errors.New("connection reset")
	_, err = svc.ReviewDeliverable(ctx, bob, first, true, "Great work")
	require.Error(t, err)
	store.Err = nil

	subs, err := svc.ListSubmissions(ctx, bob, first)
	require.NoError(t, err)
	require.Equal(t, sub.ID, subs[0].ID)
	require.Nil(t, subs[0].Feedback)

	ws, err = svc.GetWorkspace(ctx, bob, project.ID)
	require.NoError(t, err)
	require.Equal(t, models.MilestoneInProgress, ws.Milestones[0].Status)
	require.Zero(t, ws.Project.ProgressPercentage)

	after, err := svc.ActivityLog(ctx, bob, project.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before))
}

func TestMilestoneTransitions(t *testing.T) {
	require.True(t, models.MilestonePending.CanMoveTo(models.MilestoneInProgress))
	require.False(t, models.MilestonePending.CanMoveTo(models.MilestoneDone))
	require.True(t, models.MilestoneInProgress.CanMoveTo(models.MilestoneInProgress))
	require.True(t, models.MilestoneInProgress.CanMoveTo(models.MilestoneDone))
	require.False(t, models.MilestoneDone.CanMoveTo(models.MilestoneInProgress))

	require.True(t, models.ProjectActive.CanMoveTo(models.ProjectCancelled))
	require.False(t, models.ProjectCompleted.CanMoveTo(models.ProjectCancelled))

	require.True(t, models.ApplicationPending.CanMoveTo(models.ApplicationRejected))
	require.False(t, models.ApplicationRejected.CanMoveTo(models.ApplicationAccepted))
}
