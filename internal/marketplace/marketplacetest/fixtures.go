package marketplacetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"seekit/internal/marketplace"
	"seekit/models"
)

func Float(v float64) *float64 { return &v }

// MustRegister регистрирует пользователя с паролем "secret1".
func MustRegister(t *testing.T, svc *marketplace.Service, name, email string, role models.Role, skills ...string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), marketplace.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret1",
		Role:     role,
		Skills:   skills,
	})
	require.NoError(t, err)
	return u
}

// MustPostJob публикует открытую вакансию с бюджетом 50..200.
func MustPostJob(t *testing.T, svc *marketplace.Service, client *models.User, title string, skills ...string) *models.Job {
	t.Helper()
	job, err := svc.PostJob(context.Background(), client, marketplace.JobInput{
		Title:          title,
		Description:    title + " for a small business",
		RequiredSkills: skills,
		BudgetMin:      Float(50),
		BudgetMax:      Float(200),
	})
	require.NoError(t, err)
	return job
}

// MustStartProject проводит отклик фрилансера через приемку и возвращает проект.
func MustStartProject(t *testing.T, svc *marketplace.Service, client, freelancer *models.User, title string) *models.Project {
	t.Helper()
	ctx := context.Background()
	job := MustPostJob(t, svc, client, title)
	app, err := svc.Apply(ctx, freelancer, job.ID, "I can do this well")
	require.NoError(t, err)
	project, err := svc.AcceptApplication(ctx, client, app.ID, true)
	require.NoError(t, err)
	return project
}
