package marketplace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"seekit/internal/marketplace"
	mt "seekit/internal/marketplace/marketplacetest"
	"seekit/models"
)

func newService() (*marketplace.Service, *mt.MemStorage) {
	store := mt.NewMemStorage()
	return marketplace.NewService(store, nil), store
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, marketplace.RegisterInput{
		Name:     "alice",
		Email:    "  A@X.com ",
		Password: "secret1",
		Location: "Tallinn",
		Role:     models.RoleFreelancer,
		Skills:   []string{"Go", "SQL", "go"},
	})
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, "a@x.com", u.Email)
	require.NotEqual(t, "secret1", u.PasswordHash)
	require.Len(t, u.Skills, 2)

	stored, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Go", "SQL"}, stored.SkillNames())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)

	_, err := svc.Register(context.Background(), marketplace.RegisterInput{
		Name: "bob again", Email: "BOB@x.com", Password: "secret2", Role: models.RoleClient,
	})
	require.ErrorIs(t, err, marketplace.ErrDuplicate)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService()

	cases := map[string]marketplace.RegisterInput{
		"empty name":     {Email: "a@x.com", Password: "secret1", Role: models.RoleClient},
		"bad email":      {Name: "a", Email: "not-an-email", Password: "secret1", Role: models.RoleClient},
		"short password": {Name: "a", Email: "a@x.com", Password: "123", Role: models.RoleClient},
		"unknown role":   {Name: "a", Email: "a@x.com", Password: "secret1", Role: "admin"},
		"no skills":      {Name: "a", Email: "a@x.com", Password: "secret1", Role: models.RoleFreelancer},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), in)
			require.ErrorIs(t, err, marketplace.ErrValidation)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	mt.MustRegister(t, svc, "bob", "bob@x.com", models.RoleClient)

	u, err := svc.Authenticate(ctx, "Bob@X.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "bob", u.Name)

	_, err = svc.Authenticate(ctx, "bob@x.com", "wrong-pass")
	require.ErrorIs(t, err, marketplace.ErrAuth)

	_, err = svc.Authenticate(ctx, "nobody@x.com", "secret1")
	require.ErrorIs(t, err, marketplace.ErrAuth)
}

func TestSkills(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	alice := mt.MustRegister(t, svc, "alice", "a@x.com", models.RoleFreelancer, "Go")
	bob := mt.MustRegister(t, svc, "bob", "b@x.com", models.RoleClient)

	sk, err := svc.AddSkill(ctx, alice, "Docker", "")
	require.NoError(t, err)
	require.Equal(t, models.LevelIntermediate, sk.Level)

	_, err = svc.AddSkill(ctx, alice, "docker", "expert")
	require.ErrorIs(t, err, marketplace.ErrDuplicate)

	_, err = svc.AddSkill(ctx, alice, "Rust", "guru")
	require.ErrorIs(t, err, marketplace.ErrValidation)

	_, err = svc.AddSkill(ctx, bob, "Go", "expert")
	require.ErrorIs(t, err, marketplace.ErrState)

	require.ErrorIs(t, svc.RemoveSkill(ctx, bob, sk.ID), marketplace.ErrNotFound)
	require.NoError(t, svc.RemoveSkill(ctx, alice, sk.ID))

	stored, err := svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Go"}, stored.SkillNames())
}

func TestMatchFreelancers(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	bob := mt.MustRegister(t, svc, "bob", "b@x.com", models.RoleClient)
	mt.MustRegister(t, svc, "alice", "a@x.com", models.RoleFreelancer, "Go", "SQL")
	mt.MustRegister(t, svc, "carol", "c@x.com", models.RoleFreelancer, "Figma")

	job := mt.MustPostJob(t, svc, bob, "API backend", "go", "postgres")
	matches, err := svc.MatchFreelancers(ctx, bob, job.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "alice", matches[0].Freelancer.Name)
	require.Equal(t, []string{"Go"}, matches[0].Matched)

	open := mt.MustPostJob(t, svc, bob, "Anything")
	matches, err = svc.MatchFreelancers(ctx, bob, open.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	all, err := svc.BrowseFreelancers(ctx, bob)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
