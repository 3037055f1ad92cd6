package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"seekit/internal/marketplace"
	mt "seekit/internal/marketplace/marketplacetest"
	"seekit/models"
)

func newApp(t *testing.T, script string) (*App, *marketplace.Service, *bytes.Buffer) {
	t.Helper()
	svc := marketplace.NewService(mt.NewMemStorage(), nil)
	out := &bytes.Buffer{}
	return New(svc, strings.NewReader(script), out, nil), svc, out
}

// run подменяет ввод уже созданного приложения и запускает главное меню.
func run(t *testing.T, a *App, script string) string {
	t.Helper()
	out := &bytes.Buffer{}
	a.in = New(nil, strings.NewReader(script), nil, nil).in
	a.out = out
	require.NoError(t, a.Run(context.Background()))
	return out.String()
}

func TestRunExitsOnZero(t *testing.T) {
	a, _, out := newApp(t, "0\n")
	require.NoError(t, a.Run(context.Background()))
	require.Contains(t, out.String(), "Welcome to SeekIT")
	require.Contains(t, out.String(), "Goodbye!")
}

func TestRunStopsOnEOF(t *testing.T) {
	a, _, out := newApp(t, "")
	require.NoError(t, a.Run(context.Background()))
	require.NotContains(t, out.String(), "Goodbye!")
}

func TestRunRejectsUnknownOption(t *testing.T) {
	a, _, out := newApp(t, "42\n0\n")
	require.NoError(t, a.Run(context.Background()))
	require.Contains(t, out.String(), "[!] Invalid option. Please try again.")
}

func TestGuardsRequireLogin(t *testing.T) {
	a, _, out := newApp(t, "3\n6\n10\n0\n")
	require.NoError(t, a.Run(context.Background()))
	require.Equal(t, 3, strings.Count(out.String(), "[!] Please login first."))
}

func TestRegisterAndLogin(t *testing.T) {
	script := strings.Join([]string{
		"1", "Bob", "bob@x.com", "secret1", "Tallinn", "client",
		"2", "bob@x.com", "secret1",
		"0",
	}, "\n") + "\n"
	a, _, out := newApp(t, script)
	require.NoError(t, a.Run(context.Background()))

	require.Contains(t, out.String(), "[+] Account created for bob@x.com.")
	require.Contains(t, out.String(), "[+] Welcome back, Bob!")
	require.NotNil(t, a.CurrentUser())
	require.Equal(t, models.RoleClient, a.CurrentUser().Role)
}

func TestRegisterShowsValidationError(t *testing.T) {
	script := "1\nBob\nnot-an-email\nsecret1\n\nclient\n0\n"
	a, _, out := newApp(t, script)
	require.NoError(t, a.Run(context.Background()))
	require.Contains(t, out.String(), "[!] ")
	require.NotContains(t, out.String(), "Account created")
}

func TestLoginWrongPassword(t *testing.T) {
	a, svc, _ := newApp(t, "")
	mt.MustRegister(t, svc, "Ann", "ann@x.com", models.RoleClient)

	out := run(t, a, "2\nann@x.com\nwrong-pass\n0\n")
	require.Contains(t, out, "[!] ")
	require.NotContains(t, out, "Welcome back")
	require.Nil(t, a.CurrentUser())
}

func TestRoleGuards(t *testing.T) {
	a, svc, _ := newApp(t, "")
	a.user = mt.MustRegister(t, svc, "Fay", "fay@x.com", models.RoleFreelancer, "Go")

	out := run(t, a, "7\n11\n0\n")
	require.Equal(t, 2, strings.Count(out, "[!] Only clients can use this option."))
}

func TestBadNumberIsReported(t *testing.T) {
	a, svc, _ := newApp(t, "")
	a.user = mt.MustRegister(t, svc, "Fay", "fay@x.com", models.RoleFreelancer, "Go")

	out := run(t, a, "5\n3\nabc\n0\n0\n")
	require.Contains(t, out, `[!] invalid input: "abc" is not a number`)
}

func TestClientPostsJobAndFreelancerApplies(t *testing.T) {
	a, svc, _ := newApp(t, "")
	client := mt.MustRegister(t, svc, "Cleo", "cleo@x.com", models.RoleClient)
	freelancer := mt.MustRegister(t, svc, "Fay", "fay@x.com", models.RoleFreelancer, "Go")

	a.user = client
	out := run(t, a, "7\n1\nLanding page\nNeed a landing page\nHTML, CSS\n100\n500\n\n0\n0\n")
	jobs, err := svc.ListClientJobs(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Contains(t, out, fmt.Sprintf("[+] Job #%d %q posted.", jobs[0].ID, "Landing page"))

	a.user = freelancer
	out = run(t, a, fmt.Sprintf("5\n1\nlanding\n\n\n3\n%d\nI have built many of these\n0\n0\n", jobs[0].ID))
	require.Contains(t, out, "1 job(s) found")
	require.Contains(t, out, "Landing page")

	apps, err := svc.ListFreelancerApplications(context.Background(), freelancer)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, models.ApplicationPending, apps[0].Status)
}

func TestWorkspaceSubmitAndApprove(t *testing.T) {
	a, svc, _ := newApp(t, "")
	ctx := context.Background()
	client := mt.MustRegister(t, svc, "Cleo", "cleo@x.com", models.RoleClient)
	freelancer := mt.MustRegister(t, svc, "Fay", "fay@x.com", models.RoleFreelancer, "Go")
	project := mt.MustStartProject(t, svc, client, freelancer, "Logo design")

	ws, err := svc.GetWorkspace(ctx, client, project.ID)
	require.NoError(t, err)
	require.NotEmpty(t, ws.Milestones)
	first := ws.Milestones[0].ID

	a.user = freelancer
	out := run(t, a, fmt.Sprintf("10\n8\n%d\nFirst draft\n\n0\n0\n", first))
	require.Contains(t, out, fmt.Sprintf("[+] Version 1 submitted for milestone #%d.", first))

	a.user = client
	out = run(t, a, fmt.Sprintf("10\n8\n%d\ny\nLooks good\n0\n0\n", first))
	require.Contains(t, out, "[+] Milestone approved. Project progress: 25%.")

	out = run(t, a, fmt.Sprintf("10\n2\n%d\n0\n0\n", project.ID))
	require.Contains(t, out, "Workspace #")
	require.Contains(t, out, "Client: Cleo | Freelancer: Fay")
}
