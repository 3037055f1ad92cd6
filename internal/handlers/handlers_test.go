package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seekit/internal/auth"
	"seekit/internal/handlers"
	"seekit/internal/handlers/testutils"
	"seekit/internal/marketplace"
	mt "seekit/internal/marketplace/marketplacetest"
	"seekit/models"
)

type testEnv struct {
	svc     *marketplace.Service
	handler *handlers.Handler
	tokens  *auth.TokenManager
	router  http.Handler
}

func newEnv() *testEnv {
	svc := marketplace.NewService(mt.NewMemStorage(), nil)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := handlers.NewHandler(svc, tokens, nil)
	return &testEnv{svc: svc, handler: h, tokens: tokens, router: handlers.NewRouter(h)}
}

func (e *testEnv) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := e.tokens.Issue(u.ID, string(u.Role))
	require.NoError(t, err)
	return tok
}

// do прогоняет запрос через полный роутер.
func (e *testEnv) do(t *testing.T, method, path, body string, user *models.User) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		testutils.WithBearer(req, e.token(t, user))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w.Result()
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPingHandler(t *testing.T) {
	env := newEnv()

	req := httptest.NewRequest("GET", "/api/ping", nil)
	w := httptest.NewRecorder()

	env.handler.PingHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv()

	res := env.do(t, http.MethodPost, "/api/users/register",
		`{"name":"alice","email":"a@x.com","password":"secret1","role":"freelancer","skills":["Go"]}`, nil)
	body := readBody(t, res)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	require.NotContains(t, body, "secret1")
	require.NotContains(t, body, "passwordHash")

	var reg struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &reg))
	require.NotEmpty(t, reg.Token)
	require.Equal(t, models.RoleFreelancer, reg.User.Role)

	res = env.do(t, http.MethodPost, "/api/users/register",
		`{"name":"alice2","email":"A@x.com","password":"secret1","role":"client"}`, nil)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	res = env.do(t, http.MethodPost, "/api/users/login", `{"email":"a@x.com","password":"nope"}`, nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = env.do(t, http.MethodPost, "/api/users/login", `{"email":"a@x.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	env := newEnv()

	res := env.do(t, http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	testutils.WithBearer(req, "garbage")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostJobHandlerRejectsInvertedBudget(t *testing.T) {
	env := newEnv()
	bob := mt.MustRegister(t, env.svc, "bob", "bob@x.com", models.RoleClient)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs",
		strings.NewReader(`{"title":"Logo design","description":"A logo","budgetMin":500,"budgetMax":100}`))
	req = req.WithContext(handlers.WithUser(req.Context(), bob))
	w := httptest.NewRecorder()

	env.handler.PostJobHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "budget_min")
}

func TestPostJobHandlerBadDeadline(t *testing.T) {
	env := newEnv()
	bob := mt.MustRegister(t, env.svc, "bob", "bob@x.com", models.RoleClient)

	res := env.do(t, http.MethodPost, "/api/jobs",
		`{"title":"Logo design","description":"A logo","deadline":"next week"}`, bob)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSearchJobsHandler(t *testing.T) {
	env := newEnv()
	bob := mt.MustRegister(t, env.svc, "bob", "bob@x.com", models.RoleClient)
	alice := mt.MustRegister(t, env.svc, "alice", "a@x.com", models.RoleFreelancer, "Go")
	mt.MustPostJob(t, env.svc, bob, "Logo design")
	mt.MustPostJob(t, env.svc, bob, "Backend service")

	res := env.do(t, http.MethodGet, "/api/jobs?q=logo&min=100", "", alice)
	body := readBody(t, res)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, "Logo design")
	require.NotContains(t, body, "Backend service")

	res = env.do(t, http.MethodGet, "/api/jobs?min=abc", "", alice)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = env.do(t, http.MethodGet, "/api/users/me/searches", "", alice)
	require.Contains(t, readBody(t, res), "logo min=100.00")
}

func TestApplyHandler(t *testing.T) {
	env := newEnv()
	bob := mt.MustRegister(t, env.svc, "bob", "bob@x.com", models.RoleClient)
	alice := mt.MustRegister(t, env.svc, "alice", "a@x.com", models.RoleFreelancer, "Go")
	job := mt.MustPostJob(t, env.svc, bob, "Logo design")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"coverLetter":"I draw great logos"}`))
	req = req.WithContext(handlers.WithUser(req.Context(), alice))
	req = testutils.WithChiURLParams(req, map[string]string{"jobId": fmt.Sprint(job.ID)})
	w := httptest.NewRecorder()

	env.handler.ApplyHandler(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"status":"pending"`)

	res := env.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/applications", job.ID), `{"coverLetter":"once more"}`, alice)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	res = env.do(t, http.MethodPost, "/api/jobs/abc/applications", `{"coverLetter":"once more"}`, alice)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = env.do(t, http.MethodPost, "/api/jobs/999/applications", `{"coverLetter":"once more"}`, alice)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	env := newEnv()
	bob := mt.MustRegister(t, env.svc, "bob", "bob@x.com", models.RoleClient)
	alice := mt.MustRegister(t, env.svc, "alice", "a@x.com", models.RoleFreelancer, "Go")
	job := mt.MustPostJob(t, env.svc, bob, "Logo design")

	res := env.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/applications", job.ID), `{"coverLetter":"Pick me please"}`, alice)
	var app models.Application
	require.NoError(t, json.Unmarshal([]byte(readBody(t, res)), &app))

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/applications/%d/accept", app.ID), "", alice)
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/applications/%d/accept", app.ID), "", bob)
	body := readBody(t, res)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var project models.Project
	require.NoError(t, json.Unmarshal([]byte(body), &project))
	require.Equal(t, alice.ID, project.FreelancerID)

	res = env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/reviews", project.ID),
		fmt.Sprintf(`{"revieweeId":%d,"rating":5}`, alice.ID), bob)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	res = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), "", alice)
	var ws models.Workspace
	require.NoError(t, json.Unmarshal([]byte(readBody(t, res)), &ws))
	require.Len(t, ws.Milestones, 4)

	milestone := ws.Milestones[0].ID
	for want := 1; want <= 2; want++ {
		res = env.do(t, http.MethodPost, fmt.Sprintf("/api/milestones/%d/submissions", milestone),
			`{"description":"draft","filePath":"/work/logo.svg"}`, alice)
		var sub models.Submission
		require.NoError(t, json.Unmarshal([]byte(readBody(t, res)), &sub))
		require.Equal(t, want, sub.VersionNumber)
	}

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/milestones/%d/review", milestone), `{"approve":true}`, bob)
	body = readBody(t, res)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.Contains(t, body, `"progressPercentage":25`)

	res = env.do(t, http.MethodPut, fmt.Sprintf("/api/projects/%d/complete", project.ID), "", bob)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/reviews", project.ID),
		fmt.Sprintf(`{"revieweeId":%d,"rating":9}`, alice.ID), bob)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/reviews", project.ID),
		fmt.Sprintf(`{"revieweeId":%d,"rating":5,"comment":"great"}`, alice.ID), bob)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = env.do(t, http.MethodGet, fmt.Sprintf("/api/freelancers/%d/portfolio", alice.ID), "", bob)
	body = readBody(t, res)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, `"averageRating":5`)

	res = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/activity", project.ID), "", alice)
	require.Contains(t, readBody(t, res), models.ActivityReviewAdded)
}

func TestInvalidJSON(t *testing.T) {
	env := newEnv()
	res := env.do(t, http.MethodPost, "/api/users/register", `{"name":`, nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newEnv()
	env.do(t, http.MethodGet, "/api/ping", "", nil)

	res := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, readBody(t, res), "seekit_http_request_duration_seconds")
}
