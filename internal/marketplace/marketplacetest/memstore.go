// Package marketplacetest содержит хранилище в памяти для тестов сервиса,
// обработчиков и консоли. Семантика повторяет db.Storage: уникальные индексы,
// условные обновления и нумерация версий.
package marketplacetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"seekit/db"
	"seekit/internal/marketplace"
	"seekit/models"
)

var _ marketplace.Storage = (*MemStorage)(nil)

type MemStorage struct {
	mu sync.Mutex

	seq         int
	users       map[int]*models.User
	skills      map[int]*models.Skill
	jobs        map[int]*models.Job
	apps        map[int]*models.Application
	projects    map[int]*models.Project
	milestones  map[int]*models.Milestone
	submissions map[int]*models.Submission
	reviews     map[int]*models.Review
	activity    []models.ActivityLog
	searches    []models.SearchHistory

	// Err, если задан, возвращается из каждого метода записи.
	Err error
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:       map[int]*models.User{},
		skills:      map[int]*models.Skill{},
		jobs:        map[int]*models.Job{},
		apps:        map[int]*models.Application{},
		projects:    map[int]*models.Project{},
		milestones:  map[int]*models.Milestone{},
		submissions: map[int]*models.Submission{},
		reviews:     map[int]*models.Review{},
	}
}

func (m *MemStorage) next() int {
	m.seq++
	return m.seq
}

// Users

func (m *MemStorage) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return db.ErrDuplicate
		}
	}
	u.ID = m.next()
	u.CreatedAt = time.Now()
	stored := *u
	stored.Skills = nil
	m.users[u.ID] = &stored
	for i := range u.Skills {
		u.Skills[i].UserID = u.ID
		if err := m.insertSkill(&u.Skills[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemStorage) withSkills(u *models.User) models.User {
	out := *u
	out.Skills = []models.Skill{}
	for _, sk := range m.skills {
		if sk.UserID == u.ID {
			out.Skills = append(out.Skills, *sk)
		}
	}
	sort.Slice(out.Skills, func(i, j int) bool { return out.Skills[i].Name < out.Skills[j].Name })
	return out
}

func (m *MemStorage) GetUser(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := m.withSkills(u)
	return &out, nil
}

func (m *MemStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			out := m.withSkills(u)
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStorage) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []models.User{}
	for _, u := range m.users {
		if role == "" || u.Role == role {
			users = append(users, m.withSkills(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (m *MemStorage) FindFreelancersBySkills(ctx context.Context, names []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}
	users := []models.User{}
	for _, u := range m.users {
		if u.Role != models.RoleFreelancer {
			continue
		}
		full := m.withSkills(u)
		for _, sk := range full.Skills {
			if wanted[strings.ToLower(sk.Name)] {
				users = append(users, full)
				break
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (m *MemStorage) insertSkill(sk *models.Skill) error {
	for _, existing := range m.skills {
		if existing.UserID == sk.UserID && strings.EqualFold(existing.Name, sk.Name) {
			return db.ErrDuplicate
		}
	}
	sk.ID = m.next()
	sk.CreatedAt = time.Now()
	stored := *sk
	m.skills[sk.ID] = &stored
	return nil
}

func (m *MemStorage) CreateSkill(ctx context.Context, sk *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	return m.insertSkill(sk)
}

func (m *MemStorage) ListSkills(ctx context.Context, userID int) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return []models.Skill{}, nil
	}
	return m.withSkills(u).Skills, nil
}

func (m *MemStorage) DeleteSkill(ctx context.Context, userID, skillID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sk, ok := m.skills[skillID]
	if !ok || sk.UserID != userID {
		return db.ErrNotFound
	}
	delete(m.skills, skillID)
	return nil
}

// Jobs

func (m *MemStorage) CreateJob(ctx context.Context, j *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.users[j.ClientID]; !ok {
		return db.ErrNotFound
	}
	j.ID = m.next()
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	stored := *j
	m.jobs[j.ID] = &stored
	return nil
}

func (m *MemStorage) GetJob(ctx context.Context, id int) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := *j
	return &out, nil
}

func (m *MemStorage) ListJobsByClient(ctx context.Context, clientID int) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := []models.Job{}
	for _, j := range m.jobs {
		if j.ClientID == clientID {
			jobs = append(jobs, *j)
		}
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID > jobs[k].ID })
	return jobs, nil
}

func (m *MemStorage) SearchJobs(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kw := strings.ToLower(strings.TrimSpace(f.Keywords))
	jobs := []models.Job{}
	for _, j := range m.jobs {
		if j.Status != models.JobOpen {
			continue
		}
		if kw != "" {
			haystack := strings.ToLower(j.Title + "\n" + j.Description + "\n" + strings.Join(j.RequiredSkills, ","))
			if !strings.Contains(haystack, kw) {
				continue
			}
		}
		// NULL в сравнении SQL отбрасывает строку
		if f.MinBudget != nil && (j.BudgetMax == nil || *j.BudgetMax < *f.MinBudget) {
			continue
		}
		if f.MaxBudget != nil && (j.BudgetMin == nil || *j.BudgetMin > *f.MaxBudget) {
			continue
		}
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID > jobs[k].ID })
	if f.Limit > 0 {
		if f.Offset >= len(jobs) {
			return []models.Job{}, nil
		}
		end := f.Offset + f.Limit
		if end > len(jobs) {
			end = len(jobs)
		}
		jobs = jobs[f.Offset:end]
	}
	return jobs, nil
}

func (m *MemStorage) UpdateJobStatus(ctx context.Context, id int, from, to models.JobStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	j, ok := m.jobs[id]
	if !ok || j.Status != from {
		return db.ErrConflict
	}
	j.Status = to
	j.UpdatedAt = time.Now()
	return nil
}

// Applications

func (m *MemStorage) withFreelancerName(a *models.Application) models.Application {
	out := *a
	if u, ok := m.users[a.FreelancerID]; ok {
		out.FreelancerName = u.Name
	}
	return out
}

func (m *MemStorage) CreateApplication(ctx context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.apps {
		if existing.JobID == a.JobID && existing.FreelancerID == a.FreelancerID {
			return db.ErrDuplicate
		}
	}
	a.ID = m.next()
	a.AppliedAt = time.Now()
	a.UpdatedAt = a.AppliedAt
	stored := *a
	m.apps[a.ID] = &stored
	return nil
}

func (m *MemStorage) GetApplication(ctx context.Context, id int) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := m.withFreelancerName(a)
	return &out, nil
}

func (m *MemStorage) FindApplication(ctx context.Context, jobID, freelancerID int) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == jobID && a.FreelancerID == freelancerID {
			out := m.withFreelancerName(a)
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStorage) listApps(keep func(a *models.Application) bool) []models.Application {
	apps := []models.Application{}
	for _, a := range m.apps {
		if keep(a) {
			apps = append(apps, m.withFreelancerName(a))
		}
	}
	sort.Slice(apps, func(i, k int) bool { return apps[i].ID > apps[k].ID })
	return apps
}

func (m *MemStorage) ListApplicationsByJob(ctx context.Context, jobID int) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApps(func(a *models.Application) bool { return a.JobID == jobID }), nil
}

func (m *MemStorage) ListApplicationsByFreelancer(ctx context.Context, freelancerID int) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApps(func(a *models.Application) bool { return a.FreelancerID == freelancerID }), nil
}

func (m *MemStorage) ListApplicationsByClient(ctx context.Context, clientID int) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApps(func(a *models.Application) bool {
		j, ok := m.jobs[a.JobID]
		return ok && j.ClientID == clientID
	}), nil
}

func (m *MemStorage) UpdateApplicationStatus(ctx context.Context, id int, from, to models.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	a, ok := m.apps[id]
	if !ok || a.Status != from {
		return db.ErrConflict
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return nil
}

// AcceptApplication проверяет все условия до первой записи, чтобы вести себя
// как откат транзакции.
func (m *MemStorage) AcceptApplication(ctx context.Context, p db.AcceptParams) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	job, ok := m.jobs[p.Application.JobID]
	if !ok || job.Status != models.JobOpen {
		return nil, db.ErrConflict
	}
	app, ok := m.apps[p.Application.ID]
	if !ok || app.Status != models.ApplicationPending {
		return nil, db.ErrConflict
	}

	now := time.Now()
	job.Status = models.JobInProgress
	job.UpdatedAt = now
	app.Status = models.ApplicationAccepted
	app.UpdatedAt = now
	if p.RejectOthers {
		for _, other := range m.apps {
			if other.JobID == job.ID && other.ID != app.ID && other.Status == models.ApplicationPending {
				other.Status = models.ApplicationRejected
				other.UpdatedAt = now
			}
		}
	}

	project := &models.Project{
		ID:            m.next(),
		JobID:         app.JobID,
		ApplicationID: app.ID,
		FreelancerID:  app.FreelancerID,
		ClientID:      p.ClientID,
		Status:        models.ProjectActive,
		CreatedAt:     now,
	}
	stored := *project
	m.projects[project.ID] = &stored

	for i := range p.Milestones {
		ms := &p.Milestones[i]
		ms.ProjectID = project.ID
		m.insertMilestone(ms)
	}
	if p.Activity != "" {
		m.insertActivity(&models.ActivityLog{
			ProjectID:    project.ID,
			UserID:       p.ClientID,
			ActivityType: models.ActivityWorkspaceCreated,
			Description:  p.Activity,
		})
	}
	return project, nil
}

// Projects

func (m *MemStorage) GetProject(ctx context.Context, id int) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *MemStorage) GetProjectParties(ctx context.Context, projectID int) (*models.ProjectParties, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil, db.ErrNotFound
	}
	parties := &models.ProjectParties{}
	if j, ok := m.jobs[p.JobID]; ok {
		parties.JobTitle = j.Title
	}
	if u, ok := m.users[p.ClientID]; ok {
		parties.ClientName = u.Name
	}
	if u, ok := m.users[p.FreelancerID]; ok {
		parties.FreelancerName = u.Name
	}
	return parties, nil
}

func (m *MemStorage) ListProjectsForUser(ctx context.Context, userID int, status models.ProjectStatus) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projects := []models.Project{}
	for _, p := range m.projects {
		if p.IsParty(userID) && (status == "" || p.Status == status) {
			projects = append(projects, *p)
		}
	}
	sort.Slice(projects, func(i, k int) bool { return projects[i].ID > projects[k].ID })
	return projects, nil
}

func (m *MemStorage) FinishProject(ctx context.Context, p *models.Project, entry *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	return m.finishProject(p, entry)
}

func (m *MemStorage) finishProject(p *models.Project, entry *models.ActivityLog) error {
	stored, ok := m.projects[p.ID]
	if !ok || stored.Status != models.ProjectActive {
		return db.ErrConflict
	}
	stored.Status = p.Status
	stored.ProgressPercentage = p.ProgressPercentage
	stored.CompletedAt = p.CompletedAt
	if j, ok := m.jobs[p.JobID]; ok {
		j.Status = models.JobClosed
	}
	if entry != nil {
		entry.ProjectID = p.ID
		m.insertActivity(entry)
	}
	return nil
}

// Milestones

func (m *MemStorage) insertMilestone(ms *models.Milestone) {
	ms.ID = m.next()
	ms.CreatedAt = time.Now()
	ms.UpdatedAt = ms.CreatedAt
	stored := *ms
	m.milestones[ms.ID] = &stored
}

func (m *MemStorage) CreateMilestone(ctx context.Context, ms *models.Milestone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	project, ok := m.projects[ms.ProjectID]
	if !ok {
		return db.ErrNotFound
	}
	if project.Status != models.ProjectActive {
		return db.ErrConflict
	}
	m.insertMilestone(ms)
	project.ProgressPercentage = m.progress(project.ID)
	return nil
}

func (m *MemStorage) progress(projectID int) int {
	var ms []models.Milestone
	for _, stored := range m.milestones {
		if stored.ProjectID == projectID {
			ms = append(ms, *stored)
		}
	}
	return models.Progress(ms)
}

func (m *MemStorage) GetMilestone(ctx context.Context, id int) (*models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.milestones[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := *ms
	return &out, nil
}

func (m *MemStorage) ListMilestones(ctx context.Context, projectID int) ([]models.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Milestone{}
	for _, ms := range m.milestones {
		if ms.ProjectID == projectID {
			out = append(out, *ms)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].OrderNumber != out[k].OrderNumber {
			return out[i].OrderNumber < out[k].OrderNumber
		}
		return out[i].ID < out[k].ID
	})
	return out, nil
}

// Submissions

func (m *MemStorage) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	ms, ok := m.milestones[sub.MilestoneID]
	if !ok || ms.Status == models.MilestoneDone {
		return db.ErrConflict
	}
	ms.Status = models.MilestoneInProgress
	ms.UpdatedAt = time.Now()

	maxVersion := 0
	for _, existing := range m.submissions {
		if existing.MilestoneID == sub.MilestoneID && existing.VersionNumber > maxVersion {
			maxVersion = existing.VersionNumber
		}
	}
	sub.ID = m.next()
	sub.VersionNumber = maxVersion + 1
	sub.SubmittedAt = time.Now()
	stored := *sub
	m.submissions[sub.ID] = &stored
	return nil
}

func (m *MemStorage) GetSubmission(ctx context.Context, id int) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := *sub
	return &out, nil
}

func (m *MemStorage) ListSubmissions(ctx context.Context, milestoneID int) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Submission{}
	for _, sub := range m.submissions {
		if sub.MilestoneID == milestoneID {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].VersionNumber > out[k].VersionNumber })
	return out, nil
}

func (m *MemStorage) LatestSubmission(ctx context.Context, milestoneID int) (*models.Submission, error) {
	subs, err := m.ListSubmissions(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, db.ErrNotFound
	}
	return &subs[0], nil
}

func (m *MemStorage) SetSubmissionFeedback(ctx context.Context, id int, feedback string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	sub, ok := m.submissions[id]
	if !ok {
		return db.ErrNotFound
	}
	fb := feedback
	sub.Feedback = &fb
	return nil
}

// ReviewMilestone проверяет все условия до первой записи, как откат транзакции.
func (m *MemStorage) ReviewMilestone(ctx context.Context, p db.ReviewParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	sub, ok := m.submissions[p.SubmissionID]
	if p.Feedback != "" && (!ok || sub.MilestoneID != p.MilestoneID) {
		return db.ErrNotFound
	}
	ms, ok := m.milestones[p.MilestoneID]
	if !ok || ms.Status == models.MilestoneDone {
		return db.ErrConflict
	}
	project, ok := m.projects[p.Project.ID]
	if p.Approve && (!ok || project.Status != models.ProjectActive) {
		return db.ErrConflict
	}

	if p.Feedback != "" {
		fb := p.Feedback
		sub.Feedback = &fb
	}
	ms.Status = models.MilestoneInProgress
	if p.Approve {
		ms.Status = models.MilestoneDone
	}
	ms.UpdatedAt = time.Now()
	if p.Activity != nil {
		p.Activity.ProjectID = p.Project.ID
		m.insertActivity(p.Activity)
	}
	if !p.Approve {
		return nil
	}

	pct := m.progress(project.ID)
	project.ProgressPercentage = pct
	p.Project.ProgressPercentage = pct
	if pct < 100 {
		return nil
	}
	completedAt := p.CompletedAt
	p.Project.Status = models.ProjectCompleted
	p.Project.CompletedAt = &completedAt
	return m.finishProject(p.Project, p.Completion)
}

// Reviews

func (m *MemStorage) CreateReview(ctx context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.reviews {
		if existing.ProjectID == r.ProjectID && existing.ReviewerID == r.ReviewerID {
			return db.ErrDuplicate
		}
	}
	r.ID = m.next()
	r.CreatedAt = time.Now()
	stored := *r
	m.reviews[r.ID] = &stored
	return nil
}

func (m *MemStorage) listReviews(keep func(r *models.Review) bool) []models.Review {
	out := []models.Review{}
	for _, r := range m.reviews {
		if keep(r) {
			rv := *r
			if u, ok := m.users[r.ReviewerID]; ok {
				rv.ReviewerName = u.Name
			}
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out
}

func (m *MemStorage) ListReviewsByProject(ctx context.Context, projectID int) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listReviews(func(r *models.Review) bool { return r.ProjectID == projectID }), nil
}

func (m *MemStorage) ListReviewsForUser(ctx context.Context, revieweeID int) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listReviews(func(r *models.Review) bool { return r.RevieweeID == revieweeID }), nil
}

func (m *MemStorage) ListPortfolioEntries(ctx context.Context, freelancerID int) ([]models.PortfolioEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := []models.PortfolioEntry{}
	for _, p := range m.projects {
		if p.FreelancerID != freelancerID || p.Status != models.ProjectCompleted {
			continue
		}
		e := models.PortfolioEntry{ProjectID: p.ID, CompletedAt: p.CompletedAt}
		if j, ok := m.jobs[p.JobID]; ok {
			e.Title = j.Title
			e.Description = j.Description
			e.RequiredSkills = j.RequiredSkills
		}
		for _, r := range m.reviews {
			if r.ProjectID == p.ID && r.RevieweeID == freelancerID {
				rating := r.Rating
				e.Rating = &rating
				e.ReviewComment = r.Comment
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, k int) bool { return entries[i].ProjectID > entries[k].ProjectID })
	return entries, nil
}

// Audit

func (m *MemStorage) insertActivity(a *models.ActivityLog) {
	a.ID = m.next()
	a.CreatedAt = time.Now()
	m.activity = append(m.activity, *a)
}

func (m *MemStorage) CreateActivity(ctx context.Context, a *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.insertActivity(a)
	return nil
}

func (m *MemStorage) ListActivity(ctx context.Context, projectID int) ([]models.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ActivityLog{}
	for i := len(m.activity) - 1; i >= 0; i-- {
		a := m.activity[i]
		if a.ProjectID != projectID {
			continue
		}
		if u, ok := m.users[a.UserID]; ok {
			a.UserName = u.Name
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *MemStorage) CreateSearchHistory(ctx context.Context, h *models.SearchHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	h.ID = m.next()
	h.SearchedAt = time.Now()
	m.searches = append(m.searches, *h)
	return nil
}

func (m *MemStorage) ListSearchHistory(ctx context.Context, userID, limit int) ([]models.SearchHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SearchHistory{}
	for i := len(m.searches) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.searches[i].UserID == userID {
			out = append(out, m.searches[i])
		}
	}
	return out, nil
}

// ApplicationStatus: текущий статус отклика, для проверок в тестах.
func (m *MemStorage) ApplicationStatus(id int) models.ApplicationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.apps[id]; ok {
		return a.Status
	}
	return ""
}

// ProjectCount: число проектов по вакансии.
func (m *MemStorage) ProjectCount(jobID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.projects {
		if p.JobID == jobID {
			n++
		}
	}
	return n
}
