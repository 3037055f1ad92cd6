package cli

import (
	"fmt"
	"strings"
	"time"

	"seekit/models"
)

const dateLayout = "2006-01-02"

func formatBudget(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("$%.2f - $%.2f", *min, *max)
	case min != nil:
		return fmt.Sprintf("from $%.2f", *min)
	case max != nil:
		return fmt.Sprintf("up to $%.2f", *max)
	}
	return "Not specified"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "None"
	}
	return t.Format(dateLayout)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

func stars(rating int) string {
	return strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
}

func (a *App) printUser(n int, u *models.User) {
	a.printf("%d. %s (#%d) <%s> [%s] %s\n", n, u.Name, u.ID, u.Email, u.Role, orNone(u.Location))
	if u.Role == models.RoleFreelancer {
		a.printf("   Skills: %s\n", orNone(strings.Join(u.SkillNames(), ", ")))
	}
}

func (a *App) printJob(j *models.Job) {
	a.printf("[%d] %s (%s)\n", j.ID, j.Title, j.Status)
	a.printf("    Budget: %s | Deadline: %s\n", formatBudget(j.BudgetMin, j.BudgetMax), formatDate(j.Deadline))
	a.printf("    Skills: %s\n", orNone(strings.Join(j.RequiredSkills, ", ")))
	a.printf("    %s\n", j.Description)
}

func (a *App) printApplication(app *models.Application) {
	a.printf("[%d] job #%d by %s: %s\n", app.ID, app.JobID, app.FreelancerName, app.Status)
	a.printf("    %s\n", app.CoverLetter)
}

func (a *App) printProject(p *models.Project) {
	a.printf("[%d] job #%d: %s, %d%% complete\n", p.ID, p.JobID, p.Status, p.ProgressPercentage)
}

func (a *App) printMilestone(m *models.Milestone) {
	a.printf("  %d. [%d] %s (%s) due %s\n", m.OrderNumber, m.ID, m.Name, m.Status, formatDate(m.DueDate))
	if m.Description != "" {
		a.printf("     %s\n", m.Description)
	}
}

func (a *App) printSubmission(s *models.Submission) {
	a.printf("  v%d [%d] %s\n", s.VersionNumber, s.ID, s.Description)
	if s.FilePath != "" {
		a.printf("     File: %s\n", s.FilePath)
	}
	if s.Feedback != nil {
		a.printf("     Feedback: %s\n", *s.Feedback)
	}
}

func (a *App) printReview(r *models.Review) {
	a.printf("  %s %s: %s\n", stars(r.Rating), r.ReviewerName, orNone(r.Comment))
}

func progressBar(pct int) string {
	const width = 20
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
