package cli

import (
	"context"
	"fmt"
	"time"

	"seekit/internal/marketplace"
	"seekit/models"
)

func (a *App) jobSearchMenu(ctx context.Context) error {
	return a.loopMenu(ctx, "Job Search", func() []menuItem {
		items := []menuItem{
			{"1", "Search open jobs", a.searchJobs, nil},
			{"2", "View search history", a.searchHistory, a.needLogin},
		}
		if a.user != nil && a.user.Role == models.RoleFreelancer {
			items = append(items, menuItem{"3", "Apply to a job", a.applyToJob, nil})
		}
		return items
	})
}

func (a *App) searchJobs(ctx context.Context) error {
	keywords, err := a.ask("Keywords (blank for all):")
	if err != nil {
		return err
	}
	minBudget, err := a.askOptionalFloat("Minimum budget (blank to skip):")
	if err != nil {
		return err
	}
	maxBudget, err := a.askOptionalFloat("Maximum budget (blank to skip):")
	if err != nil {
		return err
	}

	jobs, err := a.svc.SearchJobs(ctx, a.user, models.JobFilter{
		Keywords:  keywords,
		MinBudget: minBudget,
		MaxBudget: maxBudget,
	})
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("%d job(s) found", len(jobs)))
	for i := range jobs {
		a.printJob(&jobs[i])
	}
	return nil
}

func (a *App) searchHistory(ctx context.Context) error {
	history, err := a.svc.SearchHistory(ctx, a.user)
	if err != nil {
		return err
	}
	a.heading("Recent searches")
	if len(history) == 0 {
		a.info("No searches yet.")
	}
	for _, h := range history {
		a.printf("  %s  %s\n", h.SearchedAt.Format("2006-01-02 15:04"), h.Query)
	}
	return nil
}

func (a *App) applyToJob(ctx context.Context) error {
	jobID, err := a.askInt("Job ID:")
	if err != nil {
		return err
	}
	letter, err := a.ask("Cover letter:")
	if err != nil {
		return err
	}
	app, err := a.svc.Apply(ctx, a.user, jobID, letter)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Application #%d submitted for job #%d.", app.ID, jobID))
	return nil
}

func (a *App) jobPostingMenu(ctx context.Context) error {
	return a.loopMenu(ctx, "Job Posting", func() []menuItem {
		return []menuItem{
			{"1", "Post a new job", a.postJob, nil},
			{"2", "View my jobs", a.myJobs, nil},
			{"3", "Close a job", a.closeJob, nil},
		}
	})
}

func (a *App) postJob(ctx context.Context) error {
	var in marketplace.JobInput
	var err error
	if in.Title, err = a.ask("Job title:"); err != nil {
		return err
	}
	if in.Description, err = a.ask("Description:"); err != nil {
		return err
	}
	skills, err := a.ask("Required skills (comma separated):")
	if err != nil {
		return err
	}
	in.RequiredSkills = marketplace.SplitList(skills)
	if in.BudgetMin, err = a.askOptionalFloat("Minimum budget (blank to skip):"); err != nil {
		return err
	}
	if in.BudgetMax, err = a.askOptionalFloat("Maximum budget (blank to skip):"); err != nil {
		return err
	}
	deadline, err := a.ask("Deadline YYYY-MM-DD (blank to skip):")
	if err != nil {
		return err
	}
	if deadline != "" {
		d, err := time.Parse(dateLayout, deadline)
		if err != nil {
			return fmt.Errorf("%w: deadline must be YYYY-MM-DD", errInput)
		}
		in.Deadline = &d
	}

	job, err := a.svc.PostJob(ctx, a.user, in)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Job #%d %q posted.", job.ID, job.Title))
	return nil
}

func (a *App) myJobs(ctx context.Context) error {
	jobs, err := a.svc.ListClientJobs(ctx, a.user)
	if err != nil {
		return err
	}
	a.heading("My jobs")
	if len(jobs) == 0 {
		a.info("You have not posted any jobs yet.")
	}
	for i := range jobs {
		a.printJob(&jobs[i])
	}
	return nil
}

func (a *App) closeJob(ctx context.Context) error {
	jobID, err := a.askInt("Job ID:")
	if err != nil {
		return err
	}
	if _, err := a.svc.CloseJob(ctx, a.user, jobID); err != nil {
		return err
	}
	a.success(fmt.Sprintf("Job #%d closed.", jobID))
	return nil
}
