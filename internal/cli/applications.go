package cli

import (
	"context"
	"fmt"

	"seekit/models"
)

func (a *App) applicationsMenu(ctx context.Context) error {
	return a.loopMenu(ctx, "Applications", func() []menuItem {
		if a.user.Role == models.RoleFreelancer {
			return []menuItem{
				{"1", "View my applications", a.myApplications, nil},
			}
		}
		return []menuItem{
			{"1", "View applications to my jobs", a.clientApplications, nil},
			{"2", "View applications for a job", a.jobApplications, nil},
			{"3", "Accept an application", a.acceptApplication, nil},
			{"4", "Reject an application", a.rejectApplication, nil},
		}
	})
}

func (a *App) printApplications(apps []models.Application) {
	if len(apps) == 0 {
		a.info("No applications found.")
	}
	for i := range apps {
		a.printApplication(&apps[i])
	}
}

func (a *App) myApplications(ctx context.Context) error {
	apps, err := a.svc.ListFreelancerApplications(ctx, a.user)
	if err != nil {
		return err
	}
	a.heading("My applications")
	a.printApplications(apps)
	return nil
}

func (a *App) clientApplications(ctx context.Context) error {
	apps, err := a.svc.ListClientApplications(ctx, a.user)
	if err != nil {
		return err
	}
	a.heading("Applications to my jobs")
	a.printApplications(apps)
	return nil
}

func (a *App) jobApplications(ctx context.Context) error {
	jobID, err := a.askInt("Job ID:")
	if err != nil {
		return err
	}
	apps, err := a.svc.ListJobApplications(ctx, a.user, jobID)
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("Applications for job #%d", jobID))
	a.printApplications(apps)
	return nil
}

func (a *App) acceptApplication(ctx context.Context) error {
	appID, err := a.askInt("Application ID:")
	if err != nil {
		return err
	}
	rejectOthers, err := a.confirm("Reject the other pending applications?")
	if err != nil {
		return err
	}
	project, err := a.svc.AcceptApplication(ctx, a.user, appID, rejectOthers)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Application #%d accepted. Workspace #%d created.", appID, project.ID))
	return nil
}

func (a *App) rejectApplication(ctx context.Context) error {
	appID, err := a.askInt("Application ID:")
	if err != nil {
		return err
	}
	if _, err := a.svc.RejectApplication(ctx, a.user, appID); err != nil {
		return err
	}
	a.success(fmt.Sprintf("Application #%d rejected.", appID))
	return nil
}
