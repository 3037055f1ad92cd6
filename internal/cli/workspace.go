package cli

import (
	"context"
	"fmt"
	"time"

	"seekit/internal/marketplace"
	"seekit/models"
)

func (a *App) workspaceMenu(ctx context.Context) error {
	return a.loopMenu(ctx, "Workspace", func() []menuItem {
		items := []menuItem{
			{"1", "View my workspaces", a.listWorkspaces, nil},
			{"2", "View workspace details", a.showWorkspace, nil},
			{"3", "View submissions for a milestone", a.listSubmissions, nil},
			{"4", "View activity log", a.activityLog, nil},
			{"5", "Leave a review", a.leaveReview, nil},
			{"6", "View project reviews", a.projectReviews, nil},
			{"7", "Cancel a project", a.cancelProject, nil},
		}
		if a.user.Role == models.RoleFreelancer {
			return append(items, menuItem{"8", "Submit a deliverable", a.submitDeliverable, nil})
		}
		return append(items,
			menuItem{"8", "Review a deliverable", a.reviewDeliverable, nil},
			menuItem{"9", "Add feedback to a submission", a.addFeedback, nil},
			menuItem{"10", "Add a milestone", a.addMilestone, nil},
			menuItem{"11", "Mark project complete", a.completeProject, nil},
		)
	})
}

func (a *App) listWorkspaces(ctx context.Context) error {
	projects, err := a.svc.ListWorkspaces(ctx, a.user)
	if err != nil {
		return err
	}
	a.heading("My workspaces")
	if len(projects) == 0 {
		a.info("No workspaces yet.")
	}
	for i := range projects {
		a.printProject(&projects[i])
	}
	return nil
}

func (a *App) showWorkspace(ctx context.Context) error {
	id, err := a.askInt("Project ID:")
	if err != nil {
		return err
	}
	ws, err := a.svc.GetWorkspace(ctx, a.user, id)
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("Workspace #%d: %s", ws.Project.ID, ws.JobTitle))
	a.printf("Client: %s | Freelancer: %s\n", ws.ClientName, ws.FreelancerName)
	a.printf("Status: %s\n", ws.Project.Status)
	a.printf("Progress: %s %d%%\n", progressBar(ws.Project.ProgressPercentage), ws.Project.ProgressPercentage)
	a.println("Milestones:")
	for i := range ws.Milestones {
		a.printMilestone(&ws.Milestones[i])
	}
	return nil
}

func (a *App) listSubmissions(ctx context.Context) error {
	id, err := a.askInt("Milestone ID:")
	if err != nil {
		return err
	}
	subs, err := a.svc.ListSubmissions(ctx, a.user, id)
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("Submissions for milestone #%d", id))
	if len(subs) == 0 {
		a.info("Nothing submitted yet.")
	}
	for i := range subs {
		a.printSubmission(&subs[i])
	}
	return nil
}

func (a *App) activityLog(ctx context.Context) error {
	id, err := a.askInt("Project ID:")
	if err != nil {
		return err
	}
	entries, err := a.svc.ActivityLog(ctx, a.user, id)
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("Activity for project #%d", id))
	for _, e := range entries {
		a.printf("  %s  %-22s %s: %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.ActivityType, e.UserName, e.Description)
	}
	return nil
}

func (a *App) submitDeliverable(ctx context.Context) error {
	id, err := a.askInt("Milestone ID:")
	if err != nil {
		return err
	}
	desc, err := a.ask("Description:")
	if err != nil {
		return err
	}
	path, err := a.ask("File path (optional):")
	if err != nil {
		return err
	}
	sub, err := a.svc.SubmitDeliverable(ctx, a.user, id, desc, path)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Version %d submitted for milestone #%d.", sub.VersionNumber, id))
	return nil
}

func (a *App) reviewDeliverable(ctx context.Context) error {
	id, err := a.askInt("Milestone ID:")
	if err != nil {
		return err
	}
	approve, err := a.confirm("Approve the latest submission?")
	if err != nil {
		return err
	}
	prompt := "Feedback (optional):"
	if !approve {
		prompt = "What needs to change?"
	}
	feedback, err := a.ask(prompt)
	if err != nil {
		return err
	}
	p, err := a.svc.ReviewDeliverable(ctx, a.user, id, approve, feedback)
	if err != nil {
		return err
	}
	if !approve {
		a.success("Revision requested.")
		return nil
	}
	a.success(fmt.Sprintf("Milestone approved. Project progress: %d%%.", p.ProgressPercentage))
	if p.Status == models.ProjectCompleted {
		a.success("All milestones approved, the project is complete!")
	}
	return nil
}

func (a *App) addFeedback(ctx context.Context) error {
	id, err := a.askInt("Submission ID:")
	if err != nil {
		return err
	}
	feedback, err := a.ask("Feedback:")
	if err != nil {
		return err
	}
	if _, err := a.svc.AddFeedback(ctx, a.user, id, feedback); err != nil {
		return err
	}
	a.success("Feedback saved.")
	return nil
}

func (a *App) addMilestone(ctx context.Context) error {
	projectID, err := a.askInt("Project ID:")
	if err != nil {
		return err
	}
	var in marketplace.MilestoneInput
	if in.Name, err = a.ask("Milestone name:"); err != nil {
		return err
	}
	if in.Description, err = a.ask("Description:"); err != nil {
		return err
	}
	due, err := a.ask("Due date YYYY-MM-DD (blank to skip):")
	if err != nil {
		return err
	}
	if due != "" {
		d, err := time.Parse(dateLayout, due)
		if err != nil {
			return fmt.Errorf("%w: due date must be YYYY-MM-DD", errInput)
		}
		in.DueDate = &d
	}
	m, err := a.svc.AddMilestone(ctx, a.user, projectID, in)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Milestone #%d %q added as step %d.", m.ID, m.Name, m.OrderNumber))
	return nil
}

func (a *App) completeProject(ctx context.Context) error {
	id, err := a.askInt("Project ID:")
	if err != nil {
		return err
	}
	ok, err := a.confirm("Mark the project as complete?")
	if err != nil || !ok {
		return err
	}
	if _, err := a.svc.CompleteProject(ctx, a.user, id); err != nil {
		return err
	}
	a.success(fmt.Sprintf("Project #%d completed. You can leave a review now.", id))
	return nil
}

func (a *App) cancelProject(ctx context.Context) error {
	id, err := a.askInt("Project ID:")
	if err != nil {
		return err
	}
	ok, err := a.confirm("Cancel the project? This cannot be undone")
	if err != nil || !ok {
		return err
	}
	if _, err := a.svc.CancelProject(ctx, a.user, id); err != nil {
		return err
	}
	a.success(fmt.Sprintf("Project #%d cancelled.", id))
	return nil
}

func (a *App) leaveReview(ctx context.Context) error {
	projectID, err := a.askInt("Project ID:")
	if err != nil {
		return err
	}
	ws, err := a.svc.GetWorkspace(ctx, a.user, projectID)
	if err != nil {
		return err
	}
	rating, err := a.askInt("Rating (1-5):")
	if err != nil {
		return err
	}
	comment, err := a.ask("Comment:")
	if err != nil {
		return err
	}
	revieweeID := ws.Project.Counterpart(a.user.ID)
	if _, err := a.svc.AddReview(ctx, a.user, projectID, revieweeID, rating, comment); err != nil {
		return err
	}
	a.success("Thanks, your review was saved.")
	return nil
}

func (a *App) projectReviews(ctx context.Context) error {
	projectID, err := a.askInt("Project ID:")
	if err != nil {
		return err
	}
	reviews, err := a.svc.ProjectReviews(ctx, projectID)
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("Reviews for project #%d", projectID))
	if len(reviews) == 0 {
		a.info("No reviews yet.")
	}
	for i := range reviews {
		a.printReview(&reviews[i])
	}
	return nil
}
