package cli

import (
	"context"
	"fmt"
	"strings"

	"seekit/models"
)

func (a *App) profileMenu(ctx context.Context) error {
	return a.loopMenu(ctx, "Profile", func() []menuItem {
		items := []menuItem{{"1", "View profile", a.showProfile, nil}}
		if a.user.Role == models.RoleFreelancer {
			items = append(items,
				menuItem{"2", "Add a skill", a.addSkill, nil},
				menuItem{"3", "Remove a skill", a.removeSkill, nil},
			)
		}
		return items
	})
}

func (a *App) showProfile(ctx context.Context) error {
	u, err := a.svc.GetUser(ctx, a.user.ID)
	if err != nil {
		return err
	}
	a.user = u
	a.heading("My profile")
	a.printf("Name:     %s\n", u.Name)
	a.printf("Email:    %s\n", u.Email)
	a.printf("Location: %s\n", orNone(u.Location))
	a.printf("Role:     %s\n", u.Role)
	a.printf("Joined:   %s\n", u.CreatedAt.Format(dateLayout))
	if u.Role == models.RoleFreelancer {
		a.println("Skills:")
		if len(u.Skills) == 0 {
			a.info("No skills to display.")
		}
		for _, sk := range u.Skills {
			a.printf("  [%d] %s (%s)\n", sk.ID, sk.Name, sk.Level)
		}
	}
	return nil
}

func (a *App) addSkill(ctx context.Context) error {
	name, err := a.ask("Skill name:")
	if err != nil {
		return err
	}
	level, err := a.ask("Level (beginner/intermediate/advanced/expert):")
	if err != nil {
		return err
	}
	sk, err := a.svc.AddSkill(ctx, a.user, name, level)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Skill %s (%s) added.", sk.Name, sk.Level))
	return nil
}

func (a *App) removeSkill(ctx context.Context) error {
	id, err := a.askInt("Skill ID:")
	if err != nil {
		return err
	}
	if err := a.svc.RemoveSkill(ctx, a.user, id); err != nil {
		return err
	}
	a.success("Skill removed.")
	return nil
}

func (a *App) portfolioMenu(ctx context.Context) error {
	pf, err := a.svc.Portfolio(ctx, a.user.ID)
	if err != nil {
		return err
	}
	a.heading("My portfolio")
	a.printf("Completed projects: %d | Reviews: %d | Average rating: %.2f\n",
		pf.Stats.CompletedProjects, pf.Stats.TotalReviews, pf.Stats.AverageRating)
	a.printf("Skills used: %s\n", orNone(strings.Join(pf.Skills, ", ")))

	if len(pf.Entries) == 0 {
		a.info("No completed projects yet.")
	}
	for _, e := range pf.Entries {
		a.printf("[%d] %s, completed %s\n", e.ProjectID, e.Title, formatDate(e.CompletedAt))
		a.printf("    %s\n", e.Description)
		if e.Rating != nil {
			a.printf("    Client rating: %s %s\n", stars(*e.Rating), orNone(e.ReviewComment))
		}
	}

	if len(pf.Reviews) > 0 {
		a.println("Reviews:")
		for i := range pf.Reviews {
			a.printReview(&pf.Reviews[i])
		}
	}
	return nil
}

func (a *App) browserMenu(ctx context.Context) error {
	return a.loopMenu(ctx, "Browse Freelancers", func() []menuItem {
		return []menuItem{
			{"1", "Browse all freelancers", a.browseFreelancers, nil},
			{"2", "Find freelancers for my job", a.matchFreelancers, nil},
			{"3", "View a freelancer's portfolio", a.viewPortfolio, nil},
		}
	})
}

func (a *App) browseFreelancers(ctx context.Context) error {
	users, err := a.svc.BrowseFreelancers(ctx, a.user)
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("%d freelancer(s)", len(users)))
	for i := range users {
		a.printUser(i+1, &users[i])
	}
	return nil
}

func (a *App) matchFreelancers(ctx context.Context) error {
	jobID, err := a.askInt("Job ID:")
	if err != nil {
		return err
	}
	matches, err := a.svc.MatchFreelancers(ctx, a.user, jobID)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		a.warn("No freelancers found with matching skills.")
		return nil
	}
	a.heading(fmt.Sprintf("%d matching freelancer(s)", len(matches)))
	for i := range matches {
		a.printUser(i+1, &matches[i].Freelancer)
		if len(matches[i].Matched) > 0 {
			a.printf("   Matches: %s\n", strings.Join(matches[i].Matched, ", "))
		}
	}
	return nil
}

func (a *App) viewPortfolio(ctx context.Context) error {
	id, err := a.askInt("Freelancer ID:")
	if err != nil {
		return err
	}
	pf, err := a.svc.Portfolio(ctx, id)
	if err != nil {
		return err
	}
	a.heading(fmt.Sprintf("Portfolio of freelancer #%d", id))
	a.printf("Completed projects: %d | Average rating: %.2f\n", pf.Stats.CompletedProjects, pf.Stats.AverageRating)
	for _, e := range pf.Entries {
		a.printf("[%d] %s\n", e.ProjectID, e.Title)
	}
	return nil
}
