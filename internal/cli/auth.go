package cli

import (
	"context"
	"fmt"

	"seekit/internal/marketplace"
	"seekit/models"
)

func (a *App) register(ctx context.Context) error {
	a.heading("Register")
	name, err := a.ask("Full name:")
	if err != nil {
		return err
	}
	email, err := a.ask("Email:")
	if err != nil {
		return err
	}
	password, err := a.ask("Password (min 6 characters):")
	if err != nil {
		return err
	}
	location, err := a.ask("Location:")
	if err != nil {
		return err
	}
	role, err := a.ask("Account type (client/freelancer):")
	if err != nil {
		return err
	}
	in := marketplace.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Location: location,
		Role:     models.Role(role),
	}
	if in.Role == models.RoleFreelancer {
		raw, err := a.ask("Skills (comma separated):")
		if err != nil {
			return err
		}
		in.Skills = marketplace.SplitList(raw)
	}

	u, err := a.svc.Register(ctx, in)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Account created for %s. You can login now.", u.Email))
	return nil
}

func (a *App) login(ctx context.Context) error {
	if a.user != nil {
		a.info(fmt.Sprintf("Already logged in as %s.", a.user.Name))
		return nil
	}
	a.heading("Login")
	email, err := a.ask("Email:")
	if err != nil {
		return err
	}
	password, err := a.ask("Password:")
	if err != nil {
		return err
	}
	u, err := a.svc.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	a.user = u
	a.success(fmt.Sprintf("Welcome back, %s!", u.Name))
	return nil
}

func (a *App) logout(ctx context.Context) error {
	a.success(fmt.Sprintf("Goodbye, %s.", a.user.Name))
	a.user = nil
	return nil
}

func (a *App) listUsers(ctx context.Context) error {
	users, err := a.svc.ListUsers(ctx, "")
	if err != nil {
		return err
	}
	a.heading("Users")
	if len(users) == 0 {
		a.info("No users yet.")
		return nil
	}
	for i, u := range users {
		a.printUser(i+1, &u)
	}
	return nil
}
