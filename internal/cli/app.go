// Package cli: консольное меню SeekIT поверх marketplace.Service.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"seekit/internal/marketplace"
	"seekit/models"
)

type App struct {
	svc  *marketplace.Service
	in   *bufio.Scanner
	out  io.Writer
	log  *zap.Logger
	user *models.User
}

func New(svc *marketplace.Service, in io.Reader, out io.Writer, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{svc: svc, in: bufio.NewScanner(in), out: out, log: log}
}

// CurrentUser: пользователь текущей сессии или nil.
func (a *App) CurrentUser() *models.User {
	return a.user
}

type menuItem struct {
	key    string
	label  string
	action func(ctx context.Context) error
	// guard возвращает текст предупреждения, если пункт сейчас недоступен.
	guard func() string
}

func (a *App) mainMenu() []menuItem {
	return []menuItem{
		{"1", "Register", a.register, nil},
		{"2", "Login", a.login, nil},
		{"3", "List users", a.listUsers, a.needLogin},
		{"4", "Logout", a.logout, a.needLogin},
		{"5", "Search jobs", a.jobSearchMenu, nil},
		{"6", "Manage applications", a.applicationsMenu, a.needLogin},
		{"7", "Post jobs", a.jobPostingMenu, a.needRole(models.RoleClient)},
		{"8", "View profile", a.profileMenu, a.needLogin},
		{"9", "View portfolio", a.portfolioMenu, a.needRole(models.RoleFreelancer)},
		{"10", "Manage workspace", a.workspaceMenu, a.needLogin},
		{"11", "Browse freelancers", a.browserMenu, a.needRole(models.RoleClient)},
	}
}

func (a *App) needLogin() string {
	if a.user == nil {
		return "Please login first."
	}
	return ""
}

func (a *App) needRole(role models.Role) func() string {
	return func() string {
		if a.user == nil {
			return "Please login first."
		}
		if a.user.Role != role {
			return fmt.Sprintf("Only %ss can use this option.", role)
		}
		return ""
	}
}

// Run крутит главное меню до выбора 0 или конца ввода.
func (a *App) Run(ctx context.Context) error {
	a.heading("Welcome to SeekIT")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.user != nil {
			a.printf("Logged in as %s (%s)\n", a.user.Name, a.user.Role)
		}
		err := a.runMenu(ctx, "Main Menu", a.mainMenu(), "Exit")
		if errors.Is(err, errBack) {
			a.println("Goodbye!")
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errBack = errors.New("back")

// runMenu показывает меню один раз и выполняет выбранный пункт.
// errBack означает выбор "0".
func (a *App) runMenu(ctx context.Context, title string, items []menuItem, zeroLabel string) error {
	a.heading(title)
	for _, it := range items {
		a.printf("%2s. %s\n", it.key, it.label)
	}
	a.printf("%2s. %s\n", "0", zeroLabel)

	choice, err := a.ask("Choose an option:")
	if err != nil {
		return err
	}
	if choice == "0" {
		return errBack
	}
	for _, it := range items {
		if it.key != choice {
			continue
		}
		if it.guard != nil {
			if msg := it.guard(); msg != "" {
				a.warn(msg)
				return nil
			}
		}
		return a.report(it.action(ctx))
	}
	a.warn("Invalid option. Please try again.")
	return nil
}

// loopMenu повторяет подменю до выбора "0".
func (a *App) loopMenu(ctx context.Context, title string, items func() []menuItem) error {
	for {
		err := a.runMenu(ctx, title, items(), "Back")
		if errors.Is(err, errBack) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// report показывает ошибки таксономии пользователю и пропускает только
// конец ввода и внутренние сбои.
func (a *App) report(err error) error {
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, errBack):
		return err
	case marketplace.IsUserError(err), errors.Is(err, errInput):
		a.warn(err.Error())
		return nil
	}
	a.log.Error("cli action failed", zap.Error(err))
	a.warn("Something went wrong, please try again.")
	return nil
}

// Ввод

var errInput = errors.New("invalid input")

func (a *App) ask(prompt string) (string, error) {
	a.printf("%s ", prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *App) askInt(prompt string) (int, error) {
	raw, err := a.ask(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errInput, raw)
	}
	return v, nil
}

// askOptionalFloat возвращает nil на пустой ввод.
func (a *App) askOptionalFloat(prompt string) (*float64, error) {
	raw, err := a.ask(prompt)
	if err != nil || raw == "" {
		return nil, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", errInput, raw)
	}
	return &v, nil
}

func (a *App) confirm(prompt string) (bool, error) {
	raw, err := a.ask(prompt + " (y/n):")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(raw) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Вывод

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) heading(title string) {
	a.printf("\n=== %s ===\n", title)
}

func (a *App) success(msg string) {
	a.printf("[+] %s\n", msg)
}

func (a *App) warn(msg string) {
	a.printf("[!] %s\n", msg)
}

func (a *App) info(msg string) {
	a.printf("[i] %s\n", msg)
}
