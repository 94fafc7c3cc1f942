// Command taskctl is a small terminal client for the taskhub API:
// login, task listing, and notification checks. The session token is
// kept in the system keyring.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"

	"github.com/taskhub/taskhub/internal/credential"
	"github.com/taskhub/taskhub/internal/model"
)

const defaultServer = "http://localhost:8080"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("taskctl", pflag.ContinueOnError)
	server := flags.String("server", envOr("TASKHUB_SERVER", defaultServer), "taskhub server base URL")

	status := flags.String("status", "", "filter tasks by status")
	priority := flags.String("priority", "", "filter tasks by priority")
	search := flags.String("search", "", "search task titles and descriptions")
	mine := flags.Bool("mine", false, "only tasks assigned to me")
	unread := flags.Bool("unread", false, "only show the unread count")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cmdArgs := flags.Args()
	if len(cmdArgs) == 0 {
		return errors.New("usage: taskctl [flags] login|logout|whoami|tasks|notifications")
	}

	ctx := context.Background()

	switch cmdArgs[0] {
	case "login":
		return cmdLogin(ctx, *server)
	case "logout":
		return cmdLogout()
	case "whoami":
		return cmdWhoami(ctx, *server)
	case "tasks":
		return cmdTasks(ctx, *server, *status, *priority, *search, *mine)
	case "notifications":
		return cmdNotifications(ctx, *server, *unread)
	default:
		return fmt.Errorf("unknown command %q", cmdArgs[0])
	}
}

func cmdLogin(ctx context.Context, server string) error {
	var email, password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	token, ident, err := newClient(server, "").login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := credential.Set(credential.KeySessionToken, token); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", titleStyle.Render(ident.Name), ident.Role)
	return nil
}

func cmdLogout() error {
	if err := credential.Delete(credential.KeySessionToken); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func cmdWhoami(ctx context.Context, server string) error {
	c, err := authedClient(server)
	if err != nil {
		return err
	}

	u, err := c.me(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s> role=%s\n", titleStyle.Render(u.Name), u.Email, u.Role)
	return nil
}

func cmdTasks(ctx context.Context, server, status, priority, search string, mine bool) error {
	c, err := authedClient(server)
	if err != nil {
		return err
	}

	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if priority != "" {
		query.Set("priority", priority)
	}
	if search != "" {
		query.Set("search", search)
	}
	if mine {
		u, err := c.me(ctx)
		if err != nil {
			return err
		}
		query.Set("assignedTo", u.ID)
	}

	tasks, err := c.tasks(ctx, query)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Tasks (%d)", len(tasks))))
	for _, t := range tasks {
		renderTask(t)
	}
	return nil
}

func cmdNotifications(ctx context.Context, server string, unreadOnly bool) error {
	c, err := authedClient(server)
	if err != nil {
		return err
	}

	if unreadOnly {
		count, err := c.unreadCount(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d unread\n", count)
		return nil
	}

	notifications, err := c.notifications(ctx)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Notifications (%d)", len(notifications))))
	for _, n := range notifications {
		marker := dimStyle.Render("  ")
		msg := n.Message
		if !n.Read {
			marker = unreadStyle.Render("* ")
			msg = titleStyle.Render(msg)
		}
		fmt.Printf("%s%s %s\n", marker, msg, dimStyle.Render(n.CreatedAt.Local().Format("Jan 2 15:04")))
	}
	return nil
}

func renderTask(t model.Task) {
	fmt.Printf("%s  %s %s  %s\n",
		titleStyle.Render(t.Title),
		statusStyle(t.Status).Render(t.Status),
		priorityStyle(string(t.Priority)).Render(string(t.Priority)),
		dimStyle.Render("due "+t.DueDate.Format("2006-01-02")),
	)
	if desc := strings.TrimSpace(t.Description); desc != "" {
		fmt.Println(dimStyle.Render("  " + desc))
	}
}

// authedClient returns a client carrying the stored session token.
func authedClient(server string) (*client, error) {
	token, err := credential.Get(credential.KeySessionToken)
	if err != nil || token == "" {
		return nil, errors.New("not logged in; run `taskctl login` first")
	}
	return newClient(server, token), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
