package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	return "(" + displayName(a.session.User(), "logged in") + ") "
}

// Root runs the top-level command loop.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Store admin console (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "storeadmin %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Available commands: dashboard, users, products, orders, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "dashboard", "users", "products", "orders":
			a.navigate(ctx, "/"+cmd)

		case "open":
			if len(parts) < 2 {
				fmt.Fprintln(a.out, "Usage: open <users|products|orders>")
				continue
			}
			a.navigate(ctx, "/"+parts[1])

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// navigate runs every screen change through the route gate, so a protected
// screen never renders without a session and unknown paths land somewhere
// sensible.
func (a *App) navigate(ctx context.Context, path string) {
	decision := a.gate.Check(path)
	if !decision.Allow {
		if decision.RedirectTo == "/login" {
			fmt.Fprintln(a.out, "Please login first")
			return
		}
		path = decision.RedirectTo
	}

	if path == "/dashboard" {
		a.dashboard()
		return
	}
	if screen, ok := a.screens[path]; ok {
		screen.Run(ctx, a.reader, a.out)
	}
}

func (a *App) dashboard() {
	fmt.Fprintln(a.out, titleStyle.Render("Dashboard"))
	fmt.Fprintln(a.out, "Collections: users, products, orders")
}
