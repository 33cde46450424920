package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"food-delivery-client/api"
	"food-delivery-client/config"
	"food-delivery-client/models"
	"food-delivery-client/panels"
	"food-delivery-client/session"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "client.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	store, err := session.OpenStore(cfg.StateDB)
	if err != nil {
		logger.Error("opening state db", "error", err)
		os.Exit(1)
	}

	sess := session.New(store, session.WithLogger(logger))
	if restored, err := sess.Rehydrate(); err != nil {
		logger.Warn("session rehydration failed", "error", err)
	} else if restored {
		user := sess.CurrentUser()
		fmt.Printf("Welcome back (%s, %s)\n", user.ID, user.UserType)
	}

	client := api.NewClient(cfg.APIBase(), sess, api.WithLogger(logger))

	deps := panels.Deps{
		API:     client,
		Session: sess,
		Config:  cfg,
		Notifier: panels.NoticeFunc(func(format string, args ...any) {
			fmt.Printf("** "+format+"\n", args...)
		}),
		Logger: logger,
	}

	// No device geolocation here; the driver panel reports the default
	// coordinate until a real source is plugged in.
	source := panels.StaticLocationSource(models.Location{Lat: 40.7128, Lng: -74.0060})

	shell := &shell{deps: deps, source: source, out: os.Stdout}
	shell.run(context.Background(), os.Stdin)
}

// shell drives a panel from terminal input: one panel at a time, remounted
// whenever the session changes.
type shell struct {
	deps   panels.Deps
	source panels.LocationSource
	out    *os.File

	panel panels.Panel
}

func (s *shell) run(ctx context.Context, in *os.File) {
	s.mount(ctx)
	defer s.unmount()

	s.panel.Render(s.out)
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if line != "" {
			s.dispatch(ctx, line)
		}
		s.panel.Render(s.out)
		fmt.Fprint(s.out, "> ")
	}
}

func (s *shell) mount(ctx context.Context) {
	s.panel = panels.PanelFor(s.deps, s.source)
	if err := s.panel.Mount(ctx); err != nil {
		s.deps.Logger.Error("mounting panel", "error", err)
	}
}

func (s *shell) unmount() {
	if s.panel != nil {
		s.panel.Close()
	}
}

// remount switches panels after a session change; the old panel is torn
// down first so its channel and in-flight fetches cannot leak into the new
// view.
func (s *shell) remount(ctx context.Context) {
	s.unmount()
	s.mount(ctx)
}

func (s *shell) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Fprintln(s.out, "global: help, logout, refresh, quit")
		return
	case "logout":
		if err := s.deps.Session.Logout(); err != nil {
			s.deps.Logger.Error("logout", "error", err)
		}
		s.remount(ctx)
		return
	case "refresh":
		s.remount(ctx)
		return
	}

	switch p := s.panel.(type) {
	case *panels.LoginPanel:
		s.dispatchLogin(ctx, p, cmd, args)
	case *panels.CustomerPanel:
		s.dispatchCustomer(p, cmd, args)
	case *panels.DriverPanel:
		s.dispatchDriver(p, cmd, args)
	case *panels.RestaurantPanel:
		s.dispatchRestaurant(p, cmd, line)
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", cmd)
	}
}

func (s *shell) dispatchLogin(ctx context.Context, p *panels.LoginPanel, cmd string, args []string) {
	switch cmd {
	case "login":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: login <email> <role>")
			return
		}
		form := panels.LoginForm{Email: args[0], UserType: models.UserType(args[1])}
		if err := p.SubmitLogin(ctx, form); err == nil {
			s.remount(ctx)
		}
	case "register":
		if len(args) < 4 {
			fmt.Fprintln(s.out, "usage: register <email> <name> <phone> <role> [address]")
			return
		}
		form := panels.RegisterForm{
			Email:    args[0],
			Name:     args[1],
			Phone:    args[2],
			UserType: models.UserType(args[3]),
			Address:  strings.Join(args[4:], " "),
		}
		if err := p.SubmitRegister(ctx, form); err == nil {
			s.remount(ctx)
		}
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", cmd)
	}
}

func (s *shell) dispatchCustomer(p *panels.CustomerPanel, cmd string, args []string) {
	switch cmd {
	case "select":
		if r, ok := pick(p.Restaurants(), args); ok {
			if err := p.SelectRestaurant(r.ID); err != nil {
				s.deps.Logger.Error("selecting restaurant", "error", err)
			}
		} else {
			fmt.Fprintln(s.out, "usage: select <number>")
		}
	case "add":
		if item, ok := pick(p.Menu(), args); ok {
			p.AddToCart(item)
		} else {
			fmt.Fprintln(s.out, "usage: add <number>")
		}
	case "order":
		_ = p.PlaceOrder()
	case "back":
		p.Back()
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", cmd)
	}
}

func (s *shell) dispatchDriver(p *panels.DriverPanel, cmd string, args []string) {
	switch cmd {
	case "accept":
		if order, ok := pick(p.Available(), args); ok {
			_ = p.AcceptOrder(order.ID)
		} else {
			fmt.Fprintln(s.out, "usage: accept <number>")
		}
	case "advance":
		if order, ok := pick(p.Active(), args); ok {
			if err := p.Advance(order.ID); err != nil {
				fmt.Fprintln(s.out, err)
			}
		} else {
			fmt.Fprintln(s.out, "usage: advance <number>")
		}
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", cmd)
	}
}

func (s *shell) dispatchRestaurant(p *panels.RestaurantPanel, cmd, line string) {
	switch cmd {
	case "create":
		_ = p.CreateRestaurant()
	case "additem":
		// additem name | category | price | prep minutes | description
		parts := strings.Split(strings.TrimSpace(strings.TrimPrefix(line, "additem")), "|")
		if len(parts) != 5 {
			fmt.Fprintln(s.out, "usage: additem <name>|<category>|<price>|<prep>|<description>")
			return
		}
		price, _ := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		prep, _ := strconv.Atoi(strings.TrimSpace(parts[3]))
		_ = p.AddMenuItem(panels.MenuItemForm{
			Name:            strings.TrimSpace(parts[0]),
			Category:        strings.TrimSpace(parts[1]),
			Price:           price,
			PreparationTime: prep,
			Description:     strings.TrimSpace(parts[4]),
		})
	case "advance":
		args := strings.Fields(line)[1:]
		if order, ok := pick(p.Orders(), args); ok {
			if err := p.Advance(order.ID); err != nil {
				fmt.Fprintln(s.out, err)
			}
		} else {
			fmt.Fprintln(s.out, "usage: advance <number>")
		}
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", cmd)
	}
}

// pick resolves a 1-based index argument into a rendered list.
func pick[T any](list []T, args []string) (T, bool) {
	var zero T
	if len(args) != 1 {
		return zero, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(list) {
		return zero, false
	}
	return list[n-1], true
}
