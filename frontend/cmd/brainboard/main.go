// brainboard is a terminal client for the persistence service.
//
//	brainboard login -email a@example.com -password ...
//	brainboard boards -token $TOKEN
//	brainboard watch -board 3 -token $TOKEN [-auto-refresh]
//	brainboard watch -share <link token>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brainboard/brainboard/frontend/internal/apiclient"
	"github.com/brainboard/brainboard/frontend/internal/canvas"
	"github.com/brainboard/brainboard/frontend/internal/session"
	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	var err error
	switch os.Args[1] {
	case "login":
		err = login(os.Args[2:])
	case "boards":
		err = boards(os.Args[2:])
	case "watch":
		err = watch(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: brainboard login|boards|watch [flags]")
	os.Exit(2)
}

func loadConfig(fs *flag.FlagSet, args []string) (config.Public, error) {
	configFolder := fs.String("config_folder", "config", "path to folder with configs")
	if err := fs.Parse(args); err != nil {
		return config.Public{}, err
	}
	cfg := config.MustLoadPublic(*configFolder)
	logger.Initialize(cfg.Log.Level, cfg.Log.JSON)
	return cfg, nil
}

func login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	signup := fs.Bool("signup", false, "create the account first")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client := apiclient.New(cfg.ApiURL, nil)
	creds := api.CredentialsRequest{Email: *email, Password: *password}

	var s *session.Session
	if *signup {
		s, err = client.Signup(ctx, creds)
	} else {
		s, err = client.Login(ctx, creds)
	}
	if err != nil {
		return err
	}
	fmt.Println(s.Token())
	return nil
}

func boards(args []string) error {
	fs := flag.NewFlagSet("boards", flag.ExitOnError)
	token := fs.String("token", os.Getenv("BRAINBOARD_TOKEN"), "access token")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	s, err := session.New(*token)
	if err != nil {
		return err
	}
	if !s.Authenticated() {
		return fmt.Errorf("-token is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	list, err := apiclient.New(cfg.ApiURL, s).GetBoards(ctx)
	if err != nil {
		return err
	}
	for _, b := range list {
		role := "shared"
		if b.OwnerId == s.User().Id {
			role = "owner"
		}
		fmt.Printf("%6d  %-7s %s\n", b.Id, role, b.Title)
	}
	return nil
}

func watch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	boardId := fs.Int64("board", 0, "board id (needs -token)")
	shareToken := fs.String("share", "", "share link token")
	token := fs.String("token", os.Getenv("BRAINBOARD_TOKEN"), "access token")
	autoRefresh := fs.Bool("auto-refresh", false, "reload the board as soon as it goes stale")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	s, err := session.New(*token)
	if err != nil {
		return err
	}
	client := apiclient.New(cfg.ApiURL, s)

	var remote canvas.Remote
	switch {
	case *shareToken != "":
		remote = canvas.ShareRemote(client, *shareToken)
	case *boardId > 0 && s.Authenticated():
		remote = canvas.BoardRemote(client, *boardId)
	default:
		return fmt.Errorf("either -share or -board with -token is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view, err := canvas.Open(ctx, remote, s, cfg)
	if err != nil {
		return err
	}
	defer view.Close()
	view.Start(ctx)
	fmt.Printf("watching %q (%s), %d cards\n", view.Board().Title, view.Permission(), len(view.Cards()))

	// The detector polls on its own; this loop only reports its flag.
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	notified := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !view.Stale() {
				continue
			}
			if !*autoRefresh {
				if !notified {
					fmt.Println("board changed elsewhere; run again or pass -auto-refresh to reload")
					notified = true
				}
				continue
			}
			if err := view.Refresh(ctx); err != nil {
				logger.Log.Warn("refresh failed", "error", err)
				continue
			}
			fmt.Printf("reloaded, %d cards\n", len(view.Cards()))
		}
	}
}
