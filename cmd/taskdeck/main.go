package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/session"
	"taskdeck/internal/tui"
	"taskdeck/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Init(&logging.Config{Level: cfg.LogLevel, Env: cfg.Environment, Path: cfg.LogFile}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck // stderr sync failure on exit is harmless

	storage, err := session.NewStorage()
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}
	sess := session.NewStore(storage)
	sess.Restore()

	opts := []client.Option{}
	if cfg.APIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.APIKey))
	}
	c := client.New(cfg.APIBaseURL, sess, opts...)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("taskdeck " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(c)
		case "logout":
			return runLogout(sess)
		case "whoami":
			return runWhoami(c, sess)
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printHelp()
			return nil
		}
	}

	app := tui.NewApp(c, sess, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogin prompts for credentials on the terminal and stores the session.
func runLogin(c *client.Client) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	fmt.Print("password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	auth, err := c.Login(context.Background(), strings.TrimSpace(email), strings.TrimSpace(password))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if auth.User != nil {
		fmt.Printf("Signed in as %s.\n", auth.User.Email)
	} else {
		fmt.Println("Signed in.")
	}
	return nil
}

func runLogout(sess *session.Store) error {
	if !sess.Authenticated() {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := sess.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

// runWhoami shows the signed-in account. The token claims answer locally;
// the API round trip confirms the session is still accepted server-side.
func runWhoami(c *client.Client, sess *session.Store) error {
	if !sess.Authenticated() {
		printAnonymousBanner()
		return nil
	}
	user, err := c.Me(context.Background())
	if err != nil {
		if client.IsSessionExpired(err) {
			printAnonymousBanner()
			return nil
		}
		// Network or server trouble; fall back to the token claims.
		user = sess.User()
		if user == nil {
			return fmt.Errorf("whoami: %w", err)
		}
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	if user.Role != "" {
		fmt.Printf("role: %s\n", user.Role)
	}
	return nil
}
