// Package main runs the Dream Land client: it resolves the session
// against the remote identity or the local credential record, then
// serves an interactive shell for browsing, bookmarks, reviews and
// profile management.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/binukalewke/dreamland/internal/client/api"
	"github.com/binukalewke/dreamland/internal/client/bookmarks"
	"github.com/binukalewke/dreamland/internal/client/catalog"
	"github.com/binukalewke/dreamland/internal/client/credstore"
	"github.com/binukalewke/dreamland/internal/client/netprobe"
	"github.com/binukalewke/dreamland/internal/client/session"
	"github.com/binukalewke/dreamland/internal/models"
)

var (
	version   string
	buildDate string
)

func main() {
	var (
		baseURL   string
		dataDir   string
		probeAddr string
		showVer   bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&dataDir, "data", ".", "directory for local data")
	flag.StringVar(&probeAddr, "probe", "", "host:port used for the connectivity check (default: server host)")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Dream Land Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	creds, err := credstore.Open(dataDir)
	if err != nil {
		log.Fatal(err)
	}

	if probeAddr == "" {
		u, err := url.Parse(baseURL)
		if err != nil || u.Host == "" {
			log.Fatalf("cannot derive probe address from url: %s", baseURL)
		}
		probeAddr = u.Host
	}
	probe := netprobe.New(probeAddr)

	client := api.New(baseURL)
	// Restore the remote auth state from the previous run, if any.
	if token, userID := creds.AuthState(); token != "" {
		client.SetAuth(token, userID)
	}

	notifier := session.NotifierFunc(func(msg string) { fmt.Println(msg) })
	sessions := session.NewManager(client, client, creds, probe, notifier, zapLogger)
	bm := bookmarks.NewManager(client, client, probe, zapLogger)

	library, err := catalog.NewLibrary(probe, zapLogger)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	if probe.Online() {
		fmt.Println("Online")
	} else {
		fmt.Println("Offline")
	}

	current := sessions.Resolve(ctx)
	if current.Source == session.SourceRemote {
		if err := bm.Load(ctx); err != nil {
			zapLogger.Warn("failed to load bookmarks", zap.Error(err))
		}
	}
	library.StartFeedFetch(ctx, client)

	if !current.IsAuthenticated() {
		fmt.Println("No account found. Use 'login <email> <password>' or 'signup'.")
	} else {
		fmt.Printf("Welcome back, %s\n", current.Username)
	}

	repl(ctx, sessions, bm, library, client, creds)
}

// repl runs the interactive shell loop.
func repl(
	ctx context.Context,
	sessions *session.Manager,
	bm *bookmarks.Manager,
	library *catalog.Library,
	client *api.Client,
	creds *credstore.Store,
) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("dreamland> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Commands: help, login <email> <password>, signup <username> <email> <password> <confirm>,")
			fmt.Println("  logout, whoami, edit <username> <email> <password>, home [movie|anime], banner,")
			fmt.Println("  search <term>, bookmarks, bookmark <title...>, unbookmark <title...>,")
			fmt.Println("  reviews <title...>, review <title> <rating> <text...>, dark on|off, prefs, exit")
		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <email> <password>")
				continue
			}
			s, err := sessions.Login(ctx, args[1], args[2])
			if err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			fmt.Printf("Logged in as %s\n", s.Username)
			if err := bm.Load(ctx); err != nil {
				fmt.Println("could not load bookmarks:", err)
			}
		case "signup":
			if len(args) < 5 {
				fmt.Println("Usage: signup <username> <email> <password> <confirm>")
				continue
			}
			s, err := sessions.SignUp(ctx, args[1], args[2], args[3], args[4])
			if err != nil {
				fmt.Println("Signup failed:", err)
				continue
			}
			fmt.Printf("Account created. Logged in as %s\n", s.Username)
		case "logout":
			sessions.Logout(ctx)
			fmt.Println("Logged out")
		case "whoami":
			s := sessions.Session()
			if !s.IsAuthenticated() {
				fmt.Println("Not signed in")
				continue
			}
			fmt.Printf("Username: %s\nEmail: %s\nSource: %s\n", s.Username, s.Email, s.Source)
		case "edit":
			if len(args) < 4 {
				fmt.Println("Usage: edit <username> <email> <password>")
				continue
			}
			s, err := sessions.UpdateProfile(ctx, args[1], args[2], args[3])
			if err != nil {
				fmt.Println("Update failed:", err)
				continue
			}
			fmt.Printf("Profile updated: %s <%s>\n", s.Username, s.Email)
		case "home":
			contentType := models.Movie
			if len(args) > 1 && args[1] == "anime" {
				contentType = models.Anime
			}
			fmt.Println("New:")
			printEntries(library.Select(catalog.Section{Type: contentType, Category: models.New}))
			fmt.Println("Popular:")
			printEntries(library.Select(catalog.Section{Type: contentType, Category: models.Popular}))
		case "banner":
			printEntries(library.Select(catalog.BannerItems))
		case "search":
			if len(args) < 2 {
				fmt.Println("Usage: search <term>")
				continue
			}
			term := strings.ToLower(strings.Join(args[1:], " "))
			var matches []models.CatalogEntry
			for _, e := range library.All() {
				if strings.Contains(strings.ToLower(e.Title), term) {
					matches = append(matches, e)
				}
			}
			printEntries(matches)
		case "bookmarks":
			printEntries(bm.All())
		case "bookmark":
			if len(args) < 2 {
				fmt.Println("Usage: bookmark <title>")
				continue
			}
			title := strings.Join(args[1:], " ")
			entry, ok := findByTitle(library.All(), title)
			if !ok {
				fmt.Println("Title not found in catalog")
				continue
			}
			if err := bm.Add(entry); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("Bookmarked", entry.Title)
		case "unbookmark":
			if len(args) < 2 {
				fmt.Println("Usage: unbookmark <title>")
				continue
			}
			bm.Remove(strings.Join(args[1:], " "))
			fmt.Println("Removed")
		case "reviews":
			if len(args) < 2 {
				fmt.Println("Usage: reviews <title>")
				continue
			}
			title := strings.Join(args[1:], " ")
			reviews, err := client.Reviews(ctx, title)
			if err != nil {
				fmt.Println("could not load reviews:", err)
				continue
			}
			for _, r := range reviews {
				fmt.Printf("%s (%.1f) %s: %s\n", r.Date, r.Rating, r.Username, r.Text)
			}
		case "review":
			if len(args) < 4 {
				fmt.Println("Usage: review <title> <rating> <text...>")
				continue
			}
			rating, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				fmt.Println("rating must be a number")
				continue
			}
			s := sessions.Session()
			if !s.IsAuthenticated() {
				fmt.Println("Sign in to review")
				continue
			}
			_, err = client.AddReview(ctx, args[1], models.Review{
				Username: s.Username,
				Text:     strings.Join(args[3:], " "),
				Rating:   rating,
			})
			if err != nil {
				fmt.Println("could not add review:", err)
				continue
			}
			fmt.Println("Review added!")
		case "dark":
			if len(args) < 2 || (args[1] != "on" && args[1] != "off") {
				fmt.Println("Usage: dark on|off")
				continue
			}
			_ = creds.SetDarkMode(args[1] == "on")
			fmt.Println("Dark mode:", args[1])
		case "prefs":
			fmt.Printf("dark mode: %v\nbattery alert: %v\nambient light alert: %v\n",
				creds.DarkMode(), creds.ShowBatteryAlert(), creds.ShowAmbientAlert())
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printEntries(entries []models.CatalogEntry) {
	if len(entries) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %s (%.1f) [%s/%s]\n", e.Title, e.Rating, e.Type, e.Category)
	}
}

func findByTitle(entries []models.CatalogEntry, title string) (models.CatalogEntry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Title, title) {
			return e, true
		}
	}
	return models.CatalogEntry{}, false
}
