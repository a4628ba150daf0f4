package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mathwizard1232/openlibrary-client-2/internal/cache"
	"github.com/mathwizard1232/openlibrary-client-2/internal/config"
	"github.com/mathwizard1232/openlibrary-client-2/internal/openlibrary"
	"github.com/mathwizard1232/openlibrary-client-2/internal/ratelimit"
)

// newClient builds the OpenLibrary client from configuration. Overridable
// in tests.
var newClient = func() *openlibrary.Client {
	return openlibrary.NewClient(
		openlibrary.WithBaseURL(config.BaseURL),
		openlibrary.WithRetryAttempts(config.RetryAttempts),
		openlibrary.WithRateLimiter(ratelimit.New("OpenLibrary", config.RatePerSecond)),
	)
}

// CLI represents the complete command structure for the ol application
type CLI struct {
	// Global flags
	Verbose bool `help:"Enable debug logging"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Search SearchCmd `cmd:"" help:"Search works by title and/or author"`
	Isbn   IsbnCmd   `cmd:"" help:"Look up the work matching an ISBN"`
	Work   WorkCmd   `cmd:"" help:"Operate on a single work by OLID"`
	Cache  CacheCmd  `cmd:"" help:"Manage the response cache"`
}

// SearchCmd represents the title/author search command
type SearchCmd struct {
	Title  string `short:"t" help:"Title of the work to search for"`
	Author string `short:"a" help:"Author of the work to search for"`
	Limit  int    `short:"l" help:"Maximum number of deduplicated results (0 returns only the closest match)"`
	Format string `help:"Output format: json or yaml" enum:"json,yaml" default:"json"`
}

// IsbnCmd represents the ISBN lookup command
type IsbnCmd struct {
	ISBN   string `arg:"" help:"ISBN-10 or ISBN-13 to look up (hyphens allowed)"`
	Format string `help:"Output format: json or yaml" enum:"json,yaml" default:"json"`
}

// WorkCmd represents the work subcommands
type WorkCmd struct {
	Get         GetWorkCmd     `cmd:"" help:"Fetch a work resource"`
	Editions    EditionsCmd    `cmd:"" help:"List all editions of a work"`
	AddSubjects AddSubjectsCmd `cmd:"" help:"Add subjects to a work"`
	RmSubjects  RmSubjectsCmd  `cmd:"" help:"Remove subjects from a work"`
	Delete      DeleteWorkCmd  `cmd:"" help:"Delete a work and its editions"`
}

// GetWorkCmd fetches a work resource by OLID
type GetWorkCmd struct {
	OLID   string `arg:"" help:"Work identifier, e.g. OL123W"`
	Format string `help:"Output format: json or yaml" enum:"json,yaml" default:"json"`
}

// EditionsCmd lists all editions of a work
type EditionsCmd struct {
	OLID   string `arg:"" help:"Work identifier, e.g. OL123W"`
	Format string `help:"Output format: json or yaml" enum:"json,yaml" default:"json"`
}

// AddSubjectsCmd adds subjects to a work
type AddSubjectsCmd struct {
	OLID     string   `arg:"" help:"Work identifier, e.g. OL123W"`
	Subjects []string `arg:"" help:"Subjects to add"`
	Comment  string   `help:"Edit comment recorded in the work history"`
}

// RmSubjectsCmd removes subjects from a work
type RmSubjectsCmd struct {
	OLID     string   `arg:"" help:"Work identifier, e.g. OL123W"`
	Subjects []string `arg:"" help:"Subjects to remove"`
	Comment  string   `help:"Edit comment recorded in the work history"`
}

// DeleteWorkCmd deletes a work
type DeleteWorkCmd struct {
	OLID    string `arg:"" help:"Work identifier, e.g. OL123W"`
	Comment string `help:"Edit comment recorded in the work history" required:""`
	Confirm bool   `help:"Actually delete; without this flag the command refuses to run"`
}

// CacheCmd represents the cache management subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Clear cached responses for a source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("ol"),
		kong.Description("A client for the OpenLibrary metadata API with deduplicated work search."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	viper.AutomaticEnv()
	if err := viper.BindEnv("openlibrary.baseurl", "OPENLIBRARY_BASE_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.Verbose {
		initLogging(true)
	}

	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

// printOutput renders v to stdout in the requested format.
func printOutput(v any, format string) error {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Print(string(out))
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Println(string(out))
	}
	return nil
}

// Run methods for each command

func (s *SearchCmd) Run() error {
	client := newClient()
	ctx := context.Background()

	if s.Limit > 0 {
		books, err := client.SearchAll(ctx, s.Title, s.Author, s.Limit)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			slog.Info("No results found", "title", s.Title, "author", s.Author)
			return nil
		}
		return printOutput(books, s.Format)
	}

	book, err := client.Search(ctx, s.Title, s.Author)
	if err != nil {
		return err
	}
	if book == nil {
		slog.Info("No results found", "title", s.Title, "author", s.Author)
		return nil
	}
	return printOutput(book, s.Format)
}

func (i *IsbnCmd) Run() error {
	client := newClient()

	book, fromCache, err := client.SearchByISBNCached(context.Background(), i.ISBN)
	if err != nil {
		return err
	}
	if book == nil {
		slog.Info("No work found for ISBN", "isbn", i.ISBN)
		return nil
	}

	slog.Debug("ISBN lookup complete", "isbn", i.ISBN, "from_cache", fromCache)
	return printOutput(book, i.Format)
}

func (g *GetWorkCmd) Run() error {
	client := newClient()

	work, fromCache, err := client.GetWorkCached(context.Background(), g.OLID)
	if err != nil {
		return err
	}

	slog.Debug("Fetched work", "olid", g.OLID, "from_cache", fromCache)
	return printOutput(work, g.Format)
}

func (e *EditionsCmd) Run() error {
	client := newClient()

	editions, err := client.Editions(context.Background(), e.OLID)
	if err != nil {
		return err
	}

	slog.Info("Fetched editions", "olid", e.OLID, "count", len(editions))
	return printOutput(editions, e.Format)
}

func (a *AddSubjectsCmd) Run() error {
	client := newClient()

	comment := a.Comment
	if comment == "" {
		comment = fmt.Sprintf("adding %s to subjects", strings.Join(a.Subjects, ", "))
	}
	return client.AddSubjects(context.Background(), a.OLID, a.Subjects, comment)
}

func (r *RmSubjectsCmd) Run() error {
	client := newClient()

	comment := r.Comment
	if comment == "" {
		comment = fmt.Sprintf("rm subjects: %s", strings.Join(r.Subjects, ", "))
	}
	return client.RemoveSubjects(context.Background(), r.OLID, r.Subjects, comment)
}

func (d *DeleteWorkCmd) Run() error {
	if !d.Confirm {
		return fmt.Errorf("refusing to delete work %s without --confirm", d.OLID)
	}

	client := newClient()
	return client.DeleteWork(context.Background(), d.OLID, d.Comment)
}
