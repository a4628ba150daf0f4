package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	olerrors "github.com/mathwizard1232/openlibrary-client-2/internal/errors"
	"github.com/mathwizard1232/openlibrary-client-2/internal/openlibrary"
	"github.com/mathwizard1232/openlibrary-client-2/internal/ratelimit"
)

func resetCmdState(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"ol"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("ol"),
		kong.Description("A client for the OpenLibrary metadata API with deduplicated work search."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

// stubClient points newClient at a test server for the duration of a test.
func stubClient(t *testing.T, handler http.Handler) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	orig := newClient
	newClient = func() *openlibrary.Client {
		return openlibrary.NewClient(
			openlibrary.WithBaseURL(server.URL),
			openlibrary.WithHTTPClient(server.Client()),
			openlibrary.WithRateLimiter(ratelimit.NewWithBurst("test", 1000, 1000)),
		)
	}
	t.Cleanup(func() { newClient = orig })
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		CacheDBFile: "/tmp/cache.db",
		CacheTTL:    "12h",
	}

	updateGlobalConfig(cli)

	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "12h", viper.GetString("cache.ttl"))
}

func TestSearchCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search", "-t", "Dune", "-a", "Frank Herbert", "-l", "5", "--format", "yaml")

	assert.Equal(t, "Dune", cli.Search.Title)
	assert.Equal(t, "Frank Herbert", cli.Search.Author)
	assert.Equal(t, 5, cli.Search.Limit)
	assert.Equal(t, "yaml", cli.Search.Format)
}

func TestIsbnCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "isbn", "978-0-12-345678-9")

	assert.Equal(t, "978-0-12-345678-9", cli.Isbn.ISBN)
	assert.Equal(t, "json", cli.Isbn.Format)
}

func TestWorkCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "work", "add-subjects", "OL123W", "Fiction", "Pirates", "--comment", "tagging")

	assert.Equal(t, "OL123W", cli.Work.AddSubjects.OLID)
	assert.Equal(t, []string{"Fiction", "Pirates"}, cli.Work.AddSubjects.Subjects)
	assert.Equal(t, "tagging", cli.Work.AddSubjects.Comment)
}

func TestSearchCommandRequiresTitleOrAuthor(t *testing.T) {
	resetCmdState(t)
	stubClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid query")
	}))

	cmd := &SearchCmd{Format: "json"}
	err := cmd.Run()
	require.Error(t, err)
	assert.True(t, olerrors.IsInvalidQueryError(err))
}

func TestSearchCommandFindsBook(t *testing.T) {
	resetCmdState(t)
	stubClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"num_found": 1, "docs": [{"key": "/works/OL1W", "title": "Dune"}]}`))
	}))

	cmd := &SearchCmd{Title: "Dune", Format: "json"}
	require.NoError(t, cmd.Run())
}

func TestDeleteCommandRequiresConfirm(t *testing.T) {
	resetCmdState(t)
	stubClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without --confirm")
	}))

	cmd := &DeleteWorkCmd{OLID: "OL123W", Comment: "dupe"}
	err := cmd.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--confirm")
}
