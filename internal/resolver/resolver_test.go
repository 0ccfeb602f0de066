package resolver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CanyenPalmer/Best-Bet-NFL/internal/cache"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/models"
	"github.com/CanyenPalmer/Best-Bet-NFL/internal/provider"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"identical", "chiefs", "chiefs", 100},
		{"containment", "chiefs", "Kansas City Chiefs", 100},
		{"containment reversed", "Kansas City Chiefs", "chiefs", 100},
		{"case insensitive", "CHIEFS", "Kansas City Chiefs", 100},
		{"short abbreviation", "kc", "Kansas City Chiefs", 50},
		{"empty query", "", "chiefs", 0},
		{"both empty", "", "", 0},
		// Common substring 13 over shorter length 20
		{"at team threshold", "abcdefghijklmnopqrst", "abcdefghijklmzzzzzzz", 65},
		// Common substring 16 over shorter length 25
		{"one below team threshold", "abcdefghijklmnopqrstuvwxy", "abcdefghijklmnopzzzzzzzzz", 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, partialRatio(tt.a, tt.b))
		})
	}
}

func TestNameScore(t *testing.T) {
	// Exact name: containment plus full token overlap
	score := nameScore([]string{"patrick", "mahomes"}, "Patrick Mahomes")
	assert.InDelta(t, 1.0, score, 1e-9)

	// Shortened first name still clears the player threshold
	score = nameScore([]string{"pat", "mahomes"}, "Patrick Mahomes")
	assert.InDelta(t, 0.632, score, 1e-9)
	assert.GreaterOrEqual(t, score, playerMatchThreshold)

	// Unrelated name stays well below it
	score = nameScore([]string{"justin", "jefferson"}, "Patrick Mahomes")
	assert.Less(t, score, playerMatchThreshold)

	// Full token overlap with partial ratio 25 blends to exactly the
	// threshold
	score = nameScore([]string{"abcd", "efg", "hij", "klm", "nop"}, "nop klm hij efg abcd")
	assert.Equal(t, playerMatchThreshold, score)

	// One partial-ratio point lower lands just below it
	score = nameScore([]string{"abcdef", "ghi", "jkl", "mno", "pqrstu"}, "pqrstu mno jkl ghi abcdef")
	assert.Less(t, score, playerMatchThreshold)
}

const teamsJSON = `{
	"sports": [{"leagues": [{"teams": [
		{"team": {"id": "12", "name": "Chiefs", "nickname": "Chiefs", "shortDisplayName": "Chiefs", "displayName": "Kansas City Chiefs", "location": "Kansas City"}},
		{"team": {"id": "2", "name": "Bills", "nickname": "Bills", "shortDisplayName": "Bills", "displayName": "Buffalo Bills", "location": "Buffalo"}}
	]}]}]
}`

func newTestResolver(t *testing.T) (*Resolver, *int64) {
	t.Helper()

	var rosterHits int64
	mux := http.NewServeMux()
	mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(teamsJSON))
	})
	mux.HandleFunc("/teams/12/roster", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&rosterHits, 1)
		w.Write([]byte(`{"athletes": [{"items": [
			{"id": "3139477", "fullName": "Patrick Mahomes"},
			{"id": "4241389", "fullName": "Travis Kelce"}
		]}]}`))
	})
	mux.HandleFunc("/teams/2/roster", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&rosterHits, 1)
		w.Write([]byte(`{"athletes": [{"items": [
			{"id": "3918298", "fullName": "Josh Allen"}
		]}]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	cfg := provider.DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	httpClient := provider.NewRateLimitedHTTPClient(cfg, logger)
	caches := &provider.Caches{
		Teams:     cache.NewStore("teams", time.Minute, 16),
		Rosters:   cache.NewStore("rosters", time.Minute, 16),
		GameLogs:  cache.NewStore("gamelogs", time.Minute, 16),
		TeamStats: cache.NewStore("teamstats", time.Minute, 16),
	}
	client := provider.NewClient(httpClient, server.URL, server.URL, "", caches, logger)

	return New(client, cache.NewStore("resolver", time.Minute, 32), logger), &rosterHits
}

func TestResolveTeam(t *testing.T) {
	r, _ := newTestResolver(t)

	team, err := r.ResolveTeam(context.Background(), "chiefs")
	require.NoError(t, err)
	assert.Equal(t, "12", team.ID.String())

	// Location alone matches through the location+name variant
	team, err = r.ResolveTeam(context.Background(), "Buffalo")
	require.NoError(t, err)
	assert.Equal(t, "2", team.ID.String())
}

func TestResolveTeamMiss(t *testing.T) {
	r, _ := newTestResolver(t)

	_, err := r.ResolveTeam(context.Background(), "qx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = r.ResolveTeam(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestResolvePlayer(t *testing.T) {
	r, _ := newTestResolver(t)

	resolved, err := r.ResolvePlayer(context.Background(), "Patrick Mahomes")
	require.NoError(t, err)
	assert.Equal(t, "3139477", resolved.Player.ID.String())
	assert.Equal(t, "12", resolved.TeamID)

	// Partial name still resolves
	resolved, err = r.ResolvePlayer(context.Background(), "pat mahomes")
	require.NoError(t, err)
	assert.Equal(t, "3139477", resolved.Player.ID.String())
}

func TestResolvePlayerMiss(t *testing.T) {
	r, _ := newTestResolver(t)

	_, err := r.ResolvePlayer(context.Background(), "Zzyzx Quorblat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestResolvePlayerMemoized(t *testing.T) {
	r, hits := newTestResolver(t)

	_, err := r.ResolvePlayer(context.Background(), "Travis Kelce")
	require.NoError(t, err)
	firstScan := atomic.LoadInt64(hits)
	assert.Equal(t, int64(2), firstScan)

	// Repeat query is served from the resolver cache; the provider's
	// roster cache keeps even a fresh scan from refetching
	_, err = r.ResolvePlayer(context.Background(), "travis  kelce")
	require.NoError(t, err)
	assert.Equal(t, firstScan, atomic.LoadInt64(hits))
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.FatalLevel)
	return l
}

// newFixtureResolver builds a resolver against arbitrary team and
// roster payloads so tests can engineer match scores precisely.
func newFixtureResolver(t *testing.T, log *logrus.Logger, teams string, rosters map[string]string) *Resolver {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(teams))
	})
	for id, body := range rosters {
		body := body
		mux.HandleFunc("/teams/"+id+"/roster", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := provider.DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	httpClient := provider.NewRateLimitedHTTPClient(cfg, log)
	caches := &provider.Caches{
		Teams:     cache.NewStore("teams", time.Minute, 16),
		Rosters:   cache.NewStore("rosters", time.Minute, 16),
		GameLogs:  cache.NewStore("gamelogs", time.Minute, 16),
		TeamStats: cache.NewStore("teamstats", time.Minute, 16),
	}
	client := provider.NewClient(httpClient, server.URL, server.URL, "", caches, log)

	return New(client, cache.NewStore("resolver", time.Minute, 32), log)
}

func TestResolveTeamThresholdBoundary(t *testing.T) {
	// Candidate engineered to score exactly the threshold: common
	// substring 13 over shorter length 20 is 65
	r := newFixtureResolver(t, quietLogger(), `{"sports": [{"leagues": [{"teams": [
		{"team": {"id": "7", "name": "abcdefghijklmzzzzzzz"}}
	]}]}]}`, nil)
	team, err := r.ResolveTeam(context.Background(), "abcdefghijklmnopqrst")
	require.NoError(t, err)
	assert.Equal(t, "7", team.ID.String())

	// One point below: common substring 16 over shorter length 25 is 64
	r = newFixtureResolver(t, quietLogger(), `{"sports": [{"leagues": [{"teams": [
		{"team": {"id": "8", "name": "abcdefghijklmnopzzzzzzzzz"}}
	]}]}]}`, nil)
	_, err = r.ResolveTeam(context.Background(), "abcdefghijklmnopqrstuvwxy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestResolvePlayerThresholdBoundary(t *testing.T) {
	teams := `{"sports": [{"leagues": [{"teams": [{"team": {"id": "7", "name": "Sevens"}}]}]}]}`

	// Full token overlap with partial ratio 25 blends to exactly 0.55
	r := newFixtureResolver(t, quietLogger(), teams, map[string]string{
		"7": `{"athletes": [{"items": [{"id": "101", "fullName": "nop klm hij efg abcd"}]}]}`,
	})
	resolved, err := r.ResolvePlayer(context.Background(), "abcd efg hij klm nop")
	require.NoError(t, err)
	assert.Equal(t, "101", resolved.Player.ID.String())

	// One partial-ratio point lower scores 0.544 and is rejected
	r = newFixtureResolver(t, quietLogger(), teams, map[string]string{
		"7": `{"athletes": [{"items": [{"id": "102", "fullName": "pqrstu mno jkl ghi abcdef"}]}]}`,
	})
	_, err = r.ResolvePlayer(context.Background(), "abcdef ghi jkl mno pqrstu")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestResolveMissIsAudited(t *testing.T) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	r := newFixtureResolver(t, log, teamsJSON, nil)
	_, err := r.ResolveTeam(context.Background(), "qx")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Entity resolution miss")
	assert.Contains(t, buf.String(), `"kind":"team"`)
}

func TestResolveTeamQueryNormalization(t *testing.T) {
	r, _ := newTestResolver(t)

	first, err := r.ResolveTeam(context.Background(), "  CHIEFS  ")
	require.NoError(t, err)
	second, err := r.ResolveTeam(context.Background(), "chiefs")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, strings.EqualFold(first.Name, "chiefs"))
}
