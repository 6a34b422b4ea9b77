package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/alphabet-game/internal/catalog"
	"github.com/robalobadob/alphabet-game/internal/config"
	"github.com/robalobadob/alphabet-game/internal/game"
	"github.com/robalobadob/alphabet-game/internal/results"
	"github.com/robalobadob/alphabet-game/internal/session"
	"github.com/robalobadob/alphabet-game/internal/store"
	"github.com/robalobadob/alphabet-game/internal/words"
)

type testEnv struct {
	t       *testing.T
	srv     *httptest.Server
	client  *http.Client
	catLang int64 // language whose only word is "cat"
	dogLang int64 // language whose only word is "dog"
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           5175,
		LogLevel:       "debug",
		DBPath:         catalog.MemoryDSN,
		JWTSecret:      "test_secret_0123456789",
		JWTExpiresDays: 1,
		CookieName:     "alphabet_token",
		ClientOrigin:   "http://localhost:5173",
		GridSize:       12,
		MaxAttempts:    5,
		SessionIdle:    time.Hour,
		DailySalt:      "test_salt",
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := catalog.Open(ctx, catalog.MemoryDSN, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cat := catalog.New(db)
	_, err = cat.Seed(ctx)
	require.NoError(t, err)

	addLang := func(name, code, word string, letters ...string) int64 {
		rows := make([]words.Letter, 0, len(letters))
		for _, l := range letters {
			rows = append(rows, words.Letter{Letter: l, Regular: true})
		}
		id, err := cat.AddLanguage(ctx, words.Language{Name: name, Code: code}, rows)
		require.NoError(t, err)
		_, err = cat.AddWords(ctx, id, []string{word})
		require.NoError(t, err)
		return id
	}
	catLang := addLang("Cats", "en-GB", "cat", "a", "c", "t", "x", "y", "z")
	dogLang := addLang("Dogs", "en-AU", "dog", "d", "o", "g", "q")

	s := New(testConfig(), db, store.NewMemoryStore(), zerolog.Nop())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{t: t, srv: srv, client: &http.Client{Jar: jar}, catLang: catLang, dogLang: dogLang}
}

// call sends body as JSON and decodes the response into out (if non-nil).
func (e *testEnv) call(method, path string, body, out any) int {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := e.client.Do(req)
	require.NoError(e.t, err)
	defer res.Body.Close()
	assert.Contains(e.t, res.Header.Get("Content-Type"), "application/json")
	if out != nil {
		require.NoError(e.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (e *testEnv) newSession(langID int64) sessionRes {
	e.t.Helper()
	var res sessionRes
	require.Equal(e.t, http.StatusCreated, e.call(http.MethodPost, "/sessions", map[string]int64{"languageId": langID}, &res))
	require.NotNil(e.t, res.View.Round)
	return res
}

func (e *testEnv) spell(id string, units ...string) {
	e.t.Helper()
	for _, u := range units {
		require.Equal(e.t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+id+"/letters", letterReq{Unit: u}, nil))
	}
}

func TestHealthAndIndex(t *testing.T) {
	e := newTestEnv(t)
	var health map[string]bool
	assert.Equal(t, http.StatusOK, e.call(http.MethodGet, "/health", nil, &health))
	assert.True(t, health["ok"])

	var body map[string]any
	assert.Equal(t, http.StatusNotFound, e.call(http.MethodGet, "/nope", nil, &body))
	assert.Equal(t, "not_found", body["error"])
}

func TestLanguagesAndLetters(t *testing.T) {
	e := newTestEnv(t)

	var langs []words.Language
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/languages", nil, &langs))
	assert.Len(t, langs, 6)

	var letters []words.Letter
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/languages/"+strconv.FormatInt(e.catLang, 10)+"/letters", nil, &letters))
	assert.Len(t, letters, 6)

	assert.Equal(t, http.StatusNotFound, e.call(http.MethodGet, "/languages/9999/letters", nil, nil))
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodGet, "/languages/abc/letters", nil, nil))
}

func TestCreateSessionDefaultLanguage(t *testing.T) {
	e := newTestEnv(t)

	var res sessionRes
	require.Equal(t, http.StatusCreated, e.call(http.MethodPost, "/sessions", nil, &res))
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "en-US", res.View.Language.Code)
	assert.False(t, res.View.NeedsWord)
	require.NotNil(t, res.View.Round)
	assert.Equal(t, game.StatusActive, res.View.Round.Status)

	base, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	var anon bool
	for _, c := range e.client.Jar.Cookies(base) {
		anon = anon || c.Name == anonCookieName
	}
	assert.True(t, anon, "guest gets an anonymous cookie")
}

func TestCreateSessionUnknownLanguage(t *testing.T) {
	e := newTestEnv(t)
	var body map[string]string
	assert.Equal(t, http.StatusNotFound, e.call(http.MethodPost, "/sessions", map[string]int64{"languageId": 9999}, &body))
	assert.Equal(t, "language_not_found", body["error"])
}

func TestSpellWordCorrectly(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)
	assert.Equal(t, []string{"c", "a", "t"}, s.View.Round.Target)
	assert.ElementsMatch(t, []string{"a", "c", "t", "x", "y", "z"}, s.View.Round.Grid)

	e.spell(s.ID, "c", "a", "x")
	var view sessionRes
	require.Equal(t, http.StatusOK, e.call(http.MethodDelete, "/sessions/"+s.ID+"/letters/last", nil, &view))
	assert.Equal(t, []string{"c", "a"}, view.View.Round.Input)
	e.spell(s.ID, "t")

	var res checkRes
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/check", nil, &res))
	assert.Equal(t, game.OutcomeCorrect, res.Outcome)
	assert.Equal(t, 13, res.Points)
	assert.Equal(t, 13, res.View.Score)
	assert.True(t, res.View.NeedsWord)
	assert.True(t, res.View.Round.Won)

	var locked checkRes
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/check", nil, &locked))
	assert.Equal(t, game.OutcomeLocked, locked.Outcome)
	assert.Equal(t, 13, locked.View.Score)

	var next sessionRes
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/next", nil, &next))
	assert.False(t, next.View.NeedsWord)
	assert.NotEqual(t, s.View.Round.ID, next.View.Round.ID)
	assert.Empty(t, next.View.Round.Input)
	assert.Equal(t, 13, next.View.Score)

	var lb lbRes
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/leaderboard?language="+strconv.FormatInt(e.catLang, 10), nil, &lb))
	require.Len(t, lb.Top, 1)
	assert.Equal(t, results.LBRow{Player: lb.Top[0].Player, BestScore: 13, Rounds: 1, Wins: 1}, lb.Top[0])
}

func TestOutOfAttempts(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)

	var res checkRes
	for i := 1; i < 5; i++ {
		require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/check", nil, &res))
		assert.Equal(t, game.OutcomeRetry, res.Outcome)
	}
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/check", nil, &res))
	assert.Equal(t, game.OutcomeOutOfAttempts, res.Outcome)
	assert.Zero(t, res.View.Score)
	assert.Equal(t, game.StatusCompleted, res.View.Round.Status)

	var lb lbRes
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/leaderboard", nil, &lb))
	require.Len(t, lb.Top, 1)
	assert.Zero(t, lb.Top[0].Wins)
}

func TestLetterValidation(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)

	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodPost, "/sessions/"+s.ID+"/letters", letterReq{Unit: "q"}, &body))
	assert.Equal(t, "bad_unit", body["error"])
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodPost, "/sessions/"+s.ID+"/letters", letterReq{}, nil))

	req, _ := http.NewRequest(http.MethodPost, e.srv.URL+"/sessions/"+s.ID+"/letters", strings.NewReader("{"))
	res, err := e.client.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestInputBoundedByWordLength(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)
	e.spell(s.ID, "c", "a", "t", "z", "y")

	var view sessionRes
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/sessions/"+s.ID, nil, &view))
	assert.Equal(t, []string{"c", "a", "t"}, view.View.Round.Input)
}

func TestUnknownSession(t *testing.T) {
	e := newTestEnv(t)
	var body map[string]string
	assert.Equal(t, http.StatusNotFound, e.call(http.MethodGet, "/sessions/missing", nil, &body))
	assert.Equal(t, "session_not_found", body["error"])
	assert.Equal(t, http.StatusNotFound, e.call(http.MethodPost, "/sessions/missing/check", nil, nil))
}

func TestNextWhileRoundActive(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)

	var body map[string]string
	assert.Equal(t, http.StatusConflict, e.call(http.MethodPost, "/sessions/"+s.ID+"/next", nil, &body))
	assert.Equal(t, "word_not_needed", body["error"])
}

func TestSwitchLanguage(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)
	e.spell(s.ID, "c")

	var res sessionRes
	require.Equal(t, http.StatusOK, e.call(http.MethodPut, "/sessions/"+s.ID+"/language", languageReq{LanguageID: e.dogLang}, &res))
	assert.Equal(t, e.dogLang, res.View.Language.ID)
	assert.Equal(t, "dog", res.View.Round.Word)
	assert.Empty(t, res.View.Round.Input)

	// Same language again keeps the round.
	e.spell(s.ID, "d")
	require.Equal(t, http.StatusOK, e.call(http.MethodPut, "/sessions/"+s.ID+"/language", languageReq{LanguageID: e.dogLang}, &res))
	assert.Equal(t, []string{"d"}, res.View.Round.Input)

	assert.Equal(t, http.StatusNotFound, e.call(http.MethodPut, "/sessions/"+s.ID+"/language", languageReq{LanguageID: 9999}, nil))
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodPut, "/sessions/"+s.ID+"/language", languageReq{}, nil))
}

func TestDailySession(t *testing.T) {
	e := newTestEnv(t)

	var s sessionRes
	require.Equal(t, http.StatusCreated, e.call(http.MethodPost, "/sessions",
		createSessionReq{LanguageID: e.dogLang, Daily: true}, &s))
	assert.True(t, s.Daily)
	assert.Equal(t, "dog", s.View.Round.Word)

	e.spell(s.ID, "d", "o", "g")
	var res checkRes
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/check", nil, &res))
	assert.Equal(t, game.OutcomeCorrect, res.Outcome)

	var body map[string]string
	assert.Equal(t, http.StatusConflict, e.call(http.MethodPost, "/sessions/"+s.ID+"/next", nil, &body))
	assert.Equal(t, "daily_done", body["error"])
	assert.Equal(t, http.StatusConflict, e.call(http.MethodPut, "/sessions/"+s.ID+"/language",
		languageReq{LanguageID: e.catLang}, nil))
}

func TestLeaderboardParams(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodGet, "/leaderboard?limit=0", nil, nil))
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodGet, "/leaderboard?language=x", nil, nil))

	var lb lbRes
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/leaderboard?limit=5", nil, &lb))
	assert.Empty(t, lb.Top)
}

func TestSignupClaimsGuestResults(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)
	e.spell(s.ID, "c", "a", "t")
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/check", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, e.call(http.MethodGet, "/results/mine", nil, nil))

	creds := credentialsReq{Username: "speller_1", Password: "correct horse"}
	require.Equal(t, http.StatusCreated, e.call(http.MethodPost, "/auth/signup", creds, nil))

	var me authUser
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "speller_1", me.Username)

	var mine []results.Result
	require.Equal(t, http.StatusOK, e.call(http.MethodGet, "/results/mine", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "cat", mine[0].Word)
	assert.Equal(t, 13, mine[0].Points)

	assert.Equal(t, http.StatusConflict, e.call(http.MethodPost, "/auth/signup", creds, nil))

	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, e.call(http.MethodGet, "/auth/me", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, e.call(http.MethodPost, "/auth/login",
		credentialsReq{Username: "speller_1", Password: "wrong password"}, nil))
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/auth/login",
		credentialsReq{Username: "SPELLER_1", Password: "correct horse"}, nil))
	assert.Equal(t, http.StatusOK, e.call(http.MethodGet, "/auth/me", nil, nil))
}

func TestSignupValidation(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodPost, "/auth/signup", credentialsReq{Username: "ab", Password: "longenough"}, nil))
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodPost, "/auth/signup", credentialsReq{Username: "bad name", Password: "longenough"}, nil))
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodPost, "/auth/signup", credentialsReq{Username: "okname", Password: "short"}, nil))
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	req, _ := http.NewRequest(http.MethodOptions, e.srv.URL+"/sessions", nil)
	res, err := e.client.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "http://localhost:5173", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestStreamForwardsEvents(t *testing.T) {
	e := newTestEnv(t)
	s := e.newSession(e.catLang)

	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/sessions/" + s.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev session.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, eventSnapshot, ev.Kind)
	assert.Equal(t, s.View.Round.ID, ev.View.Round.ID)

	e.spell(s.ID, "c")
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, session.EventStateChanged, ev.Kind)
	assert.Equal(t, []string{"c"}, ev.View.Round.Input)

	e.spell(s.ID, "a", "t")
	require.Equal(t, http.StatusOK, e.call(http.MethodPost, "/sessions/"+s.ID+"/check", nil, nil))

	var kinds []session.EventKind
	for len(kinds) < 4 {
		require.NoError(t, conn.ReadJSON(&ev))
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []session.EventKind{
		session.EventStateChanged,
		session.EventStateChanged,
		session.EventRoundCompletedCorrectly,
		session.EventWordNeeded,
	}, kinds)
	assert.Equal(t, 13, ev.View.Score)
}

func TestStreamUnknownSession(t *testing.T) {
	e := newTestEnv(t)
	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/sessions/missing/ws"
	_, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
