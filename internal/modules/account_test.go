package modules

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shimarin/internal/anilist"
	"shimarin/internal/storage"
)

// connectDeps wires a Deps against local token and GraphQL endpoints plus a
// temp-file store, for driving the account link flow end to end.
func connectDeps(t *testing.T, bot *fakeBot) Deps {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok", "token_type": "Bearer"}`))
	}))
	t.Cleanup(tokenSrv.Close)

	graphSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data": {"Viewer": {"id": 7, "name": "damour"}}}`))
	}))
	t.Cleanup(graphSrv.Close)

	store, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return Deps{
		Bot: bot,
		AniList: anilist.New("id", "secret",
			anilist.WithAPIURL(graphSrv.URL), anilist.WithTokenURL(tokenSrv.URL)),
		Store: store,
	}
}

func TestFinishConnectUpsertsOnce(t *testing.T) {
	bot := &fakeBot{dmID: "dm"}
	d := connectDeps(t, bot)

	// Only the first token of the reply counts as the code.
	require.NoError(t, d.finishConnect("dm", "discord-1", "good-code trailing words"))

	conn, ok := d.Store.Connection("discord-1")
	require.True(t, ok, "a successful exchange records exactly one connection")
	assert.Equal(t, "7", conn.AniListID)
	assert.Equal(t, "tok", conn.Token)

	require.Len(t, bot.notices, 1)
	assert.Contains(t, bot.notices[0], "damour")
	assert.Empty(t, bot.errors)
}

func TestFinishConnectFailedExchangeUpsertsNothing(t *testing.T) {
	bot := &fakeBot{dmID: "dm"}
	d := connectDeps(t, bot)

	require.NoError(t, d.finishConnect("dm", "discord-1", "wrong-code"))

	_, ok := d.Store.Connection("discord-1")
	assert.False(t, ok, "a failed exchange must not record a connection")
	require.Len(t, bot.errors, 1)
	assert.Equal(t, "The authentication code you have provided is invalid.", bot.errors[0])
	assert.Empty(t, bot.notices)
}

func TestConnectSendsInstructionsOverDM(t *testing.T) {
	bot := &fakeBot{dmID: "dm"}
	d := connectDeps(t, bot)

	msg := message("guild-chan", "discord-1", "!connect")
	msg.GuildID = "guild"
	require.NoError(t, d.connectAccount(msg))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, "Connect your AniList account", bot.sent[0].Title)
	require.Len(t, bot.notices, 1, "guild invocations get a check-your-DMs notice")
	assert.NotNil(t, bot.onReply, "the code reply collector must be armed")

	// The collected DM reply completes the link.
	bot.onReply(message("dm", "discord-1", "good-code"))
	_, ok := d.Store.Connection("discord-1")
	assert.True(t, ok)
}
