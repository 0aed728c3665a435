package modules

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shimarin/internal/anilist"
	"shimarin/internal/command"
	"shimarin/internal/storage"
)

// searchDeps points the AniList client at a server that records the
// variables of every search request and returns an empty result page.
func searchDeps(t *testing.T, bot *fakeBot) (Deps, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body.Variables)
		w.Write([]byte(`{"data": {"Page": {
			"pageInfo": {"total": 0, "perPage": 10, "currentPage": 1, "lastPage": 1},
			"media": []
		}}}`))
	}))
	t.Cleanup(srv.Close)

	store, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return Deps{
		Bot:     bot,
		AniList: anilist.New("id", "secret", anilist.WithAPIURL(srv.URL)),
		Store:   store,
	}, &requests
}

func runSearchCommand(t *testing.T, d Deps, name string, args ...string) {
	t.Helper()
	r := command.NewRegistry(Search(d))
	cmd, ok := r.Resolve(name)
	require.True(t, ok)
	require.NoError(t, cmd.Run(message("chan", "user", ""), args))
}

func TestSearchCommandCoversBothCatalogs(t *testing.T) {
	bot := &fakeBot{}
	d, requests := searchDeps(t, bot)

	runSearchCommand(t, d, "search", "yuru", "camp")

	require.Len(t, *requests, 1)
	vars := (*requests)[0]
	_, typed := vars["type"]
	assert.False(t, typed, "the combined search must not restrict the catalog")
	assert.Equal(t, "yuru camp", vars["search"])
}

func TestAnimeAndMangaCommandsRestrictTheCatalog(t *testing.T) {
	bot := &fakeBot{}
	d, requests := searchDeps(t, bot)

	runSearchCommand(t, d, "anime", "bebop")
	runSearchCommand(t, d, "manga", "yotsuba")

	require.Len(t, *requests, 2)
	assert.EqualValues(t, "ANIME", (*requests)[0]["type"])
	assert.EqualValues(t, "MANGA", (*requests)[1]["type"])
}

func TestSearchCommandEmptyQueryMessages(t *testing.T) {
	bot := &fakeBot{}
	d, _ := searchDeps(t, bot)

	runSearchCommand(t, d, "search")
	runSearchCommand(t, d, "anime")
	runSearchCommand(t, d, "manga")

	assert.Equal(t, []string{
		"No title was provided.",
		"No anime title was provided.",
		"No manga title was provided.",
	}, bot.errors)
}
