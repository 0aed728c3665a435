package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
	Token     string
}

func graphServer(t *testing.T, status int, body string) (*Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		captured.Token = r.Header.Get("Authorization")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New("id", "secret", WithAPIURL(srv.URL)), captured
}

func TestSearchUser(t *testing.T) {
	c, captured := graphServer(t, http.StatusOK,
		`{"data": {"User": {"id": 42, "name": "damour", "options": {"profileColor": "blue"}}}}`)

	user, err := c.SearchUser(context.Background(), "damour")
	require.NoError(t, err)
	assert.Equal(t, 42, user.ID)
	assert.Equal(t, "damour", user.Name)
	assert.Equal(t, "blue", user.Options.ProfileColor)
	assert.Equal(t, "damour", captured.Variables["username"])
	assert.Empty(t, captured.Token, "public queries carry no token")
}

func TestSearchUserNotFound(t *testing.T) {
	c, _ := graphServer(t, http.StatusNotFound,
		`{"data": null, "errors": [{"message": "Not Found.", "status": 404}]}`)

	_, err := c.SearchUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchUserEmptyUsername(t *testing.T) {
	c := New("id", "secret")
	_, err := c.SearchUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewerFromTokenSendsBearer(t *testing.T) {
	c, captured := graphServer(t, http.StatusOK,
		`{"data": {"Viewer": {"id": 7, "name": "me", "options": {"titleLanguage": "ROMAJI", "displayAdultContent": true}}}}`)

	viewer, err := c.ViewerFromToken(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", captured.Token)
	assert.Equal(t, "ROMAJI", viewer.Options.TitleLanguage)
	assert.True(t, viewer.Options.DisplayAdultContent)
}

func TestMediaListVariables(t *testing.T) {
	c, captured := graphServer(t, http.StatusOK, `{"data": {"Page": {
		"pageInfo": {"total": 1, "perPage": 6, "currentPage": 1, "lastPage": 1},
		"mediaList": [{"progress": 3, "media": {"id": 1, "title": {"romaji": "Yotsuba to!"}, "chapters": 110}}]
	}}}`)

	page, err := c.MediaList(context.Background(),
		42, MediaListFilter{Type: MediaTypeManga, Status: StatusPlanning}, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 42, captured.Variables["userId"])
	assert.EqualValues(t, "MANGA", captured.Variables["type"])
	assert.EqualValues(t, "PLANNING", captured.Variables["status"])
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].Progress)
	assert.Equal(t, "Yotsuba to!", page.Items[0].Media.Title.Romaji)
}

func TestSearchMediaOmitsEmptyType(t *testing.T) {
	c, captured := graphServer(t, http.StatusOK, `{"data": {"Page": {
		"pageInfo": {"total": 0, "perPage": 10, "currentPage": 1, "lastPage": 1},
		"media": []
	}}}`)

	_, err := c.SearchMedia(context.Background(), "bebop", "", 0)
	require.NoError(t, err)
	_, present := captured.Variables["type"]
	assert.False(t, present, "untyped searches cover anime and manga alike")
}

func TestQueryReportsGraphErrors(t *testing.T) {
	c, _ := graphServer(t, http.StatusOK,
		`{"data": null, "errors": [{"message": "rate limited", "status": 400}]}`)

	_, err := c.SearchUser(context.Background(), "someone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok", "token_type": "Bearer"}`))
	}))
	t.Cleanup(srv.Close)

	c := New("id", "secret", WithTokenURL(srv.URL))

	token, err := c.ExchangeCode(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = c.ExchangeCode(context.Background(), "bad")
	assert.Error(t, err)
}

func TestDisplayTitle(t *testing.T) {
	title := MediaTitle{English: "Laid-Back Camp", Romaji: "Yuru Camp", Native: "ゆるキャン"}

	assert.Equal(t, "Laid-Back Camp", DisplayTitle(title, nil))

	viewer := &Viewer{}
	viewer.Options.TitleLanguage = "NATIVE"
	assert.Equal(t, "ゆるキャン", DisplayTitle(title, viewer))

	viewer.Options.TitleLanguage = "ROMAJI_STYLISED"
	assert.Equal(t, "Yuru Camp", DisplayTitle(title, viewer))

	// Preferred language missing falls back to the usual order.
	viewer.Options.TitleLanguage = "ENGLISH"
	assert.Equal(t, "Yuru Camp", DisplayTitle(MediaTitle{Romaji: "Yuru Camp"}, viewer))
}

func TestVisibleTo(t *testing.T) {
	optedIn := &Viewer{}
	optedIn.Options.DisplayAdultContent = true
	optedOut := &Viewer{}

	assert.True(t, VisibleTo(false, nil, false), "non-adult entries are always visible")
	assert.False(t, VisibleTo(true, nil, true), "unlinked callers never see adult entries")
	assert.False(t, VisibleTo(true, optedOut, true))
	assert.False(t, VisibleTo(true, optedIn, false), "channel must be age-restricted")
	assert.True(t, VisibleTo(true, optedIn, true))
}

func TestCleanDescription(t *testing.T) {
	in := "Line one.<br><br><br>Line two with <i>emphasis</i> and <b>bold</b>.<br />"
	assert.Equal(t, "Line one.\n\nLine two with *emphasis* and **bold**.", CleanDescription(in))
}
