package trivia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triviaServer(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewWithURL(srv.URL)
}

func TestQuestionDecodesAndUnescapes(t *testing.T) {
	c := triviaServer(t, `{"response_code": 0, "results": [{
		"question": "Who is Shimarin&#039;s friend?",
		"difficulty": "easy",
		"correct_answer": "Nadeshiko",
		"incorrect_answers": ["Aoi", "Chiaki", "Ena"]
	}]}`)

	q, err := c.Question(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Who is Shimarin's friend?", q.Content)
	assert.Equal(t, "easy", q.Difficulty)
	assert.Equal(t, "Nadeshiko", q.Answer)
	require.Len(t, q.Choices, 4)
	assert.Contains(t, q.Choices, "Nadeshiko")
	assert.Contains(t, q.Choices, "Aoi")
}

func TestQuestionEmptyResponse(t *testing.T) {
	c := triviaServer(t, `{"response_code": 1, "results": []}`)
	_, err := c.Question(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no question returned")
}

func TestQuestionBadJSON(t *testing.T) {
	c := triviaServer(t, `not json`)
	_, err := c.Question(context.Background())
	assert.Error(t, err)
}
