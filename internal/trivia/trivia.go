// Package trivia fetches anime and manga questions from Open Trivia DB.
package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math/rand"
	"net/http"
	"time"

	"shimarin/pkg/retry"
)

// questionURL requests one question from the anime & manga category.
const questionURL = "https://opentdb.com/api.php?amount=1&category=31"

// Question is one multiple-choice question with shuffled choices.
type Question struct {
	Content    string
	Difficulty string
	Choices    []string
	Answer     string
}

// Client talks to Open Trivia DB.
type Client struct {
	url     string
	http    *http.Client
	limiter *retry.Limiter
}

// New creates a Client with the public endpoint.
func New() *Client {
	return &Client{
		url:     questionURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		limiter: retry.NewLimiter(1, 1),
	}
}

// NewWithURL creates a Client against a custom endpoint.
func NewWithURL(url string) *Client {
	c := New()
	c.url = url
	return c
}

// Question fetches and decodes one question.
func (c *Client) Question(ctx context.Context) (*Question, error) {
	var payload struct {
		ResponseCode int `json:"response_code"`
		Results      []struct {
			Question         string   `json:"question"`
			Difficulty       string   `json:"difficulty"`
			CorrectAnswer    string   `json:"correct_answer"`
			IncorrectAnswers []string `json:"incorrect_answers"`
		} `json:"results"`
	}

	err := retry.Do(ctx, c.limiter, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return retry.Fatal(err)
		}
		req.Header.Set("Accept", "application/json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode != http.StatusOK {
			return retry.HTTPError(res.StatusCode, string(data))
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return retry.Fatal(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("opentdb: %w", err)
	}
	if payload.ResponseCode != 0 || len(payload.Results) == 0 {
		return nil, fmt.Errorf("opentdb: no question returned (code %d)", payload.ResponseCode)
	}

	r := payload.Results[0]
	choices := append([]string{r.CorrectAnswer}, r.IncorrectAnswers...)
	for i := range choices {
		choices[i] = html.UnescapeString(choices[i])
	}
	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return &Question{
		Content:    html.UnescapeString(r.Question),
		Difficulty: r.Difficulty,
		Choices:    choices,
		Answer:     html.UnescapeString(r.CorrectAnswer),
	}, nil
}
