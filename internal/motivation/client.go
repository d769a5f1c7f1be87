package motivation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sadopc/winterarc/internal/logger"
)

// RequestTimeout bounds every call to the generator backend.
const RequestTimeout = 5 * time.Second

// Context is what the backend gets to personalize its text.
type Context struct {
	Name            string `json:"name,omitempty"`
	BiggestDream    string `json:"biggestDream,omitempty"`
	BiggestSetback  string `json:"biggestSetback,omitempty"`
	MotivationStyle string `json:"motivationStyle,omitempty"`
}

// Client talks to the text-generation backend. Every method falls back to
// static text on error or timeout; none of them retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
	Now     func() time.Time
}

func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: RequestTimeout},
		log:     log.With("service", "motivation"),
		Now:     time.Now,
	}
}

func (c *Client) HarshReminder(ctx context.Context, mc Context) string {
	var out struct {
		Reminder string `json:"reminder"`
	}
	if err := c.post(ctx, "/api/generate-reminder", mc, &out); err != nil || out.Reminder == "" {
		c.log.Info("reminder backend unavailable, using fallback", "error", err)
		return ReminderFallback(mc.BiggestDream, mc.BiggestSetback)
	}
	return out.Reminder
}

func (c *Client) CheckInPrompt(ctx context.Context, mc Context) string {
	var out struct {
		Prompt string `json:"prompt"`
	}
	if err := c.post(ctx, "/api/generate-checkin-prompt", mc, &out); err != nil || out.Prompt == "" {
		c.log.Info("check-in backend unavailable, using fallback", "error", err)
		return CheckInPromptFallback
	}
	return out.Prompt
}

func (c *Client) DailyQuote(ctx context.Context, mc Context) string {
	var out struct {
		Quote string `json:"quote"`
	}
	if err := c.post(ctx, "/api/generate-daily-quote", mc, &out); err != nil || out.Quote == "" {
		c.log.Info("quote backend unavailable, using fallback", "error", err)
		return DailyQuote(c.Now())
	}
	return out.Quote
}

func (c *Client) post(ctx context.Context, path string, mc Context, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("no backend configured")
	}
	body, err := json.Marshal(map[string]any{"userProfile": mc})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
