package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultAPIURL is the Bot API base; the bot token is appended directly
const DefaultAPIURL = "https://api.telegram.org/bot"

// Client talks to the Telegram Bot API over plain HTTP
type Client struct {
	baseURL string
	token   string
	httpCli *http.Client
}

// Update is one entry from getUpdates
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the Bot API message object (the fields the gateway uses)
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
}

// User is the Bot API user object
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

// Chat is the Bot API chat object
type Chat struct {
	ID int64 `json:"id"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// NewClient creates a Bot API client. baseURL defaults to DefaultAPIURL.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpCli: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetUpdates fetches new updates. offset acknowledges everything below
// it; timeout (seconds) enables long polling when > 0.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	params := url.Values{}
	params.Set("timeout", strconv.Itoa(timeout))
	if offset > 0 {
		params.Set("offset", strconv.FormatInt(offset, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint("getUpdates")+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build getUpdates request: %w", err)
	}

	var raw apiResponse
	if err := c.do(req, &raw); err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}

	var updates []Update
	if err := json.Unmarshal(raw.Result, &updates); err != nil {
		return nil, fmt.Errorf("decode getUpdates result: %w", err)
	}
	return updates, nil
}

// SendMessage sends a text message to one chat
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	body, _ := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var raw apiResponse
	if err := c.do(req, &raw); err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out *apiResponse) error {
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("api error: %s", out.Description)
	}
	return nil
}

func (c *Client) endpoint(method string) string {
	return c.baseURL + c.token + "/" + method
}
