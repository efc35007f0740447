// Package llm handles communication with the OpenRouter chat-completions
// API for vision requests. It owns the transport and the two prompt
// contracts; reply interpretation lives upstream.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/roomworks/takeoff/internal/domain"
)

const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel  = "x-ai/grok-4.1-fast:free"

	maxRetries     = 3
	initialBackoff = time.Second
)

// Client handles communication with the OpenRouter API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Message represents a chat message.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text or image).
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents an image URL in the message.
type ImageURL struct {
	URL string `json:"url"`
}

// Request represents the API request structure.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Response represents the API response structure.
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice.
type Choice struct {
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage represents the message body of a completion choice.
type ChoiceMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// NewClient creates a new LLM client.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Send posts an image and prompt to the model and returns the raw reply
// text. Transport and auth failures come back as API errors; the content of
// the reply is not interpreted here.
func (c *Client) Send(ctx context.Context, image []byte, prompt string) (string, error) {
	req, err := c.buildRequest(image, prompt)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", domain.APIError("Failed to marshal request", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		reqBody := bytes.NewReader(body)
		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint(), reqBody)
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("HTTP-Referer", "https://github.com/roomworks/takeoff")
		httpReq.Header.Set("X-Title", "Room Takeoff Pipeline")

		return c.httpClient.Do(httpReq)
	})

	if err != nil {
		return "", domain.APIError("Failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", domain.APIError(fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	return c.readReply(resp.Body)
}

// buildRequest constructs the API request with the image embedded as a
// base64 data URL.
func (c *Client) buildRequest(image []byte, prompt string) (*Request, error) {
	if len(image) == 0 {
		return nil, domain.ValidationError("image bytes are empty", nil)
	}

	base64Image := base64.StdEncoding.EncodeToString(image)
	imageURL := "data:" + sniffMIME(image) + ";base64," + base64Image

	msg := Message{
		Role: "user",
		Content: []ContentPart{
			{
				Type: "text",
				Text: prompt,
			},
			{
				Type: "image_url",
				ImageURL: &ImageURL{
					URL: imageURL,
				},
			},
		},
	}

	return &Request{
		Model:    c.model,
		Messages: []Message{msg},
		Stream:   false,
	}, nil
}

// sniffMIME identifies the image format from its magic bytes.
func sniffMIME(image []byte) string {
	if bytes.HasPrefix(image, []byte("\x89PNG\r\n\x1a\n")) {
		return "image/png"
	}
	return "image/jpeg"
}

// readReply extracts the completion text from the API response body.
func (c *Client) readReply(body io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return "", domain.APIError("Failed to read response body", err)
	}

	var apiResp Response
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", domain.APIError("Failed to parse API response", err)
	}

	if len(apiResp.Choices) == 0 {
		return "", domain.APIError("No choices in API response", nil)
	}

	return apiResp.Choices[0].Message.Content, nil
}

// retryWithBackoff retries the request on transient failures (transport
// errors, 429, 5xx) with exponential backoff.
func (c *Client) retryWithBackoff(ctx context.Context, do func() (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := do()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status %d", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) endpoint() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return openRouterURL
}
