package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Zhima-Mochi/tshirt-agent/internal/domain/design"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"

	imageModel    = "dall-e-3"
	imageSize     = "1024x1024"
	imageQuality  = "standard"
	previewLength = 100
	maxImageBytes = 20 << 20
)

var ErrNoImage = errors.New("openai: response contained no image")

// Client generates t-shirt artwork with the OpenAI Images API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

var _ design.Generator = (*Client)(nil)

func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type generateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate asks for one image, then downloads it to build the stored preview.
func (c *Client) Generate(ctx context.Context, req design.Request) (*design.Result, error) {
	body, err := json.Marshal(generateRequest{
		Model:   imageModel,
		Prompt:  design.Prompt(req),
		Size:    imageSize,
		Quality: imageQuality,
		N:       1,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("openai: images: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return nil, ErrNoImage
	}
	url := out.Data[0].URL

	preview, err := c.preview(ctx, url)
	if err != nil {
		return nil, err
	}

	return &design.Result{URL: url, ImagePreview: preview}, nil
}

func (c *Client) preview(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("openai: build image request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("openai: download image: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("openai: read image: %w", err)
	}
	return Truncate(base64.StdEncoding.EncodeToString(raw)), nil
}

// Truncate keeps the first 100 characters of an encoded image and marks the cut.
func Truncate(encoded string) string {
	if len(encoded) <= previewLength {
		return encoded + "..."
	}
	return encoded[:previewLength] + "..."
}
