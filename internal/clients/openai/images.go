package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/httpx"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/utils"
)

// ImageClient is the image-synthesis collaborator: a text prompt in, one
// generated image's bytes out. Used as the fallback cover when an upload
// carries no art.
type ImageClient interface {
	GenerateCoverArt(ctx context.Context, prompt string) ([]byte, error)
}

type imageClient struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	size       string
}

func NewImageClient(log *logger.Logger) (ImageClient, error) {
	clientLog := log.With("client", "OpenAIImages")
	apiKey := utils.GetEnv("OPENAI_API_KEY", "", clientLog)
	if apiKey == "" {
		return nil, fmt.Errorf("missing env var OPENAI_API_KEY")
	}
	return &imageClient{
		log:        clientLog,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", clientLog),
		apiKey:     apiKey,
		model:      utils.GetEnv("OPENAI_IMAGE_MODEL", "dall-e-3", clientLog),
		size:       utils.GetEnv("OPENAI_IMAGE_SIZE", "1024x1024", clientLog),
	}, nil
}

type imagesGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imagesGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (ic *imageClient) GenerateCoverArt(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: image prompt required", apperrors.ErrInvalidArgument)
	}

	reqBody := imagesGenerationRequest{
		Model:          ic.model,
		Prompt:         coverPrompt(prompt),
		N:              1,
		Size:           ic.size,
		ResponseFormat: "b64_json",
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	resp, err := ic.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed imagesGenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode image response: %v", apperrors.ErrExternalService, err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: no image returned", apperrors.ErrExternalService)
	}
	raw, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("%w: decode image base64: %v", apperrors.ErrExternalService, err)
	}
	return raw, nil
}

// post issues the generation request, retrying once on rate limits and
// server-side failures.
func (ic *imageClient) post(ctx context.Context, payload []byte) (*http.Response, error) {
	const attempts = 2
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ic.baseURL+"/v1/images/generations", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+ic.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := ic.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: image generation request: %v", apperrors.ErrExternalService, err)
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		lastErr = fmt.Errorf("%w: image generation status %d: %s", apperrors.ErrExternalService, resp.StatusCode, strings.TrimSpace(string(body)))
		if !httpx.IsRetryableStatus(resp.StatusCode) {
			return nil, lastErr
		}
		if attempt < attempts-1 {
			wait := httpx.JitterSleep(httpx.RetryAfterDuration(resp, 2*time.Second, 30*time.Second))
			ic.log.Warn("retrying image generation", "status", resp.StatusCode, "wait", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return nil, lastErr
}

func coverPrompt(text string) string {
	return fmt.Sprintf("A visually stunning album cover for a music track titled %q. High quality, colorful, abstract or thematic background related to the song's tone.", text)
}
