// Package imagegen renders images from text prompts via the OpenAI images
// API ("gpt-image-1", "dall-e-*") or a Gemini image model ("gemini-*").
package imagegen

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/features/llm"
)

const (
	OPENAI_IMAGES_API_URL = "https://api.openai.com/v1/images/generations"

	// Portrait size supported by gpt-image-1, close to the 9:16 slide target
	DEFAULT_IMAGE_SIZE = "1024x1536"

	ImageApiBaseBackoff = 5 * time.Second
	ImageApiMaxBackoff  = 60 * time.Second
)

// vars, not consts, so tests can point the clients at a fake server.
var (
	openaiImagesApiUrl = OPENAI_IMAGES_API_URL
	geminiApiUrl       = llm.GEMINI_API_URL
)

// Generate renders one image for prompt with the given model and returns the
// raw payload plus its mime type. Model dispatch follows the llm package
// conventions: "gemini-*" uses the Gemini API, anything else the OpenAI
// images API.
func Generate(apiKey string, model string, prompt string) (data []byte, mimeType string, err error) {
	if strings.HasPrefix(model, llm.GEMINI_MODEL_PREFIX) {
		return geminiGenerate(apiKey, model, prompt)
	}
	return openaiGenerate(apiKey, model, prompt)
}

type openaiImageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
}

type openaiImageResponse struct {
	Data []struct {
		B64Json string `json:"b64_json,omitempty"`
		Url     string `json:"url,omitempty"`
	} `json:"data"`
	Error *llm.OpenAIError `json:"error,omitempty"`
}

func openaiGenerate(apiKey string, model string, prompt string) ([]byte, string, error) {
	apiKey, err := llm.ResolveApiKey(llm.OPENAI_API_URL, apiKey)
	if err != nil {
		return nil, "", err
	}
	reqBody := &openaiImageRequest{
		Model:   model,
		Prompt:  prompt,
		N:       1,
		Size:    DEFAULT_IMAGE_SIZE,
		Quality: "high",
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", openaiImagesApiUrl, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, "", &llm.ApiError{
			Status:    resp.StatusCode,
			Body:      string(bodyBytes),
			Message:   fmt.Sprintf("images API returned status %d", resp.StatusCode),
			Retryable: resp.StatusCode == 429 || resp.StatusCode >= 500,
		}
	}

	var apiResp openaiImageResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, "", &llm.ApiError{Message: "failed to decode response", Err: err, Retryable: true}
	}
	if apiResp.Error != nil {
		return nil, "", &llm.ApiError{Message: fmt.Sprintf("api error: %s", apiResp.Error.Message), Body: string(bodyBytes)}
	}
	if len(apiResp.Data) == 0 {
		return nil, "", &llm.ApiError{Message: "no image returned by API", Retryable: true}
	}
	if apiResp.Data[0].B64Json != "" {
		data, err := base64.StdEncoding.DecodeString(apiResp.Data[0].B64Json)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode image data: %w", err)
		}
		return data, "image/png", nil
	}
	if apiResp.Data[0].Url != "" {
		return fetchImage(apiResp.Data[0].Url)
	}
	return nil, "", &llm.ApiError{Message: "image response has neither b64_json nor url"}
}

// Some image endpoints return a short-lived download url instead of inline data.
func fetchImage(url string) ([]byte, string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, "", &llm.ApiError{
			Status:    resp.StatusCode,
			Message:   fmt.Sprintf("image download returned status %d", resp.StatusCode),
			Retryable: resp.StatusCode == 429 || resp.StatusCode >= 500,
		}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}
	return data, mimeType, nil
}

func geminiGenerate(apiKey string, model string, prompt string) ([]byte, string, error) {
	if apiKey == "" {
		apiKey = os.Getenv(constants.ENV_GEMINI_API_KEY)
		if apiKey == "" {
			return nil, "", fmt.Errorf("Gemini api key or %s env not set", constants.ENV_GEMINI_API_KEY)
		}
	}
	reqBody := &llm.GeminiRequest{
		Contents: []llm.Content{{Role: "user", Parts: []llm.Part{{Text: prompt}}}},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s%s:generateContent?key=%s", geminiApiUrl, model, apiKey)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", &llm.ApiError{
			Status:    resp.StatusCode,
			Body:      string(bodyBytes),
			Message:   fmt.Sprintf("Gemini API returned status %d", resp.StatusCode),
			Retryable: resp.StatusCode == 429 || resp.StatusCode >= 500,
		}
	}

	var apiResp llm.GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, "", &llm.ApiError{Message: "failed to decode response", Err: err, Retryable: true}
	}
	if len(apiResp.Candidates) == 0 {
		return nil, "", &llm.ApiError{Message: "no candidates returned by Gemini", Retryable: true}
	}
	for _, part := range apiResp.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("failed to decode image data: %w", err)
			}
			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return data, mimeType, nil
		}
	}
	return nil, "", &llm.ApiError{Message: "no image data returned by Gemini"}
}

// HasApiKey reports whether an API key for model is available via the flag
// value or env. Callers without one fall back to placeholder rendering.
func HasApiKey(apiKey string, model string) bool {
	if apiKey != "" {
		return true
	}
	if strings.HasPrefix(model, llm.GEMINI_MODEL_PREFIX) {
		return os.Getenv(constants.ENV_GEMINI_API_KEY) != ""
	}
	key, err := llm.ResolveApiKey(llm.OPENAI_API_URL, "")
	return err == nil && key != ""
}
