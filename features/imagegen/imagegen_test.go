package imagegen

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arven/deckhand/features/llm"
)

func withFakeOpenAI(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	old := openaiImagesApiUrl
	openaiImagesApiUrl = server.URL + "/v1/images/generations"
	t.Cleanup(func() { openaiImagesApiUrl = old })
}

func TestGenerateOpenAI(t *testing.T) {
	payload := []byte("fake-png-bytes")
	withFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var reqBody openaiImageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-image-1", reqBody.Model)
		assert.Equal(t, DEFAULT_IMAGE_SIZE, reqBody.Size)
		assert.Equal(t, 1, reqBody.N)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(payload)}},
		})
	})

	data, mimeType, err := Generate("test-key", "gpt-image-1", "a garden gate")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", mimeType)
}

func TestGenerateOpenAIUrlFallback(t *testing.T) {
	payload := []byte("fake-jpeg-bytes")
	download := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer download.Close()

	withFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": download.URL + "/img.jpg"}},
		})
	})

	data, mimeType, err := Generate("test-key", "gpt-image-1", "a garden gate")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/jpeg", mimeType)
}

func TestGenerateOpenAIError(t *testing.T) {
	withFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := Generate("test-key", "gpt-image-1", "a garden gate")
	var apiErr *llm.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Temporary())
}

func TestGenerateGemini(t *testing.T) {
	payload := []byte("fake-png-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-2.5-flash-image:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		json.NewEncoder(w).Encode(&llm.GeminiResponse{
			Candidates: []llm.Candidate{
				{Content: llm.Content{Parts: []llm.Part{
					{Text: "here is your image"},
					{InlineData: &llm.InlineData{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(payload)}},
				}}},
			},
		})
	}))
	defer server.Close()
	old := geminiApiUrl
	geminiApiUrl = server.URL + "/"
	t.Cleanup(func() { geminiApiUrl = old })

	data, mimeType, err := Generate("test-key", "gemini-2.5-flash-image", "a garden gate")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", mimeType)
}

func TestHasApiKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	assert.False(t, HasApiKey("", "gpt-image-1"))
	assert.False(t, HasApiKey("", "gemini-2.5-flash-image"))
	assert.True(t, HasApiKey("flag-key", "gpt-image-1"))

	t.Setenv("OPENAI_API_KEY", "k")
	assert.True(t, HasApiKey("", "gpt-image-1"))
	assert.False(t, HasApiKey("", "gemini-2.5-flash-image"))

	t.Setenv("GEMINI_API_KEY", "k")
	assert.True(t, HasApiKey("", "gemini-2.5-flash-image"))
}
