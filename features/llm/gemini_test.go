package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFakeGemini(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	old := geminiApiUrl
	geminiApiUrl = server.URL + "/"
	t.Cleanup(func() { geminiApiUrl = old })
}

func geminiTextResponse(text string) *GeminiResponse {
	return &GeminiResponse{
		Candidates: []Candidate{
			{Content: Content{Parts: []Part{{Text: text}}}},
		},
	}
}

func TestGeminiChat(t *testing.T) {
	withFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var reqBody GeminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		require.Len(t, reqBody.Contents, 1)
		assert.Equal(t, "hello", reqBody.Contents[0].Parts[0].Text)

		json.NewEncoder(w).Encode(geminiTextResponse(" hi \n"))
	})

	text, err := GeminiChat("test-key", "gemini-2.5-flash", "hello", 1.0)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestGeminiChatNoApiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := GeminiChat("", "gemini-2.5-flash", "hello", 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestGeminiChatHttpError(t *testing.T) {
	withFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := GeminiChat("test-key", "gemini-2.5-flash", "hello", 1.0)
	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.True(t, apiErr.Temporary())
}

func TestGeminiChatBlocked(t *testing.T) {
	withFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&GeminiResponse{
			PromptFeedback: PromptFeedback{BlockReason: "SAFETY"},
		})
	})

	_, err := GeminiChat("test-key", "gemini-2.5-flash", "hello", 1.0)
	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "SAFETY")
	assert.False(t, apiErr.Temporary())
}

func TestGeminiJsonResponse(t *testing.T) {
	type themeList struct {
		Themes []string `json:"themes"`
	}
	withFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		var reqBody GeminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		require.NotNil(t, reqBody.GenerationConfig)
		assert.Equal(t, "application/json", reqBody.GenerationConfig.ResponseMimeType)

		json.NewEncoder(w).Encode(geminiTextResponse(`{"themes": ["a"]}`))
	})

	result, err := GeminiJsonResponse[themeList]("test-key", "gemini-2.5-flash", "suggest")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Themes)
}
