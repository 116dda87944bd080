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

func openaiTextResponse(text string) *OpenAIResponse {
	return &OpenAIResponse{
		Choices: []OpenAIChoice{
			{Message: OpenAIMessage{Role: "assistant", Content: text}},
		},
	}
}

func TestOpenAIChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var reqBody OpenAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "test-model", reqBody.Model)
		require.Len(t, reqBody.Messages, 1)
		assert.Equal(t, "hello", reqBody.Messages[0].Content)

		json.NewEncoder(w).Encode(openaiTextResponse("  hi there \n"))
	}))
	defer server.Close()

	text, err := OpenAIChat(server.URL+"/v1", "test-key", "test-model", "hello", 1.0)
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestOpenAIChatHttpError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	_, err := OpenAIChat(server.URL, "test-key", "test-model", "hello", 1.0)
	require.Error(t, err)
	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.True(t, apiErr.Temporary())
}

func TestOpenAIChatBodyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"message": "invalid model"}}`))
	}))
	defer server.Close()

	_, err := OpenAIChat(server.URL, "test-key", "test-model", "hello", 1.0)
	require.Error(t, err)
	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "invalid model")
	assert.False(t, apiErr.Temporary())
}

func TestOpenAIJsonResponse(t *testing.T) {
	type themeList struct {
		Themes []string `json:"themes"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody OpenAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		require.NotNil(t, reqBody.ResponseFormat)
		assert.Equal(t, "json_schema", reqBody.ResponseFormat.Type)

		json.NewEncoder(w).Encode(openaiTextResponse(`{"themes": ["a", "b"]}`))
	}))
	defer server.Close()

	result, err := OpenAIJsonResponse[themeList](server.URL, "test-key", "test-model", "suggest")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.Themes)
}

func TestResolveApiKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	key, err := ResolveApiKey(OPENAI_API_URL, "")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	key, err = ResolveApiKey(OPENAI_API_URL, "flag-key")
	require.NoError(t, err)
	assert.Equal(t, "flag-key", key)

	t.Setenv("OPENAI_API_KEY", "")
	_, err = ResolveApiKey(OPENAI_API_URL, "")
	assert.Error(t, err)
}
