package llm

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/arven/deckhand/util"
)

const (
	OPENROUTER_API_URL             = "https://openrouter.ai/api/v1"
	OPENROUTER_MODEL_PREFIX        = "openrouter/" // OpenRouter model prefix
	OPENAI_MODEL_PREFIX            = "gpt-"        // OpenAI model prefix, ignore some uncommon ones like "o3".
	GEMINI_MODEL_PREFIX            = "gemini-"     // Gemini model prefix
	OPENAI_COMPATIBLE_MODEL_PREFIX = "openai/"     // Customary OpenAI API compatible model prefix
)

// error returned by online llm service provider
type ApiError struct {
	Message   string
	Body      string
	Status    int   // http status code
	Err       error // wrapped error
	Retryable bool  // business logic defined retryable
}

func (a *ApiError) Error() string {
	return fmt.Sprintf("status=%d: %s", a.Status, a.Message)
}

func (a *ApiError) Temporary() bool {
	return a.Retryable || a.Status == http.StatusTooManyRequests ||
		a.Status == http.StatusInternalServerError ||
		a.Status == http.StatusBadGateway ||
		a.Status == http.StatusServiceUnavailable ||
		a.Status == http.StatusGatewayTimeout ||
		(a.Err != nil && util.IsTemporaryError(a.Err))
}

func (a *ApiError) Unwrap() error {
	return a.Err
}

// endpoint is a resolved chat target: an OpenAI compatible base url (Gemini
// models resolve to their own native API path instead, gemini=true).
type endpoint struct {
	baseUrl string
	model   string
	gemini  bool
}

// resolveModel maps a user-facing model name to an API endpoint:
// "gemini-*" => Gemini native API; "gpt-*" / known OpenAI ids => OpenAI;
// "openrouter/<id>" => OpenRouter; "openai/<name>/<url>" => custom endpoint.
func resolveModel(model string) (endpoint, error) {
	if strings.HasPrefix(model, GEMINI_MODEL_PREFIX) {
		return endpoint{model: model, gemini: true}, nil
	}
	if isOpenAiModel(model) {
		return endpoint{baseUrl: OPENAI_API_URL, model: model}, nil
	}
	if openrouterModel, ok := strings.CutPrefix(model, OPENROUTER_MODEL_PREFIX); ok {
		if !strings.ContainsRune(openrouterModel, '/') {
			openrouterModel = OPENROUTER_MODEL_PREFIX + openrouterModel
		}
		return endpoint{baseUrl: OPENROUTER_API_URL, model: openrouterModel}, nil
	}
	if strings.HasPrefix(model, OPENAI_COMPATIBLE_MODEL_PREFIX) { // "openai/model-name/http://localhost:8080/v1"
		parts := strings.SplitN(model, "/", 3)
		if len(parts) == 3 {
			return endpoint{baseUrl: parts[2], model: parts[1]}, nil
		}
		return endpoint{}, fmt.Errorf("invalid openai model %s", model)
	}
	return endpoint{}, fmt.Errorf("unsupported model %s", model)
}

// Chat sends a one-shot text prompt to model and returns the response text.
func Chat(apiKey string, model string, prompt string, temperature float64) (string, error) {
	ep, err := resolveModel(model)
	if err != nil {
		return "", err
	}
	if ep.gemini {
		return GeminiChat(apiKey, ep.model, prompt, temperature)
	}
	return OpenAIChat(ep.baseUrl, apiKey, ep.model, prompt, temperature)
}

// ChatJsonResponse sends a one-shot prompt and enforces a JSON response
// conforming to the schema of struct type T.
func ChatJsonResponse[T any](apiKey string, model string, prompt string) (*T, error) {
	ep, err := resolveModel(model)
	if err != nil {
		return nil, err
	}
	if ep.gemini {
		return GeminiJsonResponse[T](apiKey, ep.model, prompt)
	}
	return OpenAIJsonResponse[T](ep.baseUrl, apiKey, ep.model, prompt)
}

// From https://platform.openai.com/docs/pricing
var openaiModels = []string{
	"codex-mini-latest",
	"computer-use-preview",
	"o1",
	"o3",
}
var openaiModelPrefixes = []string{
	"o1-",
	"o3-",
	"o4-",
}

func isOpenAiModel(model string) bool {
	return strings.HasPrefix(model, OPENAI_MODEL_PREFIX) || slices.Contains(openaiModels, model) ||
		slices.ContainsFunc(openaiModelPrefixes, func(prefix string) bool { return strings.HasPrefix(model, prefix) })
}

// WithRetry runs call up to maxTries times, sleeping the capped exponential
// backoff between attempts, but only while the error reports Temporary().
func WithRetry[T any](maxTries int, base, max time.Duration, call func() (T, error)) (result T, err error) {
	for attempt := 0; attempt < maxTries; attempt++ {
		result, err = call()
		if err == nil || !util.IsTemporaryError(err) {
			return result, err
		}
		if attempt < maxTries-1 {
			time.Sleep(util.CalculateBackoff(base, max, attempt))
		}
	}
	return result, err
}
