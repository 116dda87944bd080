package constants

const (
	// Env variable names

	ENV_GEMINI_API_KEY     = "GEMINI_API_KEY"
	ENV_OPENAI_API_KEY     = "OPENAI_API_KEY"
	ENV_OPENROUTER_API_KEY = "OPENROUTER_API_KEY"
	ENV_MODEL_KEY          = "DECKHAND_MODEL_KEY" // customary OpenAI API compatible model key
	ENV_MODEL              = "DECKHAND_MODEL"
	ENV_IMAGE_MODEL        = "DECKHAND_IMAGE_MODEL"
	ENV_DRIVE_FOLDER       = "DECKHAND_DRIVE_FOLDER"

	// Dotenv file loaded at startup if present in cwd
	ENV_FILE = "config.env"

	// Optional profile file with defaults for flags
	PROFILE_FILE = "deckhand.toml"

	// Default LLM model for slide copy
	DEFAULT_MODEL = "gpt-4o-mini"

	// Default image generation model
	DEFAULT_IMAGE_MODEL = "gpt-image-1"

	// Default files of batch mode
	DEFAULT_THEMES_FILE = "themes.txt"
	DEFAULT_LEDGER_FILE = "completed_themes.txt"
	DEFAULT_OUTPUT_DIR  = "output"

	MIME_PNG  = "image/png"
	MIME_CSV  = "text/csv"
	MIME_JPEG = "image/jpeg"
)

// Slide series format conventions. A standard series is a title card plus one
// slide per month; a theme that mentions classes gets one extra slide for the
// class schedule.
const (
	// Block delimiter between slides in the LLM markdown response
	SLIDE_DELIMITER = "---"

	// Marker line that precedes the on-slide caption text in each block
	SLIDE_TEXT_MARKER = "The slide should have this exact text"

	// Prefix of the image prompt line in each block
	SLIDE_VISUAL_PREFIX = "visual:"

	DEFAULT_SLIDE_COUNT = 13
	CLASS_SLIDE_COUNT   = 14

	// Themes matching this pattern (case-insensitive word match) use
	// CLASS_SLIDE_COUNT instead of DEFAULT_SLIDE_COUNT.
	CLASS_KEYWORD_PATTERN = `(?i)\bclass(es)?\b`

	// Max image versions rendered per slide
	MAX_IMAGE_VERSIONS = 2
)

const HELP_MODEL = `LLM model. It supports Gemini, OpenAI, OpenRouter, or any OpenAI API compatible model. ` +
	`Gemini model: e.g. "gemini-2.5-flash-lite", "gemini-2.5-flash", "gemini-2.5-pro". ` +
	`OpenAI model: e.g. "gpt-4o-mini", "gpt-5-mini", "gpt-5.1". ` +
	`OpenRouter model: "openrouter/<model-id>"; e.g. "openrouter/auto". ` +
	`Any OpenAI API compatible model: "openai/<model-name>/<api-url>"; ` +
	`e.g. "openai/gpt-oss-120b/http://localhost:8080/v1". ` +
	`If not set, it uses ` + ENV_MODEL + ` env, then fallbacks to "` + DEFAULT_MODEL + `" by default`

const HELP_MODEL_KEY = `API key for the LLM model. If not set, it reads from env variable: ` +
	`For Gemini model, it's ` + ENV_GEMINI_API_KEY + ` env; ` +
	`For OpenAI model, it's ` + ENV_OPENAI_API_KEY + ` env; ` +
	`For OpenRouter model, it's ` + ENV_OPENROUTER_API_KEY + ` env; ` +
	`For customary OpenAI API compatible model, it's ` + ENV_MODEL_KEY + ` env`

const HELP_IMAGE_MODEL = `Image generation model. "gpt-image-1" (OpenAI) or a "gemini-*" image model. ` +
	`If not set, it uses ` + ENV_IMAGE_MODEL + ` env, then fallbacks to "` + DEFAULT_IMAGE_MODEL + `". ` +
	`Without an API key, solid placeholder images are generated instead`

const HELP_TEMPLATE_FLAG = `The Go text template string. If the value starts with "@", ` +
	`it (the rest part after @) is treated as a filename, ` +
	`which contents will be used as template. ` +
	`All sprout functions are supported, see https://github.com/go-sprout/sprout`

const HELP_TEMPERATURE_FLAG = `The temperature to use for the model. Range 0.0-2.0 (some model capped at max 1.0). ` +
	`Lower is deterministic; Higher is creative`

const HELP_LANGS = `"en", "ja", "fr", "de", "es", "pt", "ko", "ru", "ar", "zh-tw", "zh", "zh-cn", "cht", "chs"`
