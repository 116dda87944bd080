package translation

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"

	"github.com/arven/deckhand/util"
	"github.com/arven/deckhand/util/stringutil"
)

// We only support some popular languages.
var LanguageTags = map[string]language.Tag{
	"en":    language.English,
	"ja":    language.Japanese,
	"fr":    language.French,
	"de":    language.German,
	"es":    language.Spanish,
	"pt":    language.Portuguese,
	"ko":    language.Korean,
	"ru":    language.Russian,
	"ar":    language.Arabic,
	"zh-tw": language.TraditionalChinese,
	"zh":    language.SimplifiedChinese,
	"zh-cn": language.SimplifiedChinese,
	"cht":   language.TraditionalChinese,
	"chs":   language.SimplifiedChinese,
}

var Languages = util.Keys(LanguageTags)

// Translate input to targetLang with the input language auto guessed.
func Trans(ctx context.Context, client *translate.Client, input string,
	targetLang language.Tag) (string, error) {
	texts, err := TransBatch(ctx, client, []string{input}, targetLang)
	if err != nil {
		return "", err
	}
	return texts[0], nil
}

// TransBatch translates inputs to targetLang in one request.
// The outputs are single-line (newlines replaced with spaces).
func TransBatch(ctx context.Context, client *translate.Client, inputs []string,
	targetLang language.Tag) ([]string, error) {
	options := &translate.Options{
		Format: translate.Text,
		Model:  "nmt",
	}
	resp, err := client.Translate(ctx, inputs, targetLang, options)
	if err != nil {
		return nil, fmt.Errorf("failed to translate: %w", err)
	}
	if len(resp) != len(inputs) {
		return nil, fmt.Errorf("invalid translation response")
	}
	translated := make([]string, len(inputs))
	for i, r := range resp {
		translated[i] = strings.TrimSpace(stringutil.ReplaceNewLinesWithSpace(r.Text))
	}
	return translated, nil
}

// CaptionTranslator resolves lang and returns a batch translation func bound
// to it, backed by a Google Cloud Translate client.
func CaptionTranslator(ctx context.Context, lang string) (func(context.Context, []string) ([]string, error), error) {
	tag, ok := LanguageTags[strings.ToLower(lang)]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q, supported: %v", lang, Languages)
	}
	client, err := translate.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	return func(ctx context.Context, texts []string) ([]string, error) {
		return TransBatch(ctx, client, texts, tag)
	}, nil
}
