package util

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 0))
	assert.Equal(t, 5, ParseInt(" 5 ", 0))
	assert.Equal(t, -3, ParseInt("-3", 0))
	assert.Equal(t, 7, ParseInt("", 7))
	assert.Equal(t, 7, ParseInt("all", 7))
	assert.Equal(t, 7, ParseInt("1.5", 7))
}

func TestUniqueSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueSlice([]string{"a", "b", "a", "c", "b"}))
	assert.Nil(t, UniqueSlice[string](nil))
	assert.NotNil(t, UniqueSlice([]string{}))
}

func TestFirstNonZeroArg(t *testing.T) {
	assert.Equal(t, "x", FirstNonZeroArg("", "x", "y"))
	assert.Equal(t, "", FirstNonZeroArg("", ""))
	assert.Equal(t, 3, FirstNonZeroArg(0, 3))
}

type temporaryError struct{ temp bool }

func (e *temporaryError) Error() string   { return "boom" }
func (e *temporaryError) Temporary() bool { return e.temp }

func TestIsTemporaryError(t *testing.T) {
	assert.True(t, IsTemporaryError(&temporaryError{temp: true}))
	assert.False(t, IsTemporaryError(&temporaryError{temp: false}))
	assert.False(t, IsTemporaryError(fmt.Errorf("plain")))
	assert.False(t, IsTemporaryError(nil))
	// wrapped errors are unwrapped
	assert.True(t, IsTemporaryError(fmt.Errorf("outer: %w", &temporaryError{temp: true})))
}

func TestCalculateBackoff(t *testing.T) {
	base := time.Second
	max := 10 * time.Second
	for attempt := 0; attempt < 8; attempt++ {
		backoff := CalculateBackoff(base, max, attempt)
		assert.GreaterOrEqual(t, backoff, base)
		// max plus 25% jitter headroom
		assert.LessOrEqual(t, backoff, max+max/4)
	}
	// attempt 0 stays close to base
	assert.Less(t, CalculateBackoff(base, max, 0), base+base/4+time.Millisecond)
}

func TestUnmarshal(t *testing.T) {
	type pair struct {
		Name  string `json:"name" yaml:"name" toml:"name"`
		Value int    `json:"value" yaml:"value" toml:"value"`
	}
	var p pair
	assert.NoError(t, Unmarshal("application/json", newReader(`{"name": "a", "value": 1}`), &p))
	assert.Equal(t, pair{"a", 1}, p)

	var p2 pair
	assert.NoError(t, Unmarshal("toml", newReader("name = \"b\"\nvalue = 2\n"), &p2))
	assert.Equal(t, pair{"b", 2}, p2)
}

func TestJsonRoundtrip(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ToJson(map[string]int{"a": 1}))

	got, err := UnmarshalJson[map[string]int]([]byte(`{"a":1}`))
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, got)

	_, err = UnmarshalJson[map[string]int]([]byte(`{`))
	assert.Error(t, err)
}

func TestGetMimeType(t *testing.T) {
	assert.Equal(t, "image/png", GetMimeType("out/01_v1.PNG"))
	assert.Equal(t, "image/jpeg", GetMimeType("01_v2.jpg"))
	assert.Equal(t, "", GetMimeType("noext"))
}
