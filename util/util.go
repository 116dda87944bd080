package util

import (
	"cmp"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"mime"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func ToJson(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("ToJson error: %v", err)
		return ""
	}
	return string(b)
}

// Unmarshal source as json of type T
func UnmarshalJson[T any](source []byte) (T, error) {
	var target T
	if err := json.Unmarshal(source, &target); err != nil {
		return target, err
	}
	return target, nil
}

// Check whether a file (or dir) with name exists in file system.
// If it encounter an file system access error, return false,err
func FileExists(name string) (bool, error) {
	_, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// ParseInt parses s as a decimal integer, returning defaultValue
// if s is empty or not a valid number.
func ParseInt(s string, defaultValue int) int {
	if s != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i
		}
	}
	return defaultValue
}

// Return filtered ss. The ret is nil if and only if ss is nil.
func FilterSlice[T any](ss []T, test func(T) bool) (ret []T) {
	if ss != nil {
		ret = []T{}
	}
	for _, s := range ss {
		if test(s) {
			ret = append(ret, s)
		}
	}
	return
}

// Map applies a function to each element of a slice and returns a new slice containing the results.
// If input is nil, the output will also be nil.
func Map[T1 any, T2 any](ss []T1, mapper func(T1) T2) (ret []T2) {
	for _, s := range ss {
		ret = append(ret, mapper(s))
	}
	return
}

// Keys returns a sorted slice of all keys in the map.
func Keys[T1 cmp.Ordered, T2 any](m map[T1]T2) []T1 {
	keys := make([]T1, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// UniqueSlice returns ss with duplicates removed, first occurrence wins,
// original order preserved. The ret is nil if and only if ss is nil.
func UniqueSlice[T comparable](ss []T) (ret []T) {
	if ss != nil {
		ret = make([]T, 0, len(ss))
	}
	seen := make(map[T]struct{}, len(ss))
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		ret = append(ret, s)
	}
	return
}

// FirstNonZeroArg returns the first arg that is not the zero value of T.
func FirstNonZeroArg[T comparable](args ...T) T {
	var zero T
	for _, arg := range args {
		if arg != zero {
			return arg
		}
	}
	return zero
}

// Return the mime type of a file judged by it's filename extension,
// e.g. "image/png". Empty if unknown.
func GetMimeType(filename string) string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
}

// Parse http content-type header and return mediatype, e.g. "text/html".
func MediaType(contentType string) string {
	if contentType != "" {
		if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
			return mediatype
		}
	}
	return ""
}

// Unmarshal a json / yaml / toml string according to contentType.
// contentType could be: a mediatype (e.g. "application/json"), or a file type
// or extension (e.g. "toml" or ".toml").
func Unmarshal(contentType string, input io.Reader, target any) error {
	if strings.ContainsRune(contentType, '/') {
		contentType = MediaType(contentType)
	}
	body, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	switch contentType {
	case "application/json", "text/json", "json", ".json":
		return json.Unmarshal(body, target)
	case "application/yaml", "text/yaml", "yaml", ".yaml", "yml", ".yml":
		return yaml.Unmarshal(body, target)
	case "application/toml", "text/toml", "toml", ".toml":
		return toml.Unmarshal(body, target)
	}
	return fmt.Errorf("Unmarshal: unsupported contentType %s", contentType)
}

// IsTemporaryError reports whether err looks transient: either it implements
// Temporary() (like llm.ApiError does), or it's a network timeout / reset.
func IsTemporaryError(err error) bool {
	if err == nil {
		return false
	}
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}

// CalculateBackoff returns the wait duration before retry number attempt
// (0-based): base * 2^attempt capped at max, plus up to 25% random jitter.
func CalculateBackoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			backoff = max
			break
		}
	}
	if backoff > max {
		backoff = max
	}
	jitter := time.Duration(RandInt(0, int64(backoff)/4))
	return backoff + jitter
}

// Return cryptographically secure random int64 of [min, max] range.
func RandInt(min, max int64) int64 {
	if max <= min {
		return min
	}
	upperBound := big.NewInt(max - min + 1)
	i, err := rand.Int(rand.Reader, upperBound)
	if err != nil {
		panic(err)
	}
	return min + i.Int64()
}
