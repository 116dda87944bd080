package pathutil

import (
	"path"
	"strings"

	"github.com/arven/deckhand/util/stringutil"
)

const FILENAME_MAX_LENGTH = 240

// Only include invalid filename characters in Windows (NTFS).
var FilepathRestrictedCharacterReplacement = map[rune]rune{
	'*': '＊',
	':': '：',
	'<': '＜',
	'>': '＞',
	'|': '｜',
	'?': '？',
	'"': '＂',
}

var FilenameRestrictedCharacterReplacement = map[rune]rune{
	'/':  '／',
	'\\': '＼',
}

// Replace invalid Windows filename chars to alternatives. E.g. '/' => '／', '?' => '？'
var FilenameRestrictedCharacterReplacer *strings.Replacer

func init() {
	args := []string{}
	for old, new := range FilepathRestrictedCharacterReplacement {
		args = append(args, string(old), string(new))
	}
	for old, new := range FilenameRestrictedCharacterReplacement {
		args = append(args, string(old), string(new))
	}
	FilenameRestrictedCharacterReplacer = strings.NewReplacer(args...)
}

// Return a cleaned safe base filename component.
// 1. Replace invalid chars with alternatives (e.g. "?" => "？").
// 2. CleanTitle (clean \r, \n and other invisible chars then TrimSpace).
func CleanBasenameComponent(name string) string {
	name = FilenameRestrictedCharacterReplacer.Replace(name)
	name = stringutil.CleanTitle(name)
	return name
}

// Return a cleaned safe base filename (without path).
// 1. CleanBasenameComponent.
// 2. Clean trailing dot (".") (Windows does NOT allow dot in the end of filename)
// 3. TrimSpace
// 4. Truncate name to at most 240 (UTF-8 string) bytes.
func CleanBasename(name string) string {
	name = CleanBasenameComponent(name)
	for len(name) > 0 && name[len(name)-1] == '.' {
		name = name[:len(name)-1]
	}
	name = strings.TrimSpace(name)
	return stringutil.StringPrefixInBytes(name, FILENAME_MAX_LENGTH)
}

// Similar to CleanBasename, but treats name as a filename (base+ext) and tries to preserve ext.
// It also removes spaces between base and ext.
func CleanFileBasename(name string) string {
	name = CleanBasenameComponent(name)
	for len(name) > 0 && name[len(name)-1] == '.' {
		name = name[:len(name)-1]
	}
	name = strings.TrimSpace(name)
	ext := path.Ext(name)
	if len(ext) > 14 || strings.ContainsAny(ext, " ") {
		return stringutil.StringPrefixInBytes(name, FILENAME_MAX_LENGTH)
	}
	base := name[:len(name)-len(ext)]
	base = strings.TrimSpace(base)
	return stringutil.StringPrefixInBytes(base, FILENAME_MAX_LENGTH-len(ext)) + ext
}

// Slugify returns name lowercased with whitespace runs replaced by "_",
// suitable for theme-scoped directory and file names.
func Slugify(name string) string {
	name = CleanBasename(name)
	name = strings.ToLower(name)
	return strings.Join(strings.Fields(name), "_")
}
