// functions with side effect
package helper

import (
	"bytes"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/group/all"
	"github.com/gobwas/glob"
	"github.com/google/shlex"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/arven/deckhand/util"
)

// Additional template functions.
// Due to the pipeline way that Go template works, the last argument of funcs should be the primary one.
var additionalTemplateFuncs = map[string]any{
	"system": system,
}

// Similar to C library system function.
func system(cmdline any) int {
	args, err := shlex.Split(fmt.Sprintf("%v", cmdline))
	if err != nil || len(args) < 1 {
		return -1
	}
	cmd := exec.Command(args[0], args[1:]...)
	err = cmd.Run()
	if err != nil {
		switch e := err.(type) {
		case *exec.ExitError:
			return e.ExitCode()
		default:
			return -1
		}
	}
	return 0
}

// Recognize "*.txt" style glob, return parsed filenames.
func ParseFilenameArgs(args ...string) []string {
	names := []string{}
	for _, arg := range args {
		filenames := ParseGlobFilenames(arg)
		if filenames == nil {
			names = append(names, arg)
		} else {
			names = append(names, filenames...)
		}
	}
	return util.UniqueSlice(names)
}

// ParseGlobFilenames expands a shell-like glob pattern (e.g. "*.txt") into
// matching filenames on disk, sorted lexicographically. Returns nil if the
// pattern contains no glob metacharacter, an empty slice if nothing matches.
func ParseGlobFilenames(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || !strings.ContainsAny(pattern, "*?[{") {
		return nil
	}

	patSlash := filepath.ToSlash(pattern)
	g, err := glob.Compile(patSlash, '/')
	if err != nil {
		return nil
	}

	walkRoot := computeWalkRoot(pattern)
	matches := []string{}
	_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if g.Match(filepath.ToSlash(path)) {
			matches = append(matches, filepath.Clean(path))
		}
		return nil
	})
	sort.Strings(matches)
	return matches
}

func computeWalkRoot(pattern string) string {
	const metas = "*?[{"
	prefix := pattern
	for i := 0; i < len(pattern); i++ {
		if strings.ContainsRune(metas, rune(pattern[i])) {
			prefix = pattern[:i]
			break
		}
	}
	lastSep := strings.LastIndexAny(prefix, `/\`)
	if lastSep >= 0 {
		prefix = prefix[:lastSep+1]
	} else {
		prefix = ""
	}
	if prefix == "" {
		return "."
	}
	return filepath.Clean(prefix)
}

// Ask user to confirm an (dangerous) action via typing yes in tty
func AskYesNoConfirm(prompt string) bool {
	if prompt == "" {
		prompt = "Will do the action"
	}
	fmt.Fprintf(os.Stderr, "%s, are you sure? (yes/no): ", prompt)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, `Abort due to stdin is NOT tty. Use a proper flag (like "--force") to skip the prompt`+"\n")
		return false
	}
	for {
		input := ""
		fmt.Scanf("%s\n", &input)
		switch input {
		case "yes", "YES", "Yes":
			return true
		case "n", "N", "no", "NO", "No":
			return false
		default:
			if len(input) > 0 {
				fmt.Fprintf(os.Stderr, "Respond with yes or no (Or use Ctrl+C to abort): ")
			} else {
				return false
			}
		}
	}
}

// Return fullpath = join(dir,name), suitable for creating a new file in dir.
// If file already exists, append the proper numeric suffix to make sure fullpath does not exist.
func GetNewFilePath(dir string, name string) (fullpath string, err error) {
	if dir == "" && name == "" {
		return "", fmt.Errorf("empty dir & name")
	}
	fullpath = filepath.Join(dir, name)
	if exists, err := util.FileExists(fullpath); !exists || err != nil {
		return fullpath, err
	}
	i := 1
	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	for {
		fullpath = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, i, ext))
		if exists, err := util.FileExists(fullpath); !exists || err != nil {
			return fullpath, err
		}
		i++
	}
}

var handler *sprout.DefaultHandler

// sprout provided template funcs
var templateFuncs map[string]any

func init() {
	handler = sprout.New()
	handler.AddGroups(all.RegistryGroup())
	templateFuncs = handler.Build()
}

// Simple wrapper on Go text template.Template.
// Add JavaScript execution (eval) ability.
type Template struct {
	*template.Template
	jsvm *goja.Runtime
	mu   sync.Mutex
}

// Execute Go text template and return rendered string.
// It supports a special "eval" function.
// The result string is trim spaced.
func (t *Template) Exec(data any) (string, error) {
	var buf bytes.Buffer
	if t.jsvm != nil && data != nil {
		t.mu.Lock()
		// allow data sharing between Go text template runtime and JavaScript runtime
		if m, ok := data.(map[string]any); ok {
			data = maps.Clone(m)
		} else if m, ok := data.(map[string]string); ok {
			newdata := map[string]any{}
			for k, v := range m {
				newdata[k] = v
			}
			data = newdata
		}
		t.jsvm.Set("global", data)
		defer t.mu.Unlock()
	}
	if err := t.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Get a Go text template instance from tpl string.
// If tpl starts with "@" char, treat it (the rest part after @) as a file name
// and read template contents from it instead.
func GetTemplate(tpl string, strict bool) (*Template, error) {
	if strings.HasPrefix(tpl, "@") {
		contents, err := os.ReadFile(tpl[1:])
		if err != nil {
			return nil, err
		}
		tpl = string(contents)
	}
	templateInstance := template.New("template").Funcs(templateFuncs).Funcs(additionalTemplateFuncs)
	if strict {
		templateInstance = templateInstance.Option("missingkey=error")
	}
	t, err := templateInstance.Parse(tpl)
	var jsvm *goja.Runtime
	if err != nil && strings.Contains(err.Error(), ` function "eval" not defined`) {
		jsvm = goja.New()
		new(require.Registry).Enable(jsvm)
		console.Enable(jsvm)
		templateInstance.Funcs(template.FuncMap{
			"eval": func(input any) any {
				v, e := jsvm.RunString(fmt.Sprintf("%v", input))
				if e != nil {
					log.Printf("eval error: %v", e)
					return nil
				}
				return v.Export()
			},
		})
		t, err = templateInstance.Parse(tpl)
	}
	if err != nil {
		return nil, err
	}
	return &Template{Template: t, jsvm: jsvm}, nil
}
