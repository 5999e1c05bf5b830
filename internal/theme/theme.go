package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrThemeNotFound is returned alongside the default theme when the
// requested theme exists neither in the user directory nor bundled.
var ErrThemeNotFound = errors.New("theme not found")

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved stylesheet.
type Theme struct {
	Name    string    // Theme name (without .css extension)
	Path    string    // File on disk, empty for bundled themes
	CSS     string    // Content with imports inlined
	ModTime time.Time // Last modification time of Path
}

// Bundled reports whether the theme came from the embedded set.
func (t *Theme) Bundled() bool {
	return t.Path == ""
}

// NewTheme loads a theme from a CSS file, inlining its imports.
func NewTheme(name, path string) (*Theme, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat theme: %w", err)
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// newBundledTheme returns the embedded theme with imports inlined.
func newBundledTheme(name string) (*Theme, bool) {
	css, found := GetEmbeddedTheme(name)
	if !found {
		return nil, false
	}
	return &Theme{
		Name: name,
		CSS:  ProcessImports(css, "", nil),
	}, true
}

// Resolve finds a theme by name. A file in userDir wins over a bundled
// theme of the same name. When neither exists the default theme is
// returned together with an error wrapping ErrThemeNotFound.
func Resolve(name, userDir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	var userErr error
	if userDir != "" {
		path := filepath.Join(userDir, name+".css")
		if _, err := os.Stat(path); err == nil {
			t, err := NewTheme(name, path)
			if err == nil {
				return t, nil
			}
			userErr = err
		}
	}

	if t, found := newBundledTheme(name); found {
		return t, userErr
	}

	t, _ := newBundledTheme(DefaultThemeName)
	if userErr != nil {
		return t, userErr
	}
	return t, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, falling back to embedded
// partials and themes. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		importedCSS, err := os.ReadFile(fullPath)
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embedded, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embedded
				}
			}
			if embedded, found := GetEmbeddedTheme(strings.TrimSuffix(baseName, ".css")); found {
				return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embedded, "", seen)
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processed := ProcessImports(string(importedCSS), filepath.Dir(fullPath), seen)
		return "/* imported: " + importPath + " */\n" + processed
	})
}

// Reload re-reads a file-backed theme. It reports whether the CSS changed.
func (t *Theme) Reload() (bool, error) {
	if t.Bundled() {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	oldCSS := t.CSS
	t.CSS = ProcessImports(string(css), filepath.Dir(t.Path), nil)
	t.ModTime = info.ModTime()

	return oldCSS != t.CSS, nil
}

// ThemeInfo describes an available theme.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// ListAvailableThemes lists bundled themes followed by user themes in
// userDir that do not shadow a bundled name.
func ListAvailableThemes(userDir string) ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		seen[name] = true
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if userDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(userDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" || strings.HasPrefix(name, "_") {
			continue
		}
		themeName := strings.TrimSuffix(name, ".css")
		if seen[themeName] {
			continue
		}
		seen[themeName] = true
		themes = append(themes, ThemeInfo{
			Name: themeName,
			Path: filepath.Join(userDir, name),
		})
	}

	return themes, nil
}
