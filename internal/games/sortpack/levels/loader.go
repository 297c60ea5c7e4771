// Package levels provides level loading for SortPack.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
	"github.com/vovakirdan/sortpack/internal/games/sortpack/levels/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrNoLevels is returned when a directory holds no loadable level.
var ErrNoLevels = errors.New("levels: no levels found")

// Entry is one scanned level file.
type Entry struct {
	Path  string
	Level *core.Level
	Err   error
}

// Loader handles loading levels from a directory tree.
type Loader struct {
	Root string
	fsys fs.FS
}

// NewLoader creates a loader for a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root)}
}

// Builtin returns a loader over the levels compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("levels: builtin fs: %v", err))
	}
	return &Loader{Root: "builtin", fsys: sub}
}

// Scan parses every level file under the root, including the ones that
// fail to parse. Entries are sorted by level number, then path.
func (l *Loader) Scan() ([]Entry, error) {
	var entries []Entry

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}
		lvl, err := l.load(p)
		entries = append(entries, Entry{Path: p, Level: lvl, Err: err})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", l.Root, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ni, nj := entryNumber(entries[i]), entryNumber(entries[j])
		if ni != nj {
			return ni < nj
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// LoadAll loads every parseable level, sorted by number. Files that fail to
// parse are skipped.
func (l *Loader) LoadAll() ([]*core.Level, error) {
	entries, err := l.Scan()
	if err != nil {
		return nil, err
	}

	var out []*core.Level
	for _, e := range entries {
		if e.Err != nil {
			continue
		}
		out = append(out, e.Level)
	}
	return out, nil
}

// LoadByNumber returns the level with the given number.
func (l *Loader) LoadByNumber(n int) (*core.Level, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, lvl := range all {
		if lvl.Number == n {
			return lvl, nil
		}
	}
	return nil, fmt.Errorf("levels: level %d in %s: %w", n, l.Root, core.ErrInvalidLevelReference)
}

// ListNumbers returns all level numbers in sorted order.
func (l *Loader) ListNumbers() ([]int, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLevels, l.Root)
	}
	nums := make([]int, len(all))
	for i, lvl := range all {
		nums[i] = lvl.Number
	}
	return nums, nil
}

func (l *Loader) load(name string) (*core.Level, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("levels: reading file %s: %w", name, err)
	}

	ext := strings.ToLower(path.Ext(name))
	lvl, err := parseByExtension(data, ext)
	if err != nil {
		return nil, fmt.Errorf("levels: parsing file %s: %w", name, err)
	}

	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if lvl.ID == "" {
		lvl.ID = stem
	}
	if lvl.Number == 0 {
		lvl.Number = trailingNumber(stem)
	}
	if lvl.Name == "" {
		lvl.Name = lvl.ID
	}
	return lvl, nil
}

// trailingNumber extracts the digits at the end of a file stem, e.g. 3 from
// "level03". It returns 0 when there are none.
func trailingNumber(stem string) int {
	i := len(stem)
	for i > 0 && stem[i-1] >= '0' && stem[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(stem[i:])
	if err != nil {
		return 0
	}
	return n
}

func entryNumber(e Entry) int {
	if e.Level == nil {
		return int(^uint(0) >> 1)
	}
	return e.Level.Number
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (*core.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported extension: %s", ext)
	}
}
