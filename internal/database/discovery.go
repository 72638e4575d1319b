package database

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// DiscoveredDatabase is a database file found on disk.
type DiscoveredDatabase struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// DefaultName derives a display name from a database path: the file name
// without its extension.
func DefaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Discover finds SQLite files. pattern may be a doublestar glob
// ("data/**/*.db"), a directory (searched one level deep) or a single file.
// Results are sorted by path.
func Discover(pattern string) ([]DiscoveredDatabase, error) {
	if pattern == "" {
		pattern = "."
	}

	var paths []string
	if strings.ContainsAny(pattern, "*?[{") {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		paths = matches
	} else {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			entries, err := os.ReadDir(pattern)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() {
					paths = append(paths, filepath.Join(pattern, e.Name()))
				}
			}
		} else {
			paths = []string{pattern}
		}
	}

	var found []DiscoveredDatabase
	for _, p := range paths {
		if !isSQLiteFile(p) {
			continue
		}
		db, err := describe(p)
		if err != nil {
			log.Warn("skipping database file", "path", p, "err", err)
			continue
		}
		found = append(found, db)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

func describe(path string) (DiscoveredDatabase, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DiscoveredDatabase{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DiscoveredDatabase{}, err
	}
	if !info.Mode().IsRegular() {
		return DiscoveredDatabase{}, &fs.PathError{Op: "describe", Path: abs, Err: fs.ErrInvalid}
	}
	return DiscoveredDatabase{
		Path:    abs,
		Name:    DefaultName(abs),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// isSQLiteFile checks if a file looks like a SQLite database.
func isSQLiteFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".db" || ext == ".sqlite" || ext == ".sqlite3" || ext == ".db3"
}
