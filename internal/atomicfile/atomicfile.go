// Package atomicfile saves small state files, such as the saved-database
// list, so readers see either the old contents or the new ones.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// defaultPerm applies to new files written with a perm of 0.
const defaultPerm os.FileMode = 0o644

// WriteFile replaces path with data. The data goes to a sibling temp file
// that is synced and then renamed over path. Parent directories are created
// as needed. A perm of 0 keeps the mode of the file being replaced.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = currentPerm(path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmpPath, err := writeTemp(dir, filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	if err := replace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	syncDir(dir)
	return nil
}

func currentPerm(path string) os.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return defaultPerm
}

// writeTemp stores data in a new hidden file in dir and returns its path.
// The file is removed again if any step fails.
func writeTemp(dir, base string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", base, err)
	}

	fail := func(step string, err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%s temp file for %s: %w", step, base, err)
	}

	// Not every filesystem supports chmod.
	_ = f.Chmod(perm)

	if _, err := f.Write(data); err != nil {
		return fail("write", err)
	}
	if err := f.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp file for %s: %w", base, err)
	}
	return f.Name(), nil
}

func replace(tmpPath, path string) error {
	err := os.Rename(tmpPath, path)
	if err != nil && runtime.GOOS == "windows" {
		// Rename does not overwrite there.
		_ = os.Remove(path)
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// syncDir flushes the rename itself. Failures are ignored; some platforms
// cannot open or sync a directory.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
