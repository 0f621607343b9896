package service

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"pdf-converter/internal/domain"
)

// StaticCollector copies the bundled static assets into the serving
// directory. It runs once per image build (or idempotently per container
// start); the server only ever reads from the target directory.
type StaticCollector struct {
	source string
	target string
	logger domain.Logger
}

// NewStaticCollector creates a collector from source to target.
func NewStaticCollector(source, target string, logger domain.Logger) *StaticCollector {
	return &StaticCollector{source: source, target: target, logger: logger}
}

// Collect copies every regular file under source into target, preserving the
// relative layout. With clear set, target is emptied first. The error is
// propagated to the caller; whether a failed collection aborts the build is
// the build recipe's decision, not this command's.
func (c *StaticCollector) Collect(clear bool) (int, error) {
	info, err := os.Stat(c.source)
	if err != nil {
		return 0, fmt.Errorf("static source: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("static source %s is not a directory", c.source)
	}

	if clear {
		if err := os.RemoveAll(c.target); err != nil {
			return 0, fmt.Errorf("clear static root: %w", err)
		}
	}
	if err := os.MkdirAll(c.target, 0o755); err != nil {
		return 0, fmt.Errorf("create static root: %w", err)
	}

	copied := 0
	err = filepath.WalkDir(c.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(c.source, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(c.target, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(path, dst); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, err
	}

	c.logger.Info("Static files collected", "source", c.source, "target", c.target, "files", copied)
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
