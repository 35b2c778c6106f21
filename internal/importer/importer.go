// Package importer finds résumé documents on disk and decodes them.
package importer

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ziadkadry99/resumekit/internal/resume"
)

// DefaultMaxFileSize is the largest file Load accepts (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// Options controls which files Find returns.
type Options struct {
	Root       string
	Include    []string
	Exclude    []string
	Extensions []string
}

// Find walks opts.Root and returns the relative, slash-separated paths of
// files that pass the extension, include and exclude filters, sorted.
func Find(opts Options) ([]string, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil
		}
		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !HasExtension(rel, opts.Extensions) ||
			!MatchesInclude(rel, opts.Include) ||
			MatchesExclude(rel, opts.Exclude) {
			return nil
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importer: walking %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}

// Load decodes a résumé JSON document. The stored ID and timestamps are
// dropped so the result can be created as a new résumé; a missing title is
// taken from the file name.
func Load(path string) (*resume.Resume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > DefaultMaxFileSize {
		return nil, fmt.Errorf("importer: %s is larger than %d bytes", path, DefaultMaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r resume.Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("importer: decoding %s: %w", path, err)
	}

	r.ID = ""
	r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	if strings.TrimSpace(r.Title) == "" {
		r.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	r.Normalize()
	return &r, nil
}
