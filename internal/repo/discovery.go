package repo

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// Repository finds WDL files under a project root and classifies them as
// internal or external (third-party) by directory convention.
type Repository struct {
	root         string
	exclude      []string
	externalDirs []string
	logger       *slog.Logger
}

// New creates a Repository. externalDirs defaults to ["external"] when empty.
func New(root string, exclude, externalDirs []string, logger *slog.Logger) *Repository {
	if len(externalDirs) == 0 {
		externalDirs = []string{"external"}
	}
	return &Repository{
		root:         root,
		exclude:      exclude,
		externalDirs: externalDirs,
		logger:       logger.With("component", "repo"),
	}
}

// Root returns the project root path.
func (r *Repository) Root() string { return r.root }

// ExternalDirs returns the configured external directory names.
func (r *Repository) ExternalDirs() []string { return r.externalDirs }

// FindInternal returns all internal WDL files under the root, sorted.
// External directories and excluded patterns are skipped.
func (r *Repository) FindInternal() ([]string, error) {
	files, err := r.find(true)
	if err != nil {
		return nil, err
	}
	r.logger.Info("discovered internal WDL files", "count", len(files))
	return files, nil
}

// FindAll returns every WDL file under the root, external ones included.
func (r *Repository) FindAll() ([]string, error) {
	files, err := r.find(false)
	if err != nil {
		return nil, err
	}
	r.logger.Info("discovered WDL files", "count", len(files))
	return files, nil
}

func (r *Repository) find(skipExternal bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != r.root && (r.excluded(rel+"/") || (skipExternal && r.isExternalRel(rel))) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".wdl") || r.excluded(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (r *Repository) excluded(rel string) bool {
	for _, pattern := range r.exclude {
		if pattern != "" && strings.Contains(rel, pattern) {
			return true
		}
	}
	return false
}

// IsExternal reports whether a file is third-party: outside the root, or
// under one of the external directories.
func (r *Repository) IsExternal(path string) bool {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	return r.isExternalRel(filepath.ToSlash(rel))
}

func (r *Repository) isExternalRel(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		for _, ext := range r.externalDirs {
			if part == ext {
				return true
			}
		}
	}
	return false
}

// RelPath returns the normalized path of file relative to the root.
func (r *Repository) RelPath(file string) string {
	return RelativePath(file, r.root, r.externalDirs)
}
