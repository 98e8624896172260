package repo

import (
	"os"
	"path/filepath"
	"strings"
)

// NormalizeRelative folds "." and ".." segments without touching the
// filesystem. When the path passes through one of the external directory
// names, the result is re-rooted there so third-party files always render
// under a stable "external/..." style prefix regardless of how they were
// reached.
func NormalizeRelative(rel string, externalDirs []string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")

	for i, part := range parts {
		for _, ext := range externalDirs {
			if part == ext {
				return strings.Join(parts[i:], "/")
			}
		}
	}

	var out []string
	for _, part := range parts {
		switch part {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return filepath.ToSlash(rel)
	}
	return strings.Join(out, "/")
}

// RelativePath computes the normalized path of file relative to root. Files
// outside root are anchored at their external directory when possible,
// falling back to the last two path segments.
func RelativePath(file, root string, externalDirs []string) string {
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		return NormalizeRelative(rel, externalDirs)
	}

	parts := strings.Split(filepath.ToSlash(file), "/")
	for i, part := range parts {
		for _, ext := range externalDirs {
			if part == ext {
				return strings.Join(parts[i:], "/")
			}
		}
	}
	if n := len(parts); n >= 2 {
		return strings.Join(parts[n-2:], "/")
	}
	return filepath.ToSlash(file)
}

// ResolveImport resolves an import URI relative to the importing file and
// returns the absolute path, or "" when the target does not exist.
func ResolveImport(uri, fromFile string) string {
	candidate := filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(uri))
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return ""
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return candidate
	}
	return abs
}

// HTMLPath transforms a relative source path into its rendered page path.
func HTMLPath(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, ".wdl") + ".html"
}

// GraphHTMLPath returns the standalone diagram page path for a document.
func GraphHTMLPath(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, ".wdl") + "-graph.html"
}

// RootPrefix returns the "../" chain that leads from a rendered page back to
// the site root, "./" for top-level pages.
func RootPrefix(rel string) string {
	depth := strings.Count(filepath.ToSlash(rel), "/")
	if depth == 0 {
		return "./"
	}
	return strings.Repeat("../", depth)
}
