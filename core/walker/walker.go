package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tristendillon/httpskin/core/ast"
	"github.com/tristendillon/httpskin/core/cache"
	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/manifest"
	"github.com/tristendillon/httpskin/core/models"
)

var DefaultExclude = []string{".git", ".gradle", ".idea", "build", "out", "node_modules"}

type Walker struct {
	// Base is the directory relative paths are reported against.
	Base    string
	Exclude []string
	Cache   *cache.FileCache
	Tree    *models.EndpointTree
}

func NewWalker(base string, exclude []string, fc *cache.FileCache) *Walker {
	if fc == nil {
		fc = cache.NewFileCache(nil)
	}
	return &Walker{
		Base:    base,
		Exclude: append(append([]string(nil), DefaultExclude...), exclude...),
		Cache:   fc,
		Tree:    models.NewEndpointTree(),
	}
}

// Excluded reports whether any segment of rel is an excluded name, or rel
// lies under an excluded relative path.
func (w *Walker) Excluded(rel string) bool {
	return IsExcluded(rel, w.Exclude)
}

func IsExcluded(rel string, exclude []string) bool {
	rel = filepath.ToSlash(rel)
	segments := strings.Split(rel, "/")

	for _, ex := range exclude {
		ex = strings.Trim(filepath.ToSlash(ex), "/")
		if ex == "" {
			continue
		}
		if strings.Contains(ex, "/") {
			if rel == ex || strings.HasPrefix(rel, ex+"/") {
				return true
			}
			continue
		}
		for _, seg := range segments {
			if seg == ex {
				return true
			}
		}
	}
	return false
}

// Discover lists the Java sources under roots and the given manifests, in
// a stable order. Missing source roots are skipped; missing manifests are
// an error.
func (w *Walker) Discover(roots, manifests []string) ([]models.DiscoveredFile, error) {
	var discovered []models.DiscoveredFile

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("Source root %s does not exist, skipping", w.rel(root))
				continue
			}
			return nil, fmt.Errorf("failed to stat source root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("source root %s is not a directory", root)
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if w.Excluded(rel) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".java") {
				return nil
			}
			discovered = append(discovered, models.DiscoveredFile{
				Path:    path,
				RelPath: w.rel(path),
				Kind:    models.JavaSource,
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.SliceStable(discovered, func(i, j int) bool {
		return discovered[i].RelPath < discovered[j].RelPath
	})

	for _, m := range manifests {
		if _, err := os.Stat(m); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", w.rel(m), err)
		}
		discovered = append(discovered, models.DiscoveredFile{
			Path:    m,
			RelPath: w.rel(m),
			Kind:    models.ManifestSource,
		})
	}

	return discovered, nil
}

// Scan parses every file, reusing cached results for unchanged ones.
// onFile, when set, is called after each file.
func (w *Walker) Scan(files []models.DiscoveredFile, onFile func(models.DiscoveredFile)) ([]*models.ParsedFile, error) {
	parsed := make([]*models.ParsedFile, 0, len(files))
	for _, f := range files {
		pf, err := w.scanFile(f)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, pf)
		if onFile != nil {
			onFile(f)
		}
	}
	return parsed, nil
}

func (w *Walker) scanFile(f models.DiscoveredFile) (*models.ParsedFile, error) {
	pf, hit, err := w.Cache.GetOrScan(f.Path, func() (*models.ParsedFile, error) {
		if f.Kind == models.ManifestSource {
			return manifest.Load(f.Path, f.RelPath)
		}
		return ast.ParseJava(f.Path, f.RelPath)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		logger.Debug("Reusing scan of %s", f.RelPath)
	}
	// Linking rewrites return types, so callers never get the cached copy.
	return pf.Clone(), nil
}

// Walk discovers and scans everything, links same-package types and
// rebuilds the endpoint tree.
func (w *Walker) Walk(roots, manifests []string, onFile func(models.DiscoveredFile)) ([]*models.ParsedFile, error) {
	files, err := w.Discover(roots, manifests)
	if err != nil {
		return nil, err
	}
	return w.Process(files, onFile)
}

// Process is Walk for an already discovered file list.
func (w *Walker) Process(files []models.DiscoveredFile, onFile func(models.DiscoveredFile)) ([]*models.ParsedFile, error) {
	logger.Debug("Discovered %d source files", len(files))

	parsed, err := w.Scan(files, onFile)
	if err != nil {
		return nil, err
	}

	live := make([]string, len(files))
	for i, f := range files {
		live[i] = f.Path
	}
	if n := w.Cache.Prune(live); n > 0 {
		logger.Debug("Forgot %d source files that are gone", n)
	}

	var javaFiles []*models.ParsedFile
	for i, f := range files {
		if f.Kind == models.JavaSource {
			javaFiles = append(javaFiles, parsed[i])
		}
	}
	ast.LinkPackages(javaFiles)

	w.Tree.Reset()
	for _, pf := range parsed {
		w.Tree.AddInterfaces(pf.Interfaces)
		logger.Debug("Registered %s (%d endpoints)", pf.RelPath, pf.EndpointCount())
	}

	return parsed, nil
}

// Interfaces flattens the marked interfaces of all files in order.
func Interfaces(files []*models.ParsedFile) []models.ApiInterface {
	var out []models.ApiInterface
	for _, pf := range files {
		out = append(out, pf.Interfaces...)
	}
	return out
}

// Problems collects scan problems of all files in order.
func Problems(files []*models.ParsedFile) []string {
	var out []string
	for _, pf := range files {
		out = append(out, pf.Problems...)
	}
	return out
}

func (w *Walker) rel(path string) string {
	if w.Base == "" {
		return path
	}
	rel, err := filepath.Rel(w.Base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
