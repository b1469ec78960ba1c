package cache

import (
	"sync"
	"time"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
)

// CachedDeclaration is a parsed declaration with the hash of its inputs and
// the output path it was last generated to.
type CachedDeclaration struct {
	Declaration *ast.Declaration
	Hash        string
	Path        string
	Output      string
	CachedAt    time.Time
}

// DeclarationCache remembers the last successful generation per source file
type DeclarationCache struct {
	entries map[string]*CachedDeclaration
	mu      sync.RWMutex
}

// NewDeclarationCache creates an empty cache
func NewDeclarationCache() *DeclarationCache {
	return &DeclarationCache{
		entries: make(map[string]*CachedDeclaration),
	}
}

// Get retrieves a cached declaration by source path
func (dc *DeclarationCache) Get(path string) (*CachedDeclaration, bool) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	entry, exists := dc.entries[path]
	return entry, exists
}

// Unchanged reports whether path was last generated from inputs with hash.
func (dc *DeclarationCache) Unchanged(path, hash string) bool {
	entry, ok := dc.Get(path)
	return ok && entry.Hash == hash
}

// Set records a successful generation
func (dc *DeclarationCache) Set(path string, decl *ast.Declaration, hash, output string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.entries[path] = &CachedDeclaration{
		Declaration: decl,
		Hash:        hash,
		Path:        path,
		Output:      output,
		CachedAt:    time.Now(),
	}
}

// Invalidate removes an entry from the cache
func (dc *DeclarationCache) Invalidate(path string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	delete(dc.entries, path)
}

// Size returns the number of cached entries
func (dc *DeclarationCache) Size() int {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	return len(dc.entries)
}
