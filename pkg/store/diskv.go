package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/resume/pkg/document"
)

// ErrNotFound reports a document that has never been saved.
var ErrNotFound = errors.New("store: document not found")

// Store persists named documents.
type Store interface {
	// Load returns the raw bytes last saved under name, or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save encodes doc and returns the bytes written, which Load returns
	// until the next save. The bytes are returned even when only the index
	// update failed.
	Save(ctx context.Context, name string, doc *document.Document) ([]byte, error)
	List(ctx context.Context) []string
	Documents(ctx context.Context) []Meta
	Delete(ctx context.Context, name string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Meta describes a stored document.
type Meta struct {
	Name    string    `json:"name"`
	Updated time.Time `json:"updated"`
	Size    int       `json:"size"`
}

const (
	documentsDir = "documents"
	tempDir      = ".tmp"
	indexFile    = ".documents.json"
	extension    = ".json"
)

// Open creates a Store backed by diskv using the provided config.
func Open(cfg Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          filepath.Join(basePath, documentsDir),
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// Documents change on disk behind our back, so reads skip the cache.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	mu       sync.Mutex // guards the index file
}

func (p *persistence) Load(ctx context.Context, name string) ([]byte, error) {
	key, err := toKey(name)
	if err != nil {
		return nil, err
	}
	data, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("store: read %s: %w", name, err)
	}
	return data, nil
}

func (p *persistence) Save(ctx context.Context, name string, doc *document.Document) ([]byte, error) {
	name = strings.TrimSpace(name)
	key, err := toKey(name)
	if err != nil {
		return nil, err
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("store: encode %s: %w", name, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return nil, fmt.Errorf("store: write %s: %w", name, err)
	}
	return data, p.updateIndex(func(idx map[string]Meta) {
		idx[name] = Meta{Name: name, Updated: time.Now().UTC(), Size: len(data)}
	})
}

func (p *persistence) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	key, err := toKey(name)
	if err != nil {
		return err
	}
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := p.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase %s: %w", name, err)
	}
	return p.updateIndex(func(idx map[string]Meta) {
		delete(idx, name)
	})
}

func (p *persistence) List(ctx context.Context) []string {
	names := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		name, err := fromKey(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Documents lists stored documents with their index metadata. Documents
// written by other tools are listed with zero metadata.
func (p *persistence) Documents(ctx context.Context) []Meta {
	p.mu.Lock()
	idx, err := p.loadIndex()
	p.mu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: load index: %v\n", err)
		idx = map[string]Meta{}
	}
	names := p.List(ctx)
	list := make([]Meta, 0, len(names))
	for _, name := range names {
		meta := idx[name]
		meta.Name = name
		list = append(list, meta)
	}
	return list
}

func (p *persistence) indexPath() string {
	return filepath.Join(p.basePath, indexFile)
}

func (p *persistence) updateIndex(fn func(map[string]Meta)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, err := p.loadIndex()
	if err != nil {
		return fmt.Errorf("store: load index: %w", err)
	}
	fn(idx)
	if err := p.saveIndex(idx); err != nil {
		return fmt.Errorf("store: save index: %w", err)
	}
	return nil
}

func (p *persistence) loadIndex() (map[string]Meta, error) {
	data, err := os.ReadFile(p.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]Meta), nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return make(map[string]Meta), nil
	}
	var list []Meta
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	idx := make(map[string]Meta, len(list))
	for _, meta := range list {
		if meta.Name != "" {
			idx[meta.Name] = meta
		}
	}
	return idx, nil
}

func (p *persistence) saveIndex(idx map[string]Meta) error {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return err
	}
	list := make([]Meta, 0, len(idx))
	for _, meta := range idx {
		list = append(list, meta)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	path := p.indexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: key + extension,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, extension)
}

// toKey encodes name so any document name is a safe file name.
func toKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("store: document name required")
	}
	return base64.RawURLEncoding.EncodeToString([]byte(name)), nil
}

func fromKey(key string) (string, error) {
	name, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("store: decode key: %w", err)
	}
	return string(name), nil
}
