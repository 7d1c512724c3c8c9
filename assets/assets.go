// Package assets loads and caches images, fonts and raw files from an
// ofs.FileSystem.
//
// Loading happens on the caller's goroutine for the synchronous accessors
// (Image, Font, File) and on background goroutines for Decode and Preload.
// Concurrent requests for the same asset share a single load. At most a
// configurable number of files are read and decoded at the same time.
//
// A Manager is safe for concurrent use.
package assets

import (
	"fmt"
	"image"
	"io"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/db47h/ofs"
	"github.com/pkg/errors"
)

var errMissingAsset = errors.New("asset not found")

// Type is the type of an asset.
type Type int

// Asset types.
const (
	TypeImage Type = iota
	TypeFont
	TypeFile
	typeLast
)

func (t Type) String() string {
	switch t {
	case TypeImage:
		return "image"
	case TypeFont:
		return "font"
	case TypeFile:
		return "file"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Asset identifies an asset by type and name. The name is relative to the
// path configured for its type.
type Asset struct {
	Type Type
	Name string
}

func (a Asset) String() string {
	return a.Type.String() + " " + a.Name
}

// Result is the outcome of loading an asset. For images, Image is set on
// success.
type Result struct {
	Asset
	Image *image.NRGBA
	Err   error
}

type loadFunc func(r io.Reader) (interface{}, error)

var loaders = [typeLast]loadFunc{
	TypeImage: loadImage,
	TypeFont:  loadFont,
	TypeFile:  loadFile,
}

type config struct {
	imagePath string
	fontPath  string
	filePath  string
	workers   int
}

func (c *config) path(a Asset) string {
	switch a.Type {
	case TypeImage:
		return path.Join(c.imagePath, a.Name)
	case TypeFont:
		return path.Join(c.fontPath, a.Name)
	}
	return path.Join(c.filePath, a.Name)
}

// Option is implemented by option functions passed as arguments to NewManager.
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// ImagePath returns an Option that sets the default image path.
func ImagePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.imagePath = name
	})
}

// FontPath returns an Option that sets the default font path.
func FontPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.fontPath = name
	})
}

// FilePath returns an Option that sets the default path for raw files.
func FilePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.filePath = name
	})
}

// Workers returns an Option that sets the maximum number of assets loaded at
// the same time. The default is twice the number of CPUs.
func Workers(n int) Option {
	return cfn(func(cfg *config) {
		cfg.workers = n
	})
}

// A Manager manages asynchronous loading and caching of images, fonts and raw
// files.
type Manager struct {
	fs      ofs.FileSystem
	cfg     config
	sem     chan struct{}
	m       sync.Mutex
	cond    *sync.Cond
	assets  map[Asset]interface{}
	pending map[Asset]struct{}
}

// NewManager returns a new asset Manager loading assets from fs.
func NewManager(fs ofs.FileSystem, options ...Option) *Manager {
	cfg := config{workers: 2 * runtime.NumCPU()}
	for _, o := range options {
		o.set(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}
	m := &Manager{
		fs:      fs,
		cfg:     cfg,
		sem:     make(chan struct{}, cfg.workers),
		assets:  make(map[Asset]interface{}),
		pending: make(map[Asset]struct{}),
	}
	m.cond = sync.NewCond(&m.m)
	return m
}

type loadState int

const (
	stateMissing loadState = iota
	statePending
	stateLoaded
)

func (m *Manager) lookup(a Asset) (data interface{}, state loadState) {
	if data, ok := m.assets[a]; ok {
		return data, stateLoaded
	}
	if _, ok := m.pending[a]; ok {
		return nil, statePending
	}
	return nil, stateMissing
}

// load reads and decodes an asset. It blocks while the maximum number of
// concurrent loads is reached.
func (m *Manager) load(a Asset) (interface{}, error) {
	m.sem <- struct{}{}
	defer func() { <-m.sem }()
	f, err := m.fs.Open(m.cfg.path(a))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loaders[a.Type](f)
}

// get returns an asset from cache or loads it if not in the cache. If this
// asset is being loaded from another goroutine, get waits for the asset to be
// loaded and returns the cached version. Failed loads are not cached.
func (m *Manager) get(a Asset) (data interface{}, err error) {
	if a.Type < 0 || a.Type >= typeLast {
		return nil, errors.Errorf("invalid asset type %d", int(a.Type))
	}
	m.m.Lock()
	defer m.m.Unlock()
	for {
		data, s := m.lookup(a)
		switch s {
		case stateMissing:
			m.pending[a] = struct{}{}
			m.m.Unlock()
			data, err := m.load(a)
			m.m.Lock()
			delete(m.pending, a)
			m.cond.Broadcast()
			if err != nil {
				return nil, errors.Wrapf(err, "load %s", a)
			}
			m.assets[a] = data
			return data, nil
		case stateLoaded:
			return data, nil
		}
		m.cond.Wait()
	}
}

// Pending returns the number of assets currently loading.
func (m *Manager) Pending() int {
	m.m.Lock()
	n := len(m.pending)
	m.m.Unlock()
	return n
}

// Cached reports whether the asset is in the cache.
func (m *Manager) Cached(a Asset) bool {
	m.m.Lock()
	_, ok := m.assets[a]
	m.m.Unlock()
	return ok
}

// Discard removes the given asset from the cache. If the asset is loading,
// Discard waits for the load to complete.
func (m *Manager) Discard(a Asset) error {
	m.m.Lock()
	defer m.m.Unlock()
	for {
		if _, ok := m.assets[a]; ok {
			delete(m.assets, a)
			return nil
		}
		if _, ok := m.pending[a]; !ok {
			return errors.Wrapf(errMissingAsset, "discard %s", a)
		}
		m.cond.Wait()
	}
}

// Close discards all cached assets. Loads in progress complete normally.
func (m *Manager) Close() {
	m.m.Lock()
	m.assets = make(map[Asset]interface{})
	m.m.Unlock()
}

// Preload bulk loads assets in the background. Assets already cached or
// listed more than once are loaded only once. It returns a channel to read
// preload results from as well as the number of results that will be sent.
// The channel is closed after the last result.
//
// Results must be read from rc, either directly or with Wait, for the preload
// to complete.
func (m *Manager) Preload(assets []Asset) (rc <-chan Result, n int) {
	seen := make(map[Asset]struct{}, len(assets))
	todo := make([]Asset, 0, len(assets))
	m.m.Lock()
	for _, a := range assets {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		if _, s := m.lookup(a); s == stateLoaded {
			continue
		}
		todo = append(todo, a)
	}
	m.m.Unlock()

	c := make(chan Result)
	go func() {
		var wg sync.WaitGroup
		for _, a := range todo {
			wg.Add(1)
			go func(a Asset) {
				defer wg.Done()
				c <- m.result(a)
			}(a)
		}
		wg.Wait()
		close(c)
	}()
	return c, len(todo)
}

func (m *Manager) result(a Asset) Result {
	data, err := m.get(a)
	r := Result{Asset: a, Err: err}
	if img, ok := data.(*image.NRGBA); ok {
		r.Image = img
	}
	return r
}

// Wait waits for completion of a previous Preload and returns any load errors.
func Wait(rc <-chan Result) error {
	var errs errorList
	for r := range rc {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}

type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}
