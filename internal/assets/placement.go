package assets

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// NamePrefix starts every placed file name.
const NamePrefix = "pasted"

const (
	fallbackImageName = "image.png"
	fallbackFileName  = "clipboard-file"
)

// Storage is the vault the assets tree lives in. Paths are logical,
// slash separated and rooted at the vault.
type Storage interface {
	// CreateFolder creates path and its ancestors. An error matching
	// fs.ErrExist means the folder was already there.
	CreateFolder(ctx context.Context, path string) error
	// CreateBinaryFile writes data at path and fails with an error matching
	// fs.ErrExist if anything already occupies it.
	CreateBinaryFile(ctx context.Context, path string, data []byte) error
}

// Payload is one pasted binary blob.
type Payload struct {
	Name string
	Data []byte
}

// Placer writes payloads into mirrored asset folders.
type Placer struct {
	storage Storage
	logger  *slog.Logger
	next    func() uint64
}

// Option configures a Placer.
type Option func(*Placer)

// WithLogger sets the logger used for placement diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Placer) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithDisambiguator replaces the random source used to keep file names
// apart.
func WithDisambiguator(next func() uint64) Option {
	return func(p *Placer) {
		if next != nil {
			p.next = next
		}
	}
}

// NewPlacer returns a Placer writing to storage.
//
// File names carry a random 63-bit disambiguator. Two pastes into the same
// folder collide with probability about 1 in 9.2e18; a collision is reported
// as a FileWriteError rather than overwriting the earlier asset.
func NewPlacer(storage Storage, opts ...Option) *Placer {
	p := &Placer{
		storage: storage,
		logger:  slog.Default(),
		next:    func() uint64 { return uint64(rand.Int64()) },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FileName returns the name a payload called original is placed under.
func (p *Placer) FileName(original string, data []byte) string {
	return NamePrefix + strconv.FormatUint(p.next(), 10) + originalName(original, data)
}

// Place ensures dir exists and writes payload into it under a fresh name.
// It returns the logical path of the written file.
func (p *Placer) Place(ctx context.Context, dir string, payload Payload) (string, error) {
	if err := p.storage.CreateFolder(ctx, dir); err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return "", &DirectoryCreateError{Path: dir, Err: err}
		}
		p.logger.Debug("asset folder already exists", "dir", dir)
	}

	dst := strings.TrimSuffix(dir, "/") + "/" + p.FileName(payload.Name, payload.Data)
	if err := p.storage.CreateBinaryFile(ctx, dst, payload.Data); err != nil {
		return "", &FileWriteError{Path: dst, Err: err}
	}
	p.logger.Info("asset written", "path", dst, "bytes", len(payload.Data))
	return dst, nil
}

func originalName(name string, data []byte) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name != "" && name != "." && name != "/" {
		return name
	}
	if http.DetectContentType(data) == "image/png" {
		return fallbackImageName
	}
	return fallbackFileName
}
