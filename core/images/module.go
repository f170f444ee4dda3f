// Package images tracks uploaded artwork for a configuration.
// Images are never required and never priced.
package images

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

// DefaultMaxFiles is used when Config.MaxFiles is zero
const DefaultMaxFiles = 10

// DefaultMimeTypes are accepted when Config.AllowedMimeTypes is empty
var DefaultMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/tiff",
	"image/svg+xml",
	"application/pdf",
	"application/postscript",
}

// Config limits what the module accepts
type Config struct {
	MaxFiles         int      `json:"maxFiles"`
	AllowedMimeTypes []string `json:"allowedMimeTypes"`
}

// Module holds the files attached to a configuration
type Module struct {
	mu       sync.RWMutex
	cfg      Config
	files    []types.UploadedFile
	validate *validator.Validate
}

// New creates an image module
func New(cfg Config) *Module {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	if len(cfg.AllowedMimeTypes) == 0 {
		cfg.AllowedMimeTypes = DefaultMimeTypes
	}
	return &Module{cfg: cfg, validate: validator.New()}
}

// Add attaches an uploaded file. Duplicate ids replace the earlier entry.
func (m *Module) Add(f types.UploadedFile) error {
	if err := m.validate.Struct(f); err != nil {
		return errors.Wrap(errors.TypeValidation, "invalid upload descriptor", err)
	}
	if !m.accepts(f.MimeType) {
		return errors.Validationf("file type %q is not accepted", f.MimeType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.files {
		if existing.FileID == f.FileID {
			m.files[i] = f
			return nil
		}
	}
	if len(m.files) >= m.cfg.MaxFiles {
		return errors.Validationf("at most %d files may be attached", m.cfg.MaxFiles)
	}
	m.files = append(m.files, f)
	return nil
}

// Remove detaches a file and reports whether it was present
func (m *Module) Remove(fileID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.files {
		if f.FileID == fileID {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return true
		}
	}
	return false
}

// Files returns the attached files in upload order
func (m *Module) Files() []types.UploadedFile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.UploadedFile(nil), m.files...)
}

// Count returns the number of attached files
func (m *Module) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// Contribution reports the attached files to the engine.
// It always carries zero cost.
func (m *Module) Contribution() types.PricingContribution {
	files := m.Files()
	items := make([]types.BreakdownItem, 0, len(files))
	for _, f := range files {
		items = append(items, types.BreakdownItem{Type: "image", Item: f.OriginalName})
	}
	return types.PricingContribution{
		IsValid: true,
		Calculation: &types.Calculation{
			Description: fmt.Sprintf("%d file(s) attached", len(files)),
			Breakdown:   items,
		},
	}
}

func (m *Module) accepts(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	for _, allowed := range m.cfg.AllowedMimeTypes {
		if allowed == mime {
			return true
		}
		if strings.HasSuffix(allowed, "/*") && strings.HasPrefix(mime, strings.TrimSuffix(allowed, "*")) {
			return true
		}
	}
	return false
}
