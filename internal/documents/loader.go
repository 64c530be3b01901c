package documents

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves template names inside Dir. Every Load reads the file again,
// so a redeployed template takes effect without a restart.
type Loader struct {
	Dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load returns ErrTemplateNotFound when the file is absent and a wrapped
// ErrInvalidTemplate when it exists but cannot be parsed.
func (l *Loader) Load(name string) (*Template, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}
	path := filepath.Join(l.Dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("stat template %s: %w", name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	return ParseTemplate(name, data)
}
