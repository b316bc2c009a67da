package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectFileName is the per-repository config file pinning session-creation
// defaults for a checkout.
const ProjectFileName = ".julesmcp.toml"

// Project holds defaults applied when creating sessions from inside a
// repository checkout. Explicit flags always win over pinned values.
type Project struct {
	Source      string `toml:"source"`
	Branch      string `toml:"branch"`
	TitlePrefix string `toml:"title_prefix"`
}

// LoadProject reads the project file from dir. A missing file yields a
// zero-value Project and nil error.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, ProjectFileName)
	data, err := os.ReadFile(path) //nolint:gosec // user project path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Project{}, nil
		}
		return nil, err
	}

	var p Project
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
