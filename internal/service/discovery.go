package service

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"calyrec/internal/config"
	"calyrec/internal/domain"
)

// DatedFile pairs a primary file name with its extracted date token.
type DatedFile struct {
	Name  string
	Token string
}

// Discovery lists dated primary files in the data directory.
type Discovery struct {
	dataDir string
	primary config.PrimaryConfig
}

// NewDiscovery creates a Discovery over dataDir.
func NewDiscovery(dataDir string, primary config.PrimaryConfig) *Discovery {
	return &Discovery{dataDir: dataDir, primary: primary}
}

// List returns every file matching the primary naming convention, sorted by
// token ascending. Lexicographic order equals chronological order for the
// token shape, so the last entry is the most recent business date.
func (d *Discovery) List() ([]DatedFile, error) {
	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil, fmt.Errorf("discovery.List: %w", err)
	}

	suffix := "." + d.primary.Extension
	var files []DatedFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, d.primary.FilePrefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		token := strings.TrimSuffix(strings.TrimPrefix(name, d.primary.FilePrefix), suffix)
		if _, err := domain.ParseDateToken(token); err != nil {
			continue
		}
		files = append(files, DatedFile{Name: name, Token: token})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Token < files[j].Token })
	return files, nil
}

// Latest returns the most recent dated file.
func (d *Discovery) Latest() (DatedFile, error) {
	files, err := d.List()
	if err != nil {
		return DatedFile{}, err
	}
	if len(files) == 0 {
		return DatedFile{}, fmt.Errorf("discovery.Latest: %w", domain.ErrNoDatedFiles)
	}
	return files[len(files)-1], nil
}
