package preset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/postforge/internal/post"
)

// document is the YAML export layout.
type document struct {
	Presets []Preset `yaml:"presets"`
}

// ImportResult lists what ImportYAML did.
type ImportResult struct {
	Added   []string
	Skipped []string
}

// ExportYAML writes every preset as a YAML document.
func (m *Manager) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Presets: m.List()}); err != nil {
		return fmt.Errorf("export presets: %w", err)
	}
	return enc.Close()
}

// ImportYAML adds presets from a YAML document produced by ExportYAML.
// Names that already exist are skipped and reported. Any invalid entry
// aborts the import before anything is stored.
func (m *Manager) ImportYAML(ctx context.Context, r io.Reader) (ImportResult, error) {
	var doc struct {
		Presets []yaml.Node `yaml:"presets"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return ImportResult{}, fmt.Errorf("import presets: %w", err)
	}

	incoming := make([]Preset, 0, len(doc.Presets))
	for i := range doc.Presets {
		p := Preset{State: post.Default().StyleOnly()}
		if err := doc.Presets[i].Decode(&p); err != nil {
			return ImportResult{}, fmt.Errorf("import presets: entry %d: %w", i, err)
		}
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return ImportResult{}, fmt.Errorf("import presets: entry %d: %w", i, ErrEmptyName)
		}
		if err := post.ValidateStyle(p.State); err != nil {
			return ImportResult{}, fmt.Errorf("import presets: %q: %w", p.Name, err)
		}
		incoming = append(incoming, p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var res ImportResult
	next := append([]Preset(nil), m.presets...)
	taken := make(map[string]bool, len(next))
	for _, p := range next {
		taken[p.Name] = true
	}
	for _, p := range incoming {
		if taken[p.Name] {
			res.Skipped = append(res.Skipped, p.Name)
			continue
		}
		taken[p.Name] = true
		next = append(next, p)
		res.Added = append(res.Added, p.Name)
	}

	if len(res.Added) == 0 {
		return res, nil
	}
	if err := m.writeLocked(ctx, next); err != nil {
		return ImportResult{}, err
	}
	m.presets = next
	m.logger.Info("presets imported", "added", len(res.Added), "skipped", len(res.Skipped))
	return res, nil
}
