/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

package inventory

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

type fileDocument struct {
	Plugins []filePlugin `yaml:"plugins"`
}

type filePlugin struct {
	Name        string     `yaml:"name"`
	Version     string     `yaml:"version"`
	Active      bool       `yaml:"active"`
	InstalledAt *time.Time `yaml:"installedAt,omitempty"`
}

// Decode reads a YAML inventory:
//
//	plugins:
//	  - name: SwagBundle
//	    version: "2.1.1"
//	    active: true
//	    installedAt: 2016-01-01T11:00:00Z
func Decode(r io.Reader) ([]requirement.KnownPlugin, error) {
	var doc fileDocument

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to decode inventory")
	}

	plugins := make([]requirement.KnownPlugin, 0, len(doc.Plugins))
	seen := make(map[string]struct{}, len(doc.Plugins))

	for i, fp := range doc.Plugins {
		name := strings.TrimSpace(fp.Name)

		ver, err := version.Parse(strings.TrimSpace(fp.Version))
		if err != nil {
			return nil, errors.Wrapf(err, "inventory entry #%d (%s)", i+1, name)
		}

		p := requirement.KnownPlugin{
			Name:        name,
			Version:     ver,
			Active:      fp.Active,
			InstalledAt: fp.InstalledAt,
		}

		if err := validatePlugin(p); err != nil {
			return nil, errors.Wrapf(err, "inventory entry #%d", i+1)
		}

		if _, dup := seen[name]; dup {
			return nil, errors.Newf("inventory entry #%d: duplicate plugin %s", i+1, name)
		}

		seen[name] = struct{}{}
		plugins = append(plugins, p)
	}

	return plugins, nil
}

// Encode writes plugins in the format Decode reads.
func Encode(w io.Writer, plugins []requirement.KnownPlugin) error {
	doc := fileDocument{Plugins: make([]filePlugin, 0, len(plugins))}

	for _, p := range plugins {
		doc.Plugins = append(doc.Plugins, filePlugin{
			Name:        p.Name,
			Version:     p.Version.String(),
			Active:      p.Active,
			InstalledAt: p.InstalledAt,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode inventory")
	}

	return errors.Wrap(enc.Close(), "failed to flush inventory")
}

// LoadFile reads a YAML inventory file into a snapshot.
func LoadFile(path string) (requirement.MapFinder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open inventory %s", path)
	}
	defer f.Close()

	plugins, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "inventory %s", path)
	}

	return requirement.NewMapFinder(plugins...), nil
}

// FileSource re-reads a YAML inventory file on every snapshot.
type FileSource struct {
	Path string
}

// NewFileSource creates a Source backed by a YAML inventory file.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Snapshot implements Source.
func (s *FileSource) Snapshot(ctx context.Context) (requirement.MapFinder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return LoadFile(s.Path)
}
