/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

// Package descriptor reads plugin.xml descriptors into requirement metadata.
package descriptor

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/plugcheck/pkg/requirement"
	"github.com/lexfrei/plugcheck/pkg/version"
)

// FileName is the conventional descriptor file name inside a plugin directory.
const FileName = "plugin.xml"

// preferredLang is the label/description language picked when several are present.
const preferredLang = "en"

type pluginXML struct {
	XMLName         xml.Name            `xml:"plugin"`
	Labels          []localizedXML      `xml:"label"`
	Version         string              `xml:"version"`
	Author          string              `xml:"author"`
	License         string              `xml:"license"`
	Link            string              `xml:"link"`
	Descriptions    []localizedXML      `xml:"description"`
	Compatibility   *compatibilityXML   `xml:"compatibility"`
	RequiredPlugins []requiredPluginXML `xml:"requiredPlugins>requiredPlugin"`
}

type localizedXML struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type compatibilityXML struct {
	MinVersion string   `xml:"minVersion,attr"`
	MaxVersion string   `xml:"maxVersion,attr"`
	Blacklist  []string `xml:"blacklist"`
}

type requiredPluginXML struct {
	PluginName string   `xml:"pluginName,attr"`
	MinVersion string   `xml:"minVersion,attr"`
	MaxVersion string   `xml:"maxVersion,attr"`
	Blacklist  []string `xml:"blacklist"`
}

// Read decodes a descriptor. The returned Metadata has an empty Name; callers
// reading from disk should use ReadFile, which derives it from the path.
func Read(r io.Reader) (requirement.Metadata, error) {
	var doc pluginXML

	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return requirement.Metadata{}, errors.Wrap(err, "failed to decode plugin descriptor")
	}

	return doc.metadata()
}

// Parse decodes a descriptor held in memory.
func Parse(data []byte) (requirement.Metadata, error) {
	return Read(bytes.NewReader(data))
}

// ReadFile reads a descriptor from disk. The plugin name is the parent
// directory for plugin.xml files and the file stem otherwise.
func ReadFile(path string) (requirement.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return requirement.Metadata{}, errors.Wrapf(err, "failed to open descriptor %s", path)
	}
	defer f.Close()

	meta, err := Read(f)
	if err != nil {
		return requirement.Metadata{}, errors.Wrapf(err, "descriptor %s", path)
	}

	meta.Name = nameFromPath(path)

	return meta, nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	if base == FileName {
		return filepath.Base(filepath.Dir(path))
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (doc *pluginXML) metadata() (requirement.Metadata, error) {
	meta := requirement.Metadata{
		Label:       pickLocalized(doc.Labels),
		Author:      strings.TrimSpace(doc.Author),
		License:     strings.TrimSpace(doc.License),
		Link:        strings.TrimSpace(doc.Link),
		Description: pickLocalized(doc.Descriptions),
	}

	var err error

	if meta.Version, err = optionalVersion(doc.Version); err != nil {
		return requirement.Metadata{}, errors.Wrap(err, "invalid plugin version")
	}

	if c := doc.Compatibility; c != nil {
		if meta.MinHostVersion, err = optionalVersion(c.MinVersion); err != nil {
			return requirement.Metadata{}, errors.Wrap(err, "invalid compatibility minVersion")
		}

		if meta.MaxHostVersion, err = optionalVersion(c.MaxVersion); err != nil {
			return requirement.Metadata{}, errors.Wrap(err, "invalid compatibility maxVersion")
		}

		if meta.BlacklistedHostVersions, err = versionList(c.Blacklist); err != nil {
			return requirement.Metadata{}, errors.Wrap(err, "invalid compatibility blacklist")
		}
	}

	for i, rp := range doc.RequiredPlugins {
		req, err := rp.requirement()
		if err != nil {
			return requirement.Metadata{}, errors.Wrapf(err, "requiredPlugin #%d", i+1)
		}

		meta.RequiredPlugins = append(meta.RequiredPlugins, req)
	}

	return meta, nil
}

func (rp requiredPluginXML) requirement() (requirement.RequiredPlugin, error) {
	name := strings.TrimSpace(rp.PluginName)
	if name == "" {
		return requirement.RequiredPlugin{}, errors.New("pluginName is required")
	}

	req := requirement.RequiredPlugin{Name: name}

	var err error

	if req.MinVersion, err = optionalVersion(rp.MinVersion); err != nil {
		return requirement.RequiredPlugin{}, errors.Wrapf(err, "plugin %s minVersion", name)
	}

	if req.MaxVersion, err = optionalVersion(rp.MaxVersion); err != nil {
		return requirement.RequiredPlugin{}, errors.Wrapf(err, "plugin %s maxVersion", name)
	}

	if req.BlacklistedVersions, err = versionList(rp.Blacklist); err != nil {
		return requirement.RequiredPlugin{}, errors.Wrapf(err, "plugin %s blacklist", name)
	}

	return req, nil
}

func optionalVersion(raw string) (version.Version, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return version.Version{}, nil
	}

	return version.Parse(raw)
}

func versionList(raw []string) ([]version.Version, error) {
	trimmed := make([]string, 0, len(raw))

	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			trimmed = append(trimmed, s)
		}
	}

	return version.ParseList(trimmed)
}

// pickLocalized prefers the English value, then an unlabelled one, then the first.
func pickLocalized(values []localizedXML) string {
	if len(values) == 0 {
		return ""
	}

	fallback := -1

	for i, v := range values {
		switch v.Lang {
		case preferredLang:
			return strings.TrimSpace(v.Value)
		case "":
			if fallback < 0 {
				fallback = i
			}
		}
	}

	if fallback < 0 {
		fallback = 0
	}

	return strings.TrimSpace(values[fallback].Value)
}
