// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slogline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	envModules = "SLOGLINE_MODULES"
	envFiles   = "SLOGLINE_FILES"
	envLevel   = "SLOGLINE_LEVEL"
)

var (
	// ErrInvalidLocation indicates a location entry that is not of the form
	// "identifier:line" with a positive line.
	ErrInvalidLocation = errors.New("slogline: invalid location")
	// ErrInvalidLevel indicates an unrecognized fallback level name.
	ErrInvalidLevel = errors.New("slogline: invalid level")
)

// Config is the serializable form of a line filter. Locations can be written
// in YAML either as "identifier:line" strings or as {id, line} mappings:
//
//	modules:
//	  - github.com/acme/app/worker:42
//	files:
//	  - id: /src/app/main.go
//	    line: 17
//	level: warn
//	module_levels:
//	  github.com/acme/app/db: debug
type Config struct {
	Modules      []Location        `yaml:"modules"`
	Files        []Location        `yaml:"files"`
	Level        string            `yaml:"level"`
	ModuleLevels map[string]string `yaml:"module_levels"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("slogline: read config %q: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration. Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("slogline: parse config: %w", err)
	}
	return cfg, nil
}

// ConfigFromEnv reads SLOGLINE_MODULES and SLOGLINE_FILES as comma-separated
// "identifier:line" lists and SLOGLINE_LEVEL as the fallback level.
// Validation problems are reported to logger.
func ConfigFromEnv(logger *slog.Logger) (Config, error) {
	var cfg Config
	var err error
	if cfg.Modules, err = parseLocationList(os.Getenv(envModules)); err != nil {
		logDiagnostic(logger, slog.LevelWarn, "invalid location environment variable", slog.String("variable", envModules), slog.Any("error", err))
		return Config{}, err
	}
	if cfg.Files, err = parseLocationList(os.Getenv(envFiles)); err != nil {
		logDiagnostic(logger, slog.LevelWarn, "invalid location environment variable", slog.String("variable", envFiles), slog.Any("error", err))
		return Config{}, err
	}
	cfg.Level = strings.TrimSpace(os.Getenv(envLevel))
	return cfg, nil
}

// Merge overlays other onto c: locations are appended and a non-empty level
// in other replaces c's.
func (c Config) Merge(other Config) Config {
	out := Config{
		Modules: append(append([]Location(nil), c.Modules...), other.Modules...),
		Files:   append(append([]Location(nil), c.Files...), other.Files...),
		Level:   c.Level,
	}
	if other.Level != "" {
		out.Level = other.Level
	}
	if len(c.ModuleLevels)+len(other.ModuleLevels) > 0 {
		out.ModuleLevels = make(map[string]string, len(c.ModuleLevels)+len(other.ModuleLevels))
		for k, v := range c.ModuleLevels {
			out.ModuleLevels[k] = v
		}
		for k, v := range other.ModuleLevels {
			out.ModuleLevels[k] = v
		}
	}
	return out
}

// Builder returns a [Builder] holding c's locations. When a level is
// configured the builder falls back to a [LevelFilter]; otherwise records
// that are not allow-listed are rejected.
func (c Config) Builder() (*Builder, error) {
	b := NewBuilder(c.Modules...)
	if err := b.WithFiles(c.Files); err != nil {
		return nil, err
	}
	if c.Level == "" && len(c.ModuleLevels) == 0 {
		return b, nil
	}

	def := slog.LevelInfo
	if c.Level != "" {
		lv, ok := parseLevel(c.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, c.Level)
		}
		def = lv
	}
	fallback := NewLevelFilter(def)
	for prefix, name := range c.ModuleLevels {
		lv, ok := parseLevel(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q for module %q", ErrInvalidLevel, name, prefix)
		}
		fallback = fallback.WithModuleLevel(prefix, lv)
	}
	return b.WithFallback(fallback), nil
}

// UnmarshalYAML accepts either an "identifier:line" scalar or a mapping.
func (l *Location) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		loc, err := ParseLocation(node.Value)
		if err != nil {
			return err
		}
		*l = loc
		return nil
	}
	type plain Location
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Identifier == "" || p.Line < 1 {
		return fmt.Errorf("%w: line %d: id and positive line are required", ErrInvalidLocation, node.Line)
	}
	*l = Location(p)
	return nil
}

// ParseLocation parses "identifier:line". The identifier is everything
// before the last colon, so module paths containing "::" and Windows drive
// letters are preserved.
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, ':')
	if i <= 0 {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}
	line, err := strconv.Atoi(s[i+1:])
	if err != nil || line < 1 {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}
	return Location{Identifier: s[:i], Line: line}, nil
}

// parseLocationList parses a comma-separated list of locations, skipping
// blank entries.
func parseLocationList(value string) ([]Location, error) {
	var locs []Location
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		loc, err := ParseLocation(part)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}
