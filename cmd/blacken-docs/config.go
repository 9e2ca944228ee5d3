// Copyright 2024 The blacken-docs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	blackendocs "github.com/Gobot1234/blacken-docs"
	"github.com/Gobot1234/blacken-docs/formatter"
)

const configFileName = "blacken-docs.toml"

type fileConfig struct {
	Extensions   []string                 `toml:"extensions"`
	Languages    map[string][]string      `toml:"languages"`
	Environments map[string]string        `toml:"environments"`
	Doctest      doctestConfig            `toml:"doctest"`
	Formatter    map[string]commandConfig `toml:"formatter"`
}

type doctestConfig struct {
	Prompt       string            `toml:"prompt"`
	Continuation string            `toml:"continuation"`
	Tags         map[string]string `toml:"tags"`
}

type commandConfig struct {
	Command []string `toml:"command"`
	Tags    []string `toml:"tags"`
}

// setup is the runtime configuration assembled from the defaults and an
// optional config file.
type setup struct {
	registry   *formatter.Registry
	scan       blackendocs.ScanConfig
	extensions []string
}

// loadSetup builds the registry and scanner configuration. When path is
// empty, a blacken-docs.toml is searched for from the working directory
// upward; running without one uses the defaults.
func loadSetup(path string) (setup, error) {
	s := setup{
		registry: formatter.Default(),
		scan:     blackendocs.DefaultScanConfig(),
	}
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil || !ok {
			return s, err
		}
		path = found
	}
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return s, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := s.apply(cfg); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// findConfig walks from startDir toward the filesystem root looking for
// a blacken-docs.toml.
func findConfig(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func (s *setup) apply(cfg fileConfig) error {
	for name, cc := range cfg.Formatter {
		if len(cc.Command) == 0 {
			return fmt.Errorf("formatter %q: missing command", name)
		}
		s.registry.Register(name, &formatter.Command{Path: cc.Command[0], Args: cc.Command[1:]})
		s.scan.Tags[strings.ToLower(name)] = name
		for _, tag := range cc.Tags {
			s.scan.Tags[strings.ToLower(tag)] = name
		}
	}
	for lang, tags := range cfg.Languages {
		if s.registry.Lookup(lang) == nil {
			return fmt.Errorf("languages: no formatter named %q", lang)
		}
		for _, tag := range tags {
			s.scan.Tags[strings.ToLower(tag)] = lang
		}
	}
	for env, lang := range cfg.Environments {
		if s.registry.Lookup(lang) == nil {
			return fmt.Errorf("environments: no formatter named %q for %q", lang, env)
		}
		s.scan.Environments[env] = lang
	}
	if cfg.Doctest.Prompt != "" {
		s.scan.Prompt = cfg.Doctest.Prompt
	}
	if cfg.Doctest.Continuation != "" {
		s.scan.Continuation = cfg.Doctest.Continuation
	}
	for tag, lang := range cfg.Doctest.Tags {
		if s.registry.Lookup(lang) == nil {
			return fmt.Errorf("doctest: no formatter named %q for tag %q", lang, tag)
		}
		s.scan.PromptTags[strings.ToLower(tag)] = lang
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extensions = append(s.extensions, strings.ToLower(ext))
	}
	return nil
}
