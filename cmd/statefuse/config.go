/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is read from an optional TOML file. Flags given on the command line
// take precedence.
type Config struct {
	LogLevel         string `toml:"log_level"`
	LogFormat        string `toml:"log_format"`
	Output           string `toml:"output"`
	MaxIterations    int    `toml:"max_iterations"`
	EnumerationLimit int    `toml:"enumeration_limit"`
	StrictShapes     bool   `toml:"strict_shapes"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Output:       "text",
		StrictShapes: true,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) != 0 {
		return cfg, fmt.Errorf("unknown key %q in config %s", keys[0].String(), path)
	}
	return cfg, cfg.validate()
}

func (self Config) validate() error {
	switch self.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", self.LogFormat)
	}
	switch self.Output {
	case "text", "yaml":
	default:
		return fmt.Errorf("invalid output format %q", self.Output)
	}
	if self.MaxIterations < 0 {
		return fmt.Errorf("invalid iteration limit %d", self.MaxIterations)
	}
	if self.EnumerationLimit != 0 && self.EnumerationLimit < 16 {
		return fmt.Errorf("invalid enumeration limit %d", self.EnumerationLimit)
	}
	return nil
}
