// Copyright 2025 Hirelink
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


// Package config loads the service configuration from an optional YAML
// file layered over built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hirelink/searchcore/reindex"
	"github.com/hirelink/searchcore/search"
)

// Config is the full service configuration. Durations are expressed in
// milliseconds so the YAML stays plain numbers.
type Config struct {
	Server struct {
		Addr string `koanf:"addr"`
	} `koanf:"server"`

	Storage struct {
		DataDir string `koanf:"data_dir"`
	} `koanf:"storage"`

	Index struct {
		Dir              string             `koanf:"dir"`
		InMemory         bool               `koanf:"in_memory"`
		JobWeights       map[string]float64 `koanf:"job_weights"`
		CandidateWeights map[string]float64 `koanf:"candidate_weights"`
	} `koanf:"index"`

	Search struct {
		TimeoutMs int `koanf:"timeout_ms"`
	} `koanf:"search"`

	Reindex struct {
		BatchSize         int `koanf:"batch_size"`
		Workers           int `koanf:"workers"`
		ReportInterval    int `koanf:"report_interval"`
		MaxRetries        int `koanf:"max_retries"`
		RetryBackoffMs    int `koanf:"retry_backoff_ms"`
		RetryMaxBackoffMs int `koanf:"retry_max_backoff_ms"`
		QueueSize         int `koanf:"queue_size"`
	} `koanf:"reindex"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Storage.DataDir = "./data"
	cfg.Index.Dir = "./data/index"
	cfg.Index.JobWeights = search.DefaultJobWeights()
	cfg.Index.CandidateWeights = search.DefaultCandidateWeights()
	cfg.Search.TimeoutMs = 2000

	rc := reindex.DefaultConfig()
	cfg.Reindex.BatchSize = rc.BatchSize
	cfg.Reindex.Workers = rc.Workers
	cfg.Reindex.ReportInterval = rc.ReportInterval
	cfg.Reindex.MaxRetries = rc.MaxRetries
	cfg.Reindex.RetryBackoffMs = int(rc.RetryDelay / time.Millisecond)
	cfg.Reindex.RetryMaxBackoffMs = int(rc.RetryMaxDelay / time.Millisecond)
	cfg.Reindex.QueueSize = rc.QueueSize
	return cfg
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged; keys absent from the file keep their default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SearchTimeout returns the per-query time budget.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutMs) * time.Millisecond
}

// ReindexConfig converts the reindex section to the reindex package's
// config type.
func (c *Config) ReindexConfig() *reindex.Config {
	return &reindex.Config{
		BatchSize:      c.Reindex.BatchSize,
		Workers:        c.Reindex.Workers,
		ReportInterval: c.Reindex.ReportInterval,
		MaxRetries:     c.Reindex.MaxRetries,
		RetryDelay:     time.Duration(c.Reindex.RetryBackoffMs) * time.Millisecond,
		RetryMaxDelay:  time.Duration(c.Reindex.RetryMaxBackoffMs) * time.Millisecond,
		QueueSize:      c.Reindex.QueueSize,
	}
}
