// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Catalog is the immutable Pattern Library: a mapping from detector key to Detector.
type Catalog struct {
	detectors map[string]*Detector
}

// Lookup resolves key to a Detector. Keys are matched case-insensitively,
// so "EMAIL", "email" and " Email " all find the same entry.
func (c *Catalog) Lookup(key string) (*Detector, error) {
	d, ok := c.detectors[normalizeKey(key)]
	if !ok {
		return nil, &UnknownDetectorError{Key: key}
	}
	return d, nil
}

// Keys returns the canonical detector keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.detectors))
	for k := range c.detectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Detectors returns all detectors sorted by key.
func (c *Catalog) Detectors() []*Detector {
	out := make([]*Detector, 0, len(c.detectors))
	for _, k := range c.Keys() {
		out = append(out, c.detectors[k])
	}
	return out
}

// Len returns the number of detectors in the catalog.
func (c *Catalog) Len() int {
	return len(c.detectors)
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Definition is the uncompiled form of a Detector.
type Definition struct {
	Key         string `yaml:"key"`
	Label       string `yaml:"label"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Description string `yaml:"description"`
}

// Builder collects definitions and compiles them once into a Catalog.
type Builder struct {
	defs []Definition
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewDefaultBuilder returns a builder preloaded with the built-in detectors.
func NewDefaultBuilder() *Builder {
	b := NewBuilder()
	for _, def := range builtinDefinitions {
		b.Add(def)
	}
	return b
}

// Add queues a definition. Validation happens in Build.
func (b *Builder) Add(def Definition) *Builder {
	b.defs = append(b.defs, def)
	return b
}

// Build compiles every queued definition. Duplicate keys, empty keys and
// rules that fail to compile or can only match the empty string are rejected.
func (b *Builder) Build() (*Catalog, error) {
	c := &Catalog{detectors: make(map[string]*Detector, len(b.defs))}
	for _, def := range b.defs {
		key := normalizeKey(def.Key)
		if key == "" {
			return nil, fmt.Errorf("detector definition has empty key")
		}
		if _, dup := c.detectors[key]; dup {
			return nil, fmt.Errorf("duplicate detector key %q", key)
		}
		if def.Pattern == "" {
			return nil, fmt.Errorf("detector %s: empty pattern", key)
		}
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("detector %s: invalid pattern: %w", key, err)
		}
		if re.MatchString("") {
			return nil, fmt.Errorf("detector %s: pattern matches the empty string", key)
		}

		label := def.Label
		if label == "" {
			label = key
		}
		replacement := def.Replacement
		if replacement == "" {
			replacement = "[" + strings.ReplaceAll(key, "_", " ") + " REDACTED]"
		}

		c.detectors[key] = &Detector{
			Key:         key,
			Label:       label,
			Replacement: replacement,
			Description: def.Description,
			rule:        re,
		}
	}
	return c, nil
}

// DefaultCatalog builds the built-in catalog. The built-in rules are static,
// so a failure here is a programming error.
func DefaultCatalog() *Catalog {
	c, err := NewDefaultBuilder().Build()
	if err != nil {
		panic(err)
	}
	return c
}
