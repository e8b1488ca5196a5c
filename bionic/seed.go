// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cogentcore.org/bionic/base/errors"
	"cogentcore.org/bionic/tree"
)

// Seed is a set of values to store at nodes of a tree, typically read
// from a TOML or YAML file with [OpenSeed]. In TOML, each node is an
// array table:
//
//	[[node]]
//	path = "inbox/list"
//	[node.values]
//	title = "Inbox"
type Seed struct {

	// Nodes are the nodes to store values at, in order.
	Nodes []SeedNode `toml:"node" yaml:"nodes"`
}

// SeedNode is the values to store at one node of a [Seed].
type SeedNode struct {

	// Path is the path of the node relative to the root the seed is
	// applied to, in the form used by [tree.NodeBase.FindPath].
	// An empty path is the root itself.
	Path string `toml:"path" yaml:"path"`

	// Values are the values to store, by key name.
	Values map[string]any `toml:"values" yaml:"values"`
}

// ReadSeed reads a [Seed] in the given format (toml, yaml or yml)
// from the given reader.
func ReadSeed(r io.Reader, format string) (*Seed, error) {
	sd := &Seed{}
	var err error
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		err = toml.NewDecoder(r).Decode(sd)
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(sd)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("bionic.ReadSeed: unknown seed format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("bionic.ReadSeed: %w", err)
	}
	return sd, nil
}

// OpenSeed reads a [Seed] from the given file, in the
// format given by its extension.
func OpenSeed(filename string) (*Seed, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSeed(f, filepath.Ext(filename))
}

// Apply stores the values of the seed in the given store at the nodes under
// the given root, looking up keys by name in the given registry. Values are
// written in key name order, and each write cascades as usual. If create is
// set, missing nodes are made as [tree.NodeBase] nodes; otherwise they are
// an error. Errors do not stop the other values from being applied, and are
// all returned together.
func (sd *Seed) Apply(s *Store, root tree.Node, keys *Keys, create bool) error {
	rb, err := nodeBase(root)
	if err != nil {
		return err
	}
	var errs []error
	for _, sn := range sd.Nodes {
		n := seedNode(rb, sn.Path, create)
		if n == nil {
			errs = append(errs, fmt.Errorf("bionic: seed node %q not found under %v", sn.Path, rb))
			continue
		}
		m, err := s.AttainMeta(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		names := make([]string, 0, len(sn.Values))
		for name := range sn.Values {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			k, err := keys.ByName(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("seed node %q: %w", sn.Path, err))
				continue
			}
			if err := k.WriteAny(m, sn.Values[name]); err != nil {
				errs = append(errs, fmt.Errorf("seed node %q: %w", sn.Path, err))
			}
		}
	}
	return errors.Join(errs...)
}

// seedNode returns the node at the given path under rb,
// making missing nodes if create is set.
func seedNode(rb *tree.NodeBase, path string, create bool) tree.Node {
	cur := rb
	for _, el := range strings.Split(strings.Trim(path, "/"), "/") {
		if el == "" {
			continue
		}
		next := cur.FindPath(el)
		if next == nil {
			if !create {
				return nil
			}
			next = tree.NewNodeBase(cur.This).SetName(tree.UnescapePathName(el))
		}
		cur = next.AsTree()
	}
	return cur.This
}
