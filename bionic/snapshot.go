// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/xlab/treeprint"

	"cogentcore.org/bionic/tree"
)

// Snapshot returns a deep copy of the values of all keys in the given
// registry that are visible at the given node, by key name. Keys with no
// visible value are left out. Changing the result never affects the store.
func (s *Store) Snapshot(n tree.Node, keys *Keys) map[string]any {
	vals := map[string]any{}
	if _, err := nodeBase(n); err != nil {
		s.logError(err, "bionic: snapshot failed")
		return vals
	}
	for _, name := range keys.Names() {
		k := keys.byName[name]
		m := s.Lookup(n, k)
		if m == nil {
			continue
		}
		v, err := k.ReadAny(m)
		if err != nil {
			s.logError(err, "bionic: snapshot skipped key", "key", name, "node", m)
			continue
		}
		vals[name] = v
	}
	snap := map[string]any{}
	if err := copier.CopyWithOption(&snap, &vals, copier.Option{DeepCopy: true}); err != nil {
		s.logError(err, "bionic: snapshot copy failed")
		return vals
	}
	return snap
}

// Dump returns a tree rendering of the given node and its descendants,
// showing the values each node holds itself and the keys it subscribes to.
func (s *Store) Dump(root tree.Node) string {
	nb, err := nodeBase(root)
	if err != nil {
		return ""
	}
	tp := treeprint.NewWithRoot(s.dumpLabel(nb))
	s.dumpChildren(tp, nb)
	return tp.String()
}

func (s *Store) dumpChildren(branch treeprint.Tree, nb *tree.NodeBase) {
	for _, kid := range nb.Children {
		kb := kid.AsTree()
		if kb.IsDestroyed() {
			continue
		}
		if !kb.HasChildren() {
			branch.AddNode(s.dumpLabel(kb))
			continue
		}
		s.dumpChildren(branch.AddBranch(s.dumpLabel(kb)), kb)
	}
}

// dumpLabel returns the name of the node followed by its
// values and subscriptions, if it has a Meta.
func (s *Store) dumpLabel(nb *tree.NodeBase) string {
	m := s.GetMeta(nb.This)
	if m == nil {
		return nb.Name
	}
	var b strings.Builder
	b.WriteString(nb.Name)
	if keys := m.Keys(); len(keys) > 0 {
		vals := make([]string, len(keys))
		for i, k := range keys {
			vals[i] = fmt.Sprintf("%s=%v", k, m.values[k])
		}
		b.WriteString(" {" + strings.Join(vals, ", ") + "}")
	}
	if subs := sortedKeys(m.subscriptions); len(subs) > 0 {
		names := make([]string, len(subs))
		for i, k := range subs {
			names[i] = k.String()
		}
		b.WriteString(" [" + strings.Join(names, " ") + "]")
	}
	return b.String()
}
