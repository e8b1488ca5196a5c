// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// admin.go has infrastructure code outside of the Node interface.

// InitNode initializes the node if it has not been already, setting
// [NodeBase.This] and calling [Node.Init]. Root nodes that are not made
// with [NewNodeBase] must be passed to InitNode before use.
func InitNode(n Node) {
	nb := n.AsTree()
	if nb.This != n {
		nb.This = n
		n.Init()
	}
}

// SetParent sets the parent of the given node to the given parent node.
// This is only for nodes with no existing parent; see [MoveToParent] to
// move nodes that already have a parent. It does not add the node to the
// parent's list of children; see [NodeBase.AddChild] for a version that does.
func SetParent(child Node, parent Node) {
	n := child.AsTree()
	n.Parent = parent
	if parent != nil {
		pn := parent.AsTree()
		pn.numLifetimeChildren++
		if n.Name == "" {
			n.Name = typeIDName(child) + "-" + strconv.FormatUint(pn.numLifetimeChildren-1, 10) // must subtract 1 so we start at 0
		}
	}
	child.OnAdd()
}

// MoveToParent removes the given node from its current parent
// and adds it as a child of the given new parent.
// The node is not destroyed, so anything keyed on its identity survives the move.
func MoveToParent(child Node, parent Node) {
	oldParent := child.AsTree().Parent
	if oldParent != nil {
		op := oldParent.AsTree()
		if idx := IndexOf(op.Children, child); idx >= 0 {
			op.Children = append(op.Children[:idx], op.Children[idx+1:]...)
		}
	}
	parent.AsTree().AddChild(child)
}

// NewNodeBase returns a new initialized [NodeBase], added as the last
// child of the given parent if one is specified.
func NewNodeBase(parent ...Node) *NodeBase {
	n := &NodeBase{}
	InitNode(n)
	if len(parent) > 0 && parent[0] != nil {
		parent[0].AsTree().AddChild(n)
	}
	return n
}

// IsRoot tests whether the given node is the root node in its tree.
func IsRoot(n Node) bool {
	nb := n.AsTree()
	return nb.This == nil || nb.Parent == nil || nb.Parent.AsTree().This == nil
}

// Root returns the root node of the given node's tree.
func Root(n Node) Node {
	if IsRoot(n) {
		return n.AsTree().This
	}
	return Root(n.AsTree().Parent)
}

// typeIDName returns the kebab-case name of the underlying type of the node,
// which is used for default node names.
func typeIDName(n Node) string {
	typ := reflect.TypeOf(n)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	var b strings.Builder
	for i, r := range typ.Name() {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
