// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"slices"
	"strconv"
	"strings"
)

// NodeBase implements the [Node] interface and holds the structure of
// the tree: a name, a parent and ordered children. Widget types embed it,
// and its address is the identity of the node wherever nodes are keyed,
// such as in a scoped value store.
//
// Nodes must be initialized with [NewNodeBase], [InitNode] or
// [NodeBase.AddChild], which set [NodeBase.This] and call [Node.Init].
type NodeBase struct {

	// Name is the name of this node, used in paths. It should be unique
	// among its siblings. If it is empty when the node is added to a parent,
	// it is set to the kebab-case type name followed by a per-parent counter.
	Name string

	// This is the node as its outer type, so that methods defined here can
	// reach methods of the embedding type. It is nil once the node is destroyed.
	This Node

	// Parent is the parent of this node, or nil for a root.
	// Use [MoveToParent] to change it.
	Parent Node

	// Children are the children of this node, in order.
	// Use the NodeBase methods to change them.
	Children []Node

	// numLifetimeChildren is the number of children ever added
	// to this node, used for default names.
	numLifetimeChildren uint64
}

// String returns the path of the node, or "nil" if it is destroyed.
func (n *NodeBase) String() string {
	if n.IsDestroyed() {
		return "nil"
	}
	return n.Path()
}

// AsTree returns the [NodeBase] for this Node.
func (n *NodeBase) AsTree() *NodeBase {
	return n
}

// SetName sets the name of this node.
func (n *NodeBase) SetName(name string) *NodeBase {
	n.Name = name
	return n
}

// IsDestroyed returns whether this node has been destroyed
// (or was never initialized), in which case it is not part of any tree.
func (n *NodeBase) IsDestroyed() bool {
	return n == nil || n.This == nil
}

// HasChildren returns whether this node has any children.
func (n *NodeBase) HasChildren() bool {
	return len(n.Children) > 0
}

// NumChildren returns the number of children of this node.
func (n *NodeBase) NumChildren() int {
	return len(n.Children)
}

// Child returns the child at the given index, or nil if it is out of range.
func (n *NodeBase) Child(i int) Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Paths:

// EscapePathName returns the name with any / replaced by \\
func EscapePathName(name string) string {
	return strings.ReplaceAll(name, "/", `\\`)
}

// UnescapePathName returns the name with any \\ replaced by /
func UnescapePathName(name string) string {
	return strings.ReplaceAll(name, `\\`, "/")
}

// Path returns the absolute path of this node: the escaped names
// from the root down, each preceded by a /.
func (n *NodeBase) Path() string {
	p := "/" + EscapePathName(n.Name)
	if n.Parent != nil {
		return n.Parent.AsTree().Path() + p
	}
	return p
}

// PathFrom returns the path of this node relative to the given ancestor,
// without the ancestor's name or a leading slash. In the tree a/b/c/d,
// d.PathFrom(b) is "c/d", and a node's path from itself is "".
// The result can be passed to [NodeBase.FindPath] on the ancestor.
func (n *NodeBase) PathFrom(ancestor Node) string {
	ancestor = ancestor.AsTree().This
	if n.This == ancestor {
		return ""
	}
	if n.Parent == nil || n.Parent == ancestor {
		return EscapePathName(n.Name)
	}
	return n.Parent.AsTree().PathFrom(ancestor) + "/" + EscapePathName(n.Name)
}

// FindPath returns the node at the given path relative to this node, in the
// form returned by [NodeBase.PathFrom], or nil if there is none. An element
// can also be an index in brackets, such as [0] for the first child or [-1]
// for the last. Empty elements are skipped, so "" is this node itself.
func (n *NodeBase) FindPath(path string) Node {
	cur := n.This
	for _, el := range strings.Split(strings.Trim(strings.TrimSpace(path), "\""), "/") {
		if el == "" {
			continue
		}
		kid := cur.AsTree().Child(childIndex(cur, UnescapePathName(el)))
		if kid == nil {
			return nil
		}
		cur = kid
	}
	return cur
}

// childIndex returns the index of the child of n named by the
// given path element, or -1 if there is none.
func childIndex(n Node, el string) int {
	kids := n.AsTree().Children
	if len(el) > 1 && el[0] == '[' && el[len(el)-1] == ']' {
		idx, err := strconv.Atoi(el[1 : len(el)-1])
		if err != nil {
			return -1
		}
		if idx < 0 {
			idx += len(kids)
		}
		return idx
	}
	return IndexByName(kids, el)
}

// Adding and deleting children:

// AddChild initializes the given node if needed and adds it as
// the last child of this node. The node must not have a parent;
// see [MoveToParent] for nodes that do.
func (n *NodeBase) AddChild(kid Node) {
	InitNode(kid)
	n.Children = append(n.Children, kid)
	SetParent(kid, n.This)
}

// DeleteChildAt removes the child at the given index and destroys it,
// returning false if there is no child there.
func (n *NodeBase) DeleteChildAt(index int) bool {
	kid := n.Child(index)
	if kid == nil {
		return false
	}
	n.Children = slices.Delete(n.Children, index, index+1)
	kid.Destroy()
	return true
}

// DeleteChild removes the given child and destroys it,
// returning false if it is not a child of this node.
func (n *NodeBase) DeleteChild(kid Node) bool {
	if kid == nil {
		return false
	}
	return n.DeleteChildAt(IndexOf(n.Children, kid))
}

// DeleteChildren removes and destroys all children of this node.
func (n *NodeBase) DeleteChildren() {
	kids := n.Children
	n.Children = nil
	for _, kid := range kids {
		if kid != nil {
			kid.Destroy()
		}
	}
}

// Delete removes this node from its parent, if any, and destroys it.
func (n *NodeBase) Delete() {
	if n.Parent == nil {
		n.This.Destroy()
		return
	}
	n.Parent.AsTree().DeleteChild(n.This)
}

// Destroy destroys all of the descendants of this node and then the
// node itself, which leaves [NodeBase.This] nil. Anything that refers
// to a destroyed node can tell with [NodeBase.IsDestroyed].
func (n *NodeBase) Destroy() {
	if n.This == nil {
		return
	}
	n.DeleteChildren()
	n.This = nil
}

// Walking:

const (
	// Continue is returned from walk functions to keep walking
	// the current branch.
	Continue = true

	// Break is returned from walk functions to stop walking
	// the current branch.
	Break = false
)

// WalkUp calls the given function on this node and then on each of its
// ancestors in turn, until it returns [Break]. It returns false if the
// walk was stopped with [Break].
func (n *NodeBase) WalkUp(fun func(n Node) bool) bool {
	cur := n.This
	for cur != nil {
		if !fun(cur) {
			return false
		}
		parent := cur.AsTree().Parent
		if parent == cur {
			break
		}
		cur = parent
	}
	return true
}

// WalkDown calls the given function on this node and then on all of its
// descendants, depth first in pre-order. Returning [Break] for a node
// skips its descendants but not its siblings.
//
// It keeps its own stack, so the depth of the tree does not grow the
// goroutine stack. The children of a node are read right after the
// function returns for it, and nodes destroyed before their turn are
// skipped, including by the function itself.
func (n *NodeBase) WalkDown(fun func(n Node) bool) {
	if n.This == nil {
		return
	}
	stack := []Node{n.This}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cb := cur.AsTree()
		if cb.This == nil || !fun(cur) || cb.This == nil {
			continue
		}
		for i := len(cb.Children) - 1; i >= 0; i-- {
			if kid := cb.Children[i]; kid != nil {
				stack = append(stack, kid)
			}
		}
	}
}

// Init is a placeholder implementation of
// [Node.Init] that does nothing.
func (n *NodeBase) Init() {}

// OnAdd is a placeholder implementation of
// [Node.OnAdd] that does nothing.
func (n *NodeBase) OnAdd() {}
