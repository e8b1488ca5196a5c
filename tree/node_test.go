// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/bionic/tree"
)

// panel embeds NodeBase and adds a field, like a widget type would.
type panel struct {
	NodeBase
	Title  string
	inited int
	added  int
}

func (p *panel) Init()  { p.inited++ }
func (p *panel) OnAdd() { p.added++ }

func newTestTree() *NodeBase {
	root := NewNodeBase().SetName("root")
	NewNodeBase(root).SetName("child0")
	child1 := NewNodeBase(root).SetName("child1")
	schild1 := NewNodeBase(child1).SetName("subchild1")
	NewNodeBase(schild1).SetName("subsubchild1")
	NewNodeBase(root).SetName("child2")
	return root
}

func TestNodeAddChild(t *testing.T) {
	parent := NewNodeBase().SetName("node-base")
	child := &NodeBase{}
	parent.AddChild(child)
	child.SetName("child1")
	assert.Equal(t, 1, len(parent.Children))
	assert.Equal(t, Node(parent), child.Parent)
	assert.Equal(t, "/node-base/child1", child.Path())
}

func TestNodeEmbedAddChild(t *testing.T) {
	parent := &panel{}
	InitNode(parent)
	parent.SetName("par")
	child := &panel{}
	parent.AddChild(child)
	assert.Equal(t, 1, child.inited)
	assert.Equal(t, 1, child.added)
	assert.Equal(t, "panel-0", child.Name)
	assert.Equal(t, Node(child), child.This)
	assert.Equal(t, "/par/panel-0", child.Path())
}

func TestNodeInitOnce(t *testing.T) {
	p := &panel{}
	InitNode(p)
	InitNode(p)
	assert.Equal(t, 1, p.inited)
}

func TestNodeEscapePaths(t *testing.T) {
	parent := NewNodeBase().SetName("par1")
	child := NewNodeBase(parent).SetName("child1.go")
	child2 := NewNodeBase(parent).SetName("child1/child1")
	schild2 := NewNodeBase(child2).SetName("subchild1")
	assert.Equal(t, `/par1/child1\\child1`, child2.Path())
	assert.Equal(t, Node(child), parent.FindPath("child1.go"))
	assert.Equal(t, Node(schild2), parent.FindPath(schild2.PathFrom(parent)))
	assert.Equal(t, Node(schild2), parent.FindPath("[1]/[0]"))
	assert.Equal(t, Node(child2), parent.FindPath("[-1]"))
	assert.Nil(t, parent.FindPath("nope"))
	assert.Nil(t, parent.FindPath("[7]"))
}

func TestNodePathFrom(t *testing.T) {
	a := NewNodeBase().SetName("a")
	b := NewNodeBase(a).SetName("b")
	c := NewNodeBase(b).SetName("c")
	d := NewNodeBase(c).SetName("d")
	NewNodeBase(d).SetName("e")

	assert.Equal(t, "c/d", d.PathFrom(b))
	assert.Equal(t, "", d.PathFrom(d))
}

func TestNodeDeleteChild(t *testing.T) {
	root := newTestTree()
	child1 := root.FindPath("child1")
	sub := child1.AsTree().Child(0)
	require.NotNil(t, sub)

	assert.True(t, root.DeleteChild(child1))
	assert.Equal(t, 2, root.NumChildren())
	assert.True(t, child1.AsTree().IsDestroyed())
	assert.True(t, sub.AsTree().IsDestroyed())
	assert.False(t, root.DeleteChild(child1))
	assert.False(t, root.DeleteChildAt(5))
}

func TestNodeDeleteChildAt(t *testing.T) {
	root := newTestTree()
	child0 := root.Child(0)
	assert.True(t, root.DeleteChildAt(0))
	assert.True(t, child0.AsTree().IsDestroyed())
	assert.Equal(t, "child1", root.Child(0).AsTree().Name)
	assert.False(t, root.DeleteChildAt(-1))
	assert.Equal(t, 2, root.NumChildren())
}

func TestNodeDelete(t *testing.T) {
	root := newTestTree()
	child2 := root.FindPath("child2")
	child2.AsTree().Delete()
	assert.True(t, child2.AsTree().IsDestroyed())
	assert.Nil(t, root.FindPath("child2"))

	root.Delete()
	assert.True(t, root.IsDestroyed())
}

func TestNodeMoveToParent(t *testing.T) {
	root := newTestTree()
	child0 := root.FindPath("child0")
	child2 := root.FindPath("child2")
	MoveToParent(child0, child2)
	assert.False(t, child0.AsTree().IsDestroyed())
	assert.Equal(t, "/root/child2/child0", child0.AsTree().Path())
	assert.Equal(t, 2, root.NumChildren())
	assert.Equal(t, 1, IndexOf(root.Children, child2))
}

func TestNodeChild(t *testing.T) {
	root := newTestTree()
	assert.Equal(t, "child2", root.Child(2).AsTree().Name)
	assert.Nil(t, root.Child(-1))
	assert.Nil(t, root.Child(3))
	assert.True(t, root.HasChildren())
	assert.False(t, root.Child(0).AsTree().HasChildren())
}

func TestNodeRoot(t *testing.T) {
	root := newTestTree()
	deep := root.FindPath("child1/subchild1/subsubchild1")
	require.NotNil(t, deep)
	assert.Equal(t, Node(root), Root(deep))
	assert.True(t, IsRoot(root))
	assert.False(t, IsRoot(deep))
}

func TestNodeWalk(t *testing.T) {
	root := newTestTree()
	schild := root.FindPath("child1/subchild1")
	require.NotNil(t, schild)

	res := []string{}
	schild.AsTree().WalkUp(func(k Node) bool {
		res = append(res, k.AsTree().Name)
		return Continue
	})
	assert.Equal(t, []string{"subchild1", "child1", "root"}, res)
	res = res[:0]

	assert.False(t, schild.AsTree().WalkUp(func(k Node) bool {
		res = append(res, k.AsTree().Name)
		return k.AsTree().Name != "child1"
	}))
	assert.Equal(t, []string{"subchild1", "child1"}, res)
	res = res[:0]

	root.WalkDown(func(k Node) bool {
		res = append(res, fmt.Sprintf("[%v]", k.AsTree().Name))
		return Continue
	})
	assert.Equal(t, []string{"[root]", "[child0]", "[child1]", "[subchild1]", "[subsubchild1]", "[child2]"}, res)
	res = res[:0]

	// test for return = false working
	root.WalkDown(func(k Node) bool {
		res = append(res, fmt.Sprintf("[%v]", k.AsTree().Name))
		if k.AsTree().Name == "child1" {
			return Break
		}
		return Continue
	})
	assert.Equal(t, []string{"[root]", "[child0]", "[child1]", "[child2]"}, res)
}

func TestIndexOf(t *testing.T) {
	root := newTestTree()
	for i, kid := range root.Children {
		assert.Equal(t, i, IndexOf(root.Children, kid))
		assert.Equal(t, i, IndexOf(root.Children, kid, 0))
		assert.Equal(t, i, IndexOf(root.Children, kid, 10))
	}
	assert.Equal(t, -1, IndexOf(nil, root))
	assert.Equal(t, -1, IndexByName(root.Children, "missing"))
}

func TestNodeWalkDownDestroy(t *testing.T) {
	root := newTestTree()
	res := []string{}
	root.WalkDown(func(k Node) bool {
		res = append(res, k.AsTree().Name)
		if k.AsTree().Name == "child0" {
			root.FindPath("child1/subchild1").AsTree().Delete()
		}
		if k.AsTree().Name == "child2" {
			k.AsTree().Delete()
		}
		return Continue
	})
	assert.Equal(t, []string{"root", "child0", "child1", "child2"}, res)
	assert.Equal(t, 2, root.NumChildren())

	deep := root.FindPath("child1")
	deep.AsTree().Destroy()
	calls := 0
	deep.AsTree().WalkDown(func(k Node) bool {
		calls++
		return Continue
	})
	assert.Zero(t, calls)
}
