// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cogentcore.org/bionic/bionic"
	"cogentcore.org/bionic/tree"
)

var (
	// messageKey is the message the master view publishes to its subtree.
	messageKey = bionic.NewTextKey("master.message")

	// clicksKey is the number of clicks an input view publishes to its subtree.
	clicksKey = bionic.NewValueKey[int]("input.clicks")
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay the master, slave and input views demo",
	Long:  "Builds a small tree of views and replays clicks on them, printing what each view renders as values cascade down the tree.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, reg, err := newStore(cmd)
		if err != nil {
			return err
		}
		if err := runDemo(cmd.OutOrStdout(), s); err != nil {
			return err
		}
		return finish(cmd.OutOrStdout(), reg)
	},
}

// masterView publishes a message to all of the views below it.
type masterView struct {
	tree.NodeBase
	store  *bionic.Store
	clicks int
}

func (mv *masterView) start() error {
	mv.store.Logger().Debug("master: init")
	return bionic.PutValue(mv.store, mv, messageKey, "master.init")
}

func (mv *masterView) click() error {
	mv.clicks++
	mv.store.Logger().Debug("master: click", "clicks", mv.clicks)
	return bionic.PutValue(mv.store, mv, messageKey, fmt.Sprintf("master.click %d", mv.clicks))
}

// inputView overrides the message for the views below it when clicked,
// and publishes its click count.
type inputView struct {
	tree.NodeBase
	store  *bionic.Store
	clicks int
}

func (iv *inputView) click() error {
	iv.clicks++
	iv.store.Logger().Debug("input: click", "clicks", iv.clicks)
	if err := bionic.PutValue(iv.store, iv, messageKey, fmt.Sprintf("input.click %d", iv.clicks)); err != nil {
		return err
	}
	return bionic.PutValue(iv.store, iv, clicksKey, iv.clicks)
}

// agnosticView knows nothing about the values passing through it.
type agnosticView struct {
	tree.NodeBase
}

// slaveView renders the message visible to it.
type slaveView struct {
	tree.NodeBase
	out     io.Writer
	message string
}

func (sv *slaveView) attach(s *bionic.Store) error {
	m, err := s.AttainMeta(sv)
	if err != nil {
		return err
	}
	bionic.Watch(m, messageKey, true, func(msg string, ev bionic.Event) bool {
		sv.message = msg
		fmt.Fprintf(sv.out, "%s: %s\n", sv.Name, msg)
		return bionic.Continue
	})
	return nil
}

// badgeView renders the click count visible to it.
type badgeView struct {
	tree.NodeBase
	out io.Writer
}

func (bv *badgeView) attach(s *bionic.Store) error {
	m, err := s.AttainMeta(bv)
	if err != nil {
		return err
	}
	bionic.Watch(m, clicksKey, true, func(n int, ev bionic.Event) bool {
		fmt.Fprintf(bv.out, "%s: %d clicks\n", bv.Name, n)
		return bionic.Continue
	})
	return nil
}

// addView adds the given view to the parent, or makes it
// a root if the parent is nil, and names it.
func addView[T tree.Node](parent tree.Node, v T, name string) T {
	if parent == nil {
		tree.InitNode(v)
	} else {
		parent.AsTree().AddChild(v)
	}
	v.AsTree().SetName(name)
	return v
}

// runDemo builds the demo tree and replays the clicks on it,
// printing every render to w.
func runDemo(w io.Writer, s *bionic.Store) error {
	master := addView(nil, &masterView{store: s}, "master")
	slaves := []*slaveView{addView(master, &slaveView{out: w}, "slave1")}
	agnostic := addView(master, &agnosticView{}, "agnostic")
	slaves = append(slaves, addView(agnostic, &slaveView{out: w}, "slave2"))
	input := addView(master, &inputView{store: s}, "input")
	slaves = append(slaves, addView(input, &slaveView{out: w}, "slave3"))
	badge := addView(input, &badgeView{out: w}, "badge")

	for _, sv := range slaves {
		if err := sv.attach(s); err != nil {
			return err
		}
	}
	if err := badge.attach(s); err != nil {
		return err
	}

	steps := []struct {
		name string
		do   func() error
	}{
		{"master init", master.start},
		{"master click", master.click},
		{"input click", input.click},
		{"master click", master.click},
		{"add slave4", func() error {
			return addView(master, &slaveView{out: w}, "slave4").attach(s)
		}},
		{"input click", input.click},
	}
	for _, st := range steps {
		fmt.Fprintf(w, "# %s\n", st.name)
		if err := st.do(); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}
	fmt.Fprintf(w, "# tree\n%s", s.Dump(master))
	return nil
}
