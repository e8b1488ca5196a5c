// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"cogentcore.org/bionic/base/errors"
	"cogentcore.org/bionic/bionic"
	"cogentcore.org/bionic/tree"
)

var (
	flagRoot      string
	flagSubscribe []string
)

func init() {
	for _, cmd := range []*cobra.Command{dumpCmd, getCmd, runCmd, watchCmd} {
		cmd.Flags().StringVar(&flagRoot, "root", "root", "name of the root node the seed is applied to")
	}
	watchCmd.Flags().StringArrayVar(&flagSubscribe, "subscribe", nil, "subscribe nodes matching a path glob to a key, as glob=key (repeatable)")
}

// seedTree is a tree built from a seed file, with a registry of all
// of the keys the seed names, all as text keys.
type seedTree struct {
	store *bionic.Store
	root  *tree.NodeBase
	keys  *bionic.Keys
}

// openSeedTree reads the given seed file and applies it to a new tree.
func openSeedTree(s *bionic.Store, filename string) (*seedTree, error) {
	st := &seedTree{store: s, root: tree.NewNodeBase().SetName(flagRoot), keys: bionic.NewKeys()}
	return st, st.apply(filename)
}

// apply reads the given seed file and applies it to the tree,
// making any missing nodes.
func (st *seedTree) apply(filename string) error {
	sd, err := bionic.OpenSeed(filename)
	if err != nil {
		return err
	}
	for _, sn := range sd.Nodes {
		for name := range sn.Values {
			st.keys.Text(name)
		}
	}
	return sd.Apply(st.store, st.root, st.keys, true)
}

// node returns the node at the given path, relative to the root.
func (st *seedTree) node(path string) (tree.Node, error) {
	n := st.root.FindPath(path)
	if n == nil {
		return nil, fmt.Errorf("no node at %q under %s", path, st.root.Name)
	}
	return n, nil
}

// textKey returns the text key with the given name.
func (st *seedTree) textKey(name string) *bionic.TextKey {
	return st.keys.Text(name).(*bionic.TextKey)
}

// get returns the value of the key visible at the given path.
func (st *seedTree) get(path, key string) (string, error) {
	n, err := st.node(path)
	if err != nil {
		return "", err
	}
	if _, err := st.keys.ByName(key); err != nil {
		return "", err
	}
	if st.store.Lookup(n, st.textKey(key)) == nil {
		return "", fmt.Errorf("no value for %q at %q", key, path)
	}
	return bionic.GetValue(st.store, n, st.textKey(key), ""), nil
}

// subscribe subscribes the node at the given path to the given key,
// printing every change it sees to w.
func (st *seedTree) subscribe(w io.Writer, n tree.Node, key string) error {
	m, err := st.store.AttainMeta(n)
	if err != nil {
		return err
	}
	path := n.AsTree().PathFrom(st.root)
	bionic.Watch(m, st.textKey(key), false, func(v string, ev bionic.Event) bool {
		fmt.Fprintf(w, "%s: %s %s = %q\n", pathLabel(path), ev.Kind, key, v)
		return bionic.Continue
	})
	return nil
}

// pathLabel returns the path for printing, with "." for the root.
func pathLabel(path string) string {
	if path == "" {
		return "."
	}
	return path
}

var dumpCmd = &cobra.Command{
	Use:   "dump <seed>",
	Short: "Apply a seed file to a new tree and print the tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, reg, err := newStore(cmd)
		if err != nil {
			return err
		}
		st, err := openSeedTree(s, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), s.Dump(st.root))
		return finish(cmd.OutOrStdout(), reg)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <seed> <path> <key>",
	Short: "Print the value of a key visible at a node of a seeded tree",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := newStore(cmd)
		if err != nil {
			return err
		}
		st, err := openSeedTree(s, args[0])
		if err != nil {
			return err
		}
		v, err := st.get(args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <seed> <script>",
	Short: "Run a script of store operations on a seeded tree",
	Long: `Run a script of store operations on a seeded tree, one per line:

	put <path> <key> <value>   store a value, cascading the change
	delete <path> <key>        delete a value, cascading the change
	get <path> <key>           print the value visible at a node
	subscribe <path> <key>     print every change seen at a node
	dump                       print the tree

Arguments are split like shell words, so values can be quoted.
Lines starting with # are comments.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, reg, err := newStore(cmd)
		if err != nil {
			return err
		}
		st, err := openSeedTree(s, args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := st.run(cmd.OutOrStdout(), f); err != nil {
			return err
		}
		return finish(cmd.OutOrStdout(), reg)
	},
}

// run runs the script read from r, printing its output to w.
func (st *seedTree) run(w io.Writer, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shellwords.Parse(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", ln, err)
		}
		if len(args) == 0 {
			continue
		}
		if err := st.exec(w, args); err != nil {
			return fmt.Errorf("line %d: %s: %w", ln, args[0], err)
		}
	}
	return sc.Err()
}

// exec runs one script command.
func (st *seedTree) exec(w io.Writer, args []string) error {
	want := map[string]int{"put": 4, "delete": 3, "get": 3, "subscribe": 3, "dump": 1}
	n, ok := want[args[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if len(args) != n {
		return fmt.Errorf("want %d arguments, got %d", n-1, len(args)-1)
	}
	if args[0] == "dump" {
		fmt.Fprint(w, st.store.Dump(st.root))
		return nil
	}
	if args[0] == "get" {
		v, err := st.get(args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s = %q\n", pathLabel(args[1]), args[2], v)
		return nil
	}
	node, err := st.node(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "put":
		return bionic.PutValue(st.store, node, st.textKey(args[2]), args[3])
	case "delete":
		m := st.store.GetMeta(node)
		if m == nil {
			return nil
		}
		return m.DeleteValue(st.textKey(args[2]))
	default:
		return st.subscribe(w, node, args[2])
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch <seed>",
	Short: "Apply a seed file and apply it again whenever it changes",
	Long:  "Applies a seed file to a new tree, subscribes the nodes given by --subscribe, and applies the seed file again whenever it is written, printing every change the subscribed nodes see. It runs until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, reg, err := newStore(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := watchSeed(ctx, cmd.OutOrStdout(), s, args[0], flagSubscribe); err != nil {
			return err
		}
		return finish(cmd.OutOrStdout(), reg)
	},
}

// subscription is a parsed --subscribe flag.
type subscription struct {
	paths glob.Glob
	key   string
}

func parseSubscriptions(flags []string) ([]subscription, error) {
	subs := make([]subscription, 0, len(flags))
	for _, f := range flags {
		pattern, key, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --subscribe %q: want glob=key", f)
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid --subscribe %q: %w", f, err)
		}
		subs = append(subs, subscription{paths: g, key: key})
	}
	return subs, nil
}

// subscribeAll subscribes every node matching a subscription that
// is not subscribed to its key yet.
func (st *seedTree) subscribeAll(w io.Writer, subs []subscription) error {
	var err error
	st.root.WalkDown(func(n tree.Node) bool {
		path := n.AsTree().PathFrom(st.root)
		for _, sub := range subs {
			if !sub.paths.Match(path) {
				continue
			}
			if m := st.store.GetMeta(n); m != nil && m.Subscribed(st.textKey(sub.key)) {
				continue
			}
			if err = st.subscribe(w, n, sub.key); err != nil {
				return tree.Break
			}
		}
		return tree.Continue
	})
	return err
}

// watchSeed applies the seed file, subscribes the nodes, and then
// applies the file again every time it is written, until ctx is done.
// All store operations happen on the calling goroutine.
func watchSeed(ctx context.Context, w io.Writer, s *bionic.Store, filename string, flags []string) error {
	subs, err := parseSubscriptions(flags)
	if err != nil {
		return err
	}
	st := &seedTree{store: s, root: tree.NewNodeBase().SetName(flagRoot), keys: bionic.NewKeys()}
	for _, sub := range subs {
		st.textKey(sub.key)
	}
	if err := st.apply(filename); err != nil {
		return err
	}
	if err := st.subscribeAll(w, subs); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		return err
	}
	abs, _ := filepath.Abs(filename)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if p, _ := filepath.Abs(ev.Name); p != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.Logger().Info("seed changed", "file", filename, "op", ev.Op)
			if err := st.apply(filename); err != nil {
				s.Logger().Error("applying seed", "file", filename, "err", err)
				continue
			}
			if err := st.subscribeAll(w, subs); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.Logger().Error("watching seed", "file", filename, "err", err)
		}
	}
}
