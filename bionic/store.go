// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"fmt"
	"log/slog"
	"weak"

	"cogentcore.org/bionic/base/errors"
	"cogentcore.org/bionic/tree"
)

// minSweep is the smallest number of Metas at which
// [Store.AttainMeta] sweeps for orphans.
const minSweep = 64

// Store holds the [Meta] of every node that has stored a value or
// subscribed to a key. It maps nodes to their Metas through weak
// references, so a node that is dropped without being destroyed is
// still collected, and its Meta is purged the next time it is seen.
//
// A Store is not safe for concurrent use: all operations, including
// the handlers they call, run on the goroutine that owns the tree.
type Store struct {

	// config is the configuration of the store.
	config Config

	// logger is where failures are logged; nil means [slog.Default].
	logger *slog.Logger

	// metrics, if non-nil, counts what the store does.
	metrics *Metrics

	// metas are the Metas of the nodes, keyed by weak node reference.
	metas map[weak.Pointer[tree.NodeBase]]*Meta

	// nesting is the number of cascades currently running.
	nesting int

	// active are the cascades currently running, by start node and key.
	active map[cascade]bool

	// sweepAt is the number of Metas at which the next sweep happens.
	sweepAt int
}

// NewStore returns a new empty [Store] with the [DefaultConfig].
func NewStore() *Store {
	return &Store{
		config:  DefaultConfig(),
		metas:   map[weak.Pointer[tree.NodeBase]]*Meta{},
		active:  map[cascade]bool{},
		sweepAt: minSweep,
	}
}

// cascade identifies a running cascade of a key from a node.
type cascade struct {
	node *tree.NodeBase
	key  AnyKey
}

// SetConfig sets the configuration of the store.
func (s *Store) SetConfig(c Config) *Store {
	s.config = c
	return s
}

// Config returns the configuration of the store.
func (s *Store) Config() Config {
	return s.config
}

// SetLogger sets the logger that failures are reported to.
// A nil logger means [slog.Default].
func (s *Store) SetLogger(logger *slog.Logger) *Store {
	s.logger = logger
	return s
}

// Logger returns the logger that failures are reported to.
func (s *Store) Logger() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

// SetMetrics sets the metrics that the store updates; nil disables them.
func (s *Store) SetMetrics(m *Metrics) *Store {
	s.metrics = m
	s.metrics.setMetas(len(s.metas))
	return s
}

// Len returns the number of Metas in the store, which may include
// orphans that have not been purged yet.
func (s *Store) Len() int {
	return len(s.metas)
}

// nodeBase returns the [tree.NodeBase] of the given node,
// or an error wrapping [ErrInvalidNode] if it is nil or destroyed.
func nodeBase(n tree.Node) (*tree.NodeBase, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrInvalidNode)
	}
	nb := n.AsTree()
	if nb == nil {
		return nil, fmt.Errorf("%w: nil node", ErrInvalidNode)
	}
	if nb.IsDestroyed() {
		return nil, fmt.Errorf("%w: %q is destroyed", ErrInvalidNode, nb.Name)
	}
	return nb, nil
}

// AttainMeta returns the [Meta] of the given node, making it
// if the node has none yet.
func (s *Store) AttainMeta(n tree.Node) (*Meta, error) {
	nb, err := nodeBase(n)
	if err != nil {
		return nil, err
	}
	wp := weak.Make(nb)
	if m := s.metas[wp]; m != nil && !m.orphaned {
		return m, nil
	}
	if len(s.metas) >= s.sweepAt {
		s.Purge()
		s.sweepAt = max(minSweep, 2*len(s.metas))
	}
	m := &Meta{store: s, node: wp}
	s.metas[wp] = m
	s.metrics.setMetas(len(s.metas))
	return m, nil
}

// GetMeta returns the [Meta] of the given node, or nil if it has none.
// A destroyed node has none, and any Meta it had is purged.
func (s *Store) GetMeta(n tree.Node) *Meta {
	if n == nil {
		return nil
	}
	nb := n.AsTree()
	if nb == nil {
		return nil
	}
	m := s.metas[weak.Make(nb)]
	if m == nil {
		return nil
	}
	if nb.IsDestroyed() {
		s.orphan(m)
		return nil
	}
	return m
}

// Lookup returns the Meta of the nearest node holding a value for the
// given key, starting at the given node itself and walking up through
// its ancestors, or nil if there is none.
func (s *Store) Lookup(n tree.Node, key AnyKey) *Meta {
	nb, err := nodeBase(n)
	if err != nil {
		return nil
	}
	var found *Meta
	nb.WalkUp(func(k tree.Node) bool {
		if m := s.metas[weak.Make(k.AsTree())]; m != nil && m.Contains(key) {
			found = m
			return tree.Break
		}
		return tree.Continue
	})
	return found
}

// NotifyChildren cascades the given event from the origin Meta through
// all descendants of the given node, not including the node itself, in
// pre-order. Nodes without a Meta pass the event on to their children.
// Each node with a Meta decides through [Meta.HandleEvent] whether the
// event goes on to its children; stopping it never affects siblings.
//
// A delivery that fails, including a handler that panics, is logged and
// abandons only the subtree of that node. Handlers may write values, which
// nests cascades as deep as the tree allows. The only errors returned are
// for a cascade of a key from a node that is still cascading that key
// ([ErrCascadeLoop]), and for nesting deeper than [Config.MaxNesting]
// when it is set ([ErrCascadeNesting]). Both are logged.
func (s *Store) NotifyChildren(n tree.Node, origin *Meta, ev Event) error {
	nb, err := nodeBase(n)
	if err != nil {
		return err
	}
	c := cascade{node: nb, key: ev.Key}
	if s.active[c] {
		err := fmt.Errorf("%w: %v is already cascading %s", ErrCascadeLoop, nb, keyString(ev.Key))
		return s.logError(err, "bionic: cascade refused", "origin", origin)
	}
	if s.config.MaxNesting > 0 && s.nesting >= s.config.MaxNesting {
		err := fmt.Errorf("%w: %d cascades deep at %v for %v", ErrCascadeNesting, s.nesting, nb, ev)
		return s.logError(err, "bionic: cascade refused", "origin", origin)
	}
	s.nesting++
	s.active[c] = true
	defer func() {
		s.nesting--
		delete(s.active, c)
	}()

	nb.WalkDown(func(k tree.Node) bool {
		kb := k.AsTree()
		if kb == nb {
			return tree.Continue
		}
		m := s.metas[weak.Make(kb)]
		if m == nil || m.orphaned {
			return tree.Continue
		}
		return s.deliver(origin, m, ev)
	})
	return nil
}

// deliver delivers the event to recv, returning whether it
// goes on to the children of recv.
func (s *Store) deliver(origin, recv *Meta, ev Event) bool {
	res, err := recv.handle(origin, ev)
	if err != nil {
		s.metrics.failure()
		s.logError(err, "bionic: delivery failed", "node", recv, "event", ev)
		return false
	}
	s.metrics.delivery(res)
	if s.config.Trace {
		s.Logger().Debug("bionic: delivered", "node", recv, "origin", origin, "event", ev, "result", res)
	}
	return res.descends()
}

// call calls the handler, turning a panic into an error.
func (s *Store) call(handler Handler, origin, recv *Meta, ev Event) (cont bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bionic: handler for %v at %v panicked: %v", ev, recv, r)
		}
	}()
	return handler(origin, recv, ev), nil
}

// Forget drops the Meta of the given node, if any, along with all of
// its values and subscriptions. The node itself is not affected.
func (s *Store) Forget(n tree.Node) {
	if n == nil {
		return
	}
	if nb := n.AsTree(); nb != nil {
		if m := s.metas[weak.Make(nb)]; m != nil {
			s.orphan(m)
		}
	}
}

// Purge removes all Metas whose node has been destroyed or
// garbage collected, returning how many were removed.
func (s *Store) Purge() int {
	n := 0
	for wp, m := range s.metas {
		if wp.Value().IsDestroyed() {
			s.orphan(m)
			n++
		}
	}
	return n
}

// orphan marks the Meta as orphaned and removes it from the store.
func (s *Store) orphan(m *Meta) {
	if m.orphaned {
		return
	}
	m.orphaned = true
	if s.metas[m.node] == m {
		delete(s.metas, m.node)
		s.metrics.orphan()
		s.metrics.setMetas(len(s.metas))
	}
	if s.config.Debug {
		s.Logger().Debug("bionic: purged orphan", "metas", len(s.metas))
	}
}

// logError logs the error to the logger of the store and returns it.
func (s *Store) logError(err error, msg string, args ...any) error {
	return errors.LogTo(s.Logger(), err, msg, args...)
}
