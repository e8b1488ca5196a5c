// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"fmt"
	"slices"
	"strings"
	"weak"

	"cogentcore.org/bionic/tree"
)

// Meta is the scoped store of one node: the values the node publishes
// to its subtree, and the handlers it has subscribed for changes above it.
// A Meta is made by [Store.AttainMeta] and lives as long as its node does;
// it only holds a weak reference to the node, so it never keeps it alive.
type Meta struct {

	// store is the store that owns this Meta.
	store *Store

	// node is the weak reference back to the node of this Meta.
	// It is also the key of this Meta in [Store].
	node weak.Pointer[tree.NodeBase]

	// values are the values stored at this node. A key with a nil
	// value is present; a key with no entry is absent.
	values map[AnyKey]any

	// subscriptions are the change handlers of this node, at most one per key.
	subscriptions map[AnyKey]Handler

	// orphaned is set once the node is known to be gone.
	orphaned bool
}

// Store returns the [Store] that owns this Meta.
func (m *Meta) Store() *Store {
	return m.store
}

// Node returns the node of this Meta. If the node has been destroyed
// or garbage collected, the Meta is purged from its store and an error
// wrapping [ErrOrphanedStore] is returned.
func (m *Meta) Node() (tree.Node, error) {
	if !m.orphaned {
		if nb := m.node.Value(); !nb.IsDestroyed() {
			return nb.This, nil
		}
	}
	m.store.orphan(m)
	return nil, fmt.Errorf("%w: %v", ErrOrphanedStore, m)
}

// String returns a description of the Meta based on the path of its node.
func (m *Meta) String() string {
	if nb := m.node.Value(); !m.orphaned && !nb.IsDestroyed() {
		return "Meta(" + nb.Path() + ")"
	}
	return "Meta(orphaned)"
}

// Contains returns whether this node itself holds a value for the given key.
func (m *Meta) Contains(key AnyKey) bool {
	_, ok := m.values[key]
	return ok
}

// RawValue returns the value stored for the given key at this node itself,
// as stored by the key, and whether there is one.
func (m *Meta) RawValue(key AnyKey) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// SetRawValue stores the given raw value for the given key at this node and
// then cascades a [KeyChanged] event to all descendants. Every call cascades,
// even if the value is unchanged. Keys call this from [Key.Write]; other code
// should normally use [PutValue] or [PutMetaValue] instead.
func (m *Meta) SetRawValue(key AnyKey, raw any) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", ErrUnknownKey)
	}
	node, err := m.Node()
	if err != nil {
		return err
	}
	if m.values == nil {
		m.values = map[AnyKey]any{}
	}
	m.values[key] = raw
	m.store.metrics.write()
	return m.store.NotifyChildren(node, m, Event{Kind: KeyChanged, Key: key})
}

// DeleteValue removes the value for the given key at this node, if there
// is one, and then cascades a [KeyDeleted] event to all descendants, which
// now see the value of the nearest ancestor holding the key, if any.
func (m *Meta) DeleteValue(key AnyKey) error {
	if !m.Contains(key) {
		return nil
	}
	node, err := m.Node()
	if err != nil {
		return err
	}
	delete(m.values, key)
	m.store.metrics.write()
	return m.store.NotifyChildren(node, m, Event{Kind: KeyDeleted, Key: key})
}

// Keys returns the keys that this node holds values for, sorted by name.
func (m *Meta) Keys() []AnyKey {
	return sortedKeys(m.values)
}

// Subscribe sets the handler called when the value of the given key changes
// above this node, replacing any previous handler for the key. The handler is
// not called for changes while this node holds its own value for the key.
// A nil handler removes the subscription. If the node of m is gone,
// the failure is logged and nothing is subscribed.
//
// If immediate is true and a value for the key is already visible at this
// node, the handler is called right away with a [KeyChanged] event marked
// [Event.Immediate], with the Meta holding the value as the origin. If it
// returns [Continue], that event cascades on to the children of this node
// just like a regular change.
func (m *Meta) Subscribe(key AnyKey, immediate bool, handler Handler) {
	if handler == nil {
		m.Unsubscribe(key)
		return
	}
	node, err := m.Node()
	if err != nil {
		m.store.logError(err, "bionic: subscribe failed", "key", keyString(key))
		return
	}
	if m.subscriptions == nil {
		m.subscriptions = map[AnyKey]Handler{}
	}
	m.subscriptions[key] = handler
	if !immediate {
		return
	}
	origin := m.store.Lookup(node, key)
	if origin == nil {
		return
	}
	ev := Event{Kind: KeyChanged, Key: key, Immediate: true}
	cont, err := m.store.call(handler, origin, m, ev)
	if err != nil {
		m.store.metrics.failure()
		m.store.logError(err, "bionic: immediate delivery failed", "node", m, "event", ev)
		return
	}
	if origin != m && m.Contains(key) {
		// The handler stored its own value, which has already
		// cascaded to the children.
		m.store.metrics.delivery(resultShadowed)
		return
	}
	m.store.metrics.delivery(resultOf(cont))
	if cont {
		// NotifyChildren logs the only errors it returns here.
		_ = m.store.NotifyChildren(node, origin, ev)
	}
}

// Unsubscribe removes the handler for the given key, if any.
func (m *Meta) Unsubscribe(key AnyKey) {
	delete(m.subscriptions, key)
}

// Subscribed returns whether this node has a handler for the given key.
func (m *Meta) Subscribed(key AnyKey) bool {
	_, ok := m.subscriptions[key]
	return ok
}

// HandleEvent handles the given event sent from the origin Meta, returning
// whether the event should continue on to the children of this node.
// A node holding its own value for the event key stops the event without
// calling its handler, since neither it nor its subtree see the change.
// Otherwise the handler for the key, if any, decides; with no handler the
// event continues. A handler that stores its own value for the key also
// stops the event, whatever it returns.
func (m *Meta) HandleEvent(origin *Meta, ev Event) (bool, error) {
	res, err := m.handle(origin, ev)
	return res.descends(), err
}

// handle implements [Meta.HandleEvent], reporting what happened.
func (m *Meta) handle(origin *Meta, ev Event) (result, error) {
	if _, err := m.Node(); err != nil {
		return resultFailed, err
	}
	switch ev.Kind {
	case KeyChanged, KeyDeleted:
		if m.Contains(ev.Key) {
			return resultShadowed, nil
		}
		handler := m.subscriptions[ev.Key]
		if handler == nil {
			return resultPassthrough, nil
		}
		cont, err := m.store.call(handler, origin, m, ev)
		if err != nil {
			return resultFailed, err
		}
		if m.Contains(ev.Key) {
			return resultShadowed, nil
		}
		return resultOf(cont), nil
	}
	return resultFailed, fmt.Errorf("bionic: unknown event kind %v at %v", ev.Kind, m)
}

// result is what happened when an event was delivered to a Meta.
type result int32

const (
	// resultPassthrough is for a Meta with no handler for the key.
	resultPassthrough result = iota

	// resultContinue is for a handler that returned [Continue].
	resultContinue

	// resultConsumed is for a handler that returned [Consume].
	resultConsumed

	// resultShadowed is for a Meta holding its own value for the key.
	resultShadowed

	// resultFailed is for a delivery that failed.
	resultFailed
)

func resultOf(cont bool) result {
	if cont {
		return resultContinue
	}
	return resultConsumed
}

func (r result) String() string {
	switch r {
	case resultPassthrough:
		return "passthrough"
	case resultContinue:
		return "continue"
	case resultConsumed:
		return "consumed"
	case resultShadowed:
		return "shadowed"
	}
	return "failed"
}

// descends returns whether the event goes on to the children.
func (r result) descends() bool {
	return r == resultPassthrough || r == resultContinue
}

// sortedKeys returns the keys of the given map sorted by name.
func sortedKeys[V any](mp map[AnyKey]V) []AnyKey {
	keys := make([]AnyKey, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b AnyKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}
