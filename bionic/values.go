// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"fmt"

	"cogentcore.org/bionic/tree"
)

// GetValue returns the value of the given key visible at the given node:
// the value held by the node itself or by its nearest ancestor holding one.
// It returns def if no node holds the key. GetValue never fails: an invalid
// node or a stored value of the wrong type is logged and def is returned.
func GetValue[T any](s *Store, n tree.Node, key Key[T], def T) T {
	if key == nil {
		s.logError(fmt.Errorf("%w: nil key", ErrUnknownKey), "bionic: read failed")
		return def
	}
	if _, err := nodeBase(n); err != nil {
		s.logError(err, "bionic: read failed", "key", key.String())
		return def
	}
	m := s.Lookup(n, key)
	if m == nil {
		return def
	}
	v, err := key.Read(m)
	if err != nil {
		s.logError(err, "bionic: read failed", "key", key.String(), "node", m)
		return def
	}
	return v
}

// PutValue stores the given value for the given key at the given node,
// making its [Meta] if needed, and cascades the change to all of its
// descendants. Every call cascades, even if the value is unchanged.
func PutValue[T any](s *Store, n tree.Node, key Key[T], value T) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", ErrUnknownKey)
	}
	m, err := s.AttainMeta(n)
	if err != nil {
		return err
	}
	return key.Write(m, value)
}

// GetMetaValue is [GetValue] relative to the node of the given Meta.
// If that node is gone, the orphan is logged and def is returned.
func GetMetaValue[T any](m *Meta, key Key[T], def T) T {
	node, err := m.Node()
	if err != nil {
		m.store.logError(err, "bionic: read failed", "key", keyString(key))
		return def
	}
	return GetValue(m.store, node, key, def)
}

// PutMetaValue is [PutValue] at the node of the given Meta.
func PutMetaValue[T any](m *Meta, key Key[T], value T) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", ErrUnknownKey)
	}
	return key.Write(m, value)
}

// Watch subscribes the given function to changes of the given key above the
// node of m, passing it the value now visible at that node. The function
// returns [Continue] or [Consume] like a [Handler]. See [Meta.Subscribe]
// for the meaning of immediate.
func Watch[T any](m *Meta, key Key[T], immediate bool, fun func(value T, ev Event) bool) {
	var zero T
	m.Subscribe(key, immediate, func(origin, recv *Meta, ev Event) bool {
		return fun(GetMetaValue(recv, key, zero), ev)
	})
}
