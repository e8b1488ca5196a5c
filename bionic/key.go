// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"fmt"
	"slices"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/spf13/cast"

	"cogentcore.org/bionic/base/errors"
)

// AnyKey is the untyped view of a [Key]. Keys are compared by identity:
// two keys are the same key only if they are the same instance, regardless
// of their names. All implementations must therefore be pointer types.
type AnyKey interface {

	// String returns the human readable name of the key,
	// which plays no part in key identity.
	String() string

	// ReadAny returns the value stored for this key at the given Meta itself,
	// without looking at any ancestors.
	ReadAny(m *Meta) (any, error)

	// WriteAny converts the given value to the storage form of the key
	// and writes it at the given Meta, which cascades the change.
	WriteAny(m *Meta, value any) error
}

// Key is a typed, identity-based token for a named slot of type T.
// A Key knows how to read and write itself against a [Meta], which
// lets the store stay agnostic of value types. Keys are typically
// declared once as package-level variables and shared by reference.
type Key[T any] interface {
	AnyKey

	// Read returns the value stored for this key at the given Meta itself,
	// without looking at any ancestors. See [GetValue] for the inherited value.
	Read(m *Meta) (T, error)

	// Write stores the given value for this key at the given Meta,
	// which cascades the change to its descendants.
	Write(m *Meta, value T) error
}

// keyString returns the name of the given key, tolerating nil.
func keyString(k AnyKey) string {
	if k == nil {
		return "<nil>"
	}
	return k.String()
}

// rawValue returns the value stored for the key at m, or an error
// wrapping [ErrUnknownKey] if m has no value for it.
func rawValue(m *Meta, k AnyKey) (any, error) {
	raw, ok := m.RawValue(k)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no value at %v", ErrUnknownKey, keyString(k), m)
	}
	return raw, nil
}

// TextKey is a text-coercing [Key]: values are stored as text, and
// values of other types written through [TextKey.WriteAny] (for example
// numbers from a seed file) are converted to text.
type TextKey struct {
	name string
}

// NewTextKey returns a new [TextKey] with the given name.
func NewTextKey(name string) *TextKey {
	return &TextKey{name: name}
}

func (k *TextKey) String() string { return k.name }

// Read returns the text stored for the key at m.
func (k *TextKey) Read(m *Meta) (string, error) {
	raw, err := rawValue(m, k)
	if err != nil {
		return "", err
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrTypeMismatch, k.name, err)
	}
	return s, nil
}

// Write stores the given text for the key at m.
func (k *TextKey) Write(m *Meta, value string) error {
	return m.SetRawValue(k, value)
}

// ReadAny implements [AnyKey].
func (k *TextKey) ReadAny(m *Meta) (any, error) {
	return k.Read(m)
}

// WriteAny implements [AnyKey] by converting the value to text.
func (k *TextKey) WriteAny(m *Meta, value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrTypeMismatch, k.name, err)
	}
	return k.Write(m, s)
}

// ValueKey is a pass-through [Key]: values are stored as they are,
// without any conversion, and read back with a type assertion.
// Writing through [ValueKey.Write] guarantees the stored type.
type ValueKey[T any] struct {
	name string
}

// NewValueKey returns a new [ValueKey] with the given name.
func NewValueKey[T any](name string) *ValueKey[T] {
	return &ValueKey[T]{name: name}
}

func (k *ValueKey[T]) String() string { return k.name }

// Read returns the value stored for the key at m. A stored nil
// is returned as the zero value of T.
func (k *ValueKey[T]) Read(m *Meta) (T, error) {
	var zero T
	raw, err := rawValue(m, k)
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %T, not %T", ErrTypeMismatch, k.name, raw, zero)
	}
	return v, nil
}

// Write stores the given value for the key at m.
func (k *ValueKey[T]) Write(m *Meta, value T) error {
	return m.SetRawValue(k, value)
}

// ReadAny implements [AnyKey].
func (k *ValueKey[T]) ReadAny(m *Meta) (any, error) {
	return k.Read(m)
}

// WriteAny implements [AnyKey]. The value must already be of type T
// (or nil); no conversion is done.
func (k *ValueKey[T]) WriteAny(m *Meta, value any) error {
	if value == nil {
		return m.SetRawValue(k, nil)
	}
	v, ok := value.(T)
	if !ok {
		var zero T
		return fmt.Errorf("%w: %q can not hold %T, want %T", ErrTypeMismatch, k.name, value, zero)
	}
	return k.Write(m, v)
}

// Keys is a registry of keys by name, used by the outer surfaces that
// refer to keys by text, such as seed files and the command line.
// Names are unique within one registry, but distinct keys with the same
// name can live in different registries; they are still different keys.
type Keys struct {
	byName map[string]AnyKey
}

// NewKeys returns a new registry with the given keys.
// It panics if a key is nil or two of the keys have the same name.
func NewKeys(keys ...AnyKey) *Keys {
	ks := &Keys{}
	for _, k := range keys {
		errors.Must(ks.Add(k))
	}
	return ks
}

// Add adds the given key, returning an error wrapping [ErrDuplicateKey]
// if another key with the same name is already registered, or one
// wrapping [ErrUnknownKey] if the key is nil.
func (ks *Keys) Add(k AnyKey) error {
	if k == nil {
		return fmt.Errorf("%w: nil key", ErrUnknownKey)
	}
	if ks.byName == nil {
		ks.byName = map[string]AnyKey{}
	}
	name := k.String()
	if prev, ok := ks.byName[name]; ok && prev != k {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, name)
	}
	ks.byName[name] = k
	return nil
}

// ByName returns the key with the given name, or an error
// wrapping [ErrUnknownKey] that suggests the closest registered name.
func (ks *Keys) ByName(name string) (AnyKey, error) {
	k, ok := ks.byName[name]
	if !ok {
		if near := ks.closest(name); near != "" {
			return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownKey, name, near)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return k, nil
}

// closest returns the registered name most similar to the given one,
// or "" if none is similar enough.
func (ks *Keys) closest(name string) string {
	lev := metrics.NewLevenshtein()
	best, score := "", 0.6
	for _, n := range ks.Names() {
		if sim := strutil.Similarity(name, n, lev); sim >= score {
			best, score = n, sim
		}
	}
	return best
}

// Text returns the key with the given name, adding a new [TextKey]
// for it if there is none.
func (ks *Keys) Text(name string) AnyKey {
	if k, ok := ks.byName[name]; ok {
		return k
	}
	k := NewTextKey(name)
	// The name is not registered yet, so Add can not fail.
	errors.Must(ks.Add(k))
	return k
}

// Names returns the sorted names of all registered keys.
func (ks *Keys) Names() []string {
	names := make([]string, 0, len(ks.byName))
	for name := range ks.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered keys.
func (ks *Keys) Len() int {
	return len(ks.byName)
}
