// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import "cogentcore.org/bionic/base/errors"

var (
	// ErrOrphanedStore is reported when a [Meta] is asked for its node but the
	// node has been destroyed or garbage collected. The stale Meta is purged
	// from its [Store] when this is detected.
	ErrOrphanedStore = errors.New("bionic: meta has no live node")

	// ErrInvalidNode is reported when an operation that requires a node
	// is given a nil or destroyed one.
	ErrInvalidNode = errors.New("bionic: invalid node")

	// ErrTypeMismatch is reported when a stored value can not be read
	// as the type of the key it is stored under.
	ErrTypeMismatch = errors.New("bionic: stored value does not match key type")

	// ErrCascadeNesting is reported when handlers that write values
	// nest cascades deeper than [Config.MaxNesting].
	ErrCascadeNesting = errors.New("bionic: cascade nesting limit exceeded")

	// ErrCascadeLoop is reported when a handler starts a cascade of a key
	// from a node that is still cascading that same key.
	ErrCascadeLoop = errors.New("bionic: cascade feedback loop")

	// ErrUnknownKey is reported when a key name is not in a [Keys] registry.
	ErrUnknownKey = errors.New("bionic: unknown key")

	// ErrDuplicateKey is reported when a key name is already in a [Keys] registry.
	ErrDuplicateKey = errors.New("bionic: duplicate key name")
)
