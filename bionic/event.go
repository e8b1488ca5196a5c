// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import "fmt"

// EventKinds are the kinds of [Event] that cascade down the tree.
type EventKinds int32

const (
	// KeyChanged is sent when a value is written for the event key.
	KeyChanged EventKinds = iota

	// KeyDeleted is sent when a value is removed for the event key,
	// so nodes below now see the value of a farther ancestor, if any.
	KeyDeleted
)

// String returns the name of the event kind.
func (k EventKinds) String() string {
	switch k {
	case KeyChanged:
		return "KeyChanged"
	case KeyDeleted:
		return "KeyDeleted"
	}
	return fmt.Sprintf("EventKinds(%d)", int32(k))
}

// Event is a change event cascaded from the writing node down
// through its descendants.
type Event struct {

	// Kind is the kind of change.
	Kind EventKinds

	// Key is the key whose value changed.
	Key AnyKey

	// Immediate is set for the synthetic event delivered by
	// [Meta.Subscribe] when a value already exists at subscription time.
	Immediate bool
}

func (ev Event) String() string {
	s := ev.Kind.String() + "(" + keyString(ev.Key) + ")"
	if ev.Immediate {
		s += " immediate"
	}
	return s
}

// Handler handles an [Event] delivered to the Meta recv, sent from the
// Meta origin that wrote the value. It returns [Continue] to let the event
// propagate to the children of recv's node, or [Consume] to stop it there.
type Handler func(origin, recv *Meta, ev Event) bool

const (
	// Continue can be returned from a [Handler] to keep propagating
	// the event down the tree.
	Continue = true

	// Consume can be returned from a [Handler] to stop the event
	// at the receiving node.
	Consume = false
)
