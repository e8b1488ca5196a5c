// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package bionic provides scoped, hierarchical state sharing across a tree of
widgets. A node publishes a value under a [Key], and every descendant sees
that value until a nearer node publishes the same key:

	title := bionic.NewTextKey("title")
	store := bionic.NewStore()
	bionic.PutValue(store, page, title, "Inbox")
	bionic.GetValue(store, label, title, "") // "Inbox"

Descendants can subscribe to a key on their [Meta] and are notified,
synchronously and in pre-order, whenever the value they see changes above
them. A node that holds its own value for a key is insulated from changes
to that key above it, as is its whole subtree. A handler returns [Continue]
to let the change flow on to its children, or [Consume] to stop it there.

All operations are single-threaded and must happen on the goroutine that
owns the tree. The [Store] never keeps a node alive: it only holds weak
references to nodes, and forgets a node once it is destroyed or collected.
*/
package bionic
