// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

// IndexOf returns the index of the given node in the given slice,
// or -1 if it is not found. The optional startIndex argument
// allows for optimized bidirectional searching if you have a guess
// at where the node might be, which can be a key speedup for large
// slices. If no value is specified for startIndex, it starts in the
// middle, which is a good default.
func IndexOf(slice []Node, child Node, startIndex ...int) int {
	return findFunc(slice, func(e Node) bool { return e == child }, startIndex...)
}

// IndexByName returns the index of the first element in the given slice that
// has the given name, or -1 if none is found. See [IndexOf] for info on startIndex.
func IndexByName(slice []Node, name string, startIndex ...int) int {
	return findFunc(slice, func(ch Node) bool { return ch.AsTree().Name == name }, startIndex...)
}

// findFunc searches outward in both directions from the start index,
// which is much faster than a linear scan when the guess is close.
func findFunc(s []Node, match func(e Node) bool, startIndex ...int) int {
	n := len(s)
	if n == 0 {
		return -1
	}
	si := n / 2
	if len(startIndex) > 0 && startIndex[0] >= 0 {
		si = min(startIndex[0], n-1)
	}
	for up, down := si+1, si; up < n || down >= 0; up, down = up+1, down-1 {
		if down >= 0 && match(s[down]) {
			return down
		}
		if up < n && match(s[up]) {
			return up
		}
	}
	return -1
}
