// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/bionic/bionic"
)

func TestKeys(t *testing.T) {
	keys := NewKeys(titleKey, countKey)
	assert.Equal(t, 2, keys.Len())
	assert.Equal(t, []string{"count", "title"}, keys.Names())

	k, err := keys.ByName("title")
	require.NoError(t, err)
	assert.Equal(t, AnyKey(titleKey), k)

	require.NoError(t, keys.Add(titleKey))
	assert.ErrorIs(t, keys.Add(NewTextKey("title")), ErrDuplicateKey)
	assert.Panics(t, func() { NewKeys(titleKey, NewTextKey("title")) })
	assert.ErrorIs(t, keys.Add(nil), ErrUnknownKey)
	assert.Panics(t, func() { NewKeys(nil) })

	_, err = keys.ByName("titl")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.ErrorContains(t, err, `did you mean "title"`)
	_, err = keys.ByName("zzz")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.NotContains(t, err.Error(), "did you mean")

	assert.Equal(t, AnyKey(titleKey), keys.Text("title"))
	label := keys.Text("label")
	assert.IsType(t, &TextKey{}, label)
	assert.Equal(t, label, keys.Text("label"))
	assert.Equal(t, 3, keys.Len())
}

func TestTextKeyCoercion(t *testing.T) {
	s, _ := newTestStore()
	root := newWidget(nil, "root")
	m, err := s.AttainMeta(root)
	require.NoError(t, err)

	_, err = titleKey.Read(m)
	assert.ErrorIs(t, err, ErrUnknownKey)

	require.NoError(t, m.SetRawValue(titleKey, 12.5))
	v, err := titleKey.Read(m)
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)

	require.NoError(t, m.SetRawValue(titleKey, struct{}{}))
	_, err = titleKey.Read(m)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorIs(t, titleKey.WriteAny(m, struct{}{}), ErrTypeMismatch)

	raw, ok := m.RawValue(titleKey)
	assert.True(t, ok)
	assert.Equal(t, struct{}{}, raw)
	assert.ErrorIs(t, m.SetRawValue(nil, "x"), ErrUnknownKey)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "KeyChanged(title)", Event{Kind: KeyChanged, Key: titleKey}.String())
	assert.Equal(t, "KeyDeleted(count) immediate", Event{Kind: KeyDeleted, Key: countKey, Immediate: true}.String())
	assert.Equal(t, "KeyChanged(<nil>)", Event{}.String())
	assert.Equal(t, "EventKinds(7)", EventKinds(7).String())
}

func TestUnknownEventKind(t *testing.T) {
	s, _ := newTestStore()
	root := newWidget(nil, "root")
	m, err := s.AttainMeta(root)
	require.NoError(t, err)
	descend, err := m.HandleEvent(m, Event{Kind: EventKinds(7), Key: titleKey})
	assert.Error(t, err)
	assert.False(t, descend)

	descend, err = m.HandleEvent(m, Event{Kind: KeyChanged, Key: titleKey})
	require.NoError(t, err)
	assert.True(t, descend)
}
