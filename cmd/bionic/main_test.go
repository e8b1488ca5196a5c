// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/bionic/bionic"
)

const seedFile = "../../bionic/testdata/seed.toml"

func newQuietStore() *bionic.Store {
	return bionic.NewStore().SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunDemo(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, runDemo(buf, newQuietStore()))

	out, dump, ok := strings.Cut(buf.String(), "# tree\n")
	require.True(t, ok)
	want := `# master init
slave1: master.init
slave2: master.init
slave3: master.init
# master click
slave1: master.click 1
slave2: master.click 1
slave3: master.click 1
# input click
slave3: input.click 1
badge: 1 clicks
# master click
slave1: master.click 2
slave2: master.click 2
# add slave4
slave4: master.click 2
# input click
slave3: input.click 2
badge: 2 clicks
`
	assert.Equal(t, want, out)
	assert.Contains(t, dump, "master {master.message=master.click 2}")
	assert.Contains(t, dump, "input {input.clicks=2, master.message=input.click 2}")
	assert.Contains(t, dump, "agnostic\n")
	assert.Contains(t, dump, "badge [input.clicks]")
}

func TestSeedTreeGet(t *testing.T) {
	st, err := openSeedTree(newQuietStore(), seedFile)
	require.NoError(t, err)

	v, err := st.get("inbox/list", "title")
	require.NoError(t, err)
	assert.Equal(t, "Inbox", v)

	v, err = st.get("", "enabled")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = st.get("inbox/list", "titl")
	assert.ErrorIs(t, err, bionic.ErrUnknownKey)
	_, err = st.get("outbox", "title")
	assert.Error(t, err)
	_, err = st.get("", "filter")
	assert.ErrorContains(t, err, "no value")
}

func TestSeedTreeRun(t *testing.T) {
	st, err := openSeedTree(newQuietStore(), seedFile)
	require.NoError(t, err)

	script := `
# watch the list, then change things above it
subscribe inbox/list title
put "" title "All mail"
put inbox title 'Inbox (2)'
delete inbox title
get inbox/list title
`
	buf := &bytes.Buffer{}
	require.NoError(t, st.run(buf, strings.NewReader(script)))
	want := `inbox/list: KeyChanged title = "Inbox (2)"
inbox/list: KeyDeleted title = "All mail"
inbox/list title = "All mail"
`
	assert.Equal(t, want, buf.String())

	err = st.run(buf, strings.NewReader("put inbox title"))
	assert.ErrorContains(t, err, "line 1: put: want 3 arguments, got 2")
	err = st.run(buf, strings.NewReader("\n\nfrobnicate"))
	assert.ErrorContains(t, err, "line 3: frobnicate: unknown command")
	err = st.run(buf, strings.NewReader(`put inbox title "unterminated`))
	assert.Error(t, err)
}

func TestParseSubscriptions(t *testing.T) {
	subs, err := parseSubscriptions([]string{"inbox/*=title", "**=filter"})
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.True(t, subs[0].paths.Match("inbox/list"))
	assert.False(t, subs[0].paths.Match("inbox/list/item"))
	assert.True(t, subs[1].paths.Match("inbox/list/item"))
	assert.Equal(t, "filter", subs[1].key)

	_, err = parseSubscriptions([]string{"inbox"})
	assert.Error(t, err)
	_, err = parseSubscriptions([]string{"inbox/[=title"})
	assert.Error(t, err)
}

func TestWatchSeed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte("nodes:\n  - path: inbox/list\n    values:\n      title: Inbox\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	buf := &bytes.Buffer{}
	require.NoError(t, watchSeed(ctx, buf, newQuietStore(), file, []string{"inbox/*=title"}))
	assert.Empty(t, buf.String(), "subscriptions are not immediate")

	assert.Error(t, watchSeed(ctx, buf, newQuietStore(), file, []string{"bad"}))
}

func TestCommands(t *testing.T) {
	run := func(args ...string) (string, error) {
		buf := &bytes.Buffer{}
		rootCmd.SetOut(buf)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs(append([]string{"--config", "../../bionic/testdata/bionic.toml"}, args...))
		err := rootCmd.Execute()
		return buf.String(), err
	}

	out, err := run("get", seedFile, "inbox/list", "title")
	require.NoError(t, err)
	assert.Equal(t, "Inbox\n", out)

	out, err = run("dump", "--metrics", seedFile)
	require.NoError(t, err)
	assert.Contains(t, out, "root {enabled=true, title=Mail}")
	assert.Contains(t, out, "list {filter=all}")
	assert.Contains(t, out, "bionic_metas 3")

	_, err = run("get", seedFile, "inbox/list")
	assert.Error(t, err)
}
