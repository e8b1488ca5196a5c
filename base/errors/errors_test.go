// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTest = New("test error")

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	assert.Equal(t, errTest, Log(errTest))
}

func TestLog1(t *testing.T) {
	assert.Equal(t, 3, Log1(3, nil))
	assert.Equal(t, 0, Log1(strconv.Atoi("x")))
}

func TestLogTo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	assert.NoError(t, LogTo(logger, nil, "nothing"))
	assert.Empty(t, buf.String())

	err := LogTo(logger, fmt.Errorf("wrapped: %w", errTest), "write failed", "key", "title")
	assert.True(t, Is(err, errTest))
	assert.Contains(t, buf.String(), "write failed")
	assert.Contains(t, buf.String(), "key=title")
	assert.Contains(t, buf.String(), "wrapped: test error")
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(errTest) })
}

func TestCallerInfo(t *testing.T) {
	info := func() string { return CallerInfo() }()
	assert.Contains(t, info, "errors_test.go")
}

func TestJoin(t *testing.T) {
	other := New("other")
	err := Join(errTest, nil, other)
	assert.True(t, Is(err, errTest))
	assert.True(t, Is(err, other))
	assert.Nil(t, Join(nil, nil))
}
