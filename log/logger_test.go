// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLvlFilter(t *testing.T) {
	var got []string
	h := LvlFilterHandler(LvlInfo, FuncHandler(func(r *Record) error {
		got = append(got, r.Msg)
		return nil
	}))
	l := New()
	l.SetHandler(h)
	l.Trace("trace")
	l.Debug("debug")
	l.Info("info")
	l.Error("error")
	assert.Equal(t, []string{"info", "error"}, got)
}

func TestChildContext(t *testing.T) {
	var rec *Record
	l := New("pkg", "parser")
	l.SetHandler(FuncHandler(func(r *Record) error { rec = r; return nil }))
	l.New("file", "a.tiny").Warn("recovered", "line", 3)

	require.NotNil(t, rec)
	assert.Equal(t, []interface{}{"pkg", "parser", "file", "a.tiny", "line", 3}, rec.Ctx)
	assert.Equal(t, LvlWarn, rec.Lvl)
}

func TestOddContextNormalized(t *testing.T) {
	var rec *Record
	l := New()
	l.SetHandler(FuncHandler(func(r *Record) error { rec = r; return nil }))
	l.Info("odd", "lonely")
	require.NotNil(t, rec)
	assert.Len(t, rec.Ctx, 4)
	assert.Equal(t, errorKey, rec.Ctx[2])
}

func TestLogfmtFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetHandler(StreamHandler(&buf, LogfmtFormat()))
	l.Info("cache hit", "key", "ab cd", "size", 4)
	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "lvl=info msg=\"cache hit\" key=\"ab cd\" size=4\n"), out)
}

func TestTerminalFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetHandler(StreamHandler(&buf, TerminalFormat(false)))
	l.Debug("scope entered", "depth", 2)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "DEBUG["), out)
	assert.Contains(t, out, "scope entered")
	assert.True(t, strings.HasSuffix(out, "depth=2\n"), out)
}

func TestCallerFileHandler(t *testing.T) {
	var rec *Record
	l := New()
	l.SetHandler(CallerFileHandler(FuncHandler(func(r *Record) error { rec = r; return nil })))
	l.Info("where")
	require.NotNil(t, rec)
	assert.Equal(t, "caller", rec.Ctx[0])
	assert.Contains(t, rec.Ctx[1], "logger_test.go")
}

func TestLvlFromString(t *testing.T) {
	lvl, err := LvlFromString("TRACE")
	assert.NoError(t, err)
	assert.Equal(t, LvlTrace, lvl)
	_, err = LvlFromString("loud")
	assert.Error(t, err)
}
