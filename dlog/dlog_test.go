// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dlog

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]Level{
		"":        Info,
		"error":   Error,
		"Warning": Warning,
		"INFO":    Info,
		"debug":   Debug,
		"trace":   Trace,
	} {
		got, err := ParseLevel(s)
		if err != nil {
			t.Error(s, ": unexpected error:", err)
		}
		if got != want {
			t.Error(s, ": got", got, "want", want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevelGate(t *testing.T) {
	var lines []string
	l := NewWith("eth-dispatch", func(args ...interface{}) {
		lines = append(lines, fmt.Sprint(args...))
	})
	l.Level = Info
	l.Error("nope")
	l.Debugf("offset 0x%04X", 0x1014)
	if len(lines) != 1 {
		t.Fatal("got", len(lines), "lines, want 1")
	}
	if !strings.HasPrefix(lines[0], "error: eth-dispatch: ") {
		t.Error("bad prefix:", lines[0])
	}
	l.Level = Trace
	l.Tracef("offset 0x%04X", 0x1014)
	if len(lines) != 2 || !strings.Contains(lines[1], "0x1014") {
		t.Error("trace line missing:", lines)
	}
}
