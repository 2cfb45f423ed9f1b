// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd defines the command interface shared by the uhd utility
// and daemon subcommands.
package cmd

import "github.com/turcofran/uhd/lang"

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Close() error
	Kind() Kind
	Man() lang.Alt
	*/
}

const (
	DontFork Kind = 1 << iota
	Daemon
	Hidden
)

type Kind uint16

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

type kinder interface {
	Kind() Kind
}

func (k Kind) IsDaemon() bool { return (k & Daemon) == Daemon }
func (k Kind) IsHidden() bool { return (k & Hidden) == Hidden }

func (k Kind) String() string {
	s := "unknown"
	switch k {
	case DontFork:
		s = "don't fork"
	case Daemon:
		s = "daemon"
	case Hidden:
		s = "hidden"
	}
	return s
}

// Close stops a running daemon command if it supports that.
func Close(v Cmd) error {
	if m, found := v.(closer); found {
		return m.Close()
	}
	return nil
}

type closer interface {
	Close() error
}
