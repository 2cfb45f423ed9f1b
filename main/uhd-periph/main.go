// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Uhd-periph bundles the peripheral control commands into one binary,
// dispatched by the first argument.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/turcofran/uhd/cmd"
	"github.com/turcofran/uhd/cmd/dboardd"
	"github.com/turcofran/uhd/cmd/ethdispcfg"
	"github.com/turcofran/uhd/cmd/ethdispd"
)

var byName = map[string]cmd.Cmd{}

func plot(cmds ...cmd.Cmd) {
	for _, c := range cmds {
		byName[c.String()] = c
	}
}

func main() {
	plot(
		ethdispcfg.Command{},
		&ethdispd.Command{},
		&dboardd.Command{},
	)
	if err := run(os.Args[1:]...); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}
}

func run(args ...string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-help" {
		usage()
		return nil
	}
	c, found := byName[args[0]]
	if !found {
		usage()
		return fmt.Errorf("%s: command not found", args[0])
	}
	if cmd.WhatKind(c).IsDaemon() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-stop
			cmd.Close(c)
		}()
	}
	return c.Main(args[1:]...)
}

func usage() {
	fmt.Println("usage: uhd-periph COMMAND [ARGS]...")
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := byName[name]
		fmt.Printf("\t%-12s%s\n", name, c.Apropos())
		fmt.Printf("\t\t%s\n", c.Usage())
	}
}
