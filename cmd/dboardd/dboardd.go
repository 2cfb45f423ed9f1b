// Copyright © 2018-2021 the uhd authors. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package dboardd initializes the daughterboard in a slot and publishes
// its sensor readings to redis.
package dboardd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"

	"github.com/turcofran/uhd/cmd"
	"github.com/turcofran/uhd/dboard"
	"github.com/turcofran/uhd/dboard/titanium"
	"github.com/turcofran/uhd/dlog"
	"github.com/turcofran/uhd/lang"
)

type Command struct {
	db    dboard.Manager
	stop  chan struct{}
	pub   *publisher.Publisher
	lasts map[string]string
}

func (*Command) String() string { return "dboardd" }

func (*Command) Usage() string { return "dboardd [-slot SLOT]" }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "daughterboard daemon, publishes sensors to redis",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Power up and initialize the daughterboard in SLOT (default 0),
	then publish changed sensor readings every few seconds under
	dboard.SLOT.{rx,tx}.NAME.`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(args ...string) error {
	parm, args := parms.New(args, "-slot")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	slot := 0
	if s := parm.ByName["-slot"]; s != "" {
		var err error
		if slot, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("-slot %s: %v", s, err)
		}
	}

	if err := redis.IsReady(); err != nil {
		return err
	}

	log := dlog.New(fmt.Sprint("dboard", slot))
	db := titanium.New(log, slot, nil, dboard.SpiNodes())
	ok, err := db.Init(nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no daughterboard in slot %d", slot)
	}
	c.db = db
	defer c.db.TearDown()

	if c.pub, err = publisher.New(); err != nil {
		return err
	}

	c.stop = make(chan struct{})
	c.lasts = make(map[string]string)

	t := time.NewTicker(5 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return nil
		case <-t.C:
			c.update(slot)
		}
	}
}

// Close may race an early Main failure, so tolerate a never-made stop.
func (c *Command) Close() error {
	if c.stop != nil {
		close(c.stop)
	}
	return nil
}

func (c *Command) update(slot int) {
	for _, dir := range []string{"rx", "tx"} {
		names, err := c.db.Sensors(dir)
		if err != nil {
			continue
		}
		for _, name := range names {
			r, err := c.db.Sensor(dir, name, 0)
			if err != nil {
				continue
			}
			k := fmt.Sprintf("dboard.%d.%s.%s", slot, dir, name)
			if v := r["value"]; v != c.lasts[k] {
				c.pub.Print(k, ": ", v)
				c.lasts[k] = v
			}
		}
	}
}
