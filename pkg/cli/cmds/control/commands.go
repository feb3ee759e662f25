package control

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/linebot/pkg/cli/sh"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
)

var (
	// SetCmd sends a parameter value.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "KEY VALUE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("KEY VALUE required"))
				return
			}
			key, err := protocol.ParseKey(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			val, err := robot.ParseValue(key, c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Done(c, sh.ShellFrom(c).Panel.Set(key, val))
		}),
		Completer: func(args []string) []string {
			if len(args) == 0 {
				return settableKeys()
			}
			if key, err := protocol.ParseKey(args[0]); err == nil {
				return robot.Names(key)
			}
			return nil
		},
	}

	// StartCmd starts the robot.
	StartCmd = ishell.Cmd{
		Name: "start",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Done(c, sh.ShellFrom(c).Panel.Start())
		}),
	}

	// StopCmd stops the robot.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Done(c, sh.ShellFrom(c).Panel.Stop())
		}),
	}

	// ToggleCmd starts an idle robot or stops a running one.
	ToggleCmd = ishell.Cmd{
		Name:    "toggle",
		Aliases: []string{"t"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			cmd, err := sh.ShellFrom(c).Panel.Toggle()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(cmd.String())
		}),
	}

	// SendAllCmd sends the configured default values.
	SendAllCmd = ishell.Cmd{
		Name: "sendall",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			values, err := s.Config.DefaultValues()
			if err != nil {
				c.Err(err)
				return
			}
			if len(values) == 0 {
				c.Err(fmt.Errorf("no defaults configured"))
				return
			}
			if err := s.Panel.SendAll(values); err != nil {
				c.Err(err)
				return
			}
			c.Printf("sent %s\n", strings.Join(s.Config.DefaultKeys(), " "))
		}),
	}

	// NamesCmd lists the value names of a key.
	NamesCmd = ishell.Cmd{
		Name: "names",
		Help: "KEY",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Println(strings.Join(settableKeys(), " "))
				return
			}
			key, err := protocol.ParseKey(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			names := robot.Names(key)
			if len(names) == 0 {
				c.Printf("%s takes a number in 0-255\n", key)
				return
			}
			c.Println(strings.Join(names, " "))
		},
	}
)

func settableKeys() []string {
	var keys []string
	for n := 0; n < protocol.NumKeys; n++ {
		key := protocol.Key(n)
		if _, ok := protocol.CommandFor(key); ok {
			keys = append(keys, key.String())
		}
	}
	return keys
}

func init() {
	sh.AddCmds(
		&SetCmd,
		&StartCmd,
		&StopCmd,
		&ToggleCmd,
		&SendAllCmd,
		&NamesCmd,
	)
}
