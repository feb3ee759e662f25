package sh

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/linebot/pkg/link"
	"github.com/robotalks/linebot/pkg/protocol"
)

// StatusEntry is a key in status output.
type StatusEntry struct {
	Key     string `json:"key"`
	Raw     *byte  `json:"raw,omitempty"`
	Value   *int   `json:"value,omitempty"`
	Display string `json:"display"`
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "[-v]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 && c.Args[0] == "-v" {
				infos, err := link.DetailedPorts()
				if err != nil {
					c.Err(err)
					return
				}
				if s.OutputJSON {
					if infos == nil {
						infos = []link.PortInfo{}
					}
					PrintJSON(c, infos)
					return
				}
				for _, info := range infos {
					c.Println(info.String())
				}
				return
			}
			names, err := s.Panel.Ports()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if names == nil {
					names = []string{}
				}
				PrintJSON(c, names)
				return
			}
			if len(names) == 0 {
				c.Println("No ports found")
				return
			}
			current := s.Panel.Link.Port()
			for _, name := range names {
				if name == current {
					c.Println(name + " *")
				} else {
					c.Println(name)
				}
			}
		},
	}

	// ConnectCmd connects a port.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "PORT",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var port string
			if len(c.Args) > 0 {
				port = c.Args[0]
			} else {
				names, err := s.Panel.Ports()
				if err != nil {
					c.Err(err)
					return
				}
				switch {
				case len(names) == 0:
					c.Err(fmt.Errorf("no port found"))
					return
				case len(names) == 1:
					port = names[0]
				case !s.Interactive:
					c.Err(fmt.Errorf("PORT required, more than 1 ports found"))
					return
				default:
					n := s.Shell.MultiChoice(names, "Which one to connect?")
					if n < 0 {
						return
					}
					port = names[n]
				}
			}
			Done(c, s.Connect(port))
		},
	}

	// DisconnectCmd disconnects current port.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// StatusCmd prints the robot configuration and state.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			snapshot := s.Panel.Snapshot()
			entries := make([]StatusEntry, 0, protocol.NumKeys)
			for n := 0; n < protocol.NumKeys; n++ {
				key := protocol.Key(n)
				entry := StatusEntry{Key: key.String(), Display: snapshot.Display(key)}
				if v, ok := snapshot.Get(key); ok {
					raw, val := v.Raw, v.Value
					entry.Raw, entry.Value = &raw, &val
				}
				entries = append(entries, entry)
			}
			if s.OutputJSON {
				PrintJSON(c, entries)
				return
			}
			if port := s.Panel.Link.Port(); port != "" {
				c.Printf("%-10s %s\n", "port", port)
			} else {
				c.Printf("%-10s %s\n", "port", "-")
			}
			for _, entry := range entries {
				display := entry.Display
				if display == "" {
					display = "-"
				}
				c.Printf("%-10s %s\n", entry.Key, display)
			}
		},
	}

	// EchoCmd switches debug echo of tagged lines.
	EchoCmd = ishell.Cmd{
		Name: "echo",
		Help: "[on|off]",
		Func: func(c *ishell.Context) {
			w := ShellFrom(c).Panel.Worker
			if len(c.Args) == 0 {
				c.Println(onOff(w.Echo()))
				return
			}
			switch strings.ToLower(c.Args[0]) {
			case "on", "1", "true":
				w.SetEcho(true)
			case "off", "0", "false":
				w.SetEcho(false)
			default:
				c.Err(fmt.Errorf("invalid echo switch %q", c.Args[0]))
			}
		},
	}
)

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
