package sh

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"

	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/telemetry"
)

// Display prints panel events to the shell.
type Display struct {
	Shell *Shell
}

// HandleEvent implements panel.EventHandler.
func (d *Display) HandleEvent(ctx context.Context, ev panel.Event) {
	if d.Shell.OutputJSON {
		d.printJSON(ev)
		return
	}
	if line, ok := FormatEvent(ev); ok {
		d.Shell.Shell.Println(line)
	}
	if e, ok := ev.(*panel.LinkEvent); ok && !e.Connected {
		d.Shell.Shell.SetPrompt(unconnectedPrompt)
	}
}

func (d *Display) printJSON(ev panel.Event) {
	topic, msg, ok := telemetry.Message(ev)
	if !ok {
		return
	}
	if e, isLine := ev.(*panel.LineEvent); isLine && !e.Echo {
		return
	}
	out, err := json.Marshal(map[string]interface{}{topic: msg})
	if err != nil {
		return
	}
	d.Shell.Shell.Println(string(out))
}

// FormatEvent renders an event as a line of text. Lines with
// echo off and framing mode changes are not shown.
func FormatEvent(ev panel.Event) (string, bool) {
	switch e := ev.(type) {
	case *panel.LineEvent:
		return e.Display, e.Echo
	case *panel.SensorEvent:
		return fmt.Sprintf("%d ms:  %s", e.Frame.Millis(), e.Frame.Bits.Render()), true
	case *panel.StateEvent:
		if e.Running {
			return color.GreenString("state: %s (running)", e.State), true
		}
		return color.YellowString("state: %s", e.State), true
	case *panel.LinkEvent:
		switch {
		case e.Connected:
			return color.GreenString("connected %s", e.Port), true
		case e.Err != nil:
			return color.RedString("disconnected %s: %v", e.Port, e.Err), true
		default:
			return color.YellowString("disconnected %s", e.Port), true
		}
	}
	return "", false
}
