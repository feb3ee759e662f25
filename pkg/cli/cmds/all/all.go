// Package all registers all shell commands.
package all

import (
	// register commands
	_ "github.com/robotalks/linebot/pkg/cli/cmds/control"
	_ "github.com/robotalks/linebot/pkg/cli/cmds/logs"
)
