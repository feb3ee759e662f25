package main

import (
	"github.com/robotalks/linebot/pkg/cli/sh"
	"github.com/robotalks/linebot/pkg/config"

	_ "github.com/robotalks/linebot/pkg/cli/cmds/all"
)

func init() {
	config.SetupFlags()
}

func main() {
	sh.Main()
}
