package logs

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/linebot/pkg/capture"
	"github.com/robotalks/linebot/pkg/cli/sh"
)

var (
	// ExportCmd converts the capture logs to CSV.
	ExportCmd = ishell.Cmd{
		Name:    "capture.export",
		Aliases: []string{"export"},
		Help:    "[CSV_FILE]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			bitmap, err := s.Config.BitMap()
			if err != nil {
				c.Err(err)
				return
			}
			files := s.Config.Capture.Files.WithDefaults()
			if len(c.Args) > 0 {
				files.CSV = c.Args[0]
			}
			count, err := capture.ExportFiles(files, bitmap)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d frames exported to %s\n", count, files.Path(files.CSV))
		},
	}

	// ClearCmd clears the capture logs.
	ClearCmd = ishell.Cmd{
		Name:    "capture.clear",
		Aliases: []string{"clear"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if s.Recorder != nil {
				sh.Done(c, s.Recorder.Clear())
				return
			}
			sh.Done(c, capture.Clear(s.Config.Capture.Files.WithDefaults()))
		},
	}

	// FilesCmd prints the capture files.
	FilesCmd = ishell.Cmd{
		Name: "capture.files",
		Help: "",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			files := s.Config.Capture.Files.WithDefaults()
			if s.OutputJSON {
				sh.PrintJSON(c, files)
				return
			}
			state := "off"
			if s.Recorder != nil {
				state = "on"
			}
			c.Println(fmt.Sprintf("capture %s", state))
			for _, name := range []string{files.Text, files.Binary, files.Timestamps, files.CSV} {
				c.Println(files.Path(name))
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&ExportCmd,
		&ClearCmd,
		&FilesCmd,
	)
}
