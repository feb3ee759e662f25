package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/linebot/pkg/capture"
	"github.com/robotalks/linebot/pkg/config"
)

var stdout bool

func init() {
	config.SetupFlags()
	flag.BoolVar(&stdout, "stdout", stdout, "Write CSV to stdout instead of the capture CSV file.")
}

func main() {
	flag.Parse()
	conf, err := config.Resolve()
	if err != nil {
		log.Fatalln(err)
	}
	bitmap, err := conf.BitMap()
	if err != nil {
		log.Fatalln(err)
	}
	files := conf.Capture.Files.WithDefaults()
	if args := flag.Args(); len(args) > 0 {
		files.CSV = args[0]
	}

	if !stdout {
		count, err := capture.ExportFiles(files, bitmap)
		if err != nil {
			log.Fatalln(err)
		}
		log.Printf("%d frames exported to %s", count, files.Path(files.CSV))
		return
	}

	binary, err := os.Open(files.Path(files.Binary))
	if err != nil {
		log.Fatalln(err)
	}
	defer binary.Close()
	timestamps, err := os.Open(files.Path(files.Timestamps))
	if err != nil {
		log.Fatalln(err)
	}
	defer timestamps.Close()
	if _, err := capture.ExportCSV(os.Stdout, binary, timestamps, bitmap); err != nil {
		log.Fatalln(err)
	}
}
