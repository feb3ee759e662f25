package capture

import (
	"errors"
	"os"
	"path/filepath"
)

// Files names the capture files.
type Files struct {
	Dir        string `yaml:"dir"`
	Text       string `yaml:"text"`
	Binary     string `yaml:"binary"`
	Timestamps string `yaml:"timestamps"`
	CSV        string `yaml:"csv"`
}

// DefaultFiles are the capture files under data/.
var DefaultFiles = Files{
	Dir:        "data",
	Text:       "serial_data_log.txt",
	Binary:     "serial_data_log.bin",
	Timestamps: "timestamps.txt",
	CSV:        "sensors.csv",
}

// Path returns the path of a capture file.
func (f Files) Path(name string) string {
	if filepath.IsAbs(name) || f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// WithDefaults fills empty names from DefaultFiles.
func (f Files) WithDefaults() Files {
	if f.Text == "" {
		f.Text = DefaultFiles.Text
	}
	if f.Binary == "" {
		f.Binary = DefaultFiles.Binary
	}
	if f.Timestamps == "" {
		f.Timestamps = DefaultFiles.Timestamps
	}
	if f.CSV == "" {
		f.CSV = DefaultFiles.CSV
	}
	return f
}

// Clear removes the logs so the next capture starts from scratch.
func Clear(files Files) error {
	for _, name := range []string{files.Text, files.Binary, files.Timestamps} {
		if err := os.Remove(files.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
