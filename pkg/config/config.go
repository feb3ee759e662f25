package config

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/linebot/pkg/capture"
	"github.com/robotalks/linebot/pkg/link"
	"github.com/robotalks/linebot/pkg/protocol"
	"github.com/robotalks/linebot/pkg/robot"
)

// Config defines the configurations of the panel.
type Config struct {
	// File is the YAML file loaded on top of flags and env.
	File string `yaml:"-"`

	Port         string        `yaml:"port"`
	BaudRate     int           `yaml:"baud_rate"`
	PollInterval time.Duration `yaml:"poll_interval"`
	PanelID      string        `yaml:"panel_id"`
	Echo         bool          `yaml:"echo"`

	Capture   CaptureConfig   `yaml:"capture"`
	Protocol  ProtocolConfig  `yaml:"protocol"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Defaults are the values pushed by sendall, key name to
	// a number or a value name.
	Defaults map[string]string `yaml:"defaults"`
}

// CaptureConfig configures the debug capture.
type CaptureConfig struct {
	Enabled       bool `yaml:"enabled"`
	capture.Files `yaml:",inline"`
}

// ProtocolConfig overrides the wire format.
type ProtocolConfig struct {
	// Tags maps a wire tag to a key name, replacing the default vocabulary.
	Tags map[string]string `yaml:"tags"`
	// BitMap lists the word bit of each sensor position.
	BitMap []int `yaml:"bit_map"`
}

// TelemetryConfig configures telemetry publishing.
type TelemetryConfig struct {
	// MQTT is the broker URL, e.g. mqtt://localhost:1883/linebot/
	MQTT string `yaml:"mqtt"`
	// Websocket is the listen address of the telemetry websocket.
	Websocket string `yaml:"websocket"`
}

var defaultConfig = Config{
	BaudRate:     link.DefaultBaudRate,
	PollInterval: link.DefaultReadTimeout,
	Capture:      CaptureConfig{Files: capture.DefaultFiles},
}

func init() {
	if val := os.Getenv("LINEBOT_CONFIG"); val != "" {
		defaultConfig.File = val
	}
	if val := os.Getenv("LINEBOT_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("LINEBOT_BAUD_RATE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.BaudRate = n
		}
	}
	if val := os.Getenv("LINEBOT_PANEL_ID"); val != "" {
		defaultConfig.PanelID = val
	}
	if val := os.Getenv("LINEBOT_MQTT"); val != "" {
		defaultConfig.Telemetry.MQTT = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.File, "config", defaultConfig.File, "YAML config file.")
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port to connect on start.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate.")
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Serial read timeout.")
	flag.StringVar(&defaultConfig.PanelID, "panel-id", defaultConfig.PanelID, "Panel ID in telemetry topics, machine ID if empty.")
	flag.BoolVar(&defaultConfig.Echo, "echo", defaultConfig.Echo, "Display recognized tag lines.")
	flag.BoolVar(&defaultConfig.Capture.Enabled, "capture", defaultConfig.Capture.Enabled, "Write capture logs.")
	flag.StringVar(&defaultConfig.Capture.Dir, "capture-dir", defaultConfig.Capture.Dir, "Directory of capture logs.")
	flag.StringVar(&defaultConfig.Telemetry.MQTT, "mqtt", defaultConfig.Telemetry.MQTT, "MQTT broker URL for telemetry.")
	flag.StringVar(&defaultConfig.Telemetry.Websocket, "ws", defaultConfig.Telemetry.Websocket, "Listen address of telemetry websocket.")
}

// flag values are copied over the file when explicitly set.
var flagFields = map[string]func(dst, src *Config){
	"port":        func(dst, src *Config) { dst.Port = src.Port },
	"baud":        func(dst, src *Config) { dst.BaudRate = src.BaudRate },
	"poll":        func(dst, src *Config) { dst.PollInterval = src.PollInterval },
	"panel-id":    func(dst, src *Config) { dst.PanelID = src.PanelID },
	"echo":        func(dst, src *Config) { dst.Echo = src.Echo },
	"capture":     func(dst, src *Config) { dst.Capture.Enabled = src.Capture.Enabled },
	"capture-dir": func(dst, src *Config) { dst.Capture.Dir = src.Capture.Dir },
	"mqtt":        func(dst, src *Config) { dst.Telemetry.MQTT = src.Telemetry.MQTT },
	"ws":          func(dst, src *Config) { dst.Telemetry.Websocket = src.Telemetry.Websocket },
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Resolve creates the config from flags and env, loads the config
// file if specified and validates the result. Flags explicitly set on
// command line take precedence over the file.
func Resolve() (*Config, error) {
	conf := NewConfig()
	if conf.File != "" {
		if err := conf.Load(conf.File); err != nil {
			return nil, err
		}
		flag.Visit(func(f *flag.Flag) {
			if fn := flagFields[f.Name]; fn != nil {
				fn(conf, &defaultConfig)
			}
		})
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Load reads a YAML file on top of the current values.
func (c *Config) Load(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	if err = c.Parse(data); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	return nil
}

// Parse decodes YAML on top of the current values.
func (c *Config) Parse(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	file := c.File
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}
	c.File = file
	return nil
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.BaudRate)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval %v", c.PollInterval)
	}
	if _, err := c.Vocabulary(); err != nil {
		return err
	}
	if _, err := c.BitMap(); err != nil {
		return err
	}
	if _, err := c.DefaultValues(); err != nil {
		return err
	}
	return nil
}

// Vocabulary builds the tag vocabulary.
func (c *Config) Vocabulary() (*protocol.Vocabulary, error) {
	if len(c.Protocol.Tags) == 0 {
		return protocol.NewVocabulary(protocol.DefaultTags)
	}
	tags := make(map[string]protocol.Key, len(c.Protocol.Tags))
	for tag, name := range c.Protocol.Tags {
		key, err := protocol.ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
		tags[tag] = key
	}
	return protocol.NewVocabulary(tags)
}

// BitMap builds the sensor bit map.
func (c *Config) BitMap() (protocol.BitMap, error) {
	if len(c.Protocol.BitMap) == 0 {
		return protocol.DefaultBitMap, nil
	}
	return protocol.ParseBitMap(c.Protocol.BitMap)
}

// DefaultValues parses the values pushed by sendall.
func (c *Config) DefaultValues() (map[protocol.Key]byte, error) {
	values := make(map[protocol.Key]byte, len(c.Defaults))
	for name, val := range c.Defaults {
		key, err := protocol.ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("defaults: %w", err)
		}
		if _, ok := protocol.CommandFor(key); !ok {
			return nil, fmt.Errorf("defaults: %s is read-only", key)
		}
		if values[key], err = robot.ParseValue(key, val); err != nil {
			return nil, fmt.Errorf("defaults: %w", err)
		}
	}
	return values, nil
}

// DefaultKeys lists the keys in Defaults, sorted.
func (c *Config) DefaultKeys() []string {
	keys := make([]string, 0, len(c.Defaults))
	for name := range c.Defaults {
		keys = append(keys, strings.ToLower(name))
	}
	sort.Strings(keys)
	return keys
}
