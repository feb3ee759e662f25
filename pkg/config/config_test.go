package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linebot/pkg/protocol"
)

func TestDefaults(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Validate())
	require.Equal(t, 74880, conf.BaudRate)
	bitmap, err := conf.BitMap()
	require.NoError(t, err)
	require.Equal(t, protocol.DefaultBitMap, bitmap)
	require.NotSame(t, Default(), conf)
}

func TestParse(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Parse([]byte(`
port: /dev/rfcomm0
baud_rate: 115200
poll_interval: 20ms
panel_id: bench
capture:
  enabled: true
  dir: /tmp/linebot
protocol:
  tags:
    "S_TIME:": stop_time
    "KP:": kp
  bit_map: [0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11]
telemetry:
  mqtt: mqtt://localhost:1883/linebot/
defaults:
  kp: 12
  r_mode: base_pid
  log: "on"
`)))
	require.NoError(t, conf.Validate())
	require.Equal(t, "/dev/rfcomm0", conf.Port)
	require.Equal(t, 115200, conf.BaudRate)
	require.Equal(t, 20*time.Millisecond, conf.PollInterval)
	require.Equal(t, "bench", conf.Identity())
	require.True(t, conf.Capture.Enabled)
	require.Equal(t, "/tmp/linebot", conf.Capture.Dir)
	require.Equal(t, "timestamps.txt", conf.Capture.Timestamps)

	vocab, err := conf.Vocabulary()
	require.NoError(t, err)
	key, _, ok := vocab.Match([]byte("S_TIME:\x01"))
	require.True(t, ok)
	require.Equal(t, protocol.KeyStopTime, key)
	_, _, ok = vocab.Match([]byte("KI:\x01"))
	require.False(t, ok)

	values, err := conf.DefaultValues()
	require.NoError(t, err)
	require.Equal(t, map[protocol.Key]byte{
		protocol.KeyKP:          12,
		protocol.KeyRunningMode: 1,
		protocol.KeyLogData:     1,
	}, values)
	require.Equal(t, []string{"kp", "log", "r_mode"}, conf.DefaultKeys())
}

func TestValidateErrors(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"bit map length", "protocol:\n  bit_map: [0, 1]\n"},
		{"bit map duplicated", "protocol:\n  bit_map: [0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10]\n"},
		{"tag prefix", "protocol:\n  tags:\n    \"K\": kp\n    \"KP:\": kp\n"},
		{"tag key", "protocol:\n  tags:\n    \"SPEED:\": speed\n"},
		{"read-only default", "defaults:\n  battery: 1\n"},
		{"default value", "defaults:\n  kp: 300\n"},
		{"baud", "baud_rate: 0\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			require.NoError(t, conf.Parse([]byte(tc.yaml)))
			require.Error(t, conf.Validate())
		})
	}
	require.Error(t, NewConfig().Parse([]byte("unknown_field: 1\n")))
}

func TestLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "linebot.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("echo: true\n"), 0644))
	conf := NewConfig()
	conf.File = fn
	require.NoError(t, conf.Load(fn))
	require.True(t, conf.Echo)
	require.Equal(t, fn, conf.File)

	require.NoError(t, os.WriteFile(fn, nil, 0644))
	require.NoError(t, NewConfig().Load(fn))
	require.Error(t, NewConfig().Load(fn+".missing"))
}

func TestNewPanel(t *testing.T) {
	conf := NewConfig()
	conf.Echo = true
	p, err := conf.NewPanel()
	require.NoError(t, err)
	require.True(t, p.Worker.Echo())
	require.Equal(t, conf.BaudRate, p.Link.BaudRate)

	rec, err := conf.NewRecorder()
	require.NoError(t, err)
	require.Nil(t, rec)
	q, err := conf.NewQueue()
	require.NoError(t, err)
	require.Nil(t, q)
	require.Nil(t, conf.NewHub())
}
