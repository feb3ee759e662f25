package capture

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/protocol"
)

func TestExportCSV(t *testing.T) {
	var out bytes.Buffer
	count, err := ExportCSV(&out,
		bytes.NewReader([]byte{0x00, 0x03, 0x01, 0x00}),
		strings.NewReader("12\n27\n"),
		protocol.DefaultBitMap)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t,
		"index,timestamp,IR1,IR2,IR3,IR4,IR5,IR6,IR7,IR8,IR9,IR10,IR11,IR12\n"+
			"0,12,1,0,0,0,0,1,0,0,0,0,0,0\n"+
			"1,27,0,1,0,0,0,0,0,0,0,0,0,0\n",
		out.String())
}

func TestExportCSVErrors(t *testing.T) {
	var out bytes.Buffer
	count, err := ExportCSV(&out,
		bytes.NewReader([]byte{0x00, 0x03, 0x01}),
		strings.NewReader("12\n27\n"),
		protocol.DefaultBitMap)
	require.ErrorIs(t, err, ErrIncompleteFrame)
	require.Equal(t, 1, count)

	out.Reset()
	_, err = ExportCSV(&out,
		bytes.NewReader([]byte{0x00, 0x03, 0x01, 0x00}),
		strings.NewReader("12\n"),
		protocol.DefaultBitMap)
	require.ErrorIs(t, err, ErrMissingTimestamp)

	out.Reset()
	count, err = ExportCSV(&out, bytes.NewReader(nil), strings.NewReader(""), protocol.DefaultBitMap)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRecorder(t *testing.T) {
	files := DefaultFiles
	files.Dir = t.TempDir()
	r, err := NewRecorder(files)
	require.NoError(t, err)

	ctx := context.Background()
	r.HandleEvent(ctx, &panel.LineEvent{Text: "KP:é"})
	r.HandleEvent(ctx, &panel.ModeEvent{Mode: protocol.ModeBinary})
	for n, raw := range [][2]byte{{0x00, 0x03}, {0xff, 0xff}} {
		r.HandleEvent(ctx, &panel.SensorEvent{Frame: protocol.Frame{
			Raw:     raw,
			Elapsed: time.Duration(n*10+5) * time.Millisecond,
		}})
	}
	r.HandleEvent(ctx, &panel.LineEvent{Text: "hello"})
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.ErrorIs(t, r.WriteLine("late"), os.ErrClosed)

	text, err := os.ReadFile(files.Path(files.Text))
	require.NoError(t, err)
	require.Equal(t, []byte("KP:\xe9\nhello\n"), text)
	binary, err := os.ReadFile(files.Path(files.Binary))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x03, 0xff, 0xff}, binary)
	stamps, err := os.ReadFile(files.Path(files.Timestamps))
	require.NoError(t, err)
	require.Equal(t, "5\n15\n", string(stamps))

	count, err := ExportFiles(files, protocol.DefaultBitMap)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	csvData, err := os.ReadFile(files.Path(files.CSV))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "1,15,1,1,1,1,1,1,1,1,1,1,1,1", lines[2])

	require.NoError(t, Clear(files))
	_, err = os.Stat(files.Path(files.Binary))
	require.True(t, os.IsNotExist(err))
	require.NoError(t, Clear(files))
}

func TestRecorderClear(t *testing.T) {
	files := DefaultFiles
	files.Dir = t.TempDir()
	r, err := NewRecorder(files)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.WriteLine("before"))
	require.NoError(t, r.WriteFrame(&protocol.Frame{Raw: [2]byte{1, 2}, Elapsed: time.Millisecond}))
	require.NoError(t, r.Clear())
	require.NoError(t, r.WriteFrame(&protocol.Frame{Raw: [2]byte{3, 4}, Elapsed: 2 * time.Millisecond}))

	text, err := os.ReadFile(files.Path(files.Text))
	require.NoError(t, err)
	require.Empty(t, text)
	binary, err := os.ReadFile(files.Path(files.Binary))
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, binary)
	stamps, err := os.ReadFile(files.Path(files.Timestamps))
	require.NoError(t, err)
	require.Equal(t, "2\n", string(stamps))
}
