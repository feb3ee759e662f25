package capture

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/robotalks/linebot/pkg/protocol"
)

var (
	// ErrIncompleteFrame indicates the binary log ends in the middle of a frame.
	ErrIncompleteFrame = errors.New("incomplete byte pair")
	// ErrMissingTimestamp indicates fewer timestamps than frames.
	ErrMissingTimestamp = errors.New("no more timestamps available")
)

// CSVHeader is the header row of the exported CSV.
func CSVHeader() []string {
	header := []string{"index", "timestamp"}
	for i := 1; i <= protocol.NumSensors; i++ {
		header = append(header, "IR"+strconv.Itoa(i))
	}
	return header
}

// ExportCSV writes one row per captured frame and returns the number of rows.
func ExportCSV(out io.Writer, binary, timestamps io.Reader, bitmap protocol.BitMap) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write(CSVHeader()); err != nil {
		return 0, err
	}
	frames := bufio.NewReader(binary)
	stamps := bufio.NewScanner(timestamps)
	var raw [protocol.FrameSize]byte
	row := make([]string, 0, 2+protocol.NumSensors)
	count := 0
	for ; ; count++ {
		n, err := io.ReadFull(frames, raw[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return count, fmt.Errorf("frame %d: %w: %d byte", count, ErrIncompleteFrame, n)
		}
		if err != nil {
			return count, err
		}
		var stamp string
		if stamps.Scan() {
			stamp = strings.TrimSpace(stamps.Text())
		}
		if stamp == "" {
			if err = stamps.Err(); err != nil {
				return count, err
			}
			return count, fmt.Errorf("frame %d: %w", count, ErrMissingTimestamp)
		}
		bits, err := bitmap.Decode(raw[:])
		if err != nil {
			return count, err
		}
		row = append(row[:0], strconv.Itoa(count), stamp)
		for _, b := range bits {
			row = append(row, strconv.Itoa(int(b)))
		}
		if err = w.Write(row); err != nil {
			return count, err
		}
	}
	w.Flush()
	return count, w.Error()
}

// ExportFiles converts the capture logs to the CSV file.
func ExportFiles(files Files, bitmap protocol.BitMap) (int, error) {
	files = files.WithDefaults()
	binary, err := os.Open(files.Path(files.Binary))
	if err != nil {
		return 0, err
	}
	defer binary.Close()
	timestamps, err := os.Open(files.Path(files.Timestamps))
	if err != nil {
		return 0, err
	}
	defer timestamps.Close()
	out, err := os.Create(files.Path(files.CSV))
	if err != nil {
		return 0, err
	}
	count, err := ExportCSV(out, binary, timestamps, bitmap)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return count, err
}
