package robot

import (
	"math"
	"strconv"
	"strings"
)

// Battery pack of the robot.
const (
	BatteryCells   = 2
	CellMaxVoltage = 5.0
)

// BatteryVoltage converts the battery byte to volts, rounded to 2 decimals.
func BatteryVoltage(raw byte) float64 {
	if raw == 0 {
		return 0
	}
	v := float64(raw) / 255 * CellMaxVoltage * BatteryCells
	return math.Round(v*100) / 100
}

// FormatVoltage formats volts like "10.0 V" or "5.02 V".
func FormatVoltage(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " V"
}
