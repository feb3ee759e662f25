// Package telemetry republishes panel events for remote monitoring.
package telemetry
