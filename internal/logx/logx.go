// Package logx is the debug-logging facility shared by cmd/goglob and
// globhttp: a two-state Logger toggled by a boolean, not a leveled
// logging library, mirroring pkg/handler/logger.go.
package logx

import "log"

type Logger interface {
	Debug(string, ...interface{})
}

type fullLogger struct{}
type stubLogger struct{}

// New is a hack to enable/disable logging quickly without putting the
// logic throughout the code.
func New(debug bool) Logger {
	if debug {
		return fullLogger{}
	}
	return stubLogger{}
}

func (stubLogger) Debug(string, ...interface{}) {}

func (fullLogger) Debug(msg string, args ...interface{}) {
	data := []interface{}{msg}
	data = append(data, args...)
	log.Println(data...)
}
