package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var minLevel atomic.Int32

// Initialize logging flags (called once from main)
func Init() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

// SetLevel accepts debug, info, warn or error. Unknown values fall back to info.
func SetLevel(level string) {
	minLevel.Store(int32(ParseLevel(level)))
}

func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(l Level) bool {
	return int32(l) >= minLevel.Load()
}

func Infof(format string, v ...any) {
	if enabled(LevelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
}

func Warnf(format string, v ...any) {
	if enabled(LevelWarn) {
		log.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...any) {
	log.Printf("[ERROR] "+format, v...)
}

func Debugf(format string, v ...any) {
	if enabled(LevelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Fatalf(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}

// Resty adapts the package functions to resty's Logger interface.
type Resty struct{}

func (Resty) Errorf(format string, v ...any) { Errorf(format, v...) }
func (Resty) Warnf(format string, v ...any)  { Warnf(format, v...) }
func (Resty) Debugf(format string, v ...any) { Debugf(format, v...) }
