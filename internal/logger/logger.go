// Package logger 建立服務共用的 zerolog logger
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New 依照等級建立 logger；pretty 為 true 時輸出人類可讀格式（本機開發用）
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return newLogger(w, level)
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "medtrack").Logger()
}
