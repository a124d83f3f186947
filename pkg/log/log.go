package log

import (
	"flag"
	"io"
	"os"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

type Fields = logrus.Fields

// NewLogger returns the process logger, creating it on first use. Outside of
// tests it also rotates into ./storage/logs via lumberjack.
func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
		if os.Getenv("LOG_LEVEL") == "debug" {
			logger.SetLevel(logrus.DebugLevel)
		}

		logger.SetFormatter(&formatter.Formatter{
			NoColors:        false,
			TimestampFormat: "2006-01-02 15:04:05.000",
			HideKeys:        false,
		})

		writers := []io.Writer{os.Stderr}
		if os.Getenv("APP_ENV") != "test" && flag.Lookup("test.v") == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   "./storage/logs/app.log",
				LocalTime:  true,
				Compress:   true,
				MaxSize:    50,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}
		logger.SetOutput(io.MultiWriter(writers...))
	})
	return logger
}

func Debug(fields Fields, msg string) { NewLogger().WithFields(fields).Debug(msg) }
func Info(fields Fields, msg string)  { NewLogger().WithFields(fields).Info(msg) }
func Warn(fields Fields, msg string)  { NewLogger().WithFields(fields).Warn(msg) }
func Error(fields Fields, msg string) { NewLogger().WithFields(fields).Error(msg) }
