package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2beens/fitstats/pkg"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	Release          string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	if params.SentryEnabled {
		setupSentry(params)
	}

	logrus.SetLevel(ParseLevel(params.LogLevel))
	logrus.SetOutput(output(params))

	switch {
	case params.LogFileName == "":
		logrus.Println("writing logs only to STDOUT")
	case params.LogToStdout:
		logrus.Printf("writing logs to [%s] and STDOUT", logFileName(params.LogFileName))
	default:
		logrus.Printf("writing logs to [%s]", logFileName(params.LogFileName))
	}
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Release:          params.Release,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry set up")
}

// output picks stdout, the rotating file or both.
func output(params LoggerSetupParams) io.Writer {
	if params.LogFileName == "" {
		return os.Stdout
	}

	file := &lumberjack.Logger{
		Filename:   logFileName(params.LogFileName),
		MaxSize:    50, // megabytes
		MaxBackups: 20,
		MaxAge:     365, // days
		Compress:   true,
	}
	if params.LogToStdout {
		return pkg.NewTeeWriter(os.Stdout, file)
	}
	return file
}

func logFileName(name string) string {
	if strings.HasSuffix(name, ".log") {
		return name
	}
	return name + ".log"
}

// ParseLevel falls back to info for anything logrus does not know.
func ParseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
