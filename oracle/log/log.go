package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tmlog "github.com/tendermint/tendermint/libs/log"
)

var customLog = tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stdout))

// InitLogger writes logs to stdout, filtered to level ("debug", "info",
// "error" or "none").
func InitLogger(level string) error {
	return setOutput(os.Stdout, level)
}

// ResetLogger moves all subsequent logs into <oracleHome>/logs. An empty
// oracleHome selects ~/.oracled.
func ResetLogger(oracleHome, level string) (string, error) {
	if oracleHome == "" {
		osHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		oracleHome = filepath.Join(osHome, ".oracled")
	}

	dir := filepath.Join(oracleHome, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("%s.%d.log", filepath.Base(os.Args[0]), os.Getpid())
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}

	Infof("From now on, all logs will be written to %s", path)

	return path, setOutput(file, level)
}

// Logger returns the process logger, for components that take a
// tendermint logger such as the sdk context.
func Logger() tmlog.Logger {
	return customLog
}

func setOutput(w io.Writer, level string) error {
	logger := tmlog.NewTMLogger(tmlog.NewSyncWriter(w))
	if level != "" {
		opt, err := tmlog.AllowLevel(level)
		if err != nil {
			return err
		}
		logger = tmlog.NewFilter(logger, opt)
	}
	customLog = logger
	return nil
}

func Debugf(format string, v ...any) {
	customLog.Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	customLog.Info(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	customLog.Error(fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...any) {
	customLog.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
