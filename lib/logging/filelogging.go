package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Logger builds the service logger. Output goes to stdout unless filePath is
// set, in which case each run writes a timestamped file beside it so a
// restart never clobbers the previous run's log.
func Logger(filePath string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(log.DEBUG),
		lecho.WithTimestamp(),
	)
	if filePath == "" {
		return logger
	}

	file, err := openLogFile(filePath)
	if err != nil {
		logger.Errorf("Failed to open log file, staying on stdout: %v", err)
		return logger
	}
	logger.SetOutput(file)
	return logger
}

func openLogFile(path string) (*os.File, error) {
	stamp := time.Now().Format("20060102-150405")
	if ext := filepath.Ext(path); ext != "" {
		path = strings.TrimSuffix(path, ext) + "-" + stamp + ext
	} else {
		path = fmt.Sprintf("%s-%s", path, stamp)
	}
	return os.Create(path)
}
