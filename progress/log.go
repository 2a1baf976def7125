package progress

import (
	"log"
	"time"
)

// Log is a Reporter that writes one line per event through the standard
// library's log package — the teacher repo's own ambient logging choice
// (apps/parser uses plain "log", no structured-logging library); no example
// repo in the retrieval pack that also fits this domain pulls in a
// structured-logging library, so this system follows suit (see DESIGN.md).
type Log struct {
	logger *log.Logger
}

// NewLog builds a Log reporter. A nil logger falls back to log.Default().
func NewLog(logger *log.Logger) Log {
	if logger == nil {
		logger = log.Default()
	}
	return Log{logger: logger}
}

func (l Log) OnIterationStart(readyCount int) {
	l.logger.Printf("pipeline: iteration boundary, %d job(s) ready", readyCount)
}

func (l Log) OnJobStart(jobName string) {
	l.logger.Printf("pipeline: job %q starting", jobName)
}

func (l Log) OnJobComplete(jobName string, succeeded bool, duration time.Duration) {
	outcome := "succeeded"
	if !succeeded {
		outcome = "failed"
	}
	l.logger.Printf("pipeline: job %q %s in %s", jobName, outcome, duration)
}

func (l Log) OnPluginStage(stage, modulePath string) {
	l.logger.Printf("plugin: %s (%s)", stage, modulePath)
}

func (l Log) OnError(err error) {
	l.logger.Printf("pipeline: error: %v", err)
}

var _ Reporter = Log{}
