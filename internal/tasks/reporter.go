package tasks

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	taskNameFieldConstant        = "task"
	taskTypeFieldConstant        = "task_type"
	taskPathFieldConstant        = "task_path"
	templateFieldConstant        = "template"
	runIdentifierFieldConstant   = "run_id"
	parametersFieldConstant      = "params"
	searchPathsFieldConstant     = "search_paths"
	requestedScopeFieldConstant  = "scope"
	templateVersionFieldConstant = "template_version"
)

// Reporter publishes task progress.
type Reporter interface {
	Debug(message string, fields ...zap.Field)
	Info(message string, fields ...zap.Field)
	Log(message string, fields ...zap.Field)
	Error(message string, failure error, fields ...zap.Field)
	Success(message string, fields ...zap.Field)
}

// LoggerReporter writes human-facing messages to the console logger and structured events to the diagnostic logger.
// When the console logger is disabled the diagnostic logger receives every event at its own level.
type LoggerReporter struct {
	diagnosticLogger *zap.Logger
	consoleLogger    *zap.Logger
	consoleEnabled   bool
}

// NewReporter constructs a LoggerReporter. A nil console logger disables console output.
func NewReporter(diagnosticLogger *zap.Logger, consoleLogger *zap.Logger) (*LoggerReporter, error) {
	if diagnosticLogger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if consoleLogger == nil {
		consoleLogger = zap.NewNop()
	}
	return &LoggerReporter{
		diagnosticLogger: diagnosticLogger,
		consoleLogger:    consoleLogger,
		consoleEnabled:   consoleLogger.Core().Enabled(zapcore.FatalLevel),
	}, nil
}

// Debug records a diagnostic event.
func (reporter *LoggerReporter) Debug(message string, fields ...zap.Field) {
	reporter.diagnosticLogger.Debug(message, fields...)
}

// Info announces task progress.
func (reporter *LoggerReporter) Info(message string, fields ...zap.Field) {
	reporter.publish(zapcore.InfoLevel, message, fields)
}

// Log prints an informational line.
func (reporter *LoggerReporter) Log(message string, fields ...zap.Field) {
	reporter.publish(zapcore.InfoLevel, message, fields)
}

// Error reports a failure together with its cause.
func (reporter *LoggerReporter) Error(message string, failure error, fields ...zap.Field) {
	if failure != nil {
		fields = append(fields, zap.Error(failure))
	}
	reporter.publish(zapcore.ErrorLevel, message, fields)
	if failure != nil && reporter.consoleEnabled {
		reporter.consoleLogger.Error(failure.Error())
	}
}

// Success reports a completed task.
func (reporter *LoggerReporter) Success(message string, fields ...zap.Field) {
	reporter.publish(zapcore.InfoLevel, message, fields)
}

func (reporter *LoggerReporter) publish(level zapcore.Level, message string, fields []zap.Field) {
	if !reporter.consoleEnabled {
		reporter.diagnosticLogger.Log(level, message, fields...)
		return
	}
	reporter.consoleLogger.Log(level, message)
	reporter.diagnosticLogger.Debug(message, fields...)
}
