package logger

import (
	"fmt"
	"log/syslog"

	"github.com/snmp-tools/mibfs/internal/utils"
)

// SyslogLogger mirrors console output to the system log, so stores and
// compilations leave a trail after the terminal is gone.
type SyslogLogger struct {
	writer *syslog.Writer
	level  LogLevel
}

func NewSyslogLogger(tag string) (*SyslogLogger, error) {
	w, err := syslog.New(syslog.LOG_DEBUG|syslog.LOG_USER, tag)
	if err != nil {
		return nil, err
	}

	return &SyslogLogger{
		writer: w,
		level:  LogLevelInfo,
	}, nil
}

func (l *SyslogLogger) SetLogLevel(level LogLevel) {
	l.level = level
}

func (l *SyslogLogger) GetLogLevel() LogLevel {
	return l.level
}

func (l *SyslogLogger) Debugf(format string, v ...any) {
	if l.level > LogLevelDebug {
		return
	}

	_ = l.writer.Debug(fmt.Sprintf(format, v...))
}

func (l *SyslogLogger) Print(v ...any) {
	_ = l.writer.Info(fmt.Sprint(v...))
}

func (l *SyslogLogger) Printf(format string, v ...any) {
	_ = l.writer.Info(fmt.Sprintf(format, v...))
}

func (l *SyslogLogger) Info(v ...any) {
	if l.level > LogLevelInfo {
		return
	}

	_ = l.writer.Info(fmt.Sprint(v...))
}

func (l *SyslogLogger) Infof(format string, v ...any) {
	if l.level > LogLevelInfo {
		return
	}

	_ = l.writer.Info(fmt.Sprintf(format, v...))
}

func (l *SyslogLogger) Warn(v ...any) {
	if l.level > LogLevelWarn {
		return
	}

	_ = l.writer.Warning(fmt.Sprint(v...))
}

func (l *SyslogLogger) Warnf(format string, v ...any) {
	if l.level > LogLevelWarn {
		return
	}

	_ = l.writer.Warning(fmt.Sprintf(format, v...))
}

func (l *SyslogLogger) Error(v ...any) {
	if l.level > LogLevelError {
		return
	}

	_ = l.writer.Err(fmt.Sprint(v...))
}

func (l *SyslogLogger) Errorf(format string, v ...any) {
	if l.level > LogLevelError {
		return
	}

	_ = l.writer.Err(fmt.Sprintf(format, v...))
}

func (l *SyslogLogger) CmdArray(argv []string) {
	if l.level > LogLevelDebug {
		return
	}

	_ = l.writer.Debug(fmt.Sprintf("$ %v", utils.EscapeAndJoinArgs(argv)))
}

// Step numbers only make sense on a terminal; syslog gets the message.
func (l *SyslogLogger) Step(message string) {
	l.Info(message)
}
