package service

import "log/slog"

// SlogJournal adapts a slog.Logger to the Journal interface.
type SlogJournal struct {
	logger *slog.Logger
}

// NewSlogJournal returns a Journal backed by the supplied logger, or by
// slog.Default when logger is nil.
func NewSlogJournal(logger *slog.Logger) *SlogJournal {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogJournal{logger: logger}
}

func (j *SlogJournal) Debug(message string) { j.logger.Debug(message) }
func (j *SlogJournal) Info(message string)  { j.logger.Info(message) }
func (j *SlogJournal) Error(message string) { j.logger.Error(message) }

func (j *SlogJournal) Errors(messages []string) {
	for _, message := range messages {
		j.logger.Error(message)
	}
}
