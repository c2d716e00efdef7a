// Package logger builds *slog.Logger instances for alertkit components and
// provides attribute helpers so the same keys are used everywhere.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "alertctl"),
//	    logger.WithLevelName("debug"),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "alert published",
//	    logger.AlertID(a.ID),
//	    logger.SubjectID(a.SubjectID),
//	)
//
// New picks a text or JSON handler, applies static attributes, and wraps
// the result in LogHandlerDecorator, which runs every registered
// ContextExtractor on each record.
//
// Error returns an empty attribute for a nil error, so callers can log
// logger.Error(err) without a nil check.
package logger
