package observe

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
)

type slogObserver struct {
	log *slog.Logger
}

// Slog logs every record through log.
func Slog(log *slog.Logger) Observer {
	if log == nil {
		log = slog.Default()
	}
	return slogObserver{log: log}
}

func (o slogObserver) Observe(ctx context.Context, tr Trace) {
	base := []any{"op", tr.Op, "dialect", tr.Dialect, "request_id", tr.RequestID, "path", tr.Path}

	switch tr.Stage {
	case StageRequest:
		o.log.InfoContext(ctx, "request started", append(base, "fields", tr.Fields, "files", tr.Files)...)

	case StageResponse:
		o.log.InfoContext(ctx, "request completed", append(base, "handle", tr.Handle, "since", tr.Duration.String())...)

	case StageError:
		o.log.ErrorContext(ctx, "request failed", append(base, "outcome", tr.Outcome, "since", tr.Duration.String(), "error", tr.Err)...)
	}
}

type zapObserver struct {
	log *zap.Logger
}

// Zap logs every record through log.
func Zap(log *zap.Logger) Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return zapObserver{log: log.With(zap.String("component", "imagine"))}
}

func (o zapObserver) Observe(_ context.Context, tr Trace) {
	fields := []zap.Field{
		zap.String("op", tr.Op),
		zap.String("dialect", tr.Dialect),
		zap.String("request_id", tr.RequestID),
		zap.String("path", tr.Path),
	}

	switch tr.Stage {
	case StageRequest:
		o.log.Info("request started", append(fields, zap.Any("fields", tr.Fields), zap.Strings("files", tr.Files))...)

	case StageResponse:
		o.log.Info("request completed", append(fields, zap.String("handle", tr.Handle), zap.Duration("since", tr.Duration))...)

	case StageError:
		o.log.Error("request failed", append(fields, zap.String("outcome", tr.Outcome), zap.Duration("since", tr.Duration), zap.Error(tr.Err))...)
	}
}
