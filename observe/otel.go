package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/adamwoolhether/imagine"

// OTel opens a client span at the request stage and ends it at the
// response or error stage of the same call.
type OTel struct {
	tracer trace.Tracer
	spans  sync.Map // request id -> trace.Span
}

// NewOTel builds an OTel observer. A nil tracer uses the global provider.
func NewOTel(tracer trace.Tracer) *OTel {
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	return &OTel{tracer: tracer}
}

func (o *OTel) Observe(ctx context.Context, tr Trace) {
	switch tr.Stage {
	case StageRequest:
		_, span := o.tracer.Start(ctx, "imagine."+tr.Op,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithTimestamp(tr.Start),
			trace.WithAttributes(
				attribute.String("imagine.op", tr.Op),
				attribute.String("imagine.dialect", tr.Dialect),
				attribute.String("imagine.request_id", tr.RequestID),
				attribute.String("url.path", tr.Path),
				attribute.Int("imagine.files", len(tr.Files)),
			),
		)
		o.spans.Store(tr.RequestID, span)

	case StageResponse:
		span, ok := o.take(tr.RequestID)
		if !ok {
			return
		}
		if tr.Handle != "" {
			span.SetAttributes(attribute.String("imagine.handle", tr.Handle))
		}
		span.SetStatus(codes.Ok, "")
		span.End()

	case StageError:
		span, ok := o.take(tr.RequestID)
		if !ok {
			return
		}
		span.SetAttributes(attribute.String("imagine.outcome", tr.Outcome))
		if tr.Err != nil {
			span.RecordError(tr.Err)
			span.SetStatus(codes.Error, tr.Err.Error())
		}
		span.End()
	}
}

func (o *OTel) take(id string) (trace.Span, bool) {
	v, ok := o.spans.LoadAndDelete(id)
	if !ok {
		return nil, false
	}
	return v.(trace.Span), true
}
