package monitor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Veraticus/extractbench/internal/model"
)

type operationKey struct{}

// WithOperation returns a context carrying an operation id.
func WithOperation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationKey{}, id)
}

// OperationID returns the operation id carried by ctx.
func OperationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(operationKey{}).(string)
	return id, ok && id != ""
}

// AdvanceStage moves the operation carried by ctx to stage. It does nothing
// when ctx carries no operation or m is nil.
func (m *Monitor) AdvanceStage(ctx context.Context, stage model.Stage) {
	if m == nil {
		return
	}
	if id, ok := OperationID(ctx); ok {
		m.UpdateOperationStage(id, stage)
	}
}

// InstrumentOptions describe how an instrumented call maps onto an operation.
type InstrumentOptions[In, Out any] struct {
	// DocumentID extracts the document id from the call input.
	DocumentID func(In) string
	// DocumentType extracts the document type from the call input.
	DocumentType func(In) string
	// EntityCount counts entities in a successful result.
	EntityCount func(Out) int
	// OnComplete receives the metrics of every successful call.
	OnComplete func(In, Out, model.PerformanceMetrics)
}

// Instrument wraps fn so that every call is tracked as an operation. The
// operation id travels in the context passed to fn, so fn can report stage
// changes with AdvanceStage. Errors and panics from fn are recorded as
// failed operations and then passed on unchanged.
func Instrument[In, Out any](m *Monitor, fn func(context.Context, In) (Out, error), opts InstrumentOptions[In, Out]) func(context.Context, In) (Out, error) {
	if m == nil {
		return fn
	}

	return func(ctx context.Context, in In) (out Out, err error) {
		id := uuid.NewString()
		var docID, docType string
		if opts.DocumentID != nil {
			docID = opts.DocumentID(in)
		}
		if opts.DocumentType != nil {
			docType = opts.DocumentType(in)
		}

		if err := m.StartOperation(id, docID, docType); err != nil {
			return out, err
		}

		defer func() {
			if r := recover(); r != nil {
				_, _ = m.RecordError(id, fmt.Errorf("panic: %v", r))
				panic(r)
			}
		}()

		out, err = fn(WithOperation(ctx, id), in)
		if err != nil {
			_, _ = m.RecordError(id, err)
			return out, err
		}

		m.UpdateOperationStage(id, model.StageComplete)
		count := 0
		if opts.EntityCount != nil {
			count = opts.EntityCount(out)
		}
		perf, err := m.CompleteOperation(id, true, count)
		if err != nil {
			return out, err
		}
		if opts.OnComplete != nil {
			opts.OnComplete(in, out, perf)
		}
		return out, nil
	}
}
