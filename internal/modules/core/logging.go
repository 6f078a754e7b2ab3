package core

import (
	"context"

	"github.com/eskrenkovic/mediator-go"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

// SetLogger installs the process-wide logger used by helpers that have no
// injection point (HTTP response writing). Called once from the composition
// root before serving.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func LogError(ctx context.Context, message string, fields ...zap.Field) {
	if correlationID := ctx.Value(CorrelationIDContextKey); correlationID != nil {
		fields = append(fields, zap.Any("correlation_id", correlationID))
	}

	logger.Error(message, fields...)
}

var _ mediator.PipelineBehavior = (*RequestLoggingBehavior)(nil)

type RequestLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *RequestLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	var logFields []zap.Field

	correlationID := ctx.Value(CorrelationIDContextKey)
	if correlationID != nil && correlationID != "" {
		logFields = append(logFields, zap.Any("correlation_id", correlationID))
	}

	if actorID := ActorID(ctx); actorID != "" {
		logFields = append(logFields, zap.String("actor_id", actorID))
	}

	if request != nil {
		logFields = append(logFields, zap.Any("request_body", request))
	}

	b.Logger.Info("processing request", logFields...)

	return next(ctx, request)
}

var _ mediator.PipelineBehavior = (*HandlerErrorLoggingBehavior)(nil)

type HandlerErrorLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *HandlerErrorLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	response, err := next(ctx, request)
	if err != nil {
		b.Logger.Error("handler returned error", zap.Error(err))
	}

	return response, err
}
