package mocks

import (
	"context"
	"todos/infras/otel"
)

type discardOtel struct{}

func (discardOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (discardOtel) Shutdown(context.Context) error {
	return nil
}

// NewOtel returns an Otel that records nothing.
func NewOtel() otel.Otel {
	return discardOtel{}
}
