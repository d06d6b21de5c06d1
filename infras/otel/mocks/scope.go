package mocks

import "todos/infras/otel"

// discardScope satisfies otel.Scope for tests that do not assert on tracing.
type discardScope struct{}

func (discardScope) End()                         {}
func (discardScope) TraceError(error)             {}
func (discardScope) TraceIfError(*error)          {}
func (discardScope) AddEvent(string)              {}
func (discardScope) SetAttribute(string, any)     {}
func (discardScope) SetAttributes(map[string]any) {}

func NewScope() otel.Scope {
	return discardScope{}
}
