// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"time"

	"github.com/uber-go/tally"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const (
	TraceServiceName string = "search-api"
	HTTPSpanType     string = "http"
	CompilerSpanType string = "compiler"
	SearchSpanType   string = "search"
)

// Measurement follows one operation: a tracing span plus the counters and timers of its scope.
type Measurement struct {
	serviceName  string
	resourceName string
	spanType     string
	tags         map[string]string
	span         tracer.Span
	startedAt    time.Time
	stoppedAt    time.Time
}

func NewMeasurement(serviceName string, resourceName string, spanType string, tags map[string]string) *Measurement {
	return &Measurement{serviceName: serviceName, resourceName: resourceName, spanType: spanType, tags: tags}
}

func (m *Measurement) GetServiceName() string {
	return m.serviceName
}

func (m *Measurement) GetResourceName() string {
	return m.resourceName
}

func (m *Measurement) GetTags() map[string]string {
	return m.tags
}

func (m *Measurement) AddTags(tags map[string]string) {
	if m.tags == nil {
		m.tags = make(map[string]string, len(tags))
	}
	for k, v := range tags {
		m.tags[k] = v
	}
	if m.span != nil {
		for k, v := range tags {
			m.span.SetTag(k, v)
		}
	}
}

func (m *Measurement) GetSpanOptions() []tracer.StartSpanOption {
	opts := []tracer.StartSpanOption{
		tracer.ResourceName(m.resourceName),
		tracer.SpanType(m.spanType),
		tracer.Measured(),
	}
	for k, v := range m.tags {
		opts = append(opts, tracer.Tag(k, v))
	}
	return opts
}

// StartTracing starts a span as a child of the span found in ctx, if any. Without a started tracer the span is a
// no-op.
func (m *Measurement) StartTracing(ctx context.Context) context.Context {
	m.startedAt = time.Now()
	m.span, ctx = tracer.StartSpanFromContext(ctx, m.serviceName, m.GetSpanOptions()...)
	return ctx
}

// FinishTracing finishes the span, marking it failed when err is set.
func (m *Measurement) FinishTracing(err error) {
	m.stoppedAt = time.Now()
	if m.span == nil {
		return
	}
	if err != nil {
		m.span.Finish(tracer.WithError(err))
		return
	}
	m.span.Finish()
}

func (m *Measurement) CountOkForScope(scope tally.Scope, tags map[string]string) {
	scope.Tagged(tags).Counter("ok").Inc(1)
}

func (m *Measurement) CountErrorForScope(scope tally.Scope, tags map[string]string) {
	scope.Tagged(tags).Counter("error").Inc(1)
}

// RecordDuration records the time between StartTracing and FinishTracing, or until now when not finished yet.
func (m *Measurement) RecordDuration(scope tally.Scope, tags map[string]string) {
	end := m.stoppedAt
	if end.IsZero() {
		end = time.Now()
	}
	scope.Tagged(tags).Timer("time").Record(end.Sub(m.startedAt))
}

// Finish closes the measurement of an operation recording it as ok or failed in scope.
func (m *Measurement) Finish(scope tally.Scope, okKeys []string, errKeys []string, err error) {
	m.FinishTracing(err)

	if err != nil {
		tags := standardizeTags(mergeTags(m.tags, getErrorTags(err)), errKeys)
		m.CountErrorForScope(scope, tags)
		m.RecordDuration(scope.SubScope("error"), tags)
		return
	}

	tags := standardizeTags(m.tags, okKeys)
	m.CountOkForScope(scope, tags)
	m.RecordDuration(scope.SubScope("response"), tags)
}
