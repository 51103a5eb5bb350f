// Package obslogging provides the structured-logging field vocabulary shared
// across the definition engine, plus a zap-to-logr bridge for collaborators
// that expect the logr.Logger interface (the audit client, the Postgres
// repository).
package obslogging

import "time"

// Fields is a structured-field map threaded through zap.Any("fields", f) or
// merged directly into a zap.Logger's With(...) call.
type Fields map[string]any

func NewFields() Fields {
	return Fields{}
}

func (f Fields) Component(name string) Fields {
	f["component"] = name
	return f
}

func (f Fields) Operation(name string) Fields {
	f["operation"] = name
	return f
}

func (f Fields) Resource(resourceType, resourceName string) Fields {
	f["resource_type"] = resourceType
	if resourceName != "" {
		f["resource_name"] = resourceName
	}
	return f
}

func (f Fields) Duration(d time.Duration) Fields {
	f["duration_ms"] = d.Milliseconds()
	return f
}

func (f Fields) Error(err error) Fields {
	if err != nil {
		f["error"] = err.Error()
	}
	return f
}

func (f Fields) Actor(actor string) Fields {
	if actor != "" {
		f["actor"] = actor
	}
	return f
}

func (f Fields) RequestID(id string) Fields {
	f["request_id"] = id
	return f
}

func (f Fields) TraceID(id string) Fields {
	f["trace_id"] = id
	return f
}

func (f Fields) Term(term string) Fields {
	f["term"] = term
	return f
}

func (f Fields) Count(n int) Fields {
	f["count"] = n
	return f
}
