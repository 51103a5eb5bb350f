package obslogging

import (
	"errors"
	"testing"
	"time"
)

func TestNewFields(t *testing.T) {
	fields := NewFields()
	if fields == nil {
		t.Fatal("NewFields() returned nil")
	}
	if len(fields) != 0 {
		t.Errorf("NewFields() should be empty, got %d fields", len(fields))
	}
}

func TestFields_Component(t *testing.T) {
	fields := NewFields().Component("generation-orchestrator")
	if fields["component"] != "generation-orchestrator" {
		t.Errorf("Component() = %v, want generation-orchestrator", fields["component"])
	}
}

func TestFields_Resource(t *testing.T) {
	fields := NewFields().Resource("definition", "vervoersverbod")
	if fields["resource_type"] != "definition" {
		t.Errorf("resource_type = %v", fields["resource_type"])
	}
	if fields["resource_name"] != "vervoersverbod" {
		t.Errorf("resource_name = %v", fields["resource_name"])
	}
}

func TestFields_ResourceWithoutName(t *testing.T) {
	fields := NewFields().Resource("definition", "")
	if _, exists := fields["resource_name"]; exists {
		t.Error("Resource() should not set resource_name when empty")
	}
}

func TestFields_Duration(t *testing.T) {
	fields := NewFields().Duration(150 * time.Millisecond)
	if fields["duration_ms"] != int64(150) {
		t.Errorf("Duration() = %v, want 150", fields["duration_ms"])
	}
}

func TestFields_Error(t *testing.T) {
	fields := NewFields().Error(errors.New("boom"))
	if fields["error"] != "boom" {
		t.Errorf("Error() = %v", fields["error"])
	}
}

func TestFields_ErrorNil(t *testing.T) {
	fields := NewFields().Error(nil)
	if _, exists := fields["error"]; exists {
		t.Error("Error(nil) should not set error field")
	}
}

func TestFields_ActorEmpty(t *testing.T) {
	fields := NewFields().Actor("")
	if _, exists := fields["actor"]; exists {
		t.Error("Actor(\"\") should not set actor field")
	}
}
