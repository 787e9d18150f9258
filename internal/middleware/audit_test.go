package middleware

import (
	"strings"
	"testing"
)

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		path   string
		method string
		module string
		action string
	}{
		{"/api/v1/projects", "POST", "Projects", "Create"},
		{"/api/v1/projects/:uuid", "PUT", "Projects", "Update"},
		{"/api/v1/projects/:uuid/phases", "PUT", "Projects", "Update"},
		{"/api/v1/attachments/:id", "DELETE", "Attachments", "Delete"},
		{"/api/v1/archival-requests/:id/approve", "POST", "Archival Requests", "Create"},
		{"/api/v1/notifications/:id/read", "PUT", "Notifications", "Update"},
	}

	for _, tt := range tests {
		module, action := parseRouteInfo(tt.path, tt.method)
		if module != tt.module {
			t.Errorf("parseRouteInfo(%q, %q) module = %q, expected %q", tt.path, tt.method, module, tt.module)
		}
		if action != tt.action {
			t.Errorf("parseRouteInfo(%q, %q) action = %q, expected %q", tt.path, tt.method, action, tt.action)
		}
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	body := `{"username":"alice","password":"s3cret"}`
	masked := maskSensitiveFields(body)

	if strings.Contains(masked, "s3cret") {
		t.Errorf("password value should be masked, got %q", masked)
	}
	if !strings.Contains(masked, "alice") {
		t.Errorf("non-sensitive values should survive, got %q", masked)
	}
	if !strings.Contains(masked, "***") {
		t.Errorf("mask marker should be present, got %q", masked)
	}
}

func TestMaskSensitiveFields_NoSensitiveKeys(t *testing.T) {
	body := `{"title":"Plataforma de gestão acadêmica"}`
	if got := maskSensitiveFields(body); got != body {
		t.Errorf("body without sensitive keys should be unchanged, got %q", got)
	}
}

func TestFormatRequestMessage(t *testing.T) {
	msg := formatRequestMessage("alice", "POST", "/api/v1/projects", 201)
	if !strings.Contains(msg, "alice") || !strings.Contains(msg, "POST") {
		t.Errorf("message should carry user and method, got %q", msg)
	}
	if !strings.HasSuffix(msg, "OK") {
		t.Errorf("2xx status should end with OK, got %q", msg)
	}

	failed := formatRequestMessage("bob", "DELETE", "/api/v1/projects/x", 403)
	if !strings.HasSuffix(failed, "Failed") {
		t.Errorf("non-2xx status should end with Failed, got %q", failed)
	}
}
