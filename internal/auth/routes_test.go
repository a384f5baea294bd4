package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDefaultRules(t *testing.T) {
	c, err := NewRouteClassifier(DefaultRules("/api"))
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		want   AccessLevel
	}{
		{"POST", "/api/auth/login", Public},
		{"POST", "/api/auth/signup", ApiKey},
		{"GET", "/api/auth/me", Authenticated},
		{"GET", "/api/events", Public},
		{"GET", "/api/events/e1", Public},
		{"POST", "/api/events/create", ApiKey},
		{"PUT", "/api/events/e1", Authenticated},
		{"DELETE", "/api/events/e1", Authenticated},
		{"POST", "/api/rsvp", Authenticated},
		{"GET", "/api/rsvp/user/alice@example.com", Authenticated},
		{"PUT", "/api/rsvp/r1/status", Authenticated},
		{"GET", "/api/admin/rsvps", AdminOnly},
		{"PUT", "/api/admin/rsvp/r1/status", AdminOnly},
		{"GET", "/api/health", Public},
		{"get", "/api/events/", Public},
		// unmatched routes are denied by default
		{"POST", "/api/events/e1", Authenticated},
		{"GET", "/api/unknown", Authenticated},
		{"GET", "/", Authenticated},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.method, tt.path))
		})
	}
}

func TestClassifyMostSpecificWins(t *testing.T) {
	c, err := NewRouteClassifier([]Rule{
		{Method: AnyMethod, Pattern: "/**", Level: Public},
		{Method: AnyMethod, Pattern: "/a/**", Level: Authenticated},
		{Method: "GET", Pattern: "/a/:id", Level: ApiKey},
		{Method: AnyMethod, Pattern: "/a/:id", Level: AdminOnly},
		{Method: "GET", Pattern: "/a/b", Level: Public},
	})
	require.NoError(t, err)

	assert.Equal(t, Public, c.Classify("GET", "/a/b"))
	assert.Equal(t, ApiKey, c.Classify("GET", "/a/c"))
	assert.Equal(t, AdminOnly, c.Classify("PUT", "/a/c"))
	assert.Equal(t, AdminOnly, c.Classify("PUT", "/a/b"))
	assert.Equal(t, Authenticated, c.Classify("GET", "/a/c/d"))
	assert.Equal(t, Authenticated, c.Classify("GET", "/a"))
	assert.Equal(t, Public, c.Classify("GET", "/z"))
}

func TestNewRouteClassifierRejectsInnerWildcard(t *testing.T) {
	_, err := NewRouteClassifier([]Rule{{Pattern: "/a/**/b", Level: Public}})
	assert.Error(t, err)
}

func TestUncovered(t *testing.T) {
	c, err := NewRouteClassifier(DefaultRules("/api"))
	require.NoError(t, err)

	missing := c.Uncovered([]Route{
		{Method: "GET", Path: "/api/events/:id"},
		{Method: "PUT", Path: "/api/rsvp/:id/status"},
		{Method: "GET", Path: "/api/admin/events/:id/attendees"},
		{Method: "PATCH", Path: "/api/events/:id"},
		{Method: "GET", Path: "/api/debug"},
	})

	assert.Equal(t, []Route{
		{Method: "PATCH", Path: "/api/events/:id"},
		{Method: "GET", Path: "/api/debug"},
	}, missing)
}
