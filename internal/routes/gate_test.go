package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct{ token string }

func (f *fakeSession) Token() string { return f.token }

func TestCheck_Unauthenticated(t *testing.T) {
	g := NewGate(&fakeSession{})

	tests := []struct {
		path string
		want Decision
	}{
		{PathLogin, Decision{Allow: true}},
		{PathDashboard, Decision{RedirectTo: PathLogin}},
		{PathUsers, Decision{RedirectTo: PathLogin}},
		{"/whatever", Decision{RedirectTo: PathLogin}},
		{"/", Decision{RedirectTo: PathLogin}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Check(tt.path), "path %s", tt.path)
	}
}

func TestCheck_Authenticated(t *testing.T) {
	g := NewGate(&fakeSession{token: "tok-1"})

	tests := []struct {
		path string
		want Decision
	}{
		{PathDashboard, Decision{Allow: true}},
		{PathUsers, Decision{Allow: true}},
		{PathProducts, Decision{Allow: true}},
		{PathOrders, Decision{Allow: true}},
		{PathLogin, Decision{Allow: true}},
		{"/", Decision{RedirectTo: PathDashboard}},
		{"/whatever", Decision{RedirectTo: PathDashboard}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Check(tt.path), "path %s", tt.path)
	}
}

func TestCheck_ReReadsSessionEveryTime(t *testing.T) {
	sess := &fakeSession{token: "tok-1"}
	g := NewGate(sess)

	assert.True(t, g.Check(PathUsers).Allow)

	// external logout between checks
	sess.token = ""
	assert.Equal(t, Decision{RedirectTo: PathLogin}, g.Check(PathUsers))
}
