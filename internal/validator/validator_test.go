package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorAccumulates(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "author", "must be provided")

	assert.False(t, v.Valid())
	assert.Len(t, v.Errors, 2)
	assert.Equal(t, "must be provided", v.Errors["title"])
}

func TestFirstErrorPerFieldWins(t *testing.T) {
	v := New()
	v.AddError("title", "must be provided")
	v.AddError("title", "must not be more than 200 characters")

	assert.Equal(t, "must be provided", v.Errors["title"])
}

func TestCheckPassingAddsNothing(t *testing.T) {
	v := New()
	v.Check(true, "title", "must be provided")
	assert.True(t, v.Valid())
}

func TestIn(t *testing.T) {
	assert.True(t, In("admin", "admin", "moderator", "user"))
	assert.False(t, In("root", "admin", "moderator", "user"))
	assert.False(t, In("admin"))
}

func TestMatchesEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"a.b+tag@sub.example.org", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"alice@", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, Matches(tt.email, EmailRX), "email %q", tt.email)
	}
}
