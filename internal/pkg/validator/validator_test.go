package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), c.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // v1
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"{0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b}",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), id)
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2026-02-28")
	assert.True(t, ok)
	assert.Equal(t, 28, d.Day())

	for _, s := range []string{"2026-02-30", "2026-2-3", "28/02/2026", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsValidClock(t *testing.T) {
	for _, s := range []string{"00:00", "09:00", "23:59"} {
		assert.True(t, IsValidClock(s), s)
	}
	for _, s := range []string{"9:00", "24:00", "12:60", "09:00:00", "noon", ""} {
		assert.False(t, IsValidClock(s), s)
	}
}

func TestIsValidTimezone(t *testing.T) {
	assert.True(t, IsValidTimezone("Asia/Kolkata"))
	assert.True(t, IsValidTimezone("UTC"))
	assert.False(t, IsValidTimezone("Mars/Olympus"))
	assert.False(t, IsValidTimezone(" "))
}

func TestCoordinates(t *testing.T) {
	assert.True(t, IsValidLatitude(12.97))
	assert.False(t, IsValidLatitude(90.5))
	assert.True(t, IsValidLongitude(-180))
	assert.False(t, IsValidLongitude(181))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "date is required"},
		{Field: "reason", Message: "reason is too long"},
	}
	assert.Equal(t, "date: date is required; reason: reason is too long", errs.Error())
	assert.Equal(t, map[string]string{"date": "date is required", "reason": "reason is too long"}, errs.ToMap())
}
