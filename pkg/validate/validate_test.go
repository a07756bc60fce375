package validate

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"parent.name+school@example.co.in", true},
		{"x@y.com", true},
		{"", false},
		{"a@@b.co", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"ab@c .com", false},
		{"a@b.co\n", false},
		{"@b.co", false},
		{"a@b.", false},
		{"a@b@c.com", false},
		{"asha\u00a0rao@example.com", false},
		{"asha@example\u2003.com", false},
		{"asha@example.com\u2028", false},
		{"asha@exa\u3000mple.com", false},
		{"\ufeffasha@example.com", false},
		{"asha\vrao@example.com", false},
		{"аша@пример.рф", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.in))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"6000000000", true},
		{"7123456789", true},
		{"8123456789", true},
		{"+91 9876543210", true},
		{"+919876543210", true},
		{"+91-9876543210", true},
		{"09876543210", true},
		{"919876543210", true},
		{"98765 43210", true},
		{" 98765\t43210 ", true},
		{"+91 98765 43210", true},
		{"5876543210", false},
		{"987654321", false},
		{"98765432100", false},
		{"+92 9876543210", false},
		{"98765-43210", false},
		{"", false},
		{"abcdefghij", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhone(tt.in))
		})
	}
}

func TestIsValidPhone_PrefixesDoNotChangeResult(t *testing.T) {
	numbers := []string{"9876543210", "6123456789", "5123456789", "1234567890"}
	prefixes := []string{"+91", "+91-", "+91 ", "0"}

	for _, n := range numbers {
		base := IsValidPhone(n)
		for _, p := range prefixes {
			assert.Equal(t, base, IsValidPhone(p+n), "prefix %q on %s", p, n)
		}
	}
}

func TestIsNotPast(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, ist)

	assert.True(t, IsNotPast("2026-03-10", now))
	assert.True(t, IsNotPast("2026-03-11", now))
	assert.True(t, IsNotPast("2027-01-01", now))
	assert.False(t, IsNotPast("2026-03-09", now))
	assert.False(t, IsNotPast("10/03/2026", now))
	assert.False(t, IsNotPast("", now))
}

func TestRegister(t *testing.T) {
	v := validator.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, Register(v, func() time.Time { return now }))

	type form struct {
		Email string `validate:"omitempty,leademail"`
		Date  string `validate:"required,notpast"`
	}

	assert.NoError(t, v.Struct(form{Date: "2026-03-10"}))
	assert.NoError(t, v.Struct(form{Email: "a@b.co", Date: "2026-04-01"}))

	err := v.Struct(form{Email: "a@@b.co", Date: "2026-03-01"})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	tags := map[string]string{}
	for _, fe := range verrs {
		tags[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"Email": "leademail", "Date": "notpast"}, tags)
}
