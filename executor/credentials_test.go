package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectCredentials(t *testing.T) {
	credentials := map[string]string{
		"USERNAME": "demo_user",
		"PASSWORD": "demo_pass",
	}

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "username placeholder", value: "{{USERNAME}}", want: "demo_user"},
		{name: "password placeholder", value: "{{PASSWORD}}", want: "demo_pass"},
		{name: "embedded placeholder", value: "user={{USERNAME}}!", want: "user=demo_user!"},
		{name: "unknown placeholder left alone", value: "{{TOKEN}}", want: "{{TOKEN}}"},
		{name: "plain value", value: "hello", want: "hello"},
		{name: "empty value", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InjectCredentials(tt.value, credentials))
		})
	}
}

func TestHasCredentialPlaceholder(t *testing.T) {
	assert.True(t, HasCredentialPlaceholder("{{USERNAME}}"))
	assert.True(t, HasCredentialPlaceholder("pass: {{PASSWORD}}"))
	assert.False(t, HasCredentialPlaceholder("demo_user"))
	assert.False(t, HasCredentialPlaceholder(""))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "••••", Mask("1234"))
	assert.Equal(t, "••", Mask("密码"))
}
