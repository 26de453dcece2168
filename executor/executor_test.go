package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainAllowed(t *testing.T) {
	allowed := []string{"localhost", "127.0.0.1", "oraclecloudapps.com"}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "localhost with port", url: "http://localhost:8000/login.html", want: true},
		{name: "loopback IP", url: "http://127.0.0.1:8000/", want: true},
		{name: "allowed domain", url: "https://oraclecloudapps.com/apex", want: true},
		{name: "subdomain of allowed domain", url: "https://demo.oraclecloudapps.com/ords/f?p=1", want: true},
		{name: "other domain", url: "https://example.com/", want: false},
		{name: "uppercase host", url: "https://DEMO.ORACLECLOUDAPPS.COM/", want: true},
		{name: "no host", url: "not-a-url", want: false},
		{name: "empty url", url: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domainAllowed(tt.url, allowed))
		})
	}
}

func TestDomainAllowedEmptyAllowlist(t *testing.T) {
	assert.False(t, domainAllowed("http://localhost:8000/", nil))
}
