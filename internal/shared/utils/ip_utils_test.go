package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		proxies []string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded via trusted proxy", []string{"10.0.0.0/8"}, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip via trusted proxy", []string{"10.0.0.2"}, map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"forwarded from untrusted peer ignored", nil, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "192.0.2.1:80", "192.0.2.1"},
		{"real ip from untrusted peer ignored", []string{"10.0.0.0/8"}, map[string]string{"X-Real-IP": "198.51.100.4"}, "192.0.2.1:80", "192.0.2.1"},
		{"spoofed hop before trusted proxy", []string{"10.0.0.0/8"}, map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.7"}, "10.0.0.2:1234", "203.0.113.7"},
		{"garbage header falls through", []string{"10.0.0.0/8"}, map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.2:80", "10.0.0.2"},
		{"remote addr", nil, nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"remote addr without port", nil, nil, "192.0.2.9", "192.0.2.9"},
		{"unparseable", nil, nil, "???", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			require.NoError(t, engine.SetTrustedProxies(tt.proxies))

			c := gin.CreateTestContextOnly(httptest.NewRecorder(), engine)
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ExtractClientIP(c))
		})
	}
}
