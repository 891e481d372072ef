package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swaggerRouter mounts the docs route behind SwaggerProtection the same
// way cmd/server wires it.
func swaggerRouter(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "docs"})
	})
	return router
}

func swaggerGet(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection_DisabledLooksLikeMissingRoute(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{Enabled: false}, nil)

	w := swaggerGet(router, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestSwaggerProtection_EnabledWithoutRestrictions(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{Enabled: true}, nil)

	w := swaggerGet(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwaggerProtection_IPAllowlist(t *testing.T) {
	t.Run("exact IP is admitted", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"127.0.0.1"},
		}, nil)

		w := swaggerGet(router, "127.0.0.1:54321")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other IP is refused", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"10.0.0.1"},
		}, nil)

		w := swaggerGet(router, "192.168.1.1:54321")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("CIDR range admits the whole subnet", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"10.0.0.0/8"},
		}, nil)

		w := swaggerGet(router, "10.50.100.200:54321")
		assert.Equal(t, http.StatusOK, w.Code)

		w = swaggerGet(router, "192.168.1.1:54321")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSwaggerProtection_RequireAuth(t *testing.T) {
	denyAll := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	allowAll := func(c *gin.Context) {
		c.Set("user_id", "u-1")
		c.Next()
	}

	t.Run("JWT rejection aborts the request", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, denyAll)

		w := swaggerGet(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("JWT acceptance lets the docs through", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, allowAll)

		w := swaggerGet(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("allowlist is checked before the JWT", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{
			Enabled:     true,
			RequireAuth: true,
			AllowedIPs:  []string{"127.0.0.1"},
		}, allowAll)

		w := swaggerGet(router, "127.0.0.1:54321")
		assert.Equal(t, http.StatusOK, w.Code)

		w = swaggerGet(router, "192.168.1.1:54321")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestIPAllowlist(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		ip      string
		want    bool
	}{
		{"exact IPv4 match", []string{"192.168.1.1"}, "192.168.1.1", true},
		{"different IPv4", []string{"192.168.1.1"}, "192.168.1.2", false},
		{"inside CIDR", []string{"10.0.0.0/8"}, "10.0.0.5", true},
		{"outside CIDR", []string{"10.0.0.0/8"}, "11.0.0.5", false},
		{"IPv6 loopback", []string{"::1"}, "::1", true},
		{"mixed entries", []string{"127.0.0.1", "10.0.0.0/8"}, "10.1.2.3", true},
		{"garbage entry is ignored", []string{"not-an-ip", "10.0.0.0/8"}, "10.1.2.3", true},
		{"garbage entry does not admit anything", []string{"not-an-ip"}, "192.168.1.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)

			list := newIPAllowlist(tt.entries)
			assert.Equal(t, tt.want, list.contains(ip))
		})
	}

	t.Run("nil IP never matches", func(t *testing.T) {
		list := newIPAllowlist([]string{"0.0.0.0/0"})
		assert.False(t, list.contains(nil))
	})
}
