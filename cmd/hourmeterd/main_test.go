package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}

	testCases := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{name: "default", want: defaultConfigPath},
		{name: "environment", env: map[string]string{"CONFIG_PATH": "/etc/hourmeter.yaml"}, want: "/etc/hourmeter.yaml"},
		{name: "flag wins", args: []string{"--config", "local.yaml"}, env: map[string]string{"CONFIG_PATH": "/etc/hourmeter.yaml"}, want: "local.yaml"},
		{name: "shorthand", args: []string{"-c", "short.yaml"}, want: "short.yaml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveConfigPath(tc.args, env(tc.env))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := resolveConfigPath([]string{"--unknown"}, env(nil))
	assert.Error(t, err)
}

func TestWithCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	w := httptest.NewRecorder()
	withCORS(ok, nil).ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	withCORS(ok, []string{"http://localhost:5173"}).ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
