package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartsync/cartsync/pkg/errors"
)

func TestBasicAuthApplied(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(&BasicAuth{Username: "alice", Password: "secret"})
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NoError(t, Discard(resp, srv.URL))

	assert.True(t, gotOK)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "secret", gotPass)
}

func TestNoAuthLeavesHeaderUnset(t *testing.T) {
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(nil)
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NoError(t, Discard(resp, srv.URL))
	assert.Empty(t, header)
}

func TestCheckResponseClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, err error)
		message string
	}{
		{
			name:   "200 is success",
			status: http.StatusOK,
			check:  func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:   "204 is success",
			status: http.StatusNoContent,
			check:  func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:   "404 is not found",
			status: http.StatusNotFound,
			check:  func(t *testing.T, err error) { assert.True(t, errors.IsNotFound(err)) },
		},
		{
			name:    "401 is authentication with body message",
			status:  http.StatusUnauthorized,
			body:    "bad credentials",
			check:   func(t *testing.T, err error) { assert.True(t, errors.IsAuthentication(err)) },
			message: "bad credentials",
		},
		{
			name:    "500 with provider error payload",
			status:  http.StatusInternalServerError,
			body:    `{"errorCode": "E42", "error": "household unavailable"}`,
			check:   func(t *testing.T, err error) { assert.True(t, errors.IsRemote(err)) },
			message: "household unavailable",
		},
		{
			name:    "500 with plain text body",
			status:  http.StatusInternalServerError,
			body:    "gateway exploded",
			check:   func(t *testing.T, err error) { assert.True(t, errors.IsRemote(err)) },
			message: "gateway exploded",
		},
		{
			name:   "500 with empty body falls back to status",
			status: http.StatusInternalServerError,
			check:  func(t *testing.T, err error) { assert.True(t, errors.IsRemote(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(&NoAuth{})
			resp, err := client.Get(context.Background(), srv.URL)
			require.NoError(t, err)

			err = Discard(resp, "/endpoint")
			tt.check(t, err)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestTransportErrorOnUnreachableTarget(t *testing.T) {
	client := New(&NoAuth{})

	_, err := client.Get(context.Background(), "http://127.0.0.1:1/nope")
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))

	_, err = client.Get(context.Background(), "://not-a-url")
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
}

func TestDecodeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Milk"}`))
	}))
	defer srv.Close()

	client := New(&NoAuth{})
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	var target struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeResponse(resp, "/item", &target))
	assert.Equal(t, "Milk", target.Name)
}

func TestDecodeResponseParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": `))
	}))
	defer srv.Close()

	client := New(&NoAuth{})
	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	var target map[string]any
	err = DecodeResponse(resp, "/item", &target)
	require.Error(t, err)
}
