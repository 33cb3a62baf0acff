package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecaptchaVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("accepts when the provider says success", func(t *testing.T) {
		var gotSecret, gotResponse, gotRemoteIP string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotSecret = r.PostFormValue("secret")
			gotResponse = r.PostFormValue("response")
			gotRemoteIP = r.PostFormValue("remoteip")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success": true}`))
		}))
		defer srv.Close()

		v := &Recaptcha{Secret: "server-secret", Endpoint: srv.URL}
		ok, err := v.Verify(ctx, "client-token", "203.0.113.9")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "server-secret", gotSecret)
		require.Equal(t, "client-token", gotResponse)
		require.Equal(t, "203.0.113.9", gotRemoteIP)
	})

	t.Run("rejects when the provider says no", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
		}))
		defer srv.Close()

		v := &Recaptcha{Secret: "server-secret", Endpoint: srv.URL}
		ok, err := v.Verify(ctx, "bad-token", "")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("empty token never reaches the provider", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		v := &Recaptcha{Secret: "server-secret", Endpoint: srv.URL}
		ok, err := v.Verify(ctx, "   ", "")
		require.NoError(t, err)
		require.False(t, ok)
		require.False(t, called)
	})

	t.Run("provider outage is an error, not a rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		v := &Recaptcha{Secret: "server-secret", Endpoint: srv.URL}
		_, err := v.Verify(ctx, "client-token", "")
		require.Error(t, err)
	})
}

func TestStub(t *testing.T) {
	t.Parallel()

	ok, err := Stub{}.Verify(context.Background(), "anything", "")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Stub{}.Verify(context.Background(), "", "")
	require.NoError(t, err)
	require.False(t, ok)
}
