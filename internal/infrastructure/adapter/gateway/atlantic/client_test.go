package atlantic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	"github.com/ardiansyah-dev/gamestore-bot/internal/infrastructure/adapter/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL: baseURL,
		APIKey:  "secret-key",
		Timeout: 2 * time.Second,
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	return c
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, (&Config{APIKey: "k"}).Validate())
	assert.Error(t, (&Config{BaseURL: "http://x"}).Validate())
	assert.NoError(t, (&Config{BaseURL: "http://x", APIKey: "k"}).Validate())
}

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the form the provider expects and decodes the intent", func(t *testing.T) {
		var gotForm url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/deposit/create", r.URL.Path)
			require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			require.NoError(t, r.ParseForm())
			gotForm = r.PostForm

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": true,
				"message": "deposit created",
				"code": 200,
				"data": {
					"id": "ATL123",
					"reff_id": "42-abc",
					"nominal": 50000,
					"status": "pending",
					"qr_string": "000201payload",
					"qr_image": "https://cdn.example/qr.png",
					"created_at": "2025-06-01 10:00:00",
					"expired_at": "2025-06-01 10:30:00"
				}
			}`))
		}))
		defer srv.Close()

		intent, err := newTestClient(t, srv.URL).CreatePayment(ctx, "42-abc", 50000)

		require.NoError(t, err)
		assert.Equal(t, "secret-key", gotForm.Get("api_key"))
		assert.Equal(t, "42-abc", gotForm.Get("reff_id"))
		assert.Equal(t, "50000", gotForm.Get("nominal"))
		assert.Equal(t, "ewallet", gotForm.Get("type"))
		assert.Equal(t, "qris", gotForm.Get("metode"))

		assert.Equal(t, "ATL123", intent.Reference)
		assert.Equal(t, "42-abc", intent.RequestRef)
		assert.Equal(t, int64(50000), intent.Amount)
		assert.Equal(t, "pending", intent.Status)
		assert.Equal(t, "000201payload", intent.QRString)
		assert.Equal(t, "https://cdn.example/qr.png", intent.QRImageURL)
		require.NotNil(t, intent.ExpiresAt)
		assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), *intent.ExpiresAt)
		assert.NotEmpty(t, intent.Raw)
	})

	t.Run("nominal echoed as string still parses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":true,"code":200,"data":{"id":"ATL1","nominal":"25000","status":"pending"}}`))
		}))
		defer srv.Close()

		intent, err := newTestClient(t, srv.URL).CreatePayment(ctx, "ref", 25000)

		require.NoError(t, err)
		assert.Equal(t, int64(25000), intent.Amount)
	})

	t.Run("provider rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":false,"message":"invalid api key","code":401}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).CreatePayment(ctx, "ref", 50000)

		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("undecodable body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>cloudflare error</html>`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).CreatePayment(ctx, "ref", 50000)

		assert.ErrorIs(t, err, errs.ErrMalformedResponse)
	})

	t.Run("missing payment id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":true,"code":200,"data":{"status":"pending"}}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).CreatePayment(ctx, "ref", 50000)

		assert.ErrorIs(t, err, errs.ErrMalformedResponse)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()

		c, err := NewClient(Config{
			BaseURL: srv.URL,
			APIKey:  "k",
			Timeout: 50 * time.Millisecond,
		}, logger.NewNoopLogger())
		require.NoError(t, err)

		_, err = c.CreatePayment(ctx, "ref", 50000)

		assert.ErrorIs(t, err, errs.ErrGatewayTimeout)
	})

	t.Run("unreachable provider", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listens anymore

		_, err := newTestClient(t, srv.URL).CreatePayment(ctx, "ref", 50000)

		assert.ErrorIs(t, err, errs.ErrGatewayUnreachable)
	})

	t.Run("input validation happens before any request", func(t *testing.T) {
		c := newTestClient(t, "http://127.0.0.1:1")

		_, err := c.CreatePayment(ctx, "", 50000)
		assert.ErrorIs(t, err, errs.ErrGatewayRejected)

		_, err = c.CreatePayment(ctx, "ref", 0)
		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})
}

func TestStatusEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("check status posts the provider id", func(t *testing.T) {
		var gotPath string
		var gotForm url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, r.ParseForm())
			gotForm = r.PostForm
			_, _ = w.Write([]byte(`{"status":true,"code":200,"data":{"id":"ATL1","status":"process"}}`))
		}))
		defer srv.Close()

		status, err := newTestClient(t, srv.URL).CheckStatus(ctx, "ATL1")

		require.NoError(t, err)
		assert.Equal(t, "/deposit/status", gotPath)
		assert.Equal(t, "ATL1", gotForm.Get("id"))
		assert.Equal(t, "secret-key", gotForm.Get("api_key"))
		// Raw provider vocabulary passes through untouched
		assert.Equal(t, "process", status.Status)
		assert.Equal(t, "ATL1", status.Reference)
	})

	t.Run("instant check carries the refresh action flag", func(t *testing.T) {
		var gotPath string
		var gotForm url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, r.ParseForm())
			gotForm = r.PostForm
			_, _ = w.Write([]byte(`{"status":true,"code":200,"data":{"id":"ATL1","status":"success"}}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)

		status, err := c.CheckInstant(ctx, "ATL1", true)
		require.NoError(t, err)
		assert.Equal(t, "/deposit/instant", gotPath)
		assert.Equal(t, "true", gotForm.Get("action"))
		assert.Equal(t, "success", status.Status)

		_, err = c.CheckInstant(ctx, "ATL1", false)
		require.NoError(t, err)
		assert.Equal(t, "false", gotForm.Get("action"))
	})

	t.Run("missing status field is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":true,"code":200,"data":{"id":"ATL1"}}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).CheckStatus(ctx, "ATL1")

		assert.ErrorIs(t, err, errs.ErrMalformedResponse)
	})

	t.Run("empty reference never reaches the wire", func(t *testing.T) {
		c := newTestClient(t, "http://127.0.0.1:1")

		_, err := c.CheckStatus(ctx, "")
		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})
}

func TestCancelPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var gotForm url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/deposit/cancel", r.URL.Path)
			require.NoError(t, r.ParseForm())
			gotForm = r.PostForm
			_, _ = w.Write([]byte(`{"status":true,"code":200,"data":{"id":"ATL1","status":"cancel"}}`))
		}))
		defer srv.Close()

		err := newTestClient(t, srv.URL).CancelPayment(ctx, "ATL1")

		require.NoError(t, err)
		assert.Equal(t, "ATL1", gotForm.Get("id"))
	})

	t.Run("provider refuses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":false,"message":"already processed","code":409}`))
		}))
		defer srv.Close()

		err := newTestClient(t, srv.URL).CancelPayment(ctx, "ATL1")

		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})
}

func TestValidateCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("valid key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/deposit/metode", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "ewallet", r.PostForm.Get("type"))
			_, _ = w.Write([]byte(`{"status":true,"code":200,"data":[{"metode":"qris"}]}`))
		}))
		defer srv.Close()

		assert.True(t, newTestClient(t, srv.URL).ValidateCredentials(ctx))
	})

	t.Run("rejected key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":false,"message":"invalid api key","code":401}`))
		}))
		defer srv.Close()

		assert.False(t, newTestClient(t, srv.URL).ValidateCredentials(ctx))
	})

	t.Run("unreachable provider", func(t *testing.T) {
		assert.False(t, newTestClient(t, "http://127.0.0.1:1").ValidateCredentials(ctx))
	})
}

func TestRedactForm(t *testing.T) {
	form := url.Values{}
	form.Set("api_key", "super-secret")
	form.Set("id", "ATL1")

	redacted := redactForm(form)

	assert.Equal(t, "***", redacted["api_key"])
	assert.Equal(t, "ATL1", redacted["id"])
}

func TestParseProviderTime(t *testing.T) {
	t.Run("accepted layouts", func(t *testing.T) {
		for _, value := range []string{
			"2025-06-01T10:30:00Z",
			"2025-06-01T10:30:00",
			"2025-06-01 10:30:00",
		} {
			parsed := parseProviderTime(value)
			require.NotNil(t, parsed, "value %s should parse", value)
			assert.Equal(t, 30, parsed.Minute())
		}
	})

	t.Run("absent or garbage values", func(t *testing.T) {
		assert.Nil(t, parseProviderTime(""))
		assert.Nil(t, parseProviderTime("tomorrow"))
		assert.Nil(t, parseProviderTime("01/06/2025"))
	})
}
