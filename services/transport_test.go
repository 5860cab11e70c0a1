package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-channel/config"
)

func transportFor(t *testing.T, url string, timeout time.Duration) *PMSTransport {
	t.Helper()
	cfg := &config.ChannelConfig{
		EndpointURL:    url,
		APIKey:         "key",
		APISecret:      "secret",
		RequestTimeout: timeout,
		MaxAttempts:    3,
	}
	return NewPMSTransport(cfg, testLogger())
}

func TestSendRetriesTimeoutsThenSucceeds(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 2 {
			// Outlast the client timeout to simulate a hung remote.
			time.Sleep(300 * time.Millisecond)
			return
		}
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		w.Write([]byte(`<OTA_HotelResNotifRS><Success/></OTA_HotelResNotifRS>`))
	}))
	defer server.Close()

	tr := transportFor(t, server.URL, 100*time.Millisecond)
	body, err := tr.Send(context.Background(), []byte("<payload/>"))

	require.NoError(t, err)
	assert.Contains(t, string(body), "<Success/>")
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestSendRetries5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) <= 1 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`<OTA_HotelResNotifRS><Success/></OTA_HotelResNotifRS>`))
	}))
	defer server.Close()

	tr := transportFor(t, server.URL, time.Second)
	_, err := tr.Send(context.Background(), []byte("<payload/>"))

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestSend4xxIsTerminal(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	tr := transportFor(t, server.URL, time.Second)
	_, err := tr.Send(context.Background(), []byte("<payload/>"))

	var protocolErr *ProtocolError
	require.ErrorAs(t, err, &protocolErr)
	assert.Equal(t, http.StatusBadRequest, protocolErr.StatusCode)
	// Exactly one attempt: 4xx is never retried.
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestSendExhaustedRetriesWrapsLastFailure(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := transportFor(t, server.URL, time.Second)
	_, err := tr.Send(context.Background(), []byte("<payload/>"))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 3, transportErr.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestBackoffDelay(t *testing.T) {
	assert.Equal(t, time.Second, backoffDelay(1))
	assert.Equal(t, 2*time.Second, backoffDelay(2))
	assert.Equal(t, 4*time.Second, backoffDelay(3))
}
