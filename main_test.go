package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/timefeed"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	baseURL       string
	cancelStreams context.CancelFunc
}

// startServer runs the full app on a loopback listener backed by a SQLite file.
func startServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Port: "0",
		Database: config.Database{
			Driver:       "sqlite",
			DSN:          "file:" + filepath.Join(t.TempDir(), "storefront.db"),
			MaxOpenConns: 1,
		},
		TimeFeed: config.TimeFeed{
			Interval: 100 * time.Millisecond,
			Layout:   timefeed.DefaultLayout,
		},
	}

	db, err := database.Connect(context.Background(), cfg.Database, log)
	require.NoError(t, err)

	streamCtx, cancelStreams := context.WithCancel(context.Background())
	app := newApp(streamCtx, cfg, db, nil, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()

	t.Cleanup(func() {
		cancelStreams()
		_ = app.ShutdownWithTimeout(2 * time.Second)
		_ = database.Close(db)
	})

	return &testServer{
		baseURL:       "http://" + ln.Addr().String(),
		cancelStreams: cancelStreams,
	}
}

func (s *testServer) scrapeMetrics(t *testing.T) string {
	t.Helper()
	resp, err := http.Get(s.baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// waitForOpenStreams polls /metrics until the open stream gauge equals n.
func (s *testServer) waitForOpenStreams(t *testing.T, n int) {
	t.Helper()
	want := fmt.Sprintf("sse_streams_open %d\n", n)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(s.baseURL + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		return err == nil && strings.Contains(string(body), want)
	}, 3*time.Second, 50*time.Millisecond)
}

// readFrames reads n "data:" lines from an event stream.
func readFrames(t *testing.T, r *bufio.Reader, n int) []string {
	t.Helper()
	var frames []string
	for len(frames) < n {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			frames = append(frames, strings.TrimSuffix(strings.TrimPrefix(line, "data: "), "\n"))
		}
	}
	return frames
}

func TestServer_HealthAndCommonHeaders(t *testing.T) {
	srv := startServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.baseURL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://shop.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	_, err = uuid.Parse(resp.Header.Get("X-Request-ID"))
	assert.NoError(t, err, "request id should be a uuid")
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := startServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.baseURL+"/api/v1/products/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestServer_ProductRoundTrip(t *testing.T) {
	srv := startServer(t)

	resp, err := http.Post(srv.baseURL+"/api/v1/products", "application/json",
		strings.NewReader(`{"name":"Desk lamp","price":24.99}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.baseURL + "/api/v1/products?page=1")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"name":"Desk lamp"`)
	assert.Contains(t, string(body), `"totalItems":1`)

	assert.Regexp(t, `http_requests_total\{method="POST",route="/api/v1/products/?",status="201"\} 1`, srv.scrapeMetrics(t))
}

func TestServer_TimeStream(t *testing.T) {
	srv := startServer(t)

	resp, err := http.Get(srv.baseURL + "/api/v1/currentTime")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	frames := readFrames(t, bufio.NewReader(resp.Body), 3)
	for _, f := range frames {
		_, err := time.Parse(timefeed.DefaultLayout, f)
		assert.NoError(t, err, "frame %q should be a clock time", f)
	}
	assert.Contains(t, srv.scrapeMetrics(t), "sse_streams_open 1")

	// Disconnecting ends the stream on the next failed write.
	require.NoError(t, resp.Body.Close())
	srv.waitForOpenStreams(t, 0)
}

func TestServer_TimeStreamRepeatedConnectsLeaveNoOpenStreams(t *testing.T) {
	srv := startServer(t)

	for cycle := 0; cycle < 5; cycle++ {
		var bodies []io.ReadCloser
		for i := 0; i < 2; i++ {
			resp, err := http.Get(srv.baseURL + "/api/v1/currentTime")
			require.NoError(t, err)
			readFrames(t, bufio.NewReader(resp.Body), 1)
			bodies = append(bodies, resp.Body)
		}
		assert.Contains(t, srv.scrapeMetrics(t), "sse_streams_open 2", "cycle %d", cycle)

		for _, b := range bodies {
			require.NoError(t, b.Close())
		}
		srv.waitForOpenStreams(t, 0)
	}
}

func TestServer_TimeStreamEndsOnShutdown(t *testing.T) {
	srv := startServer(t)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(srv.baseURL + "/api/v1/currentTime")
	require.NoError(t, err)
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	readFrames(t, r, 1)

	start := time.Now()
	srv.cancelStreams()
	_, err = io.ReadAll(r)
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
