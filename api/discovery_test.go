package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan"
)

// newTestSite serves a small static site: the root links to two inner pages.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Home</title></head><body><a href="/about">About</a> <a href="/contact">Contact</a></body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>About</title></head><body><p>About us</p></body></html>`)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Contact</title></head><body><form><input type="email"></form></body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSubmitDiscoveryHandler(t *testing.T) {
	a := newTestAPI(t)
	site := newTestSite(t)

	resp := a.request(t, "POST", "/api/v1/discovery", SubmitDiscoveryInput{
		URL:      site.URL,
		MaxPages: 10,
		MaxDepth: 2,
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var accepted SubmitDiscoveryResponse
	decodeBody(t, resp, &accepted)
	assert.NotEmpty(t, accepted.DiscoveryID)
	assert.Equal(t, fmt.Sprintf("/api/v1/discovery/%s/stream", accepted.DiscoveryID), accepted.StreamURL)

	a.runner.Wait()

	statusResp := a.request(t, "GET", "/api/v1/discovery/"+accepted.DiscoveryID, nil)
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)
	var snapshot scan.DiscoverySnapshot
	decodeBody(t, statusResp, &snapshot)
	assert.Equal(t, scan.StateCompleted, snapshot.State)
	assert.Equal(t, 3, snapshot.PagesFound)
	assert.Equal(t, float64(100), snapshot.Progress)

	pagesResp := a.request(t, "GET", fmt.Sprintf("/api/v1/discovery/%s/pages", accepted.DiscoveryID), nil)
	assert.Equal(t, http.StatusOK, pagesResp.StatusCode)
	var pages []scan.DiscoveredPage
	decodeBody(t, pagesResp, &pages)
	require.Len(t, pages, 3)
	assert.Equal(t, scan.PageTypeHomepage, pages[0].Type)

	listResp := a.request(t, "GET", "/api/v1/discoveries", nil)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	var snapshots []scan.DiscoverySnapshot
	decodeBody(t, listResp, &snapshots)
	assert.Len(t, snapshots, 1)
}

func TestSubmitDiscoveryHandlerValidation(t *testing.T) {
	a := newTestAPI(t)

	t.Run("missing url", func(t *testing.T) {
		resp := a.request(t, "POST", "/api/v1/discovery", SubmitDiscoveryInput{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "URL", body.Field)
	})

	t.Run("bad scheme", func(t *testing.T) {
		resp := a.request(t, "POST", "/api/v1/discovery", SubmitDiscoveryInput{URL: "ftp://example.com"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "url", body.Field)
	})
}

func TestDiscoveryStreamHandler(t *testing.T) {
	a := newTestAPI(t)
	site := newTestSite(t)

	resp := a.request(t, "POST", "/api/v1/discovery", SubmitDiscoveryInput{URL: site.URL, MaxPages: 10, MaxDepth: 2})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var accepted SubmitDiscoveryResponse
	decodeBody(t, resp, &accepted)
	a.runner.Wait()

	streamResp := a.request(t, "GET", accepted.StreamURL, nil)
	assert.Equal(t, http.StatusOK, streamResp.StatusCode)
	assert.Equal(t, "text/event-stream", streamResp.Header.Get(fiber.HeaderContentType))

	defer streamResp.Body.Close()
	body, err := io.ReadAll(streamResp.Body)
	require.NoError(t, err)

	frames := strings.Split(strings.TrimSpace(string(body)), "\n\n")
	require.NotEmpty(t, frames)

	types := make([]events.Type, 0, len(frames))
	for _, frame := range frames {
		var event events.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &event))
		types = append(types, event.Type)
	}
	assert.Equal(t, events.ScanStart, types[0])
	assert.Contains(t, types, events.DiscoveryProgress)
	assert.Equal(t, events.ScanComplete, types[len(types)-1])
}

func TestCancelDiscoveryHandler(t *testing.T) {
	a := newTestAPI(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resp := a.request(t, "POST", "/api/v1/discovery", SubmitDiscoveryInput{URL: server.URL})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var accepted SubmitDiscoveryResponse
	decodeBody(t, resp, &accepted)

	cancelResp := a.request(t, "POST", fmt.Sprintf("/api/v1/discovery/%s/cancel", accepted.DiscoveryID), nil)
	assert.Equal(t, http.StatusOK, cancelResp.StatusCode)

	a.runner.Wait()

	statusResp := a.request(t, "GET", "/api/v1/discovery/"+accepted.DiscoveryID, nil)
	var snapshot scan.DiscoverySnapshot
	decodeBody(t, statusResp, &snapshot)
	assert.Equal(t, scan.StateCancelled, snapshot.State)

	again := a.request(t, "POST", fmt.Sprintf("/api/v1/discovery/%s/cancel", accepted.DiscoveryID), nil)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
}

func TestDiscoveryHandlersUnknownID(t *testing.T) {
	a := newTestAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/discovery/no-such-discovery"},
		{"GET", "/api/v1/discovery/no-such-discovery/pages"},
		{"GET", "/api/v1/discovery/no-such-discovery/stream"},
		{"POST", "/api/v1/discovery/no-such-discovery/cancel"},
	}
	for _, tc := range paths {
		resp := a.request(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}
