package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/internal/config"
	"github.com/chatlens/chatlens/internal/dashboard"
	"github.com/chatlens/chatlens/internal/words"
)

const sampleExport = `[
	{"date": "2024-01-01T09:00:00Z", "author": "Alice", "message": "morning everyone"},
	{"date": "2024-01-01T09:05:00Z", "author": "Bob", "message": "hey there"},
	{"date": "2024-01-01T12:00:00Z", "author": "Alice", "message": "lunch plans"},
	{"date": "2024-01-02T10:00:00Z", "author": "Bob", "message": "sorry missed it"}
]`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(config.Default(), dashboard.NewStore(), words.NewStopwords())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func createAnalysis(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(
		srv.URL+"/api/v1/analyses?name=test-chat",
		"application/json",
		strings.NewReader(sampleExport),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Stats struct {
			TotalMessages int `json:"total_messages"`
		} `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.ID)
	require.Equal(t, "test-chat", body.Name)
	require.Equal(t, 4, body.Stats.TotalMessages)
	return body.ID
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Status    string `json:"status"`
		Analyses  int    `json:"analyses"`
		Stopwords string `json:"stopwords"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)
	assert.Zero(t, body.Analyses)
	assert.NotEmpty(t, body.Stopwords)
}

func TestCreateAndGetStats(t *testing.T) {
	srv := newTestServer(t)
	id := createAnalysis(t, srv)

	var stats struct {
		TotalMessages int      `json:"total_messages"`
		Participants  int      `json:"participants"`
		List          []string `json:"participants_list"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/analyses/"+id+"/stats", &stats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, stats.TotalMessages)
	assert.Equal(t, 2, stats.Participants)
	assert.Equal(t, []string{"Alice", "Bob"}, stats.List)
}

func TestCreateAnalysisMultipart(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "export.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(sampleExport))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(
		srv.URL+"/api/v1/analyses", mw.FormDataContentType(), &buf,
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	// Name falls back to the uploaded filename.
	assert.Equal(t, "export.json", body.Name)
}

func TestCreateAnalysisRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(
		srv.URL+"/api/v1/analyses", "application/json",
		strings.NewReader("not an export"),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAnalyses(t *testing.T) {
	srv := newTestServer(t)
	createAnalysis(t, srv)

	var body struct {
		Analyses []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Messages int    `json:"messages"`
		} `json:"analyses"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/analyses", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Analyses, 1)
	assert.Equal(t, 4, body.Analyses[0].Messages)
}

func TestGetSeriesFiltered(t *testing.T) {
	srv := newTestServer(t)
	id := createAnalysis(t, srv)

	var full struct {
		Labels []string  `json:"labels"`
		Data   []float64 `json:"data"`
	}
	resp := getJSON(t,
		srv.URL+"/api/v1/analyses/"+id+"/series/hourly", &full)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, full.Data, 24)
	assert.Equal(t, float64(2), full.Data[9])

	var bobOnly struct {
		Data []float64 `json:"data"`
	}
	resp = getJSON(t,
		srv.URL+"/api/v1/analyses/"+id+
			"/series/hourly?participants=Bob", &bobOnly)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), bobOnly.Data[9])
	assert.Equal(t, float64(0), bobOnly.Data[12])

	var dayOne struct {
		Data []float64 `json:"data"`
	}
	resp = getJSON(t,
		srv.URL+"/api/v1/analyses/"+id+
			"/series/hourly?from=2024-01-02&to=2024-01-02", &dayOne)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), dayOne.Data[10])
	assert.Equal(t, float64(0), dayOne.Data[9])
}

func TestGetSeriesErrors(t *testing.T) {
	srv := newTestServer(t)
	id := createAnalysis(t, srv)

	tests := []struct {
		name string
		url  string
		code int
	}{
		{
			"unknown metric",
			"/api/v1/analyses/" + id + "/series/no-such",
			http.StatusNotFound,
		},
		{
			"malformed from date",
			"/api/v1/analyses/" + id + "/series/hourly?from=January",
			http.StatusBadRequest,
		},
		{
			"unknown analysis",
			"/api/v1/analyses/nope/series/hourly",
			http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getJSON(t, srv.URL+tt.url, nil)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestGetGroupedSeries(t *testing.T) {
	srv := newTestServer(t)
	id := createAnalysis(t, srv)

	var body struct {
		Labels   []string `json:"labels"`
		Datasets []struct {
			Participant string    `json:"participant"`
			Data        []float64 `json:"data"`
		} `json:"datasets"`
	}
	resp := getJSON(t,
		srv.URL+"/api/v1/analyses/"+id+"/grouped/weekly-pattern", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Labels, 7)
	require.Len(t, body.Datasets, 2)
	assert.Equal(t, "Alice", body.Datasets[0].Participant)

	resp = getJSON(t,
		srv.URL+"/api/v1/analyses/"+id+"/grouped/no-such", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteAnalysis(t *testing.T) {
	srv := newTestServer(t)
	id := createAnalysis(t, srv)

	req, err := http.NewRequest(
		http.MethodDelete, srv.URL+"/api/v1/analyses/"+id, nil,
	)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = getJSON(t, srv.URL+"/api/v1/analyses/"+id+"/stats", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportDownload(t *testing.T) {
	srv := newTestServer(t)
	id := createAnalysis(t, srv)

	resp, err := http.Get(srv.URL + "/api/v1/analyses/" + id + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t,
		resp.Header.Get("Content-Disposition"), "chat-analysis-")

	var doc struct {
		Messages []json.RawMessage `json:"messages"`
		Charts   map[string]any    `json:"charts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Len(t, doc.Messages, 4)
	assert.Contains(t, doc.Charts, "hourly_activity")
}

func TestSeriesNamesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Metrics []string `json:"metrics"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/metrics/names", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body.Metrics, "hourly")
	assert.Contains(t, body.Metrics, "conversation-starters")
}

func TestGetParticipants(t *testing.T) {
	srv := newTestServer(t)
	id := createAnalysis(t, srv)

	var body struct {
		Participants []string `json:"participants"`
		Profiles     []struct {
			Name         string `json:"name"`
			MessageCount int    `json:"message_count"`
		} `json:"profiles"`
	}
	resp := getJSON(t, srv.URL+"/api/v1/analyses/"+id+"/participants", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Alice", "Bob"}, body.Participants)
	require.Len(t, body.Profiles, 2)
	assert.Equal(t, 2, body.Profiles[0].MessageCount)
}

func TestFindAvailablePort(t *testing.T) {
	port := FindAvailablePort("127.0.0.1", 19000)
	require.NotZero(t, port)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	ln.Close()
}

func TestFindAvailablePortSkipsBusyPort(t *testing.T) {
	// Occupy a port, then ask for it: the probe must move past it
	// so startup falls forward instead of dying on a taken port.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	port := FindAvailablePort("127.0.0.1", busy)
	assert.NotEqual(t, busy, port)
	assert.Greater(t, port, busy)
}
