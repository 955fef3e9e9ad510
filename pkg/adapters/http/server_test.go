package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keepaway"
	"github.com/aretw0/keepaway/pkg/domain"
	"github.com/aretw0/keepaway/pkg/observability"
)

func puzzle(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "internal", "compiler", "testdata", "example.txt"))
	require.NoError(t, err)
	return data
}

func upload(t *testing.T, handler http.Handler, path, field string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "input.txt")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func postJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthAndInfo(t *testing.T) {
	handler := NewHandler(keepaway.New())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "keepaway-http", info["app"])
	assert.Equal(t, strings.TrimSpace(keepaway.Version), info["version"])
}

func TestSolveUpload(t *testing.T) {
	handler := NewHandler(keepaway.New())

	w := upload(t, handler, "/v1/advent2022/day11/part1", "file", puzzle(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"success","answer":10605}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = upload(t, handler, "/v1/advent2022/day11/part2", "file", puzzle(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"success","answer":2713310158}`, w.Body.String())
}

func TestSolveUpload_Failures(t *testing.T) {
	handler := NewHandler(keepaway.New())

	t.Run("missing file field", func(t *testing.T) {
		w := upload(t, handler, "/v1/advent2022/day11/part1", "attachment", puzzle(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp AnswerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "failure", resp.Response)
		assert.Nil(t, resp.Answer)
	})

	t.Run("malformed input", func(t *testing.T) {
		w := upload(t, handler, "/v1/advent2022/day11/part1", "file", []byte("Monkey 0:\n  Starting items: banana\n"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp AnswerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "failure", resp.Response)
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("unknown part", func(t *testing.T) {
		w := upload(t, handler, "/v1/advent2022/day11/part3", "file", puzzle(t))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateSimulation(t *testing.T) {
	handler := NewHandler(keepaway.New())

	t.Run("puzzle input", func(t *testing.T) {
		body, err := json.Marshal(SimulationRequest{Input: string(puzzle(t)), Mode: "unbounded"})
		require.NoError(t, err)

		w := postJSON(handler, "/v1/simulations", string(body))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var res domain.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, int64(2713310158), res.Answer)
		assert.Equal(t, 10000, res.Rounds)
		assert.Equal(t, []int64{52166, 47830, 1938, 52013}, res.Inspections)
	})

	t.Run("structured agents", func(t *testing.T) {
		doc, err := os.ReadFile(filepath.Join("..", "..", "..", "internal", "compiler", "testdata", "example.json"))
		require.NoError(t, err)
		var wrapper struct {
			Agents json.RawMessage `json:"agents"`
		}
		require.NoError(t, json.Unmarshal(doc, &wrapper))
		body, err := json.Marshal(SimulationRequest{Agents: wrapper.Agents, Rounds: 20, Dampener: 3})
		require.NoError(t, err)

		w := postJSON(handler, "/v1/simulations", string(body))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var res domain.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, int64(10605), res.Answer)
	})
}

func TestCreateSimulation_Errors(t *testing.T) {
	handler := NewHandler(keepaway.New())

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"empty request", `{}`, http.StatusBadRequest},
		{"not json", `agents`, http.StatusBadRequest},
		{"unknown field", `{"monkeys": []}`, http.StatusBadRequest},
		{"unknown mode", `{"input": "x", "mode": "part9"}`, http.StatusBadRequest},
		{"both shapes", `{"input": "x", "agents": []}`, http.StatusBadRequest},
		{"schema violation", `{"agents": [{"items": [1], "divisor": 0, "operation": {"kind": "+", "operand": 1}, "if_true": 0, "if_false": 0}]}`, http.StatusBadRequest},
		{"successor out of range", `{"agents": [{"items": [1], "divisor": 2, "operation": {"kind": "+", "operand": 1}, "if_true": 0, "if_false": 4}]}`, http.StatusBadRequest},
		{"negative rounds", `{"agents": [{"items": [1], "divisor": 2, "operation": {"kind": "+", "operand": 1}, "if_true": 0, "if_false": 0}], "rounds": -1}`, http.StatusBadRequest},
		{"rounds over limit", `{"agents": [{"items": [1], "divisor": 2, "operation": {"kind": "+", "operand": 1}, "if_true": 0, "if_false": 0}], "rounds": 2000000000}`, http.StatusBadRequest},
		{"overflow", `{"agents": [{"items": [4294967296], "divisor": 2, "operation": {"kind": "*", "operand": "old"}, "if_true": 0, "if_false": 0}], "rounds": 1, "dampener": 1}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(handler, "/v1/simulations", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestCreateSimulation_MaxRounds(t *testing.T) {
	handler := NewHandler(keepaway.New(), WithMaxRounds(20))
	agents := `[{"items": [1], "divisor": 2, "operation": {"kind": "+", "operand": 1}, "if_true": 0, "if_false": 0}]`

	w := postJSON(handler, "/v1/simulations", `{"agents": `+agents+`, "rounds": 20}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postJSON(handler, "/v1/simulations", `{"agents": `+agents+`, "rounds": 21}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "server limit of 20")

	// Mode defaults are capped too.
	w = postJSON(handler, "/v1/simulations", `{"agents": `+agents+`, "mode": "unbounded"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubSolver struct {
	err error
}

func (s stubSolver) Solve(ctx context.Context, input []byte, mode domain.Mode) (domain.Result, error) {
	return domain.Result{}, s.err
}

func (s stubSolver) Simulate(ctx context.Context, defs []domain.Definition, rounds int, dampener int64) (domain.Result, error) {
	return domain.Result{}, s.err
}

func TestCreateSimulation_Timeout(t *testing.T) {
	handler := NewHandler(stubSolver{err: context.DeadlineExceeded})

	w := postJSON(handler, "/v1/simulations", `{"input": "x"}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	solver := keepaway.New(keepaway.WithMetrics(metrics))
	handler := NewHandler(solver, WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	w := upload(t, handler, "/v1/advent2022/day11/part1", "file", puzzle(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `keepaway_runs_total{mode="bounded",outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "keepaway_items_inspected_total 308")
}

func TestMetricsEndpoint_NotMounted(t *testing.T) {
	handler := NewHandler(keepaway.New())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	handler := NewHandler(keepaway.New())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/simulations", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
