package walk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dualsubstrate/web4r-go/internal/client"
	"github.com/dualsubstrate/web4r-go/internal/models"
)

// testResolver backs a Resolver with a stub server and counts its calls.
func testResolver(t *testing.T, handler http.HandlerFunc) (*Resolver, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := client.New(client.Config{BaseURL: srv.URL}, nil, nil)
	return NewResolver(c, nil), &calls
}

func TestResolveStart_PrefixedCoordinateSkipsNetwork(t *testing.T) {
	r, calls := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("unexpected network call for a prefixed coordinate")
	})

	res, err := r.ResolveStart(context.Background(), "EV:42")
	require.NoError(t, err)

	assert.Equal(t, "EV:42", res.Coordinate)
	assert.Equal(t, "EV", res.Namespace)
	assert.Zero(t, *calls)
}

func TestResolveStart_PrefersCanonicalCoord(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"canonical_coord": "EV:42", "namespace": "EV"}`))
	})

	res, err := r.ResolveStart(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "EV:42", res.Coordinate)
	assert.Equal(t, "EV", res.Namespace)
}

func TestResolveStart_SynthesizesFromNamespace(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		// Namespace recovered, but no canonical coordinate offered.
		_, _ = w.Write([]byte(`{"status": "success", "namespace_used": "WX"}`))
	})

	res, err := r.ResolveStart(context.Background(), "deep-thought")
	require.NoError(t, err)
	assert.Equal(t, "WX:deep-thought", res.Coordinate)
	assert.Equal(t, "WX", res.Namespace)
}

func TestResolveStart_NoNamespaceRecovered(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success"}`))
	})

	res, err := r.ResolveStart(context.Background(), "orphan")
	require.NoError(t, err)
	assert.Equal(t, "orphan", res.Coordinate)
	assert.Empty(t, res.Namespace)
}

func TestResolveStart_DecodeFailure(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "ledger unavailable"}`))
	})

	res, err := r.ResolveStart(context.Background(), "EV-1")

	var unresolved *UnresolvedStartError
	require.ErrorAs(t, err, &unresolved)
	assert.Contains(t, unresolved.Error(), "ledger unavailable")
	// The original coordinate comes back; the caller decides fatality.
	assert.Equal(t, "EV-1", res.Coordinate)
	assert.Empty(t, res.Namespace)
}

func TestRun_ParsesAndAnchorsPath(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "EV:1", body["start_coord"])
		assert.Equal(t, float64(3), body["max_steps"])

		_, _ = w.Write([]byte(`{
			"path": ["EV:2", "EV:3"],
			"steps": [
				{"from": "EV:1", "to": "EV:2", "candidates": [{"coord": "EV:2", "score": 0.9}, {"node": "EV:8", "coherence": 0.4}]},
				{"from": "EV:2", "to": "EV:3", "score": 0.6}
			],
			"hop_lawfulness": ["lawful", "marginal"],
			"hop_scores": [{"score": 0.9}, 0.6],
			"termination_reason": "max_steps"
		}`))
	})

	result, err := r.Run(context.Background(), "EV:1", 3, "EV")
	require.NoError(t, err)

	// Backend path was hop-relative; the start coordinate gets prepended.
	assert.Equal(t, []string{"EV:1", "EV:2", "EV:3"}, result.Path)
	assert.Equal(t, "max_steps", result.TerminationReason)

	require.Len(t, result.Steps, 2)
	first := result.Steps[0]
	assert.Equal(t, "EV:1", first.From)
	require.Len(t, first.Candidates, 2)
	assert.Equal(t, "EV:2", first.Candidates[0].Coord)
	assert.Equal(t, "EV:8", first.Candidates[1].Coord)
	v, ok := first.Candidates[1].Score.Float64()
	require.True(t, ok, "coherence field should back the candidate score")
	assert.InDelta(t, 0.4, v, 1e-9)

	rows := result.InspectionRows()
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].Hop)
	assert.False(t, rows[0].Score.Valid())
	assert.Equal(t, "lawful", rows[1].Lawfulness)
	v, ok = rows[2].Score.Float64()
	require.True(t, ok)
	assert.InDelta(t, 0.6, v, 1e-9)
}

func TestRun_PathAlreadyAnchored(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"path": ["EV:1", "EV:2"]}`))
	})

	result, err := r.Run(context.Background(), "EV:1", 5, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"EV:1", "EV:2"}, result.Path)
}

func TestRun_PathUnderDataEnvelope(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"path": ["EV:1", "EV:2"], "steps": [{"from": "EV:1", "to": "EV:2"}]}}`))
	})

	result, err := r.Run(context.Background(), "EV:1", 5, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"EV:1", "EV:2"}, result.Path)
	assert.Len(t, result.Steps, 1)
}

func TestRun_EmptyPath(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing path", `{"steps": []}`},
		{"path not a list", `{"path": "EV:1"}`},
		{"empty list", `{"path": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := r.Run(context.Background(), "EV:1", 5, "")
			assert.ErrorIs(t, err, ErrEmptyPath)
		})
	}
}

func TestRun_BackendError(t *testing.T) {
	r, _ := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error", "detail": "walk engine offline"}`))
	})

	_, err := r.Run(context.Background(), "EV:1", 5, "")
	var backendErr *client.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "walk engine offline", backendErr.Detail)
}

func TestRun_ValidatesHopBounds(t *testing.T) {
	r, calls := testResolver(t, func(w http.ResponseWriter, req *http.Request) {})

	for _, hops := range []int{0, -1, 26} {
		_, err := r.Run(context.Background(), "EV:1", hops, "")
		assert.Error(t, err, "maxHops=%d should be rejected", hops)
	}
	assert.Zero(t, *calls, "invalid requests must not reach the backend")
}

func TestExtractPath(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantPath  []string
		wantSteps int
		wantOK    bool
	}{
		{
			name:     "top level path",
			payload:  `{"path": ["A", "B"], "steps": [{"from": "A", "to": "B"}]}`,
			wantPath: []string{"A", "B"}, wantSteps: 1, wantOK: true,
		},
		{
			name:     "walk_path alias",
			payload:  `{"walk_path": ["A", "B"]}`,
			wantPath: []string{"A", "B"}, wantOK: true,
		},
		{
			name:     "nested under metadata",
			payload:  `{"metadata": {"path": ["X"], "steps": []}}`,
			wantPath: []string{"X"}, wantOK: true,
		},
		{
			name:     "top level wins over nested",
			payload:  `{"path": ["top"], "payload": {"path": ["nested"]}}`,
			wantPath: []string{"top"}, wantOK: true,
		},
		{
			name: "scan order prefers payload over data",
			payload: `{
				"data": {"path": ["from-data"]},
				"payload": {"path": ["from-payload"]}
			}`,
			wantPath: []string{"from-payload"}, wantOK: true,
		},
		{
			name:    "absent everywhere",
			payload: `{"content": {"summary": "no walk here"}}`,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &payload))

			path, steps, ok := ExtractPath(payload)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, path)
			assert.Len(t, steps, tt.wantSteps)
		})
	}
}

func TestParseCandidates_DropsCoordlessEntries(t *testing.T) {
	entries := []any{
		map[string]any{"id": "C1", "score": 0.5},
		map[string]any{"score": 0.9},
		"scalar",
	}

	got := parseCandidates(entries)
	require.Len(t, got, 1)
	assert.Equal(t, models.Candidate{Coord: "C1", Score: models.NewScore(0.5)}, got[0])
}
