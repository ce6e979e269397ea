package walk

import (
	"fmt"

	"github.com/dualsubstrate/web4r-go/internal/models"
)

// parseSteps converts the response's step list into typed WalkSteps.
// Entries that are not objects are skipped.
func parseSteps(entries []any) []models.WalkStep {
	steps := make([]models.WalkStep, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		steps = append(steps, models.WalkStep{
			From:       anyString(raw["from"]),
			To:         anyString(raw["to"]),
			Candidates: parseCandidates(listOf(raw, "candidates")),
			Score:      scoreOf(raw),
			Raw:        raw,
		})
	}
	return steps
}

// parseCandidates reads per-hop candidates. The coordinate is probed across
// the field names seen in the wild; candidates without one are dropped.
func parseCandidates(entries []any) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(entries))
	for _, entry := range entries {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		var coord string
		for _, key := range []string{"coord", "coordinate", "node", "id"} {
			if coord = anyString(raw[key]); coord != "" {
				break
			}
		}
		if coord == "" {
			continue
		}
		candidates = append(candidates, models.Candidate{Coord: coord, Score: scoreOf(raw)})
	}
	return candidates
}

// scoreOf reads an object's score field, falling back to a numeric
// coherence field.
func scoreOf(raw map[string]any) models.Score {
	if s := models.ScoreFrom(raw["score"]); s.Valid() {
		return s
	}
	return models.ScoreFrom(raw["coherence"])
}

// parseLawfulness renders the per-hop lawfulness annotations as strings.
func parseLawfulness(entries []any) []string {
	if entries == nil {
		return nil
	}
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = anyString(entry)
	}
	return out
}

// parseHopScores reads the per-hop score list; entries are either bare
// numbers or {score: n} objects.
func parseHopScores(entries []any) []models.Score {
	if entries == nil {
		return nil
	}
	out := make([]models.Score, len(entries))
	for i, entry := range entries {
		if obj, ok := entry.(map[string]any); ok {
			out[i] = models.ScoreFrom(obj["score"])
			continue
		}
		out[i] = models.ScoreFrom(entry)
	}
	return out
}

func objectOf(m map[string]any, key string) map[string]any {
	child, _ := m[key].(map[string]any)
	return child
}

func listOf(m map[string]any, key string) []any {
	child, _ := m[key].([]any)
	return child
}

// anyString renders a scalar as a string, and nil or containers as "".
func anyString(v any) string {
	switch s := v.(type) {
	case nil, map[string]any, []any:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// stringList converts a JSON list to strings; non-list input yields nil.
func stringList(v any) []string {
	entries, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, anyString(entry))
	}
	return out
}
