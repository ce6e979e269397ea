// Package normalize maps the backend's heterogeneous response payloads into
// the canonical DecodeResult. The backend has shipped several structurally
// different response schemas without a version tag, so classification is done
// by probing for shape-defining fields, and every field of the canonical
// result is resolved through an ordered fallback chain ending in a sentinel.
// Normalize is total: any well-formed JSON object produces a success result.
package normalize

import (
	"github.com/dualsubstrate/web4r-go/internal/models"
)

// shape pairs a pure predicate over the raw payload with a total extractor.
// Shapes are evaluated in declaration order; the first match wins.
type shape struct {
	name    string
	matches func(payload map[string]any) bool
	extract func(payload map[string]any, hint string) models.DecodeResult
}

var shapes = []shape{
	{name: "coord-envelope", matches: isEnvelope, extract: fromEnvelope},
	// The legacy flat/nested shape is the catch-all for everything else.
	{name: "legacy", matches: func(map[string]any) bool { return true }, extract: fromLegacy},
}

// Normalize maps a raw backend payload into the canonical DecodeResult. The
// coordinate hint is the coordinate the caller asked for; it backs the
// namespace fallback chain. Normalize never fails; transport and backend
// failures are the caller's concern.
func Normalize(payload map[string]any, hint string) models.DecodeResult {
	for _, s := range shapes {
		if s.matches(payload) {
			return s.extract(payload, hint)
		}
	}
	// Unreachable: the legacy shape matches every object.
	return fromLegacy(payload, hint)
}

// isEnvelope detects the richer coord/skim/governance envelope.
func isEnvelope(payload map[string]any) bool {
	_, hasCoord := payload["coord"]
	_, hasSkim := payload["skim"]
	return hasCoord && hasSkim
}

// fromEnvelope extracts the rich envelope shape. Coherence and mediator live
// in the governance appraisal, the summary in the skim (falling back to the
// segment/blob payload), and claims in the interpretation. Envelope
// responses carry no primes.
func fromEnvelope(payload map[string]any, hint string) models.DecodeResult {
	skim := objectOf(payload, "skim")
	appraisal := objectOf(objectOf(payload, "governance"), "appraisal")
	meta := objectOf(payload, "meta")

	contentRaw := objectOf(payload, "payload")
	if contentRaw == nil {
		contentRaw = map[string]any{}
	}

	return models.DecodeResult{
		Status: models.StatusSuccess,
		Meta: models.Meta{
			Namespace: firstNonEmpty(
				stringOf(meta, "namespace_used"),
				stringOf(meta, "namespace"),
				hintNamespace(hint),
			),
			Type:      firstNonEmpty(stringOf(payload, "type"), models.UnknownType),
			Coherence: scoreChain(appraisal["coherence"], appraisal["score"], appraisal["grace"]),
			Mediator: firstNonEmpty(
				stringOf(appraisal, "law"),
				stringOf(meta, "provider"),
				stringOf(payload, "provider"),
				models.NoValue,
			),
			Timestamp: firstNonEmpty(stringOf(meta, "created_at"), models.NoValue),
			Raw:       payload,
		},
		Content: models.Content{
			Summary: firstNonEmpty(
				stringOf(skim, "one_line"),
				blobSummary(objectOf(payload, "payload")),
				models.NoSummary,
			),
			Claims:  claimStrings(listOf(objectOf(payload, "interpretation"), "claims")),
			Context: stringOf(payload, "coord"),
			Raw:     contentRaw,
		},
		Primes: []int64{},
		Raw:    payload,
	}
}

// fromLegacy extracts the legacy flat/nested shape: a meta/metadata
// sub-object plus either a content sub-object or top-level fallback fields
// from the oldest responses (assistant_reply, knowledge_tree, user_message).
func fromLegacy(payload map[string]any, hint string) models.DecodeResult {
	meta := objectOf(payload, "meta")
	if meta == nil {
		meta = objectOf(payload, "metadata")
	}
	appraisal := objectOf(meta, "appraisal")

	metaRaw := meta
	if len(metaRaw) == 0 {
		metaRaw = payload
	}

	content := objectOf(payload, "content")
	if len(content) == 0 {
		content = map[string]any{
			"summary": firstNonEmpty(
				stringOf(payload, "assistant_reply"),
				stringOf(payload, "full_text"),
				models.NoSummary,
			),
			"claims":  payload["knowledge_tree"],
			"context": firstNonEmpty(stringOf(payload, "user_message"), hint),
		}
	}

	claims := claimStrings(listOf(content, "claims"))
	if len(claims) == 0 {
		claims = claimStrings(listOf(content, "knowledge_tree"))
	}

	return models.DecodeResult{
		Status: models.StatusSuccess,
		Meta: models.Meta{
			Namespace: firstNonEmpty(
				stringOf(payload, "namespace_used"),
				stringOf(payload, "namespace"),
				stringOf(meta, "namespace"),
				hintNamespace(hint),
			),
			Type: firstNonEmpty(
				stringOf(meta, "type"),
				stringOf(meta, "kind"),
				stringOf(payload, "kind"),
				models.UnknownType,
			),
			Coherence: scoreChain(meta["coherence"], meta["score"], appraisal["score"]),
			Mediator: firstNonEmpty(
				stringOf(meta, "mediator"),
				stringOf(meta, "provider"),
				stringOf(payload, "provider"),
				models.NoValue,
			),
			Timestamp: firstNonEmpty(
				stringOf(meta, "timestamp"),
				stringOf(payload, "created_at"),
				stringOf(meta, "session_id"),
				models.NoValue,
			),
			Raw: metaRaw,
		},
		Content: models.Content{
			Summary: firstNonEmpty(stringOf(content, "summary"), models.NoSummary),
			Claims:  claims,
			Context: firstNonEmpty(stringOf(content, "context"), stringOf(payload, "coordinate")),
			Raw:     content,
		},
		Primes: primesOf(payload),
		Raw:    payload,
	}
}

// primesOf reads the prime factor list from its two historical field names.
// Non-numeric entries are dropped; the result is never nil.
func primesOf(payload map[string]any) []int64 {
	for _, key := range []string{"primes", "token_primes"} {
		list := listOf(payload, key)
		if len(list) == 0 {
			continue
		}
		primes := make([]int64, 0, len(list))
		for _, v := range list {
			if f, ok := v.(float64); ok {
				primes = append(primes, int64(f))
			}
		}
		return primes
	}
	return []int64{}
}
