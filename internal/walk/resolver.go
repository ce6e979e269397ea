// Package walk drives graph traversals against the resolver API: start
// coordinate resolution, walk execution, and recovery of walks embedded in
// previously saved payloads.
package walk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/dualsubstrate/web4r-go/internal/client"
	"github.com/dualsubstrate/web4r-go/internal/models"
)

// ErrEmptyPath is returned when a walk response lacks a usable path.
var ErrEmptyPath = errors.New("walk returned no path")

// UnresolvedStartError reports that namespace resolution for the start
// coordinate failed. It is fatal to the walk pass that triggered it only.
type UnresolvedStartError struct {
	Coordinate string
	Cause      error
}

func (e *UnresolvedStartError) Error() string {
	return fmt.Sprintf("resolve start coordinate %q: %v", e.Coordinate, e.Cause)
}

func (e *UnresolvedStartError) Unwrap() error {
	return e.Cause
}

// StartResolution is the outcome of resolving a walk's start coordinate.
type StartResolution struct {
	Coordinate string
	Namespace  string
}

// Resolver runs walks through the transport client.
type Resolver struct {
	client   *client.Client
	logger   *slog.Logger
	validate *validator.Validate
}

// NewResolver creates a walk resolver.
func NewResolver(c *client.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client:   c,
		logger:   logger,
		validate: validator.New(),
	}
}

// ResolveStart determines the namespace of a walk's start coordinate. A
// prefixed coordinate resolves locally without a network call; anything else
// is decoded silently so the backend can tell us its canonical form. On a
// failed decode the original coordinate comes back along with the error, and
// the caller decides whether that is fatal.
func (r *Resolver) ResolveStart(ctx context.Context, coordinate string) (StartResolution, error) {
	if ns, ok := models.SplitNamespace(coordinate); ok {
		return StartResolution{Coordinate: coordinate, Namespace: ns}, nil
	}

	result, err := r.client.Decode(ctx, coordinate)
	if err != nil {
		return StartResolution{Coordinate: coordinate}, &UnresolvedStartError{Coordinate: coordinate, Cause: err}
	}

	for _, key := range []string{"canonical_coord", "coord", "coordinate"} {
		if canonical := anyString(result.Raw[key]); canonical != "" {
			return StartResolution{Coordinate: canonical, Namespace: result.Meta.Namespace}, nil
		}
	}

	// The normalizer falls back to the whole hint when the payload carries
	// no namespace; that fallback is not a recovered namespace.
	if ns := result.Meta.Namespace; ns != "" && ns != coordinate {
		return StartResolution{Coordinate: ns + ":" + coordinate, Namespace: ns}, nil
	}

	return StartResolution{Coordinate: coordinate}, nil
}

// Run issues one walk request and parses the response. The backend's path is
// hop-relative; it gets anchored to the requested start coordinate when the
// first element differs. Walks are not idempotent server-side and are never
// retried here.
func (r *Resolver) Run(ctx context.Context, start string, maxHops int, namespace string) (*models.WalkResult, error) {
	req := client.WalkRequest{
		StartCoord:       start,
		MaxSteps:         maxHops,
		CurrentCoherence: client.DefaultCoherence,
		Namespace:        namespace,
	}
	if err := r.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid walk request: %w", err)
	}

	body, err := r.client.Walk(ctx, req)
	if err != nil {
		return nil, err
	}

	result := parseWalkBody(body)
	if len(result.Path) == 0 {
		return nil, ErrEmptyPath
	}
	if result.Path[0] != start {
		result.Path = append([]string{start}, result.Path...)
	}
	result.Start = start

	r.logger.Debug("walk completed",
		"start", start,
		"hops", len(result.Path)-1,
		"termination", result.TerminationReason,
	)

	return result, nil
}

// parseWalkBody extracts the traversal from a walk response body, looking
// under the data envelope when the top level has no path.
func parseWalkBody(body map[string]any) *models.WalkResult {
	scope := body
	if stringList(scope["path"]) == nil {
		if data := objectOf(body, "data"); data != nil {
			scope = data
		}
	}

	reason := anyString(body["termination_reason"])
	if reason == "" {
		reason = "unknown"
	}

	return &models.WalkResult{
		Path:              stringList(scope["path"]),
		Steps:             parseSteps(listOf(scope, "steps")),
		Lawfulness:        parseLawfulness(listOf(body, "hop_lawfulness")),
		HopScores:         parseHopScores(listOf(body, "hop_scores")),
		TerminationReason: reason,
		Raw:               body,
	}
}

// walkPathScopes is the fixed scan order for recovering a saved walk from a
// payload: the top level first, then the known sub-objects.
var walkPathScopes = []string{"payload", "metadata", "meta", "content", "data"}

// ExtractPath recovers a previously completed walk from a raw payload. It
// scans the top level and then each known sub-object for a path or
// walk_path list, returning the first one found together with any sibling
// steps list. ok is false when no such field exists anywhere.
func ExtractPath(payload map[string]any) (path []string, steps []models.WalkStep, ok bool) {
	scopes := []map[string]any{payload}
	for _, key := range walkPathScopes {
		if sub := objectOf(payload, key); sub != nil {
			scopes = append(scopes, sub)
		}
	}

	for _, scope := range scopes {
		for _, key := range []string{"path", "walk_path"} {
			if found := stringList(scope[key]); found != nil {
				return found, parseSteps(listOf(scope, "steps")), true
			}
		}
	}
	return nil, nil, false
}
