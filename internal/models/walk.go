package models

// Candidate is one alternative next-coordinate considered at a hop. A
// candidate either becomes the chosen transition or is rendered as a
// rejected branch.
type Candidate struct {
	Coord string `json:"coord" yaml:"coord"`
	Score Score  `json:"score" yaml:"score"`
}

// WalkStep is one hop of a traversal. Score is the step's own chosen-hop
// score field, used when no candidate matches the path.
type WalkStep struct {
	From       string         `json:"from" yaml:"from"`
	To         string         `json:"to" yaml:"to"`
	Candidates []Candidate    `json:"candidates" yaml:"candidates"`
	Score      Score          `json:"score" yaml:"score"`
	Raw        map[string]any `json:"-" yaml:"-"`
}

// WalkResult captures one walk response: the anchored hop path, the parsed
// steps, and the engine's per-hop annotations. It is built fresh per walk
// pass and discarded after rendering.
type WalkResult struct {
	Start             string         `json:"start" yaml:"start"`
	Path              []string       `json:"path" yaml:"path"`
	Steps             []WalkStep     `json:"steps" yaml:"steps"`
	Lawfulness        []string       `json:"lawfulness,omitempty" yaml:"lawfulness,omitempty"`
	HopScores         []Score        `json:"hopScores,omitempty" yaml:"hopScores,omitempty"`
	TerminationReason string         `json:"terminationReason" yaml:"terminationReason"`
	Raw               map[string]any `json:"-" yaml:"-"`
}

// InspectionRow is one row of the walk inspection table: a path position
// zipped with the hop annotations that led to it. Hop 0 is the start
// coordinate and carries no score or lawfulness.
type InspectionRow struct {
	Hop        int    `json:"hop" yaml:"hop"`
	Coord      string `json:"coord" yaml:"coord"`
	Lawfulness string `json:"lawfulness,omitempty" yaml:"lawfulness,omitempty"`
	Score      Score  `json:"score" yaml:"score"`
}

// InspectionRows zips the path with the step and hop-score data. The score
// for path[i] comes from the hop that reached it: hop_scores[i-1] when the
// engine reported one, else the step's own chosen score.
func (w *WalkResult) InspectionRows() []InspectionRow {
	rows := make([]InspectionRow, 0, len(w.Path))
	for i, coord := range w.Path {
		row := InspectionRow{Hop: i, Coord: coord}
		if i > 0 {
			hop := i - 1
			if hop < len(w.HopScores) {
				row.Score = w.HopScores[hop]
			}
			if !row.Score.Valid() && hop < len(w.Steps) {
				row.Score = w.Steps[hop].Score
			}
			if hop < len(w.Lawfulness) {
				row.Lawfulness = w.Lawfulness[hop]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
