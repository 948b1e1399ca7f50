package entities

// EvidenceBucket accumulates per-category scores and findings across a
// session. Scores only ever increase; MaxScore is the fixed instrument
// ceiling, not a cap enforced on Score.
type EvidenceBucket struct {
	Category string   `json:"category"`
	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Findings []string `json:"findings"`
}

// Record adds an accepted answer to the bucket. The answer text is recorded
// as a finding only when it carried points.
func (b *EvidenceBucket) Record(points int, answerText string) {
	b.Score += points
	if points > 0 {
		b.Findings = append(b.Findings, answerText)
	}
}
