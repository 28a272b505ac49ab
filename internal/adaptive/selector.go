package adaptive

import (
	"math/rand"
	"sort"
)

// QuizQuestion is one multiple-choice comprehension question attached to a
// text.
type QuizQuestion struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answer_index"`
}

// Text is the core's read-only view of a passage from the text provider.
type Text struct {
	ID              string         `json:"id"`
	Language        Language       `json:"language"`
	DifficultyScore float64        `json:"difficulty_score"`
	Title           string         `json:"title,omitempty"`
	Paragraphs      []string       `json:"paragraphs"`
	Quiz            []QuizQuestion `json:"quiz"`
}

// RecentServedWindow is roughly how many recently served text ids the
// novelty filter considers.
const RecentServedWindow = 15

// ChooseTextForSession picks the next passage for a regular reading
// session. The pool is partitioned by the profile's own bands, an
// instructional draw happens with the recommended mix probability, and
// three fallback tiers guarantee a pick whenever any text exists:
// empty target pool → the other pool → the full pool, and all-recent
// candidates → ignore recency. Returns nil only for an empty pool.
func ChooseTextForSession(texts []Text, p *Profile, recentIDs []string, rng *rand.Rand) *Text {
	if len(texts) == 0 {
		return nil
	}

	bands := p.Bands()
	var comfort, instructional []Text
	for _, t := range texts {
		d := t.DifficultyScore
		switch {
		case d >= bands.Comfort.Min && d <= bands.Comfort.Max:
			comfort = append(comfort, t)
		case d > bands.Instructional.Min && d <= bands.Instructional.Max:
			instructional = append(instructional, t)
		}
	}

	pInstructional := p.Recommended.DailyPlan.Mix.Instructional
	if pInstructional <= 0 {
		pInstructional = 0.3
	}
	useInstructional := rng.Float64() < pInstructional

	pool := comfort
	if useInstructional {
		pool = instructional
	}
	if len(pool) == 0 {
		if useInstructional {
			pool = comfort
		} else {
			pool = instructional
		}
	}
	if len(pool) == 0 {
		pool = texts
	}

	recent := make(map[string]bool, len(recentIDs))
	for _, id := range recentIDs {
		recent[id] = true
	}
	fresh := make([]Text, 0, len(pool))
	for _, t := range pool {
		if !recent[t.ID] {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) > 0 {
		pool = fresh
	}

	pick := pool[rng.Intn(len(pool))]
	return &pick
}

// ChooseDiagnosticText returns the unused text closest to the target
// difficulty. Diagnostics prioritize difficulty precision over novelty:
// the pick is a deterministic nearest neighbor, not a random draw.
func ChooseDiagnosticText(texts []Text, targetDifficulty float64, usedIDs []string) *Text {
	used := make(map[string]bool, len(usedIDs))
	for _, id := range usedIDs {
		used[id] = true
	}
	candidates := make([]Text, 0, len(texts))
	for _, t := range texts {
		if !used[t.ID] {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return absDiff(candidates[i].DifficultyScore, targetDifficulty) <
			absDiff(candidates[j].DifficultyScore, targetDifficulty)
	})
	pick := candidates[0]
	return &pick
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
