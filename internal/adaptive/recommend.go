package adaptive

// Content-strategy lookup tables. The literal strings are product copy
// consumed by the reader UI and the parent dashboard; they are matched by
// key, not parsed.
var bottleneckTextTypes = map[Bottleneck][]string{
	BottleneckDecoding:      {"short_sentences", "phonics_friendly", "repetitive_pattern"},
	BottleneckComprehension: {"dialogue_rich", "familiar_topics", "picture_support"},
	BottleneckStamina:       {"short_texts", "high_interest", "series_stories"},
	BottleneckBalanced:      {"varied_genres", "gradual_challenge"},
}

var bottleneckActivities = map[Bottleneck][]string{
	BottleneckDecoding:      {"syllable_drill", "echo_reading", "letter_sound_games"},
	BottleneckComprehension: {"retell_prompts", "question_preview", "vocabulary_cards"},
	BottleneckStamina:       {"timed_short_reads", "choice_of_text", "break_rewards"},
	BottleneckBalanced:      {"paired_reading", "free_choice"},
}

const (
	defaultChallengesPerDay = 5
	staminaChallengesPerDay = 3

	// Only a confidently-balanced learner is offered challenge content.
	challengeConfidenceGate = 0.75
)

// BuildRecommendations maps a bottleneck and the current estimate
// confidence to a content-type/activity list and a daily difficulty-mix
// plan. Pure lookup plus two overrides.
func BuildRecommendations(b Bottleneck, confidence float64) Recommendations {
	rec := Recommendations{
		TextTypes:  bottleneckTextTypes[b],
		Activities: bottleneckActivities[b],
		DailyPlan: DailyPlan{
			ChallengesPerDay: defaultChallengesPerDay,
			Mix:              Mix{Comfort: 0.7, Instructional: 0.3, Challenge: 0},
		},
	}
	if rec.TextTypes == nil {
		rec.TextTypes = bottleneckTextTypes[BottleneckBalanced]
		rec.Activities = bottleneckActivities[BottleneckBalanced]
	}
	switch {
	case b == BottleneckStamina:
		rec.DailyPlan.ChallengesPerDay = staminaChallengesPerDay
		rec.DailyPlan.Mix = Mix{Comfort: 0.8, Instructional: 0.2, Challenge: 0}
	case b == BottleneckBalanced && confidence > challengeConfidenceGate:
		rec.DailyPlan.Mix = Mix{Comfort: 0.6, Instructional: 0.3, Challenge: 0.1}
	}
	return rec
}
