package quiz

// ScoreOf applies the fixed policy: a correct answer is worth one point, or half
// a point when a hint was used; anything else is worth nothing.
func ScoreOf(q *Quiz) Score {
	var s Score
	if q == nil {
		return s
	}
	s.Total = len(q.Questions)
	for i := range q.Questions {
		question := &q.Questions[i]
		if question.Answered() {
			s.Answered++
		}
		if question.IsCorrect == nil || !*question.IsCorrect {
			continue
		}
		if question.HintUsed {
			s.WithHint++
			s.Effective += 0.5
		} else {
			s.Correct++
			s.Effective++
		}
	}
	if s.Total > 0 {
		s.Percentage = 100 * s.Effective / float64(s.Total)
	}
	return s
}
