package domain

import "math"

// Score maps a document and a set of submitted answers to a ScoredResult.
// It is pure: no storage, no events, no mutation of the input document.
// Submitted question ids with no matching question are skipped silently so
// that stale client state never turns into a hard failure.
func Score(doc *QuizDocument, answers []SubmittedAnswer) (*ScoredResult, error) {
	switch doc.Type {
	case QuizTypePersonality:
		return scorePersonality(doc, answers)
	case QuizTypePoints:
		return scorePoints(doc, answers)
	case QuizTypeTrivia:
		return scoreTrivia(doc, answers)
	case QuizTypeBranching:
		return scoreBranching(doc, answers)
	default:
		return nil, NewUnsupportedQuizTypeError(string(doc.Type))
	}
}

// accumulateOutcomes runs the personality accumulator. The accumulator is
// seeded with every outcome key referenced by any option's map (not just keys
// present in results, to tolerate partial authoring), in first-encountered
// document order. Ties on the maximum are resolved in favor of the key seen
// first, which keeps the winner deterministic.
func accumulateOutcomes(doc *QuizDocument, answers []SubmittedAnswer) ([]OutcomeScore, string) {
	totals := make(map[string]int)
	var order []string
	for _, q := range doc.Questions {
		for _, o := range q.Options {
			for _, w := range o.Map {
				if _, seen := totals[w.Outcome]; !seen {
					totals[w.Outcome] = 0
					order = append(order, w.Outcome)
				}
			}
		}
	}

	for _, a := range answers {
		q := doc.QuestionByID(a.QuestionID)
		if q == nil {
			continue
		}
		for _, optionID := range a.SelectedOptionIDs {
			o := q.OptionByID(optionID)
			if o == nil {
				continue
			}
			for _, w := range o.Map {
				totals[w.Outcome] += w.Weight
			}
		}
	}

	scores := make([]OutcomeScore, 0, len(order))
	winner := ""
	best := 0
	for _, key := range order {
		scores = append(scores, OutcomeScore{Outcome: key, Score: totals[key]})
		if winner == "" || totals[key] > best {
			winner = key
			best = totals[key]
		}
	}
	return scores, winner
}

func scorePersonality(doc *QuizDocument, answers []SubmittedAnswer) (*ScoredResult, error) {
	scores, winner := accumulateOutcomes(doc, answers)
	if winner == "" {
		return nil, NewValidationError("quiz has no outcome weights to score against")
	}

	result := &ScoredResult{
		OutcomeKey: winner,
		Scores:     scores,
	}
	if outcome := doc.ResultByKey(winner); outcome != nil {
		result.Outcome = *outcome
	} else {
		// Partial authoring: the winning key has weights but no result entry.
		result.Outcome = Result{Key: winner}
	}
	return result, nil
}

func scorePoints(doc *QuizDocument, answers []SubmittedAnswer) (*ScoredResult, error) {
	total := 0
	for _, a := range answers {
		q := doc.QuestionByID(a.QuestionID)
		if q == nil {
			continue
		}
		for _, optionID := range a.SelectedOptionIDs {
			o := q.OptionByID(optionID)
			if o == nil || o.Points == nil {
				continue
			}
			total += *o.Points
		}
	}

	key := resolveByRanges(doc, total)
	outcome := doc.ResultByKey(key)
	if outcome == nil {
		return nil, NewValidationError("quiz has no results to score against")
	}

	score := total
	return &ScoredResult{
		OutcomeKey: key,
		Outcome:    *outcome,
		Score:      &score,
	}, nil
}

func scoreTrivia(doc *QuizDocument, answers []SubmittedAnswer) (*ScoredResult, error) {
	answered := 0
	correct := 0
	for _, a := range answers {
		q := doc.QuestionByID(a.QuestionID)
		if q == nil {
			continue
		}
		answered++
		if isAnswerCorrect(q, a.SelectedOptionIDs) {
			correct++
		}
	}

	percentage := 0
	if answered > 0 {
		percentage = int(math.Round(float64(correct) / float64(answered) * 100))
	}

	var key string
	if len(doc.PointRanges) > 0 {
		key = resolveByRanges(doc, percentage)
	} else {
		key = resolveByQuartiles(doc, percentage)
	}
	outcome := doc.ResultByKey(key)
	if outcome == nil {
		return nil, NewValidationError("quiz has no results to score against")
	}

	score := correct
	totalPossible := answered
	pct := percentage
	return &ScoredResult{
		OutcomeKey:    key,
		Outcome:       *outcome,
		Score:         &score,
		TotalPossible: &totalPossible,
		Percentage:    &pct,
	}, nil
}

// scoreBranching reports the traversal path actually taken. When the document
// also defines results it behaves as a personality-style scorable document
// layered under the branch flow.
func scoreBranching(doc *QuizDocument, answers []SubmittedAnswer) (*ScoredResult, error) {
	var path []string
	for _, a := range answers {
		if doc.QuestionByID(a.QuestionID) != nil {
			path = append(path, a.QuestionID)
		}
	}

	result := &ScoredResult{Path: path}
	if len(doc.Results) == 0 {
		return result, nil
	}

	scores, winner := accumulateOutcomes(doc, answers)
	if winner == "" {
		return result, nil
	}
	result.OutcomeKey = winner
	result.Scores = scores
	if outcome := doc.ResultByKey(winner); outcome != nil {
		result.Outcome = *outcome
	} else {
		result.Outcome = Result{Key: winner}
	}
	return result, nil
}

// isAnswerCorrect applies AND semantics: every selected option must be marked
// correct, so a partially-correct multi-select counts as wrong.
func isAnswerCorrect(q *Question, selected []string) bool {
	if len(selected) == 0 {
		return false
	}
	for _, optionID := range selected {
		o := q.OptionByID(optionID)
		if o == nil || o.Correct == nil || !*o.Correct {
			return false
		}
	}
	return true
}

// resolveByRanges scans point_ranges in author order for the first inclusive
// band containing the value. When no band matches it falls back to the LAST
// results entry: ranges are authored low-to-high, so an unmatched value is
// treated as the worst-case bucket.
func resolveByRanges(doc *QuizDocument, value int) string {
	for _, band := range doc.PointRanges {
		if value >= band.Min && value <= band.Max {
			return band.Result
		}
	}
	if len(doc.Results) == 0 {
		return ""
	}
	return doc.Results[len(doc.Results)-1].Key
}

// resolveByQuartiles is the fixed fallback used by trivia documents authored
// without explicit ranges: >=90 first result, >=70 second, >=50 third, else
// fourth, using the first result when fewer than four are defined.
func resolveByQuartiles(doc *QuizDocument, percentage int) string {
	if len(doc.Results) == 0 {
		return ""
	}
	idx := 3
	switch {
	case percentage >= 90:
		idx = 0
	case percentage >= 70:
		idx = 1
	case percentage >= 50:
		idx = 2
	}
	if idx >= len(doc.Results) {
		idx = 0
	}
	return doc.Results[idx].Key
}
