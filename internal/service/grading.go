package service

import (
	"sort"

	"github.com/quizline/quizline/internal/model"
)

// IsCorrect reports whether the selected set equals the correct set exactly.
// Order and duplicates do not matter; any missing or extra id makes it incorrect.
func IsCorrect(selected, correct []model.AnswerID) bool {
	s := toSet(selected)
	c := toSet(correct)
	if len(s) != len(c) {
		return false
	}
	for id := range s {
		if _, ok := c[id]; !ok {
			return false
		}
	}
	return true
}

// normalizeSelection dedups ids and sorts them ascending.
func normalizeSelection(ids []model.AnswerID) []model.AnswerID {
	set := toSet(ids)
	out := make([]model.AnswerID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toSet(ids []model.AnswerID) map[model.AnswerID]struct{} {
	set := make(map[model.AnswerID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
