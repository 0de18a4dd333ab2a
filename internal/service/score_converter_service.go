package service

import "math"

const MaxPercentage float64 = 100.0

type ScoreConverterService interface {
	// Percentage converts correct out of total into a score rounded half-to-even to two decimals.
	// An empty test scores 0.
	Percentage(correct, total int) float64
}

type scoreConverterServiceImpl struct{}

func NewScoreConverterService() ScoreConverterService {
	return &scoreConverterServiceImpl{}
}

func (s *scoreConverterServiceImpl) Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}
	scaled := MaxPercentage * float64(correct) / float64(total)
	return math.RoundToEven(scaled*100) / 100
}
