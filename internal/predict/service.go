package predict

// CareerMatch is one recommendation with its score, metadata, skill gap and
// development plan.
type CareerMatch struct {
	Career          string          `json:"career"`
	Score           float64         `json:"score"`
	Percentage      float64         `json:"percentage"`
	MatchLevel      string          `json:"match_level"`
	Metadata        CareerInfo      `json:"metadata"`
	RequiredSkills  []string        `json:"required_skills"`
	UserSkills      []string        `json:"user_skills"`
	MissingSkills   []string        `json:"missing_skills"`
	DevelopmentPlan DevelopmentPlan `json:"development_plan"`
}

// Prediction is the full response for one profile.
type Prediction struct {
	RecommendedCareer string        `json:"recommended_career"`
	ConfidenceScore   float64       `json:"confidence_score"`
	ModelType         string        `json:"model_type"`
	Top3Matches       []CareerMatch `json:"top_3_matches"`
}

// Service wraps a Scorer and assembles complete predictions.
type Service struct {
	scorer Scorer
}

// NewService builds a prediction service; a nil scorer selects the
// rule-based classifier.
func NewService(scorer Scorer) *Service {
	if scorer == nil {
		scorer = RuleScorer{}
	}
	return &Service{scorer: scorer}
}

// Predict validates the profile, scores it and enriches the top three
// matches with metadata, skill gaps and development plans.
func (s *Service) Predict(p *Profile) (*Prediction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	matches := s.scorer.Score(p)
	top := matches
	if len(top) > 3 {
		top = top[:3]
	}

	out := make([]CareerMatch, 0, len(top))
	for _, m := range top {
		gap := MatchSkills(p.TechnicalSkills, m.Career)
		out = append(out, CareerMatch{
			Career:          m.Career,
			Score:           m.Score,
			Percentage:      m.Score * 100,
			MatchLevel:      MatchLevel(m.Score),
			Metadata:        Metadata(m.Career),
			RequiredSkills:  gap.Required,
			UserSkills:      gap.Matching,
			MissingSkills:   gap.Missing,
			DevelopmentPlan: BuildPlan(m.Career, gap.Missing, p.CareerGoals),
		})
	}

	pred := &Prediction{
		ModelType:   s.scorer.ModelType(),
		Top3Matches: out,
	}
	if len(matches) > 0 {
		pred.RecommendedCareer = matches[0].Career
		pred.ConfidenceScore = matches[0].Score
	}
	return pred, nil
}
