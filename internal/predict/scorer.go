// Package predict implements the career recommendation service: a
// rule-based classifier plus the skill-gap and development-plan logic that
// turns raw scores into actionable recommendations.
package predict

import (
	"sort"
	"strings"

	"github.com/akindipe/careerbridge/internal/apperr"
)

// Profile is the user input to a prediction.
type Profile struct {
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	EducationLevel    string   `json:"education_level"`
	FieldOfStudy      string   `json:"field_of_study"`
	TechnicalSkills   []string `json:"technical_skills"`
	SoftSkills        []string `json:"soft_skills"`
	Interests         []string `json:"interests"`
	PersonalityTraits []string `json:"personality_traits"`
	WorkEnvironment   string   `json:"work_environment"`
	CareerGoals       string   `json:"career_goals"`
}

// Validate rejects profiles missing the fields scoring depends on.
func (p *Profile) Validate() error {
	if p.Age <= 0 {
		return apperr.Validation("age must be positive")
	}
	if strings.TrimSpace(p.FieldOfStudy) == "" {
		return apperr.Validation("field_of_study is required")
	}
	if strings.TrimSpace(p.EducationLevel) == "" {
		return apperr.Validation("education_level is required")
	}
	return nil
}

// Match is one scored career.
type Match struct {
	Career string
	Score  float64
}

// Scorer turns a profile into a ranked list of career matches with scores
// in [0, 1], best first. The trained model behind the production API
// satisfies this same contract; RuleScorer is the deterministic stand-in.
type Scorer interface {
	Score(p *Profile) []Match
	ModelType() string
}

// RuleScorer is the keyword-weighted classifier. Scores are accumulated per
// career from field of study, technical skills, interests and personality
// traits, then normalized to probabilities.
type RuleScorer struct{}

func (RuleScorer) ModelType() string { return "rule-based" }

func (RuleScorer) Score(p *Profile) []Match {
	scores := map[string]float64{}
	for career := range careerMetadata {
		scores[career] = 0
	}

	field := strings.ToLower(p.FieldOfStudy)
	switch {
	case containsAny(field, "computer", "software", "information"):
		scores["Software Engineer"] += 30
		scores["Web Developer"] += 25
		scores["Data Scientist"] += 20
		scores["AI Engineer"] += 20
		scores["Cybersecurity Specialist"] += 15
	case containsAny(field, "business", "management", "finance"):
		scores["Business Analyst"] += 30
		scores["Financial Analyst"] += 30
		scores["Product Manager"] += 25
		scores["Marketing Specialist"] += 20
	case containsAny(field, "design", "art"):
		scores["UX/UI Designer"] += 40
		scores["Web Developer"] += 20
		scores["Product Manager"] += 15
	case containsAny(field, "data", "statistics", "math"):
		scores["Data Scientist"] += 40
		scores["AI Engineer"] += 25
		scores["Business Analyst"] += 20
	}

	for _, skill := range p.TechnicalSkills {
		s := strings.ToLower(skill)
		if containsAny(s, "python", "statistics", "machine learning", "data") {
			scores["Data Scientist"] += 5
			scores["AI Engineer"] += 3
		}
		if containsAny(s, "java", "c++", "c#", "algorithms") {
			scores["Software Engineer"] += 5
		}
		if containsAny(s, "javascript", "html", "css", "web") {
			scores["Web Developer"] += 5
			scores["UX/UI Designer"] += 2
		}
		if containsAny(s, "design", "ui", "ux", "figma", "adobe") {
			scores["UX/UI Designer"] += 5
		}
		if containsAny(s, "security", "network", "cyber") {
			scores["Cybersecurity Specialist"] += 5
		}
	}

	for _, interest := range p.Interests {
		s := strings.ToLower(interest)
		if containsAny(s, "technology", "coding", "software") {
			scores["Software Engineer"] += 3
			scores["Web Developer"] += 3
		}
		if containsAny(s, "data", "analysis", "ai", "machine learning") {
			scores["Data Scientist"] += 3
			scores["AI Engineer"] += 3
		}
		if containsAny(s, "design", "art", "creative") {
			scores["UX/UI Designer"] += 3
		}
		if containsAny(s, "business", "finance", "management") {
			scores["Business Analyst"] += 3
			scores["Financial Analyst"] += 3
			scores["Product Manager"] += 3
		}
	}

	for _, trait := range p.PersonalityTraits {
		s := strings.ToLower(trait)
		if containsAny(s, "analytical", "logical", "detail") {
			scores["Data Scientist"] += 2
			scores["Financial Analyst"] += 2
			scores["Business Analyst"] += 2
		}
		if containsAny(s, "creative", "innovative") {
			scores["UX/UI Designer"] += 2
			scores["Product Manager"] += 2
		}
		if containsAny(s, "social", "outgoing", "extrovert") {
			scores["Marketing Specialist"] += 2
			scores["Product Manager"] += 2
		}
	}

	var total float64
	for _, v := range scores {
		total += v
	}

	matches := make([]Match, 0, len(scores))
	for career, v := range scores {
		score := v / total
		if total == 0 {
			score = 1.0 / float64(len(scores))
		}
		matches = append(matches, Match{Career: career, Score: score})
	}

	// score descending, career name as the deterministic tie-break
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Career < matches[j].Career
	})
	return matches
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// MatchLevel converts a score to the human-readable level shown to users.
func MatchLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent Match"
	case score >= 0.6:
		return "Strong Match"
	case score >= 0.4:
		return "Good Match"
	case score >= 0.2:
		return "Moderate Match"
	default:
		return "Weak Match"
	}
}
