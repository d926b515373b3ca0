package predict

import "strings"

// DevelopmentPlan distributes a career's missing skills across learning
// horizons: first two skills short-term, next two medium-term, the rest
// long-term, padded with general goals when a bucket runs thin.
type DevelopmentPlan struct {
	ShortTerm  []string `json:"short_term"`
	MediumTerm []string `json:"medium_term"`
	LongTerm   []string `json:"long_term"`
}

// BuildPlan generates a personalized development plan for a career from the
// missing skills and the user's stated career goals.
func BuildPlan(career string, missingSkills []string, careerGoals string) DevelopmentPlan {
	var plan DevelopmentPlan

	short := missingSkills[:min(2, len(missingSkills))]
	medium := missingSkills[min(2, len(missingSkills)):min(4, len(missingSkills))]
	long := missingSkills[min(4, len(missingSkills)):]

	for _, skill := range short {
		plan.ShortTerm = append(plan.ShortTerm,
			"Learn "+skill+" fundamentals",
			"Complete an online course on "+skill)
	}
	if len(plan.ShortTerm) < 2 {
		plan.ShortTerm = append(plan.ShortTerm,
			"Research best learning resources for "+career+" path",
			"Join online communities focused on "+career)
	}

	for _, skill := range medium {
		plan.MediumTerm = append(plan.MediumTerm,
			"Build projects showcasing "+skill,
			"Get certified in "+skill+" if applicable")
	}
	if len(plan.MediumTerm) < 2 {
		plan.MediumTerm = append(plan.MediumTerm,
			"Contribute to open-source projects related to "+career,
			"Network with professionals in the "+career+" field")
	}

	for _, skill := range long {
		plan.LongTerm = append(plan.LongTerm,
			"Become proficient in advanced "+skill+" concepts")
	}

	goals := strings.ToLower(careerGoals)
	if containsAny(goals, "apply", "job", "work") {
		plan.LongTerm = append(plan.LongTerm, "Apply for "+career+" positions or internships")
	}
	if containsAny(goals, "portfolio", "project") {
		plan.LongTerm = append(plan.LongTerm, "Build a comprehensive portfolio of "+career+" projects")
	}
	if len(plan.LongTerm) < 2 {
		plan.LongTerm = append(plan.LongTerm,
			"Pursue advanced education or specialization in "+career,
			"Mentor others in "+career+" skills you've mastered")
	}

	return plan
}
