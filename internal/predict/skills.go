package predict

import "strings"

// SkillGap compares a user's technical skills with a career's required
// skills. Matching is case-insensitive and tolerant of partial names in
// either direction ("Machine Learning" matches "machine learning basics").
type SkillGap struct {
	Required []string
	Matching []string
	Missing  []string
}

// MatchSkills computes the skill gap between userSkills and the named
// career's requirements.
func MatchSkills(userSkills []string, career string) SkillGap {
	required := Metadata(career).Skills

	lowerUser := make([]string, len(userSkills))
	for i, s := range userSkills {
		lowerUser[i] = strings.ToLower(s)
	}

	var matching []string
	for _, req := range required {
		lowerReq := strings.ToLower(req)
		for _, user := range lowerUser {
			if lowerReq == user || strings.Contains(user, lowerReq) || strings.Contains(lowerReq, user) {
				matching = append(matching, req)
				break
			}
		}
	}

	missing := make([]string, 0, len(required))
	for _, req := range required {
		found := false
		for _, m := range matching {
			if m == req {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, req)
		}
	}

	return SkillGap{Required: required, Matching: matching, Missing: missing}
}
