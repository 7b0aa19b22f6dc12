package usecase

import "strings"

type shortcutIntent int

const (
	shortcutNone shortcutIntent = iota
	shortcutCareerGoals
	shortcutEducation
	shortcutLeadership
	shortcutProjects
	shortcutSkills
)

type queryClass int

const (
	classGeneral queryClass = iota
	classFactual
	classList
	classExperience
)

type factualField int

const (
	factualName factualField = 1 << iota
	factualAge
	factualEmail
	factualPhone
	factualLocation
)

// queryWords is a normalized query split into tokens with prefix lookups.
type queryWords []string

func newQueryWords(query string) queryWords {
	return queryWords(strings.Fields(Normalize(query)))
}

func (q queryWords) has(words ...string) bool {
	for _, token := range q {
		for _, w := range words {
			if token == w {
				return true
			}
		}
	}
	return false
}

func (q queryWords) hasPrefix(prefixes ...string) bool {
	for _, token := range q {
		for _, p := range prefixes {
			if strings.HasPrefix(token, p) {
				return true
			}
		}
	}
	return false
}

// detectShortcut checks the structured intents in a fixed order.
func detectShortcut(q queryWords) shortcutIntent {
	switch {
	case q.hasPrefix("career") && q.hasPrefix("goal", "aspir", "plan", "aim"),
		q.hasPrefix("ambition", "aspiration"):
		return shortcutCareerGoals
	case q.hasPrefix("educat", "degree", "universit", "college", "studied", "gpa"):
		return shortcutEducation
	case q.hasPrefix("leader", "mentor") || q.has("lead", "led", "leading", "managed", "manage"):
		return shortcutLeadership
	case q.hasPrefix("project", "portfolio"):
		return shortcutProjects
	case q.hasPrefix("skill", "technolog", "stack", "expertise"):
		return shortcutSkills
	default:
		return shortcutNone
	}
}

func classifyQuery(q queryWords) (queryClass, factualField) {
	experience := q.hasPrefix("experience", "work", "job", "employ", "compan", "role", "position")
	list := q.hasPrefix("skill", "technolog", "tool", "project", "stack", "framework", "language", "educat", "degree", "list")

	var fields factualField
	if q.has("name", "called") || (q.has("who") && !experience && !list) {
		fields |= factualName
	}
	if q.has("age", "old", "born") {
		fields |= factualAge
	}
	if q.has("email", "mail") {
		fields |= factualEmail
	}
	if q.has("phone", "telephone", "mobile") {
		fields |= factualPhone
	}
	if q.has("location", "located", "based", "live", "lives", "city", "country") || (q.has("where") && !experience && !list) {
		fields |= factualLocation
	}
	if q.has("contact", "reach") {
		fields |= factualEmail | factualPhone | factualLocation
	}
	if fields != 0 {
		return classFactual, fields
	}

	switch {
	case experience:
		return classExperience, 0
	case list:
		return classList, 0
	default:
		return classGeneral, 0
	}
}
