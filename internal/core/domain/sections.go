package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	SectionCareerGoals = "Career Goals"
	SectionEducation   = "Education"
	SectionExperience  = "Experience"
	SectionLeadership  = "Leadership"
	SectionProjects    = "Projects"
	SectionSkills      = "Skills"
	SectionStrengths   = "Strengths"
	SectionWeaknesses  = "Weaknesses"
	SectionProfile     = "Profile"
	SectionContact     = "Contact"
)

var leadershipPattern = regexp.MustCompile(`(?i)\b(led|lead|leading|mentor\w*|architect\w*|own(ed|er|ership)?|manag\w*|drove|spearhead\w*|coach\w*|head(ed)?)\b`)

// LeadershipHighlights returns experience highlights that describe leading,
// mentoring or owning work, in document order.
func (d *ResumeDocument) LeadershipHighlights() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, 4)
	for _, exp := range d.Experience {
		for _, h := range exp.Highlights {
			h = strings.TrimSpace(h)
			if h != "" && leadershipPattern.MatchString(h) {
				out = append(out, h)
			}
		}
	}
	return out
}

// ChunkID formats the stable identifier of the n-th chunk of a section.
func ChunkID(section string, ordinal int) string {
	return section + "_" + strconv.Itoa(ordinal)
}
