package chunking

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

const freeformPreambleTitle = "Overview"

type section struct {
	title string
	text  string
}

func structuredSections(doc *domain.ResumeDocument) []section {
	if doc == nil {
		return nil
	}
	return []section{
		{title: domain.SectionCareerGoals, text: strings.TrimSpace(doc.CareerGoals)},
		{title: domain.SectionEducation, text: educationText(doc.Education)},
		{title: domain.SectionExperience, text: experienceText(doc.Experience)},
		{title: domain.SectionLeadership, text: bulletLines(doc.LeadershipHighlights())},
		{title: domain.SectionProjects, text: projectsText(doc)},
		{title: domain.SectionSkills, text: skillsText(doc.Skills)},
		{title: domain.SectionStrengths, text: bulletLines(doc.Strengths)},
		{title: domain.SectionWeaknesses, text: bulletLines(doc.Weaknesses)},
		{title: domain.SectionProfile, text: labelledLines(
			"Name", doc.Profile.FullName,
			"Age", string(doc.Profile.Age),
			"Title", doc.Profile.Title,
			"Summary", doc.Profile.Summary,
		)},
		{title: domain.SectionContact, text: labelledLines(
			"Email", doc.Contact.Email,
			"Phone", doc.Contact.Phone,
			"Location", doc.Contact.Location,
		)},
	}
}

func educationText(items []domain.Education) string {
	lines := make([]string, 0, len(items))
	for _, ed := range items {
		parts := make([]string, 0, 4)
		for _, p := range []string{ed.Degree, ed.Institution} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if v := strings.TrimSpace(ed.Completion); v != "" {
			parts = append(parts, "completed "+v)
		}
		if v := strings.TrimSpace(string(ed.GPA)); v != "" {
			parts = append(parts, "GPA "+v)
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

func experienceText(items []domain.Experience) string {
	var b strings.Builder
	for _, exp := range items {
		header := make([]string, 0, 3)
		for _, p := range []string{exp.Role, exp.Company, exp.Period} {
			if p = strings.TrimSpace(p); p != "" {
				header = append(header, p)
			}
		}
		if len(header) > 0 {
			b.WriteString(strings.Join(header, " | "))
			b.WriteByte('\n')
		}
		if bullets := bulletLines(exp.Highlights); bullets != "" {
			b.WriteString(bullets)
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String())
}

func projectsText(doc *domain.ResumeDocument) string {
	lines := make([]string, 0, len(doc.ProjectsRecent)+len(doc.ProjectsPortfolio))
	lines = append(lines, doc.ProjectsRecent...)
	for _, p := range doc.ProjectsPortfolio {
		name := strings.TrimSpace(p.Name)
		summary := strings.TrimSpace(p.Summary)
		switch {
		case name != "" && summary != "":
			lines = append(lines, name+": "+summary)
		default:
			lines = append(lines, name+summary)
		}
	}
	return bulletLines(lines)
}

func skillsText(skills domain.Skills) string {
	lines := make([]string, 0, len(skills))
	for _, g := range skills {
		terms := make([]string, 0, len(g.Terms))
		for _, t := range g.Terms {
			if t = strings.TrimSpace(t); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			continue
		}
		lines = append(lines, g.Category+": "+strings.Join(terms, ", "))
	}
	return strings.Join(lines, "\n")
}

func bulletLines(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			lines = append(lines, "- "+item)
		}
	}
	return strings.Join(lines, "\n")
}

// labelledLines takes label/value pairs and skips empty values.
func labelledLines(pairs ...string) string {
	lines := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if v := strings.TrimSpace(pairs[i+1]); v != "" {
			lines = append(lines, pairs[i]+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

var headingPattern = regexp.MustCompile(`^#{1,3}\s+(.+?)\s*#*\s*$`)

// markdownSections splits on '#', '##' and '###' headings. Text before the
// first heading becomes an Overview section; repeated titles are numbered.
func markdownSections(text string) []section {
	out := make([]section, 0, 8)
	seen := make(map[string]int)
	title := freeformPreambleTitle
	var body strings.Builder

	flush := func() {
		content := strings.TrimSpace(body.String())
		body.Reset()
		if content == "" {
			return
		}
		seen[title]++
		name := title
		if n := seen[title]; n > 1 {
			name = title + " (" + strconv.Itoa(n) + ")"
		}
		out = append(out, section{title: name, text: content})
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			title = strings.TrimSpace(m[1])
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()
	return out
}
