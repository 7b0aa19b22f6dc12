package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

const (
	DefaultConfidenceThreshold = 0.48

	LowConfidenceText = "I couldn't find that in the résumé. Try asking about skills, experience, projects, education or career goals."
	notFoundText      = "The résumé does not say that directly."

	shortcutConfidence     = 0.95
	factualConfidence      = 0.9
	listConfidence         = 0.8
	experienceConfidence   = 0.8
	generalConfidence      = 0.7
	nothingFoundConfidence = 0.3

	maxCitations   = 2
	maxListItems   = 12
	maxSentences   = 3
	maxProjectRefs = 5
)

var (
	emailPattern          = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	agePattern            = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:years?\s*old|age)`)
	ageLabelPattern       = regexp.MustCompile(`(?i)\bage\s*:\s*(\d{1,2})\b`)
	nameLabelPattern      = regexp.MustCompile(`(?im)^\s*(?:full\s*)?name\s*:\s*(.+?)\s*$`)
	phoneLabelPattern     = regexp.MustCompile(`(?im)\bphone\s*:\s*(.+?)\s*$`)
	phonePattern          = regexp.MustCompile(`\+\d[\d\s().-]{6,}\d`)
	listClausePattern     = regexp.MustCompile(`(?i)\b(?:skills|technologies|tools)\s*:\s*([^\n]+)`)
	bulletPattern         = regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)])\s+(.+?)\s*$`)
	categoryLinePattern   = regexp.MustCompile(`(?m)^\s*[^:\n]{1,40}:\s*(.+?)\s*$`)
	experienceLinePattern = regexp.MustCompile(`(?m)^\s*([^|\n]+?)\s*\|\s*([^|\n]+?)\s*\|\s*([^|\n]+?)\s*$`)
	itemSeparatorPattern  = regexp.MustCompile(`\s*[,;]\s*`)
)

// Tried in order; labelled locations win over free text.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\blocation\s*:?\s*([^\n.;|]+)`),
	regexp.MustCompile(`(?i)\bbased in\s+([^\n.;|]+)`),
	regexp.MustCompile(`(?i)\bfrom\s+([^\n.;|]+)`),
}

// Synthesizer turns reranked results into an Answer without calling a model.
type Synthesizer struct {
	threshold float32
}

func NewSynthesizer(threshold float32) *Synthesizer {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Synthesizer{threshold: threshold}
}

func (s *Synthesizer) Synthesize(query string, results []domain.SearchResult, src domain.ResumeSource) domain.Answer {
	if len(results) == 0 {
		return lowConfidenceAnswer(0)
	}
	top := results[0].SimilarityScore
	// Negated so a NaN top score is treated as low confidence.
	if !(top >= s.threshold) {
		return lowConfidenceAnswer(top)
	}

	q := newQueryWords(query)
	switch src.Kind {
	case domain.SourceStructured:
		if answer, ok := structuredShortcut(q, src.Structured); ok {
			return answer
		}
	case domain.SourceFreeform:
	}
	return heuristicAnswer(q, results)
}

func lowConfidenceAnswer(top float32) domain.Answer {
	if isNaN32(top) {
		top = 0
	}
	return domain.Answer{
		Text:       LowConfidenceText,
		Citations:  []string{},
		Confidence: top,
	}
}

func structuredShortcut(q queryWords, doc *domain.ResumeDocument) (domain.Answer, bool) {
	if doc == nil {
		return domain.Answer{}, false
	}

	var text, section string
	switch detectShortcut(q) {
	case shortcutCareerGoals:
		text, section = careerGoalsAnswer(doc), domain.SectionCareerGoals
	case shortcutEducation:
		text, section = educationAnswer(doc), domain.SectionEducation
	case shortcutLeadership:
		text, section = leadershipAnswer(doc), domain.SectionLeadership
	case shortcutProjects:
		text, section = projectsAnswer(doc), domain.SectionProjects
	case shortcutSkills:
		text, section = skillsAnswer(doc), domain.SectionSkills
	default:
		return domain.Answer{}, false
	}
	if text == "" {
		return domain.Answer{}, false
	}
	return domain.Answer{
		Text:       text,
		Citations:  []string{domain.ChunkID(section, 0)},
		Confidence: shortcutConfidence,
	}, true
}

func careerGoalsAnswer(doc *domain.ResumeDocument) string {
	return strings.Join(firstSentences(doc.CareerGoals, maxSentences), " ")
}

func educationAnswer(doc *domain.ResumeDocument) string {
	sentences := make([]string, 0, maxSentences)
	for _, ed := range doc.Education {
		if len(sentences) == maxSentences {
			break
		}
		if line := describeEducation(ed); line != "" {
			sentences = append(sentences, ensureSentence(line))
		}
	}
	return strings.Join(sentences, " ")
}

func describeEducation(ed domain.Education) string {
	var b strings.Builder
	degree := strings.TrimSpace(ed.Degree)
	institution := strings.TrimSpace(ed.Institution)
	switch {
	case degree != "" && institution != "":
		b.WriteString(degree + " at " + institution)
	case degree != "":
		b.WriteString(degree)
	case institution != "":
		b.WriteString("Studied at " + institution)
	default:
		return ""
	}
	if completion := strings.TrimSpace(ed.Completion); completion != "" {
		b.WriteString(", completed " + completion)
	}
	if gpa := strings.TrimSpace(string(ed.GPA)); gpa != "" {
		b.WriteString(", GPA " + gpa)
	}
	return b.String()
}

func leadershipAnswer(doc *domain.ResumeDocument) string {
	highlights := doc.LeadershipHighlights()
	if len(highlights) > maxSentences {
		highlights = highlights[:maxSentences]
	}
	out := make([]string, 0, len(highlights))
	for _, h := range highlights {
		out = append(out, ensureSentence(h))
	}
	return strings.Join(out, " ")
}

func projectsAnswer(doc *domain.ResumeDocument) string {
	sentences := make([]string, 0, 2)

	recent := nonEmpty(doc.ProjectsRecent)
	if len(recent) > maxProjectRefs {
		recent = recent[:maxProjectRefs]
	}
	if len(recent) > 0 {
		sentences = append(sentences, "Recent projects include "+strings.Join(recent, ", ")+".")
	}

	portfolio := make([]string, 0, len(doc.ProjectsPortfolio))
	for _, p := range doc.ProjectsPortfolio {
		if len(portfolio) == maxProjectRefs {
			break
		}
		name := strings.TrimSpace(p.Name)
		summary := strings.TrimSuffix(strings.TrimSpace(p.Summary), ".")
		switch {
		case name != "" && summary != "":
			portfolio = append(portfolio, name+" ("+summary+")")
		case name != "":
			portfolio = append(portfolio, name)
		case summary != "":
			portfolio = append(portfolio, summary)
		}
	}
	if len(portfolio) > 0 {
		sentences = append(sentences, "Portfolio work includes "+strings.Join(portfolio, "; ")+".")
	}
	return strings.Join(sentences, " ")
}

func skillsAnswer(doc *domain.ResumeDocument) string {
	groups := make([]string, 0, len(doc.Skills))
	for _, g := range doc.Skills {
		terms := nonEmpty(g.Terms)
		if len(terms) == 0 {
			continue
		}
		groups = append(groups, g.Category+": "+strings.Join(terms, ", "))
	}
	if len(groups) == 0 {
		return ""
	}
	sentences := []string{"Key skills by area are " + strings.Join(groups, "; ") + "."}
	if strengths := nonEmpty(doc.Strengths); len(strengths) > 0 {
		if len(strengths) > 3 {
			strengths = strengths[:3]
		}
		sentences = append(sentences, "Strengths include "+strings.Join(strengths, ", ")+".")
	}
	return strings.Join(sentences, " ")
}

func heuristicAnswer(q queryWords, results []domain.SearchResult) domain.Answer {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Chunk.Text)
	}

	var text string
	var confidence float32
	class, fields := classifyQuery(q)
	switch class {
	case classFactual:
		text, confidence = extractFacts(fields, texts), factualConfidence
	case classList:
		text, confidence = extractListItems(results), listConfidence
	case classExperience:
		text, confidence = extractExperienceLines(texts), experienceConfidence
	default:
		text, confidence = strings.Join(firstSentences(strings.Join(texts, " "), maxSentences), " "), generalConfidence
	}

	if text == "" {
		text = strings.Join(firstSentences(strings.Join(texts, " "), 2), " ")
		if text == "" {
			text = notFoundText
		}
		confidence = nothingFoundConfidence
	}

	citations := make([]string, 0, maxCitations)
	for _, r := range results {
		if len(citations) == maxCitations {
			break
		}
		citations = append(citations, r.ChunkID)
	}
	return domain.Answer{Text: text, Citations: citations, Confidence: confidence}
}

func extractFacts(fields factualField, texts []string) string {
	facts := make([]string, 0, 5)
	if fields&factualName != 0 {
		if v := firstSubmatch(nameLabelPattern, texts); v != "" {
			facts = append(facts, "Name: "+v+".")
		}
	}
	if fields&factualAge != 0 {
		v := firstSubmatch(ageLabelPattern, texts)
		if v == "" {
			v = firstSubmatch(agePattern, texts)
		}
		if v != "" {
			facts = append(facts, "Age: "+v+".")
		}
	}
	if fields&factualEmail != 0 {
		if v := firstMatch(emailPattern, texts); v != "" {
			facts = append(facts, "Email: "+v+".")
		}
	}
	if fields&factualPhone != 0 {
		v := firstSubmatch(phoneLabelPattern, texts)
		if v == "" {
			v = firstMatch(phonePattern, texts)
		}
		if v != "" {
			facts = append(facts, "Phone: "+v+".")
		}
	}
	if fields&factualLocation != 0 {
		for _, pattern := range locationPatterns {
			if v := firstSubmatch(pattern, texts); v != "" {
				facts = append(facts, "Location: "+v+".")
				break
			}
		}
	}
	return strings.Join(facts, " ")
}

func extractListItems(results []domain.SearchResult) string {
	seen := make(map[string]struct{}, maxListItems)
	items := make([]string, 0, maxListItems)
	add := func(raw string) {
		for _, item := range itemSeparatorPattern.Split(raw, -1) {
			item = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(item), "."))
			if item == "" || len(items) == maxListItems {
				continue
			}
			key := strings.ToLower(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, item)
		}
	}

	for _, r := range results {
		for _, m := range listClausePattern.FindAllStringSubmatch(r.Chunk.Text, -1) {
			add(m[1])
		}
		for _, m := range bulletPattern.FindAllStringSubmatch(r.Chunk.Text, -1) {
			add(m[1])
		}
		if r.Chunk.Section == domain.SectionSkills {
			for _, m := range categoryLinePattern.FindAllStringSubmatch(r.Chunk.Text, -1) {
				add(m[1])
			}
		}
	}
	if len(items) == 0 {
		return ""
	}
	return "From the résumé: " + strings.Join(items, ", ") + "."
}

func extractExperienceLines(texts []string) string {
	seen := make(map[string]struct{})
	roles := make([]string, 0, 4)
	for _, text := range texts {
		for _, m := range experienceLinePattern.FindAllStringSubmatch(text, -1) {
			line := m[1] + " at " + m[2] + " (" + m[3] + ")"
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			roles = append(roles, line)
		}
	}
	if len(roles) == 0 {
		return ""
	}
	return "Experience: " + strings.Join(roles, "; ") + "."
}

func firstMatch(pattern *regexp.Regexp, texts []string) string {
	for _, text := range texts {
		if m := pattern.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func firstSubmatch(pattern *regexp.Regexp, texts []string) string {
	for _, text := range texts {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func ensureSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	switch last {
	case '.', '!', '?':
		return s
	default:
		return s + "."
	}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
