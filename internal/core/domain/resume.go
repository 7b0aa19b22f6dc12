package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

type ResumeDocument struct {
	Profile           Profile            `json:"profile"`
	Contact           Contact            `json:"contact"`
	CareerGoals       string             `json:"career_goals,omitempty"`
	Education         []Education        `json:"education,omitempty"`
	Experience        []Experience       `json:"experience,omitempty"`
	Skills            Skills             `json:"skills,omitempty"`
	Strengths         []string           `json:"strengths,omitempty"`
	Weaknesses        []string           `json:"weaknesses,omitempty"`
	ProjectsRecent    []string           `json:"projects_recent,omitempty"`
	ProjectsPortfolio []PortfolioProject `json:"projects_portfolio,omitempty"`
}

type Profile struct {
	FullName string     `json:"fullName,omitempty"`
	Age      FlexString `json:"age,omitempty"`
	Title    string     `json:"title,omitempty"`
	Summary  string     `json:"summary,omitempty"`
}

type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

type Education struct {
	Degree      string     `json:"degree,omitempty"`
	Institution string     `json:"institution,omitempty"`
	GPA         FlexString `json:"gpa,omitempty"`
	Completion  string     `json:"completion,omitempty"`
}

type Experience struct {
	Company    string   `json:"company,omitempty"`
	Role       string   `json:"role,omitempty"`
	Period     string   `json:"period,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

type PortfolioProject struct {
	Name    string `json:"name,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// FlexString accepts both JSON strings and numbers ("age": 29 or "age": "29").
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}
	*f = FlexString(n.String())
	return nil
}

type SkillGroup struct {
	Category string
	Terms    []string
}

// Skills keeps categories in document order; a plain map would lose it and
// make chunk ids unstable between runs.
type Skills []SkillGroup

func (s *Skills) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("skills: expected object")
	}

	out := make(Skills, 0, 8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("skills: expected string key")
		}
		var terms []string
		if err := dec.Decode(&terms); err != nil {
			return fmt.Errorf("skills[%s]: %w", key, err)
		}
		out = append(out, SkillGroup{Category: key, Terms: terms})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s Skills) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Category)
		if err != nil {
			return nil, err
		}
		terms := group.Terms
		if terms == nil {
			terms = []string{}
		}
		value, err := json.Marshal(terms)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type SourceKind string

const (
	SourceStructured SourceKind = "structured"
	SourceFreeform   SourceKind = "freeform"
)

// ResumeSource is either a parsed structured document or raw markdown.
type ResumeSource struct {
	Kind       SourceKind
	Structured *ResumeDocument
	Freeform   string
}

func StructuredSource(doc *ResumeDocument) ResumeSource {
	return ResumeSource{Kind: SourceStructured, Structured: doc}
}

func FreeformSource(text string) ResumeSource {
	return ResumeSource{Kind: SourceFreeform, Freeform: text}
}

func ParseResumeJSON(raw []byte) (*ResumeDocument, error) {
	var doc ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, WrapError(ErrDocumentParse, "parse resume json", err)
	}
	return &doc, nil
}

func (s ResumeSource) Validate() error {
	switch s.Kind {
	case SourceStructured:
		if s.Structured == nil {
			return WrapError(ErrDocumentParse, "validate source", fmt.Errorf("structured document is nil"))
		}
	case SourceFreeform:
		if strings.TrimSpace(s.Freeform) == "" {
			return WrapError(ErrDocumentParse, "validate source", fmt.Errorf("freeform text is empty"))
		}
	default:
		return WrapError(ErrDocumentParse, "validate source", fmt.Errorf("unknown source kind %q", s.Kind))
	}
	return nil
}

// ContentHash is the hex sha-256 of the serialized document.
func (s ResumeSource) ContentHash() (string, error) {
	var payload []byte
	switch s.Kind {
	case SourceStructured:
		raw, err := json.Marshal(s.Structured)
		if err != nil {
			return "", WrapError(ErrDocumentParse, "hash resume", err)
		}
		payload = raw
	case SourceFreeform:
		payload = []byte(s.Freeform)
	default:
		return "", WrapError(ErrDocumentParse, "hash resume", fmt.Errorf("unknown source kind %q", s.Kind))
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
