package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Backend selects one of the two interchangeable sentence-embedding models.
// Vectors produced by different backends are never compared to each other.
type Backend string

const (
	BackendBERT    Backend = "bert"
	BackendRoBERTa Backend = "roberta"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case BackendBERT, "":
		return BackendBERT, nil
	case BackendRoBERTa:
		return BackendRoBERTa, nil
	default:
		return "", WrapError(ErrInvalidInput, "parse backend", fmt.Errorf("unknown model %q, want bert or roberta", s))
	}
}

func Backends() []Backend {
	return []Backend{BackendBERT, BackendRoBERTa}
}

// SkillList decodes from either a JSON array of strings or a single
// comma-separated string. Upstream data files carry both shapes; parsing
// happens once here so the rest of the code only ever sees a slice.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*s = asList
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if strings.TrimSpace(asString) == "" {
			*s = nil
			return nil
		}
		parts := strings.Split(asString, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*s = out
		return nil
	}

	// Unrecognized shapes degrade to an empty list, never an error.
	*s = nil
	return nil
}

// FlexID decodes from either a JSON string or a JSON number. Resume
// identifiers appear as both across dataset exports.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = FlexID(asString)
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*f = FlexID(asNumber.String())
	return nil
}

func (f *FlexID) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*f = ""
	case string:
		*f = FlexID(v)
	case []byte:
		*f = FlexID(v)
	case int64:
		*f = FlexID(fmt.Sprintf("%d", v))
	default:
		return fmt.Errorf("scan id: unsupported type %T", value)
	}
	return nil
}

// Set returns the lowercase-trimmed set view used for skill algebra.
func (s SkillList) Set() map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for _, skill := range s {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			out[skill] = struct{}{}
		}
	}
	return out
}

// Job is a posting from the job pool. JSON field names follow the
// upstream dataset files.
type Job struct {
	Title        string    `json:"Title"`
	Company      string    `json:"Company"`
	Location     string    `json:"Location"`
	Description  string    `json:"JobDescription"`
	Requirement  string    `json:"JobRequirment"`
	RequiredQual string    `json:"RequiredQual"`
	CleanText    string    `json:"CleanText,omitempty"`
	Skills       SkillList `json:"Skills,omitempty"`

	enrichOnce sync.Once
}

// CombinedText joins the raw posting fields, used when the dataset did not
// ship a precomputed CleanText.
func (j *Job) CombinedText() string {
	return strings.TrimSpace(j.Title + " " + j.Description + " " + j.Requirement + " " + j.RequiredQual)
}

// EnsureDerived runs fill at most once per document. fill must be a pure
// recomputation of derived fields (CleanText, Skills) so that concurrent
// first encounters converge on the same values.
func (j *Job) EnsureDerived(fill func(*Job)) {
	j.enrichOnce.Do(func() { fill(j) })
}

// Resume is a candidate from the resume pool.
type Resume struct {
	ID        FlexID    `json:"ID"`
	Category  string    `json:"Category"`
	Text      string    `json:"Resume_str"`
	CleanText string    `json:"CleanText,omitempty"`
	Skills    SkillList `json:"Skills,omitempty"`

	enrichOnce sync.Once
}

func (r *Resume) EnsureDerived(fill func(*Resume)) {
	r.enrichOnce.Do(func() { fill(r) })
}
