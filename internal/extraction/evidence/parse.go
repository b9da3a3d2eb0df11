package evidence

import (
	"encoding/json"
	"strings"

	"github.com/adsforge/adsforge/internal/infrastructure/llm"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// The model is asked for a fixed JSON shape but in practice returns several
// variants: field objects, bare strings, lists where objects were requested,
// and maps keyed by arbitrary labels.  The decoder here accepts all of them,
// logging which fallback branch fired, and only fails when the payload is not
// JSON at all.

// rawField accepts a field either as a full object, as a bare string, or as
// anything coercible to text.
type rawField struct {
	Value      string
	Page       int
	Section    string
	Confidence string
}

func (r *rawField) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	// Bare string shape: "Jane Doe".
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.Value = s
		return nil
	}
	// Object shape with a handful of key aliases the model alternates between.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		// Numbers, booleans: coerce to text rather than fail.
		r.Value = strings.Trim(string(data), `"`)
		return nil
	}
	r.Value = firstString(obj, "value", "text", "raw_text", "evidence", "content")
	r.Section = firstString(obj, "section", "location", "context")
	r.Confidence = firstString(obj, "confidence", "certainty")
	if pg, ok := obj["page"]; ok {
		var n int
		if json.Unmarshal(pg, &n) == nil {
			r.Page = n
		} else {
			var s string
			if json.Unmarshal(pg, &s) == nil {
				r.Page = atoiSafe(s)
			}
		}
	}
	return nil
}

func (r rawField) toEvidence(field string) FieldEvidence {
	return FieldEvidence{
		Field:      field,
		RawText:    strings.TrimSpace(r.Value),
		Source:     SourceLocation{Page: r.Page, Section: r.Section},
		Confidence: ParseConfidence(r.Confidence),
	}
}

// rawPersonList accepts inventor/applicant collections as a list of objects,
// a map of label to object, or a single object.
type rawPersonList []map[string]rawField

func (l *rawPersonList) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		for _, item := range items {
			entry, err := decodePersonEntry(item)
			if err != nil {
				return err
			}
			*l = append(*l, entry)
		}
		return nil
	case '{':
		// Either a single person object or a map of label -> person.  A person
		// object has known field keys; a label map does not.
		var m map[string]json.RawMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		if looksLikePerson(m) {
			entry, err := decodePersonEntry(data)
			if err != nil {
				return err
			}
			*l = append(*l, entry)
			return nil
		}
		for _, v := range m {
			entry, err := decodePersonEntry(v)
			if err != nil {
				return err
			}
			*l = append(*l, entry)
		}
		return nil
	default:
		// A bare string where a list was expected: treat it as one name.
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = append(*l, map[string]rawField{"name": {Value: s}})
		return nil
	}
}

func decodePersonEntry(data json.RawMessage) (map[string]rawField, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed != "" && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return map[string]rawField{"name": {Value: s}}, nil
	}
	var entry map[string]rawField
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

var personFieldKeys = []string{
	"name", "full_name", "address", "residence", "citizenship",
	"org_name", "organization", "organization_name", "type", "applicant_type",
}

func looksLikePerson(m map[string]json.RawMessage) bool {
	for _, k := range personFieldKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

type rawEvidence struct {
	Title             rawField      `json:"title"`
	ApplicationNumber rawField      `json:"application_number"`
	DocketNumber      rawField      `json:"docket_number"`
	ApplicationType   rawField      `json:"application_type"`
	Inventors         rawPersonList `json:"inventors"`
	Applicants        rawPersonList `json:"applicants"`
	Correspondence    rawPersonList `json:"correspondence"`
	PriorityClaims    rawPersonList `json:"priority_claims"`
}

// ParseResponse decodes a model evidence response into DocumentEvidence.
// Unexpected but decodable shapes are accepted with a logged warning; only
// non-JSON payloads fail.
func ParseResponse(raw string, method Method, logger logging.Logger) (DocumentEvidence, error) {
	cleaned := llm.StripCodeFences(raw)
	var re rawEvidence
	if err := json.Unmarshal([]byte(cleaned), &re); err != nil {
		// Last resort: the shape may be wrapped one level deep, e.g.
		// {"evidence": {...}}.
		var wrapper map[string]json.RawMessage
		if werr := json.Unmarshal([]byte(cleaned), &wrapper); werr == nil {
			for _, key := range []string{"evidence", "result", "data"} {
				if inner, ok := wrapper[key]; ok {
					if json.Unmarshal(inner, &re) == nil {
						logger.Warn("evidence response wrapped in envelope",
							logging.String("key", key))
						err = nil
						break
					}
				}
			}
		}
		if err != nil {
			return DocumentEvidence{}, errors.Wrap(err, errors.ErrCodeLLMResponseMalformed,
				"evidence response is not valid JSON")
		}
	}

	ev := DocumentEvidence{
		Method:            method,
		Title:             re.Title.toEvidence("title"),
		ApplicationNumber: re.ApplicationNumber.toEvidence("application_number"),
		DocketNumber:      re.DocketNumber.toEvidence("docket_number"),
		ApplicationType:   re.ApplicationType.toEvidence("application_type"),
	}

	for _, entry := range re.Inventors {
		inv := InventorEvidence{
			Name:        pickField(entry, "name", "name", "full_name", "inventor_name"),
			Address:     pickField(entry, "address", "address", "mailing_address"),
			Residence:   pickField(entry, "residence", "residence", "residence_city"),
			Citizenship: pickField(entry, "citizenship", "citizenship", "nationality"),
		}
		if !inv.Name.IsEmpty() || !inv.Address.IsEmpty() {
			ev.Inventors = append(ev.Inventors, inv)
		}
	}
	for _, entry := range re.Applicants {
		app := ApplicantEvidence{
			OrgName: pickField(entry, "org_name", "org_name", "organization", "organization_name", "name"),
			Address: pickField(entry, "address", "address", "mailing_address"),
			Type:    pickField(entry, "type", "type", "applicant_type"),
		}
		if !app.OrgName.IsEmpty() || !app.Address.IsEmpty() {
			ev.Applicants = append(ev.Applicants, app)
		}
	}
	for _, entry := range re.Correspondence {
		for key, rf := range entry {
			f := rf.toEvidence(key)
			if !f.IsEmpty() {
				ev.Correspondence = append(ev.Correspondence, f)
			}
		}
	}
	for _, entry := range re.PriorityClaims {
		// Priority claims are captured as free text here; the structured
		// builder decomposes them.
		f := pickField(entry, "priority_claim", "claim", "text", "value", "name", "application_number")
		if !f.IsEmpty() {
			ev.PriorityClaims = append(ev.PriorityClaims, f)
		}
	}
	return ev, nil
}

// pickField resolves the first present alias in a decoded person entry.
func pickField(entry map[string]rawField, canonical string, aliases ...string) FieldEvidence {
	for _, alias := range aliases {
		if rf, ok := entry[alias]; ok && strings.TrimSpace(rf.Value) != "" {
			return rf.toEvidence(canonical)
		}
	}
	return FieldEvidence{Field: canonical}
}

func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return 0
		}
	}
	return n
}
