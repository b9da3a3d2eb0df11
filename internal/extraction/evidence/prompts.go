package evidence

import (
	"strconv"
	"strings"
)

const systemPrompt = `You are a patent paralegal extracting bibliographic data from US patent application documents. You quote evidence verbatim from the document; you never invent, infer, or complete missing values. Respond with JSON only, no prose.`

const responseShape = `Respond with a single JSON object of this exact shape (omit fields with no evidence):
{
  "title": {"value": "...", "page": 1, "section": "...", "confidence": "high|medium|low"},
  "application_number": {"value": "...", "page": 1, "confidence": "..."},
  "docket_number": {"value": "...", "page": 1, "confidence": "..."},
  "application_type": {"value": "...", "confidence": "..."},
  "inventors": [
    {"name": {"value": "...", "page": 1, "confidence": "..."},
     "address": {"value": "...", "confidence": "..."},
     "residence": {"value": "...", "confidence": "..."},
     "citizenship": {"value": "...", "confidence": "..."}}
  ],
  "applicants": [
    {"org_name": {"value": "...", "confidence": "..."},
     "address": {"value": "...", "confidence": "..."},
     "type": {"value": "assignee", "confidence": "..."}}
  ],
  "correspondence": [
    {"customer_number": {"value": "...", "confidence": "..."},
     "email": {"value": "...", "confidence": "..."},
     "phone": {"value": "...", "confidence": "..."},
     "address": {"value": "...", "confidence": "..."}}
  ],
  "priority_claims": [
    {"text": {"value": "...", "page": 1, "confidence": "..."}}
  ]
}

Rules:
- Quote evidence exactly as it appears in the document, including casing.
- Inventors are natural persons only. Companies, corporations, LLCs, and
  universities are applicants or assignees, never inventors.
- If the same fact appears more than once, quote the most authoritative
  occurrence (a declaration or ADS section outranks a cover letter).
- Confidence reflects how clearly the document states the fact, not how
  common the fact is.`

func textPrompt(documentText string) string {
	var sb strings.Builder
	sb.WriteString("Extract bibliographic evidence from the following patent application document text.\n\n")
	sb.WriteString(responseShape)
	sb.WriteString("\n\n--- DOCUMENT TEXT ---\n")
	sb.WriteString(documentText)
	return sb.String()
}

func formFieldsPrompt(fields map[string]string) string {
	var sb strings.Builder
	sb.WriteString("The document is a fillable PDF form. Extract bibliographic evidence from its form field values below. Field names hint at meaning but are not authoritative.\n\n")
	sb.WriteString(responseShape)
	sb.WriteString("\n\n--- FORM FIELDS ---\n")
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			continue
		}
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	return sb.String()
}

func visionPrompt(pageOffset, pageCount int) string {
	var sb strings.Builder
	sb.WriteString("The attached images are scanned pages ")
	sb.WriteString(strconv.Itoa(pageOffset + 1))
	sb.WriteString(" through ")
	sb.WriteString(strconv.Itoa(pageOffset + pageCount))
	sb.WriteString(" of a patent application document. Read them and extract bibliographic evidence.\n\n")
	sb.WriteString(responseShape)
	return sb.String()
}
