package evidence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

type fakeLLM struct {
	textCalls   []string
	visionCalls int

	textResponses   []string
	textErrs        []error
	visionResponses []string
	visionErrs      []error
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	idx := len(f.textCalls)
	f.textCalls = append(f.textCalls, prompt)
	if idx < len(f.textErrs) && f.textErrs[idx] != nil {
		return "", f.textErrs[idx]
	}
	if idx < len(f.textResponses) {
		return f.textResponses[idx], nil
	}
	return "", errors.New(errors.ErrCodeLLMCallFailed, "no scripted response")
}

func (f *fakeLLM) GenerateVisionJSON(ctx context.Context, system, prompt string, images [][]byte) (string, error) {
	idx := f.visionCalls
	f.visionCalls++
	if idx < len(f.visionErrs) && f.visionErrs[idx] != nil {
		return "", f.visionErrs[idx]
	}
	if idx < len(f.visionResponses) {
		return f.visionResponses[idx], nil
	}
	return "", errors.New(errors.ErrCodeLLMCallFailed, "no scripted response")
}

const goodResponse = `{"title": {"value": "Quantum Widget", "confidence": "high"},
  "inventors": [{"name": {"value": "Jane Doe", "confidence": "high"}}]}`

func longText() string {
	return strings.Repeat("This is a patent application document. ", 20)
}

func TestGatherUsesTextFirst(t *testing.T) {
	fake := &fakeLLM{textResponses: []string{goodResponse}}
	g := NewGatherer(fake, logging.NewNop())

	ev, err := g.Gather(context.Background(), Input{Text: longText()})
	require.NoError(t, err)
	assert.Equal(t, MethodText, ev.Method)
	assert.Equal(t, "Quantum Widget", ev.Title.RawText)
	assert.Equal(t, 0, fake.visionCalls)
}

func TestGatherSkipsShortText(t *testing.T) {
	fake := &fakeLLM{textResponses: []string{goodResponse}}
	g := NewGatherer(fake, logging.NewNop())

	ev, err := g.Gather(context.Background(), Input{
		Text:       "x", // OCR garbage, below threshold
		FormFields: map[string]string{"InventorName[0]": "Jane Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, MethodFormFields, ev.Method)
	require.Len(t, fake.textCalls, 1)
	assert.Contains(t, fake.textCalls[0], "form field")
}

func TestGatherFallsBackToVision(t *testing.T) {
	fake := &fakeLLM{
		textErrs:        []error{errors.New(errors.ErrCodeLLMCallFailed, "boom")},
		visionResponses: []string{goodResponse},
	}
	g := NewGatherer(fake, logging.NewNop())

	ev, err := g.Gather(context.Background(), Input{
		Text: longText(),
		PageImages: func(ctx context.Context) ([][]byte, error) {
			return [][]byte{{0xFF, 0xD8}}, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, MethodVision, ev.Method)
	assert.Equal(t, 1, fake.visionCalls)
}

func TestGatherChunkedVisionMerges(t *testing.T) {
	// Plain vision returns nothing usable; chunked vision finds inventors on
	// different chunks and merges with name dedup.
	pages := make([][]byte, visionChunkSize*2)
	for i := range pages {
		pages[i] = []byte{0xFF, 0xD8}
	}
	fake := &fakeLLM{
		visionResponses: []string{
			`{}`, // plain vision: empty
			`{"title": {"value": "Quantum Widget", "confidence": "low"},
			  "inventors": [{"name": {"value": "Jane Doe"}}]}`,
			`{"title": {"value": "Quantum Widget", "confidence": "high"},
			  "inventors": [{"name": {"value": "jane doe"}}, {"name": {"value": "John Q. Public"}}]}`,
		},
	}
	g := NewGatherer(fake, logging.NewNop())

	ev, err := g.Gather(context.Background(), Input{
		PageImages: func(ctx context.Context) ([][]byte, error) { return pages, nil },
	})
	require.NoError(t, err)
	assert.Equal(t, MethodChunkedVision, ev.Method)
	assert.Len(t, ev.Inventors, 2, "case-insensitive dedup across chunks")
	assert.Equal(t, ConfidenceHigh, ev.Title.Confidence, "higher-confidence duplicate wins")
	assert.Equal(t, 3, fake.visionCalls)
}

func TestGatherNothingUsable(t *testing.T) {
	g := NewGatherer(&fakeLLM{}, logging.NewNop())

	_, err := g.Gather(context.Background(), Input{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoTextExtractable))
}

func TestGatherAllStrategiesFail(t *testing.T) {
	fake := &fakeLLM{
		textErrs: []error{errors.New(errors.ErrCodeLLMCallFailed, "boom")},
	}
	g := NewGatherer(fake, logging.NewNop())

	_, err := g.Gather(context.Background(), Input{Text: longText()})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeVisionFallbackExhausted))
}
