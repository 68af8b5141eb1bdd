package gemini

import (
	"testing"

	"google.golang.org/genai"
)

func TestExtractTextFromResponse(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "Hello "},
						{Text: "world"},
					},
				},
			},
		},
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Hello world" {
		t.Errorf("got %q", text)
	}
}

func TestExtractTextFromResponse_Empty(t *testing.T) {
	tests := []struct {
		name   string
		result *genai.GenerateContentResponse
	}{
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"no parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := extractTextFromResponse(tt.result); err == nil {
				t.Error("expected error for empty response")
			}
		})
	}
}
