package ai

// Part is one piece of message content.
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of a conversation. Role is "user" or "model".
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes a single generateContent call.
type GenerationConfig struct {
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content Content `json:"content"`
}

// GenerateResponse is the generateContent response body. It is also the
// shape /api/chat answers with.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns the first candidate's concatenated parts.
func (r GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// TextResponse wraps text in the single-candidate response shape.
func TextResponse(text string) GenerateResponse {
	return GenerateResponse{Candidates: []Candidate{{Content: Content{Role: "model", Parts: []Part{{Text: text}}}}}}
}

// Turn is one prior exchange handed to Chat.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
