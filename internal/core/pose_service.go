package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrEmptyPoseResponse means the provider answered but produced no usable
// text to analyze.
var ErrEmptyPoseResponse = errors.New("pose analysis returned no text")

const (
	poseModelName = "gemini-1.5-flash"

	posePrompt = `Analyze this yoga pose and provide:
1. The name of the pose
2. Key alignment points
3. Common mistakes to avoid
4. Benefits of the pose
5. Modifications for beginners

Format the response in a clear, structured way.`

	defaultPoseName = "Yoga Pose"
)

// PoseReport is the outcome of a successful pose analysis.
type PoseReport struct {
	Analysis string
	PoseName string
}

// PoseAnalyzer is the remote vision dependency of the pose route.
type PoseAnalyzer interface {
	Analyze(ctx context.Context, imageData []byte, format string) (*PoseReport, error)
}

// PoseService analyzes yoga-pose photos with a vision-capable Gemini model.
type PoseService struct {
	client *genai.Client
}

func NewPoseService(apiKey string) (*PoseService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &PoseService{client: client}, nil
}

func (s *PoseService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// Analyze sends the image with the fixed five-point prompt and extracts a
// best-effort pose name from the free-text reply. format is the image
// subtype, e.g. "jpeg" for an image/jpeg upload.
func (s *PoseService) Analyze(ctx context.Context, imageData []byte, format string) (*PoseReport, error) {
	model := s.client.GenerativeModel(poseModelName)

	resp, err := model.GenerateContent(ctx, genai.Text(posePrompt), genai.ImageData(format, imageData))
	if err != nil {
		return nil, fmt.Errorf("gemini pose analysis request failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyPoseResponse
	}

	return &PoseReport{
		Analysis: text,
		PoseName: ExtractPoseName(text),
	}, nil
}

// responseText collects the text parts of the first candidate. Missing
// candidates, missing content or non-text parts yield the empty string.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var analysis strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			analysis.WriteString(string(txt))
		}
	}
	return analysis.String()
}

// ExtractPoseName takes the text preceding the first occurrence of the
// literal "1." as the pose name. The provider's output format is not
// contractually structured, so this is best-effort slicing with a
// placeholder fallback, not parsing.
func ExtractPoseName(analysis string) string {
	idx := strings.Index(analysis, "1.")
	if idx < 0 {
		return defaultPoseName
	}
	name := strings.TrimSpace(analysis[:idx])
	if name == "" {
		return defaultPoseName
	}
	return name
}
