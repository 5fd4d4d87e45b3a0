package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nyahub/nya-api/config"
	"github.com/nyahub/nya-api/internal/models"
	"github.com/nyahub/nya-api/pkg/apperror"
	"github.com/nyahub/nya-api/pkg/httpclient"
	"github.com/nyahub/nya-api/pkg/logger"
	"github.com/nyahub/nya-api/pkg/metrics"
	"go.uber.org/zap"
)

// IdeaService generates capstone project ideas through an OpenAI-compatible
// chat completion API.
type IdeaService struct {
	config config.IdeaConfig
	client httpclient.Client
}

// NewIdeaService creates a new idea service.
func NewIdeaService(cfg config.IdeaConfig, client httpclient.Client) *IdeaService {
	return &IdeaService{config: cfg, client: client}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// GenerateCapstoneIdea builds the prompt, calls the completion API, and
// normalizes the answer into the fixed section layout.
func (s *IdeaService) GenerateCapstoneIdea(ctx context.Context, req *models.IdeaRequest) (string, error) {
	if s.config.APIKey == "" {
		return "", apperror.New(http.StatusServiceUnavailable, "idea_not_configured", "Idea generation is not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	body := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: buildIdeaPrompt(req)},
		},
		Temperature: 0.7,
		MaxTokens:   1200,
	}

	resp, err := httpclient.PostJSON(callCtx, s.client, s.config.Endpoint, s.config.APIKey, body)
	if err != nil {
		metrics.IdeaGenerations.WithLabelValues("error").Inc()
		logger.LogAPICall("idea", "chat_completion", "error", time.Since(start).Seconds(), zap.Error(err))
		return "", apperror.New(http.StatusBadGateway, "idea_upstream_error", "Idea generation request failed").WithCause(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IdeaGenerations.WithLabelValues("error").Inc()
		return "", apperror.New(http.StatusBadGateway, "idea_upstream_error", "Idea generation request failed").WithCause(err)
	}

	var payload chatCompletionResponse
	decodeErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode >= http.StatusBadRequest {
		detail := strings.TrimSpace(string(raw))
		if decodeErr == nil {
			if payload.Error != nil && payload.Error.Message != "" {
				detail = payload.Error.Message
			} else if payload.Message != "" {
				detail = payload.Message
			}
		}
		metrics.IdeaGenerations.WithLabelValues("upstream_error").Inc()
		logger.LogAPICall("idea", "chat_completion", "upstream_error", time.Since(start).Seconds(),
			zap.Int("status_code", resp.StatusCode))
		return "", apperror.New(http.StatusBadGateway, "idea_upstream_error",
			fmt.Sprintf("Idea generation failed (%d): %s", resp.StatusCode, detail))
	}
	if decodeErr != nil {
		metrics.IdeaGenerations.WithLabelValues("error").Inc()
		return "", apperror.New(http.StatusBadGateway, "idea_upstream_error", "Idea generation returned malformed output").WithCause(decodeErr)
	}

	content := ""
	if len(payload.Choices) > 0 {
		content = strings.TrimSpace(payload.Choices[0].Message.Content)
	}
	if content == "" {
		metrics.IdeaGenerations.WithLabelValues("empty").Inc()
		return "", apperror.New(http.StatusBadGateway, "idea_upstream_error", "Idea generation returned an empty response")
	}

	metrics.IdeaGenerations.WithLabelValues("success").Inc()
	logger.LogAPICall("idea", "chat_completion", "success", time.Since(start).Seconds())
	return normalizeIdeaResponse(content), nil
}

func buildIdeaPrompt(req *models.IdeaRequest) string {
	notesLine := ""
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		notesLine = "\nAdditional notes: " + notes
	}
	var b strings.Builder
	b.WriteString("You are an academic research mentor helping students design industry-relevant and research-driven capstone projects.\n\n")
	b.WriteString("=== MANDATORY RESEARCH GAP ANALYSIS ===\n")
	b.WriteString("Before proposing ANY idea, you MUST perform a literature and industry review.\n")
	b.WriteString("This is NOT optional. You must:\n")
	b.WriteString("1. Analyze existing state-of-the-art methods and commercial products\n")
	b.WriteString("2. Identify why current solutions are insufficient\n")
	b.WriteString("3. Document 3-4 SPECIFIC, CONCRETE research gaps\n\n")
	b.WriteString("RESEARCH GAP REQUIREMENTS (NON-NEGOTIABLE):\n")
	b.WriteString("• You MUST provide EXACTLY 3-4 research gaps\n")
	b.WriteString("• Each gap MUST be 1-2 sentences with technical specificity\n")
	b.WriteString("• NO generic statements like 'needs improvement' or 'limited accuracy'\n")
	b.WriteString("• Each gap MUST cite a specific limitation (e.g., 'Current OCR models achieve only 78% accuracy on handwritten medical prescriptions due to...')\n\n")
	b.WriteString("MANDATORY GAP CATEGORIES (must include BOTH):\n")
	b.WriteString("A. Theoretical Gaps (at least 1-2):\n")
	b.WriteString("   - Algorithm/model limitations: accuracy bottlenecks, failure modes, artifacts\n")
	b.WriteString("   - Architectural constraints: compute inefficiency, memory overhead\n")
	b.WriteString("   - Generalization issues: poor cross-domain performance, data distribution shift\n")
	b.WriteString("   - Training challenges: data scarcity, annotation cost, convergence issues\n")
	b.WriteString("   Example: 'Transformer-based time series models struggle with long-horizon forecasting (>48h) due to quadratic attention complexity, degrading to 65% accuracy vs 89% for short-term.'\n\n")
	b.WriteString("B. Practical/Deployment Gaps (at least 1-2):\n")
	b.WriteString("   - Real-time constraints: latency (e.g., '500ms response time fails user expectations')\n")
	b.WriteString("   - Hardware limitations: GPU requirements, mobile deployment barriers, edge compute\n")
	b.WriteString("   - Cost barriers: inference cost per query, training expense\n")
	b.WriteString("   - UX/accessibility issues: complex interfaces, lack of explainability\n")
	b.WriteString("   - Integration challenges: lack of APIs, incompatible data formats\n")
	b.WriteString("   Example: 'Existing medical diagnosis systems require cloud GPUs ($2/hour), making them unaffordable for rural clinics in developing regions.'\n\n")
	b.WriteString("=== PROJECT DESIGN (only after gaps are identified) ===\n")
	b.WriteString("Based on the gaps above, propose ONE capstone project that:\n")
	b.WriteString("- Directly addresses 2-3 of the identified gaps\n")
	b.WriteString("- Is feasible in 3-4 months for students\n")
	b.WriteString("- Uses open-source tools and publicly available datasets\n")
	b.WriteString("- Has clear deliverables and success metrics\n\n")
	b.WriteString("CONSTRAINTS:\n")
	b.WriteString("- Must be safe, ethical, and legal\n")
	b.WriteString("- No sexual/adult/illegal/harmful content\n")
	b.WriteString("- No over-ambitious goals (e.g., 'solve cancer')\n")
	b.WriteString("- Prefer domains with available data and tooling\n\n")
	b.WriteString("If Field or Focus is missing, automatically select a modern real-world domain (healthcare, climate, education, accessibility, etc.).\n\n")
	b.WriteString("=== OUTPUT FORMAT ===\n")
	b.WriteString("Return ONLY valid JSON. The 'research_gaps' field is MANDATORY.\n")
	b.WriteString("Each gap must be specific, measurable, and grounded in real limitations.\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"title\": \"Clear, specific project title\",\n")
	b.WriteString("  \"overview\": \"4-5 sentences explaining the problem, context, and proposed solution with real-world grounding\",\n")
	b.WriteString("  \"users\": \"2 sentences: who will use this and why\",\n")
	b.WriteString("  \"impact\": \"2 sentences: measurable outcomes and stakeholder benefits\",\n")
	b.WriteString("  \"research_gaps\": [\n")
	b.WriteString("    \"Gap 1: [Theoretical] Specific limitation with metrics/evidence (1-2 sentences)\",\n")
	b.WriteString("    \"Gap 2: [Theoretical] Another algorithm/model constraint (1-2 sentences)\",\n")
	b.WriteString("    \"Gap 3: [Practical] Deployment/usability barrier with concrete example (1-2 sentences)\",\n")
	b.WriteString("    \"Gap 4: [Practical] Real-world adoption challenge (1-2 sentences)\"\n")
	b.WriteString("  ],\n")
	b.WriteString("  \"tech_stack\": [\"Technology 1 (with purpose)\", \"Technology 2 (with purpose)\", \"...\"],\n")
	b.WriteString("  \"roadmap\": [\n")
	b.WriteString("    \"Week 1-2: Specific milestone with deliverable\",\n")
	b.WriteString("    \"Week 3-4: Next phase with metric\",\n")
	b.WriteString("    \"Week 5-8: Development goal\",\n")
	b.WriteString("    \"Week 9-12: Testing/evaluation\",\n")
	b.WriteString("    \"Week 13-16: Documentation and deployment\"\n")
	b.WriteString("  ],\n")
	b.WriteString("  \"datasets\": [\n")
	b.WriteString("    \"Dataset 1 name (source, size, purpose)\",\n")
	b.WriteString("    \"Dataset 2 name (source, size, purpose)\",\n")
	b.WriteString("    \"Dataset 3 name (source, size, purpose)\"\n")
	b.WriteString("  ],\n")
	b.WriteString("  \"extensions\": [\n")
	b.WriteString("    \"Extension 1: How to scale this project further\",\n")
	b.WriteString("    \"Extension 2: Advanced feature or integration\",\n")
	b.WriteString("    \"Extension 3: Research publication opportunity\"\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n\n")
	b.WriteString("VALIDATION CHECKLIST (self-check before responding):\n")
	b.WriteString("☐ Did I identify EXACTLY 3-4 research gaps?\n")
	b.WriteString("☐ Are gaps specific with metrics/examples (not generic)?\n")
	b.WriteString("☐ Do gaps include BOTH theoretical AND practical types?\n")
	b.WriteString("☐ Does the project directly address 2-3 of these gaps?\n")
	b.WriteString("☐ Is the JSON valid and complete?\n\n")
	b.WriteString("Field: " + req.Field + "\n")
	b.WriteString("Focus: " + req.Focus + notesLine)
	return b.String()
}

// normalizeIdeaResponse coerces the model output into the fixed section
// layout. Strict JSON first, then inline-section splitting, then plain
// quirk fixes.
func normalizeIdeaResponse(content string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return formatIdeaFromJSON(payload)
	}

	if strings.Contains(content, "Title:") && strings.Contains(content, "Overview:") {
		return normalizeInlineSections(content)
	}

	text := strings.ReplaceAll(content, "\r\n", "\n")
	if strings.Contains(text, "##") {
		text = strings.ReplaceAll(text, "## ", "")
		text = strings.ReplaceAll(text, " ##", "\n")
	}
	text = strings.ReplaceAll(text, "Roadmap: -", "Roadmap:\n-")
	text = strings.ReplaceAll(text, "Datasets: -", "Datasets:\n-")
	text = strings.ReplaceAll(text, "Extensions: -", "Extensions:\n-")
	return strings.TrimSpace(text)
}

var ideaSections = []string{
	"Title:",
	"Overview:",
	"Users:",
	"Impact:",
	"Tech Stack:",
	"Roadmap:",
	"Datasets:",
	"Extensions:",
}

func normalizeInlineSections(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	for _, section := range ideaSections {
		normalized = strings.ReplaceAll(normalized, " "+section, "\n"+section)
		normalized = strings.ReplaceAll(normalized, section, "\n"+section)
	}
	normalized = strings.ReplaceAll(normalized, "\n\n", "\n")
	normalized = strings.ReplaceAll(normalized, "Roadmap: -", "Roadmap:\n-")
	normalized = strings.ReplaceAll(normalized, "Datasets: -", "Datasets:\n-")
	normalized = strings.ReplaceAll(normalized, "Extensions: -", "Extensions:\n-")
	return strings.TrimSpace(normalized)
}

func formatIdeaFromJSON(payload map[string]any) string {
	return strings.TrimSpace(fmt.Sprintf(
		"Title: %s\nOverview: %s\nUsers: %s\nImpact: %s\nTech Stack: %s\nRoadmap:\n%s\nDatasets:\n%s\nExtensions:\n%s",
		stringField(payload, "title"),
		stringField(payload, "overview"),
		stringField(payload, "users"),
		stringField(payload, "impact"),
		joinField(payload, "tech_stack"),
		bulletField(payload, "roadmap"),
		bulletField(payload, "datasets"),
		bulletField(payload, "extensions"),
	))
}

func stringField(payload map[string]any, key string) string {
	return strings.TrimSpace(fmt.Sprintf("%v", valueOrEmpty(payload, key)))
}

func joinField(payload map[string]any, key string) string {
	if list, ok := payload[key].([]any); ok {
		items := make([]string, 0, len(list))
		for _, item := range list {
			if text := strings.TrimSpace(fmt.Sprintf("%v", item)); text != "" {
				items = append(items, text)
			}
		}
		return strings.Join(items, ", ")
	}
	return stringField(payload, key)
}

func bulletField(payload map[string]any, key string) string {
	if list, ok := payload[key].([]any); ok {
		lines := make([]string, 0, len(list))
		for _, item := range list {
			if text := strings.TrimSpace(fmt.Sprintf("%v", item)); text != "" {
				lines = append(lines, "- "+text)
			}
		}
		return strings.Join(lines, "\n")
	}
	if text := stringField(payload, key); text != "" {
		return "- " + text
	}
	return ""
}

func valueOrEmpty(payload map[string]any, key string) any {
	if value, ok := payload[key]; ok && value != nil {
		return value
	}
	return ""
}
