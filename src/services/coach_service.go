// src/services/coach_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/username/biaslens/src/database"
	"github.com/username/biaslens/src/logger"
	"github.com/username/biaslens/src/model"
	"github.com/username/biaslens/src/models"
	"github.com/username/biaslens/src/security/validation"
)

const (
	coachHistoryLimit     = 20
	coachRecentTradeLimit = 50
	coachNotConfiguredMsg = "AI Coach is not configured. Set COACH_API_KEY."
	coachFallbackReply    = "I apologize, I could not generate a response."
)

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	MaxTokens   int                     `json:"max_tokens"`
	Temperature float64                 `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

type coachServiceImpl struct {
	client          *resty.Client
	analysisService AnalysisService
	gatewayURL      string
	apiKey          string
	model           string
}

func NewCoachService(analysisService AnalysisService, gatewayURL, apiKey, modelName string) CoachService {
	client := resty.New().
		SetTimeout(60 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &coachServiceImpl{
		client:          client,
		analysisService: analysisService,
		gatewayURL:      gatewayURL,
		apiKey:          apiKey,
		model:           modelName,
	}
}

// SendMessage stores the user's message, asks the LLM gateway for a reply
// grounded in the trader's recent activity and detected biases, and stores
// the assistant's answer.
func (s *coachServiceImpl) SendMessage(ctx context.Context, userID int64, message string) (*model.ChatMessage, error) {
	message = strings.TrimSpace(validation.SanitizeText(validation.StripUnprintable(message)))
	if message == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", validation.ErrValidationFailed)
	}
	if err := validation.ValidateStringMaxLength(message, validation.MaxChatMessageLength, "message"); err != nil {
		return nil, err
	}

	history, err := model.ListChatMessages(database.DB, userID, coachHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading chat history: %w", err)
	}
	if _, err := model.InsertChatMessage(database.DB, userID, "user", message); err != nil {
		return nil, fmt.Errorf("error storing chat message: %w", err)
	}

	if s.apiKey == "" {
		return model.InsertChatMessage(database.DB, userID, "assistant", coachNotConfiguredMsg)
	}

	reply, err := s.requestCompletion(ctx, userID, message, history)
	if err != nil {
		return nil, err
	}
	return model.InsertChatMessage(database.DB, userID, "assistant", reply)
}

func (s *coachServiceImpl) requestCompletion(ctx context.Context, userID int64, message string, history []model.ChatMessage) (string, error) {
	messages := []chatCompletionMessage{
		{Role: "system", Content: s.buildSystemPrompt(userID)},
	}
	for _, m := range history {
		messages = append(messages, chatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chatCompletionMessage{Role: "user", Content: message})

	var out chatCompletionResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetBody(chatCompletionRequest{
			Model:       s.model,
			Messages:    messages,
			MaxTokens:   1000,
			Temperature: 0.7,
		}).
		SetResult(&out).
		Post(s.gatewayURL)
	if err != nil {
		logger.L.Error("AI coach gateway request failed", "userID", userID, "error", err)
		return "", fmt.Errorf("AI coach request failed: %w", err)
	}
	if resp.IsError() {
		logger.L.Error("AI coach gateway returned error status",
			"userID", userID, "status", resp.StatusCode())
		return "", fmt.Errorf("AI coach request failed with status %d", resp.StatusCode())
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return coachFallbackReply, nil
	}
	return out.Choices[0].Message.Content, nil
}

// buildSystemPrompt summarizes the trader's recent activity and detected
// biases into the coach's context. Data errors degrade the prompt rather
// than fail the chat.
func (s *coachServiceImpl) buildSystemPrompt(userID int64) string {
	trades, err := s.analysisService.GetTrades(userID, coachRecentTradeLimit, "desc")
	if err != nil {
		logger.L.Warn("coach prompt: failed to load trades", "userID", userID, "error", err)
	}
	findings, err := s.analysisService.GetFindings(userID)
	if err != nil {
		logger.L.Warn("coach prompt: failed to load findings", "userID", userID, "error", err)
	}

	return fmt.Sprintf(`You are an expert AI trading coach for the BiasLens platform. Your role is to:
1. Analyze trading behavior and identify psychological biases
2. Provide personalized, actionable advice
3. Help traders improve discipline and emotional control
4. Suggest portfolio optimization strategies
5. Perform sentiment analysis on trader notes
6. Predict potential bias-triggering situations

Current trader context:
%s
%s

Be empathetic but direct. Use specific data from their trades when possible. Keep responses concise (2-4 paragraphs max). Reference behavioral finance concepts.`,
		summarizeTrades(trades), summarizeFindings(findings))
}

func summarizeTrades(trades []models.Trade) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The trader has %d recent trades. ", len(trades))

	var totalPnL float64
	wins := 0
	for _, t := range trades {
		if t.PnL != nil {
			totalPnL += *t.PnL
			if *t.PnL > 0 {
				wins++
			}
		}
	}
	fmt.Fprintf(&sb, "Total P/L: $%.2f. ", totalPnL)

	if len(trades) == 0 {
		sb.WriteString("No trading data available yet.")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Win rate: %.0f%%. ", float64(wins)/float64(len(trades))*100)

	seen := make(map[string]bool)
	var assets []string
	for _, t := range trades {
		if !seen[t.Asset] {
			seen[t.Asset] = true
			assets = append(assets, t.Asset)
		}
		if len(assets) == 5 {
			break
		}
	}
	fmt.Fprintf(&sb, "Most traded assets: %s.", strings.Join(assets, ", "))
	return sb.String()
}

func summarizeFindings(findings []models.BiasFinding) string {
	if len(findings) == 0 {
		return "No biases detected yet."
	}
	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		parts = append(parts, fmt.Sprintf("%s (%s): %s", f.Title, f.Severity, f.Description))
	}
	return "Detected biases: " + strings.Join(parts, "; ")
}

func (s *coachServiceImpl) GetHistory(userID int64, limit int) ([]model.ChatMessage, error) {
	return model.ListChatMessages(database.DB, userID, limit)
}

func (s *coachServiceImpl) ClearHistory(userID int64) error {
	return model.DeleteChatMessages(database.DB, userID)
}
