package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tarostudio/portal-api/internal/models"
	"github.com/tarostudio/portal-api/internal/repository"
)

// chatRule maps message keywords to a canned response. Rules are evaluated
// in order; the first match wins.
type chatRule struct {
	keywords []string
	response string
}

var chatRules = []chatRule{
	{
		keywords: []string{"price", "pricing", "cost", "how much", "budget"},
		response: "Our plans start at $2,500/mo for the Lite Brew tier, with Signature Blend and Taro Cloud tiers for larger teams. Leave your email and we'll send over a detailed pricing sheet.",
	},
	{
		keywords: []string{"service", "what do you do", "offer", "design", "development"},
		response: "We handle brand design, web design, and full-stack development, from a landing page to a complete product. What are you looking to build?",
	},
	{
		keywords: []string{"portfolio", "work", "example", "case stud"},
		response: "You can browse our recent work on the portfolio page. If you tell us your industry, we can point you at the most relevant case studies.",
	},
	{
		keywords: []string{"timeline", "how long", "deadline", "turnaround"},
		response: "Most branding projects take 3-4 weeks and full websites 6-10 weeks, depending on scope. Share a few details and we'll give you a real estimate.",
	},
	{
		keywords: []string{"contact", "talk", "call", "meeting", "human"},
		response: "Happy to connect you with the team. Drop your email here and someone will reach out within one business day.",
	},
	{
		keywords: []string{"hello", "hi", "hey"},
		response: "Hi there! I'm the Taro Studio assistant. Ask me about our services, pricing, or past work.",
	},
}

const chatFallbackResponse = "Thanks for reaching out! Leave your email and a short note about your project, and our team will get back to you within one business day."

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ChatService powers the public lead-capture chat widget.
type ChatService struct {
	leadRepo  repository.LeadRepository
	aiService *AIService
}

// NewChatService creates a new ChatService. aiService may be nil, in which
// case unmatched messages get the canned fallback.
func NewChatService(leadRepo repository.LeadRepository, aiService *AIService) *ChatService {
	return &ChatService{
		leadRepo:  leadRepo,
		aiService: aiService,
	}
}

// ChatInput represents a visitor message.
type ChatInput struct {
	Message string
	Name    string
}

// ChatReply is the bot's answer plus whether a lead was captured.
type ChatReply struct {
	Response     string
	LeadCaptured bool
}

// HandleMessage matches the message against the canned rules and captures a
// lead when the message contains an email address.
func (s *ChatService) HandleMessage(ctx context.Context, input ChatInput) (*ChatReply, error) {
	reply := &ChatReply{}

	if email := emailPattern.FindString(input.Message); email != "" {
		lead := &models.Lead{
			Email:   strings.ToLower(email),
			Name:    strings.TrimSpace(input.Name),
			Message: input.Message,
			Source:  "chat",
		}
		if err := s.leadRepo.Upsert(lead); err != nil {
			return nil, fmt.Errorf("failed to save lead: %w", err)
		}
		reply.LeadCaptured = true
		reply.Response = "Got it — the team will reach out to you shortly. Anything else I can help with?"
		return reply, nil
	}

	message := strings.ToLower(input.Message)
	for _, rule := range chatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(message, kw) {
				reply.Response = rule.response
				return reply, nil
			}
		}
	}

	// No rule matched; try the AI assistant when configured.
	if s.aiService != nil {
		if answer, err := s.aiService.AnswerVisitorQuestion(ctx, input.Message); err == nil && answer != "" {
			reply.Response = answer
			return reply, nil
		}
	}

	reply.Response = chatFallbackResponse
	return reply, nil
}
