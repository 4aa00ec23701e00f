package service

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/plumon/roleplay-chat/internal/metrics"
)

// FallbackReply is returned whenever the upstream completion call fails.
// The turn is still persisted, so the user always gets a reply.
const FallbackReply = "Sorry, I am unable to respond at the moment."

const defaultCompletionTimeout = 60 * time.Second

// CompletionOptions tunes a completion call.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// CompletionService wraps the chat model behind a never-fail contract:
// network errors, provider errors, timeouts, and empty responses all
// collapse into FallbackReply plus a log entry. No retries.
type CompletionService struct {
	chatModel   model.BaseChatModel
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      zerolog.Logger
}

func NewCompletionService(chatModel model.BaseChatModel, opts CompletionOptions, logger zerolog.Logger) *CompletionService {
	if opts.Temperature <= 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 500
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultCompletionTimeout
	}
	return &CompletionService{
		chatModel:   chatModel,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		logger:      logger,
	}
}

func (s *CompletionService) Complete(ctx context.Context, turns []*schema.Message) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.chatModel.Generate(ctx, turns,
		model.WithTemperature(s.temperature),
		model.WithMaxTokens(s.maxTokens),
	)
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn().Err(err).Int("turns", len(turns)).Msg("completion call failed, using fallback reply")
		metrics.CompletionFallbacksTotal.WithLabelValues("error").Inc()
		return FallbackReply
	}
	if reply == nil || reply.Content == "" {
		s.logger.Warn().Int("turns", len(turns)).Msg("completion returned empty content, using fallback reply")
		metrics.CompletionFallbacksTotal.WithLabelValues("empty").Inc()
		return FallbackReply
	}

	return reply.Content
}
