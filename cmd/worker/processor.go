package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/valentine-rsvp/internal/aws"
	"github.com/imrishuroy/valentine-rsvp/internal/responses"
)

// Processor turns response.submitted messages into per-answer CloudWatch counters.
type Processor struct {
	metrics *aws.Metrics
	logger  *slog.Logger
	nowFunc func() time.Time
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, namespace string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		metrics: aws.NewMetrics(clients.CloudWatch, namespace),
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Handle receives an SQS batch, tallies the answers and publishes them in one call.
// A malformed body fails the whole batch so Lambda retries it and eventually moves it to the DLQ.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	counts := make(map[string]int)
	for _, rec := range ev.Records {
		msg, err := decodeMessage(rec)
		if err != nil {
			p.logger.Error("worker error", "message_id", rec.MessageId, "error", err)
			return err
		}
		if !validAnswer(msg.Answer) {
			// cannot succeed on retry
			p.logger.Warn("skipping response with unknown answer", "key", msg.Key, "answer", msg.Answer)
			continue
		}
		p.logger.Debug("received response", "key", msg.Key, "answer", msg.Answer)
		counts[msg.Answer]++
	}

	if err := p.metrics.RecordAnswers(ctx, counts, p.nowFunc()); err != nil {
		p.logger.Error("failed to record metrics", "error", err)
		return err
	}
	p.logger.Info("processed batch", "records", len(ev.Records), "counts", counts)
	return nil
}

func decodeMessage(rec events.SQSMessage) (responses.SubmittedEvent, error) {
	var msg responses.SubmittedEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return msg, fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Key == "" || msg.Answer == "" {
		return msg, fmt.Errorf("invalid message body: missing key or answer")
	}
	return msg, nil
}

func validAnswer(a string) bool {
	switch a {
	case responses.AnswerYes, responses.AnswerNo, responses.AnswerMaybe:
		return true
	}
	return false
}
