// Package responses records invitation answers in a key-value store and reads them back
// newest first.
package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
	"github.com/imrishuroy/valentine-rsvp/internal/validation"
)

// Service is the only writer of keys under KeyPrefix.
type Service struct {
	store      kvstore.Store
	validate   *validatorv10.Validate
	logger     *slog.Logger
	nowFunc    func() time.Time
	suffixFunc func() string
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces time.Now when minting keys.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.nowFunc = now }
}

// WithSuffix replaces the random key suffix generator.
func WithSuffix(fn func() string) Option {
	return func(s *Service) { s.suffixFunc = fn }
}

// NewService returns a Service writing to store.
func NewService(store kvstore.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		validate:   validation.New(),
		logger:     slog.Default(),
		nowFunc:    time.Now,
		suffixFunc: randomSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// randomSuffix returns 10 hex characters of a v4 UUID's random bits.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (s *Service) newKey() string {
	return fmt.Sprintf("%s%d_%s", KeyPrefix, s.nowFunc().UnixMilli(), s.suffixFunc())
}

// Submit validates the input, stores it under a freshly minted key and returns the key.
// Invalid input never reaches the store.
func (s *Service) Submit(ctx context.Context, answer, message, timestamp string) (string, error) {
	req := validation.SubmitResponseRequest{Answer: answer, Message: message, Timestamp: timestamp}
	if err := s.validate.Struct(req); err != nil {
		return "", &ValidationError{Fields: validation.FieldErrors(err)}
	}

	value, err := json.Marshal(Record{Answer: answer, Message: message, Timestamp: timestamp})
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	key := s.newKey()
	if err := s.store.Set(ctx, key, value); err != nil {
		s.logger.Error("failed to store response", "key", key, "error", err)
		return "", fmt.Errorf("store response: %w", err)
	}
	return key, nil
}

// ListAll returns every response ordered by timestamp, newest first. Entries are put in
// key order before the stable sort so equal timestamps always come out the same way.
func (s *Service) ListAll(ctx context.Context) ([]Response, error) {
	entries, err := s.store.GetByPrefix(ctx, KeyPrefix)
	if err != nil {
		s.logger.Error("failed to list responses", "error", err)
		return nil, fmt.Errorf("list responses: %w", err)
	}

	out := make([]Response, 0, len(entries))
	at := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		rec, err := decode(e.Key, e.Value)
		if err != nil {
			s.logger.Error("corrupt response record", "key", e.Key, "error", err)
			return nil, err
		}
		// unparseable timestamps sort last as the zero time
		at[e.Key], _ = validation.ParseTimestamp(rec.Timestamp)
		out = append(out, Response{Key: e.Key, Value: rec})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	sort.SliceStable(out, func(i, j int) bool {
		return at[out[i].Key].After(at[out[j].Key])
	})
	return out, nil
}

// Get returns the response stored under key, or ErrNotFound.
func (s *Service) Get(ctx context.Context, key string) (*Response, error) {
	if !strings.HasPrefix(key, KeyPrefix) || len(key) == len(KeyPrefix) {
		return nil, &ValidationError{Fields: map[string]string{"key": "namespace"}}
	}
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get response: %w", err)
	}
	rec, err := decode(key, raw)
	if err != nil {
		return nil, err
	}
	return &Response{Key: key, Value: rec}, nil
}

// Stats counts answers over all stored responses.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(all)}
	for _, r := range all {
		switch r.Value.Answer {
		case AnswerYes:
			st.Yes++
		case AnswerNo:
			st.No++
		case AnswerMaybe:
			st.Maybe++
		}
	}
	return st, nil
}

func decode(key string, raw json.RawMessage) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w %q: %v", ErrCorruptRecord, key, err)
	}
	switch rec.Answer {
	case AnswerYes, AnswerNo, AnswerMaybe:
		return rec, nil
	}
	return Record{}, fmt.Errorf("%w %q: unknown answer %q", ErrCorruptRecord, key, rec.Answer)
}
