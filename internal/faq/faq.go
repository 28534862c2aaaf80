// Package faq answers policy questions (cancellation, refunds, hidden
// charges) from a curated dataset instead of the model, so policy wording
// stays exact and auditable.
package faq

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"gopkg.in/yaml.v3"
)

// matchThreshold is the minimum blended score for a dataset answer to be
// preferred over the fallback.
const matchThreshold = 0.35

// Fallback is returned when no dataset entry scores above the threshold.
const Fallback = "I'm not sure about that one. 🤔 Could you rephrase, or ask about our cancellation, refund, or payment policies?"

// Entry is one question/answer pair from the dataset.
type Entry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Service matches user text against the FAQ dataset.
type Service struct {
	logger  *slog.Logger
	entries []Entry
	sim     *metrics.JaroWinkler
}

// NewService loads the dataset at path. A missing or empty dataset is an
// error: the engine routes policy questions here unconditionally, so serving
// only the fallback would silently degrade every policy answer.
func NewService(log *slog.Logger, path string) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq dataset: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse faq dataset: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("faq dataset %s has no entries", path)
	}

	log = log.With(slog.String("service", "faq"))
	log.Info("faq dataset loaded", slog.Int("entries", len(entries)))

	return &Service{
		logger:  log,
		entries: entries,
		sim:     metrics.NewJaroWinkler(),
	}, nil
}

// Match returns the best answer for the query. The second result reports
// whether a dataset entry matched; when false the answer is the fallback.
func (s *Service) Match(query string) (string, bool) {
	best := -1.0
	var answer string

	queryTokens := tokenize(query)
	for _, e := range s.entries {
		score := s.blendScore(query, queryTokens, e.Question)
		if score > best {
			best = score
			answer = e.Answer
		}
	}

	if best < matchThreshold {
		s.logger.Debug("faq fallback", slog.Float64("best_score", best))
		return Fallback, false
	}
	return answer, true
}

// blendScore mixes token overlap with string similarity. Overlap carries the
// match for reworded questions that share vocabulary; string similarity
// carries short queries that are near-verbatim dataset questions.
func (s *Service) blendScore(query string, queryTokens map[string]struct{}, question string) float64 {
	overlap := tokenOverlap(queryTokens, tokenize(question))
	similarity := strutil.Similarity(strings.ToLower(query), strings.ToLower(question), s.sim)
	return 0.7*overlap + 0.3*similarity
}

func tokenOverlap(query, question map[string]struct{}) float64 {
	if len(question) == 0 {
		return 0
	}
	shared := 0
	for tok := range question {
		if _, ok := query[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(question))
}

// stopWords are excluded from overlap scoring; they match everything and
// drown out the terms that actually discriminate between entries.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "do": {}, "does": {},
	"i": {}, "my": {}, "you": {}, "your": {}, "can": {}, "how": {}, "what": {},
	"to": {}, "of": {}, "for": {}, "if": {}, "there": {}, "any": {},
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		tok := strings.Trim(field, ".,!?;:'\"()")
		if tok == "" {
			continue
		}
		if _, skip := stopWords[tok]; skip {
			continue
		}
		tokens[tok] = struct{}{}
	}
	return tokens
}
