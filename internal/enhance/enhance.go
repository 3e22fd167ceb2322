// Package enhance refines topic-filtered questions through a language-model
// backend. Implements: prd003-enhancement (R1, R2);
//
//	docs/ARCHITECTURE § Enhancement.
package enhance

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// UnrelatedSentinel is the literal reply that marks a question as off-topic (R1.3).
const UnrelatedSentinel = "UNRELATED"

// minReplyLen is the rune floor a reply must exceed to count as a question (R1.4).
const minReplyLen = 10

// Backend abstracts the completion API so tests can supply a stub.
// Per Strategy pattern (prd003-enhancement R1.1).
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// enhancePromptTmpl is rendered once per question. The model replies with a
// cleaned-up question, or with the UNRELATED sentinel when the question does
// not belong to the topic. Per prd003-enhancement R1.2.
var enhancePromptTmpl = template.Must(template.New("enhance").Parse(`Analyze this exam question and determine if it's truly related to "{{.Topic}}".
If it is related, clean it up and make it more clear.
If it's not related, respond with "UNRELATED".

Question: {{.Question}}

Respond with either the cleaned question or "UNRELATED":`))

// Summary holds counts from one enhancement run (R2.3).
type Summary struct {
	Enhanced int // replies accepted as rewritten questions
	Excluded int // replies marked UNRELATED or too short to keep
	Total    int // questions submitted
}

// Enhancer pushes questions through a Backend one at a time, pacing calls
// with a rate limiter (R2.1).
type Enhancer struct {
	backend Backend
	limiter *rate.Limiter
}

// New returns an Enhancer that allows one backend call per callDelay. A zero
// or negative delay disables pacing.
func New(backend Backend, callDelay time.Duration) *Enhancer {
	limit := rate.Inf
	if callDelay > 0 {
		limit = rate.Every(callDelay)
	}
	return &Enhancer{
		backend: backend,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// EnhanceAll rewrites questions through the backend in input order. Replies
// equal to the UNRELATED sentinel after trimming, and replies at or under the
// length floor, drop the question from the result (R1.3, R1.4). Any backend
// failure aborts the run: the original list is returned together with the
// error so callers can continue unenhanced (R2.2).
func (e *Enhancer) EnhanceAll(ctx context.Context, questions []string, topic string) ([]string, Summary, error) {
	sum := Summary{Total: len(questions)}
	kept := make([]string, 0, len(questions))

	for _, q := range questions {
		if err := e.limiter.Wait(ctx); err != nil {
			return questions, Summary{Total: len(questions)}, fmt.Errorf("pacing enhancement calls: %w", err)
		}

		prompt, err := renderPrompt(topic, q)
		if err != nil {
			return questions, Summary{Total: len(questions)}, fmt.Errorf("rendering enhancement prompt: %w", err)
		}

		reply, err := e.backend.Complete(ctx, prompt)
		if err != nil {
			return questions, Summary{Total: len(questions)}, fmt.Errorf("enhancing question: %w", err)
		}

		reply = strings.TrimSpace(reply)
		if reply == UnrelatedSentinel {
			log.Debug().Str("question", q).Msg("model marked question unrelated")
			sum.Excluded++
			continue
		}
		if utf8.RuneCountInString(reply) <= minReplyLen {
			log.Debug().Str("question", q).Str("reply", reply).Msg("model reply too short, dropping")
			sum.Excluded++
			continue
		}

		kept = append(kept, reply)
		sum.Enhanced++
	}

	return kept, sum, nil
}

// renderPrompt executes the enhancement prompt template for one question.
func renderPrompt(topic, question string) (string, error) {
	var buf bytes.Buffer
	err := enhancePromptTmpl.Execute(&buf, struct{ Topic, Question string }{Topic: topic, Question: question})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
