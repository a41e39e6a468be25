package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bokjikok/bokjikok/internal/logger"
	"github.com/bokjikok/bokjikok/internal/models"
)

// TurnKind tags transcript entries.
type TurnKind string

const (
	TurnUser            TurnKind = "user"
	TurnBot             TurnKind = "bot"
	TurnRecommendations TurnKind = "recommendations"
)

// Turn is one transcript entry. IDs are strictly increasing, so sorting by
// ID always reconstructs transcript order.
type Turn struct {
	ID      int64
	Kind    TurnKind
	Message string
	Items   []models.BenefitItem
}

// MergePolicy controls how a new structured-recommendation turn enters the
// transcript. Client variants historically disagreed, so the choice is an
// explicit configuration value rather than a hardcoded behavior.
type MergePolicy string

const (
	// MergeReplaceLatest drops any earlier recommendation turn when a new one
	// arrives. This is the default.
	MergeReplaceLatest MergePolicy = "replace-latest"
	// MergeAppendAll keeps every recommendation turn.
	MergeAppendAll MergePolicy = "append-all"
)

// ParseMergePolicy maps a config string to a policy, defaulting to
// replace-latest for unknown values.
func ParseMergePolicy(s string) MergePolicy {
	if MergePolicy(s) == MergeAppendAll {
		return MergeAppendAll
	}
	return MergeReplaceLatest
}

// FallbackText is the fixed bot message appended when the remote call fails
// or returns no usable content. Failures never escape SendMessage.
const FallbackText = "죄송합니다. 지금은 상담 서버에 연결할 수 없어요. 😅\n잠시 후 다시 시도해주세요."

// GreetingText seeds every new conversation.
const GreetingText = "안녕하세요! 복지콕 챗봇입니다. 궁금한 복지 혜택에 대해 질문해주세요! 😊"

// QuickQuestions are the canned prompts surfaced next to the chat input.
var QuickQuestions = []string{
	"청년 대상 지원금에 대해 알려주세요",
	"주거 지원 혜택에 대해 알려주세요",
	"교육비 지원에 대해 알려주세요",
	"육아 지원 제도에 대해 알려주세요",
}

// Session maintains the ordered chat transcript and issues one responder
// call per user message. The user turn is appended synchronously before any
// network activity; bot turns arrive later, in response-arrival order. A
// superseded in-flight request is not cancelled: both responses land, which
// may be out of send order for concurrent messages.
type Session struct {
	responder Responder
	policy    MergePolicy
	timeout   time.Duration
	log       logger.Logger

	mu     sync.Mutex
	turns  []Turn
	lastID int64

	wg sync.WaitGroup
}

func NewSession(responder Responder, policy MergePolicy, timeout time.Duration, log logger.Logger) *Session {
	s := &Session{
		responder: responder,
		policy:    policy,
		timeout:   timeout,
		log:       log,
	}
	s.append(TurnBot, GreetingText, nil)
	return s
}

// Transcript returns a copy of the turns in transcript order.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Recommendations returns the items of the newest structured turn, if any.
func (s *Session) Recommendations() []models.BenefitItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Kind == TurnRecommendations {
			return append([]models.BenefitItem(nil), s.turns[i].Items...)
		}
	}
	return nil
}

// SendMessage appends a user turn and fires the responder call. It reports
// whether a request was issued; blank input is a no-op. profile may be nil
// for unauthenticated sessions.
func (s *Session) SendMessage(text string, profile *models.Profile) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	s.append(TurnUser, text, nil)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		reply, err := s.responder.Reply(ctx, text, profile)
		if err != nil {
			s.log.Warn("chat request failed", logger.Error(err))
			s.append(TurnBot, FallbackText, nil)
			return
		}

		appended := false
		if reply.Text != "" {
			s.append(TurnBot, reply.Text, nil)
			appended = true
		}
		if len(reply.Items) > 0 {
			s.appendRecommendations(reply.Items)
			appended = true
		}
		if !appended {
			s.append(TurnBot, FallbackText, nil)
		}
	}()
	return true
}

// Wait blocks until all in-flight responder calls have resolved. The CLI
// uses it before rendering and on shutdown.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) append(kind TurnKind, message string, items []models.BenefitItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{
		ID:      s.nextIDLocked(),
		Kind:    kind,
		Message: message,
		Items:   items,
	})
}

func (s *Session) appendRecommendations(items []models.BenefitItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == MergeReplaceLatest {
		kept := s.turns[:0]
		for _, t := range s.turns {
			if t.Kind != TurnRecommendations {
				kept = append(kept, t)
			}
		}
		s.turns = kept
	}
	s.turns = append(s.turns, Turn{
		ID:    s.nextIDLocked(),
		Kind:  TurnRecommendations,
		Items: items,
	})
}

// nextIDLocked produces time-based, strictly increasing turn IDs even when
// two turns land within the same millisecond.
func (s *Session) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
