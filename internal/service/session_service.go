package service

import (
	"context"
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"verbalist/internal/models"
	"verbalist/internal/repository"
)

// FirstMessage is the assistant greeting written into every new session
const FirstMessage = "Hey! I'd love to chat with you. What's on your mind today?"

var ErrSessionNotFound = errors.New("session not found")

// SessionErrorKind classifies why session creation failed
type SessionErrorKind int

const (
	// SessionErrWordListNotFound means the referenced word list does not exist
	SessionErrWordListNotFound SessionErrorKind = iota + 1
	// SessionErrStore means the document store failed
	SessionErrStore
)

func (k SessionErrorKind) String() string {
	switch k {
	case SessionErrWordListNotFound:
		return "word list not found"
	case SessionErrStore:
		return "store failure"
	default:
		return "unknown"
	}
}

// SessionError carries the full internal detail of a failed session
// creation. It is logged, never shown to callers.
type SessionError struct {
	Kind       SessionErrorKind
	WordListID string
	Op         string
	Err        error
}

func (e *SessionError) Error() string {
	if e.Kind == SessionErrWordListNotFound {
		return fmt.Sprintf("word list %s not found", e.WordListID)
	}
	return fmt.Sprintf("%s (word list %s): %v", e.Op, e.WordListID, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// CreateSessionResult is returned to the caller after a session is created
type CreateSessionResult struct {
	SessionID    string               `json:"sessionId"`
	WordBag      []models.WordBagItem `json:"wordBag"`
	FirstMessage string               `json:"firstMessage"`
}

// SessionView is a stored session with the messages of its context window
type SessionView struct {
	Session  *models.ChatSession `json:"session"`
	Messages []models.Message    `json:"messages"`
}

// SessionService creates chat sessions and their word bags
type SessionService struct {
	listRepo    *repository.ListRepository
	sessionRepo *repository.SessionRepository

	// rand.Rand is not safe for concurrent use
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSessionService creates a new session service. A nil src uses a
// ChaCha8 source seeded from crypto/rand.
func NewSessionService(listRepo *repository.ListRepository, sessionRepo *repository.SessionRepository, src rand.Source) *SessionService {
	if src == nil {
		src = NewSecureSource()
	}
	return &SessionService{
		listRepo:    listRepo,
		sessionRepo: sessionRepo,
		rng:         rand.New(src),
		now:         time.Now,
	}
}

// NewSecureSource returns a ChaCha8 source with a random seed
func NewSecureSource() rand.Source {
	var seed [32]byte
	cryptorand.Read(seed[:])
	return rand.NewChaCha8(seed)
}

// CreateSession reads the word list, draws a word bag of WordBagMin to
// WordBagMax distinct words, and writes the session with its first
// assistant message. The writes are committed as one batch; if the list
// does not exist nothing is written.
func (s *SessionService) CreateSession(ctx context.Context, userID, personaID, wordListID string) (*CreateSessionResult, error) {
	list, err := s.listRepo.GetByID(ctx, wordListID)
	if err != nil {
		return nil, &SessionError{Kind: SessionErrStore, WordListID: wordListID, Op: "read word list", Err: err}
	}
	if list == nil {
		return nil, &SessionError{Kind: SessionErrWordListNotFound, WordListID: wordListID}
	}

	s.mu.Lock()
	bagSize := s.rng.IntN(models.WordBagMax-models.WordBagMin+1) + models.WordBagMin
	selected := selectRandomWords(s.rng, list.Words, bagSize)
	s.mu.Unlock()

	if len(selected) < bagSize {
		log.Printf("Word list %s has %d usable words, wanted %d for session bag", wordListID, len(selected), bagSize)
	}

	wordBag := createWordBag(selected)
	now := s.now()

	session := &models.ChatSession{
		ID:            s.sessionRepo.NewSessionID(),
		UserID:        userID,
		PersonaID:     personaID,
		WordListID:    wordListID,
		Status:        models.SessionActive,
		StartedAt:     now,
		MessageCount:  0,
		WordBag:       wordBag,
		ContextWindow: []string{},
	}
	msg := &models.Message{
		ID:        s.sessionRepo.NewMessageID(),
		SessionID: session.ID,
		Role:      models.RoleAssistant,
		Content:   FirstMessage,
		Timestamp: now,
	}

	if err := s.sessionRepo.CreateWithFirstMessage(ctx, session, msg); err != nil {
		return nil, &SessionError{Kind: SessionErrStore, WordListID: wordListID, Op: "write session", Err: err}
	}

	log.Printf("Created session %s for user %s with %d words", session.ID, userID, len(wordBag))

	return &CreateSessionResult{
		SessionID:    session.ID,
		WordBag:      wordBag,
		FirstMessage: FirstMessage,
	}, nil
}

// GetSession returns a session and its context messages. Sessions owned by
// another user are reported as ErrSessionNotFound.
func (s *SessionService) GetSession(ctx context.Context, userID, sessionID string) (*SessionView, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	messages, err := s.sessionRepo.GetContextMessages(ctx, session)
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: session, Messages: messages}, nil
}

// selectRandomWords draws up to count distinct words uniformly without
// replacement using a partial Fisher-Yates shuffle over a de-duplicated
// copy. Fewer words are returned when the list is short.
func selectRandomWords(rng *rand.Rand, words []string, count int) []string {
	pool := uniqueWords(words)
	if count > len(pool) {
		count = len(pool)
	}
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}

func uniqueWords(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func createWordBag(words []string) []models.WordBagItem {
	bag := make([]models.WordBagItem, len(words))
	for i, w := range words {
		bag[i] = models.WordBagItem{Word: w, TargetUseCount: 1, CurrentUseCount: 0}
	}
	return bag
}
