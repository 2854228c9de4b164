// Package storetest provides in-memory implementations of the store
// interfaces for service-level tests. Values are cloned on every read and
// write so callers cannot mutate stored state without going through Update,
// matching database semantics. The Transactor emulates rollback-on-error by
// restoring a snapshot.
package storetest

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leximo/leximo-api/internal/domain"
	"github.com/leximo/leximo-api/internal/store"
)

// MemStore is the shared in-memory backend for the store fakes.
type MemStore struct {
	Mu           sync.Mutex
	Users        map[uuid.UUID]*domain.User
	Dictionaries map[uuid.UUID]*domain.Dictionary
	Words        map[uuid.UUID]*domain.Word
	Sessions     map[uuid.UUID]*domain.TrainingSession
	Answers      []*domain.AnswerEvent

	// Error injection for atomicity tests.
	FailAnswerCreate error
	FailWordUpdate   error

	// Stale-read injection for local-number retry tests. While positive,
	// NextLocalNumber returns the current maximum instead of max+1 and
	// decrements the counter, simulating a concurrent insert landing
	// between the read and the create.
	StaleSessionNumbers    int
	StaleDictionaryNumbers int
}

// NewMemStore creates an empty in-memory backend.
func NewMemStore() *MemStore {
	return &MemStore{
		Users:        make(map[uuid.UUID]*domain.User),
		Dictionaries: make(map[uuid.UUID]*domain.Dictionary),
		Words:        make(map[uuid.UUID]*domain.Word),
		Sessions:     make(map[uuid.UUID]*domain.TrainingSession),
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func cloneDictionary(d *domain.Dictionary) *domain.Dictionary {
	c := *d
	return &c
}

func cloneWord(w *domain.Word) *domain.Word {
	c := *w
	return &c
}

func cloneSession(s *domain.TrainingSession) *domain.TrainingSession {
	c := *s
	return &c
}

func cloneAnswer(a *domain.AnswerEvent) *domain.AnswerEvent {
	c := *a
	return &c
}

// snapshot captures the mutable state touched by transactions.
type snapshot struct {
	words    map[uuid.UUID]*domain.Word
	sessions map[uuid.UUID]*domain.TrainingSession
	answers  []*domain.AnswerEvent
}

func (m *MemStore) takeSnapshot() snapshot {
	words := make(map[uuid.UUID]*domain.Word, len(m.Words))
	for id, w := range m.Words {
		words[id] = cloneWord(w)
	}
	sessions := make(map[uuid.UUID]*domain.TrainingSession, len(m.Sessions))
	for id, s := range m.Sessions {
		sessions[id] = cloneSession(s)
	}
	answers := make([]*domain.AnswerEvent, len(m.Answers))
	copy(answers, m.Answers)
	return snapshot{words: words, sessions: sessions, answers: answers}
}

func (m *MemStore) restore(s snapshot) {
	m.Words = s.words
	m.Sessions = s.sessions
	m.Answers = s.answers
}

// Transactor implements store.Transactor over a MemStore.
type Transactor struct {
	m *MemStore

	// txMu serializes transactions. Snapshot restore is only sound when no
	// other transaction interleaves, so concurrent Transact calls queue up
	// the way serializable database transactions would.
	txMu sync.Mutex
}

var _ store.Transactor = (*Transactor)(nil)

// NewTransactor creates a Transactor bound to m.
func NewTransactor(m *MemStore) *Transactor {
	return &Transactor{m: m}
}

// Transact runs fn with a nil *sql.Tx and rolls the backend back to its
// pre-call state when fn returns an error.
func (t *Transactor) Transact(ctx context.Context, fn store.TxFn) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	t.m.Mu.Lock()
	snap := t.m.takeSnapshot()
	t.m.Mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		t.m.Mu.Lock()
		t.m.restore(snap)
		t.m.Mu.Unlock()
		return err
	}
	return nil
}

// WordStore implements store.WordStore over a MemStore.
type WordStore struct{ m *MemStore }

var _ store.WordStore = (*WordStore)(nil)

// NewWordStore creates a WordStore bound to m.
func NewWordStore(m *MemStore) *WordStore { return &WordStore{m: m} }

func (f *WordStore) Create(ctx context.Context, word *domain.Word) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	f.m.Words[word.ID] = cloneWord(word)
	return nil
}

func (f *WordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	word, ok := f.m.Words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return cloneWord(word), nil
}

func (f *WordStore) ListByDictionary(ctx context.Context, dictionaryID uuid.UUID) ([]*domain.Word, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	var words []*domain.Word
	for _, word := range f.m.Words {
		if word.DictionaryID == dictionaryID {
			words = append(words, cloneWord(word))
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i].CreatedAt.Before(words[j].CreatedAt) })
	return words, nil
}

func (f *WordStore) Update(ctx context.Context, word *domain.Word) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	if f.m.FailWordUpdate != nil {
		return f.m.FailWordUpdate
	}
	if _, ok := f.m.Words[word.ID]; !ok {
		return store.ErrWordNotFound
	}
	f.m.Words[word.ID] = cloneWord(word)
	return nil
}

func (f *WordStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	if _, ok := f.m.Words[id]; !ok {
		return store.ErrWordNotFound
	}
	delete(f.m.Words, id)
	return nil
}

func (f *WordStore) userWords(userID uuid.UUID) []*domain.Word {
	var words []*domain.Word
	for _, word := range f.m.Words {
		dict, ok := f.m.Dictionaries[word.DictionaryID]
		if ok && dict.UserID == userID {
			words = append(words, word)
		}
	}
	return words
}

func (f *WordStore) ListDueByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Word, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	var due []*domain.Word
	for _, word := range f.userWords(userID) {
		if word.Due(now) {
			due = append(due, cloneWord(word))
		}
	}
	return due, nil
}

func (f *WordStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	return len(f.userWords(userID)), nil
}

func (f *WordStore) CountLearnedByUser(ctx context.Context, userID uuid.UUID, minRepetitions int) (int, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	count := 0
	for _, word := range f.userWords(userID) {
		if word.Repetitions >= minRepetitions {
			count++
		}
	}
	return count, nil
}

func (f *WordStore) CountDueByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	count := 0
	for _, word := range f.userWords(userID) {
		if word.Due(now) {
			count++
		}
	}
	return count, nil
}

func (f *WordStore) WithTx(tx *sql.Tx) store.WordStore { return f }

// SessionStore implements store.SessionStore over a MemStore.
type SessionStore struct{ m *MemStore }

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore bound to m.
func NewSessionStore(m *MemStore) *SessionStore { return &SessionStore{m: m} }

func (f *SessionStore) Create(ctx context.Context, session *domain.TrainingSession) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	for _, existing := range f.m.Sessions {
		if existing.UserID == session.UserID && existing.LocalNumber == session.LocalNumber {
			return store.ErrLocalNumberExists
		}
	}
	f.m.Sessions[session.ID] = cloneSession(session)
	return nil
}

func (f *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	session, ok := f.m.Sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (f *SessionStore) FindOpen(ctx context.Context, userID, dictionaryID uuid.UUID) (*domain.TrainingSession, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	for _, session := range f.m.Sessions {
		if session.UserID == userID && session.DictionaryID == dictionaryID && !session.Finished() {
			return cloneSession(session), nil
		}
	}
	return nil, store.ErrSessionNotFound
}

func (f *SessionStore) Update(ctx context.Context, session *domain.TrainingSession) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	if _, ok := f.m.Sessions[session.ID]; !ok {
		return store.ErrSessionNotFound
	}
	f.m.Sessions[session.ID] = cloneSession(session)
	return nil
}

func (f *SessionStore) NextLocalNumber(ctx context.Context, userID uuid.UUID) (int, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	max := 0
	for _, session := range f.m.Sessions {
		if session.UserID == userID && session.LocalNumber > max {
			max = session.LocalNumber
		}
	}
	if f.m.StaleSessionNumbers > 0 && max > 0 {
		f.m.StaleSessionNumbers--
		return max, nil
	}
	return max + 1, nil
}

func (f *SessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TrainingSession, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	var sessions []*domain.TrainingSession
	for _, session := range f.m.Sessions {
		if session.UserID == userID {
			sessions = append(sessions, cloneSession(session))
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].LocalNumber > sessions[j].LocalNumber })
	return sessions, nil
}

func (f *SessionStore) WithTx(tx *sql.Tx) store.SessionStore { return f }

// AnswerStore implements store.AnswerStore over a MemStore.
type AnswerStore struct{ m *MemStore }

var _ store.AnswerStore = (*AnswerStore)(nil)

// NewAnswerStore creates an AnswerStore bound to m.
func NewAnswerStore(m *MemStore) *AnswerStore { return &AnswerStore{m: m} }

func (f *AnswerStore) Create(ctx context.Context, event *domain.AnswerEvent) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	if f.m.FailAnswerCreate != nil {
		return f.m.FailAnswerCreate
	}
	f.m.Answers = append(f.m.Answers, cloneAnswer(event))
	return nil
}

func (f *AnswerStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.AnswerEvent, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	var events []*domain.AnswerEvent
	for _, event := range f.m.Answers {
		if event.SessionID == sessionID {
			events = append(events, cloneAnswer(event))
		}
	}
	return events, nil
}

func (f *AnswerStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AnswerEvent, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	var events []*domain.AnswerEvent
	for _, event := range f.m.Answers {
		session, ok := f.m.Sessions[event.SessionID]
		if ok && session.UserID == userID {
			events = append(events, cloneAnswer(event))
		}
	}
	return events, nil
}

func (f *AnswerStore) WithTx(tx *sql.Tx) store.AnswerStore { return f }

// DictionaryStore implements store.DictionaryStore over a MemStore.
type DictionaryStore struct{ m *MemStore }

var _ store.DictionaryStore = (*DictionaryStore)(nil)

// NewDictionaryStore creates a DictionaryStore bound to m.
func NewDictionaryStore(m *MemStore) *DictionaryStore { return &DictionaryStore{m: m} }

func (f *DictionaryStore) Create(ctx context.Context, dictionary *domain.Dictionary) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	for _, existing := range f.m.Dictionaries {
		if existing.UserID == dictionary.UserID && existing.LocalNumber == dictionary.LocalNumber {
			return store.ErrLocalNumberExists
		}
	}
	f.m.Dictionaries[dictionary.ID] = cloneDictionary(dictionary)
	return nil
}

func (f *DictionaryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dictionary, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	dictionary, ok := f.m.Dictionaries[id]
	if !ok {
		return nil, store.ErrDictionaryNotFound
	}
	return cloneDictionary(dictionary), nil
}

func (f *DictionaryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Dictionary, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	var dictionaries []*domain.Dictionary
	for _, dictionary := range f.m.Dictionaries {
		if dictionary.UserID == userID {
			dictionaries = append(dictionaries, cloneDictionary(dictionary))
		}
	}
	sort.Slice(dictionaries, func(i, j int) bool {
		return dictionaries[i].LocalNumber < dictionaries[j].LocalNumber
	})
	return dictionaries, nil
}

func (f *DictionaryStore) Update(ctx context.Context, dictionary *domain.Dictionary) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	if _, ok := f.m.Dictionaries[dictionary.ID]; !ok {
		return store.ErrDictionaryNotFound
	}
	f.m.Dictionaries[dictionary.ID] = cloneDictionary(dictionary)
	return nil
}

func (f *DictionaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	if _, ok := f.m.Dictionaries[id]; !ok {
		return store.ErrDictionaryNotFound
	}
	delete(f.m.Dictionaries, id)
	return nil
}

func (f *DictionaryStore) NextLocalNumber(ctx context.Context, userID uuid.UUID) (int, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	max := 0
	for _, dictionary := range f.m.Dictionaries {
		if dictionary.UserID == userID && dictionary.LocalNumber > max {
			max = dictionary.LocalNumber
		}
	}
	if f.m.StaleDictionaryNumbers > 0 && max > 0 {
		f.m.StaleDictionaryNumbers--
		return max, nil
	}
	return max + 1, nil
}

// UserStore implements store.UserStore over a MemStore.
type UserStore struct{ m *MemStore }

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore bound to m.
func NewUserStore(m *MemStore) *UserStore { return &UserStore{m: m} }

func (f *UserStore) Create(ctx context.Context, user *domain.User) error {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	for _, existing := range f.m.Users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	f.m.Users[user.ID] = cloneUser(user)
	return nil
}

func (f *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	user, ok := f.m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (f *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.m.Mu.Lock()
	defer f.m.Mu.Unlock()
	for _, user := range f.m.Users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, store.ErrUserNotFound
}
