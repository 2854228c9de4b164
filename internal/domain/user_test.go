package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("user@example.com", "learner", "long enough password")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "learner", user.Username)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		username string
		password string
		wantErr  error
	}{
		{"empty email", "", "learner", "long enough password", ErrEmptyEmail},
		{"malformed email", "not-an-email", "learner", "long enough password", ErrInvalidEmail},
		{"missing domain dot", "user@localhost", "learner", "long enough password", ErrInvalidEmail},
		{"empty username", "user@example.com", "", "long enough password", ErrEmptyUsername},
		{"short password", "user@example.com", "learner", "short", ErrPasswordTooShort},
		{"empty password", "user@example.com", "learner", "", ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.email, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidate_HashedOnly(t *testing.T) {
	t.Parallel()

	// Users loaded from the database carry only the hash.
	user := &User{
		ID:             uuid.New(),
		Email:          "user@example.com",
		Username:       "learner",
		HashedPassword: "$2a$10$hash",
	}
	assert.NoError(t, user.Validate())
}

func TestNewDictionary(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	dict, err := NewDictionary(userID, "Spanish basics", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, userID, dict.UserID)
	assert.Zero(t, dict.LocalNumber, "local number is assigned by the caller")

	_, err = NewDictionary(userID, "", "en", "es")
	assert.ErrorIs(t, err, ErrEmptyDictionaryTitle)

	_, err = NewDictionary(userID, "Spanish basics", "", "es")
	assert.ErrorIs(t, err, ErrEmptyLanguage)
}

func TestNewAnswerEvent(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	wordID := uuid.New()

	event, err := NewAnswerEvent(sessionID, wordID, true, "gato")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, sessionID, event.SessionID)
	assert.Equal(t, wordID, event.WordID)
	assert.True(t, event.Correct)
	assert.False(t, event.CreatedAt.IsZero())

	_, err = NewAnswerEvent(uuid.Nil, wordID, true, "")
	assert.Error(t, err)

	_, err = NewAnswerEvent(sessionID, uuid.Nil, true, "")
	assert.Error(t, err)
}
