package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassifier(t *testing.T) {
	c := NewErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"nil error", nil, ""},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "deposits_pkey"`), DuplicateKeyError},
		{"deadlock", errors.New("deadlock detected"), LockError},
		{"serialization failure", errors.New("could not serialize access due to concurrent update"), LockError},
		{"connection reset", errors.New("read tcp: connection reset by peer"), TransientError},
		{"timeout", errors.New("dial tcp: i/o timeout"), TransientError},
		{"network trouble", errors.New("dial tcp: no route to host"), ConnectionError},
		{"not null violation", errors.New(`null value in column "user_id" violates not-null constraint`), ConstraintError},
		{"unclassified", errors.New("something else entirely"), ErrorType("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.err))
		})
	}
}

func TestErrorClassifierPredicates(t *testing.T) {
	c := NewErrorClassifier()

	assert.True(t, c.IsTransientError(errors.New("unexpected EOF")))
	assert.False(t, c.IsTransientError(nil))

	assert.True(t, c.IsConnectionError(errors.New("connection refused")))
	assert.True(t, c.IsConstraintError(errors.New("Duplicate entry '42' for key")))
	assert.False(t, c.IsLockError(errors.New("syntax error")))
}
