package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	other := errors.New("duplicate something")

	tests := []struct {
		name        string
		err         error
		permission  bool
		unavailable bool
	}{
		{name: "nil", err: nil},
		{name: "unauthorized command", err: mongo.CommandError{Code: 13, Message: "not authorized on leadboard to execute command"}, permission: true},
		{name: "auth failed", err: mongo.CommandError{Code: 18, Message: "Authentication failed."}, permission: true},
		{name: "atlas not allowed", err: mongo.CommandError{Code: 8000, Message: "user is not allowed to do action [find]"}, permission: true},
		{name: "atlas other", err: mongo.CommandError{Code: 8000, Message: "quota exceeded"}},
		{name: "deadline", err: fmt.Errorf("find: %w", context.DeadlineExceeded), unavailable: true},
		{name: "disconnected", err: mongo.ErrClientDisconnected, unavailable: true},
		{name: "no documents", err: mongo.ErrNoDocuments},
		{name: "other", err: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.permission, IsPermissionDenied(got))
			assert.Equal(t, tt.unavailable, IsUnavailable(got))
			if !tt.permission && !tt.unavailable {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	first := Classify(mongo.CommandError{Code: 13, Message: "not authorized"})
	assert.Equal(t, first, Classify(first))
}
