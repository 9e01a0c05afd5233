package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

var (
	ErrPermissionDenied = errors.New("record store: permission denied")
	ErrUnavailable      = errors.New("record store: unavailable")
)

// Server error codes that mean the caller is not allowed to touch the data.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeAtlasError           = 8000
)

// Classify maps driver errors onto the record store taxonomy. Errors that are
// neither a permission problem nor an availability problem are returned as-is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	if isPermissionError(err) {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if isAvailabilityError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func isPermissionError(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		if se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed) {
			return true
		}
		if se.HasErrorCode(codeAtlasError) && mentionsAuthorization(se.Error()) {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "authentication failed") || mentionsAuthorization(msg)
}

func mentionsAuthorization(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not authorized") || strings.Contains(msg, "user is not allowed")
}

func isAvailabilityError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var sse topology.ServerSelectionError
	return errors.As(err, &sse)
}
