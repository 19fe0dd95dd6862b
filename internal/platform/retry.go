package platform

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	retryInitialInterval = 200 * time.Millisecond
	retryMaxElapsed      = 15 * time.Second
)

// RetryClient decorates a Client with exponential backoff around every call.
// Client errors other than 429 are treated as permanent and returned
// immediately; everything else is retried until the elapsed budget runs out
// or the context is cancelled.
type RetryClient struct {
	inner      Client
	maxElapsed time.Duration
}

func NewRetryClient(inner Client) *RetryClient {
	return &RetryClient{inner: inner, maxElapsed: retryMaxElapsed}
}

func (client *RetryClient) MergeProfile(ctx context.Context, recipientID string, attributes map[string]any) error {
	return client.retry(ctx, func() error {
		return client.inner.MergeProfile(ctx, recipientID, attributes)
	})
}

func (client *RetryClient) GetProfile(ctx context.Context, recipientID string) (Profile, error) {
	var profile Profile
	err := client.retry(ctx, func() error {
		var callErr error
		profile, callErr = client.inner.GetProfile(ctx, recipientID)
		return callErr
	})
	return profile, err
}

func (client *RetryClient) Send(ctx context.Context, request SendRequest) (SendResponse, error) {
	var response SendResponse
	err := client.retry(ctx, func() error {
		var callErr error
		response, callErr = client.inner.Send(ctx, request)
		return callErr
	})
	return response, err
}

func (client *RetryClient) InvokeAutomation(ctx context.Context, automationID string, recipientID string, data map[string]any) (InvokeResponse, error) {
	var response InvokeResponse
	err := client.retry(ctx, func() error {
		var callErr error
		response, callErr = client.inner.InvokeAutomation(ctx, automationID, recipientID, data)
		return callErr
	})
	return response, err
}

func (client *RetryClient) ListLogs(ctx context.Context, recipientID string, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	err := client.retry(ctx, func() error {
		var callErr error
		entries, callErr = client.inner.ListLogs(ctx, recipientID, limit)
		return callErr
	})
	return entries, err
}

func (client *RetryClient) retry(ctx context.Context, operation func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxElapsedTime = client.maxElapsed

	wrapped := func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped, backoff.WithContext(policy, ctx))
}

func isPermanent(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	if statusErr.Code == http.StatusTooManyRequests {
		return false
	}
	return statusErr.Code >= http.StatusBadRequest && statusErr.Code < http.StatusInternalServerError
}
