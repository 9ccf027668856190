package judge_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codearena/judge-api/internal/judge"
	"github.com/codearena/judge-api/internal/types"
)

func TestSubmitConvertsMemoryLimitToBytes(t *testing.T) {
	ctx := context.Background()

	var captured types.ExecutionRequest
	var capturedAuth string
	var capturedQuery string

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/submissions", r.URL.Path)
			capturedQuery = r.URL.RawQuery
			capturedAuth = r.Header.Get("X-Auth-Token")

			err := json.NewDecoder(r.Body).Decode(&captured)
			assert.NoError(t, err, "failed to decode request body")

			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"token": "run-token"}`)
		}),
	)
	defer server.Close()

	client := judge.NewClient(server.Client(), server.URL, "secret")

	memoryMB := int64(256)
	stdin := "1 2"
	expected := "3"
	token, err := client.Submit(ctx, types.ExecutionRequest{
		SourceCode:     "print(sum(map(int, input().split())))",
		LanguageID:     71,
		Stdin:          &stdin,
		ExpectedOutput: &expected,
		MemoryLimit:    &memoryMB,
	})
	require.NoError(t, err, "failed to submit run")

	assert.Equal(t, "run-token", token)
	assert.Equal(t, "base64_encoded=false&wait=false", capturedQuery)
	assert.Equal(t, "secret", capturedAuth)

	require.NotNil(t, captured.MemoryLimit)
	assert.Equal(t, int64(256*1024*1024), *captured.MemoryLimit)
	assert.Equal(t, 71, captured.LanguageID)
	require.NotNil(t, captured.Stdin)
	assert.Equal(t, "1 2", *captured.Stdin)
}

func TestSubmitRejectedStatus(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
	)
	defer server.Close()

	client := judge.NewClient(server.Client(), server.URL, "")

	_, err := client.Submit(ctx, types.ExecutionRequest{
		SourceCode: "x",
		LanguageID: 71,
	})
	require.Error(t, err)

	var submitErr *judge.SubmitError
	assert.ErrorAs(t, err, &submitErr)
}

func TestAwaitCompletionFinishesAfterQueuedPolls(t *testing.T) {
	ctx := context.Background()

	var polls atomic.Int64
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/submissions/run-token", r.URL.Path)
			assert.Equal(t, "base64_encoded=false", r.URL.RawQuery)

			statusID := types.ExecutionStatusInQueue
			switch polls.Add(1) {
			case 1:
			case 2:
				statusID = types.ExecutionStatusProcessing
			default:
				statusID = 3
			}

			result := types.ExecutionResult{
				Token:  "run-token",
				Status: types.ExecutionStatus{ID: statusID},
			}
			err := json.NewEncoder(w).Encode(result)
			assert.NoError(t, err, "failed to encode result")
		}),
	)
	defer server.Close()

	client := judge.NewClient(server.Client(), server.URL, "")

	result, err := client.AwaitCompletion(ctx, "run-token", 5, time.Millisecond)
	require.NoError(t, err, "failed to await completion")

	assert.Equal(t, 3, result.Status.ID)
	assert.Equal(t, int64(3), polls.Load())
}

func TestAwaitCompletionExhaustsBudget(t *testing.T) {
	ctx := context.Background()

	var polls atomic.Int64
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			polls.Add(1)
			result := types.ExecutionResult{
				Token:  "run-token",
				Status: types.ExecutionStatus{ID: types.ExecutionStatusInQueue},
			}
			err := json.NewEncoder(w).Encode(result)
			assert.NoError(t, err, "failed to encode result")
		}),
	)
	defer server.Close()

	client := judge.NewClient(server.Client(), server.URL, "")

	_, err := client.AwaitCompletion(ctx, "run-token", 2, time.Millisecond)
	require.Error(t, err)

	assert.ErrorIs(t, err, judge.ErrAwaitTimeout)
	assert.Equal(t, int64(2), polls.Load())
}

func TestAwaitCompletionZeroBudget(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(
		http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("polled the judge with a zero attempt budget")
		}),
	)
	defer server.Close()

	client := judge.NewClient(server.Client(), server.URL, "")

	_, err := client.AwaitCompletion(ctx, "run-token", 0, time.Millisecond)
	assert.ErrorIs(t, err, judge.ErrAwaitTimeout)
}

func TestAwaitCompletionRetriesTransportErrors(t *testing.T) {
	ctx := context.Background()

	var polls atomic.Int64
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if polls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}

			result := types.ExecutionResult{
				Token:  "run-token",
				Status: types.ExecutionStatus{ID: 4},
			}
			err := json.NewEncoder(w).Encode(result)
			assert.NoError(t, err, "failed to encode result")
		}),
	)
	defer server.Close()

	client := judge.NewClient(server.Client(), server.URL, "")

	result, err := client.AwaitCompletion(ctx, "run-token", 3, time.Millisecond)
	require.NoError(t, err, "failed to await completion")

	assert.Equal(t, 4, result.Status.ID)
	assert.Equal(t, int64(2), polls.Load())
}
