package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

// fastTasks gives every task a 50ms attempt deadline.
func fastTasks() map[TaskType]TaskConfig {
	tasks := map[TaskType]TaskConfig{}
	for _, task := range []TaskType{TaskSuggest, TaskTranslate, TaskSummarize} {
		tasks[task] = TaskConfig{Temperature: 0.1, MaxTokens: 256, TimeoutMs: 50}
	}
	return tasks
}

// stubOllama serves /api/generate with handle. The returned counter holds
// the number of generate calls seen.
func stubOllama(t *testing.T, handle func(n int32, req ollamaRequest, w http.ResponseWriter)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		if r.URL.Path == "/api/generate" {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		}
		handle(calls.Add(1), req, w)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func reply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: text})
}

func TestOllamaClient_Generate(t *testing.T) {
	srv, calls := stubOllama(t, func(_ int32, req ollamaRequest, w http.ResponseWriter) {
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Empty(t, req.Format)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		reply(w, "Assign a ward champion")
	})

	resp, err := NewOllamaClient(testConfig(srv.URL)).Generate(context.Background(), GenerateRequest{
		Task:         TaskSuggest,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, "Assign a ward champion", resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.Equal(t, 1, resp.Attempts)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOllamaClient_BuildRequest(t *testing.T) {
	c := NewOllamaClient(testConfig("http://unused")).(*ollamaClient)
	defaults := c.cfg.Tasks[TaskSummarize]

	body := c.buildRequest(GenerateRequest{Task: TaskSummarize, UserPrompt: "x", JSON: true})
	assert.Equal(t, "json", body.Format)
	assert.Equal(t, defaults.Temperature, body.Options.Temperature)
	assert.Equal(t, defaults.MaxTokens, body.Options.NumPredict)

	temp, tokens := 0.9, 64
	body = c.buildRequest(GenerateRequest{Task: TaskSummarize, Temperature: &temp, MaxTokens: &tokens})
	assert.Empty(t, body.Format)
	assert.Equal(t, 0.9, body.Options.Temperature)
	assert.Equal(t, 64, body.Options.NumPredict)
}

func TestOllamaClient_Failures(t *testing.T) {
	tests := []struct {
		name      string
		retries   int
		handle    func(n int32, w http.ResponseWriter)
		wantErr   error
		wantCalls int32
		wantText  string
	}{
		{
			name: "server error without retries",
			handle: func(_ int32, w http.ResponseWriter) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr:   ErrRetryExhausted,
			wantCalls: 1,
		},
		{
			name:    "client error is final",
			retries: 3,
			handle: func(_ int32, w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("model not found\n"))
			},
			wantErr:   ErrRejected,
			wantCalls: 1,
			wantText:  "model not found",
		},
		{
			name: "attempt deadline",
			handle: func(_ int32, w http.ResponseWriter) {
				time.Sleep(200 * time.Millisecond)
			},
			wantErr:   ErrTimeout,
			wantCalls: 1,
		},
		{
			name: "body is not JSON",
			handle: func(_ int32, w http.ResponseWriter) {
				_, _ = w.Write([]byte("<html>"))
			},
			wantErr:   ErrInvalidOutput,
			wantCalls: 1,
		},
		{
			name:    "retries run out",
			retries: 2,
			handle: func(_ int32, w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr:   ErrRetryExhausted,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := stubOllama(t, func(n int32, _ ollamaRequest, w http.ResponseWriter) { tt.handle(n, w) })
			cfg := testConfig(srv.URL)
			cfg.MaxRetries = tt.retries
			cfg.Tasks = fastTasks()

			_, err := NewOllamaClient(cfg).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "x"})

			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestOllamaClient_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrOllamaUnavailable)
}

func TestOllamaClient_Retries(t *testing.T) {
	tests := []struct {
		name  string
		first func(w http.ResponseWriter)
	}{
		{"after 5xx", func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) }},
		{"after timeout", func(w http.ResponseWriter) { time.Sleep(120 * time.Millisecond) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := stubOllama(t, func(n int32, _ ollamaRequest, w http.ResponseWriter) {
				if n == 1 {
					tt.first(w)
					return
				}
				reply(w, "ok")
			})
			cfg := testConfig(srv.URL)
			cfg.MaxRetries = 1
			cfg.Tasks = fastTasks()

			resp, err := NewOllamaClient(cfg).Generate(context.Background(), GenerateRequest{Task: TaskSuggest, UserPrompt: "x"})

			require.NoError(t, err)
			assert.Equal(t, "ok", resp.Text)
			assert.Equal(t, 2, resp.Attempts)
			assert.Equal(t, int32(2), calls.Load())
		})
	}
}

func TestOllamaClient_ObserverSeesEveryCall(t *testing.T) {
	srv, _ := stubOllama(t, func(n int32, _ ollamaRequest, w http.ResponseWriter) {
		if n == 1 {
			reply(w, "ok")
			return
		}
		time.Sleep(200 * time.Millisecond)
	})
	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.Tasks = fastTasks()

	var events []CallEvent
	client := NewOllamaClient(cfg, WithObserver(ObserverFunc(func(_ context.Context, e CallEvent) {
		events = append(events, e)
	})))
	ctx := context.Background()
	_, err := client.Generate(ctx, GenerateRequest{Task: TaskSuggest, UserPrompt: "x"})
	require.NoError(t, err)
	_, err = client.Generate(ctx, GenerateRequest{Task: TaskSummarize, UserPrompt: "x"})
	require.ErrorIs(t, err, ErrTimeout)

	require.Len(t, events, 2)
	assert.True(t, events[0].Success())
	assert.Equal(t, TaskSuggest, events[0].Task)
	assert.Equal(t, "llama3.2", events[0].Model)
	assert.False(t, events[1].Success())
	assert.Equal(t, CodeTimeout, Code(events[1].Err))
}

func TestOllamaClient_Available(t *testing.T) {
	srv, _ := stubOllama(t, func(_ int32, _ ollamaRequest, w http.ResponseWriter) {})

	assert.True(t, NewOllamaClient(testConfig(srv.URL)).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1")).Available(context.Background()))
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c := NewOllamaClient(testConfig("http://unused"), WithHTTPClient(hc), WithObserver(nil)).(*ollamaClient)
	assert.Same(t, hc, c.http)
	assert.IsType(t, NoopObserver{}, c.observer)
}
