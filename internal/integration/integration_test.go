package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"neuroscent-quiz/internal/app"
	"neuroscent-quiz/internal/domain"
	infraredis "neuroscent-quiz/internal/infra/redis"
	"neuroscent-quiz/internal/infra/scoring"

	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestQuestionnaireEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	var calculateCalls, fetchCalls int64
	scoringServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/test/calculate":
			atomic.AddInt64(&calculateCalls, 1)
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, `{"detail":"bad payload"}`, http.StatusBadRequest)
				return
			}
			if sid, _ := payload["session_id"].(string); !strings.HasPrefix(sid, "session_") {
				http.Error(w, `{"detail":"missing session id"}`, http.StatusUnprocessableEntity)
				return
			}
			writeEnvelope(w, sampleResult())
		case r.Method == http.MethodGet && r.URL.Path == "/test/test-e2e":
			atomic.AddInt64(&fetchCalls, 1)
			writeEnvelope(w, sampleResult())
		default:
			http.NotFound(w, r)
		}
	}))
	defer scoringServer.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	client := scoring.NewClient(scoringServer.URL, scoringServer.Client())
	flows := infraredis.NewFlowStore(redisClient, 5*time.Minute)
	cache := infraredis.NewResultCache(redisClient, client, 5*time.Minute)
	service := app.NewQuizService(flows, client, scoring.DefaultSessionIDFunc())

	if _, err := service.Start("flow-e2e"); err != nil {
		t.Fatalf("start: %v", err)
	}

	steps := []struct {
		questionID string
		values     []string
	}{
		{"q1_intensity", []string{"4"}},
		{"q2_preferred_families", []string{"woody", "spicy"}},
		{"q3_rejected_families", nil},
		{"q4_emotion", []string{"confidence"}},
		{"q5_time_of_day", []string{"evening", "night"}},
		{"q6_occasions", []string{"date", "party"}},
		{"q7_season", []string{"autumn"}},
		{"q8_longevity", []string{"5"}},
		{"q9_concentration", []string{"eau_de_parfum"}},
		{"q10_reference", nil},
	}

	var (
		status app.SubmissionStatus
		result *domain.Result
	)
	for _, step := range steps {
		for _, value := range step.values {
			if _, err := service.Answer("flow-e2e", step.questionID, value); err != nil {
				t.Fatalf("answer %s: %v", step.questionID, err)
			}
		}
		status, result, err = service.Next(ctx, "flow-e2e")
		if err != nil {
			t.Fatalf("next after %s: %v", step.questionID, err)
		}
	}

	if status.State != app.StateSucceeded || result == nil {
		t.Fatalf("expected submission to succeed, got status=%+v result=%v", status, result)
	}
	if result.TestID != "test-e2e" {
		t.Fatalf("unexpected test id %q", result.TestID)
	}
	if got := atomic.LoadInt64(&calculateCalls); got != 1 {
		t.Fatalf("expected one calculate call, got %d", got)
	}

	// Seed the shared-link cache and read it back twice: the second read
	// must come out of Redis without touching the scoring service.
	cache.Put(*result)
	for i := 0; i < 2; i++ {
		cached, err := cache.GetResult(ctx, "test-e2e")
		if err != nil {
			t.Fatalf("cached result: %v", err)
		}
		if cached.TestID != "test-e2e" {
			t.Fatalf("unexpected cached result %+v", cached)
		}
	}
	if got := atomic.LoadInt64(&fetchCalls); got != 0 {
		t.Fatalf("expected cache to absorb reads, scoring fetches=%d", got)
	}

	// A cold cache falls back to the scoring service exactly once.
	coldCache := infraredis.NewResultCache(redisClient, client, 5*time.Minute)
	if err := redisClient.Del(ctx, "quiz:result:test-e2e").Err(); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := coldCache.GetResult(ctx, "test-e2e"); err != nil {
		t.Fatalf("cold result: %v", err)
	}
	if got := atomic.LoadInt64(&fetchCalls); got != 1 {
		t.Fatalf("expected one scoring fetch on cold cache, got %d", got)
	}
}

func writeEnvelope(w http.ResponseWriter, result domain.Result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   result,
	})
}

func sampleResult() domain.Result {
	return domain.Result{
		TestID:  "test-e2e",
		Profile: &domain.OlfactoryProfile{Woody: 0.9, Spicy: 0.7, Citrus: 0.2},
		Matches: []domain.Match{
			{
				Perfume:  domain.Perfume{ID: "p1", Name: "Ember", Brand: "Acme"},
				Affinity: domain.Affinity{Score: 88, Level: "excellent"},
			},
			{
				Perfume:  domain.Perfume{ID: "p2", Name: "Grove", Brand: "Acme"},
				Affinity: domain.Affinity{Score: 64, Level: "good"},
			},
		},
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
