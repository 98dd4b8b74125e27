package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grindai/fitness-planner/internal/logger"
	"grindai/fitness-planner/internal/planner"
	"grindai/fitness-planner/internal/repository/memrepo"
	"grindai/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret"

const planJSON = `{"workoutPlan":[{"day":"Monday","exercises":["Squats"]},{"day":"Thursday","exercises":["Row"]}],` +
	`"dietPlan":[{"day":"Monday","meals":{"breakfast":["Oats"],"lunch":["Salad"],"eveningSnack":["Nuts"],"dinner":["Fish"]}}]}`

const profileJSON = `{"name":"Sam","age":30,"gender":"male","height":"180","weight":"80","healthCondition":"",` +
	`"fitnessGoal":"Weight Loss","daysPerWeek":3,"fitnessLevel":"Beginner","dietAllergies":""}`

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type testServer struct {
	router    *gin.Engine
	store     *memrepo.Store
	generator *mockGenerator
}

func newTestServer(t *testing.T, exposeCodes bool, limiter *RateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memrepo.New()
	generator := new(mockGenerator)
	log := logger.Nop()

	router := gin.New()
	SetupRoutes(router, RouterConfig{
		JWTSecret:        testSecret,
		AllowedOrigins:   []string{"*"},
		ExposeErrorCodes: exposeCodes,
		AuthService:      service.NewAuthService(store.Users(), testSecret, time.Hour),
		PlanService: service.NewPlanService(store.Workouts(), store.DietPlans(), store.Details(),
			generator, nil, planner.ScanStringAware, log),
		HistoryService: service.NewHistoryService(store.Workouts(), store.DietPlans(), store.Details()),
		RateLimiter:    limiter,
		Logger:         log,
	})
	return &testServer{router: router, store: store, generator: generator}
}

func tokenFor(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) writes() int {
	return s.store.Count(memrepo.WorkoutsCollection) +
		s.store.Count(memrepo.DietPlansCollection) +
		s.store.Count(memrepo.DetailsCollection)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGenerate_Unauthorized(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"garbage token":  "not-a-jwt",
		"expired token":  tokenFor(t, "u1", -time.Minute),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, false, nil)

			w := s.do(http.MethodPost, "/api/v1/plans/generate", token, profileJSON)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			assert.Equal(t, 0, s.writes())
			s.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}

	t.Run("token signed with another secret", func(t *testing.T) {
		s := newTestServer(t, false, nil)
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{
			UserID:           "u1",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}).SignedString([]byte("other"))
		require.NoError(t, err)

		w := s.do(http.MethodPost, "/api/v1/plans/generate", forged, profileJSON)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	})
}

func TestGenerate(t *testing.T) {
	t.Run("should return exactly the plan", func(t *testing.T) {
		s := newTestServer(t, false, nil)
		s.generator.On("Generate", mock.Anything, mock.Anything).Return(planJSON, nil).Once()

		w := s.do(http.MethodPost, "/api/v1/plans/generate", tokenFor(t, "u1", time.Hour), profileJSON)

		require.Equal(t, http.StatusOK, w.Code)
		want, err := planner.Recover(planJSON)
		require.NoError(t, err)
		wantJSON, err := json.Marshal(want)
		require.NoError(t, err)
		assert.JSONEq(t, string(wantJSON), w.Body.String())
		assert.NotEmpty(t, w.Header().Get(generationIDHeader))
		assert.Equal(t, 3, s.writes())
	})

	t.Run("should reject an invalid profile with 400", func(t *testing.T) {
		s := newTestServer(t, false, nil)

		w := s.do(http.MethodPost, "/api/v1/plans/generate", tokenFor(t, "u1", time.Hour), `{"name":"Sam","age":-4}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w)["error"], "Invalid profile: ")
		assert.Equal(t, 0, s.writes())
	})

	t.Run("should reject a non-object body with 400", func(t *testing.T) {
		s := newTestServer(t, false, nil)
		w := s.do(http.MethodPost, "/api/v1/plans/generate", tokenFor(t, "u1", time.Hour), `[1,2]`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should hide the failure kind by default", func(t *testing.T) {
		s := newTestServer(t, false, nil)
		s.generator.On("Generate", mock.Anything, mock.Anything).Return("no json here", nil)

		w := s.do(http.MethodPost, "/api/v1/plans/generate", tokenFor(t, "u1", time.Hour), profileJSON)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to generate and save plan"}`, w.Body.String())
		assert.Equal(t, 0, s.writes())
	})

	t.Run("should expose the failure kind when enabled", func(t *testing.T) {
		cases := map[string]struct {
			response string
			fail     string
			code     string
		}{
			"recovery":    {response: "no json here", code: "recovery_failed"},
			"validation":  {response: `{"workoutPlan":[{"day":"Moonday","exercises":[]}],"dietPlan":[]}`, code: "validation_failed"},
			"persistence": {response: planJSON, fail: memrepo.DietPlansCollection, code: "persistence_failed"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				s := newTestServer(t, true, nil)
				s.generator.On("Generate", mock.Anything, mock.Anything).Return(tc.response, nil)
				if tc.fail != "" {
					s.store.Fail(tc.fail, assert.AnError)
				}

				w := s.do(http.MethodPost, "/api/v1/plans/generate", tokenFor(t, "u1", time.Hour), profileJSON)

				assert.Equal(t, http.StatusInternalServerError, w.Code)
				body := decodeBody(t, w)
				assert.Equal(t, "Failed to generate and save plan", body["error"])
				assert.Equal(t, tc.code, body["code"])
			})
		}
	})
}

func TestHistoryRoutes(t *testing.T) {
	s := newTestServer(t, false, nil)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return(planJSON, nil)
	owner := tokenFor(t, "u1", time.Hour)
	stranger := tokenFor(t, "u2", time.Hour)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/plans/generate", owner, profileJSON).Code)

	w := s.do(http.MethodGet, "/api/v1/workouts", owner, "")
	require.Equal(t, http.StatusOK, w.Code)
	var workouts []struct {
		ID    string `json:"id"`
		Topic string `json:"topic"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &workouts))
	require.Len(t, workouts, 1)
	assert.Equal(t, "Weight Loss", workouts[0].Topic)
	path := "/api/v1/workouts/" + workouts[0].ID

	t.Run("other owners see nothing", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, stranger, "").Code)
		assert.JSONEq(t, `[]`, s.do(http.MethodGet, "/api/v1/diet-plans", stranger, "").Body.String())
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/workouts/xyz", owner, "").Code)
	})

	t.Run("update runs the day checks", func(t *testing.T) {
		bad := `{"topic":"Endurance","date":"2026-10-20","plan":[{"day":"Mon","exercises":[]}]}`
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, path, owner, bad).Code)

		good := `{"topic":"Endurance","date":"2026-10-20","plan":[{"day":"Sunday","exercises":["Hike"]}]}`
		w := s.do(http.MethodPut, path, owner, good)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Endurance", decodeBody(t, w)["topic"])
	})

	t.Run("latest detail snapshot", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/details/latest", owner, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Sam", decodeBody(t, w)["name"])
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/details/latest", stranger, "").Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, stranger, "").Code)
		assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, owner, "").Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, owner, "").Code)
	})

	t.Run("transcripts disabled without a bucket", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/generations/7d3c1f6e-2b1a-4c55-9a40-0f1e2d3c4b5a/transcript", owner, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = s.do(http.MethodGet, "/api/v1/generations/nope/transcript", owner, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t, false, nil)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", `{"name":"Sam","email":"sam@example.com","password":"longenough"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = s.do(http.MethodPost, "/api/v1/auth/register", "", `{"name":"Sam","email":"sam@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"sam@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"sam@example.com","password":"longenough"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// the issued token opens the protected routes
	w = s.do(http.MethodGet, "/api/v1/workouts", login.Token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	limiter, err := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 1}, logger.Nop())
	require.NoError(t, err)
	s := newTestServer(t, false, limiter)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return(planJSON, nil)

	w := s.do(http.MethodPost, "/api/v1/plans/generate", tokenFor(t, "u1", time.Hour), profileJSON)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}
