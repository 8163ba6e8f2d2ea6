package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	bidding "bid-lifecycle/internal/biddingService"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/notification"
	"bid-lifecycle/internal/repository"
	"bid-lifecycle/internal/server"
	"bid-lifecycle/utils"
)

// testClock is a settable clock shared by the service under test
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv bundles the router with the store and clock behind it
type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
	clock  *testClock
}

// SetupTestEnv initializes the router with an in-memory repository, a live
// notification queue and one open service request R1 owned by cust1.
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	repo.AddServiceRequest(model.ServiceRequest{RequestID: "R1", CustomerID: "cust1", Title: "Fix leaking pipe"})
	for _, id := range []string{"C1", "C2", "C3"} {
		repo.AddContractor(model.Contractor{ContractorID: id, UserID: "user-" + id, BusinessName: "Business " + id})
	}

	dispatcher := notification.NewQueueDispatcher(repo,
		notification.WithWorkers(2),
		notification.WithRetryPolicy(utils.RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	)
	dispatcher.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = dispatcher.Close(ctx)
	})

	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	service := bidding.NewBiddingService(repo, dispatcher,
		bidding.WithClock(clock.Now),
		bidding.WithRetryPolicy(utils.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	)
	return &testEnv{
		router: server.SetupRouter(service, 5*time.Second),
		repo:   repo,
		clock:  clock,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}
