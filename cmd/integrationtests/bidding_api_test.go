package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	model "bid-lifecycle/internal/models"
	"bid-lifecycle/services/bidding/helpers"
)

func placeBid(t *testing.T, env *testEnv, contractorID string, amount float64) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids", helpers.CreateBidRequest{
		ServiceRequestID: "R1",
		ContractorID:     contractorID,
		Amount:           amount,
		Description:      "Replace the section under the sink",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp)
	return resp["data"].(map[string]any)["bid_id"].(string)
}

func decide(t *testing.T, env *testEnv, bidID, decision, party string) (map[string]any, int) {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids/"+bidID+"/decision", helpers.DecisionRequest{
		Decision:        decision,
		DecidingPartyID: party,
	})
	return resp, w.Code
}

func bidStatus(t *testing.T, env *testEnv, bidID string) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodGet, "/bids/"+bidID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return resp["data"].(map[string]any)["status"].(string)
}

// CreateBidHandler Tests
func TestCreateBid(t *testing.T) {
	tests := []struct {
		name       string
		request    any
		wantStatus int
		wantKind   string
	}{
		{
			name: "Valid_Bid",
			request: helpers.CreateBidRequest{
				ServiceRequestID: "R1", ContractorID: "C1", Amount: 150, Description: "Replace pipe",
				Materials: []string{"pipe", "sealant"},
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Invalid_JSON",
			request:    []byte("{service_request_id: 'missing quotes', amount: 100}"),
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation",
		},
		{
			name: "Unknown_Request",
			request: helpers.CreateBidRequest{
				ServiceRequestID: "R404", ContractorID: "C1", Amount: 150, Description: "Replace pipe",
			},
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name: "Unknown_Contractor",
			request: helpers.CreateBidRequest{
				ServiceRequestID: "R1", ContractorID: "C404", Amount: 150, Description: "Replace pipe",
			},
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := SetupTestEnv(t)
			resp, w := ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids", tt.request)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantKind != "" {
				require.Equal(t, tt.wantKind, resp["kind"])
			}

			if tt.wantStatus == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.NotEmpty(t, data["bid_id"])
				require.Equal(t, "pending", data["status"])
				require.Equal(t, "150.00", data["amount"])
				require.Equal(t, "Business C1 - Fix leaking pipe", data["title"])

				_, err := time.Parse(time.RFC3339, data["submitted_at"].(string))
				require.NoError(t, err)

				require.Eventually(t, func() bool {
					return len(env.repo.Notifications("cust1")) == 1
				}, time.Second, 5*time.Millisecond)
			}
		})
	}
}

// Accepting one bid assigns the request and auto-rejects the rest
func TestAcceptFlow(t *testing.T) {
	env := SetupTestEnv(t)

	b1 := placeBid(t, env, "C1", 100)
	b2 := placeBid(t, env, "C2", 120)
	b3 := placeBid(t, env, "C3", 90)

	resp, code := decide(t, env, b2, "accept", "cust1")
	require.Equal(t, http.StatusOK, code, resp)
	data := resp["data"].(map[string]any)
	require.Equal(t, "accepted", data["bid"].(map[string]any)["status"])
	require.ElementsMatch(t, []any{b1, b3}, data["auto_rejected_bid_ids"])
	sr := data["assigned_service_request"].(map[string]any)
	require.Equal(t, "assigned", sr["status"])
	require.Equal(t, "C2", sr["assigned_contractor_id"])

	require.Equal(t, "rejected", bidStatus(t, env, b1))
	require.Equal(t, "rejected", bidStatus(t, env, b3))

	// repeating the decision changes nothing
	resp, code = decide(t, env, b2, "accept", "cust1")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "decision already applied", resp["message"])
	require.Equal(t, true, resp["data"].(map[string]any)["noop"])

	// the request is taken
	resp, code = decide(t, env, b1, "accept", "cust1")
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "conflict", resp["kind"])

	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodGet, "/service-requests/R1/bids?status=rejected", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 2)

	require.Eventually(t, func() bool {
		return len(env.repo.Notifications("user-C2")) == 1 &&
			len(env.repo.Notifications("user-C1")) == 1 &&
			len(env.repo.Notifications("user-C3")) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, model.NotificationQuoteAccepted, env.repo.Notifications("user-C2")[0].Type)
	require.Equal(t, model.NotificationQuoteRejected, env.repo.Notifications("user-C1")[0].Type)
}

func TestDecisionGuards(t *testing.T) {
	env := SetupTestEnv(t)
	b1 := placeBid(t, env, "C1", 100)

	tests := []struct {
		name       string
		bidID      string
		decision   string
		party      string
		wantStatus int
		wantKind   string
	}{
		{"Not_The_Customer", b1, "accept", "cust2", http.StatusForbidden, "authorization"},
		{"Unknown_Bid", "missing", "accept", "cust1", http.StatusNotFound, "not_found"},
		{"Unknown_Decision", b1, "maybe", "cust1", http.StatusBadRequest, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, code := decide(t, env, tt.bidID, tt.decision, tt.party)
			require.Equal(t, tt.wantStatus, code)
			require.Equal(t, tt.wantKind, resp["kind"])
		})
	}

	require.Equal(t, "pending", bidStatus(t, env, b1))
}

func TestRejectThenWithdraw(t *testing.T) {
	env := SetupTestEnv(t)
	b1 := placeBid(t, env, "C1", 100)
	b2 := placeBid(t, env, "C2", 100)

	resp, code := decide(t, env, b1, "reject", "cust1")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "bid rejected", resp["message"])

	// the request stays open for other bids
	_, code = decide(t, env, b2, "accept", "cust1")
	require.Equal(t, http.StatusOK, code)

	// a decided bid can no longer be withdrawn
	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids/"+b1+"/withdraw", helpers.WithdrawBidRequest{ContractorID: "C1"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "invalid_state", resp["kind"])
}

func TestWithdrawBid(t *testing.T) {
	env := SetupTestEnv(t)
	b1 := placeBid(t, env, "C1", 100)

	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids/"+b1+"/withdraw", helpers.WithdrawBidRequest{ContractorID: "C2"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "authorization", resp["kind"])

	resp, w = ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids/"+b1+"/withdraw", helpers.WithdrawBidRequest{ContractorID: "C1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "withdrawn", resp["data"].(map[string]any)["status"])

	_, code := decide(t, env, b1, "accept", "cust1")
	require.Equal(t, http.StatusConflict, code)
}

func TestExpireStale(t *testing.T) {
	env := SetupTestEnv(t)

	until := env.clock.Now().Add(time.Hour)
	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids", helpers.CreateBidRequest{
		ServiceRequestID: "R1", ContractorID: "C1", Amount: 80, Description: "Quick fix", ValidUntil: &until,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	shortLived := resp["data"].(map[string]any)["bid_id"].(string)
	openEnded := placeBid(t, env, "C2", 95)

	// not lapsed yet
	resp, w = ExecuteRequestAndParse(t, env.router, http.MethodPost, "/bids/"+shortLived+"/expire", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "invalid_state", resp["kind"])

	env.clock.Advance(2 * time.Hour)

	resp, w = ExecuteRequestAndParse(t, env.router, http.MethodPost, "/admin/expire-stale", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []any{shortLived}, resp["data"].(map[string]any)["expired_bid_ids"])

	require.Equal(t, "expired", bidStatus(t, env, shortLived))
	require.Equal(t, "pending", bidStatus(t, env, openEnded))

	_, code := decide(t, env, shortLived, "accept", "cust1")
	require.Equal(t, http.StatusConflict, code)
}

// Two customers' clicks racing on different bids: exactly one wins
func TestConcurrentAccept(t *testing.T) {
	for round := 0; round < 10; round++ {
		t.Run(fmt.Sprintf("round_%d", round), func(t *testing.T) {
			env := SetupTestEnv(t)
			bids := []string{placeBid(t, env, "C1", 100), placeBid(t, env, "C2", 110)}

			codes := make([]int, len(bids))
			var wg sync.WaitGroup
			for i, id := range bids {
				wg.Add(1)
				go func(i int, id string) {
					defer wg.Done()
					_, codes[i] = decide(t, env, id, "accept", "cust1")
				}(i, id)
			}
			wg.Wait()

			require.ElementsMatch(t, []int{http.StatusOK, http.StatusConflict}, codes)

			winner, loser := bids[0], bids[1]
			if codes[1] == http.StatusOK {
				winner, loser = loser, winner
			}
			require.Equal(t, "accepted", bidStatus(t, env, winner))
			require.Equal(t, "rejected", bidStatus(t, env, loser))

			resp, w := ExecuteRequestAndParse(t, env.router, http.MethodPost, "/admin/reconcile", nil)
			require.Equal(t, http.StatusOK, w.Code)
			results := resp["data"].([]any)
			require.Len(t, results, 1)
			require.Equal(t, "verified", results[0].(map[string]any)["action"])
		})
	}
}

func TestListBidsByContractor(t *testing.T) {
	env := SetupTestEnv(t)
	placeBid(t, env, "C1", 100)
	placeBid(t, env, "C1", 105)
	placeBid(t, env, "C2", 90)

	resp, w := ExecuteRequestAndParse(t, env.router, http.MethodGet, "/contractors/C1/bids", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 2)

	resp, w = ExecuteRequestAndParse(t, env.router, http.MethodGet, "/contractors/C404/bids", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "not_found", resp["kind"])

	resp, w = ExecuteRequestAndParse(t, env.router, http.MethodGet, "/service-requests/R1/bids?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "validation", resp["kind"])
}
