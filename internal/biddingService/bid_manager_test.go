package bidding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bid-lifecycle/internal/biddingerrors"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/notification"
	"bid-lifecycle/internal/repository"
)

// Tests CreateBid
func TestBidManager_CreateBid(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := repository.NewMockMarketplaceDB(ctrl)
	mockDispatcher := notification.NewMockDispatcher(ctrl)
	manager := NewBidManager(mockRepo, NewNotifier(mockRepo, mockDispatcher), func() time.Time { return fixedNow })

	open := model.ServiceRequest{RequestID: "R1", CustomerID: "cust1", Title: "Fix leaking pipe", Status: model.RequestPending}
	contractor := model.Contractor{ContractorID: "C1", UserID: "user-C1", BusinessName: "Pipes Inc"}
	past := fixedNow.Add(-time.Minute)
	future := fixedNow.Add(24 * time.Hour)

	valid := func() model.CreateBidInput {
		return model.CreateBidInput{
			ServiceRequestID: "R1",
			ContractorID:     "C1",
			Amount:           decimal.RequireFromString("500.00"),
			Description:      "Fix leaking pipe",
		}
	}
	with := func(mutate func(*model.CreateBidInput)) model.CreateBidInput {
		in := valid()
		mutate(&in)
		return in
	}

	// Table-driven test cases
	tests := []struct {
		name          string
		input         model.CreateBidInput
		mockSetup     func(ctx context.Context)
		expectError   bool
		expectedError error
		expectedTitle string
	}{
		{
			name:  "valid_bid",
			input: with(func(in *model.CreateBidInput) { in.ValidUntil = &future; in.Materials = []string{"pvc pipe"} }),
			mockSetup: func(ctx context.Context) {
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(open, nil)
				mockRepo.EXPECT().GetContractor(ctx, "C1").Return(contractor, nil)
				mockRepo.EXPECT().CreateBid(ctx, gomock.Any()).Return(nil)
				mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedTitle: "Pipes Inc - Fix leaking pipe",
		},
		{
			name:  "unnamed_contractor_gets_generic_title",
			input: valid(),
			mockSetup: func(ctx context.Context) {
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(open, nil)
				mockRepo.EXPECT().GetContractor(ctx, "C1").Return(model.Contractor{ContractorID: "C1"}, nil)
				mockRepo.EXPECT().CreateBid(ctx, gomock.Any()).Return(nil)
				mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("queue full"))
			},
			expectedTitle: genericBidTitle,
		},
		{
			name:          "empty_request_id",
			input:         with(func(in *model.CreateBidInput) { in.ServiceRequestID = "" }),
			mockSetup:     func(context.Context) {},
			expectError:   true,
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "blank_description",
			input:         with(func(in *model.CreateBidInput) { in.Description = "   " }),
			mockSetup:     func(context.Context) {},
			expectError:   true,
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "zero_amount",
			input:         with(func(in *model.CreateBidInput) { in.Amount = decimal.Zero }),
			mockSetup:     func(context.Context) {},
			expectError:   true,
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "negative_amount",
			input:         with(func(in *model.CreateBidInput) { in.Amount = decimal.NewFromInt(-50) }),
			mockSetup:     func(context.Context) {},
			expectError:   true,
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "expiry_in_the_past",
			input:         with(func(in *model.CreateBidInput) { in.ValidUntil = &past }),
			mockSetup:     func(context.Context) {},
			expectError:   true,
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "empty_material",
			input:         with(func(in *model.CreateBidInput) { in.Materials = []string{"copper", ""} }),
			mockSetup:     func(context.Context) {},
			expectError:   true,
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:  "unknown_request",
			input: valid(),
			mockSetup: func(ctx context.Context) {
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(model.ServiceRequest{}, biddingerrors.ErrServiceRequestNotFound)
			},
			expectError:   true,
			expectedError: biddingerrors.ErrNotFound,
		},
		{
			name:  "unknown_contractor",
			input: valid(),
			mockSetup: func(ctx context.Context) {
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(open, nil)
				mockRepo.EXPECT().GetContractor(ctx, "C1").Return(model.Contractor{}, biddingerrors.ErrContractorNotFound)
			},
			expectError:   true,
			expectedError: biddingerrors.ErrNotFound,
		},
		{
			name:  "request_already_assigned",
			input: valid(),
			mockSetup: func(ctx context.Context) {
				assigned := open
				assigned.Status = model.RequestAssigned
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(assigned, nil)
			},
			expectError:   true,
			expectedError: biddingerrors.ErrInvalidState,
		},
		{
			name:  "request_claimed_by_a_bid",
			input: valid(),
			mockSetup: func(ctx context.Context) {
				claimed := open
				claimed.AcceptedBidID = "b9"
				claimed.AssignedContractorID = "C9"
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(claimed, nil)
			},
			expectError:   true,
			expectedError: biddingerrors.ErrInvalidState,
		},
		{
			name:  "request_claimed_before_insert",
			input: valid(),
			mockSetup: func(ctx context.Context) {
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(open, nil)
				mockRepo.EXPECT().GetContractor(ctx, "C1").Return(contractor, nil)
				mockRepo.EXPECT().CreateBid(ctx, gomock.Any()).Return(biddingerrors.ErrRequestClosed)
			},
			expectError:   true,
			expectedError: biddingerrors.ErrInvalidState,
		},
		{
			name:  "repo_fails",
			input: valid(),
			mockSetup: func(ctx context.Context) {
				mockRepo.EXPECT().GetServiceRequest(ctx, "R1").Return(open, nil)
				mockRepo.EXPECT().GetContractor(ctx, "C1").Return(contractor, nil)
				mockRepo.EXPECT().CreateBid(ctx, gomock.Any()).Return(errors.New("repo write failed"))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrPersistence,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel() // Run tests concurrently

			// a distinct context per case keeps the expectations apart
			ctx := context.WithValue(context.Background(), struct{ name string }{"case"}, tc.name)
			tc.mockSetup(ctx)

			bid, err := manager.CreateBid(ctx, tc.input)

			if tc.expectError {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}
			require.NoError(t, err)

			// Validate generated BidID
			_, parseErr := uuid.Parse(bid.BidID)
			require.NoError(t, parseErr, "BidID should be a valid UUID")
			require.Equal(t, model.BidPending, bid.Status)
			require.Equal(t, fixedNow, bid.SubmittedAt)
			require.Equal(t, tc.expectedTitle, bid.Title)
			require.True(t, tc.input.Amount.Equal(bid.Amount))
		})
	}
}

// Tests WithdrawBid against store failures
func TestBidManager_WithdrawBid(t *testing.T) {
	t.Parallel()

	bid := pendingBid("b1", "C1")

	t.Run("lost_race_to_acceptance", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockRepo := repository.NewMockMarketplaceDB(ctrl)
		manager := NewBidManager(mockRepo, NewNotifier(mockRepo, nil), func() time.Time { return fixedNow })

		mockRepo.EXPECT().GetBid(gomock.Any(), "b1").Return(bid, nil)
		mockRepo.EXPECT().TransitionBid(gomock.Any(), "b1", model.BidPending, model.BidWithdrawn, fixedNow).
			Return(acceptedBid(bid), biddingerrors.ErrStatusMismatch)

		got, err := manager.WithdrawBid(context.Background(), "b1", "C1")
		require.ErrorIs(t, err, biddingerrors.ErrInvalidState)
		require.Equal(t, model.BidAccepted, got.Status)
	})

	t.Run("store_down", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockRepo := repository.NewMockMarketplaceDB(ctrl)
		manager := NewBidManager(mockRepo, NewNotifier(mockRepo, nil), func() time.Time { return fixedNow })

		mockRepo.EXPECT().GetBid(gomock.Any(), "b1").Return(bid, nil)
		mockRepo.EXPECT().TransitionBid(gomock.Any(), "b1", model.BidPending, model.BidWithdrawn, fixedNow).
			Return(model.Bid{}, errStoreDown)

		_, err := manager.WithdrawBid(context.Background(), "b1", "C1")
		require.ErrorIs(t, err, biddingerrors.ErrPersistence)
	})

	t.Run("missing_ids", func(t *testing.T) {
		t.Parallel()
		manager := NewBidManager(nil, NewNotifier(nil, nil), nil)

		_, err := manager.WithdrawBid(context.Background(), "", "C1")
		require.ErrorIs(t, err, biddingerrors.ErrValidation)
	})
}
