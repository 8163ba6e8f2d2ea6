package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bid-lifecycle/internal/biddingerrors"
	model "bid-lifecycle/internal/models"
)

const uniqueViolation = "23505"

const bidColumns = `bid_id, service_request_id, contractor_id, amount::text, description, title, status,
	estimated_duration, materials, notes, submitted_at, valid_until, accepted_at, rejected_at, withdrawn_at, expired_at`

const requestColumns = `request_id, customer_id, title, status, assigned_contractor_id, accepted_bid_id, assigned_at, created_at`

// transitionColumns names the timestamp column stamped on entering a status
var transitionColumns = map[model.BidStatus]string{
	model.BidAccepted:  "accepted_at",
	model.BidRejected:  "rejected_at",
	model.BidWithdrawn: "withdrawn_at",
	model.BidExpired:   "expired_at",
}

// PostgresRepo implements MarketplaceDB on PostgreSQL. Conditional updates
// carry their precondition in the WHERE clause so each write is atomic.
type PostgresRepo struct {
	db *pgxpool.Pool
}

var _ MarketplaceDB = (*PostgresRepo)(nil)

// NewPostgresRepo opens a connection pool and verifies it with a ping
func NewPostgresRepo(ctx context.Context, conn string, maxConns int32) (*PostgresRepo, error) {
	cfg, err := pgxpool.ParseConfig(conn)
	if err != nil {
		return nil, fmt.Errorf("repository.NewPostgresRepo: parse config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("repository.NewPostgresRepo: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository.NewPostgresRepo: ping: %w", err)
	}
	return &PostgresRepo{db: pool}, nil
}

// Close releases the pool
func (r *PostgresRepo) Close() {
	r.db.Close()
}

func (r *PostgresRepo) CreateBid(ctx context.Context, bid model.Bid) error {
	// the request must still be open and unclaimed when the row lands
	query := `
	INSERT INTO bids (bid_id, service_request_id, contractor_id, amount, description, title, status,
		estimated_duration, materials, notes, submitted_at, valid_until)
	SELECT $1::text, $2::text, $3::text, $4::numeric, $5::text, $6::text, $7::text, $8::text, $9::text[], $10::text,
		$11::timestamptz, $12::timestamptz
	WHERE EXISTS (
		SELECT 1 FROM service_requests
		WHERE request_id = $2 AND status = 'pending' AND accepted_bid_id = ''
		FOR SHARE
	)
	`
	materials := bid.Materials
	if materials == nil {
		materials = []string{}
	}

	tag, err := r.db.Exec(ctx, query,
		bid.BidID, bid.ServiceRequestID, bid.ContractorID, bid.Amount.String(), bid.Description, bid.Title,
		string(bid.Status), bid.EstimatedDuration, materials, bid.Notes, bid.SubmittedAt, bid.ValidUntil)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("repository.PostgresRepo.CreateBid: %w", biddingerrors.ErrBidExists)
		}
		return fmt.Errorf("repository.PostgresRepo.CreateBid: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	req, err := r.GetServiceRequest(ctx, bid.ServiceRequestID)
	if err != nil {
		return err
	}
	return fmt.Errorf("repository.PostgresRepo.CreateBid %s: status %s, claimed by %q: %w",
		req.RequestID, req.Status, req.AcceptedBidID, biddingerrors.ErrRequestClosed)
}

func (r *PostgresRepo) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE bid_id = $1`, bidID)
	bid, err := scanBid(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("repository.PostgresRepo.GetBid %s: %w", bidID, biddingerrors.ErrBidNotFound)
	} else if err != nil {
		return model.Bid{}, fmt.Errorf("repository.PostgresRepo.GetBid: %w", err)
	}
	return bid, nil
}

func (r *PostgresRepo) FindBids(ctx context.Context, filter model.BidFilter) ([]model.Bid, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ServiceRequestID != "" {
		conds = append(conds, "service_request_id = "+arg(filter.ServiceRequestID))
	}
	if filter.ContractorID != "" {
		conds = append(conds, "contractor_id = "+arg(filter.ContractorID))
	}
	if filter.ExcludeBidID != "" {
		conds = append(conds, "bid_id <> "+arg(filter.ExcludeBidID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, "status = ANY("+arg(statuses)+")")
	}
	if filter.ValidBefore != nil {
		conds = append(conds, "valid_until IS NOT NULL AND valid_until <= "+arg(*filter.ValidBefore))
	}

	query := `SELECT ` + bidColumns + ` FROM bids`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submitted_at"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.PostgresRepo.FindBids: %w", err)
	}
	defer rows.Close()

	bids := make([]model.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.PostgresRepo.FindBids: rows scan error: %w", err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.PostgresRepo.FindBids: %w", err)
	}
	return bids, nil
}

func (r *PostgresRepo) TransitionBid(ctx context.Context, bidID string, from, to model.BidStatus, at time.Time) (model.Bid, error) {
	if !from.CanTransitionTo(to) {
		return model.Bid{}, fmt.Errorf("repository.PostgresRepo.TransitionBid %s: %w", bidID, &model.TransitionError{From: from, To: to})
	}
	column := transitionColumns[to]

	query := fmt.Sprintf(`
	UPDATE bids SET status = $1, %s = $2
	WHERE bid_id = $3 AND status = $4
	RETURNING %s`, column, bidColumns)

	bid, err := scanBid(r.db.QueryRow(ctx, query, string(to), at.UTC(), bidID, string(from)))
	if err == nil {
		return bid, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("repository.PostgresRepo.TransitionBid: %w", err)
	}

	current, err := r.GetBid(ctx, bidID)
	if err != nil {
		return model.Bid{}, err
	}
	return current, fmt.Errorf("repository.PostgresRepo.TransitionBid %s from %s: is %s: %w", bidID, from, current.Status, biddingerrors.ErrStatusMismatch)
}

func (r *PostgresRepo) GetServiceRequest(ctx context.Context, requestID string) (model.ServiceRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM service_requests WHERE request_id = $1`, requestID)
	req, err := scanServiceRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ServiceRequest{}, fmt.Errorf("repository.PostgresRepo.GetServiceRequest %s: %w", requestID, biddingerrors.ErrServiceRequestNotFound)
	} else if err != nil {
		return model.ServiceRequest{}, fmt.Errorf("repository.PostgresRepo.GetServiceRequest: %w", err)
	}
	return req, nil
}

func (r *PostgresRepo) FindServiceRequests(ctx context.Context, filter model.ServiceRequestFilter) ([]model.ServiceRequest, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.ClaimedOnly {
		conds = append(conds, "accepted_bid_id <> ''")
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	query := `SELECT ` + requestColumns + ` FROM service_requests`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY request_id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.PostgresRepo.FindServiceRequests: %w", err)
	}
	defer rows.Close()

	requests := make([]model.ServiceRequest, 0)
	for rows.Next() {
		req, err := scanServiceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.PostgresRepo.FindServiceRequests: rows scan error: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.PostgresRepo.FindServiceRequests: %w", err)
	}
	return requests, nil
}

func (r *PostgresRepo) AssignServiceRequest(ctx context.Context, requestID, contractorID, bidID string, at time.Time) (model.ServiceRequest, error) {
	query := `
	UPDATE service_requests
	SET assigned_contractor_id = $2, accepted_bid_id = $3, assigned_at = $4
	WHERE request_id = $1 AND status = 'pending' AND accepted_bid_id = ''
	RETURNING ` + requestColumns

	req, err := scanServiceRequest(r.db.QueryRow(ctx, query, requestID, contractorID, bidID, at.UTC()))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.ServiceRequest{}, fmt.Errorf("repository.PostgresRepo.AssignServiceRequest: %w", err)
	}

	current, err := r.GetServiceRequest(ctx, requestID)
	if err != nil {
		return model.ServiceRequest{}, err
	}
	switch {
	case current.AcceptedBidID == bidID && current.AssignedContractorID == contractorID:
		return current, nil
	case current.Claimed():
		return current, fmt.Errorf("repository.PostgresRepo.AssignServiceRequest %s: held by contractor %s: %w", requestID, current.AssignedContractorID, biddingerrors.ErrAlreadyAssigned)
	default:
		return current, fmt.Errorf("repository.PostgresRepo.AssignServiceRequest %s: status %s: %w", requestID, current.Status, biddingerrors.ErrRequestClosed)
	}
}

func (r *PostgresRepo) MarkServiceRequestAssigned(ctx context.Context, requestID, bidID string) (model.ServiceRequest, bool, error) {
	query := `
	UPDATE service_requests SET status = 'assigned'
	WHERE request_id = $1 AND accepted_bid_id = $2 AND status = 'pending'
	RETURNING ` + requestColumns

	req, err := scanServiceRequest(r.db.QueryRow(ctx, query, requestID, bidID))
	if err == nil {
		return req, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.ServiceRequest{}, false, fmt.Errorf("repository.PostgresRepo.MarkServiceRequestAssigned: %w", err)
	}

	current, err := r.GetServiceRequest(ctx, requestID)
	if err != nil {
		return model.ServiceRequest{}, false, err
	}
	if current.AcceptedBidID != bidID {
		return current, false, fmt.Errorf("repository.PostgresRepo.MarkServiceRequestAssigned %s: claimed by %q: %w", requestID, current.AcceptedBidID, biddingerrors.ErrAlreadyAssigned)
	}
	return current, false, nil
}

func (r *PostgresRepo) ReleaseServiceRequest(ctx context.Context, requestID, bidID string) (model.ServiceRequest, error) {
	query := `
	UPDATE service_requests
	SET assigned_contractor_id = '', accepted_bid_id = '', assigned_at = NULL
	WHERE request_id = $1 AND accepted_bid_id = $2 AND status = 'pending'
	RETURNING ` + requestColumns

	req, err := scanServiceRequest(r.db.QueryRow(ctx, query, requestID, bidID))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.ServiceRequest{}, fmt.Errorf("repository.PostgresRepo.ReleaseServiceRequest: %w", err)
	}
	return r.GetServiceRequest(ctx, requestID)
}

func (r *PostgresRepo) GetContractor(ctx context.Context, contractorID string) (model.Contractor, error) {
	var c model.Contractor
	err := r.db.QueryRow(ctx,
		`SELECT contractor_id, user_id, business_name FROM contractors WHERE contractor_id = $1`, contractorID,
	).Scan(&c.ContractorID, &c.UserID, &c.BusinessName)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Contractor{}, fmt.Errorf("repository.PostgresRepo.GetContractor %s: %w", contractorID, biddingerrors.ErrContractorNotFound)
	} else if err != nil {
		return model.Contractor{}, fmt.Errorf("repository.PostgresRepo.GetContractor: %w", err)
	}
	return c, nil
}

func (r *PostgresRepo) CreateNotification(ctx context.Context, n model.Notification) error {
	query := `
	INSERT INTO notifications (id, type, title, message, priority, recipient_user_id, payload,
		action_url, action_label, channels, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	payload := n.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	channels := make([]string, 0, len(n.Channels))
	for _, ch := range n.Channels {
		channels = append(channels, string(ch))
	}

	_, err := r.db.Exec(ctx, query, n.ID, string(n.Type), n.Title, n.Message, string(n.Priority),
		n.RecipientUserID, payload, n.ActionURL, n.ActionLabel, channels, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository.PostgresRepo.CreateNotification: %w", err)
	}
	return nil
}

// SaveServiceRequest upserts a service request; used for seeding.
func (r *PostgresRepo) SaveServiceRequest(ctx context.Context, req model.ServiceRequest) error {
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO service_requests (request_id, customer_id, title, status, created_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (request_id) DO UPDATE SET customer_id = EXCLUDED.customer_id, title = EXCLUDED.title
	`
	_, err := r.db.Exec(ctx, query, req.RequestID, req.CustomerID, req.Title, string(req.Status), req.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository.PostgresRepo.SaveServiceRequest: %w", err)
	}
	return nil
}

// SaveContractor upserts a contractor; used for seeding.
func (r *PostgresRepo) SaveContractor(ctx context.Context, c model.Contractor) error {
	query := `
	INSERT INTO contractors (contractor_id, user_id, business_name)
	VALUES ($1, $2, $3)
	ON CONFLICT (contractor_id) DO UPDATE SET user_id = EXCLUDED.user_id, business_name = EXCLUDED.business_name
	`
	if _, err := r.db.Exec(ctx, query, c.ContractorID, c.UserID, c.BusinessName); err != nil {
		return fmt.Errorf("repository.PostgresRepo.SaveContractor: %w", err)
	}
	return nil
}

func scanBid(row pgx.Row) (model.Bid, error) {
	var (
		bid    model.Bid
		amount string
		status string
	)
	err := row.Scan(&bid.BidID, &bid.ServiceRequestID, &bid.ContractorID, &amount, &bid.Description, &bid.Title,
		&status, &bid.EstimatedDuration, &bid.Materials, &bid.Notes, &bid.SubmittedAt, &bid.ValidUntil,
		&bid.AcceptedAt, &bid.RejectedAt, &bid.WithdrawnAt, &bid.ExpiredAt)
	if err != nil {
		return model.Bid{}, err
	}

	bid.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Bid{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	bid.Status = model.BidStatus(status)
	if len(bid.Materials) == 0 {
		bid.Materials = nil
	}
	return bid, nil
}

func scanServiceRequest(row pgx.Row) (model.ServiceRequest, error) {
	var (
		req    model.ServiceRequest
		status string
	)
	err := row.Scan(&req.RequestID, &req.CustomerID, &req.Title, &status, &req.AssignedContractorID,
		&req.AcceptedBidID, &req.AssignedAt, &req.CreatedAt)
	if err != nil {
		return model.ServiceRequest{}, err
	}
	req.Status = model.ServiceRequestStatus(status)
	return req, nil
}
