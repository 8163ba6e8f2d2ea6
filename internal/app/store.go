package app

import (
	"context"
	"fmt"

	"bid-lifecycle/internal/config"
	model "bid-lifecycle/internal/models"
	"bid-lifecycle/internal/repository"
	"bid-lifecycle/utils"
)

// Store is the repository plus the hook to release it
type Store struct {
	repository.MarketplaceDB
	seeder seeder
	close  func()
}

type seeder interface {
	SaveServiceRequest(ctx context.Context, req model.ServiceRequest) error
	SaveContractor(ctx context.Context, c model.Contractor) error
}

// memorySeeder adapts MemoryRepo's seeding helpers to the seeder shape
type memorySeeder struct {
	repo *repository.MemoryRepo
}

func (s memorySeeder) SaveServiceRequest(_ context.Context, req model.ServiceRequest) error {
	s.repo.AddServiceRequest(req)
	return nil
}

func (s memorySeeder) SaveContractor(_ context.Context, c model.Contractor) error {
	s.repo.AddContractor(c)
	return nil
}

// OpenStore builds the repository selected by STORE_DRIVER. For postgres
// it applies pending migrations first when AUTO_MIGRATE_UP is set.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if cfg.AutoMigrateUp {
			if err := repository.MigrateUp(cfg.Conn); err != nil {
				return nil, fmt.Errorf("app.OpenStore: %w", err)
			}
		}
		repo, err := repository.NewPostgresRepo(ctx, cfg.Conn, cfg.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("app.OpenStore: %w", err)
		}
		utils.Info("connected to postgres", map[string]any{"max_conns": cfg.MaxConns})
		return &Store{MarketplaceDB: repo, seeder: repo, close: repo.Close}, nil
	default:
		repo := repository.NewMemoryRepo()
		return &Store{MarketplaceDB: repo, seeder: memorySeeder{repo: repo}, close: func() {}}, nil
	}
}

// Close releases the underlying connections
func (s *Store) Close() {
	s.close()
}

// demo data: one customer with two open jobs and three contractors
var (
	demoRequests = []model.ServiceRequest{
		{RequestID: "req-1", CustomerID: "customer-1", Title: "Fix leaking kitchen pipe"},
		{RequestID: "req-2", CustomerID: "customer-1", Title: "Repaint bedroom walls"},
	}
	demoContractors = []model.Contractor{
		{ContractorID: "contractor-1", UserID: "user-contractor-1", BusinessName: "Pipe Masters"},
		{ContractorID: "contractor-2", UserID: "user-contractor-2", BusinessName: "Handy Crew"},
		{ContractorID: "contractor-3", UserID: "user-contractor-3", BusinessName: "Brush & Roller"},
	}
)

// SeedDemoData adds sample service requests and contractors
func (s *Store) SeedDemoData(ctx context.Context) error {
	for _, req := range demoRequests {
		if err := s.seeder.SaveServiceRequest(ctx, req); err != nil {
			return fmt.Errorf("app.SeedDemoData: %w", err)
		}
	}
	for _, c := range demoContractors {
		if err := s.seeder.SaveContractor(ctx, c); err != nil {
			return fmt.Errorf("app.SeedDemoData: %w", err)
		}
	}
	utils.Info("demo data seeded", map[string]any{
		"service_requests": len(demoRequests),
		"contractors":      len(demoContractors),
	})
	return nil
}
