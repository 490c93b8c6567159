package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/predictfund/predictfund/internal/domain"
)

// SnapshotService periodically serializes the full ledger (markets,
// campaigns, donations) to a JSON document in object storage. It only reads;
// nothing is ever deleted from the ledger.
type SnapshotService struct {
	markets   domain.MarketStore
	campaigns domain.CampaignStore
	donations domain.DonationStore
	blob      domain.BlobWriter
	prefix    string
	logger    *slog.Logger
}

// NewSnapshotService creates a SnapshotService writing under the given key
// prefix.
func NewSnapshotService(
	markets domain.MarketStore,
	campaigns domain.CampaignStore,
	donations domain.DonationStore,
	blob domain.BlobWriter,
	prefix string,
	logger *slog.Logger,
) *SnapshotService {
	if prefix == "" {
		prefix = "snapshots"
	}
	return &SnapshotService{
		markets:   markets,
		campaigns: campaigns,
		donations: donations,
		blob:      blob,
		prefix:    prefix,
		logger:    logger,
	}
}

// ledgerSnapshot is the document uploaded to object storage.
type ledgerSnapshot struct {
	TakenAt   time.Time         `json:"takenAt"`
	Markets   []domain.Market   `json:"markets"`
	Campaigns []domain.Campaign `json:"campaigns"`
	Donations []domain.Donation `json:"donations"`
}

// Run executes a single snapshot: gather the ledger, serialize it, and upload
// it under <prefix>/<date>/<uuid>.json. It returns the object path.
func (s *SnapshotService) Run(ctx context.Context) (string, error) {
	markets, err := s.markets.List(ctx, "")
	if err != nil {
		return "", fmt.Errorf("snapshot_service: list markets: %w", err)
	}
	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot_service: list campaigns: %w", err)
	}
	donations, err := s.donations.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot_service: list donations: %w", err)
	}

	now := time.Now().UTC()
	snap := ledgerSnapshot{
		TakenAt:   now,
		Markets:   markets,
		Campaigns: campaigns,
		Donations: donations,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("snapshot_service: marshal: %w", err)
	}

	path := fmt.Sprintf("%s/%s/%s.json", s.prefix, now.Format("2006-01-02"), uuid.NewString())
	if err := s.blob.Put(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		return "", fmt.Errorf("snapshot_service: upload: %w", err)
	}

	s.logger.InfoContext(ctx, "snapshot_service: snapshot uploaded",
		slog.String("path", path),
		slog.Int("markets", len(markets)),
		slog.Int("campaigns", len(campaigns)),
		slog.Int("donations", len(donations)),
	)

	return path, nil
}

// RunEvery runs snapshots on the given interval until the context is
// cancelled. Individual failures are logged and the loop keeps going.
func (s *SnapshotService) RunEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.logger.ErrorContext(ctx, "snapshot_service: run failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
