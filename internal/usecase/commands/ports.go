package commands

import (
	"github.com/google/uuid"

	"zolta/internal/usecase/queries"
)

// SnapshotPublisher fans a fresh auction snapshot out to live watchers.
// Publishing happens after commit only; a rolled-back bid is never announced.
type SnapshotPublisher interface {
	Publish(auctionID uuid.UUID, snap *queries.AuctionSnapshot)
}
