// Package integrity compares the live product state against a trusted
// snapshot and restores rows that went missing. Repair is strictly additive:
// rows present live but absent from the trusted snapshot are reported, never
// deleted — the trusted snapshot may simply predate them.
package integrity

import (
	"context"
	"sort"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/identity"
	"github.com/Muhammet-Aksoy/stokv1/internal/model"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Diff is the result of a pure snapshot comparison by product identity.
type Diff struct {
	// Missing holds identity keys present in the trusted snapshot but absent
	// from the live state.
	Missing []string
	// Extra holds identity keys present live but not in the trusted snapshot.
	Extra []string
}

func (d Diff) Clean() bool { return len(d.Missing) == 0 }

// Report summarizes one check-and-repair run.
type Report struct {
	Diff
	// Restored counts rows re-inserted from the trusted snapshot.
	Restored int
	// Unresolved holds keys still missing after restore and re-verify.
	Unresolved []string
	CheckedAt  time.Time
}

// Check diffs two snapshots by derived product identity. Map keys in the
// files are not trusted; identity always comes from record content. Records
// without a code cannot be keyed and are ignored.
func Check(trusted, live *dto.Snapshot) Diff {
	trustedKeys := keySet(trusted.Products)
	liveKeys := keySet(live.Products)

	var d Diff
	for key := range trustedKeys {
		if _, ok := liveKeys[key]; !ok {
			d.Missing = append(d.Missing, key.String())
		}
	}
	for key := range liveKeys {
		if _, ok := trustedKeys[key]; !ok {
			d.Extra = append(d.Extra, key.String())
		}
	}
	sort.Strings(d.Missing)
	sort.Strings(d.Extra)
	return d
}

func keySet(products map[string]dto.ProductRecord) map[identity.ProductKey]dto.ProductRecord {
	out := make(map[identity.ProductKey]dto.ProductRecord, len(products))
	for _, rec := range products {
		key, err := identity.ProductKeyOf(rec.Code, rec.Brand, rec.Variant)
		if err != nil {
			continue
		}
		out[key] = rec
	}
	return out
}

// Monitor runs check-and-repair against the store.
type Monitor struct {
	products  repository.ProductRepository
	snapshots service.SnapshotService
}

func NewMonitor(products repository.ProductRepository, snapshots service.SnapshotService) *Monitor {
	return &Monitor{products: products, snapshots: snapshots}
}

// CheckAndRepair diffs the trusted snapshot against a fresh export, restores
// every missing row verbatim (original timestamps and prices kept), then
// re-exports and re-verifies. Keys still missing afterwards land in
// Unresolved.
func (m *Monitor) CheckAndRepair(ctx context.Context, trusted *dto.Snapshot, repair bool) (*Report, error) {
	live, err := m.snapshots.Export(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Diff: Check(trusted, live), CheckedAt: time.Now().UTC()}
	if report.Clean() || !repair {
		report.Unresolved = report.Missing
		return report, nil
	}

	trustedByKey := keySet(trusted.Products)
	for key, rec := range trustedByKey {
		alive, err := m.products.FindByIdentity(ctx, key)
		if err != nil {
			return nil, err
		}
		if alive != nil {
			continue
		}
		if err := m.products.Create(ctx, recordToProduct(rec)); err != nil {
			log.Warn().Err(err).Str("key", key.String()).Msg("integrity: restore failed")
			continue
		}
		report.Restored++
		log.Info().Str("key", key.String()).Msg("integrity: row restored")
	}

	verify, err := m.snapshots.Export(ctx)
	if err != nil {
		return nil, err
	}
	report.Unresolved = Check(trusted, verify).Missing
	return report, nil
}

// recordToProduct rebuilds the stored row from the snapshot verbatim. The
// surrogate id is reused when parseable so restored rows keep their history;
// timestamps pass through non-zero and GORM leaves them untouched.
func recordToProduct(rec dto.ProductRecord) *model.Product {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		id = uuid.New()
	}
	return &model.Product{
		ID:        id,
		Code:      rec.Code,
		Brand:     rec.Brand,
		Variant:   rec.Variant,
		Name:      rec.Name,
		Quantity:  rec.Quantity,
		CostPrice: rec.CostPrice,
		SalePrice: rec.SalePrice,
		Category:  rec.Category,
		Note:      rec.Note,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
