package worker

// backup_worker.go
// Processes backup jobs from QueueBackup: exports a full snapshot, writes it
// under the backup directory, mails it out, and prunes old backup files.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Muhammet-Aksoy/stokv1/internal/infra"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"
	"github.com/Muhammet-Aksoy/stokv1/internal/snapshot"

	"github.com/rs/zerolog/log"
)

// BackupJobPayload is the job envelope sent to QueueBackup.
type BackupJobPayload struct {
	// Reason is "scheduled" or "manual"; only used for logging and the mail
	// subject.
	Reason string `json:"reason"`
}

// BackupWorker exports and ships snapshot backups.
type BackupWorker struct {
	snapshots service.SnapshotService
	mailer    *infra.Mailer
	backupDir string
	emailTo   string
	keep      int
}

func NewBackupWorker(snapshots service.SnapshotService, mailer *infra.Mailer, backupDir, emailTo string, keep int) *BackupWorker {
	return &BackupWorker{
		snapshots: snapshots,
		mailer:    mailer,
		backupDir: backupDir,
		emailTo:   emailTo,
		keep:      keep,
	}
}

// Process runs one backup end to end. Each stage failure is logged and stops
// the job; the next scheduled run starts fresh.
func (w *BackupWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload BackupJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("backup_worker: invalid payload")
		return
	}

	snap, err := w.snapshots.Export(ctx)
	if err != nil {
		log.Error().Err(err).Msg("backup_worker: export failed")
		return
	}

	name := fmt.Sprintf("backup_%s.json", snap.GeneratedAt.Format("2006-01-02_15-04-05"))
	path := filepath.Join(w.backupDir, name)
	if err := snapshot.Write(path, snap); err != nil {
		log.Error().Err(err).Str("path", path).Msg("backup_worker: write failed")
		return
	}

	counts := snap.Counts()
	log.Info().
		Str("path", path).
		Str("reason", payload.Reason).
		Int("products", counts.Products).
		Int("sales", counts.Sales).
		Int("customers", counts.Customers).
		Int("debts", counts.Debts).
		Msg("backup_worker: snapshot written")

	if w.emailTo != "" {
		subject := fmt.Sprintf("Stok yedeği %s", snap.GeneratedAt.Format("2006-01-02"))
		body := fmt.Sprintf(
			"Günlük yedek ektedir.\n\nÜrün: %d\nSatış: %d\nMüşteri: %d\nBorç: %d\n",
			counts.Products, counts.Sales, counts.Customers, counts.Debts)
		if err := w.mailer.SendBackup(w.emailTo, subject, body, path); err != nil {
			log.Error().Err(err).Str("to", w.emailTo).Msg("backup_worker: email failed")
		} else {
			log.Info().Str("to", w.emailTo).Msg("backup_worker: backup emailed")
		}
	}

	if err := w.prune(); err != nil {
		log.Warn().Err(err).Msg("backup_worker: prune failed")
	}
}

// prune deletes the oldest backup files beyond the retention count. Backup
// names embed a sortable timestamp, so lexicographic order is age order.
func (w *BackupWorker) prune() error {
	entries, err := os.ReadDir(w.backupDir)
	if err != nil {
		return err
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "backup_") && strings.HasSuffix(e.Name(), ".json") {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) <= w.keep {
		return nil
	}

	sort.Strings(backups)
	for _, name := range backups[:len(backups)-w.keep] {
		if err := os.Remove(filepath.Join(w.backupDir, name)); err != nil {
			return err
		}
		log.Info().Str("file", name).Msg("backup_worker: old backup removed")
	}
	return nil
}
