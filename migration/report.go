// report.go
package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"log/slog"
)

const maxRecordedIssues = 200

func (m *Migrator) initTableStats(table string) {
	m.stats.Tables[table] = &TableStats{TableName: table}
}

func (m *Migrator) tableStats(table string) *TableStats {
	ts, ok := m.stats.Tables[table]
	if !ok {
		ts = &TableStats{TableName: table}
		m.stats.Tables[table] = ts
	}
	return ts
}

func (m *Migrator) recordProcessed(table string) {
	m.tableStats(table).Processed++
	m.stats.TotalProcessed++
}

func (m *Migrator) recordSuccessful(table string) {
	m.tableStats(table).Successful++
}

func (m *Migrator) recordSkipped(table, reason, recordID string) {
	ts := m.tableStats(table)
	ts.Skipped++
	m.stats.TotalSkipped++

	if len(ts.SkippedRecords) < maxRecordedIssues {
		ts.SkippedRecords = append(ts.SkippedRecords, SkippedRecord{
			Reason:    reason,
			RecordID:  recordID,
			Timestamp: time.Now(),
		})
	}

	slog.Debug("Record skipped",
		slog.String("type", "mig"),
		slog.String("table", table),
		slog.String("record_id", recordID),
		slog.String("reason", reason))
}

func (m *Migrator) recordError(table, errMsg, recordID string) {
	ts := m.tableStats(table)
	ts.Errors++
	m.stats.TotalErrors++

	if len(ts.ErrorRecords) < maxRecordedIssues {
		ts.ErrorRecords = append(ts.ErrorRecords, ErrorRecord{
			Error:     errMsg,
			RecordID:  recordID,
			Timestamp: time.Now(),
		})
	}

	slog.Warn("Record failed",
		slog.String("type", "mig"),
		slog.String("table", table),
		slog.String("record_id", recordID),
		slog.String("error", errMsg))
}

// TableSummary is the per-entity, per-status rollup exposed to callers.
type TableSummary struct {
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}

// Summary returns counts per table and per status.
func (m *Migrator) Summary() map[string]TableSummary {
	out := make(map[string]TableSummary, len(m.stats.Tables))
	for name, ts := range m.stats.Tables {
		out[name] = TableSummary{
			Processed:  ts.Processed,
			Successful: ts.Successful,
			Skipped:    ts.Skipped,
			Errors:     ts.Errors,
		}
	}
	return out
}

// writeReport dumps the full run stats as JSON next to the fixtures.
func (m *Migrator) writeReport() error {
	filename := filepath.Join(m.dataDir,
		fmt.Sprintf("migration_report_%s.json", time.Now().Format("20060102_150405")))

	data, err := json.MarshalIndent(&m.stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal migration report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write migration report: %w", err)
	}

	slog.Info("Migration report written",
		slog.String("type", "mig"),
		slog.String("file", filename))
	return nil
}

func (m *Migrator) logFinalStats() {
	took := m.stats.EndTime.Sub(m.stats.StartTime)

	for name, ts := range m.stats.Tables {
		slog.Info("Table migration summary",
			slog.String("type", "mig"),
			slog.String("table", name),
			slog.Int("processed", ts.Processed),
			slog.Int("successful", ts.Successful),
			slog.Int("skipped", ts.Skipped),
			slog.Int("errors", ts.Errors))
	}

	slog.Info("Migration finished",
		slog.String("type", "mig"),
		slog.Int("total_processed", m.stats.TotalProcessed),
		slog.Int("total_skipped", m.stats.TotalSkipped),
		slog.Int("total_errors", m.stats.TotalErrors),
		slog.Duration("took", took))
}
