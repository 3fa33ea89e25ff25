package store

// runMigrations creates the schema. Every statement is idempotent.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One batch evaluation over a folder of labelled images.
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			backend TEXT NOT NULL CHECK(backend IN ('probability', 'margin')),
			detector TEXT NOT NULL,
			source TEXT NOT NULL,
			total INTEGER NOT NULL DEFAULT 0,
			correct INTEGER NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		)`,

		// Outcome for each image of a run.
		`CREATE TABLE IF NOT EXISTS predictions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			image_path TEXT NOT NULL,
			true_label TEXT NOT NULL,
			predicted TEXT NOT NULL,
			confidence REAL NOT NULL,
			top_k TEXT NOT NULL,
			hand_detected INTEGER NOT NULL DEFAULT 0,
			correct INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		)`,

		// Settings that override the configuration file, as key-value pairs.
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_predictions_run_id ON predictions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
