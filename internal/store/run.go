package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run is one batch evaluation.
type Run struct {
	ID         string
	Backend    string
	Detector   string
	Source     string
	Total      int
	Correct    int
	Accuracy   float64
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Prediction is the stored outcome for a single image of a run.
type Prediction struct {
	ID           int64
	RunID        string
	Sequence     int
	ImagePath    string
	TrueLabel    string
	Predicted    string
	Confidence   float64
	TopK         string
	HandDetected bool
	Correct      bool
	Error        string
}

// RunRepository provides access to runs and their predictions.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a run. An empty ID is filled with a new UUID and a zero
// StartedAt with the current time.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (id, backend, detector, source, total, correct, accuracy, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Backend, run.Detector, run.Source, run.Total, run.Correct, run.Accuracy, run.StartedAt,
	)
	return err
}

// Finish records the totals of a completed run.
func (r *RunRepository) Finish(id string, total, correct int, accuracy float64) error {
	now := time.Now()
	result, err := r.db.Exec(
		`UPDATE runs SET total = ?, correct = ?, accuracy = ?, finished_at = ? WHERE id = ?`,
		total, correct, accuracy, now, id,
	)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(
		`SELECT id, backend, detector, source, total, correct, accuracy, started_at, finished_at
		 FROM runs WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// List returns runs, newest first. A positive limit caps the result.
func (r *RunRepository) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT id, backend, detector, source, total, correct, accuracy, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes a run and, through the foreign key, its predictions.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// AddPrediction stores one image outcome for a run.
func (r *RunRepository) AddPrediction(p *Prediction) error {
	result, err := r.db.Exec(
		`INSERT INTO predictions
		 (run_id, sequence, image_path, true_label, predicted, confidence, top_k, hand_detected, correct, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.RunID, p.Sequence, p.ImagePath, p.TrueLabel, p.Predicted, p.Confidence, p.TopK,
		p.HandDetected, p.Correct, p.Error,
	)
	if err != nil {
		return err
	}
	p.ID, err = result.LastInsertId()
	return err
}

// Predictions returns the outcomes of a run in evaluation order.
func (r *RunRepository) Predictions(runID string) ([]Prediction, error) {
	rows, err := r.db.Query(
		`SELECT id, run_id, sequence, image_path, true_label, predicted, confidence, top_k,
		        hand_detected, correct, error
		 FROM predictions WHERE run_id = ? ORDER BY sequence ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.ID, &p.RunID, &p.Sequence, &p.ImagePath, &p.TrueLabel,
			&p.Predicted, &p.Confidence, &p.TopK, &p.HandDetected, &p.Correct, &p.Error); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var finished sql.NullTime
	err := row.Scan(&run.ID, &run.Backend, &run.Detector, &run.Source, &run.Total,
		&run.Correct, &run.Accuracy, &run.StartedAt, &finished)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
