package store

import (
	"context"
	"database/sql"
)

type Dataset struct {
	ID           int64   `json:"id"`
	DatasetName  string  `json:"dataset_name"`
	Owner        string  `json:"owner"`
	SourceSystem string  `json:"source_system"`
	SizeMB       float64 `json:"size_mb"`
	RowCount     int64   `json:"row_count"`
	CreatedAt    string  `json:"created_at"`
}

type DatasetsStore interface {
	Create(ctx context.Context, ds *Dataset) (int64, error)
	ListAll(ctx context.Context) ([]Dataset, error)
	// UpdateOwner and Delete predicate on dataset_name, which is not
	// unique: every matching row is affected.
	UpdateOwner(ctx context.Context, datasetName, owner string) (int64, error)
	Delete(ctx context.Context, datasetName string) (int64, error)
	CountBySource(ctx context.Context) (map[string]int, error)
	Totals(ctx context.Context) (sizeMB float64, rowCount int64, err error)
}

type datasetsStore struct {
	db *sql.DB
}

func NewDatasetsStore(db *sql.DB) DatasetsStore {
	return &datasetsStore{db: db}
}

func (s *datasetsStore) Create(ctx context.Context, ds *Dataset) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO datasets_metadata
		(dataset_name, owner, source_system, size_mb, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ds.DatasetName, ds.Owner, ds.SourceSystem, ds.SizeMB, ds.RowCount, ds.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *datasetsStore) ListAll(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset_name, owner, source_system, size_mb, row_count, created_at
		FROM datasets_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Dataset
	for rows.Next() {
		var ds Dataset
		var name, owner, source, createdAt sql.NullString
		var sizeMB sql.NullFloat64
		var rowCount sql.NullInt64
		if err := rows.Scan(&ds.ID, &name, &owner, &source, &sizeMB, &rowCount, &createdAt); err != nil {
			return nil, err
		}
		ds.DatasetName = name.String
		ds.Owner = owner.String
		ds.SourceSystem = source.String
		ds.SizeMB = sizeMB.Float64
		ds.RowCount = rowCount.Int64
		ds.CreatedAt = createdAt.String
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (s *datasetsStore) UpdateOwner(ctx context.Context, datasetName, owner string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE datasets_metadata SET owner = ? WHERE dataset_name = ?`, owner, datasetName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *datasetsStore) Delete(ctx context.Context, datasetName string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM datasets_metadata WHERE dataset_name = ?`, datasetName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *datasetsStore) CountBySource(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, s.db,
		`SELECT COALESCE(source_system, ''), COUNT(*) FROM datasets_metadata GROUP BY source_system`)
}

func (s *datasetsStore) Totals(ctx context.Context) (float64, int64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size_mb), 0), COALESCE(SUM(row_count), 0) FROM datasets_metadata`)
	var sizeMB float64
	var rowCount int64
	if err := row.Scan(&sizeMB, &rowCount); err != nil {
		return 0, 0, err
	}
	return sizeMB, rowCount, nil
}
