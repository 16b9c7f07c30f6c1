package datasets

import (
	"context"
	"fmt"

	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

type Service struct {
	store  store.DatasetsStore
	audits store.AuditStore
	logger *utils.Logger
}

func NewService(st store.DatasetsStore, audits store.AuditStore, logger *utils.Logger) *Service {
	return &Service{store: st, audits: audits, logger: logger}
}

type Summary struct {
	Total       int            `json:"total"`
	TotalSizeMB float64        `json:"total_size_mb"`
	TotalRows   int64          `json:"total_rows"`
	BySource    map[string]int `json:"by_source"`
}

func (s *Service) List(ctx context.Context) ([]store.Dataset, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) Create(ctx context.Context, actor string, ds *store.Dataset) (int64, error) {
	id, err := s.store.Create(ctx, ds)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "datasets.create", ds.DatasetName)
	return id, nil
}

// ChangeOwner reassigns every dataset row matching the name. dataset_name
// carries no uniqueness constraint, so this is a set operation.
func (s *Service) ChangeOwner(ctx context.Context, actor, datasetName, owner string) (int64, error) {
	n, err := s.store.UpdateOwner(ctx, datasetName, owner)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "datasets.owner", fmt.Sprintf("%s -> %s (%d rows)", datasetName, owner, n))
	return n, nil
}

func (s *Service) Remove(ctx context.Context, actor, datasetName string) (int64, error) {
	n, err := s.store.Delete(ctx, datasetName)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "datasets.delete", fmt.Sprintf("%s (%d rows)", datasetName, n))
	return n, nil
}

func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	bySource, err := s.store.CountBySource(ctx)
	if err != nil {
		return nil, err
	}
	sizeMB, rowCount, err := s.store.Totals(ctx)
	if err != nil {
		return nil, err
	}
	sum := &Summary{BySource: bySource, TotalSizeMB: sizeMB, TotalRows: rowCount}
	for _, n := range bySource {
		sum.Total += n
	}
	return sum, nil
}
