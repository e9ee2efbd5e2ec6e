package snapshot

import "pulsedeck/internal/domain"

type MetricsStore struct {
	Store[domain.Snapshot]
}

func NewMetricsStore() *MetricsStore {
	return &MetricsStore{}
}
