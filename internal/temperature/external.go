package temperature

import (
	"context"

	"pulsedeck/internal/domain"
)

const hintExternal = "External temperature source is not configured."

// External is a stub reserved for a future shared-memory feed. It
// never fails and always resolves immediately with an absent value.
type External struct{}

func NewExternal() *External {
	return &External{}
}

func (p *External) GetTemperature(ctx context.Context) domain.TempResult {
	return domain.TempResult{
		Status: domain.TempStatusExternalNotConfigured,
		Hint:   hintExternal,
	}
}
