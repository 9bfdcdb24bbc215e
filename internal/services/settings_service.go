package services

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/ports"
	"fmt"

	"github.com/sirupsen/logrus"
)

type SettingsService struct {
	Repo   ports.SettingsRepository
	Events ports.EventPublisher
	Log    logrus.FieldLogger
}

// Get returns the typed settings; missing rows fall back to defaults.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	values, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return domain.SettingsFromMap(values), nil
}

func (s *SettingsService) Save(ctx context.Context, in domain.SettingsInput) (domain.Settings, error) {
	values, err := in.Validate()
	if err != nil {
		return domain.Settings{}, err
	}
	if err := s.Repo.PutSettings(ctx, values); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventSettingsChanged, 0))
	return s.Get(ctx)
}
