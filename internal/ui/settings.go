package ui

import (
	"context"
	"fleet-dashboard/internal/domain"
	"strconv"
	"strings"
	"sync"
)

// SettingsForm holds the cost inputs as typed by the user. Values are sent
// as strings and parsed by the backend, which accepts a decimal comma.
type SettingsForm struct {
	FuelPrice    string
	StaffPerHour string
}

func (f SettingsForm) input() domain.SettingsInput {
	var in domain.SettingsInput
	if s := strings.TrimSpace(f.FuelPrice); s != "" {
		in.FuelPrice = &domain.Amount{Raw: s}
	}
	if s := strings.TrimSpace(f.StaffPerHour); s != "" {
		in.StaffPerHour = &domain.Amount{Raw: s}
	}
	return in
}

func settingsFormFrom(s domain.Settings) SettingsForm {
	return SettingsForm{
		FuelPrice:    strconv.FormatFloat(s.FuelPrice, 'f', 2, 64),
		StaffPerHour: strconv.FormatFloat(s.StaffPerHour, 'f', 2, 64),
	}
}

type SettingsController struct {
	api    SettingsAPI
	notify *Notifier
	guard  inflight

	mu   sync.RWMutex
	form SettingsForm
}

func NewSettingsController(api SettingsAPI, notify *Notifier) *SettingsController {
	return &SettingsController{api: api, notify: notify}
}

func (c *SettingsController) Load(ctx context.Context) error {
	s, err := c.api.GetSettings(ctx)
	if err != nil {
		c.notify.Error("Erro ao carregar configurações")
		return err
	}
	c.SetForm(settingsFormFrom(s))
	return nil
}

func (c *SettingsController) Form() SettingsForm {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.form
}

func (c *SettingsController) SetForm(f SettingsForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// Save posts the form and refreshes it from the stored values.
func (c *SettingsController) Save(ctx context.Context) error {
	return c.guard.run(c.notify, func() error {
		s, err := c.api.SaveSettings(ctx, c.Form().input())
		if err != nil {
			c.notify.Error("Erro ao salvar configurações")
			return err
		}
		c.SetForm(settingsFormFrom(s))
		c.notify.Success("Configurações salvas com sucesso!")
		return nil
	})
}
