package ports

import "go.trai.ch/remake/internal/core/domain"

// SettingsLoader reads the tool settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings file from cwd, falling back to defaults when it is absent.
	Load(cwd string) (domain.Settings, error)
}
