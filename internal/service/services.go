package service

import (
	"fmt"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/store"
)

type Services struct {
	AuthService    AuthService
	SyncService    SyncService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, cfg.App, logger),
		SyncService:    NewSyncValidationService().Wrap(NewSyncService(storages.SyncRepository, cfg.Sync, logger)),
		AppInfoService: appInfo,
	}, nil
}
