package service

import (
	"github.com/Bedotech/smartbook/internal/cache"
	"github.com/Bedotech/smartbook/internal/config"
	"github.com/Bedotech/smartbook/internal/domain/booking"
	"github.com/Bedotech/smartbook/internal/domain/citytax"
	"github.com/Bedotech/smartbook/internal/domain/guest"
	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     *postgres.DB
	Cache  cache.Cache

	Calculator citytax.Calculator

	// Repositories
	TaxRuleRepo taxrule.Repository
	BookingRepo booking.Repository
	GuestRepo   guest.Repository
}

func NewServiceParams(
	logger *logger.Logger,
	cfg *config.Configuration,
	db *postgres.DB,
	cacheClient cache.Cache,
	calculator citytax.Calculator,
	taxRuleRepo taxrule.Repository,
	bookingRepo booking.Repository,
	guestRepo guest.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      cfg,
		DB:          db,
		Cache:       cacheClient,
		Calculator:  calculator,
		TaxRuleRepo: taxRuleRepo,
		BookingRepo: bookingRepo,
		GuestRepo:   guestRepo,
	}
}
