package repository

import (
	"github.com/Bedotech/smartbook/internal/domain/booking"
	"github.com/Bedotech/smartbook/internal/domain/guest"
	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/postgres"
	postgresRepo "github.com/Bedotech/smartbook/internal/repository/postgres"
)

func NewTaxRuleRepository(db *postgres.DB, logger *logger.Logger) taxrule.Repository {
	return postgresRepo.NewTaxRuleRepository(db, logger)
}

func NewBookingRepository(db *postgres.DB, logger *logger.Logger) booking.Repository {
	return postgresRepo.NewBookingRepository(db, logger)
}

func NewGuestRepository(db *postgres.DB, logger *logger.Logger) guest.Repository {
	return postgresRepo.NewGuestRepository(db, logger)
}
