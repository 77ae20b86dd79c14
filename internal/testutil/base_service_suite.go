package testutil

import (
	"context"
	"time"

	"github.com/Bedotech/smartbook/internal/cache"
	"github.com/Bedotech/smartbook/internal/config"
	"github.com/Bedotech/smartbook/internal/domain/booking"
	"github.com/Bedotech/smartbook/internal/domain/guest"
	"github.com/Bedotech/smartbook/internal/domain/taxrule"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/Bedotech/smartbook/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	TaxRuleRepo taxrule.Repository
	BookingRepo booking.Repository
	GuestRepo   guest.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Property = config.PropertyConfig{
		ID:           DefaultPropertyID,
		Name:         "Hotel Test",
		FacilityCode: "IT-TEST-01",
	}

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.cache = cache.NewInMemoryCache(true)
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TaxRuleRepo: NewInMemoryTaxRuleStore(),
		BookingRepo: NewInMemoryBookingStore(),
		GuestRepo:   NewInMemoryGuestStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TaxRuleRepo.(*InMemoryTaxRuleStore).Clear()
	s.stores.BookingRepo.(*InMemoryBookingStore).Clear()
	s.stores.GuestRepo.(*InMemoryGuestStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetUUID generates a unique identifier for testing
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
