package api

import (
	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/auth"
	"github.com/medibook/medibook/internal/booking"
	"github.com/medibook/medibook/internal/doctor"
	"github.com/medibook/medibook/internal/notification"
	"github.com/medibook/medibook/internal/observability/metrics"
	"github.com/medibook/medibook/internal/upload"
	"github.com/medibook/medibook/pkg/logging"
)

// API bundles the services behind the HTTP surface.
type API struct {
	accounts      *account.Service
	doctors       *doctor.Service
	bookings      *booking.Service
	notifications *notification.Service
	accountRepo   account.Repository
	tokens        *auth.TokenIssuer
	uploads       upload.Store
	metrics       *metrics.BookingMetrics
	env           string
	logger        *logging.Logger
}

type Deps struct {
	Accounts      *account.Service
	Doctors       *doctor.Service
	Bookings      *booking.Service
	Notifications *notification.Service
	AccountRepo   account.Repository
	Tokens        *auth.TokenIssuer
	Uploads       upload.Store
	Metrics       *metrics.BookingMetrics
	Env           string
	Logger        *logging.Logger
}

func New(d Deps) *API {
	logger := d.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &API{
		accounts:      d.Accounts,
		doctors:       d.Doctors,
		bookings:      d.Bookings,
		notifications: d.Notifications,
		accountRepo:   d.AccountRepo,
		tokens:        d.Tokens,
		uploads:       d.Uploads,
		metrics:       d.Metrics,
		env:           d.Env,
		logger:        logger,
	}
}
