package services

import (
	"time"

	"salonbiz-backend/config"
	"salonbiz-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options configures the shared service bundle. Sender may be nil, in which
// case notifications are logged as skipped.
type Options struct {
	Logger   *zap.Logger
	Metrics  *config.Metrics
	Sender   MessageSender
	Location *time.Location
	Auth     AuthConfig
}

// Services wires every domain service against one database handle.
type Services struct {
	Auth             *AuthService
	Orders           *OrderService
	Reports          *ReportService
	Catalog          *CatalogService
	OrderTypes       *LabelStore[models.OrderType]
	PaymentTypes     *LabelStore[models.PaymentType]
	Customers        *CustomerService
	AppointmentTypes *AppointmentTypeService
	Appointments     *AppointmentService
	Notifier         *AppointmentNotifier
	Templates        *ReminderTemplateService
	Dashboard        *DashboardService
}

func New(db *gorm.DB, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	s := &Services{
		Auth:             NewAuthService(db, opts.Auth, opts.Logger),
		Orders:           NewOrderService(db, opts.Logger, opts.Metrics),
		Reports:          NewReportService(db, opts.Location),
		Catalog:          NewCatalogService(db),
		OrderTypes:       NewOrderTypeStore(db),
		PaymentTypes:     NewPaymentTypeStore(db),
		Customers:        NewCustomerService(db, opts.Logger),
		AppointmentTypes: NewAppointmentTypeService(db),
		Notifier:         NewAppointmentNotifier(db, opts.Sender, opts.Logger, opts.Metrics, opts.Location),
		Templates:        NewReminderTemplateService(db),
	}
	s.Appointments = NewAppointmentService(db, opts.Logger, s.Notifier, opts.Location)
	s.Dashboard = NewDashboardService(db, s.Appointments, s.Reports, s.Catalog)
	return s
}

// Reminders builds the daily reminder job for the given cron schedule.
func (s *Services) Reminders(logger *zap.Logger, schedule string, loc *time.Location) *ReminderService {
	return NewReminderService(s.Appointments, s.Notifier, logger, schedule, loc)
}
