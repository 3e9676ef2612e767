// Command seed fills a database with sample customers, appointments, catalog
// items and orders for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/config"
	"salonbiz-backend/models"
	"salonbiz-backend/services"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type counts struct {
	created atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

// record classifies err: conflicts mean the row already exists.
func (c *counts) record(err error) error {
	var conflict *apperr.ConflictError
	switch {
	case err == nil:
		c.created.Add(1)
	case errors.As(err, &conflict):
		c.skipped.Add(1)
	default:
		c.failed.Add(1)
		return err
	}
	return nil
}

type seeder struct {
	db      *gorm.DB
	svc     *services.Services
	logger  *zap.Logger
	rnd     *rand.Rand
	workers int
}

func main() {
	var (
		customerCount    = flag.Int("customers", 20, "number of sample customers to create")
		appointmentCount = flag.Int("appointments", 30, "number of sample appointments to create")
		itemCount        = flag.Int("order-items", 15, "number of catalog items to create")
		orderCount       = flag.Int("orders", 20, "number of sample orders to create")
		workers          = flag.Int("workers", 4, "concurrent order writers")
		seed             = flag.Uint64("seed", 42, "random seed for sample data")
	)
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	db, err := config.ConnectDB(cfg.DatabaseOptions())
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := models.Migrate(db); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	ctx := context.Background()
	if err := services.EnsureReferenceData(ctx, db, logger); err != nil {
		logger.Fatal("failed to seed reference data", zap.Error(err))
	}

	s := &seeder{
		db:      db,
		svc:     services.New(db, services.Options{Logger: logger, Location: cfg.ReportingLocation}),
		logger:  logger,
		rnd:     rand.New(rand.NewPCG(*seed, *seed)),
		workers: *workers,
	}

	start := time.Now()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Entity", "Created", "Skipped", "Failed")

	steps := []struct {
		name string
		run  func(context.Context, *counts) error
	}{
		{"appointment types", s.appointmentTypes},
		{"customers", func(ctx context.Context, c *counts) error { return s.customers(ctx, c, *customerCount) }},
		{"appointments", func(ctx context.Context, c *counts) error { return s.appointments(ctx, c, *appointmentCount) }},
		{"order items", func(ctx context.Context, c *counts) error { return s.orderItems(ctx, c, *itemCount) }},
		{"orders", func(ctx context.Context, c *counts) error { return s.orders(ctx, c, *orderCount) }},
	}
	for _, step := range steps {
		var c counts
		if err := step.run(ctx, &c); err != nil {
			logger.Error("seed step failed", zap.String("step", step.name), zap.Error(err))
		}
		if err := table.Append([]string{
			step.name,
			fmt.Sprint(c.created.Load()),
			fmt.Sprint(c.skipped.Load()),
			fmt.Sprint(c.failed.Load()),
		}); err != nil {
			logger.Warn("failed to add summary row", zap.Error(err))
		}
	}
	if err := table.Render(); err != nil {
		logger.Warn("failed to render summary", zap.Error(err))
	}
	logger.Info("seeding finished", zap.Duration("elapsed", time.Since(start)))
}

func (s *seeder) appointmentTypes(ctx context.Context, c *counts) error {
	for _, description := range appointmentTypes {
		_, err := s.svc.AppointmentTypes.Create(ctx, description)
		if err := c.record(err); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) customers(ctx context.Context, c *counts, n int) error {
	for i := range n {
		_, err := s.svc.Customers.Create(ctx, sampleCustomer(s.rnd, i))
		if err := c.record(err); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) appointments(ctx context.Context, c *counts, n int) error {
	customers, err := s.ids(ctx, &models.Customer{})
	if err != nil {
		return err
	}
	types, err := s.ids(ctx, &models.AppointmentType{})
	if err != nil {
		return err
	}
	if len(customers) == 0 || len(types) == 0 {
		return errors.New("customers and appointment types are required before appointments")
	}

	now := time.Now().UTC().Truncate(time.Hour)
	for range n {
		customerID, typeID := pick(s.rnd, customers), pick(s.rnd, types)
		startAt := now.Add(time.Duration(s.rnd.IntN(24*30)-24*7) * time.Hour)
		endAt := startAt.Add(time.Duration(30+30*s.rnd.IntN(4)) * time.Minute)
		_, err := s.svc.Appointments.Create(ctx, services.AppointmentInput{
			CustomerID:        &customerID,
			AppointmentTypeID: &typeID,
			StartTime:         &startAt,
			EndTime:           &endAt,
		})
		if err := c.record(err); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) orderItems(ctx context.Context, c *counts, n int) error {
	existing, err := s.ids(ctx, &models.OrderItem{})
	if err != nil {
		return err
	}
	for i := len(existing); i < n; i++ {
		_, err := s.svc.Catalog.Create(ctx, sampleCatalogItem(i))
		if err := c.record(err); err != nil {
			return err
		}
	}
	c.skipped.Add(int64(min(len(existing), n)))
	return nil
}

// orders builds every order up front so the random stream stays
// deterministic, then writes them with bounded concurrency.
func (s *seeder) orders(ctx context.Context, c *counts, n int) error {
	customers, err := s.ids(ctx, &models.Customer{})
	if err != nil {
		return err
	}
	items, err := s.ids(ctx, &models.OrderItem{})
	if err != nil {
		return err
	}
	payments, err := s.svc.PaymentTypes.List(ctx)
	if err != nil {
		return err
	}
	income, err := s.svc.OrderTypes.FindByLabel(ctx, models.OrderTypeIncome)
	if err != nil {
		return err
	}
	expense, err := s.svc.OrderTypes.FindByLabel(ctx, models.OrderTypeExpense)
	if err != nil {
		return err
	}
	if len(customers) == 0 || len(items) == 0 || len(payments) == 0 {
		return errors.New("customers, order items and payment types are required before orders")
	}

	inputs := make([]services.CreateOrderInput, 0, n)
	for range n {
		orderType := income.ID
		if s.rnd.IntN(5) == 0 {
			orderType = expense.ID
		}
		in := services.CreateOrderInput{
			CustomerID:    pick(s.rnd, customers),
			OrderTypeID:   orderType,
			PaymentTypeID: pick(s.rnd, payments).ID,
		}
		for range 1 + s.rnd.IntN(3) {
			in.Items = append(in.Items, services.LineInput{
				OrderItemID: pick(s.rnd, items),
				Quantity:    1 + s.rnd.IntN(3),
			})
		}
		inputs = append(inputs, in)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.workers, 1))
	for _, in := range inputs {
		g.Go(func() error {
			_, err := s.svc.Orders.CreateWithItems(ctx, in)
			return c.record(err)
		})
	}
	return g.Wait()
}

func (s *seeder) ids(ctx context.Context, model any) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Model(model).Order("created_at").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load ids: %w", err)
	}
	return ids, nil
}
