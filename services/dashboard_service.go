package services

import (
	"context"
	"fmt"

	"salonbiz-backend/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DashboardService assembles the landing-page overview from the other
// read models.
type DashboardService struct {
	db      *gorm.DB
	appts   *AppointmentService
	reports *ReportService
	catalog *CatalogService
}

func NewDashboardService(db *gorm.DB, appts *AppointmentService, reports *ReportService, catalog *CatalogService) *DashboardService {
	return &DashboardService{db: db, appts: appts, reports: reports, catalog: catalog}
}

type Overview struct {
	ActiveCustomers      int64
	AppointmentsToday    []models.Appointment
	UpcomingAppointments []models.Appointment
	ThisMonth            MonthStatistics
	LowStockItems        []models.OrderItem
}

// Overview runs the independent queries concurrently.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.db.WithContext(ctx).Model(&models.Customer{}).Where("is_active = ?", true).Count(&out.ActiveCustomers).Error
		if err != nil {
			return fmt.Errorf("count active customers: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		out.AppointmentsToday, err = s.appts.Today(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.UpcomingAppointments, err = s.appts.Upcoming(ctx)
		return err
	})
	g.Go(func() error {
		stats, err := s.reports.Statistics(ctx)
		if err != nil {
			return err
		}
		out.ThisMonth = stats.ThisMonth
		return nil
	})
	g.Go(func() (err error) {
		out.LowStockItems, err = s.catalog.LowStock(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
