package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salonbiz-backend/apperr"
	"salonbiz-backend/models"
	"salonbiz-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomerService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCustomerService(db *gorm.DB, logger *zap.Logger) *CustomerService {
	return &CustomerService{db: db, logger: logger}
}

// CustomerInput creates or patches a customer; nil fields are untouched.
type CustomerInput struct {
	FirstName           *string
	LastName            *string
	Nickname            *string
	Email               *string
	Phone               *string
	DateOfBirth         *time.Time
	Gender              *string
	IsActive            *bool
	AddressStreet       *string
	AddressNumber       *string
	AddressNeighborhood *string
	AddressCity         *string
	AddressState        *string
	AddressZipCode      *string
	AddressCountry      *string
	Preferences         *[]string
	Tags                *[]string
}

type CustomerFilter struct {
	IsActive *bool
	Gender   string
	City     string
	State    string
	Country  string
	Search   string
	Ordering string
}

// AdvancedSearch matches name and location by substring; every listed tag
// and preference must be present.
type AdvancedSearch struct {
	Name        string
	Location    string
	Tags        []string
	Preferences []string
}

var customerOrdering = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (s *CustomerService) List(ctx context.Context, f CustomerFilter, page, pageSize int) ([]models.Customer, int64, error) {
	order, err := parseOrdering(f.Ordering, customerOrdering, "first_name,last_name")
	if err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.City != "" {
		q = q.Where("address_city = ?", f.City)
	}
	if f.State != "" {
		q = q.Where("address_state = ?", f.State)
	}
	if f.Country != "" {
		q = q.Where("address_country = ?", f.Country)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			p, p, p, p)
	}
	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	var customers []models.Customer
	if err := q.Order(order).Scopes(paginate(page, pageSize)).Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return customers, count, nil
}

// Search runs the advanced search. Tag and preference matching happens in Go
// so it works the same on every supported database.
func (s *CustomerService) Search(ctx context.Context, in AdvancedSearch, page, pageSize int) ([]models.Customer, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if in.Name != "" {
		p := likePattern(in.Name)
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(nickname) LIKE ?", p, p, p)
	}
	if in.Location != "" {
		p := likePattern(in.Location)
		q = q.Where("LOWER(address_city) LIKE ? OR LOWER(address_state) LIKE ? OR LOWER(address_country) LIKE ?", p, p, p)
	}

	var candidates []models.Customer
	if err := q.Order("first_name ASC, last_name ASC").Find(&candidates).Error; err != nil {
		return nil, 0, fmt.Errorf("search customers: %w", err)
	}

	matched := candidates[:0]
	for _, c := range candidates {
		if models.HasAll(c.Tags, in.Tags) && models.HasAll(c.Preferences, in.Preferences) {
			matched = append(matched, c)
		}
	}

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []models.Customer{}, total, nil
	}
	end := min(start+pageSize, len(matched))
	return matched[start:end], total, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "customer", id)
	}
	return &customer, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	fields := map[string]string{}
	requireString := func(name string, v *string) {
		if v == nil || strings.TrimSpace(*v) == "" {
			fields[name] = "is required"
		}
	}
	requireString("first_name", in.FirstName)
	requireString("last_name", in.LastName)
	requireString("email", in.Email)
	requireString("phone", in.Phone)
	requireString("gender", in.Gender)
	requireString("address_street", in.AddressStreet)
	requireString("address_number", in.AddressNumber)
	requireString("address_neighborhood", in.AddressNeighborhood)
	requireString("address_city", in.AddressCity)
	requireString("address_state", in.AddressState)
	requireString("address_zip_code", in.AddressZipCode)
	requireString("address_country", in.AddressCountry)
	if in.DateOfBirth == nil {
		fields["date_of_birth"] = "is required"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Message: "invalid customer", Fields: fields}
	}

	customer := models.Customer{
		IsActive:    true,
		Preferences: datatypes.JSONSlice[string]{},
		Tags:        datatypes.JSONSlice[string]{},
	}
	if err := applyCustomerInput(&customer, in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, customer.Email, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&customer).Error; err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.String("customer_id", customer.ID.String()))
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, in CustomerInput) (*models.Customer, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, "id = ?", id).Error; err != nil {
			return lookupErr(err, "customer", id)
		}
		if err := applyCustomerInput(&customer, in); err != nil {
			return err
		}
		if in.Email != nil {
			if err := ensureEmailFree(tx, customer.Email, id); err != nil {
				return err
			}
		}
		if err := tx.Save(&customer).Error; err != nil {
			return fmt.Errorf("update customer %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetActive activates or deactivates a customer. Customers are never
// hard-deleted; deleting one through the API deactivates it.
func (s *CustomerService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(customer).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("set customer %s active=%t: %w", id, active, err)
	}
	s.logger.Info("customer active flag changed",
		zap.String("customer_id", id.String()),
		zap.Bool("active", active),
	)
	return s.Get(ctx, id)
}

func ensureEmailFree(tx *gorm.DB, email string, self uuid.UUID) error {
	q := tx.Model(&models.Customer{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check customer email: %w", err)
	}
	if count > 0 {
		return apperr.Conflict("customer with email %s already exists", email)
	}
	return nil
}

func applyCustomerInput(c *models.Customer, in CustomerInput) error {
	fields := map[string]string{}

	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setString(&c.FirstName, in.FirstName)
	setString(&c.LastName, in.LastName)
	setString(&c.Nickname, in.Nickname)
	setString(&c.AddressStreet, in.AddressStreet)
	setString(&c.AddressNumber, in.AddressNumber)
	setString(&c.AddressNeighborhood, in.AddressNeighborhood)
	setString(&c.AddressCity, in.AddressCity)
	setString(&c.AddressState, in.AddressState)
	setString(&c.AddressZipCode, in.AddressZipCode)
	setString(&c.AddressCountry, in.AddressCountry)

	if in.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		if !strings.Contains(c.Email, "@") {
			fields["email"] = "must be a valid email address"
		}
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
		if !utils.ValidatePhone(c.Phone) {
			fields["phone"] = "must be entered in the format '+999999999', up to 15 digits"
		}
	}
	if in.DateOfBirth != nil {
		c.DateOfBirth = utils.BeginningOfDay(in.DateOfBirth.UTC())
	}
	if in.Gender != nil {
		c.Gender = *in.Gender
		if utils.SubsetOf([]string{c.Gender}, models.Genders) != "" {
			fields["gender"] = "must be one of male, female, other"
		}
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.Preferences != nil {
		if bad := utils.SubsetOf(*in.Preferences, models.CustomerPreferences); bad != "" {
			fields["preferences"] = fmt.Sprintf("%q is not a valid choice", bad)
		}
		c.Preferences = datatypes.JSONSlice[string](*in.Preferences)
	}
	if in.Tags != nil {
		if bad := utils.SubsetOf(*in.Tags, models.CustomerTags); bad != "" {
			fields["tags"] = fmt.Sprintf("%q is not a valid choice", bad)
		}
		c.Tags = datatypes.JSONSlice[string](*in.Tags)
	}

	if len(fields) > 0 {
		return &apperr.ValidationError{Message: "invalid customer", Fields: fields}
	}
	return nil
}
