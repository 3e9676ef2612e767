package controllers

import (
	"time"

	"salonbiz-backend/models"
	"salonbiz-backend/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(services.CurrencyPlaces)
}

type OrderTypeResponse struct {
	UUID      uuid.UUID `json:"uuid"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func SerializeOrderType(t *models.OrderType) OrderTypeResponse {
	return OrderTypeResponse{UUID: t.ID, Type: t.Type, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func SerializePaymentType(t *models.PaymentType) OrderTypeResponse {
	return OrderTypeResponse{UUID: t.ID, Type: t.Type, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

type OrderItemResponse struct {
	UUID              uuid.UUID `json:"uuid"`
	Description       string    `json:"description"`
	InventoryQuantity int       `json:"inventory_quantity"`
	UnitPrice         string    `json:"unit_price"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func serializeOrderItem(i *models.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		UUID:              i.ID,
		Description:       i.Description,
		InventoryQuantity: i.InventoryQuantity,
		UnitPrice:         money(i.UnitPrice),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

type OrderItemLineResponse struct {
	UUID                 uuid.UUID `json:"uuid"`
	Order                uuid.UUID `json:"order"`
	OrderItem            uuid.UUID `json:"order_item"`
	OrderItemDescription string    `json:"order_item_description"`
	Quantity             int       `json:"quantity"`
	UnitPrice            string    `json:"unit_price"`
	TotalPrice           string    `json:"total_price"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func serializeLine(l *models.OrderItemLine) OrderItemLineResponse {
	resp := OrderItemLineResponse{
		UUID:       l.ID,
		Order:      l.OrderID,
		OrderItem:  l.OrderItemID,
		Quantity:   l.Quantity,
		UnitPrice:  money(l.UnitPrice),
		TotalPrice: money(l.TotalPrice),
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
	if l.OrderItem != nil {
		resp.OrderItemDescription = l.OrderItem.Description
	}
	return resp
}

type AppointmentInfo struct {
	UUID            uuid.UUID `json:"uuid"`
	StartTime       time.Time `json:"start_time"`
	AppointmentType string    `json:"appointment_type"`
}

type OrderResponse struct {
	UUID            uuid.UUID               `json:"uuid"`
	Customer        uuid.UUID               `json:"customer"`
	CustomerName    string                  `json:"customer_name"`
	OrderType       uuid.UUID               `json:"order_type"`
	OrderTypeName   string                  `json:"order_type_name"`
	PaymentType     uuid.UUID               `json:"payment_type"`
	PaymentTypeName string                  `json:"payment_type_name"`
	Appointment     *uuid.UUID              `json:"appointment"`
	AppointmentInfo *AppointmentInfo        `json:"appointment_info"`
	Total           string                  `json:"total"`
	OrderItems      []OrderItemLineResponse `json:"order_items"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func serializeOrder(o *models.Order) OrderResponse {
	resp := OrderResponse{
		UUID:        o.ID,
		Customer:    o.CustomerID,
		OrderType:   o.OrderTypeID,
		PaymentType: o.PaymentTypeID,
		Appointment: o.AppointmentID,
		Total:       money(o.Total),
		OrderItems:  mapSlice(o.Lines, serializeLine),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.Customer != nil {
		resp.CustomerName = o.Customer.FullName()
	}
	if o.OrderType != nil {
		resp.OrderTypeName = o.OrderType.Type
	}
	if o.PaymentType != nil {
		resp.PaymentTypeName = o.PaymentType.Type
	}
	if a := o.Appointment; a != nil {
		info := &AppointmentInfo{UUID: a.ID, StartTime: a.StartTime}
		if a.AppointmentType != nil {
			info.AppointmentType = a.AppointmentType.Description
		}
		resp.AppointmentInfo = info
	}
	return resp
}

type CustomerResponse struct {
	UUID                uuid.UUID `json:"uuid"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Nickname            string    `json:"nickname"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	DateOfBirth         string    `json:"date_of_birth"`
	Gender              string    `json:"gender"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	IsActive            bool      `json:"is_active"`
	AddressStreet       string    `json:"address_street"`
	AddressNumber       string    `json:"address_number"`
	AddressNeighborhood string    `json:"address_neighborhood"`
	AddressCity         string    `json:"address_city"`
	AddressState        string    `json:"address_state"`
	AddressZipCode      string    `json:"address_zip_code"`
	AddressCountry      string    `json:"address_country"`
	Preferences         []string  `json:"preferences"`
	Tags                []string  `json:"tags"`
	FullName            string    `json:"full_name"`
	FullAddress         string    `json:"full_address"`
}

func serializeCustomer(c *models.Customer) CustomerResponse {
	prefs, tags := []string(c.Preferences), []string(c.Tags)
	if prefs == nil {
		prefs = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return CustomerResponse{
		UUID:                c.ID,
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Nickname:            c.Nickname,
		Email:               c.Email,
		Phone:               c.Phone,
		DateOfBirth:         c.DateOfBirth.Format(time.DateOnly),
		Gender:              c.Gender,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		IsActive:            c.IsActive,
		AddressStreet:       c.AddressStreet,
		AddressNumber:       c.AddressNumber,
		AddressNeighborhood: c.AddressNeighborhood,
		AddressCity:         c.AddressCity,
		AddressState:        c.AddressState,
		AddressZipCode:      c.AddressZipCode,
		AddressCountry:      c.AddressCountry,
		Preferences:         prefs,
		Tags:                tags,
		FullName:            c.FullName(),
		FullAddress:         c.FullAddress(),
	}
}

type AppointmentTypeResponse struct {
	UUID        uuid.UUID `json:"uuid"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func serializeAppointmentType(t *models.AppointmentType) AppointmentTypeResponse {
	return AppointmentTypeResponse{UUID: t.ID, Description: t.Description, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

type AppointmentResponse struct {
	UUID                       uuid.UUID `json:"uuid"`
	Customer                   uuid.UUID `json:"customer"`
	CustomerName               string    `json:"customer_name"`
	AppointmentType            uuid.UUID `json:"appointment_type"`
	AppointmentTypeDescription string    `json:"appointment_type_description"`
	StartTime                  time.Time `json:"start_time"`
	EndTime                    time.Time `json:"end_time"`
	Status                     string    `json:"status"`
	Notes                      string    `json:"notes"`
	CancellationReason         string    `json:"cancellation_reason"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
	DurationMinutes            int       `json:"duration_minutes"`
}

func serializeAppointment(a *models.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		UUID:               a.ID,
		Customer:           a.CustomerID,
		AppointmentType:    a.AppointmentTypeID,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		Status:             a.Status,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		DurationMinutes:    a.DurationMinutes(),
	}
	if a.Customer != nil {
		resp.CustomerName = a.Customer.FullName()
	}
	if a.AppointmentType != nil {
		resp.AppointmentTypeDescription = a.AppointmentType.Description
	}
	return resp
}

type UserResponse struct {
	UUID        uuid.UUID  `json:"uuid"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	IsActive    bool       `json:"is_active"`
	DateJoined  time.Time  `json:"date_joined"`
	LastLogin   *time.Time `json:"last_login"`
}

func serializeUser(u *models.User) UserResponse {
	return UserResponse{
		UUID:        u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		DateJoined:  u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}

type ReminderTemplateResponse struct {
	UUID      uuid.UUID `json:"uuid"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func serializeReminderTemplate(t *models.ReminderTemplate) ReminderTemplateResponse {
	return ReminderTemplateResponse{
		UUID:      t.ID,
		Kind:      t.Kind,
		Message:   t.Message,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type ReminderLogResponse struct {
	UUID         uuid.UUID `json:"uuid"`
	Appointment  uuid.UUID `json:"appointment"`
	Customer     uuid.UUID `json:"customer"`
	Kind         string    `json:"kind"`
	Channel      string    `json:"channel"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	ErrorMessage string    `json:"error_message,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

func serializeReminderLog(l *models.ReminderLog) ReminderLogResponse {
	return ReminderLogResponse{
		UUID:         l.ID,
		Appointment:  l.AppointmentID,
		Customer:     l.CustomerID,
		Kind:         l.Kind,
		Channel:      l.Channel,
		Status:       l.Status,
		Message:      l.Message,
		ErrorMessage: l.ErrorMessage,
		SentAt:       l.SentAt,
	}
}
