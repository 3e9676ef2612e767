package controllers

import (
	"net/http"
	"time"

	"salonbiz-backend/services"
	"salonbiz-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CustomerController struct {
	customers *services.CustomerService
	logger    *zap.Logger
}

func NewCustomerController(customers *services.CustomerService, logger *zap.Logger) *CustomerController {
	return &CustomerController{customers: customers, logger: logger}
}

// CustomerRequest is shared by create and update. Required fields for a
// create are enforced by the service so PATCH bodies may omit them.
type CustomerRequest struct {
	FirstName           *string   `json:"first_name" binding:"omitempty,max=100"`
	LastName            *string   `json:"last_name" binding:"omitempty,max=100"`
	Nickname            *string   `json:"nickname" binding:"omitempty,max=50"`
	Email               *string   `json:"email" binding:"omitempty,email"`
	Phone               *string   `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth         *string   `json:"date_of_birth"`
	Gender              *string   `json:"gender"`
	IsActive            *bool     `json:"is_active"`
	AddressStreet       *string   `json:"address_street"`
	AddressNumber       *string   `json:"address_number"`
	AddressNeighborhood *string   `json:"address_neighborhood"`
	AddressCity         *string   `json:"address_city"`
	AddressState        *string   `json:"address_state"`
	AddressZipCode      *string   `json:"address_zip_code"`
	AddressCountry      *string   `json:"address_country"`
	Preferences         *[]string `json:"preferences"`
	Tags                *[]string `json:"tags"`
}

// input converts the body, writing a 400 when date_of_birth is malformed.
func (r CustomerRequest) input(c *gin.Context) (services.CustomerInput, bool) {
	in := services.CustomerInput{
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		Nickname:            r.Nickname,
		Email:               r.Email,
		Phone:               r.Phone,
		Gender:              r.Gender,
		IsActive:            r.IsActive,
		AddressStreet:       r.AddressStreet,
		AddressNumber:       r.AddressNumber,
		AddressNeighborhood: r.AddressNeighborhood,
		AddressCity:         r.AddressCity,
		AddressState:        r.AddressState,
		AddressZipCode:      r.AddressZipCode,
		AddressCountry:      r.AddressCountry,
		Preferences:         r.Preferences,
		Tags:                r.Tags,
	}
	if r.DateOfBirth != nil {
		dob, err := time.Parse(time.DateOnly, *r.DateOfBirth)
		if err != nil {
			utils.RespondWithFieldErrors(c, http.StatusBadRequest, "invalid input",
				map[string]string{"date_of_birth": "must be a date in YYYY-MM-DD format"})
			return in, false
		}
		in.DateOfBirth = &dob
	}
	return in, true
}

func (cc *CustomerController) List(c *gin.Context) {
	f := services.CustomerFilter{
		Gender:   c.Query("gender"),
		City:     c.Query("address_city"),
		State:    c.Query("address_state"),
		Country:  c.Query("address_country"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	var ok bool
	if f.IsActive, ok = queryBool(c, "is_active"); !ok {
		return
	}
	cc.list(c, f)
}

func (cc *CustomerController) Active(c *gin.Context) {
	active := true
	cc.list(c, services.CustomerFilter{IsActive: &active})
}

func (cc *CustomerController) list(c *gin.Context, f services.CustomerFilter) {
	pageNum, pageSize := utils.ParsePagination(c)
	customers, count, err := cc.customers.List(c.Request.Context(), f, pageNum, pageSize)
	if err != nil {
		handleServiceError(c, err, cc.logger)
		return
	}
	writePage(c, mapSlice(customers, serializeCustomer), count, pageNum, pageSize)
}

func (cc *CustomerController) SearchAdvanced(c *gin.Context) {
	pageNum, pageSize := utils.ParsePagination(c)
	customers, count, err := cc.customers.Search(c.Request.Context(), services.AdvancedSearch{
		Name:        c.Query("name"),
		Location:    c.Query("location"),
		Tags:        queryList(c, "tags"),
		Preferences: queryList(c, "preferences"),
	}, pageNum, pageSize)
	if err != nil {
		handleServiceError(c, err, cc.logger)
		return
	}
	writePage(c, mapSlice(customers, serializeCustomer), count, pageNum, pageSize)
}

func (cc *CustomerController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := cc.customers.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, cc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeCustomer(customer))
}

func (cc *CustomerController) Create(c *gin.Context) {
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	in, ok := req.input(c)
	if !ok {
		return
	}
	customer, err := cc.customers.Create(c.Request.Context(), in)
	if err != nil {
		handleServiceError(c, err, cc.logger)
		return
	}
	c.JSON(http.StatusCreated, serializeCustomer(customer))
}

func (cc *CustomerController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	in, ok := req.input(c)
	if !ok {
		return
	}
	customer, err := cc.customers.Update(c.Request.Context(), id, in)
	if err != nil {
		handleServiceError(c, err, cc.logger)
		return
	}
	c.JSON(http.StatusOK, serializeCustomer(customer))
}

// Delete deactivates rather than removing, keeping the customer's orders
// and appointments intact.
func (cc *CustomerController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := cc.customers.SetActive(c.Request.Context(), id, false); err != nil {
		handleServiceError(c, err, cc.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CustomerController) Activate(c *gin.Context) {
	cc.setActive(c, true, "Customer activated successfully")
}

func (cc *CustomerController) Deactivate(c *gin.Context) {
	cc.setActive(c, false, "Customer deactivated successfully")
}

func (cc *CustomerController) setActive(c *gin.Context, active bool, message string) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	customer, err := cc.customers.SetActive(c.Request.Context(), id, active)
	if err != nil {
		handleServiceError(c, err, cc.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "customer": serializeCustomer(customer)})
}
