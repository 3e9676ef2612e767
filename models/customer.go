package models

import (
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

var (
	Genders             = []string{GenderMale, GenderFemale, GenderOther}
	CustomerPreferences = []string{"whatsapp_news", "email_news"}
	CustomerTags        = []string{"VIP", "Diabetic"}
)

type Customer struct {
	Base

	FirstName   string    `gorm:"size:100;not null"`
	LastName    string    `gorm:"size:100;not null"`
	Nickname    string    `gorm:"size:100"`
	Email       string    `gorm:"size:254;uniqueIndex;not null"`
	Phone       string    `gorm:"size:17;not null"`
	DateOfBirth time.Time `gorm:"type:date;not null"`
	Gender      string    `gorm:"size:10;not null"`
	IsActive    bool      `gorm:"not null;index"`

	AddressStreet       string `gorm:"size:255"`
	AddressNumber       string `gorm:"size:20"`
	AddressNeighborhood string `gorm:"size:100"`
	AddressCity         string `gorm:"size:100;index"`
	AddressState        string `gorm:"size:100;index"`
	AddressZipCode      string `gorm:"size:20"`
	AddressCountry      string `gorm:"size:100;index"`

	Preferences datatypes.JSONSlice[string]
	Tags        datatypes.JSONSlice[string]
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FullAddress joins the non-empty address parts.
func (c *Customer) FullAddress() string {
	street := c.AddressStreet
	if c.AddressNumber != "" {
		street = strings.TrimSpace(street + ", " + c.AddressNumber)
	}
	var parts []string
	for _, p := range []string{street, c.AddressNeighborhood, c.AddressCity, c.AddressState, c.AddressZipCode, c.AddressCountry} {
		if p = strings.TrimSpace(p); p != "" && p != "," {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// HasAll reports whether every wanted value is present in have.
func HasAll(have []string, wanted []string) bool {
	for _, w := range wanted {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}
