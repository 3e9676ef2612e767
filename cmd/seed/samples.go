package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"salonbiz-backend/models"
	"salonbiz-backend/services"

	"github.com/shopspring/decimal"
)

var appointmentTypes = []string{
	"Haircut", "Hair Coloring", "Manicure", "Pedicure", "Facial Treatment",
	"Eyebrow Shaping", "Hair Washing", "Blowdry", "Hair Treatment", "Makeup Session",
}

type sampleItem struct {
	description string
	inventory   int
	price       string
}

var catalogItems = []sampleItem{
	{"Professional Shampoo", 25, "29.99"},
	{"Hair Conditioner", 20, "24.99"},
	{"Hair Styling Gel", 15, "18.50"},
	{"Hair Serum", 12, "35.00"},
	{"Face Moisturizer", 30, "45.00"},
	{"Nail Polish - Red", 8, "12.99"},
	{"Nail Polish - Pink", 10, "12.99"},
	{"Nail Base Coat", 15, "15.99"},
	{"Cuticle Oil", 20, "8.99"},
	{"Hair Brush - Professional", 5, "55.00"},
	{"Makeup Sponges Pack", 40, "9.99"},
	{"Haircut Service", 0, "45.00"},
	{"Hair Coloring Service", 0, "85.00"},
	{"Manicure Service", 0, "25.00"},
	{"Pedicure Service", 0, "35.00"},
	{"Hair Dryer - Professional", 2, "150.00"},
	{"Salon Chair", 1, "350.00"},
	{"Sterilization Equipment", 1, "200.00"},
}

var (
	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Fabio", "Gabriela", "Heitor", "Isabela", "Joao"}
	lastNames  = []string{"Silva", "Souza", "Oliveira", "Santos", "Lima", "Pereira", "Costa", "Almeida"}
	cities     = []struct{ city, state string }{
		{"Sao Paulo", "SP"}, {"Rio de Janeiro", "RJ"}, {"Belo Horizonte", "MG"}, {"Curitiba", "PR"},
	}
	streets     = []string{"Rua das Flores", "Avenida Paulista", "Rua Augusta", "Rua XV de Novembro"}
)

func pick[T any](rnd *rand.Rand, items []T) T {
	return items[rnd.IntN(len(items))]
}

func sampleCustomer(rnd *rand.Rand, i int) services.CustomerInput {
	first, last := pick(rnd, firstNames), pick(rnd, lastNames)
	place := pick(rnd, cities)
	email := fmt.Sprintf("%s.%s.%d@example.com", first, last, i)
	phone := fmt.Sprintf("+55119%08d", rnd.IntN(100000000))
	dob := time.Date(1960+rnd.IntN(45), time.Month(1+rnd.IntN(12)), 1+rnd.IntN(28), 0, 0, 0, 0, time.UTC)
	number := fmt.Sprintf("%d", 1+rnd.IntN(2000))
	zip := fmt.Sprintf("%05d-%03d", rnd.IntN(100000), rnd.IntN(1000))
	gender := pick(rnd, models.Genders)
	street := pick(rnd, streets)
	neighborhood := "Centro"
	country := "Brazil"
	customerTags, customerPrefs := []string{}, []string{}
	for _, tag := range models.CustomerTags {
		if rnd.IntN(4) == 0 {
			customerTags = append(customerTags, tag)
		}
	}
	for _, pref := range models.CustomerPreferences {
		if rnd.IntN(2) == 0 {
			customerPrefs = append(customerPrefs, pref)
		}
	}

	return services.CustomerInput{
		FirstName:           &first,
		LastName:            &last,
		Email:               &email,
		Phone:               &phone,
		DateOfBirth:         &dob,
		Gender:              &gender,
		AddressStreet:       &street,
		AddressNumber:       &number,
		AddressNeighborhood: &neighborhood,
		AddressCity:         &place.city,
		AddressState:        &place.state,
		AddressZipCode:      &zip,
		AddressCountry:      &country,
		Preferences:         &customerPrefs,
		Tags:                &customerTags,
	}
}

func sampleCatalogItem(i int) services.OrderItemInput {
	s := catalogItems[i%len(catalogItems)]
	description := s.description
	if i >= len(catalogItems) {
		description = fmt.Sprintf("%s - %d", description, i+1)
	}
	inventory := s.inventory
	price := decimal.RequireFromString(s.price)
	return services.OrderItemInput{Description: &description, InventoryQuantity: &inventory, UnitPrice: &price}
}
