package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/pkg/types"
)

// Role роль пользователя в profiles
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBarber   Role = "barber"
	RoleAdmin    Role = "admin"
)

// IsStaff returns true for roles allowed to manage other people's bookings
func (r Role) IsStaff() bool {
	return r == RoleBarber || r == RoleAdmin
}

// Profile user profile (customers, barbers and admins share one table)
type Profile struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      Role
}

// FullName "First Last" без лишних пробелов
func (p *Profile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Barber profile with role barber and their working hours
type Barber struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Phone        string
	WorkingStart types.TimeString
	WorkingEnd   types.TimeString
}

// DisplayName имя для витрины
func (b *Barber) DisplayName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// WorkingHours extracts the barber's daily window
func (b *Barber) WorkingHours() *WorkingHours {
	return &WorkingHours{
		BarberID:  b.ID,
		StartTime: b.WorkingStart,
		EndTime:   b.WorkingEnd,
	}
}

// Service bookable service from the catalog
type Service struct {
	ID              uuid.UUID
	Name            string
	Description     string
	BasePrice       float64
	DurationMinutes int
	IsActive        bool
}

// PriceLabel форматирует цену для витрины и писем: "MYR 35", "MYR 42.50"
func PriceLabel(currency string, price float64) string {
	if price == float64(int64(price)) {
		return fmt.Sprintf("%s %d", currency, int64(price))
	}
	return fmt.Sprintf("%s %.2f", currency, price)
}
