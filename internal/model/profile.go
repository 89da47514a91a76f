package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
	ProfileTypeAdmin      ProfileType = "admin"
)

type Profile struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Profession string
	Balance    decimal.Decimal
	Type       ProfileType
}

func (p Profile) IsClient() bool {
	return p.Type == ProfileTypeClient
}

func (p Profile) IsContractor() bool {
	return p.Type == ProfileTypeContractor
}

func (p Profile) IsAdmin() bool {
	return p.Type == ProfileTypeAdmin
}

// Principal is the resolved identity attached to a request by the auth
// middleware. Downstream code trusts it without re-verification.
type Principal struct {
	ID   uuid.UUID
	Type ProfileType
}

func (p Principal) IsAdmin() bool {
	return p.Type == ProfileTypeAdmin
}
