package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Tower represents a single tower site in the portfolio.
type Tower struct {
	ID        string
	TowerID   string
	Name      string
	Type      string
	Status    string
	Latitude  float64
	Longitude float64
	Height    float64
}

// GenerateHash creates a stable key for duplicate detection across imports.
func (t *Tower) GenerateHash() string {
	data := fmt.Sprintf("%s:%.6f:%.6f", t.TowerID, t.Latitude, t.Longitude)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ToRecord converts the tower to a loosely-typed record for the transform
// pipeline.
func (t *Tower) ToRecord() Record {
	return Record{
		"id":        t.ID,
		"tower_id":  t.TowerID,
		"name":      t.Name,
		"type":      t.Type,
		"status":    t.Status,
		"latitude":  t.Latitude,
		"longitude": t.Longitude,
		"height":    t.Height,
	}
}

// Contract represents a lease contract between a tower and a landlord.
type Contract struct {
	StartDate   time.Time
	EndDate     time.Time
	ID          string
	ContractID  string
	TowerID     string
	LandlordID  string
	Currency    string
	Status      string
	MonthlyRate float64
}

// GenerateHash creates a stable key for duplicate detection across imports.
func (c *Contract) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s", c.ContractID, c.TowerID,
		c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ToRecord converts the contract to a loosely-typed record. Dates stay as
// time.Time so date coercion at the transform boundary is lossless.
func (c *Contract) ToRecord() Record {
	return Record{
		"id":           c.ID,
		"contract_id":  c.ContractID,
		"tower_id":     c.TowerID,
		"landlord_id":  c.LandlordID,
		"start_date":   c.StartDate,
		"end_date":     c.EndDate,
		"monthly_rate": c.MonthlyRate,
		"currency":     c.Currency,
		"status":       c.Status,
	}
}

// Landlord represents a property owner with one or more contracts.
type Landlord struct {
	ID          string
	LandlordID  string
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
}

// GenerateHash creates a stable key for duplicate detection across imports.
func (l *Landlord) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s", l.LandlordID, l.Name, l.Email)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ToRecord converts the landlord to a loosely-typed record.
func (l *Landlord) ToRecord() Record {
	return Record{
		"id":           l.ID,
		"landlord_id":  l.LandlordID,
		"name":         l.Name,
		"contact_name": l.ContactName,
		"email":        l.Email,
		"phone":        l.Phone,
		"address":      l.Address,
	}
}

// Payment represents a single rent payment against a contract.
type Payment struct {
	PaymentDate time.Time
	ID          string
	ContractID  string
	Status      string
	ReferenceID string
	Amount      float64
}

// GenerateHash creates a stable key for duplicate detection across imports.
func (p *Payment) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%s", p.ContractID,
		p.PaymentDate.Format("2006-01-02"), p.Amount, p.ReferenceID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ToRecord converts the payment to a loosely-typed record.
func (p *Payment) ToRecord() Record {
	return Record{
		"id":           p.ID,
		"contract_id":  p.ContractID,
		"payment_date": p.PaymentDate,
		"amount":       p.Amount,
		"status":       p.Status,
		"reference_id": p.ReferenceID,
	}
}
