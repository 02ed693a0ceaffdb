package models

// SubdomainStatus is the triage state of a subdomain.
type SubdomainStatus string

const (
	StatusActive   SubdomainStatus = "active"
	StatusInactive SubdomainStatus = "inactive"
)

// Subdomain is a discovered host in a target's scope.
type Subdomain struct {
	Name       string          `gorm:"primaryKey" json:"name" validate:"required,max=253,host"`
	Status     SubdomainStatus `gorm:"not null" json:"status" validate:"required,oneof=active inactive"`
	Title      *string         `json:"title"`
	TargetName string          `gorm:"not null;index" json:"-" validate:"-"`
}

func (Subdomain) TableName() string { return "subdomain" }
