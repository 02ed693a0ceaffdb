package models

// Target is a root domain enrolled in a bounty program.
type Target struct {
	Name       string      `gorm:"primaryKey" json:"name"`
	ProgramURL string      `gorm:"size:200;not null" json:"program_url"`
	Notes      *string     `gorm:"size:140" json:"notes"`
	Subdomains []Subdomain `gorm:"foreignKey:TargetName;references:Name;constraint:OnDelete:CASCADE" json:"subdomains"`
}

func (Target) TableName() string { return "target" }

// TargetCreate is the writable part of a target, used for both create and
// full replacement.
type TargetCreate struct {
	ProgramURL string  `json:"program_url" validate:"required,max=200"`
	Notes      *string `json:"notes" validate:"omitempty,max=140"`
}
