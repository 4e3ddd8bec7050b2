package db_models

type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

type Plan struct {
	BaseModel
	Code     string `gorm:"uniqueIndex"` // e.g. "free", "explorer", "nomad"
	Name     string
	Period   BillingPeriod `gorm:"size:8"`
	IsActive bool          `gorm:"default:true"`

	// generations allowed per calendar month; 0 means unlimited
	MonthlyGenerations int `gorm:"default:0"`
}
