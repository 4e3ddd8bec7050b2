package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AIOperation string

const (
	AIOperationGenerate      AIOperation = "generate"
	AIOperationRegenerateDay AIOperation = "regenerate_day"
)

type AIAuditStatus string

const (
	AIAuditSuccess AIAuditStatus = "success"
	AIAuditFailed  AIAuditStatus = "failed"
)

// AIAuditLog records one upstream model invocation. The raw response is kept
// verbatim; RepairedText is only set when a recovery strategy other than a
// direct parse succeeded.
type AIAuditLog struct {
	BaseModel
	OwnerID     uuid.UUID   `gorm:"type:uuid;index"`
	ItineraryID *uuid.UUID  `gorm:"type:uuid;index"`
	Operation   AIOperation `gorm:"size:32;index"`
	Model       string

	Prompt           string         `gorm:"type:text"`
	RawResponse      string         `gorm:"type:text"`
	ParsedResponse   datatypes.JSON `gorm:"type:jsonb"`
	RecoveryStrategy string         `gorm:"size:32"`
	Repaired         bool
	RepairedText     string `gorm:"type:text"`

	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CostUSD          float64 `gorm:"type:numeric(12,6)"`

	Status       AIAuditStatus `gorm:"size:16;index"`
	ErrorMessage string
	LatencyMs    int64
}
