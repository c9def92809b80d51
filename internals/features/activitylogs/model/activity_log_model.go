// file: internals/features/activitylogs/model/activity_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	UserModel "iplku_backend/internals/features/users/user/model"
)

/* =========================
   Action & entity type (set tertutup)
   ========================= */

// Action adalah nama aksi yang dicatat. Dulu kolom ini free-form string;
// sekarang dikunci ke set tetap supaya query audit tidak pecah gara-gara typo.
type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionDeleted     Action = "deleted"
	ActionImportData  Action = "import_data"
	ActionExportData  Action = "export_data"
	ActionUpdateSheet Action = "update_sheet"
)

type EntityType string

const (
	EntityIplPayment EntityType = "IplPayment"
	EntityExpense    EntityType = "Expense"
	EntityResident   EntityType = "Resident"
	EntityDataSync   EntityType = "DataSync"
)

/* =========================
   Model: activity_logs
   ========================= */

// ActivityLog adalah jejak audit append-only. Aplikasi tidak pernah meng-update
// atau menghapus baris di sini; penghapusan hanya lewat cascade user pemiliknya.
type ActivityLog struct {
	ID uint `json:"id" gorm:"primaryKey"`

	UserID uuid.UUID       `json:"user_id" gorm:"column:user_id;type:uuid;not null;index"`
	User   *UserModel.User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Action     Action     `json:"action"      gorm:"column:action;size:50;not null;index"`
	EntityType EntityType `json:"entity_type" gorm:"column:entity_type;size:50;not null;index"`
	EntityID   *uint      `json:"entity_id,omitempty" gorm:"column:entity_id;index"`

	// snapshot nilai sebelum/sesudah mutasi (JSONB)
	OldValues datatypes.JSON `json:"old_values,omitempty" gorm:"column:old_values;type:jsonb"`
	NewValues datatypes.JSON `json:"new_values,omitempty" gorm:"column:new_values;type:jsonb"`

	IPAddress *string `json:"ip_address,omitempty" gorm:"column:ip_address;size:45"`
	UserAgent *string `json:"user_agent,omitempty" gorm:"column:user_agent;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
