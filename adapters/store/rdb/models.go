package rdb

import "time"

// VolumeRow is the RDB persistence model for domain Volume. The structured
// labels get their own columns so they can be filtered; unknown label keys
// are kept as JSON in LabelsExtra.
// Table name: volumes
type VolumeRow struct {
	ID          string    `gorm:"primaryKey;type:text;not null"`
	Name        string    `gorm:"type:text;not null;uniqueIndex"`
	Driver      string    `gorm:"type:text;not null"`
	Mountpoint  string    `gorm:"type:text"`
	Options     string    `gorm:"type:text"` // JSON encoded model.Options
	QuotaRule   string    `gorm:"type:text"` // JSON encoded model.QuotaRule
	VolumeType  string    `gorm:"type:text;not null"`
	UserID      string    `gorm:"type:text;not null;index"`
	Username    string    `gorm:"type:text;index"`
	ZfsDataset  string    `gorm:"type:text"`
	IsBuiltIn   bool      `gorm:"not null"`
	Alias       string    `gorm:"type:text"`
	LabelsExtra string    `gorm:"type:text"` // JSON encoded map[string]any
	CreateTime  time.Time `gorm:"not null"`
	UpdateTime  time.Time `gorm:"not null"`
}

func (VolumeRow) TableName() string { return "volumes" }

// VolumeRecordRow persistence model. Labels and Options are stored verbatim.
type VolumeRecordRow struct {
	ID         string    `gorm:"primaryKey;type:text;not null"`
	VolumeName string    `gorm:"type:text;not null;index"`
	ZfsDataset string    `gorm:"type:text;not null"`
	Driver     string    `gorm:"type:text"`
	Labels     string    `gorm:"type:text"`
	Options    string    `gorm:"type:text"`
	Remark     string    `gorm:"type:text"`
	CreateBy   string    `gorm:"type:text"`
	CreateTime time.Time `gorm:"not null"`
	UpdateBy   string    `gorm:"type:text"`
	UpdateTime time.Time `gorm:"not null"`
}

func (VolumeRecordRow) TableName() string { return "volume_records" }

// OperateLogRow persistence model
type OperateLogRow struct {
	SagaOperateID   string    `gorm:"primaryKey;type:text;not null"`
	SagaName        string    `gorm:"type:text;not null;index"`
	SagaStatus      string    `gorm:"type:text;not null"`
	CurrentStepName string    `gorm:"type:text"`
	SagaContextJSON string    `gorm:"column:saga_context_json;type:text"`
	ErrorDetails    string    `gorm:"type:text"`
	CreateBy        string    `gorm:"type:text"`
	CreateTime      time.Time `gorm:"not null"`
	UpdateBy        string    `gorm:"type:text"`
	UpdateTime      time.Time `gorm:"not null"`
}

func (OperateLogRow) TableName() string { return "saga_operate_logs" }
