package model

import "time"

// Audit holds the bookkeeping columns common to ledger and log entries.
type Audit struct {
	CreateBy   string    `json:"createBy,omitempty"`
	CreateTime time.Time `json:"createTime"`
	UpdateBy   string    `json:"updateBy,omitempty"`
	UpdateTime time.Time `json:"updateTime"`
}

// Touch stamps an update by operator at now.
func (a *Audit) Touch(operator string, now time.Time) {
	a.UpdateBy = operator
	a.UpdateTime = now
}

// Stamp initialises creation and update columns.
func (a *Audit) Stamp(operator string, now time.Time) {
	a.CreateBy = operator
	a.CreateTime = now
	a.Touch(operator, now)
}
