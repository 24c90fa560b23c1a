package model

import (
	"cmp"
	"fmt"
	"strings"
)

// SagaStatus is owned by the saga orchestrator. volsaga stores whatever
// value it is given and only interprets the terminal ones.
type SagaStatus string

const (
	SagaStatusCompleted   SagaStatus = "COMPLETED"
	SagaStatusFailed      SagaStatus = "FAILED"
	SagaStatusCompensated SagaStatus = "COMPENSATED"
)

// IsTerminal reports whether the saga has stopped for good. Unknown values
// are treated as still running.
func (s SagaStatus) IsTerminal() bool {
	switch SagaStatus(strings.ToUpper(strings.TrimSpace(string(s)))) {
	case SagaStatusCompleted, SagaStatusFailed, SagaStatusCompensated:
		return true
	}
	return false
}

// OperateLog is one audit snapshot of a saga execution.
type OperateLog struct {
	SagaOperateID   string     `json:"sagaOperateId"`
	SagaName        string     `json:"sagaName"`
	SagaStatus      SagaStatus `json:"sagaStatus"`
	CurrentStepName string     `json:"currentStepName"`
	SagaContextJSON string     `json:"sagaContextJson"` // opaque to volsaga
	ErrorDetails    string     `json:"errorDetails"`
	Audit
}

func (l *OperateLog) Clone() *OperateLog {
	if l == nil {
		return nil
	}
	cp := *l
	return &cp
}

func (l *OperateLog) Validate() error {
	if l.SagaName == "" {
		return fmt.Errorf("%w: sagaName is required", ErrOperateLogInvalid)
	}
	if l.SagaStatus == "" {
		return fmt.Errorf("%w: sagaStatus is required", ErrOperateLogInvalid)
	}
	return nil
}

// CheckPrunable allows administrative deletion only once the saga is terminal.
func (l *OperateLog) CheckPrunable() error {
	if !l.SagaStatus.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", ErrOperateLogInFlight, l.SagaOperateID, l.SagaStatus)
	}
	return nil
}

// OperateLogQuery selects saga log entries.
type OperateLogQuery struct {
	SagaName   string // case-insensitive substring
	SagaStatus string // exact, case-insensitive
	Page       PageRequest
}

var OperateLogSortFields = []string{"sagaName", "sagaStatus", "createTime", "updateTime"}

func (q OperateLogQuery) Matches(l *OperateLog) bool {
	if q.SagaName != "" && !containsFold(l.SagaName, q.SagaName) {
		return false
	}
	if q.SagaStatus != "" && !strings.EqualFold(string(l.SagaStatus), q.SagaStatus) {
		return false
	}
	return true
}

func CompareOperateLogs(field string) func(a, b *OperateLog) int {
	return func(a, b *OperateLog) int {
		var c int
		switch field {
		case "sagaName":
			c = cmp.Compare(a.SagaName, b.SagaName)
		case "sagaStatus":
			c = cmp.Compare(a.SagaStatus, b.SagaStatus)
		case "updateTime":
			c = a.UpdateTime.Compare(b.UpdateTime)
		}
		if c != 0 {
			return c
		}
		if c = a.CreateTime.Compare(b.CreateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.SagaOperateID, b.SagaOperateID)
	}
}
