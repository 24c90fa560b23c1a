package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// BatchFailure is the outcome of one identifier that could not be processed.
type BatchFailure struct {
	ID      string `json:"id"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// BatchResult collects per-item outcomes of a batch operation. Items are
// independent: a failure never rolls back the others.
type BatchResult struct {
	Succeeded []string
	Failed    []BatchFailure
}

func (r *BatchResult) Ok(id string) { r.Succeeded = append(r.Succeeded, id) }

func (r *BatchResult) Fail(id string, err error) {
	r.Failed = append(r.Failed, BatchFailure{ID: id, Reason: Reason(err), Message: err.Error(), Err: err})
}

// Success reports whether every item succeeded.
func (r *BatchResult) Success() bool { return len(r.Failed) == 0 }

// Err aggregates item failures, or returns nil when there are none.
func (r *BatchResult) Err() error {
	var errs *multierror.Error
	for _, f := range r.Failed {
		err := f.Err
		if err == nil {
			err = FromReason(f.Reason, f.Message)
		}
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", f.ID, err))
	}
	return errs.ErrorOrNil()
}

func (r *BatchResult) MarshalJSON() ([]byte, error) {
	succeeded, failed := r.Succeeded, r.Failed
	if succeeded == nil {
		succeeded = []string{}
	}
	if failed == nil {
		failed = []BatchFailure{}
	}
	return json.Marshal(struct {
		Success   bool           `json:"success"`
		Succeeded []string       `json:"succeeded"`
		Failed    []BatchFailure `json:"failed"`
	}{r.Success(), succeeded, failed})
}

func (r *BatchResult) UnmarshalJSON(data []byte) error {
	var w struct {
		Succeeded []string       `json:"succeeded"`
		Failed    []BatchFailure `json:"failed"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Succeeded, r.Failed = w.Succeeded, w.Failed
	return nil
}

// ParseIDs splits a comma-joined identifier list, dropping blanks and
// duplicates while keeping the first-seen order.
func ParseIDs(s string) []string {
	return NormalizeIDs(strings.Split(s, ","))
}

// NormalizeIDs trims ids and removes blanks and duplicates.
func NormalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
