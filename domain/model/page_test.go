package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Current: 1, Size: DefaultPageSize}},
		{PageRequest{Current: -2, Size: -1}, PageRequest{Current: 1, Size: DefaultPageSize}},
		{PageRequest{Current: 3, Size: 5000}, PageRequest{Current: 3, Size: MaxPageSize}},
		{PageRequest{Current: 2, Size: 20, OrderBy: "name", IsAsc: true}, PageRequest{Current: 2, Size: 20, OrderBy: "name", IsAsc: true}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestPageRequest_CheckOrderBy(t *testing.T) {
	p := PageRequest{OrderBy: "name"}
	if err := p.CheckOrderBy(VolumeSortFields...); err != nil {
		t.Errorf("CheckOrderBy(name) error = %v", err)
	}
	p.OrderBy = "zfsDataset"
	if err := p.CheckOrderBy(VolumeSortFields...); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckOrderBy(zfsDataset) error = %v, want validation", err)
	}
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		req  PageRequest
		want string
	}{
		{PageRequest{Current: 1, Size: 3}, "[1 2 3]"},
		{PageRequest{Current: 3, Size: 3}, "[7]"},
		{PageRequest{Current: 4, Size: 3}, "[]"},
		{PageRequest{}, "[1 2 3 4 5 6 7]"},
	}
	for _, tt := range tests {
		page := Paginate(all, tt.req)
		if got := fmt.Sprint(page.Records); got != tt.want {
			t.Errorf("Paginate(%+v) = %s, want %s", tt.req, got, tt.want)
		}
		if page.Total != 7 {
			t.Errorf("Total = %d", page.Total)
		}
		if page.Records == nil {
			t.Errorf("Records is nil")
		}
	}
}

func TestSortStable(t *testing.T) {
	items := []int{3, 1, 2}
	SortStable(items, func(a, b int) int { return a - b }, false)
	if fmt.Sprint(items) != "[3 2 1]" {
		t.Errorf("descending = %v", items)
	}
	SortStable(items, func(a, b int) int { return a - b }, true)
	if fmt.Sprint(items) != "[1 2 3]" {
		t.Errorf("ascending = %v", items)
	}
}
