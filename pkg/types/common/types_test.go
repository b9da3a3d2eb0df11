package common

import "testing"

func TestNewIDIsValid(t *testing.T) {
	id := NewID()
	if err := id.Validate(); err != nil {
		t.Fatalf("fresh ID should validate: %v", err)
	}
}

func TestIDValidate(t *testing.T) {
	if err := ID("").Validate(); err == nil {
		t.Error("empty ID should fail validation")
	}
	if err := ID("not-a-uuid").Validate(); err == nil {
		t.Error("malformed ID should fail validation")
	}
	if err := ID("8f2c1f4e-9a3b-4d6c-8e1f-2a3b4c5d6e7f").Validate(); err != nil {
		t.Errorf("valid UUID should pass: %v", err)
	}
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{Page: 0, PageSize: 0}
	p.Normalize()
	if p.Page != 1 || p.PageSize != 20 {
		t.Errorf("expected defaults 1/20, got %d/%d", p.Page, p.PageSize)
	}

	p = Pagination{Page: 3, PageSize: 500}
	p.Normalize()
	if p.PageSize != 100 {
		t.Errorf("expected page size clamp to 100, got %d", p.PageSize)
	}
	if p.Offset() != 200 {
		t.Errorf("expected offset 200, got %d", p.Offset())
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a", "b"}, 21, 1, 10)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", resp.TotalPages)
	}
	if len(resp.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(resp.Items))
	}
}
