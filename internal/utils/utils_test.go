package utils

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateReferenceFormat(t *testing.T) {
	ref := GenerateReference()
	if len(ref) != 8 {
		t.Fatalf("reference length = %d, want 8", len(ref))
	}
	if got, want := ref[:4], time.Now().Format("0102"); got != want {
		t.Errorf("date part = %q, want %q", got, want)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := errors.New(`ERROR: duplicate key value violates unique constraint "products_name_key" (SQLSTATE 23505)`)
	if !IsUniqueViolation(err, "products_name_key") {
		t.Error("expected match for products_name_key")
	}
	if IsUniqueViolation(err, "clients_name_key") {
		t.Error("unexpected match for unrelated constraint")
	}
	if IsUniqueViolation(nil, "products_name_key") {
		t.Error("nil error should never match")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := errors.New(`ERROR: update or delete on table "suppliers" violates foreign key constraint "products_supplier_id_fkey" (SQLSTATE 23503)`)
	if !IsForeignKeyViolation(err) {
		t.Error("expected foreign key violation match")
	}
	if IsForeignKeyViolation(errors.New("connection refused")) {
		t.Error("unexpected match for unrelated error")
	}
	if IsForeignKeyViolation(nil) {
		t.Error("nil error should never match")
	}
}
