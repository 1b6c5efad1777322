package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolationPostgres(t *testing.T) {
	violation := &pgconn.PgError{Code: "23505", ConstraintName: "uq_bookings_provider_slot"}

	if !IsUniqueViolation(violation, "") {
		t.Fatal("unique violation without a named constraint must match")
	}
	if !IsUniqueViolation(violation, "uq_bookings_provider_slot") {
		t.Fatal("matching constraint name must match")
	}
	if IsUniqueViolation(violation, "uq_reviews_customer_provider") {
		t.Fatal("a different constraint must not match")
	}

	wrapped := fmt.Errorf("create booking: %w", violation)
	if !IsUniqueViolation(wrapped, "uq_bookings_provider_slot") {
		t.Fatal("wrapped pg errors must still match")
	}

	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violations must not match")
	}
}

func TestIsUniqueViolationSQLiteFallback(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: bookings.provider_id, bookings.booking_date, bookings.start_time")

	if !IsUniqueViolation(err, "") {
		t.Fatal("sqlite duplicate message must match")
	}
	// SQLite never reports the index name; the named check still accepts it.
	if !IsUniqueViolation(err, "uq_bookings_provider_slot") {
		t.Fatal("constraint-named check must accept the sqlite message")
	}
}

func TestIsUniqueViolationNonMatches(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil must not match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated errors must not match")
	}
}
