package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/salesetl/internal/extract"
)

func rawCustomer(id, name, email, registration, region string) extract.RawCustomer {
	raw := extract.RawCustomer{}
	if id != "" {
		raw.CustomerID = strPtr(id)
	}
	if name != "" {
		raw.CustomerName = strPtr(name)
	}
	if email != "" {
		raw.Email = strPtr(email)
	}
	if registration != "" {
		raw.RegistrationDate = strPtr(registration)
	}
	if region != "" {
		raw.Region = strPtr(region)
	}
	return raw
}

var snapshot = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

func TestCleanCustomersDropsOnlyMissingID(t *testing.T) {
	rows := []extract.RawCustomer{
		rawCustomer("C001", "Alice", "alice@example.com", "2024-01-01", "North"),
		rawCustomer("", "NoID", "noid@example.com", "2024-01-01", "South"),
		rawCustomer("C002", "Bob", "not-an-email", "garbage", ""),
	}

	cleaned, stats := CleanCustomers(rows, snapshot)
	require.Len(t, cleaned, 2)
	assert.Equal(t, 1, stats.MissingIDDropped)
	assert.Equal(t, 1, stats.InvalidRegistrations)
	assert.Equal(t, 1, stats.RegionDefaulted)

	bob := cleaned[1]
	assert.Equal(t, "C002", bob.CustomerID)
	assert.False(t, bob.IsEmailValid)
	assert.Nil(t, bob.RegistrationDate)
	assert.Nil(t, bob.CustomerDays, "no tenure without a parsed registration date")
	assert.Equal(t, "Unknown", bob.Region)
}

func TestCleanCustomersEmailValidity(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{email: "a@b.com", valid: true},
		{email: "first.last@sub.domain.org", valid: true},
		{email: "", valid: false},
		{email: "not-an-email", valid: false},
		{email: "missing@tld", valid: false},
		{email: "spaces in@name.com", valid: false},
	}

	for _, tt := range tests {
		rows := []extract.RawCustomer{rawCustomer("C001", "Alice", tt.email, "2024-01-01", "North")}
		cleaned, _ := CleanCustomers(rows, snapshot)
		require.Len(t, cleaned, 1)
		assert.Equal(t, tt.valid, cleaned[0].IsEmailValid, "email %q", tt.email)
	}
}

func TestCleanCustomersComputesTenureDays(t *testing.T) {
	rows := []extract.RawCustomer{
		rawCustomer("C001", "Alice", "alice@example.com", "2024-01-01", "North"),
	}

	cleaned, _ := CleanCustomers(rows, snapshot)
	require.Len(t, cleaned, 1)
	require.NotNil(t, cleaned[0].CustomerDays)
	assert.Equal(t, 31, *cleaned[0].CustomerDays)
}

func TestCleanCustomersFutureRegistrationIsNegative(t *testing.T) {
	rows := []extract.RawCustomer{
		rawCustomer("C001", "Alice", "alice@example.com", "2024-03-01", "North"),
	}

	cleaned, _ := CleanCustomers(rows, snapshot)
	require.Len(t, cleaned, 1)
	require.NotNil(t, cleaned[0].CustomerDays)
	assert.Equal(t, -29, *cleaned[0].CustomerDays)
}

func TestCleanCustomersNormalizesSnapshotToMidnight(t *testing.T) {
	noon := time.Date(2024, 2, 1, 12, 30, 0, 0, time.UTC)
	rows := []extract.RawCustomer{
		rawCustomer("C001", "Alice", "alice@example.com", "2024-01-01", "North"),
	}

	cleaned, _ := CleanCustomers(rows, noon)
	require.Len(t, cleaned, 1)
	require.NotNil(t, cleaned[0].CustomerDays)
	assert.Equal(t, 31, *cleaned[0].CustomerDays)
}
