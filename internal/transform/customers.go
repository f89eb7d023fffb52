package transform

import (
	"regexp"
	"time"

	"github.com/angelmondragon/salesetl/internal/extract"
	"github.com/angelmondragon/salesetl/pkg/db/models"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// CustomerCleanStats counts the rows affected by each cleaning step.
type CustomerCleanStats struct {
	In                   int
	InvalidRegistrations int
	MissingIDDropped     int
	InvalidEmails        int
	RegionDefaulted      int
	Out                  int
}

const defaultRegion = "Unknown"

// CleanCustomers normalizes raw customer rows against the snapshot date.
// Only a missing customer_id drops a row; invalid emails are kept and
// flagged, unparseable registration dates leave RegistrationDate and
// CustomerDays nil.
func CleanCustomers(rows []extract.RawCustomer, snapshot time.Time) ([]models.Customer, CustomerCleanStats) {
	stats := CustomerCleanStats{In: len(rows)}
	reference := midnight(snapshot)

	cleaned := make([]models.Customer, 0, len(rows))
	for _, raw := range rows {
		registration := parseDate(raw.RegistrationDate)
		if raw.RegistrationDate != nil && registration == nil {
			stats.InvalidRegistrations++
		}

		if raw.CustomerID == nil {
			stats.MissingIDDropped++
			continue
		}

		email := ""
		if raw.Email != nil {
			email = *raw.Email
		}
		emailValid := emailPattern.MatchString(email)
		if !emailValid {
			stats.InvalidEmails++
		}

		region := defaultRegion
		if raw.Region != nil {
			region = *raw.Region
		} else {
			stats.RegionDefaulted++
		}

		var customerDays *int
		if registration != nil {
			days := int(reference.Sub(*registration) / (24 * time.Hour))
			customerDays = &days
		}

		cleaned = append(cleaned, models.Customer{
			CustomerID:       *raw.CustomerID,
			CustomerName:     deref(raw.CustomerName),
			Email:            raw.Email,
			RegistrationDate: registration,
			Region:           region,
			CustomerDays:     customerDays,
			IsEmailValid:     emailValid,
		})
	}

	stats.Out = len(cleaned)
	return cleaned, stats
}

func midnight(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
