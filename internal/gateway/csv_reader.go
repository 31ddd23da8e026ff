package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"giro-settlement/internal/domain"
)

// CSVImportReader reads agreement and donation exports used to seed the
// store.
type CSVImportReader struct {
	now func() time.Time
}

// NewCSVImportReader creates a new reader. Imported agreements are stamped
// with the current time.
func NewCSVImportReader() *CSVImportReader {
	return &CSVImportReader{now: time.Now}
}

// ReadAgreements parses an agreement export with the columns
// kid,scheme,donor_id,donor_name,email,amount,payment_day,notice,active.
// Amounts are in whole currency units with up to two decimals.
func (r *CSVImportReader) ReadAgreements(ctx context.Context, path string) ([]domain.DueAgreement, error) {
	records, err := readCSV(path, 9)
	if err != nil {
		return nil, err
	}
	now := r.now().UTC()

	var agreements []domain.DueAgreement
	for i, record := range records {
		line := i + 2
		scheme := domain.Scheme(strings.ToUpper(record[1]))
		if scheme != domain.SchemeAvtaleGiro && scheme != domain.SchemeAutoGiro {
			return nil, fmt.Errorf("could not parse scheme '%s' on line %d", record[1], line)
		}
		donorID, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse donor_id '%s' on line %d: %w", record[2], line, err)
		}
		amount, err := minorUnits(record[5])
		if err != nil {
			return nil, fmt.Errorf("could not parse amount '%s' on line %d: %w", record[5], line, err)
		}
		day, err := strconv.Atoi(record[6])
		if err != nil || day < 0 || day > 28 {
			return nil, fmt.Errorf("could not parse payment_day '%s' on line %d", record[6], line)
		}
		notice, err := strconv.ParseBool(record[7])
		if err != nil {
			return nil, fmt.Errorf("could not parse notice '%s' on line %d: %w", record[7], line, err)
		}
		active, err := strconv.ParseBool(record[8])
		if err != nil {
			return nil, fmt.Errorf("could not parse active '%s' on line %d: %w", record[8], line, err)
		}

		agreements = append(agreements, domain.DueAgreement{
			Agreement: domain.Agreement{
				Scheme:      scheme,
				KID:         record[0],
				DonorID:     donorID,
				Amount:      amount,
				PaymentDay:  day,
				Notice:      notice,
				Active:      active,
				Created:     now,
				LastUpdated: now,
			},
			Donor: domain.Donor{ID: donorID, Name: record[3], Email: record[4]},
		})
	}
	return agreements, nil
}

// ReadDonations parses donation exports with the columns
// donor_id,kid,amount,registered. Registered is an RFC 3339 time.
func (r *CSVImportReader) ReadDonations(ctx context.Context, paths []string) ([]domain.Donation, error) {
	var donations []domain.Donation

	for _, path := range paths {
		records, err := readCSV(path, 4)
		if err != nil {
			return nil, err
		}
		for i, record := range records {
			line := i + 2
			donorID, err := strconv.ParseInt(record[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse donor_id '%s' in %s line %d: %w", record[0], path, line, err)
			}
			amount, err := minorUnits(record[2])
			if err != nil {
				return nil, fmt.Errorf("could not parse amount '%s' in %s line %d: %w", record[2], path, line, err)
			}
			registered, err := time.Parse(time.RFC3339, record[3])
			if err != nil {
				return nil, fmt.Errorf("could not parse registered '%s' in %s line %d: %w", record[3], path, line, err)
			}
			donations = append(donations, domain.Donation{
				DonorID:    donorID,
				KID:        record[1],
				Amount:     amount,
				Registered: registered,
			})
		}
	}
	return donations, nil
}

// readCSV returns the rows after the header, each with at least columns
// fields.
func readCSV(path string, columns int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}
		if len(record) < columns {
			return nil, fmt.Errorf("record in %s has %d fields, want %d", path, len(record), columns)
		}
		records = append(records, record)
	}
	return records, nil
}

// minorUnits converts "123.45" to 12345. Negative amounts and fractions of
// a minor unit are rejected.
func minorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount")
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("more than two decimals")
	}
	return cents.IntPart(), nil
}
