package domain

import "time"

// DueDateResult describes the file produced for one due date.
type DueDateResult struct {
	DueDate    time.Time `json:"due_date"`
	ShipmentID int64     `json:"shipment_id,omitempty"`
	Claims     int       `json:"claims"`
	Amount     int64     `json:"amount"`
	FileName   string    `json:"file_name,omitempty"`
	Notified   int       `json:"notified"`
}

// ClaimRunReport is the outcome of one daily AvtaleGiro claims run.
type ClaimRunReport struct {
	RunID    string          `json:"run_id"`
	Date     time.Time       `json:"date"`
	DueDates []DueDateResult `json:"due_dates"`
}

// RetryEntry records what the retry run did for one due date.
type RetryEntry struct {
	DueDate         time.Time      `json:"due_date"`
	ShipmentIDs     []int64        `json:"shipment_ids"`
	SettledShipment int64          `json:"settled_shipment,omitempty"`
	Resent          *DueDateResult `json:"resent,omitempty"`
}

// RetryReport is the outcome of one daily AvtaleGiro retry run.
type RetryReport struct {
	RunID   string       `json:"run_id"`
	Date    time.Time    `json:"date"`
	Entries []RetryEntry `json:"entries"`
}

// Resent counts the due dates whose claims were sent again.
func (r RetryReport) Resent() int {
	n := 0
	for _, e := range r.Entries {
		if e.Resent != nil {
			n++
		}
	}
	return n
}

// AutoGiroRunReport is the outcome of one AutoGiro claims run.
type AutoGiroRunReport struct {
	RunID             string    `json:"run_id"`
	Date              time.Time `json:"date"`
	ShipmentID        int64     `json:"shipment_id,omitempty"`
	Charges           int       `json:"charges"`
	Amount            int64     `json:"amount"`
	MandatesConfirmed int       `json:"mandates_confirmed"`
	Amended           int       `json:"amended"`
	FileName          string    `json:"file_name,omitempty"`
}

// AutoGiroProcessReport summarises what an inbound AutoGiro file changed.
type AutoGiroProcessReport struct {
	Layout            string   `json:"layout"`
	ChargesUpdated    int      `json:"charges_updated"`
	MandatesUpdated   int      `json:"mandates_updated"`
	Unmatched         []string `json:"unmatched,omitempty"`
	Rejected          []string `json:"rejected,omitempty"`
	PaymentsConfirmed int      `json:"payments_confirmed"`
}

// AgreementUpdateReport summarises one inbound AvtaleGiro OCR file.
type AgreementUpdateReport struct {
	File         string   `json:"file"`
	Updates      int      `json:"updates"`
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Activated    int      `json:"activated"`
	Cancelled    int      `json:"cancelled"`
	Skipped      int      `json:"skipped"`
	Failed       []string `json:"failed,omitempty"`
	Transactions int      `json:"transactions"`
}
