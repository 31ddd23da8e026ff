package domain

import "time"

// Shipment is one file submitted to the bank. Its id doubles as the file's
// shipment number and as the key receipts are matched on.
type Shipment struct {
	ID        int64     `json:"id"`
	Scheme    Scheme    `json:"scheme"`
	NumClaims int       `json:"num_claims"`
	DueDate   time.Time `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Receipt is the bank's acknowledgement that a shipment was accepted.
type Receipt struct {
	Name           string    `json:"name"`
	ShipmentID     int64     `json:"shipment_id"`
	Received       time.Time `json:"received"`
	CustomerNumber string    `json:"customer_number"`
}

// InboundFile is a file fetched from the bank.
type InboundFile struct {
	Name     string    `json:"name"`
	Modified time.Time `json:"modified"`
	Data     []byte    `json:"-"`
}
