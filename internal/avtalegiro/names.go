package avtalegiro

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"time"

	"giro-settlement/internal/domain"
	"giro-settlement/internal/fixedwidth"
)

// ErrNotReceipt is returned for a file name that is not an acceptance receipt.
var ErrNotReceipt = errors.New("avtalegiro: not a receipt file name")

var receiptPattern = regexp.MustCompile(`^KV\.GODKJENT\.F(\d{7})\.D(\d{6})\.T(\d{6})\.K(\d+)\.html$`)

// ClaimFileName names the claim file uploaded on today for claimDate.
func ClaimFileName(today, claimDate time.Time, shipmentID int64) string {
	return fmt.Sprintf("DIRREM%s.%s.%d", fixedwidth.DDMMYY(today), fixedwidth.DDMMYY(claimDate), shipmentID)
}

// ReceiptName is the name Nets gives the receipt for an accepted shipment.
func ReceiptName(shipmentID int64, at time.Time, customerNumber string) string {
	return fmt.Sprintf("KV.GODKJENT.F%07d.D%s.T%s.K%s.html",
		shipmentID, at.Format(fixedwidth.LayoutYYMMDD), at.Format("150405"), customerNumber)
}

// ParseReceiptName extracts the shipment a receipt acknowledges.
func ParseReceiptName(name string) (domain.Receipt, error) {
	base := path.Base(name)
	m := receiptPattern.FindStringSubmatch(base)
	if m == nil {
		return domain.Receipt{}, fmt.Errorf("%w: %q", ErrNotReceipt, base)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: %q: %v", ErrNotReceipt, base, err)
	}
	received, err := time.Parse("060102150405", m[2]+m[3])
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%w: %q: %v", ErrNotReceipt, base, err)
	}
	return domain.Receipt{
		Name:           base,
		ShipmentID:     id,
		Received:       received,
		CustomerNumber: m[4],
	}, nil
}

// ReceiptIndex maps shipment ids to their receipts among a directory listing.
// Names that are not receipts are ignored.
func ReceiptIndex(names []string) map[int64]domain.Receipt {
	idx := make(map[int64]domain.Receipt, len(names))
	for _, n := range names {
		r, err := ParseReceiptName(n)
		if err != nil {
			continue
		}
		idx[r.ShipmentID] = r
	}
	return idx
}
