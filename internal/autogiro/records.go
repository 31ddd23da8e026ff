// Package autogiro reads the report files Bankgirot delivers for Swedish
// AutoGiro and writes the payment order files sent back.
package autogiro

import (
	"time"
)

// Transaction codes found in column 1-2 of every record.
const (
	CodeOpening            = "01"
	CodeEnd                = "09"
	CodeDeposit            = "15"
	CodeWithdrawal         = "16"
	CodeRefund             = "17"
	CodeIncomingPayment    = "82"
	CodeOutgoingPayment    = "32"
	CodePaymentRefund      = "77"
	CodeMandate            = "73"
	CodeMandateRequest     = "04"
	CodeEMandateOpening    = "51"
	CodeEMandateInfo       = "52"
	CodeEMandateSpecial    = "53"
	CodeEMandateName1      = "54"
	CodeEMandateName2      = "55"
	CodeEMandatePostNumber = "56"
	CodeEMandateEnd        = "59"

	// cancellations initiated by Bankgirot or the payer
	CodeCancelledByPayer           = "03"
	CodeCancelledMandateCancelled  = "11"
	CodeCancelledPayeeTerminated   = "21"
	CodeCancelAllForPayer          = "23"
	CodeCancelAllForPaymentDate    = "24"
	CodeCancelOne                  = "25"
	CodeAmendAllNewDate            = "26"
	CodeAmendNewDateByPaymentDate  = "27"
	CodeAmendNewDateByDateAndPayer = "28"
	CodeAmendOneNewDate            = "29"
)

// Layout names carried by the opening record.
const (
	LayoutAutoGiro  = "AUTOGIRO"
	LayoutEMandates = "AG-EMEDGIV"
)

// Content names in the opening record selecting the report kind.
const (
	ContentPaymentSpecification = "BET. SPEC & STOPP TK"
	ContentMandates             = "AG-MEDAVI"
	ContentCancellations        = "MAKULERING/ÄNDRING"
	ContentRejectedCharges      = "AVVISADE BET UPPDR"
)

// Kind says which report a file holds.
type Kind int

const (
	KindPaymentSpecification Kind = iota + 1
	KindMandates
	KindEMandates
	KindRejectedCharges
	KindCancellations
)

func (k Kind) String() string {
	switch k {
	case KindPaymentSpecification:
		return "payment_specification"
	case KindMandates:
		return "mandates"
	case KindEMandates:
		return "emandates"
	case KindRejectedCharges:
		return "rejected_charges"
	case KindCancellations:
		return "cancellations"
	}
	return "unknown"
}

// Opening is the first record of a file.
type Opening struct {
	Code           string    `json:"code"`
	Layout         string    `json:"layout"`
	Content        string    `json:"content,omitempty"`
	Written        time.Time `json:"written"`
	CustomerNumber string    `json:"customer_number,omitempty"`
	BankgiroNumber string    `json:"bankgiro_number"`
	ClearingNumber string    `json:"clearing_number,omitempty"`
}

// Report is one of the five report bodies. The concrete type matches Kind.
type Report interface {
	Kind() Kind
}

// ParsedFile is a decoded report file.
type ParsedFile struct {
	Opening Opening `json:"opening"`
	Report  Report  `json:"report"`
}

// Kind returns the kind of the report the file carries.
func (f *ParsedFile) Kind() Kind {
	return f.Report.Kind()
}

// PaymentStatus is the outcome of a single payment.
type PaymentStatus int

const (
	PaymentApproved          PaymentStatus = 0
	PaymentInsufficientFunds PaymentStatus = 1
	PaymentAccountClosed     PaymentStatus = 2
	PaymentRenewedFunds      PaymentStatus = 9
)

// Payment is an incoming (82) or outgoing (32) payment record.
type Payment struct {
	PaymentDate    time.Time     `json:"payment_date"`
	PeriodCode     string        `json:"period_code"`
	Renewals       string        `json:"renewals"`
	PayerNumber    string        `json:"payer_number"`
	Amount         int64         `json:"amount"`
	BankgiroNumber string        `json:"bankgiro_number"`
	Reference      string        `json:"reference"`
	Status         PaymentStatus `json:"status"`
}

// Batch is a deposit (15) or withdrawal (16) with its payments.
type Batch struct {
	Account        string    `json:"account"`
	PaymentDate    time.Time `json:"payment_date"`
	SerialNumber   string    `json:"serial_number"`
	ApprovedAmount int64     `json:"approved_amount"`
	ApprovedCount  int64     `json:"approved_count"`
	Payments       []Payment `json:"payments"`
}

// Refund is a refunded payment record (77).
type Refund struct {
	OriginalPaymentDate time.Time `json:"original_payment_date"`
	PeriodCode          string    `json:"period_code"`
	Renewals            string    `json:"renewals"`
	PayerNumber         string    `json:"payer_number"`
	OriginalAmount      int64     `json:"original_amount"`
	BankgiroNumber      string    `json:"bankgiro_number"`
	OriginalReference   string    `json:"original_reference"`
	RefundDate          time.Time `json:"refund_date"`
	RefundCode          int       `json:"refund_code"`
}

// RefundBatch is a refund header (17) with its refund records.
type RefundBatch struct {
	Account        string    `json:"account"`
	PaymentDate    time.Time `json:"payment_date"`
	SerialNumber   string    `json:"serial_number"`
	ApprovedAmount int64     `json:"approved_amount"`
	ApprovedCount  int64     `json:"approved_count"`
	Refunds        []Refund  `json:"refunds"`
}

// PaymentSpecification reports settled, failed and refunded payments.
type PaymentSpecification struct {
	Deposits    []Batch       `json:"deposits"`
	Withdrawals []Batch       `json:"withdrawals"`
	Refunds     []RefundBatch `json:"refunds"`
}

// Kind implements Report.
func (*PaymentSpecification) Kind() Kind { return KindPaymentSpecification }

// Mandate information codes.
const (
	MandateDeletion                    = 3
	MandateAddition                    = 4
	MandateChange                      = 5
	MandateCancellation                = 10
	MandateBankResponseNew             = 42
	MandateDeletedNoBankResponse       = 43
	MandateDeletedCustomerBankResponse = 44
	MandateDeletedBankResponse         = 46
)

// MandateRecord is a mandate change reported by Bankgirot (73).
type MandateRecord struct {
	BankgiroNumber string     `json:"bankgiro_number"`
	PayerNumber    string     `json:"payer_number"`
	BankAccount    string     `json:"bank_account"`
	SSN            string     `json:"ssn"`
	InfoCode       int        `json:"info_code"`
	CommentCode    int        `json:"comment_code"`
	Accepted       *time.Time `json:"accepted,omitempty"`
}

// Cancelled reports whether the record ends the mandate.
func (m MandateRecord) Cancelled() bool {
	switch m.InfoCode {
	case MandateDeletion, MandateCancellation, MandateDeletedNoBankResponse,
		MandateDeletedCustomerBankResponse, MandateDeletedBankResponse:
		return true
	}
	return false
}

// MandateReport lists mandate changes.
type MandateReport struct {
	Mandates []MandateRecord `json:"mandates"`
}

// Kind implements Report.
func (*MandateReport) Kind() Kind { return KindMandates }

// EMandate is a mandate a payer signed in their internet bank.
type EMandate struct {
	BankgiroNumber     string `json:"bankgiro_number"`
	PayerNumber        string `json:"payer_number"`
	BankAccount        string `json:"bank_account"`
	SSN                string `json:"ssn"`
	InfoCode           int    `json:"info_code"`
	SpecialInformation string `json:"special_information,omitempty"`
	NameAndAddress     string `json:"name_and_address,omitempty"`
	PostNumber         string `json:"post_number,omitempty"`
	PostAddress        string `json:"post_address,omitempty"`
}

// EMandateReport lists new internet bank mandates awaiting approval.
type EMandateReport struct {
	EMandates []EMandate `json:"emandates"`
}

// Kind implements Report.
func (*EMandateReport) Kind() Kind { return KindEMandates }

// RejectedCharge is a payment order Bankgirot refused.
type RejectedCharge struct {
	Code        string    `json:"code"`
	PaymentDate time.Time `json:"payment_date"`
	PeriodCode  string    `json:"period_code"`
	Renewals    string    `json:"renewals"`
	PayerNumber string    `json:"payer_number"`
	Amount      int64     `json:"amount"`
	Reference   string    `json:"reference"`
	CommentCode string    `json:"comment_code"`
}

// RejectedChargeReport lists refused payment orders.
type RejectedChargeReport struct {
	RejectedCharges []RejectedCharge `json:"rejected_charges"`
}

// Kind implements Report.
func (*RejectedChargeReport) Kind() Kind { return KindRejectedCharges }

// Cancellation is a cancelled payment.
type Cancellation struct {
	Code        string    `json:"code"`
	PaymentDate time.Time `json:"payment_date"`
	PayerNumber string    `json:"payer_number"`
	PaymentCode string    `json:"payment_code"`
	Amount      int64     `json:"amount"`
	Reference   string    `json:"reference"`
	CommentCode string    `json:"comment_code"`
}

// CancellationReport lists cancelled payments.
type CancellationReport struct {
	Cancellations []Cancellation `json:"cancellations"`
}

// Kind implements Report.
func (*CancellationReport) Kind() Kind { return KindCancellations }
