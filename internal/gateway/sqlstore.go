package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"giro-settlement/internal/domain"
)

// Dialect names the database/sql driver a store talks to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "pgx"
)

// ParseDialect accepts the driver names used in configuration.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "pgx", "postgres", "postgresql":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unknown database driver %q", s)
}

func (d Dialect) migrationDir() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// SQLStore keeps agreements, donations, shipments, charges and mandates in a
// SQL database. It implements every store port of the usecase package.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore wraps an open database. Call Migrate before first use.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

// OpenSQLStore opens the database, checks the connection and migrates the
// schema.
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	if dialect == DialectSQLite {
		// sqlite allows one writer; an in-memory database also lives on a
		// single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not reach database: %w", err)
	}
	store := NewSQLStore(db, dialect)
	if _, err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func formatDate(t time.Time) string { return t.Format(dateLayout) }
func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse stored date %q: %w", s, err)
	}
	return t, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse stored time %q: %w", s, err)
	}
	return t, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLStore) insert(ctx context.Context, q queryer, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const agreementColumns = `a.id, a.scheme, a.kid, a.donor_id, a.amount, a.payment_day, a.notice, a.active, a.created, a.last_updated, a.cancelled`

const dueAgreementColumns = agreementColumns + `, d.id, d.name, d.email`

func scanAgreementInto(a *domain.Agreement, extra ...any) func(row scanner) error {
	return func(row scanner) error {
		var created, updated string
		var cancelled sql.NullString
		dest := append([]any{&a.ID, &a.Scheme, &a.KID, &a.DonorID, &a.Amount, &a.PaymentDay, &a.Notice, &a.Active, &created, &updated, &cancelled}, extra...)
		if err := row.Scan(dest...); err != nil {
			return err
		}
		var err error
		if a.Created, err = parseTime(created); err != nil {
			return err
		}
		if a.LastUpdated, err = parseTime(updated); err != nil {
			return err
		}
		if cancelled.Valid {
			at, err := parseTime(cancelled.String)
			if err != nil {
				return err
			}
			a.Cancelled = &at
		}
		return nil
	}
}

func scanDueAgreement(row scanner) (domain.DueAgreement, error) {
	var due domain.DueAgreement
	err := scanAgreementInto(&due.Agreement, &due.Donor.ID, &due.Donor.Name, &due.Donor.Email)(row)
	return due, err
}

func (s *SQLStore) dueAgreements(ctx context.Context, query string, args ...any) ([]domain.DueAgreement, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.DueAgreement
	for rows.Next() {
		due, err := scanDueAgreement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, due)
	}
	return out, rows.Err()
}

// AgreementsByPaymentDay implements usecase.AgreementStore.
func (s *SQLStore) AgreementsByPaymentDay(ctx context.Context, scheme domain.Scheme, day int) ([]domain.DueAgreement, error) {
	out, err := s.dueAgreements(ctx, `SELECT `+dueAgreementColumns+`
		FROM agreements a JOIN donors d ON d.id = a.donor_id
		WHERE a.scheme = ? AND a.payment_day = ? AND a.active = 1 AND a.cancelled IS NULL
		ORDER BY a.id`, string(scheme), day)
	if err != nil {
		return nil, fmt.Errorf("could not query agreements for day %d: %w", day, err)
	}
	return out, nil
}

// AgreementsToCharge implements usecase.AgreementStore. The donor id is the
// mandate's payer number.
func (s *SQLStore) AgreementsToCharge(ctx context.Context, month time.Time) ([]domain.DueAgreement, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	out, err := s.dueAgreements(ctx, `SELECT `+dueAgreementColumns+`
		FROM agreements a JOIN donors d ON d.id = a.donor_id
		WHERE a.scheme = ? AND a.cancelled IS NULL
		AND EXISTS (SELECT 1 FROM mandates m WHERE m.payer_number = CAST(a.donor_id AS TEXT) AND m.status = ?)
		AND NOT EXISTS (SELECT 1 FROM charges c WHERE c.agreement_id = a.id AND c.status <> ?
			AND c.claim_date >= ? AND c.claim_date < ?)
		ORDER BY a.id`,
		string(domain.SchemeAutoGiro), string(domain.MandateActive), string(domain.ChargeCancelled),
		formatDate(first), formatDate(next))
	if err != nil {
		return nil, fmt.Errorf("could not query agreements to charge: %w", err)
	}
	return out, nil
}

// AgreementByKID implements usecase.AgreementStore.
func (s *SQLStore) AgreementByKID(ctx context.Context, scheme domain.Scheme, kid string) (*domain.Agreement, error) {
	var a domain.Agreement
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+agreementColumns+` FROM agreements a
		WHERE a.scheme = ? AND a.kid = ? ORDER BY a.id DESC LIMIT 1`), string(scheme), kid)
	if err := scanAgreementInto(&a)(row); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// CreateAgreement implements usecase.AgreementStore.
func (s *SQLStore) CreateAgreement(ctx context.Context, a *domain.Agreement) (int64, error) {
	return s.createAgreement(ctx, s.db, a)
}

func (s *SQLStore) createAgreement(ctx context.Context, q queryer, a *domain.Agreement) (int64, error) {
	var cancelled any
	if a.Cancelled != nil {
		cancelled = formatTime(*a.Cancelled)
	}
	id, err := s.insert(ctx, q, `INSERT INTO agreements
		(scheme, kid, donor_id, amount, payment_day, notice, active, created, last_updated, cancelled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.Scheme), a.KID, a.DonorID, a.Amount, a.PaymentDay, boolInt(a.Notice), boolInt(a.Active),
		formatTime(a.Created), formatTime(a.LastUpdated), cancelled)
	if err != nil {
		return 0, fmt.Errorf("could not insert agreement %s: %w", a.KID, err)
	}
	return id, nil
}

func (s *SQLStore) updateAgreement(ctx context.Context, id int64, set string, args ...any) error {
	args = append(args, formatTime(s.now()), id)
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE agreements SET `+set+`, last_updated = ? WHERE id = ?`), args...)
	if err != nil {
		return fmt.Errorf("could not update agreement %d: %w", id, err)
	}
	return requireRow(res)
}

// UpdateNotice implements usecase.AgreementStore.
func (s *SQLStore) UpdateNotice(ctx context.Context, id int64, notice bool) error {
	return s.updateAgreement(ctx, id, `notice = ?`, boolInt(notice))
}

// SetActive implements usecase.AgreementStore.
func (s *SQLStore) SetActive(ctx context.Context, id int64, active bool) error {
	return s.updateAgreement(ctx, id, `active = ?`, boolInt(active))
}

// CancelAgreement implements usecase.AgreementStore.
func (s *SQLStore) CancelAgreement(ctx context.Context, id int64, at time.Time) error {
	return s.updateAgreement(ctx, id, `active = 0, cancelled = ?`, formatTime(at))
}

// UpdateTerms changes an agreement's amount and payment day. Pending
// charges ordered under the old terms show up in AmendedCharges.
func (s *SQLStore) UpdateTerms(ctx context.Context, id int64, amount int64, paymentDay int) error {
	if amount < 0 || paymentDay < 0 || paymentDay > 28 {
		return fmt.Errorf("invalid terms for agreement %d: amount %d day %d", id, amount, paymentDay)
	}
	return s.updateAgreement(ctx, id, `amount = ?, payment_day = ?`, amount, paymentDay)
}

// ImportAgreements upserts the donors and inserts agreements whose scheme
// and KID are not yet known. It returns how many agreements were added.
func (s *SQLStore) ImportAgreements(ctx context.Context, agreements []domain.DueAgreement) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin import: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, due := range agreements {
		if err := s.upsertDonor(ctx, tx, due.Donor); err != nil {
			return 0, err
		}
		var exists int
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM agreements WHERE scheme = ? AND kid = ?`),
			string(due.Agreement.Scheme), due.Agreement.KID).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("could not look up agreement %s: %w", due.Agreement.KID, err)
		}
		if exists > 0 {
			continue
		}
		if _, err := s.createAgreement(ctx, tx, &due.Agreement); err != nil {
			return 0, err
		}
		added++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit import: %w", err)
	}
	return added, nil
}

func (s *SQLStore) upsertDonor(ctx context.Context, q queryer, d domain.Donor) error {
	_, err := q.ExecContext(ctx, s.rebind(`INSERT INTO donors (id, name, email) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, email = excluded.email`), d.ID, d.Name, d.Email)
	if err != nil {
		return fmt.Errorf("could not upsert donor %d: %w", d.ID, err)
	}
	return nil
}

// LatestDonation implements usecase.DonationStore.
func (s *SQLStore) LatestDonation(ctx context.Context, kid string) (*domain.Donation, error) {
	var d domain.Donation
	var registered string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, donor_id, kid, amount, registered FROM donations
		WHERE kid = ? ORDER BY registered DESC, id DESC LIMIT 1`), kid).
		Scan(&d.ID, &d.DonorID, &d.KID, &d.Amount, &registered)
	if err != nil {
		return nil, notFound(err)
	}
	if d.Registered, err = parseTime(registered); err != nil {
		return nil, err
	}
	return &d, nil
}

// AddDonations stores donations for donors that already exist.
func (s *SQLStore) AddDonations(ctx context.Context, donations []domain.Donation) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin donations: %w", err)
	}
	defer tx.Rollback()
	for _, d := range donations {
		_, err := s.insert(ctx, tx, `INSERT INTO donations (donor_id, kid, amount, registered) VALUES (?, ?, ?, ?)`,
			d.DonorID, d.KID, d.Amount, formatTime(d.Registered))
		if err != nil {
			return 0, fmt.Errorf("could not insert donation for %s: %w", d.KID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit donations: %w", err)
	}
	return len(donations), nil
}

// RecordTransactions implements usecase.DonationStore. Transactions already
// stored under the same id are skipped.
func (s *SQLStore) RecordTransactions(ctx context.Context, txs []domain.OCRTransaction) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transactions: %w", err)
	}
	defer tx.Rollback()
	added := 0
	for _, t := range txs {
		res, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO ocr_transactions (transaction_id, type, kid, amount, date)
			VALUES (?, ?, ?, ?, ?) ON CONFLICT (transaction_id) DO NOTHING`),
			t.TransactionID, string(t.Type), t.KID, t.Amount.String(), formatDate(t.Date))
		if err != nil {
			return 0, fmt.Errorf("could not insert transaction %s: %w", t.TransactionID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transactions: %w", err)
	}
	return added, nil
}

// CreateShipment implements usecase.ShipmentStore.
func (s *SQLStore) CreateShipment(ctx context.Context, sh domain.Shipment) (int64, error) {
	id, err := s.insert(ctx, s.db, `INSERT INTO shipments (scheme, num_claims, due_date, created_at) VALUES (?, ?, ?, ?)`,
		string(sh.Scheme), sh.NumClaims, formatDate(sh.DueDate), formatTime(sh.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("could not insert shipment: %w", err)
	}
	return id, nil
}

// RemoveShipment implements usecase.ShipmentStore.
func (s *SQLStore) RemoveShipment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM shipments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("could not delete shipment %d: %w", id, err)
	}
	return requireRow(res)
}

// ShipmentsByDueDate implements usecase.ShipmentStore.
func (s *SQLStore) ShipmentsByDueDate(ctx context.Context, scheme domain.Scheme, dueDate time.Time) ([]domain.Shipment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, scheme, num_claims, due_date, created_at FROM shipments
		WHERE scheme = ? AND due_date = ? ORDER BY id`), string(scheme), formatDate(dueDate))
	if err != nil {
		return nil, fmt.Errorf("could not query shipments: %w", err)
	}
	defer rows.Close()
	var out []domain.Shipment
	for rows.Next() {
		var sh domain.Shipment
		var due, created string
		if err := rows.Scan(&sh.ID, &sh.Scheme, &sh.NumClaims, &due, &created); err != nil {
			return nil, err
		}
		if sh.DueDate, err = parseDate(due); err != nil {
			return nil, err
		}
		if sh.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

const chargeColumns = `c.id, c.agreement_id, c.shipment_id, c.amount, c.claim_date, c.status, c.type, c.created, c.last_updated`

func scanChargeInto(c *domain.Charge, extra ...any) func(row scanner) error {
	return func(row scanner) error {
		var claim, created, updated string
		dest := append([]any{&c.ID, &c.AgreementID, &c.ShipmentID, &c.Amount, &claim, &c.Status, &c.Type, &created, &updated}, extra...)
		if err := row.Scan(dest...); err != nil {
			return err
		}
		var err error
		if c.ClaimDate, err = parseDate(claim); err != nil {
			return err
		}
		if c.Created, err = parseTime(created); err != nil {
			return err
		}
		c.LastUpdated, err = parseTime(updated)
		return err
	}
}

// CreateCharge implements usecase.ChargeStore. The agreement's payment day is
// stored with the charge so later amendments can be detected.
func (s *SQLStore) CreateCharge(ctx context.Context, c *domain.Charge) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin charge: %w", err)
	}
	defer tx.Rollback()

	var day int
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT payment_day FROM agreements WHERE id = ?`), c.AgreementID).Scan(&day)
	if err != nil {
		return 0, fmt.Errorf("could not get agreement %d: %w", c.AgreementID, notFound(err))
	}
	id, err := s.insert(ctx, tx, `INSERT INTO charges
		(agreement_id, shipment_id, amount, payment_day, claim_date, status, type, created, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.AgreementID, c.ShipmentID, c.Amount, day, formatDate(c.ClaimDate), string(c.Status), string(c.Type),
		formatTime(c.Created), formatTime(c.LastUpdated))
	if err != nil {
		return 0, fmt.Errorf("could not insert charge: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit charge: %w", err)
	}
	return id, nil
}

// Charge implements usecase.ChargeStore.
func (s *SQLStore) Charge(ctx context.Context, id int64) (*domain.Charge, error) {
	var c domain.Charge
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+chargeColumns+` FROM charges c WHERE c.id = ?`), id)
	if err := scanChargeInto(&c)(row); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ChargeByShipment implements usecase.ChargeStore.
func (s *SQLStore) ChargeByShipment(ctx context.Context, shipmentID, agreementID int64) (*domain.Charge, error) {
	var c domain.Charge
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+chargeColumns+` FROM charges c
		WHERE c.shipment_id = ? AND c.agreement_id = ? ORDER BY c.id DESC LIMIT 1`), shipmentID, agreementID)
	if err := scanChargeInto(&c)(row); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// UpdateCharge implements usecase.ChargeStore.
func (s *SQLStore) UpdateCharge(ctx context.Context, c *domain.Charge) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE charges SET amount = ?, claim_date = ?, status = ?, type = ?, last_updated = ?
		WHERE id = ?`), c.Amount, formatDate(c.ClaimDate), string(c.Status), string(c.Type), formatTime(c.LastUpdated), c.ID)
	if err != nil {
		return fmt.Errorf("could not update charge %d: %w", c.ID, err)
	}
	return requireRow(res)
}

// AmendedCharges implements usecase.ChargeStore.
func (s *SQLStore) AmendedCharges(ctx context.Context) ([]domain.AmendedCharge, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+chargeColumns+`, `+dueAgreementColumns+`
		FROM charges c
		JOIN agreements a ON a.id = c.agreement_id
		JOIN donors d ON d.id = a.donor_id
		WHERE c.status = ? AND a.cancelled IS NULL AND (c.amount <> a.amount OR c.payment_day <> a.payment_day)
		ORDER BY c.id`), string(domain.ChargePending))
	if err != nil {
		return nil, fmt.Errorf("could not query amended charges: %w", err)
	}
	defer rows.Close()
	var out []domain.AmendedCharge
	for rows.Next() {
		var ac domain.AmendedCharge
		a := &ac.Agreement
		var created, updated string
		var cancelled sql.NullString
		scan := scanChargeInto(&ac.Charge,
			&a.Agreement.ID, &a.Agreement.Scheme, &a.Agreement.KID, &a.Agreement.DonorID, &a.Agreement.Amount,
			&a.Agreement.PaymentDay, &a.Agreement.Notice, &a.Agreement.Active, &created, &updated, &cancelled,
			&a.Donor.ID, &a.Donor.Name, &a.Donor.Email)
		if err := scan(rows); err != nil {
			return nil, err
		}
		if a.Agreement.Created, err = parseTime(created); err != nil {
			return nil, err
		}
		if a.Agreement.LastUpdated, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

const mandateColumns = `id, agreement_id, kid, payer_number, bank_account, ssn, status, created, last_updated`

func scanMandate(row scanner) (domain.Mandate, error) {
	var m domain.Mandate
	var agreementID sql.NullInt64
	var created, updated string
	if err := row.Scan(&m.ID, &agreementID, &m.KID, &m.PayerNumber, &m.BankAccount, &m.SSN, &m.Status, &created, &updated); err != nil {
		return m, err
	}
	m.AgreementID = agreementID.Int64
	var err error
	if m.Created, err = parseTime(created); err != nil {
		return m, err
	}
	m.LastUpdated, err = parseTime(updated)
	return m, err
}

// MandatesByStatus implements usecase.MandateStore.
func (s *SQLStore) MandatesByStatus(ctx context.Context, status domain.MandateStatus) ([]domain.Mandate, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+mandateColumns+` FROM mandates WHERE status = ? ORDER BY id`), string(status))
	if err != nil {
		return nil, fmt.Errorf("could not query %s mandates: %w", status, err)
	}
	defer rows.Close()
	var out []domain.Mandate
	for rows.Next() {
		m, err := scanMandate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MandateByPayerNumber implements usecase.MandateStore.
func (s *SQLStore) MandateByPayerNumber(ctx context.Context, payerNumber string) (*domain.Mandate, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+mandateColumns+` FROM mandates
		WHERE payer_number = ? ORDER BY id DESC LIMIT 1`), payerNumber)
	m, err := scanMandate(row)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// AddMandate implements usecase.MandateStore.
func (s *SQLStore) AddMandate(ctx context.Context, m *domain.Mandate) (int64, error) {
	var agreementID any
	if m.AgreementID != 0 {
		agreementID = m.AgreementID
	}
	id, err := s.insert(ctx, s.db, `INSERT INTO mandates
		(agreement_id, kid, payer_number, bank_account, ssn, status, created, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		agreementID, m.KID, m.PayerNumber, m.BankAccount, m.SSN, string(m.Status),
		formatTime(m.Created), formatTime(m.LastUpdated))
	if err != nil {
		return 0, fmt.Errorf("could not insert mandate for payer %s: %w", m.PayerNumber, err)
	}
	return id, nil
}

// UpdateMandateStatus implements usecase.MandateStore.
func (s *SQLStore) UpdateMandateStatus(ctx context.Context, id int64, status domain.MandateStatus) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE mandates SET status = ?, last_updated = ? WHERE id = ?`),
		string(status), formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("could not update mandate %d: %w", id, err)
	}
	return requireRow(res)
}
