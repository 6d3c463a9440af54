package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/octane-erp/octane-erp/internal/ledger/accounts"
	"github.com/octane-erp/octane-erp/internal/ledger/settings"
	shared "github.com/octane-erp/octane-erp/internal/ledger/shared"
	"github.com/octane-erp/octane-erp/internal/ledger/vouchers"
)

// Ledger exposes the posting operation the adapter needs.
type Ledger interface {
	Create(ctx context.Context, in vouchers.CreateVoucherInput) (vouchers.Voucher, error)
}

// Registry exposes the account operations the adapter needs. The adapter
// never touches storage directly; the registry and the ledger are the only
// mutation paths it uses.
type Registry interface {
	FindActiveByName(ctx context.Context, name string) (accounts.Account, error)
	Create(ctx context.Context, name string, accountType accounts.AccountType, isSystem bool) (accounts.Account, error)
}

// SettingsStore reads and writes the tenant's integration settings.
type SettingsStore interface {
	GetOrCreate(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, s settings.Settings) (settings.Settings, error)
}

// Adapter translates business events into balanced voucher requests.
type Adapter struct {
	ledger   Ledger
	registry Registry
	store    SettingsStore
	counter  PostCounter
	logger   *slog.Logger
}

// PostCounter observes vouchers posted on behalf of operational events.
type PostCounter interface {
	CountVoucherPosted(voucherType, origin string)
}

// NewAdapter wires the integration adapter.
func NewAdapter(ledger Ledger, registry Registry, store SettingsStore, logger *slog.Logger) *Adapter {
	return &Adapter{ledger: ledger, registry: registry, store: store, logger: logger}
}

// SetPostCounter wires the optional posting metrics hook.
func (a *Adapter) SetPostCounter(counter PostCounter) {
	a.counter = counter
}

func (a *Adapter) countPosted(v vouchers.Voucher) {
	if a.counter != nil {
		a.counter.CountVoucherPosted(string(v.Type), "integration")
	}
}

// Settings returns the tenant configuration, seeding defaults on first read.
func (a *Adapter) Settings(ctx context.Context) (settings.Settings, error) {
	return a.store.GetOrCreate(ctx)
}

// UpdateSettings replaces the tenant configuration.
func (a *Adapter) UpdateSettings(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	return a.store.Update(ctx, s)
}

// CreatePurchaseJournalEntries posts the voucher for a completed purchase:
// debit the purchase expense account, credit the vendor's payable account.
// Returns nil without posting when purchase auto-entries are disabled.
func (a *Adapter) CreatePurchaseJournalEntries(ctx context.Context, evt PurchaseEvent, opts Options) (*vouchers.Voucher, error) {
	if evt.TotalAmount.Sign() <= 0 {
		return nil, errors.New("integration: purchase total must be positive")
	}
	cfg, err := a.store.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoPostPurchases {
		return nil, nil
	}
	expense, err := a.resolveAccount(ctx, cfg.PurchaseAccount, accounts.AccountTypeDirectExpense, opts)
	if err != nil {
		return nil, err
	}
	payable, err := a.resolveAccount(ctx, vendorAccountName(evt.VendorID, evt.VendorName), accounts.AccountTypeVendor, opts)
	if err != nil {
		return nil, err
	}
	voucher, err := a.ledger.Create(ctx, vouchers.CreateVoucherInput{
		Date:      eventDate(evt.Date),
		Type:      vouchers.VoucherTypeJournal,
		Reference: sourceRef("PURCHASE", evt.Reference),
		Narration: fmt.Sprintf("Purchase %s", evt.Reference),
		Entries: []vouchers.EntryInput{
			{AccountID: expense.ID, Debit: evt.TotalAmount},
			{AccountID: payable.ID, Credit: evt.TotalAmount},
		},
	})
	if err != nil {
		return nil, err
	}
	a.countPosted(voucher)
	return &voucher, nil
}

// CreateSalesJournalEntries posts one voucher per sale. Each sale is its own
// atomic unit: a failure stops the batch but already posted sales stay
// posted, favoring partial progress over all-or-nothing semantics. The
// vouchers created before the failure are returned alongside the error.
func (a *Adapter) CreateSalesJournalEntries(ctx context.Context, sales []SaleEvent, opts Options) ([]vouchers.Voucher, error) {
	cfg, err := a.store.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoPostSales {
		return nil, nil
	}
	created := make([]vouchers.Voucher, 0, len(sales))
	for idx, sale := range sales {
		voucher, err := a.postSale(ctx, cfg, sale, opts)
		if err != nil {
			return created, fmt.Errorf("integration: sale %d (%s): %w", idx, sale.Reference, err)
		}
		a.countPosted(voucher)
		created = append(created, voucher)
	}
	return created, nil
}

func (a *Adapter) postSale(ctx context.Context, cfg settings.Settings, sale SaleEvent, opts Options) (vouchers.Voucher, error) {
	if sale.TotalAmount.Sign() <= 0 {
		return vouchers.Voucher{}, errors.New("sale total must be positive")
	}
	revenue, err := a.resolveAccount(ctx, cfg.RevenueAccount, accounts.AccountTypeLiability, opts)
	if err != nil {
		return vouchers.Voucher{}, err
	}
	var debited accounts.Account
	voucherType := vouchers.VoucherTypeReceipt
	if sale.CustomerID != "" {
		debited, err = a.resolveAccount(ctx, customerAccountName(sale.CustomerID, sale.CustomerName), accounts.AccountTypeCustomer, opts)
		voucherType = vouchers.VoucherTypeJournal
	} else {
		debited, err = a.resolveAccount(ctx, cfg.BankAccount, accounts.AccountTypeBank, opts)
	}
	if err != nil {
		return vouchers.Voucher{}, err
	}
	return a.ledger.Create(ctx, vouchers.CreateVoucherInput{
		Date:      eventDate(sale.Date),
		Type:      voucherType,
		Reference: sourceRef("SALE", sale.Reference),
		Narration: fmt.Sprintf("Sale %s", sale.Reference),
		Entries: []vouchers.EntryInput{
			{AccountID: debited.ID, Debit: sale.TotalAmount},
			{AccountID: revenue.ID, Credit: sale.TotalAmount},
		},
	})
}

// CreateCustomerPaymentJournalEntries posts the voucher for a customer
// payment: debit the bank account, credit the customer's receivable, or the
// reverse for a refund.
func (a *Adapter) CreateCustomerPaymentJournalEntries(ctx context.Context, evt PaymentEvent, opts Options) (*vouchers.Voucher, error) {
	if evt.Amount.Sign() <= 0 {
		return nil, errors.New("integration: payment amount must be positive")
	}
	cfg, err := a.store.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoPostPayments {
		return nil, nil
	}
	bank, err := a.resolveAccount(ctx, cfg.BankAccount, accounts.AccountTypeBank, opts)
	if err != nil {
		return nil, err
	}
	receivable, err := a.resolveAccount(ctx, customerAccountName(evt.CustomerID, evt.CustomerName), accounts.AccountTypeCustomer, opts)
	if err != nil {
		return nil, err
	}
	entries := []vouchers.EntryInput{
		{AccountID: bank.ID, Debit: evt.Amount},
		{AccountID: receivable.ID, Credit: evt.Amount},
	}
	voucherType := vouchers.VoucherTypeReceipt
	narration := fmt.Sprintf("Payment %s", evt.Reference)
	if evt.Refund {
		entries = []vouchers.EntryInput{
			{AccountID: receivable.ID, Debit: evt.Amount},
			{AccountID: bank.ID, Credit: evt.Amount},
		}
		voucherType = vouchers.VoucherTypePayment
		narration = fmt.Sprintf("Refund %s", evt.Reference)
	}
	voucher, err := a.ledger.Create(ctx, vouchers.CreateVoucherInput{
		Date:      eventDate(evt.Date),
		Type:      voucherType,
		Reference: sourceRef("PAYMENT", evt.Reference),
		Narration: narration,
		Entries:   entries,
	})
	if err != nil {
		return nil, err
	}
	a.countPosted(voucher)
	return &voucher, nil
}

// resolveAccount finds the mapping account by name, creating it lazily as a
// system account when permitted. A create racing another writer falls back
// to the winner's row.
func (a *Adapter) resolveAccount(ctx context.Context, name string, accountType accounts.AccountType, opts Options) (accounts.Account, error) {
	account, err := a.registry.FindActiveByName(ctx, name)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return accounts.Account{}, err
	}
	if !opts.AutoCreateAccounts {
		return accounts.Account{}, fmt.Errorf("%w: %q", shared.ErrMissingMappingAccount, name)
	}
	account, err = a.registry.Create(ctx, name, accountType, true)
	if errors.Is(err, shared.ErrDuplicateName) {
		return a.registry.FindActiveByName(ctx, name)
	}
	if err != nil {
		return accounts.Account{}, err
	}
	if a.logger != nil {
		a.logger.Info("mapping account created", slog.String("name", name), slog.String("type", string(accountType)))
	}
	return account, nil
}

func vendorAccountName(id, name string) string {
	if name != "" {
		return fmt.Sprintf("Vendor - %s", name)
	}
	return fmt.Sprintf("Vendor - %s", id)
}

func customerAccountName(id, name string) string {
	if name != "" {
		return fmt.Sprintf("Customer - %s", name)
	}
	return fmt.Sprintf("Customer - %s", id)
}

// sourceRef derives a stable reference for the voucher so a replayed event
// is recognizable in listings and audits.
func sourceRef(module, ref string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(module+":"+ref))
	return fmt.Sprintf("%s:%s:%s", module, ref, id.String()[:8])
}

func eventDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
