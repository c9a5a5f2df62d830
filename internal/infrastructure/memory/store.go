// Package memory implementa todos los puertos de repositorio sobre mapas en
// memoria, con transacciones por copia y restauración. Existe para probar los
// casos de uso sin PostgreSQL, conservando la semántica que importa: rollback
// total en error, idempotencia por clave única y conteos exactos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/returns"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ stock.TxRunner   = (*Store)(nil)
	_ sales.TxRunner   = (*Store)(nil)
	_ billing.TxRunner = (*Store)(nil)
	_ returns.TxRunner = (*Store)(nil)
)

type dataset struct {
	ledger       []entity.StockLedgerEntry
	snapshots    map[string]entity.StockSnapshot // variantID|warehouseID
	sales        map[string]entity.Sale
	saleItems    []entity.SaleItem
	invoices     map[string]entity.Invoice
	invoiceItems []entity.InvoiceItem
	returns      map[string]entity.Return
	returnItems  []entity.ReturnItem
	sequences    map[string]int64 // prefix|year
	products     map[string]entity.Product
	variants     map[string]entity.ProductVariant
	warehouses   map[string]entity.Warehouse
	users        map[string]entity.User
}

func newDataset() *dataset {
	return &dataset{
		snapshots:  map[string]entity.StockSnapshot{},
		sales:      map[string]entity.Sale{},
		invoices:   map[string]entity.Invoice{},
		returns:    map[string]entity.Return{},
		sequences:  map[string]int64{},
		products:   map[string]entity.Product{},
		variants:   map[string]entity.ProductVariant{},
		warehouses: map[string]entity.Warehouse{},
		users:      map[string]entity.User{},
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		ledger:       append([]entity.StockLedgerEntry(nil), d.ledger...),
		snapshots:    make(map[string]entity.StockSnapshot, len(d.snapshots)),
		sales:        make(map[string]entity.Sale, len(d.sales)),
		saleItems:    append([]entity.SaleItem(nil), d.saleItems...),
		invoices:     make(map[string]entity.Invoice, len(d.invoices)),
		invoiceItems: append([]entity.InvoiceItem(nil), d.invoiceItems...),
		returns:      make(map[string]entity.Return, len(d.returns)),
		returnItems:  append([]entity.ReturnItem(nil), d.returnItems...),
		sequences:    make(map[string]int64, len(d.sequences)),
		products:     make(map[string]entity.Product, len(d.products)),
		variants:     make(map[string]entity.ProductVariant, len(d.variants)),
		warehouses:   make(map[string]entity.Warehouse, len(d.warehouses)),
		users:        make(map[string]entity.User, len(d.users)),
	}
	for k, v := range d.snapshots {
		c.snapshots[k] = v
	}
	for k, v := range d.sales {
		c.sales[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	for k, v := range d.returns {
		c.returns[k] = v
	}
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.variants {
		c.variants[k] = v
	}
	for k, v := range d.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Store guarda el estado y reparte vistas tipadas, una por puerto. Las
// "transacciones" copian el estado antes de ejecutar la función y lo
// restauran si esta devuelve error.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func snapKey(variantID, warehouseID string) string {
	return variantID + "|" + warehouseID
}

func seqKey(prefix string, year int) string {
	return fmt.Sprintf("%s|%d", prefix, year)
}

// Vistas por puerto.

func (s *Store) Ledger() repository.StockLedgerRepository      { return ledgerRepo{s} }
func (s *Store) Snapshots() repository.StockSnapshotRepository { return snapshotRepo{s} }
func (s *Store) Sales() repository.SaleRepository              { return saleRepo{s} }
func (s *Store) Invoices() repository.InvoiceRepository        { return invoiceRepo{s} }
func (s *Store) Returns() repository.ReturnRepository          { return returnRepo{s} }
func (s *Store) Sequences() repository.SequenceRepository      { return sequenceRepo{s} }
func (s *Store) Products() repository.ProductRepository        { return productRepo{s} }
func (s *Store) Warehouses() repository.WarehouseRepository    { return warehouseRepo{s} }
func (s *Store) Users() repository.UserRepository              { return userRepo{s} }

// TxRunners.

func (s *Store) inTx(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := s.data.clone()
	if err := fn(); err != nil {
		s.data = backup
		return err
	}
	return nil
}

func (s *Store) Run(_ context.Context, fn func(repository.StockLedgerRepository, repository.StockSnapshotRepository) error) error {
	return s.inTx(func() error { return fn(ledgerRepo{s}, snapshotRepo{s}) })
}

func (s *Store) RunSale(_ context.Context, fn func(repository.StockLedgerRepository, repository.StockSnapshotRepository, repository.SaleRepository, repository.SequenceRepository) error) error {
	return s.inTx(func() error { return fn(ledgerRepo{s}, snapshotRepo{s}, saleRepo{s}, sequenceRepo{s}) })
}

func (s *Store) RunBilling(_ context.Context, fn func(repository.InvoiceRepository, repository.SequenceRepository) error) error {
	return s.inTx(func() error { return fn(invoiceRepo{s}, sequenceRepo{s}) })
}

func (s *Store) RunReturn(_ context.Context, fn func(repository.StockLedgerRepository, repository.StockSnapshotRepository, repository.SaleRepository, repository.ReturnRepository) error) error {
	return s.inTx(func() error { return fn(ledgerRepo{s}, snapshotRepo{s}, saleRepo{s}, returnRepo{s}) })
}

// Seeds para pruebas.

func (s *Store) SeedProduct(p entity.Product) {
	s.data.products[p.ID] = p
}

func (s *Store) SeedVariant(v entity.ProductVariant) {
	s.data.variants[v.ID] = v
}

func (s *Store) SeedWarehouse(w entity.Warehouse) {
	s.data.warehouses[w.ID] = w
}

// --- ledger ---

var _ repository.StockLedgerRepository = ledgerRepo{}

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) Append(entry *entity.StockLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.s.data.ledger = append(r.s.data.ledger, *entry)
	return nil
}

func (r ledgerRepo) GetByID(id string) (*entity.StockLedgerEntry, error) {
	for i := range r.s.data.ledger {
		if r.s.data.ledger[i].ID == id {
			e := r.s.data.ledger[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r ledgerRepo) List(filter repository.LedgerFilter) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for i := len(r.s.data.ledger) - 1; i >= 0; i-- {
		e := r.s.data.ledger[i]
		if filter.VariantID != "" && e.VariantID != filter.VariantID {
			continue
		}
		if filter.WarehouseID != "" && e.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, &e)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r ledgerRepo) SumByKey(variantID, warehouseID string) (int64, error) {
	var total int64
	for i := range r.s.data.ledger {
		e := &r.s.data.ledger[i]
		if e.VariantID == variantID && e.WarehouseID == warehouseID {
			total += e.Quantity
		}
	}
	return total, nil
}

// --- snapshots ---

var _ repository.StockSnapshotRepository = snapshotRepo{}

type snapshotRepo struct{ s *Store }

func (r snapshotRepo) Get(variantID, warehouseID string) (*entity.StockSnapshot, error) {
	snap, ok := r.s.data.snapshots[snapKey(variantID, warehouseID)]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (r snapshotRepo) LockForUpdate(variantID, warehouseID string) (*entity.StockSnapshot, error) {
	key := snapKey(variantID, warehouseID)
	snap, ok := r.s.data.snapshots[key]
	if !ok {
		snap = entity.StockSnapshot{VariantID: variantID, WarehouseID: warehouseID, UpdatedAt: time.Now()}
		r.s.data.snapshots[key] = snap
	}
	return &snap, nil
}

func (r snapshotRepo) Upsert(snap *entity.StockSnapshot) error {
	r.s.data.snapshots[snapKey(snap.VariantID, snap.WarehouseID)] = *snap
	return nil
}

func (r snapshotRepo) ListByVariant(variantID string) ([]*entity.StockSnapshot, error) {
	var out []*entity.StockSnapshot
	for _, snap := range r.s.data.snapshots {
		if snap.VariantID == variantID {
			c := snap
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

// --- sales ---

var _ repository.SaleRepository = saleRepo{}

type saleRepo struct{ s *Store }

func (r saleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	for _, existing := range r.s.data.sales {
		if existing.IdempotencyKey == sale.IdempotencyKey {
			return fmt.Errorf("create sale: %w", domain.ErrDuplicate)
		}
	}
	r.s.data.sales[sale.ID] = *sale
	return nil
}

func (r saleRepo) CreateItem(item *entity.SaleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.s.data.saleItems = append(r.s.data.saleItems, *item)
	return nil
}

func (r saleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.data.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

func (r saleRepo) GetByIdempotencyKey(key string) (*entity.Sale, error) {
	for _, sale := range r.s.data.sales {
		if sale.IdempotencyKey == key {
			c := sale
			return &c, nil
		}
	}
	return nil, nil
}

func (r saleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for i := range r.s.data.saleItems {
		if r.s.data.saleItems[i].SaleID == saleID {
			it := r.s.data.saleItems[i]
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	return out, nil
}

func (r saleRepo) ListItemsForUpdate(saleID string) ([]*entity.SaleItem, error) {
	return r.ListItems(saleID)
}

// --- invoices ---

var _ repository.InvoiceRepository = invoiceRepo{}

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	for _, existing := range r.s.data.invoices {
		if existing.SaleID == inv.SaleID {
			return fmt.Errorf("create invoice: %w", domain.ErrDuplicate)
		}
	}
	r.s.data.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.s.data.invoiceItems = append(r.s.data.invoiceItems, *item)
	return nil
}

func (r invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r invoiceRepo) GetBySaleID(saleID string) (*entity.Invoice, error) {
	for _, inv := range r.s.data.invoices {
		if inv.SaleID == saleID {
			c := inv
			return &c, nil
		}
	}
	return nil, nil
}

func (r invoiceRepo) ListItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	for i := range r.s.data.invoiceItems {
		if r.s.data.invoiceItems[i].InvoiceID == invoiceID {
			it := r.s.data.invoiceItems[i]
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// --- returns ---

var _ repository.ReturnRepository = returnRepo{}

type returnRepo struct{ s *Store }

func (r returnRepo) Create(ret *entity.Return) error {
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	r.s.data.returns[ret.ID] = *ret
	return nil
}

func (r returnRepo) CreateItem(item *entity.ReturnItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.s.data.returnItems = append(r.s.data.returnItems, *item)
	return nil
}

func (r returnRepo) GetByID(id string) (*entity.Return, error) {
	ret, ok := r.s.data.returns[id]
	if !ok {
		return nil, nil
	}
	return &ret, nil
}

func (r returnRepo) ListBySale(saleID string) ([]*entity.Return, error) {
	var out []*entity.Return
	for _, ret := range r.s.data.returns {
		if ret.SaleID == saleID {
			c := ret
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r returnRepo) ListItems(returnID string) ([]*entity.ReturnItem, error) {
	var out []*entity.ReturnItem
	for i := range r.s.data.returnItems {
		if r.s.data.returnItems[i].ReturnID == returnID {
			it := r.s.data.returnItems[i]
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r returnRepo) SumReturnedBySaleItem(saleItemID string) (int64, error) {
	var total int64
	for i := range r.s.data.returnItems {
		if r.s.data.returnItems[i].SaleItemID == saleItemID {
			total += r.s.data.returnItems[i].Quantity
		}
	}
	return total, nil
}

// --- sequences ---

var _ repository.SequenceRepository = sequenceRepo{}

type sequenceRepo struct{ s *Store }

func (r sequenceRepo) Next(prefix string, year int) (int64, error) {
	key := seqKey(prefix, year)
	r.s.data.sequences[key]++
	return r.s.data.sequences[key], nil
}

// --- catálogo y maestros ---

var _ repository.ProductRepository = productRepo{}

type productRepo struct{ s *Store }

func (r productRepo) GetProductByID(id string) (*entity.Product, error) {
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetVariantByID(id string) (*entity.ProductVariant, error) {
	v, ok := r.s.data.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r productRepo) GetVariantBySKU(sku string) (*entity.ProductVariant, error) {
	for _, v := range r.s.data.variants {
		if v.SKU == sku {
			c := v
			return &c, nil
		}
	}
	return nil, nil
}

var _ repository.WarehouseRepository = warehouseRepo{}

type warehouseRepo struct{ s *Store }

func (r warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.s.data.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r warehouseRepo) List() ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.data.warehouses {
		c := w
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ repository.UserRepository = userRepo{}

type userRepo struct{ s *Store }

func (r userRepo) Create(user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	for _, existing := range r.s.data.users {
		if existing.Email == user.Email {
			return fmt.Errorf("create user: %w", domain.ErrDuplicate)
		}
	}
	r.s.data.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.data.users {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

func (r userRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
