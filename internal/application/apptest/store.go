// Package apptest provee dobles en memoria de los puertos de persistencia para
// probar los casos de uso sin PostgreSQL. El TxRunner serializa las "transacciones"
// con un mutex (equivalente funcional del SELECT FOR UPDATE por registro) y
// restaura un snapshot si la función devuelve error (equivalente del Rollback).
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Store estado en memoria compartido por todos los repositorios falsos.
type Store struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	stock          map[string]*entity.StockRecord
	movements      []*entity.Movement
	reservations   map[string]*entity.Reservation
	products       map[string]*entity.Product
	purchaseOrders map[string]*entity.PurchaseOrder
	poItems        map[string]*entity.PurchaseOrderItem
	receipts       map[string]*entity.GoodsReceipt
	receiptItems   []*entity.GoodsReceiptItem
	receiptItemErr error // si se fija, CreateItem falla (simula persistencia caída)
	suppliers      map[string]*entity.ProductSupplier // por productID
	warehouses     map[string]*entity.Warehouse
	lowStock       []repository.LowStockItem
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

func newData() *data {
	return &data{
		stock:          map[string]*entity.StockRecord{},
		reservations:   map[string]*entity.Reservation{},
		products:       map[string]*entity.Product{},
		purchaseOrders: map[string]*entity.PurchaseOrder{},
		poItems:        map[string]*entity.PurchaseOrderItem{},
		receipts:       map[string]*entity.GoodsReceipt{},
		suppliers:      map[string]*entity.ProductSupplier{},
		warehouses:     map[string]*entity.Warehouse{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.stock {
		cp := *v
		c.stock[k] = &cp
	}
	for k, v := range d.reservations {
		cp := *v
		c.reservations[k] = &cp
	}
	for k, v := range d.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range d.purchaseOrders {
		cp := *v
		c.purchaseOrders[k] = &cp
	}
	for k, v := range d.poItems {
		cp := *v
		c.poItems[k] = &cp
	}
	for k, v := range d.receipts {
		cp := *v
		c.receipts[k] = &cp
	}
	for k, v := range d.suppliers {
		cp := *v
		c.suppliers[k] = &cp
	}
	for k, v := range d.warehouses {
		cp := *v
		c.warehouses[k] = &cp
	}
	c.movements = append([]*entity.Movement(nil), d.movements...)
	c.receiptItems = append([]*entity.GoodsReceiptItem(nil), d.receiptItems...)
	c.receiptItemErr = d.receiptItemErr
	c.lowStock = append([]repository.LowStockItem(nil), d.lowStock...)
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// Run ejecuta fn bajo el mutex del store con repositorios atados al estado.
// Si fn devuelve error, el estado se restaura al snapshot previo (Rollback).
func (s *Store) Run(_ context.Context, fn func(repos ledger.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.d.clone()
	if err := fn(s.repos()); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

func (s *Store) repos() ledger.Repos {
	return ledger.Repos{
		Stock:          &stockRepo{d: s.d},
		Movements:      &movementRepo{d: s.d},
		Reservations:   &reservationRepo{d: s.d},
		Products:       &productRepo{d: s.d},
		PurchaseOrders: &purchaseOrderRepo{d: s.d},
		Receipts:       &goodsReceiptRepo{d: s.d},
	}
}

// Repositorios para lecturas fuera de transacción (toman el mutex por llamada).

// StockRepo repositorio de stock con locking por llamada.
func (s *Store) StockRepo() repository.StockRecordRepository { return &lockedStock{s} }

// MovementRepo repositorio de movimientos con locking por llamada.
func (s *Store) MovementRepo() repository.MovementRepository { return &lockedMovements{s} }

// ReservationRepo repositorio de reservas con locking por llamada.
func (s *Store) ReservationRepo() repository.ReservationRepository { return &lockedReservations{s} }

// ProductRepo repositorio de productos con locking por llamada.
func (s *Store) ProductRepo() repository.ProductRepository { return &lockedProducts{s} }

// SupplierRepo repositorio de proveedores con locking por llamada.
func (s *Store) SupplierRepo() repository.SupplierRepository { return &lockedSuppliers{s} }

// WarehouseRepo repositorio de bodegas con locking por llamada.
func (s *Store) WarehouseRepo() repository.WarehouseRepository { return &lockedWarehouses{s} }

// ──────────────────────────────────────────────────────────────────────────────
// Seeds y lecturas directas para asserts
// ──────────────────────────────────────────────────────────────────────────────

// AddStock siembra un registro de stock.
func (s *Store) AddStock(r *entity.StockRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.d.stock[r.ID] = &cp
}

// AddProduct siembra un producto.
func (s *Store) AddProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.d.products[p.ID] = &cp
}

// AddReservation siembra una reserva.
func (s *Store) AddReservation(r *entity.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.d.reservations[r.ID] = &cp
}

// AddPurchaseOrder siembra una orden de compra con sus líneas.
func (s *Store) AddPurchaseOrder(po *entity.PurchaseOrder, items ...*entity.PurchaseOrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *po
	s.d.purchaseOrders[po.ID] = &cp
	for _, it := range items {
		icp := *it
		s.d.poItems[it.ID] = &icp
	}
}

// AddSupplier siembra el proveedor preferido de un producto.
func (s *Store) AddSupplier(ps *entity.ProductSupplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ps
	s.d.suppliers[ps.ProductID] = &cp
}

// AddWarehouse siembra una bodega.
func (s *Store) AddWarehouse(w *entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	s.d.warehouses[w.ID] = &cp
}

// SetLowStock fija el resultado que devolverá ListBelowReorder.
func (s *Store) SetLowStock(items []repository.LowStockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.lowStock = append([]repository.LowStockItem(nil), items...)
}

// FailReceiptItemWrites hace fallar las escrituras de resultados de línea de
// recepción (nil las restablece). Simula la caída del almacén del rastro.
func (s *Store) FailReceiptItemWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.receiptItemErr = err
}

// Stock devuelve una copia del registro de stock (nil si no existe).
func (s *Store) Stock(id string) *entity.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.d.stock[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// StockCount cantidad de registros de stock existentes.
func (s *Store) StockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.d.stock)
}

// Movements devuelve una copia del mayor completo en orden de inserción.
func (s *Store) Movements() []*entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Movement, 0, len(s.d.movements))
	for _, m := range s.d.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// Reservation devuelve una copia de la reserva (nil si no existe).
func (s *Store) Reservation(id string) *entity.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.d.reservations[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// Product devuelve una copia del producto (nil si no existe).
func (s *Store) Product(id string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.d.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// POItem devuelve una copia de la línea de orden de compra (nil si no existe).
func (s *Store) POItem(id string) *entity.PurchaseOrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.d.poItems[id]
	if !ok {
		return nil
	}
	cp := *it
	return &cp
}

// PurchaseOrder devuelve una copia de la orden de compra (nil si no existe).
func (s *Store) PurchaseOrder(id string) *entity.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.d.purchaseOrders[id]
	if !ok {
		return nil
	}
	cp := *po
	return &cp
}

// ReceiptItems devuelve una copia de los resultados por línea persistidos.
func (s *Store) ReceiptItems() []*entity.GoodsReceiptItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.GoodsReceiptItem, 0, len(s.d.receiptItems))
	for _, it := range s.d.receiptItems {
		cp := *it
		out = append(out, &cp)
	}
	return out
}

// FindStockByLocator busca un registro por tupla de negocio (copia, nil si no existe).
func (s *Store) FindStockByLocator(companyID string, locator entity.StockLocator) *entity.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.d.findByLocator(companyID, locator)
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func (d *data) findByLocator(companyID string, locator entity.StockLocator) *entity.StockRecord {
	for _, r := range d.stock {
		if r.CompanyID != companyID ||
			r.ProductID != locator.ProductID ||
			r.WarehouseID != locator.WarehouseID {
			continue
		}
		if !strPtrEqual(r.VariantID, locator.VariantID) || !strPtrEqual(r.LotNumber, locator.LotNumber) {
			continue
		}
		return r
	}
	return nil
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios atados a una transacción (el caller ya tiene el mutex)
// ──────────────────────────────────────────────────────────────────────────────

type stockRepo struct{ d *data }

func (r *stockRepo) GetByID(_ context.Context, id string) (*entity.StockRecord, error) {
	rec, ok := r.d.stock[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *stockRepo) GetByLocator(_ context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error) {
	rec := r.d.findByLocator(companyID, locator)
	if rec == nil {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *stockRepo) GetByLocatorForUpdate(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error) {
	return r.GetByLocator(ctx, companyID, locator)
}

func (r *stockRepo) Create(_ context.Context, record *entity.StockRecord) error {
	if _, exists := r.d.stock[record.ID]; exists {
		return domain.ErrDuplicate
	}
	locator := entity.StockLocator{
		ProductID:   record.ProductID,
		VariantID:   record.VariantID,
		WarehouseID: record.WarehouseID,
		LotNumber:   record.LotNumber,
	}
	if r.d.findByLocator(record.CompanyID, locator) != nil {
		return domain.ErrDuplicate
	}
	cp := *record
	r.d.stock[record.ID] = &cp
	return nil
}

func (r *stockRepo) UpdateQuantities(_ context.Context, record *entity.StockRecord) error {
	if _, ok := r.d.stock[record.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *record
	r.d.stock[record.ID] = &cp
	return nil
}

func (r *stockRepo) Retire(_ context.Context, id string) error {
	rec, ok := r.d.stock[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Retired = true
	return nil
}

func (r *stockRepo) ListByWarehouse(_ context.Context, companyID, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.d.stock {
		if rec.CompanyID == companyID && rec.WarehouseID == warehouseID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

type movementRepo struct{ d *data }

func (r *movementRepo) Create(_ context.Context, movement *entity.Movement) error {
	cp := *movement
	r.d.movements = append(r.d.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.d.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByStockRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.Movement, error) {
	return r.List(ctx, repository.MovementFilter{StockRecordID: stockRecordID, Limit: limit, Offset: offset})
}

func (r *movementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.d.movements {
		if filter.CompanyID != "" {
			rec, ok := r.d.stock[m.StockRecordID]
			if !ok || rec.CompanyID != filter.CompanyID {
				continue
			}
		}
		if filter.StockRecordID != "" && m.StockRecordID != filter.StockRecordID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.ReferenceType != "" && m.Reference.Type() != filter.ReferenceType {
			continue
		}
		if filter.ReferenceID != "" && m.Reference.ID() != filter.ReferenceID {
			continue
		}
		if filter.From != nil && m.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.OccurredAt.After(*filter.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	// Más recientes primero, como el repositorio real.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *movementRepo) SumDeltas(_ context.Context, stockRecordID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.d.movements {
		if m.StockRecordID == stockRecordID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

type reservationRepo struct{ d *data }

func (r *reservationRepo) Create(_ context.Context, reservation *entity.Reservation) error {
	if _, exists := r.d.reservations[reservation.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *reservation
	r.d.reservations[reservation.ID] = &cp
	return nil
}

func (r *reservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	res, ok := r.d.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (r *reservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r *reservationRepo) ReleaseIfActive(_ context.Context, id, toStatus, releasedBy string, releasedAt time.Time) (bool, error) {
	res, ok := r.d.reservations[id]
	if !ok || res.Status != entity.ReservationStatusActive {
		return false, nil
	}
	res.Status = toStatus
	res.ReleasedAt = &releasedAt
	if releasedBy != "" {
		res.ReleasedBy = &releasedBy
	}
	return true, nil
}

func (r *reservationRepo) ListActiveByStockRecord(_ context.Context, stockRecordID string) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.d.reservations {
		if res.StockRecordID == stockRecordID && res.Status == entity.ReservationStatusActive {
			cp := *res
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *reservationRepo) ListExpiredIDs(_ context.Context, now time.Time, limit int) ([]string, error) {
	var ids []string
	for _, res := range r.d.reservations {
		if res.IsExpired(now) {
			ids = append(ids, res.ID)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *reservationRepo) SumActive(_ context.Context, stockRecordID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, res := range r.d.reservations {
		if res.StockRecordID == stockRecordID && res.Status == entity.ReservationStatusActive {
			sum = sum.Add(res.Quantity)
		}
	}
	return sum, nil
}

type productRepo struct{ d *data }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.d.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	p, ok := r.d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	return nil
}

func (r *productRepo) ListBelowReorder(_ context.Context, _, warehouseID string) ([]repository.LowStockItem, error) {
	if warehouseID == "" {
		return append([]repository.LowStockItem(nil), r.d.lowStock...), nil
	}
	var out []repository.LowStockItem
	for _, it := range r.d.lowStock {
		if it.WarehouseID == warehouseID {
			out = append(out, it)
		}
	}
	return out, nil
}

type purchaseOrderRepo struct{ d *data }

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.d.purchaseOrders[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	return &cp, nil
}

func (r *purchaseOrderRepo) GetItem(_ context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	it, ok := r.d.poItems[itemID]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *purchaseOrderRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	return r.GetItem(ctx, itemID)
}

func (r *purchaseOrderRepo) ListItems(_ context.Context, purchaseOrderID string) ([]*entity.PurchaseOrderItem, error) {
	var out []*entity.PurchaseOrderItem
	for _, it := range r.d.poItems {
		if it.PurchaseOrderID == purchaseOrderID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *purchaseOrderRepo) UpdateItemReceipt(_ context.Context, item *entity.PurchaseOrderItem) error {
	if _, ok := r.d.poItems[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.d.poItems[item.ID] = &cp
	return nil
}

func (r *purchaseOrderRepo) UpdateStatus(_ context.Context, purchaseOrderID, status string) error {
	po, ok := r.d.purchaseOrders[purchaseOrderID]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	return nil
}

type goodsReceiptRepo struct{ d *data }

func (r *goodsReceiptRepo) Create(_ context.Context, receipt *entity.GoodsReceipt) error {
	if _, exists := r.d.receipts[receipt.ID]; exists {
		return domain.ErrDuplicate
	}
	cp := *receipt
	r.d.receipts[receipt.ID] = &cp
	return nil
}

func (r *goodsReceiptRepo) CreateItem(_ context.Context, item *entity.GoodsReceiptItem) error {
	if r.d.receiptItemErr != nil {
		return r.d.receiptItemErr
	}
	cp := *item
	r.d.receiptItems = append(r.d.receiptItems, &cp)
	return nil
}

func (r *goodsReceiptRepo) GetByID(_ context.Context, id string) (*entity.GoodsReceipt, error) {
	rec, ok := r.d.receipts[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *goodsReceiptRepo) ListItems(_ context.Context, receiptID string) ([]*entity.GoodsReceiptItem, error) {
	var out []*entity.GoodsReceiptItem
	for _, it := range r.d.receiptItems {
		if it.GoodsReceiptID == receiptID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios para lecturas fuera de transacción (locking por llamada)
// ──────────────────────────────────────────────────────────────────────────────

type lockedStock struct{ s *Store }

func (l *lockedStock) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).GetByID(ctx, id)
}

func (l *lockedStock) GetByLocator(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).GetByLocator(ctx, companyID, locator)
}

func (l *lockedStock) GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).GetForUpdate(ctx, id)
}

func (l *lockedStock) GetByLocatorForUpdate(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).GetByLocatorForUpdate(ctx, companyID, locator)
}

func (l *lockedStock) Create(ctx context.Context, record *entity.StockRecord) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).Create(ctx, record)
}

func (l *lockedStock) UpdateQuantities(ctx context.Context, record *entity.StockRecord) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).UpdateQuantities(ctx, record)
}

func (l *lockedStock) Retire(ctx context.Context, id string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).Retire(ctx, id)
}

func (l *lockedStock) ListByWarehouse(ctx context.Context, companyID, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&stockRepo{l.s.d}).ListByWarehouse(ctx, companyID, warehouseID, limit, offset)
}

type lockedMovements struct{ s *Store }

func (l *lockedMovements) Create(ctx context.Context, movement *entity.Movement) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&movementRepo{l.s.d}).Create(ctx, movement)
}

func (l *lockedMovements) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&movementRepo{l.s.d}).GetByID(ctx, id)
}

func (l *lockedMovements) ListByStockRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.Movement, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&movementRepo{l.s.d}).ListByStockRecord(ctx, stockRecordID, limit, offset)
}

func (l *lockedMovements) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&movementRepo{l.s.d}).List(ctx, filter)
}

func (l *lockedMovements) SumDeltas(ctx context.Context, stockRecordID string) (decimal.Decimal, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&movementRepo{l.s.d}).SumDeltas(ctx, stockRecordID)
}

type lockedReservations struct{ s *Store }

func (l *lockedReservations) Create(ctx context.Context, reservation *entity.Reservation) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&reservationRepo{l.s.d}).Create(ctx, reservation)
}

func (l *lockedReservations) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&reservationRepo{l.s.d}).GetByID(ctx, id)
}

func (l *lockedReservations) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&reservationRepo{l.s.d}).GetForUpdate(ctx, id)
}

func (l *lockedReservations) ReleaseIfActive(ctx context.Context, id, toStatus, releasedBy string, releasedAt time.Time) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&reservationRepo{l.s.d}).ReleaseIfActive(ctx, id, toStatus, releasedBy, releasedAt)
}

func (l *lockedReservations) ListActiveByStockRecord(ctx context.Context, stockRecordID string) ([]*entity.Reservation, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&reservationRepo{l.s.d}).ListActiveByStockRecord(ctx, stockRecordID)
}

func (l *lockedReservations) ListExpiredIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&reservationRepo{l.s.d}).ListExpiredIDs(ctx, now, limit)
}

func (l *lockedReservations) SumActive(ctx context.Context, stockRecordID string) (decimal.Decimal, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&reservationRepo{l.s.d}).SumActive(ctx, stockRecordID)
}

type lockedProducts struct{ s *Store }

func (l *lockedProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&productRepo{l.s.d}).GetByID(ctx, id)
}

func (l *lockedProducts) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&productRepo{l.s.d}).UpdateCost(ctx, id, cost)
}

func (l *lockedProducts) ListBelowReorder(ctx context.Context, companyID, warehouseID string) ([]repository.LowStockItem, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return (&productRepo{l.s.d}).ListBelowReorder(ctx, companyID, warehouseID)
}

type lockedSuppliers struct{ s *Store }

func (l *lockedSuppliers) GetPreferred(_ context.Context, productID string) (*entity.ProductSupplier, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	ps, ok := l.s.d.suppliers[productID]
	if !ok {
		return nil, nil
	}
	cp := *ps
	return &cp, nil
}

type lockedWarehouses struct{ s *Store }

func (l *lockedWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	w, ok := l.s.d.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}
