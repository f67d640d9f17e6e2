package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName        = errors.New("name must not be blank")
	ErrCentralProtected = errors.New("the central warehouse cannot be deleted")
	ErrLastLocation     = errors.New("at least one location must remain")
	ErrLocationNotFound = errors.New("location not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrUnknownField     = errors.New("unknown item field")
	ErrInvalidPurchase  = errors.New("invalid purchase")
	ErrNoLocations      = errors.New("ledger needs at least one location")
)

// EditResult describes what a mutation touched.
// Applied is false when the target did not exist; that is not an error.
type EditResult struct {
	Applied      bool
	LocationID   string
	ItemIDs      []string
	PropagatedTo []string // location ids that received a central price
	Recomputed   []string // product ids whose central item was re-aggregated
}

// Ledger owns every location and the purchase log. All mutations are
// serialized by one mutex; each operation reads the full prior state and
// installs a full next state, so aggregation always sees every branch edit.
// Readers get copies and never hold references into ledger state.
type Ledger struct {
	mu        sync.Mutex
	locations []Location
	purchases []PurchaseRecord
	activeID  string
	products  map[string]string // normalized name -> product id

	newID func() string
	now   func() time.Time
}

// NewLedger builds a ledger from existing locations and purchases.
// Locations without a role get one from DetectRole; if none is central the
// first location is promoted. Items without a product id are resolved by name.
func NewLedger(locations []Location, purchases []PurchaseRecord) (*Ledger, error) {
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}
	l := &Ledger{
		products: make(map[string]string),
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}

	l.locations = make([]Location, len(locations))
	centralSeen := false
	for i, loc := range locations {
		loc = loc.clone()
		if loc.Role == "" {
			loc.Role = DetectRole(loc.ID, loc.Name)
		}
		if loc.Role == RoleCentral {
			if centralSeen {
				loc.Role = RoleBranch
			}
			centralSeen = true
		}
		l.locations[i] = loc
	}
	if !centralSeen {
		l.locations[0].Role = RoleCentral
	}

	// Central first so branch items join the central catalog's ids.
	order := make([]int, 0, len(l.locations))
	for i := range l.locations {
		if l.locations[i].IsCentral() {
			order = append([]int{i}, order...)
		} else {
			order = append(order, i)
		}
	}
	for _, i := range order {
		for j := range l.locations[i].Items {
			it := &l.locations[i].Items[j]
			if it.ID == "" {
				it.ID = l.newID()
			}
			if it.ProductID == "" {
				it.ProductID = l.resolveProduct(it.Name)
			} else if _, ok := l.products[NormalizeName(it.Name)]; !ok {
				l.products[NormalizeName(it.Name)] = it.ProductID
			}
		}
	}

	l.purchases = append([]PurchaseRecord(nil), purchases...)
	l.activeID = l.centralLocked().ID
	return l, nil
}

// resolveProduct returns the product id for a name, allocating one on first sight.
func (l *Ledger) resolveProduct(name string) string {
	key := NormalizeName(name)
	if id, ok := l.products[key]; ok {
		return id
	}
	id := "prd_" + l.newID()
	l.products[key] = id
	return id
}

func (l *Ledger) centralLocked() *Location {
	for i := range l.locations {
		if l.locations[i].IsCentral() {
			return &l.locations[i]
		}
	}
	return &l.locations[0]
}

func (l *Ledger) indexLocked(locationID string) int {
	for i := range l.locations {
		if l.locations[i].ID == locationID {
			return i
		}
	}
	return -1
}

// ── Reads ─────────────────────────────────────────────────────────────────────

// Snapshot returns a deep copy of every location in display order.
func (l *Ledger) Snapshot() []Location {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Location, len(l.locations))
	for i, loc := range l.locations {
		out[i] = loc.clone()
	}
	return out
}

// Location returns a copy of one location.
func (l *Ledger) Location(id string) (Location, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Location{}, fmt.Errorf("%w: %s", ErrLocationNotFound, id)
	}
	return l.locations[i].clone(), nil
}

// Central returns a copy of the central warehouse.
func (l *Ledger) Central() Location {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.centralLocked().clone()
}

// Purchases returns the purchase log, oldest first.
func (l *Ledger) Purchases() []PurchaseRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]PurchaseRecord(nil), l.purchases...)
}

// ── Item edits ────────────────────────────────────────────────────────────────

// EditField sets one field on one item. A central price edit is copied to the
// same product everywhere; a branch edit to an aggregatable field re-aggregates
// the product into central. A missing location or item is a silent no-op.
func (l *Ledger) EditField(locationID, itemID string, f Field, raw string) (EditResult, error) {
	return l.BulkEditField(locationID, []string{itemID}, f, raw)
}

// BulkEditField applies the same value to several items of one location.
// Propagation and aggregation run once per distinct product.
func (l *Ledger) BulkEditField(locationID string, itemIDs []string, f Field, raw string) (EditResult, error) {
	if _, err := ParseField(string(f)); err != nil {
		return EditResult{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	res := EditResult{LocationID: locationID}
	li := l.indexLocked(locationID)
	if li < 0 {
		return res, nil
	}

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	next := make([]Location, len(l.locations))
	copy(next, l.locations)
	loc := next[li].clone()

	var productIDs []string
	seen := make(map[string]bool)
	addProduct := func(id string) {
		if !seen[id] {
			seen[id] = true
			productIDs = append(productIDs, id)
		}
	}
	for i := range loc.Items {
		it := &loc.Items[i]
		if !wanted[it.ID] {
			continue
		}
		if err := it.ApplyField(f, raw); err != nil {
			return EditResult{LocationID: locationID}, err
		}
		res.ItemIDs = append(res.ItemIDs, it.ID)
		if f == FieldName {
			// The name is the join key: the row leaves its old product and
			// feeds the one its new name resolves to.
			addProduct(it.ProductID)
			it.ProductID = l.resolveProduct(it.Name)
		}
		addProduct(it.ProductID)
	}
	if len(res.ItemIDs) == 0 {
		return res, nil
	}
	next[li] = loc
	res.Applied = true

	switch {
	case loc.IsCentral() && f.IsPrice():
		next, res.PropagatedTo = propagatePrice(next, productIDs, f, parseQuantity(raw))
	case !loc.IsCentral() && (f.IsAggregatable() || f == FieldName):
		for _, pid := range productIDs {
			next = AggregateCentral(next, pid)
		}
		res.Recomputed = productIDs
	}

	l.locations = next
	return res, nil
}

// propagatePrice copies a central price to every item of the given products.
func propagatePrice(locations []Location, productIDs []string, f Field, value decimal.Decimal) ([]Location, []string) {
	targets := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		targets[id] = true
	}
	var touched []string
	for i := range locations {
		var loc *Location
		for j, it := range locations[i].Items {
			if !targets[it.ProductID] {
				continue
			}
			if loc == nil {
				c := locations[i].clone()
				loc = &c
			}
			*loc.Items[j].numericField(f) = value
		}
		if loc != nil {
			locations[i] = *loc
			if !loc.IsCentral() {
				touched = append(touched, loc.ID)
			}
		}
	}
	return locations, touched
}

// ApplySales writes imported sales quantities keyed by item id. For a branch
// every touched product is re-aggregated into central once.
func (l *Ledger) ApplySales(locationID string, sales map[string]decimal.Decimal) (EditResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res := EditResult{LocationID: locationID}
	li := l.indexLocked(locationID)
	if li < 0 {
		return res, fmt.Errorf("%w: %s", ErrLocationNotFound, locationID)
	}

	next := make([]Location, len(l.locations))
	copy(next, l.locations)
	loc := next[li].clone()

	seen := make(map[string]bool)
	var productIDs []string
	for i := range loc.Items {
		qty, ok := sales[loc.Items[i].ID]
		if !ok {
			continue
		}
		loc.Items[i].Sales = qty
		res.ItemIDs = append(res.ItemIDs, loc.Items[i].ID)
		if pid := loc.Items[i].ProductID; !seen[pid] {
			seen[pid] = true
			productIDs = append(productIDs, pid)
		}
	}
	if len(res.ItemIDs) == 0 {
		return res, nil
	}
	next[li] = loc
	res.Applied = true

	if !loc.IsCentral() {
		for _, pid := range productIDs {
			next = AggregateCentral(next, pid)
		}
		res.Recomputed = productIDs
	}
	l.locations = next
	return res, nil
}

// ── Purchases ─────────────────────────────────────────────────────────────────

// Normalize cleans up a purchase typed into a form.
func (p *PurchaseRecord) Normalize() {
	p.InvoiceNumber = strings.TrimSpace(p.InvoiceNumber)
	p.Supplier = strings.ToUpper(strings.TrimSpace(p.Supplier))
	p.ProductName = strings.TrimSpace(p.ProductName)
	p.Category = strings.TrimSpace(p.Category)
	p.TotalCost = p.Quantity.Mul(p.UnitCost)
}

// Validate enforces the fields a purchase cannot be recorded without.
func (p *PurchaseRecord) Validate() error {
	if p.ProductName == "" {
		return fmt.Errorf("%w: product is required", ErrInvalidPurchase)
	}
	if p.InvoiceNumber == "" {
		return fmt.Errorf("%w: invoice number is required", ErrInvalidPurchase)
	}
	if p.Quantity.IsZero() {
		return fmt.Errorf("%w: quantity is required", ErrInvalidPurchase)
	}
	return nil
}

// AddPurchase appends a purchase and feeds it into the catalog. The central item
// named exactly like the product receives the quantity as inputs and the unit
// cost as its cost price; every other item of the product gets the cost only.
func (l *Ledger) AddPurchase(p PurchaseRecord) (PurchaseRecord, EditResult, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return PurchaseRecord{}, EditResult{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if p.ID == "" {
		p.ID = l.newID()
	}
	if p.Date.IsZero() {
		p.Date = l.now()
	}

	next := make([]Location, len(l.locations))
	copy(next, l.locations)

	res := EditResult{Applied: true}
	productIDs := make(map[string]bool)
	for i := range next {
		if !next[i].IsCentral() {
			continue
		}
		loc := next[i].clone()
		for j := range loc.Items {
			it := &loc.Items[j]
			if it.Name != p.ProductName {
				continue
			}
			it.Inputs = it.Inputs.Add(p.Quantity)
			it.CostPrice = p.UnitCost
			productIDs[it.ProductID] = true
			res.ItemIDs = append(res.ItemIDs, it.ID)
		}
		next[i] = loc
		res.LocationID = loc.ID
	}

	key := NormalizeName(p.ProductName)
	for i := range next {
		if next[i].IsCentral() {
			continue
		}
		var loc *Location
		for j, it := range next[i].Items {
			if !productIDs[it.ProductID] && NormalizeName(it.Name) != key {
				continue
			}
			if loc == nil {
				c := next[i].clone()
				loc = &c
			}
			loc.Items[j].CostPrice = p.UnitCost
		}
		if loc != nil {
			next[i] = *loc
			res.PropagatedTo = append(res.PropagatedTo, loc.ID)
		}
	}

	l.locations = next
	l.purchases = append(l.purchases, p)
	return p, res, nil
}

// ── Catalog maintenance ───────────────────────────────────────────────────────

// AddItem appends an item to a location. The product id is resolved by name so
// the new row joins existing rows of the same product.
func (l *Ledger) AddItem(locationID string, it InventoryItem) (InventoryItem, error) {
	if strings.TrimSpace(it.Name) == "" {
		return InventoryItem{}, ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	li := l.indexLocked(locationID)
	if li < 0 {
		return InventoryItem{}, fmt.Errorf("%w: %s", ErrLocationNotFound, locationID)
	}
	if it.ID == "" {
		it.ID = l.newID()
	}
	if it.ProductID == "" {
		it.ProductID = l.resolveProduct(it.Name)
	}

	next := make([]Location, len(l.locations))
	copy(next, l.locations)
	loc := next[li].clone()
	loc.Items = append(loc.Items, it)
	next[li] = loc
	l.locations = next
	return it, nil
}

// DeleteItem removes one item from a location.
func (l *Ledger) DeleteItem(locationID, itemID string) (EditResult, error) {
	return l.BulkDelete(locationID, []string{itemID})
}

// BulkDelete removes several items from a location. Central is not
// re-aggregated; removing a branch row leaves central as last computed.
func (l *Ledger) BulkDelete(locationID string, itemIDs []string) (EditResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res := EditResult{LocationID: locationID}
	li := l.indexLocked(locationID)
	if li < 0 {
		return res, fmt.Errorf("%w: %s", ErrLocationNotFound, locationID)
	}
	drop := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = true
	}

	loc := l.locations[li]
	kept := make([]InventoryItem, 0, len(loc.Items))
	for _, it := range loc.Items {
		if drop[it.ID] {
			res.ItemIDs = append(res.ItemIDs, it.ID)
			continue
		}
		kept = append(kept, it)
	}
	if len(res.ItemIDs) == 0 {
		return res, nil
	}
	loc.Items = kept

	next := make([]Location, len(l.locations))
	copy(next, l.locations)
	next[li] = loc
	l.locations = next
	res.Applied = true
	return res, nil
}

// RenameCategory renames a category on every item of every location.
// Blank or unchanged names are ignored. Returns the number of items changed.
func (l *Ledger) RenameCategory(oldName, newName string) int {
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == oldName {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	changed := 0
	next := make([]Location, len(l.locations))
	for i, loc := range l.locations {
		next[i] = loc
		var c *Location
		for j, it := range loc.Items {
			if it.Category != oldName {
				continue
			}
			if c == nil {
				cl := loc.clone()
				c = &cl
			}
			c.Items[j].Category = newName
			changed++
		}
		if c != nil {
			next[i] = *c
		}
	}
	l.locations = next
	return changed
}
