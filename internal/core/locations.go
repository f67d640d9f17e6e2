package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CreateLocation adds a bar seeded with the central catalog: identity and
// prices are copied, every movement is zeroed, notes and overrides cleared.
// The new location becomes the active one.
func (l *Ledger) CreateLocation(name string) (Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Location{}, ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	central := l.centralLocked()
	loc := Location{
		ID:    "loc_" + l.newID(),
		Name:  name,
		Role:  RoleBranch,
		Items: make([]InventoryItem, len(central.Items)),
	}
	for i, src := range central.Items {
		loc.Items[i] = InventoryItem{
			ID:           l.newID(),
			ProductID:    src.ProductID,
			Code:         src.Code,
			Name:         src.Name,
			Category:     src.Category,
			Unit:         src.Unit,
			CostPrice:    src.CostPrice,
			SellPrice:    src.SellPrice,
			MinStock:     src.MinStock,
			InitialStock: decimal.Zero,
			Inputs:       decimal.Zero,
			TransfersIn:  decimal.Zero,
			TransfersOut: decimal.Zero,
			Returns:      decimal.Zero,
			Losses:       decimal.Zero,
			Sales:        decimal.Zero,
			FinalCount:   decimal.Zero,
			SystemStock:  AutomaticStock(),
		}
	}

	next := make([]Location, len(l.locations), len(l.locations)+1)
	copy(next, l.locations)
	l.locations = append(next, loc)
	l.activeID = loc.ID
	return loc.clone(), nil
}

// RenameLocation changes a location's display name. The role never changes,
// so a bar renamed to something containing "central" stays a bar.
func (l *Ledger) RenameLocation(id, name string) (Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Location{}, ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return Location{}, fmt.Errorf("%w: %s", ErrLocationNotFound, id)
	}
	next := make([]Location, len(l.locations))
	copy(next, l.locations)
	next[i].Name = name
	l.locations = next
	return next[i].clone(), nil
}

// DeleteLocation removes a bar. Central and the last remaining location are
// protected. If the deleted location was active, central becomes active.
func (l *Ledger) DeleteLocation(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLocationNotFound, id)
	}
	if len(l.locations) <= 1 {
		return ErrLastLocation
	}
	if l.locations[i].IsCentral() {
		return ErrCentralProtected
	}

	next := make([]Location, 0, len(l.locations)-1)
	next = append(next, l.locations[:i]...)
	next = append(next, l.locations[i+1:]...)
	l.locations = next

	if l.activeID == id {
		l.activeID = l.centralLocked().ID
	}
	return nil
}

// SetActive selects the location adapters show by default.
func (l *Ledger) SetActive(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrLocationNotFound, id)
	}
	l.activeID = id
	return nil
}

// Active returns a copy of the active location.
func (l *Ledger) Active() Location {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(l.activeID); i >= 0 {
		return l.locations[i].clone()
	}
	return l.centralLocked().clone()
}
