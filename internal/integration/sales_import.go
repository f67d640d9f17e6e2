// Package integration turns point-of-sale exports into sales quantities for
// a location's items.
package integration

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"barstock/internal/core"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Format is the shape of the pasted export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var (
	ErrMalformedInput = errors.New("malformed import input")
	ErrUnknownFormat  = errors.New("unknown import format")
)

var (
	columnSep     = regexp.MustCompile(`,|\t|;`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]`)
	leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
)

var (
	nameKeys     = []string{"name", "produto", "product"}
	quantityKeys = []string{"quantity", "qty", "venda", "sales"}
)

// NormalizeKey lowercases and strips everything but ASCII letters and digits.
func NormalizeKey(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// SalesTable is the parsed export: normalized product key -> quantity sold.
// Keys keep the order they first appeared in; a repeated key keeps the last quantity.
type SalesTable struct {
	keys []string
	qty  map[string]decimal.Decimal
}

func newSalesTable() *SalesTable {
	return &SalesTable{qty: make(map[string]decimal.Decimal)}
}

func (t *SalesTable) put(name string, qty decimal.Decimal) {
	key := NormalizeKey(name)
	if key == "" {
		return
	}
	if _, ok := t.qty[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.qty[key] = qty
}

// Len returns the number of distinct products parsed.
func (t *SalesTable) Len() int { return len(t.keys) }

// Quantity returns the quantity parsed for a normalized key.
func (t *SalesTable) Quantity(key string) (decimal.Decimal, bool) {
	q, ok := t.qty[key]
	return q, ok
}

// ParseSales reads a pasted export.
//
// CSV: one product per line, columns split on comma, tab or semicolon; the
// first column is the name and the last the quantity. Lines that do not fit
// are skipped.
//
// JSON: an array of objects; the name is taken from name|produto|product and
// the quantity from quantity|qty|venda|sales. Objects missing either, or with a
// zero quantity, are skipped. Text that is not valid JSON is rejected.
func ParseSales(format Format, text string) (*SalesTable, error) {
	switch format {
	case FormatCSV:
		return parseCSV(text), nil
	case FormatJSON:
		return parseJSON(text)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func parseCSV(text string) *SalesTable {
	t := newSalesTable()
	for _, line := range strings.Split(text, "\n") {
		parts := columnSep.Split(line, -1)
		if len(parts) < 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		qty, ok := parseLeadingNumber(parts[len(parts)-1])
		if name == "" || !ok {
			continue
		}
		t.put(name, qty)
	}
	return t
}

// parseLeadingNumber reads the numeric prefix of s, so "12 un" yields 12.
func parseLeadingNumber(s string) (decimal.Decimal, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseJSON(text string) (*SalesTable, error) {
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedInput)
	}
	t := newSalesTable()
	root := gjson.Parse(text)
	if !root.IsArray() {
		return t, nil
	}
	root.ForEach(func(_, obj gjson.Result) bool {
		if !obj.IsObject() {
			return true
		}
		name, ok := firstTruthy(obj, nameKeys)
		if !ok {
			return true
		}
		raw, ok := firstTruthy(obj, quantityKeys)
		if !ok {
			return true
		}
		qty, ok := jsonNumber(raw)
		if !ok {
			return true
		}
		t.put(name.String(), qty)
		return true
	})
	return t, nil
}

// firstTruthy returns the first of keys whose value is present and not
// empty, zero, false or null.
func firstTruthy(obj gjson.Result, keys []string) (gjson.Result, bool) {
	for _, k := range keys {
		v := obj.Get(k)
		switch v.Type {
		case gjson.String:
			if v.Str != "" {
				return v, true
			}
		case gjson.Number:
			if v.Num != 0 {
				return v, true
			}
		case gjson.True, gjson.JSON:
			return v, true
		}
	}
	return gjson.Result{}, false
}

func jsonNumber(v gjson.Result) (decimal.Decimal, bool) {
	switch v.Type {
	case gjson.Number:
		d, err := decimal.NewFromString(v.Raw)
		if err != nil {
			return decimal.NewFromFloat(v.Num), true
		}
		return d, true
	case gjson.String:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Str))
		if err != nil || d.IsZero() {
			return decimal.Zero, false
		}
		return d, true
	case gjson.True:
		return decimal.NewFromInt(1), true
	}
	return decimal.Zero, false
}

// PreviewLine is one item whose sales an import would overwrite.
type PreviewLine struct {
	ItemID   string
	Name     string
	OldSales decimal.Decimal
	NewSales decimal.Decimal
}

// Preview is the reviewable outcome of matching an import against a location.
type Preview struct {
	Lines []PreviewLine
}

// MatchSales pairs each item with the first parsed key that contains, or is
// contained in, the item's normalized name. Unmatched items are left out.
func MatchSales(table *SalesTable, items []core.InventoryItem) *Preview {
	p := &Preview{}
	for _, it := range items {
		itemKey := NormalizeKey(it.Name)
		if itemKey == "" {
			continue
		}
		for _, k := range table.keys {
			if strings.Contains(itemKey, k) || strings.Contains(k, itemKey) {
				p.Lines = append(p.Lines, PreviewLine{
					ItemID:   it.ID,
					Name:     it.Name,
					OldSales: it.Sales,
					NewSales: table.qty[k],
				})
				break
			}
		}
	}
	return p
}

// Mapping returns item id -> new sales, ready for Ledger.ApplySales.
func (p *Preview) Mapping() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(p.Lines))
	for _, l := range p.Lines {
		m[l.ItemID] = l.NewSales
	}
	return m
}
