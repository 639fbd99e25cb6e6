package models

import (
	"errors"
	"fmt"
	"math"
)

// BomItem is one line of a Bill of Materials. PartNumber is the item key
// within a BOM.
type BomItem struct {
	PartNumber    string  `json:"partNumber"`
	Manufacturer  string  `json:"manufacturer,omitempty"`
	Description   string  `json:"description"`
	Quantity      int     `json:"quantity"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// LineTotal is quantity times unit cost.
func (b BomItem) LineTotal() float64 {
	return float64(b.Quantity) * b.EstimatedCost
}

func (b BomItem) Validate() error {
	if b.PartNumber == "" {
		return errors.New("part number is empty")
	}
	if b.Quantity < 0 {
		return fmt.Errorf("part %s: quantity %d is negative", b.PartNumber, b.Quantity)
	}
	if b.EstimatedCost < 0 || math.IsNaN(b.EstimatedCost) || math.IsInf(b.EstimatedCost, 0) {
		return fmt.Errorf("part %s: estimated cost %v is invalid", b.PartNumber, b.EstimatedCost)
	}
	return nil
}

// ValidateBom checks every item and the uniqueness of part numbers. All
// problems are reported together.
func ValidateBom(items []BomItem) error {
	var errs []error
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if err := item.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		if seen[item.PartNumber] {
			errs = append(errs, fmt.Errorf("item %d: duplicate part number %s", i, item.PartNumber))
		}
		seen[item.PartNumber] = true
	}
	return errors.Join(errs...)
}

// BomTotal sums the line totals of a BOM.
func BomTotal(items []BomItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// RoundCents rounds a USD amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func CloneBom(items []BomItem) []BomItem {
	if items == nil {
		return []BomItem{}
	}
	out := make([]BomItem, len(items))
	copy(out, items)
	return out
}
