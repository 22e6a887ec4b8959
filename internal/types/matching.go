package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bytebasket/backend/internal/models"
	"github.com/google/uuid"
)

// InventoryItem is an opaque inventory record. Only the id, item_name and
// category fields are read; everything else is carried through untouched.
type InventoryItem map[string]interface{}

// ID returns the item's "_id", falling back to "id".
func (i InventoryItem) ID() interface{} {
	if id, ok := i["_id"]; ok && id != nil {
		return id
	}
	return i["id"]
}

func (i InventoryItem) Name() string {
	return i.stringField("item_name")
}

func (i InventoryItem) Category() string {
	return i.stringField("category")
}

func (i InventoryItem) stringField(key string) string {
	if v, ok := i[key].(string); ok {
		return v
	}
	return ""
}

// SearchText returns the lowercased name and category used for keyword matching.
func (i InventoryItem) SearchText() (name, category string) {
	return strings.ToLower(i.Name()), strings.ToLower(i.Category())
}

// with returns a shallow copy of the item with extra fields merged in.
func (i InventoryItem) with(extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(i)+len(extra))
	for k, v := range i {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// ConflictingRestriction names a restriction that excluded an item.
type ConflictingRestriction struct {
	Name     string          `json:"name"`
	Severity models.Severity `json:"severity"`
	Type     string          `json:"type"`
}

// MatchResult is the classification of a single item.
// Reason and Severity are empty unless the item is incompatible.
type MatchResult struct {
	IsCompatible            bool                     `json:"isCompatible"`
	Confidence              float64                  `json:"confidence"`
	Warnings                []string                 `json:"warnings"`
	Reason                  string                   `json:"reason,omitempty"`
	Severity                models.Severity          `json:"severity,omitempty"`
	ConflictingRestrictions []ConflictingRestriction `json:"conflictingRestrictions"`
}

// NewMatchResult returns a compatible result with full confidence.
func NewMatchResult() MatchResult {
	return MatchResult{
		IsCompatible:            true,
		Confidence:              1.0,
		Warnings:                []string{},
		ConflictingRestrictions: []ConflictingRestriction{},
	}
}

// CompatibleItem is an item that passed matching, possibly with warnings.
// A PassThrough item was never evaluated and serializes exactly as submitted.
type CompatibleItem struct {
	Item            InventoryItem
	MatchConfidence float64
	Warnings        []string
	PassThrough     bool
}

func (c CompatibleItem) MarshalJSON() ([]byte, error) {
	if c.PassThrough {
		return json.Marshal(map[string]interface{}(c.Item))
	}
	warnings := c.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return json.Marshal(c.Item.with(map[string]interface{}{
		"matchConfidence": c.MatchConfidence,
		"warnings":        warnings,
	}))
}

// IncompatibleItem is an item excluded by at least one restriction.
type IncompatibleItem struct {
	Item                    InventoryItem
	ExclusionReason         string
	Severity                models.Severity
	ConflictingRestrictions []ConflictingRestriction
}

func (i IncompatibleItem) MarshalJSON() ([]byte, error) {
	conflicts := i.ConflictingRestrictions
	if conflicts == nil {
		conflicts = []ConflictingRestriction{}
	}
	return json.Marshal(i.Item.with(map[string]interface{}{
		"exclusionReason":         i.ExclusionReason,
		"severity":                i.Severity,
		"conflictingRestrictions": conflicts,
	}))
}

// BatchResult aggregates the classification of a batch of items.
// MatchingTime is in milliseconds.
type BatchResult struct {
	CompatibleItems   []CompatibleItem   `json:"compatibleItems"`
	IncompatibleItems []IncompatibleItem `json:"incompatibleItems"`
	Warnings          []string           `json:"warnings"`
	MatchingTime      int64              `json:"matchingTime"`
	TotalProcessed    int                `json:"totalProcessed"`
	StrictExclusions  int                `json:"strictExclusions"`
	MildExclusions    int                `json:"mildExclusions"`
}

// MismatchLogEntry records one excluded item for admin review.
type MismatchLogEntry struct {
	Timestamp               time.Time                `json:"timestamp"`
	UserID                  uuid.UUID                `json:"userId"`
	ItemID                  interface{}              `json:"itemId"`
	ItemName                string                   `json:"itemName"`
	Reason                  string                   `json:"reason"`
	Severity                models.Severity          `json:"severity"`
	ConflictingRestrictions []ConflictingRestriction `json:"conflictingRestrictions"`
}

// MismatchFilters narrows GetMismatchLogs. Zero values mean "no filter";
// date bounds are inclusive.
type MismatchFilters struct {
	UserID    *uuid.UUID
	Severity  models.Severity
	StartDate *time.Time
	EndDate   *time.Time
}
