package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytebasket/backend/internal/metrics"
	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
	"github.com/google/uuid"
)

// ErrInvalidItems is returned when no item list is supplied.
var ErrInvalidItems = errors.New("inventory items must be provided as a list")

// mildConfidence is the confidence ceiling applied by a mild-severity conflict.
const mildConfidence = 0.7

// PreferenceFetcher loads a user's active preferences. Restriction must be
// populated only when the referenced restriction is itself active.
type PreferenceFetcher interface {
	GetUserDietaryPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserDietaryPreference, error)
}

// DietaryMatchingService classifies inventory items against a user's
// dietary preferences and keeps a bounded log of exclusions.
type DietaryMatchingService struct {
	preferences PreferenceFetcher
	patterns    *PatternTable
	mismatches  *MismatchLog
	logger      *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// Ensure DietaryMatchingService implements IDietaryMatchingService
var _ IDietaryMatchingService = (*DietaryMatchingService)(nil)

// MatchingOption configures a DietaryMatchingService.
type MatchingOption func(*DietaryMatchingService)

func WithPatternTable(t *PatternTable) MatchingOption {
	return func(s *DietaryMatchingService) { s.patterns = t }
}

func WithMismatchLog(l *MismatchLog) MatchingOption {
	return func(s *DietaryMatchingService) { s.mismatches = l }
}

func WithLogger(l *slog.Logger) MatchingOption {
	return func(s *DietaryMatchingService) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) MatchingOption {
	return func(s *DietaryMatchingService) { s.metrics = m }
}

// WithClock overrides the time source used for timestamps and timing.
func WithClock(now func() time.Time) MatchingOption {
	return func(s *DietaryMatchingService) { s.now = now }
}

// NewDietaryMatchingService creates a matcher that owns its own pattern
// table and mismatch log unless they are supplied as options.
func NewDietaryMatchingService(preferences PreferenceFetcher, opts ...MatchingOption) *DietaryMatchingService {
	s := &DietaryMatchingService{
		preferences: preferences,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.patterns == nil {
		s.patterns = NewPatternTable()
	}
	if s.mismatches == nil {
		s.mismatches = NewMismatchLog(DefaultMismatchLogCapacity)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Patterns exposes the pattern table so callers can register catalog-specific patterns.
func (s *DietaryMatchingService) Patterns() *PatternTable {
	return s.patterns
}

// MatchUserDietaryNeeds classifies items for the given user. A nil items
// slice is rejected; a preference fetch failure is returned rather than
// treated as "no restrictions".
func (s *DietaryMatchingService) MatchUserDietaryNeeds(ctx context.Context, userID uuid.UUID, items []types.InventoryItem) (*types.BatchResult, error) {
	if items == nil {
		return nil, ErrInvalidItems
	}
	start := s.now()

	prefs, err := s.preferences.GetUserDietaryPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dietary preferences: %w", err)
	}

	result := &types.BatchResult{
		CompatibleItems:   make([]types.CompatibleItem, 0, len(items)),
		IncompatibleItems: []types.IncompatibleItem{},
		Warnings:          []string{},
		TotalProcessed:    len(items),
	}

	if len(prefs) == 0 {
		for _, item := range items {
			result.CompatibleItems = append(result.CompatibleItems, types.CompatibleItem{
				Item:            item,
				MatchConfidence: 1.0,
				Warnings:        []string{},
				PassThrough:     true,
			})
			s.metrics.IncrementItem(metrics.OutcomeCompatible)
		}
		s.finish(result, start, "no_restrictions")
		return result, nil
	}

	for _, item := range items {
		match := s.CheckItemCompatibility(item, prefs)

		if match.IsCompatible {
			result.CompatibleItems = append(result.CompatibleItems, types.CompatibleItem{
				Item:            item,
				MatchConfidence: match.Confidence,
				Warnings:        match.Warnings,
			})
			if len(match.Warnings) > 0 {
				s.metrics.IncrementItem(metrics.OutcomeWarning)
			} else {
				s.metrics.IncrementItem(metrics.OutcomeCompatible)
			}
		} else {
			result.IncompatibleItems = append(result.IncompatibleItems, types.IncompatibleItem{
				Item:                    item,
				ExclusionReason:         match.Reason,
				Severity:                match.Severity,
				ConflictingRestrictions: match.ConflictingRestrictions,
			})
			if match.Severity == models.SeverityStrict {
				result.StrictExclusions++
			} else {
				result.MildExclusions++
			}
			s.metrics.IncrementItem(metrics.OutcomeIncompatible)
			s.metrics.IncrementExclusion(string(match.Severity))
			s.LogMismatch(userID, item, match)
		}

		result.Warnings = append(result.Warnings, match.Warnings...)
	}

	s.finish(result, start, "full")
	return result, nil
}

func (s *DietaryMatchingService) finish(result *types.BatchResult, start time.Time, path string) {
	elapsed := s.now().Sub(start)
	result.MatchingTime = elapsed.Milliseconds()
	s.metrics.IncrementBatch(path)
	s.metrics.ObserveBatchLatency(elapsed)
}

// CheckItemCompatibility evaluates one item against the preferences in order.
//
// Allergen conflicts always exclude; a strict allergen conflict ends
// evaluation. Strict non-allergen conflicts exclude, mild ones only warn and
// cap confidence. Nothing ever turns an excluded item compatible again.
func (s *DietaryMatchingService) CheckItemCompatibility(item types.InventoryItem, prefs []models.UserDietaryPreference) types.MatchResult {
	result := types.NewMatchResult()

	for _, pref := range prefs {
		restriction := pref.Restriction
		if restriction == nil {
			continue
		}
		if !s.CheckForConflict(item, restriction) {
			continue
		}

		if restriction.IsAllergen {
			result.IsCompatible = false
			result.Reason = fmt.Sprintf("Contains allergen: %s", restriction.Name)
			result.Severity = pref.Severity
			result.ConflictingRestrictions = append(result.ConflictingRestrictions, types.ConflictingRestriction{
				Name:     restriction.Name,
				Severity: pref.Severity,
				Type:     string(models.CategoryAllergen),
			})
			if pref.Severity == models.SeverityStrict {
				return result
			}
			continue
		}

		if pref.Severity == models.SeverityStrict {
			result.IsCompatible = false
			result.Reason = fmt.Sprintf("Violates %s restriction: %s", restriction.Category, restriction.Name)
			result.Severity = pref.Severity
			result.ConflictingRestrictions = append(result.ConflictingRestrictions, types.ConflictingRestriction{
				Name:     restriction.Name,
				Severity: pref.Severity,
				Type:     string(restriction.Category),
			})
			continue
		}

		result.Warnings = append(result.Warnings, fmt.Sprintf("May not align with %s preference", restriction.Name))
		if result.Confidence > mildConfidence {
			result.Confidence = mildConfidence
		}
	}

	return result
}

// CheckForConflict reports whether the item collides with the restriction's
// conflict keywords. Restrictions without a pattern never conflict.
func (s *DietaryMatchingService) CheckForConflict(item types.InventoryItem, restriction *models.DietaryRestriction) bool {
	return s.patterns.HasConflict(item, restriction)
}

// LogMismatch records an excluded item for admin review.
func (s *DietaryMatchingService) LogMismatch(userID uuid.UUID, item types.InventoryItem, match types.MatchResult) {
	entry := types.MismatchLogEntry{
		Timestamp:               s.now(),
		UserID:                  userID,
		ItemID:                  item.ID(),
		ItemName:                item.Name(),
		Reason:                  match.Reason,
		Severity:                match.Severity,
		ConflictingRestrictions: match.ConflictingRestrictions,
	}
	s.mismatches.Append(entry)

	s.logger.Info("dietary mismatch logged",
		slog.String("user_id", userID.String()),
		slog.Any("item_id", entry.ItemID),
		slog.String("item_name", entry.ItemName),
		slog.String("reason", entry.Reason),
		slog.String("severity", string(entry.Severity)),
	)
}

// GetMismatchLogs returns logged mismatches matching filters, newest first.
func (s *DietaryMatchingService) GetMismatchLogs(filters types.MismatchFilters) []types.MismatchLogEntry {
	return s.mismatches.Query(filters)
}
