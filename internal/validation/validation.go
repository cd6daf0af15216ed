// Package validation checks a ledger snapshot for records that are valid on
// their own but inconsistent with each other.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID         ConflictType = "duplicate_id"
	ConflictDuplicateTask       ConflictType = "duplicate_task"
	ConflictInvalidTime         ConflictType = "invalid_time"
	ConflictOverlappingActivity ConflictType = "overlapping_activity"
	ConflictBucketBelowPayments ConflictType = "bucket_below_payments"
	ConflictNegativeAmount      ConflictType = "negative_amount"
)

// Conflict is one detected inconsistency.
type Conflict struct {
	Type        ConflictType
	Description string
	Day         models.Weekday // NoDay when not tied to a day
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of type t.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks snapshots.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateSnapshot(s ledger.Snapshot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	v.checkIDs(s, &result)
	v.checkTasks(s.Tasks, &result)
	v.checkActivities(s.Activities, &result)
	v.checkPayments(s, &result)
	return result
}

func (v *Validator) checkIDs(s ledger.Snapshot, result *ValidationResult) {
	check := func(kind string, ids []string) {
		seen := make(map[string]int)
		for _, id := range ids {
			if id != "" {
				seen[id]++
			}
		}
		for _, id := range sortedKeys(seen) {
			if seen[id] > 1 {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateID,
					Description: fmt.Sprintf("%s id %q is used %d times", kind, id, seen[id]),
					IDs:         []string{id},
				})
			}
		}
	}

	ids := make([]string, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		ids = append(ids, t.ID)
	}
	check("task", ids)

	ids = ids[:0]
	for _, a := range s.Activities {
		ids = append(ids, a.ID)
	}
	check("activity", ids)

	ids = ids[:0]
	for _, p := range s.Payments {
		ids = append(ids, p.ID)
	}
	check("payment", ids)
}

// checkTasks reports open tasks that repeat the same chore for the same
// person on the same day.
func (v *Validator) checkTasks(tasks []models.Task, result *ValidationResult) {
	groups := make(map[string][]string)
	names := make(map[string]string)
	for _, t := range tasks {
		if t.Completed || t.Description == "" {
			continue
		}
		k := strings.Join([]string{
			strings.ToLower(strings.TrimSpace(t.Category)),
			strings.ToLower(strings.TrimSpace(t.Description)),
			string(t.Responsible),
			fmt.Sprint(int(t.AssignedDay)),
		}, "\x00")
		groups[k] = append(groups[k], t.ID)
		names[k] = t.Category + " · " + t.Description
	}
	for _, k := range sortedKeys(groups) {
		if ids := groups[k]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTask,
				Description: fmt.Sprintf("Duplicate task: %q (IDs: %v)", names[k], ids),
				IDs:         ids,
			})
		}
	}
}

func (v *Validator) checkActivities(activities []models.WeeklyActivity, result *ValidationResult) {
	type slot struct {
		activity models.WeeklyActivity
		minutes  int
	}
	byDay := make(map[models.Weekday][]slot)
	for _, a := range activities {
		minutes, err := utils.ParseTimeToMinutes(a.Time)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("Activity %q has invalid time: %s", a.Title, a.Time),
				Day:         a.Day,
				IDs:         []string{a.ID},
			})
			continue
		}
		byDay[a.Day] = append(byDay[a.Day], slot{activity: a, minutes: minutes})
	}

	for _, day := range models.Weekdays {
		slots := byDay[day]
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].minutes < slots[j].minutes })
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots) && slots[j].minutes == slots[i].minutes; j++ {
				a, b := slots[i].activity, slots[j].activity
				if !sharePerson(a.Responsible, b.Responsible) {
					continue
				}
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictOverlappingActivity,
					Description: fmt.Sprintf("%s %s: %q and %q are both scheduled for %s",
						day, utils.NormalizeClock(a.Time), a.Title, b.Title, overlapParty(a.Responsible, b.Responsible)),
					Day: day,
					IDs: []string{a.ID, b.ID},
				})
			}
		}
	}
}

func sharePerson(a, b models.Party) bool {
	return a == b || a == models.Both || b == models.Both
}

func overlapParty(a, b models.Party) models.Party {
	if a == models.Both {
		return b
	}
	return a
}

// checkPayments flags negative amounts and expense buckets that hold less
// than the payments counted in them, which happens after a bucket is
// overwritten by hand. Settled payments are no longer counted.
func (v *Validator) checkPayments(s ledger.Snapshot, result *ValidationResult) {
	owed := make(map[models.FinanceField]decimal.Decimal)
	for _, p := range s.Payments {
		if p.Amount.IsNegative() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeAmount,
				Description: fmt.Sprintf("Payment %q has a negative amount: %s", p.Description, p.Amount.StringFixed(2)),
				IDs:         []string{p.ID},
			})
		}
		if !p.Category.Valid() || p.Settled {
			continue
		}
		f := models.FieldFor(p.Category)
		owed[f] = owed[f].Add(p.Amount)
	}

	for _, f := range models.FinanceFields {
		want, ok := owed[f]
		if !ok {
			continue
		}
		if have := s.Finances.Get(f); have.LessThan(want) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictBucketBelowPayments,
				Description: fmt.Sprintf("%s is %s but pending payments add up to %s",
					f.Label(), have.StringFixed(2), want.StringFixed(2)),
			})
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
