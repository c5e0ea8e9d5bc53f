package feedback

import (
	"fmt"
	"strings"

	"github.com/campusdesk/swo-feedback/types"
)

// Scope is the exclusivity domain of the Active status: one form type,
// optionally narrowed by department and semester. A nil field only matches nil.
type Scope struct {
	FormType     types.FormType
	DepartmentID *string
	SemesterID   *string
}

// ScopeOf returns the scope a form competes in.
func ScopeOf(f types.FeedbackForm) Scope {
	return Scope{FormType: f.FormType, DepartmentID: f.DepartmentID, SemesterID: f.SemesterID}.Normalize()
}

// Normalize turns blank department and semester ids into nil, the way the
// single-Active index treats them.
func (s Scope) Normalize() Scope {
	s.DepartmentID = CleanScopeID(s.DepartmentID)
	s.SemesterID = CleanScopeID(s.SemesterID)
	return s
}

// CleanScopeID trims id and returns nil when nothing is left.
func CleanScopeID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

// Equal compares normalized scopes, so "" and nil are the same department.
func (s Scope) Equal(o Scope) bool {
	s, o = s.Normalize(), o.Normalize()
	return s.FormType == o.FormType && eqPtr(s.DepartmentID, o.DepartmentID) && eqPtr(s.SemesterID, o.SemesterID)
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%s/%s", s.FormType, deref(s.DepartmentID), deref(s.SemesterID))
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(p *string) string {
	if p == nil {
		return "*"
	}
	return *p
}

// StatusPlan is the set of writes needed to move a form to a new status.
type StatusPlan struct {
	// Noop is true when the form already has the desired status and no sibling
	// needs to change.
	Noop bool
	// Deactivate lists Active siblings in the same scope, oldest order preserved.
	Deactivate []string
}

// PlanStatusChange computes the writes for setting target to desired. Activating
// a form deactivates every other Active form in its scope; deactivating touches
// only the target. Forms outside the scope are ignored.
func PlanStatusChange(target types.FeedbackForm, desired types.FormStatus, siblings []types.FeedbackForm) (StatusPlan, error) {
	if !desired.IsValid() {
		return StatusPlan{}, newValidationError(ReasonDefinition, "", "status must be Active or Inactive")
	}

	plan := StatusPlan{}
	if desired == types.FormStatusActive {
		scope := ScopeOf(target)
		for _, s := range siblings {
			if s.ID == target.ID || s.Status != types.FormStatusActive {
				continue
			}
			if ScopeOf(s).Equal(scope) {
				plan.Deactivate = append(plan.Deactivate, s.ID)
			}
		}
	}
	plan.Noop = target.Status == desired && len(plan.Deactivate) == 0
	return plan, nil
}

// ActiveConflicts returns, per scope, the ids of forms that break the single
// Active rule. An empty result means the set of forms is consistent.
func ActiveConflicts(forms []types.FeedbackForm) map[string][]string {
	active := make(map[string][]string)
	for _, f := range forms {
		if f.Status == types.FormStatusActive {
			key := ScopeOf(f).String()
			active[key] = append(active[key], f.ID)
		}
	}
	for k, ids := range active {
		if len(ids) < 2 {
			delete(active, k)
		}
	}
	return active
}

// SelectActive picks the Active form of scope from a listing, or false when
// none is Active there. Forms of other departments or semesters are skipped.
// If the listing is inconsistent the first matching entry wins.
func SelectActive(forms []types.FeedbackForm, scope Scope) (types.FeedbackForm, bool) {
	for _, f := range forms {
		if f.Status == types.FormStatusActive && ScopeOf(f).Equal(scope) {
			return f, true
		}
	}
	return types.FeedbackForm{}, false
}
