package feature

import "strings"

// ExecutionPlan partitions a step sequence into an independent tier, whose
// steps read only base columns and may run concurrently against the same
// table snapshot, and a dependent tier, whose steps read a column produced
// by an earlier step and must run after the independent tier has merged.
// Both tiers preserve declaration order.
type ExecutionPlan struct {
	Independent []int
	Dependent   []int
}

// Plan computes the tier split mechanically: a step is dependent when any
// of its referenced columns matches the output name of an earlier step, or
// carries the derived-column prefix without existing in the base table
// (one-hot outputs are data-dependent, so their exact names cannot be
// known statically; the prefix rule covers references to them). Being
// conservative here only costs parallelism, never correctness.
func Plan(steps []Step, baseColumns []string) ExecutionPlan {
	base := make(map[string]struct{}, len(baseColumns))
	for _, name := range baseColumns {
		base[name] = struct{}{}
	}

	var plan ExecutionPlan
	produced := make(map[string]struct{}, len(steps))
	for i, step := range steps {
		dependent := false
		for _, ref := range step.Refs() {
			if _, ok := produced[ref]; ok {
				dependent = true
				break
			}
			_, inBase := base[ref]
			if strings.HasPrefix(ref, Prefix) && !inBase {
				dependent = true
				break
			}
		}
		if dependent {
			plan.Dependent = append(plan.Dependent, i)
		} else {
			plan.Independent = append(plan.Independent, i)
		}
		produced[Prefix+step.FeatureName()] = struct{}{}
	}
	return plan
}
