package onboarding

import (
	"fmt"
)

// compilePlan orders step definitions so every step comes after all of its
// declared dependencies. The sort is stable: among ready steps, catalog order
// is preserved. Unknown dependency ids and cycles are construction errors,
// not latent runtime surprises.
func compilePlan(defs []Definition) ([]Definition, error) {
	byID := make(map[string]*Definition, len(defs))
	for i := range defs {
		d := &defs[i]
		if _, dup := byID[d.ID]; dup {
			return nil, fmt.Errorf("onboarding.compilePlan: duplicate step %q", d.ID)
		}
		byID[d.ID] = d
	}

	for _, d := range defs {
		for _, dep := range d.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("onboarding.compilePlan: step %q depends on unknown step %q", d.ID, dep)
			}
		}
	}

	ordered := make([]Definition, 0, len(defs))
	emitted := make(map[string]bool, len(defs))

	for len(ordered) < len(defs) {
		progressed := false

		for _, d := range defs {
			if emitted[d.ID] {
				continue
			}

			ready := true
			for _, dep := range d.DependsOn {
				if !emitted[dep] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}

			ordered = append(ordered, d)
			emitted[d.ID] = true
			progressed = true
		}

		if !progressed {
			return nil, fmt.Errorf("onboarding.compilePlan: dependency cycle among remaining steps")
		}
	}

	return ordered, nil
}
