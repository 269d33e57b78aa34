package domain

import (
	m "tracklogic.dev/pkg/tracklogic/internal/model"
	"tracklogic.dev/pkg/tracklogic/pkg"
)

// passRateFromResults counts expectations across spilled scenario results.
// A run without expectations has a pass rate of 1.
func passRateFromResults(results pkg.FileSpill[m.ScenarioResult]) (total int, passed int, rate float64, err error) {
	err = results.Range(func(_ uint64, result m.ScenarioResult) error {
		for _, c := range result.Cases {
			total++

			if c.Passed {
				passed++
			}
		}

		return nil
	})
	if err != nil {
		return 0, 0, 0, err
	}

	if total == 0 {
		return 0, 0, 1, nil
	}

	return total, passed, float64(passed) / float64(total), nil
}
