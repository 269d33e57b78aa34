package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

const reportFilePrefix = "check-"

// ReportStore saves and loads check reports.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.CheckReport) (m.Path, error)
	LoadReports(ctx context.Context, dir m.Path) ([]m.CheckReport, error)
}

type reportStore struct {
	fs FSAdapter
}

// NewReportStore constructs a ReportStore writing YAML files through fsAdapter.
func NewReportStore(fsAdapter FSAdapter) ReportStore {
	return &reportStore{fs: fsAdapter}
}

// SaveReport writes report to dir/check-<run id>.yaml.
func (r *reportStore) SaveReport(ctx context.Context, dir m.Path, report m.CheckReport) (m.Path, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := r.fs.JoinPath(ctx, string(dir), reportFilePrefix+report.RunID+".yaml")
	if err := r.fs.WriteFile(ctx, path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	return path, nil
}

// LoadReports reads every report in dir, oldest first. A missing directory
// holds no reports.
func (r *reportStore) LoadReports(ctx context.Context, dir m.Path) ([]m.CheckReport, error) {
	var reports []m.CheckReport

	err := r.fs.Walk(ctx, dir, false, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := filepath.Base(path)
		if info.IsDir() || !strings.HasPrefix(name, reportFilePrefix) || filepath.Ext(name) != ".yaml" {
			return nil
		}

		data, err := r.fs.ReadFile(ctx, m.Path(path))
		if err != nil {
			return err
		}

		var report m.CheckReport
		if err := yaml.Unmarshal(data, &report); err != nil {
			return fmt.Errorf("decode report %s: %w", path, err)
		}

		reports = append(reports, report)

		return nil
	})
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("load reports %s: %w", dir, err)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.Before(reports[j].StartedAt)
	})

	return reports, nil
}
