package diagnose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ghgcli/internal/errors"
	"ghgcli/pkg/contracts/domain"
)

func TestRecommendActions(t *testing.T) {
	tests := []struct {
		name   string
		issues domain.ValidationIssues
		want   []string
	}{
		{
			name:   "invalid codes only",
			issues: domain.ValidationIssues{InvalidLACodes: 3},
			want:   []string{adviceInvalidCodes},
		},
		{
			name:   "missing values only",
			issues: domain.ValidationIssues{MissingValues: map[string]int{"area_km2": 12}},
			want:   []string{adviceMissing},
		},
		{
			name:   "out of range years only",
			issues: domain.ValidationIssues{OutOfRangeYears: 4},
			want:   []string{adviceYearRange},
		},
		{
			name: "all rules fire in fixed order",
			issues: domain.ValidationIssues{
				InvalidLACodes:  1,
				MissingValues:   map[string]int{"population": 2},
				OutOfRangeYears: 3,
			},
			want: []string{adviceInvalidCodes, adviceMissing, adviceYearRange},
		},
		{
			name:   "clean summary yields all-clear",
			issues: domain.ValidationIssues{},
			want:   []string{adviceAllClear},
		},
		{
			name:   "zero-count missing map stays clean",
			issues: domain.ValidationIssues{MissingValues: map[string]int{"region": 0}},
			want:   []string{adviceAllClear},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecommendActions(&tt.issues)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommendActionsMissingInput(t *testing.T) {
	_, err := RecommendActions(nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
}

func TestRecommendActionsDoesNotMutateIssues(t *testing.T) {
	issues := domain.ValidationIssues{
		InvalidLACodes: 2,
		MissingValues:  map[string]int{"area_km2": 1},
	}
	before := issues

	_, err := RecommendActions(&issues)
	require.NoError(t, err)
	assert.Equal(t, before.InvalidLACodes, issues.InvalidLACodes)
	assert.Equal(t, before.MissingValues, issues.MissingValues)
}

func TestBuildReport(t *testing.T) {
	issues := &domain.ValidationIssues{
		InvalidLACodes: 3,
		MissingValues:  map[string]int{"population": 5, "area_km2": 2},
	}

	report, err := BuildReport(context.Background(), nil, issues)
	require.NoError(t, err)

	assert.Equal(t, 7, report.Summary.TotalMissing)
	assert.Equal(t, 3, report.Summary.InvalidLACodes)
	assert.Equal(t, []string{adviceInvalidCodes, adviceMissing}, report.RecommendedActions)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestBuildReportMissingInput(t *testing.T) {
	_, err := BuildReport(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
}
