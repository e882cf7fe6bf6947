package batch

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"halalcheck/internal/classify"
	"halalcheck/internal/dataset"
	"halalcheck/internal/rules"
)

func TestShouldUpdate(t *testing.T) {
	tests := []struct {
		name      string
		existing  string
		overwrite bool
		want      bool
	}{
		{"overwrite always eligible", "HALAL", true, true},
		{"overwrite with empty status", "", true, true},
		{"empty status eligible", "", false, true},
		{"whitespace status eligible", "  \t ", false, true},
		{"existing status kept", "HARAM", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldUpdate(tt.existing, tt.overwrite); got != tt.want {
				t.Errorf("ShouldUpdate(%q, %v) = %v, want %v", tt.existing, tt.overwrite, got, tt.want)
			}
		})
	}
}

func testEngine(t *testing.T) *classify.Engine {
	t.Helper()
	rs, err := rules.Parse([]byte(`{
		"status_labels": {"halal": "HALAL", "haram": "HARAM", "review": "REVIEW"},
		"rules": {
			"haram_contains": ["pork"],
			"review_contains": ["enzyme"],
			"halal_contains": ["water"]
		}
	}`))
	require.NoError(t, err)
	return classify.NewEngine(rs)
}

func TestRun(t *testing.T) {
	tbl := dataset.New(
		[]string{"material_name", "halal_status", "reason"},
		[][]string{
			{"Pork Gelatin", "", ""},
			{"Purified Water", "", ""},
			{"Mystery Compound", "", ""},
			{"Already Labeled", "HALAL", "manual"},
			{"", "", ""},
		},
	)

	summary, err := Run(context.Background(), tbl, testEngine(t), Options{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Rows)
	// The pre-labeled row is skipped; everything else is recomputed,
	// including rows that end up unknown.
	assert.Equal(t, 4, summary.Updated)
	assert.NotEmpty(t, summary.RunID)

	assert.Equal(t, [][]string{
		{"Pork Gelatin", "HARAM", "하람 키워드 포함: pork"},
		{"Purified Water", "HALAL", "할랄 키워드 포함: water"},
		{"Mystery Compound", "", ""},
		{"Already Labeled", "HALAL", "manual"},
		{"", "", ""},
	}, tbl.Rows)

	assert.Equal(t, map[string]int{
		"HARAM":    1,
		"HALAL":    2,
		NullBucket: 2,
	}, summary.StatusCounts)
}

func TestRunOverwrite(t *testing.T) {
	tbl := dataset.New(
		[]string{"material_name", "halal_status", "reason"},
		[][]string{{"Pork Gelatin", "HALAL", "stale"}},
	)

	summary, err := Run(context.Background(), tbl, testEngine(t), Options{Overwrite: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, "HARAM", tbl.Rows[0][1])
}

func TestRunCreatesMissingColumns(t *testing.T) {
	tbl := dataset.New(
		[]string{"material_name"},
		[][]string{{"Purified Water"}},
	)

	_, err := Run(context.Background(), tbl, testEngine(t), Options{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"material_name", "halal_status", "reason"}, tbl.Header)
	assert.Equal(t, []string{"Purified Water", "HALAL", "할랄 키워드 포함: water"}, tbl.Rows[0])
}

func TestRunMissingMaterialColumn(t *testing.T) {
	tbl := dataset.New([]string{"name"}, [][]string{{"Water"}})

	_, err := Run(context.Background(), tbl, testEngine(t), Options{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "material_name")
}

// A parallel run must produce exactly the same rows and counts as a
// sequential one, and must not leak worker goroutines.
func TestRunParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	names := []string{"Pork Gelatin", "Purified Water", "Microbial Enzyme", "Mystery", ""}
	build := func() *dataset.Table {
		rows := make([][]string, 0, 200)
		for i := 0; i < 200; i++ {
			rows = append(rows, []string{fmt.Sprintf("%s %d", names[i%len(names)], i), "", ""})
		}
		return dataset.New([]string{"material_name", "halal_status", "reason"}, rows)
	}

	sequential := build()
	seqSummary, err := Run(context.Background(), sequential, testEngine(t), Options{Workers: 1}, nil)
	require.NoError(t, err)

	parallel := build()
	parSummary, err := Run(context.Background(), parallel, testEngine(t), Options{Workers: 8}, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(sequential.Rows, parallel.Rows); diff != "" {
		t.Errorf("row mismatch between sequential and parallel runs (-seq +par):\n%s", diff)
	}
	assert.Equal(t, seqSummary.StatusCounts, parSummary.StatusCounts)
	assert.Equal(t, seqSummary.Updated, parSummary.Updated)
}

func TestSummaryPrint(t *testing.T) {
	s := &Summary{
		Rows:    5,
		Updated: 4,
		StatusCounts: map[string]int{
			"HALAL":    2,
			"HARAM":    1,
			NullBucket: 2,
		},
	}

	var b strings.Builder
	s.Print(&b)

	want := "[Summary]\n" +
		"rows: 5\n" +
		"updated: 4\n" +
		"status_counts:\n" +
		"  - (null): 2\n" +
		"  - HALAL: 2\n" +
		"  - HARAM: 1\n"
	assert.Equal(t, want, b.String())
}
