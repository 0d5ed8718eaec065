package harness

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/transposon/internal/store"
	"github.com/roach88/transposon/internal/trace"
)

// validIdentifier matches valid SQL column names. Column names cannot be
// bound as parameters, so anything else is rejected before interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Kind     string // Representation the assertion ran against
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Steps    []trace.Step
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s [%s]\n", e.Type, e.Kind)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, s := range e.Steps {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", s.Seq, s.Op, s.Args(), s.Render)
		}
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions that apply to run.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for op_count and final_state.
func EvaluateAssertions(run *RunResult, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		if assertion.Kind != "" && assertion.Kind != run.Run.Kind {
			continue
		}

		var err error
		switch assertion.Type {
		case AssertRender:
			err = assertRender(run, assertion)
		case AssertActive:
			err = assertActive(run, assertion)
		case AssertLength:
			err = assertLength(run, assertion)
		case AssertConsistent:
			err = assertConsistent(run)
		case AssertOpCount, AssertFinalState:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: %s requires database context", i, assertion.Type)
			} else if assertion.Type == AssertOpCount {
				err = assertOpCount(actx.Ctx, actx.Store, run, assertion)
			} else {
				err = assertFinalState(actx.Ctx, actx.Store, run, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertRender(run *RunResult, a Assertion) error {
	if a.Render == nil {
		return fmt.Errorf("render assertion requires render")
	}
	if run.Render == *a.Render {
		return nil
	}
	return &AssertionError{
		Type:     AssertRender,
		Kind:     run.Run.Kind,
		Expected: fmt.Sprintf("%q", *a.Render),
		Actual:   fmt.Sprintf("%q", run.Render),
		Steps:    run.Steps,
	}
}

func assertActive(run *RunResult, a Assertion) error {
	if slices.Equal(run.Active, a.Active) {
		return nil
	}
	return &AssertionError{
		Type:     AssertActive,
		Kind:     run.Run.Kind,
		Expected: fmt.Sprintf("%v", a.Active),
		Actual:   fmt.Sprintf("%v", run.Active),
		Steps:    run.Steps,
	}
}

func assertLength(run *RunResult, a Assertion) error {
	if a.Length == nil {
		return fmt.Errorf("length assertion requires length")
	}
	if run.Length == *a.Length {
		return nil
	}
	return &AssertionError{
		Type:     AssertLength,
		Kind:     run.Run.Kind,
		Expected: fmt.Sprintf("%d", *a.Length),
		Actual:   fmt.Sprintf("%d", run.Length),
	}
}

func assertConsistent(run *RunResult) error {
	if run.CheckErr == nil {
		return nil
	}
	return &AssertionError{
		Type:     AssertConsistent,
		Kind:     run.Run.Kind,
		Expected: "TE table matches sequence",
		Actual:   run.CheckErr.Error(),
		Steps:    run.Steps,
	}
}

// assertOpCount checks the number of recorded steps of an op.
func assertOpCount(ctx context.Context, st *store.Store, run *RunResult, a Assertion) error {
	n, err := st.CountSteps(ctx, run.Run.ID, trace.Op(a.Op))
	if err != nil {
		return err
	}
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertOpCount,
		Kind:     run.Run.Kind,
		Expected: fmt.Sprintf("%d %s steps", a.Count, a.Op),
		Actual:   fmt.Sprintf("%d %s steps", n, a.Op),
	}
}

// assertFinalState checks the latest steps row of the run that matches
// the where clause. Only the columns named in expect are compared.
func assertFinalState(ctx context.Context, st *store.Store, run *RunResult, a Assertion) error {
	whereSQL, whereArgs, err := buildWhereClause(a.Where)
	if err != nil {
		return err
	}

	query := "SELECT * FROM steps WHERE run_id = ?"
	if whereSQL != "" {
		query += " AND " + whereSQL
	}
	query += " ORDER BY seq DESC LIMIT 1"

	args := append([]any{run.Run.ID}, whereArgs...)
	rows, err := st.Query(ctx, query, args...)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Kind:     run.Run.Kind,
			Expected: "query steps",
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	if !rows.Next() {
		return &AssertionError{
			Type:     AssertFinalState,
			Kind:     run.Run.Kind,
			Expected: fmt.Sprintf("step where %s", formatWhereClause(a.Where)),
			Actual:   "row not found",
			Steps:    run.Steps,
		}
	}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}

	actualRow := make(map[string]any, len(columns))
	for i, col := range columns {
		actualRow[col] = values[i]
	}

	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		expectedValue := a.Expect[key]
		actualValue, exists := actualRow[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Kind:     run.Run.Kind,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, columns),
			}
		}
		if !stateValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertFinalState,
				Kind:     run.Run.Kind,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, actualValue, actualValue),
			}
		}
	}

	return nil
}

// buildWhereClause constructs a parameterized WHERE fragment. Keys are
// sorted for determinism.
func buildWhereClause(where map[string]any) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		if !validIdentifier.MatchString(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", key, validIdentifier.String())
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", key))
		args = append(args, toSQLValue(where[key]))
	}

	return strings.Join(clauses, " AND "), args, nil
}

// toSQLValue converts a YAML-decoded value to a SQL argument.
func toSQLValue(v any) any {
	switch val := v.(type) {
	case string, int, int64, bool:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatWhereClause creates a human-readable description of WHERE conditions.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// stateValuesEqual compares an expected YAML value with a SQLite column.
// SQLite returns integers as int64, booleans as 0/1 and TEXT as string or
// []byte depending on the driver path.
func stateValuesEqual(expected, actual any) bool {
	if expected == nil && actual == nil {
		return true
	}
	if expected == nil || actual == nil {
		return false
	}

	switch exp := expected.(type) {
	case string:
		switch act := actual.(type) {
		case string:
			return exp == act
		case []byte:
			return exp == string(act)
		}
		return false
	case int:
		return intValue(actual) == int64(exp) && isInt(actual)
	case int64:
		return intValue(actual) == exp && isInt(actual)
	case bool:
		if act, ok := actual.(bool); ok {
			return exp == act
		}
		if act, ok := actual.(int64); ok {
			return exp == (act != 0)
		}
		return false
	}

	return reflect.DeepEqual(expected, actual)
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int64:
		return true
	}
	return false
}

func intValue(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	}
	return 0
}
