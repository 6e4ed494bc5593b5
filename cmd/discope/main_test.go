package main

import (
	"errors"
	"testing"

	"github.com/sghaida/odiscope/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// loadPlanFile / validatePlanFile
// -------------------------

func TestLoadPlanFile(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	pf, err := loadPlanFile(d.write("plan.yaml", schemaSwapPlan))
	require.NoError(t, err)

	assert.Equal(t, "main", pf.Target.Name)
	assert.Equal(t, []DependencySpec{{Arg: "schema_swap", Slot: "swap_schema"}}, pf.Target.Needs)
	require.Len(t, pf.Providers, 3)
	assert.Equal(t, "fake word", pf.Providers[0].Value)
	assert.Equal(t, []di.Dependency{{Arg: "db", Slot: "session"}}, dependencies(pf.Providers[1].Needs))
}

func TestLoadPlanFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "", want: "is empty"},
		{name: "bad_yaml", content: "target: [", want: "decode plan file"},
		{name: "unknown_field", content: "target: {name: main, extra: 1}", want: "field extra not found"},
		{name: "missing_target_name", content: "target: {}", want: "missing target.name"},
		{
			name:    "missing_slot",
			content: "target: {name: main}\nproviders: [{value: x}]",
			want:    "providers[0] missing slot",
		},
		{
			name:    "bad_need",
			content: "target: {name: main, needs: [{arg: a}]}",
			want:    "target needs[0] must have arg/slot",
		},
		{
			name:    "bad_on_error",
			content: "target: {name: main}\nproviders: [{slot: a, on_error: ignore}]",
			want:    `provider "a" on_error must be one of`,
		},
		{
			name:    "bad_fault",
			content: "target: {name: main}\nproviders: [{slot: a, fault: crash}]",
			want:    `provider "a" fault must be one of`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := newDir(t)
			_, err := loadPlanFile(d.write("plan.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPlanFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := loadPlanFile(newDir(t).dir + "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read plan file")
}

// -------------------------
// formatArgs
// -------------------------

func TestFormatArgs_Sorted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a=1 b=two", formatArgs(di.Args{"b": "two", "a": 1}))
	assert.Empty(t, formatArgs(nil))
}

// -------------------------
// plan
// -------------------------

func TestPlanCmd(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	out, _, err := execute(t, "plan", d.write("plan.yaml", schemaSwapPlan))
	require.NoError(t, err)

	assertContainsInOrder(t, out,
		"plan: main",
		"enter order",
		"1. session\n",
		"2. db          <- db=session",
		"3. swap_schema <- db=db",
		"teardown order",
		"1. swap_schema", "2. db", "3. session",
		"target main <- schema_swap=swap_schema",
	)
}

func TestPlanCmd_Cycle(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	_, _, err := execute(t, "plan", d.write("plan.yaml", `
target: {name: main, needs: [{arg: a, slot: a}]}
providers:
  - {slot: a, needs: [{arg: b, slot: b}]}
  - {slot: b, needs: [{arg: a, slot: a}]}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, di.ErrCycle)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestPlanCmd_MaxDepthFlag(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	_, _, err := execute(t, "--max-depth", "2", "plan", d.write("plan.yaml", schemaSwapPlan))
	require.Error(t, err)

	var ce *di.CycleError
	require.True(t, errors.As(err, &ce))
	assert.True(t, ce.DepthExceeded)
}

func TestPlanCmd_MaxDepthEnv(t *testing.T) {
	t.Setenv("DISCOPE_MAX_DEPTH", "1")

	d := newDir(t)
	_, _, err := execute(t, "plan", d.write("plan.yaml", schemaSwapPlan))
	assert.ErrorIs(t, err, di.ErrCycle)
}

func TestPlanCmd_ConfigFile(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	plan := d.write("plan.yaml", schemaSwapPlan)

	_, _, err := execute(t, "--config", d.write("depth.yaml", "max-depth: 2\n"), "plan", plan)
	assert.ErrorIs(t, err, di.ErrCycle)

	_, stderr, err := execute(t, "--config", d.write("debug.yaml", "log-level: debug\n"), "run", plan)
	require.NoError(t, err)
	assert.Contains(t, stderr, "entered")
}

func TestRootCmd_BadSettings(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	plan := d.write("plan.yaml", schemaSwapPlan)

	_, _, err := execute(t, "--log-level", "loud", "plan", plan)
	assert.ErrorContains(t, err, "log-level")

	_, _, err = execute(t, "--max-depth", "0", "plan", plan)
	assert.ErrorContains(t, err, "max-depth must be > 0")

	_, _, err = execute(t, "--config", d.dir+"/missing.yaml", "plan", plan)
	assert.ErrorContains(t, err, "load config")
}

// -------------------------
// run
// -------------------------

func TestRunCmd_Success(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	out, _, err := execute(t, "run", d.write("plan.yaml", schemaSwapPlan))
	require.NoError(t, err)

	assertContainsInOrder(t, out,
		"run: main",
		"setup    session",
		"setup    db          db=fake word",
		"setup    swap_schema db=db1",
		"call     main        schema_swap=true",
		"teardown swap_schema",
		"teardown db",
		"teardown session",
		"result: ok",
	)
}

func TestRunCmd_RaiseRethrow(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	out, _, err := execute(t, "run", "--raise", "boom", d.write("plan.yaml", schemaSwapPlan))
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.EqualError(t, err, "boom")

	assertContainsInOrder(t, out,
		"call     main",
		"rollback swap_schema boom",
		"rollback db          boom",
		"rollback session     boom",
		"error: boom",
	)
}

func TestRunCmd_ReplaceAndSwallow(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	plan := `
target: {name: main, needs: [{arg: tx, slot: tx}], raise: boom}
providers:
  - {slot: conn, on_error: swallow}
  - {slot: tx, needs: [{arg: conn, slot: conn}], on_error: replace}
`
	out, _, err := execute(t, "run", d.write("plan.yaml", plan))
	require.NoError(t, err)

	assertContainsInOrder(t, out,
		"rollback tx   boom",
		"rollback conn tx rolled back",
		"handled: target error suppressed by a provider",
	)
}

func TestRunCmd_ReplaceReportsDisplaced(t *testing.T) {
	t.Parallel()

	d := newDir(t)
	plan := `
target: {name: main, needs: [{arg: tx, slot: tx}], raise: boom}
providers:
  - {slot: tx, on_error: replace}
`
	out, _, err := execute(t, "run", d.write("plan.yaml", plan))
	require.Error(t, err)

	var te *di.TeardownError
	require.True(t, errors.As(err, &te))
	assertContainsInOrder(t, out, "error: tx rolled back", "displaced: boom")
}

func TestRunCmd_Faults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fault   string
		wantErr error
		want    []string
	}{
		{
			name:  "setup",
			fault: "setup",
			want:  []string{"failed   b setup", "rollback a b: setup failed", "error: b: setup failed"},
		},
		{
			name:    "no_yield",
			fault:   "no-yield",
			wantErr: di.ErrProtocol,
			want:    []string{"setup    b", "rollback a", "provider did not suspend"},
		},
		{
			name:    "double_yield",
			fault:   "double-yield",
			wantErr: di.ErrProtocol,
			want:    []string{"call     main", "again    b    di: scope closed", "teardown b", "rollback a", "did not suspend exactly once"},
		},
		{
			name:  "teardown",
			fault: "teardown",
			want:  []string{"teardown b", "failed   b    teardown", "rollback a    b: teardown failed"},
		},
		{
			name:    "panic",
			fault:   "panic",
			wantErr: di.ErrProviderPanic,
			want:    []string{"setup    b", "rollback a", `error: di: panic in provider "b": b: setup panicked`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDir(t)
			plan := `
target: {name: main, needs: [{arg: b, slot: b}]}
providers:
  - {slot: a}
  - {slot: b, needs: [{arg: a, slot: a}], fault: ` + tt.fault + `}
`
			out, _, err := execute(t, "run", d.write("plan.yaml", plan))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assertContainsInOrder(t, out, tt.want...)
		})
	}
}

// -------------------------
// version / ExitError
// -------------------------

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "discope dev (built from source)\n", out)
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	assert.Equal(t, "inner", (&ExitError{Code: 2, Err: inner}).Error())
	assert.Equal(t, "exit status 3", (&ExitError{Code: 3}).Error())
	assert.ErrorIs(t, &ExitError{Code: 1, Err: inner}, inner)
}
