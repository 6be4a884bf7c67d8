package main

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/dq-validation/pkg/model"
	"github.com/David-Botos/dq-validation/pkg/pipeline"
	"github.com/David-Botos/dq-validation/pkg/rules"
)

func TestRulesCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"rules"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "staff_id_not_null")
	assert.Contains(t, out.String(), "week,staff_id")
	assert.Contains(t, out.String(), "consultations, patients")
	assert.Contains(t, out.String(), "(33 rules)")
}

func TestPrintCatalog(t *testing.T) {
	var out bytes.Buffer
	printCatalog(&out, rules.Catalog(model.NewRunContext(time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC), "", "", "")))
	assert.Contains(t, out.String(), "arrival_date_since_2020")
}

func TestApplyFlags(t *testing.T) {
	t.Setenv("RESULTS_DIR", "/env/results")
	t.Setenv("REPORTS_DIR", "/env/reports")
	t.Setenv("DQ_STRICT", "false")

	cmd := newRootCmd(&bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{"--results-dir", "/flag/results", "--strict"}))
	require.NoError(t, applyFlags(cmd.Flags()))

	assert.Equal(t, "/flag/results", os.Getenv("RESULTS_DIR"))
	assert.Equal(t, "/env/reports", os.Getenv("REPORTS_DIR"))
	assert.Equal(t, "true", os.Getenv("DQ_STRICT"))
}

func TestRootCommand_InvalidConfigIsFatal(t *testing.T) {
	t.Setenv("DQ_SOURCE_TYPE", "oracle")

	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()

	var exit *exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, pipeline.ExitFatal, exit.code)
}

func TestRulesCommand_PillarFilter(t *testing.T) {
	tests := []struct {
		pillar string
		want   string
	}{
		{pillar: "COMPLÉTUDE", want: "(5 rules)"},
		{pillar: "actualité", want: "(1 rules)"},
		{pillar: "Unicité", want: "(4 rules)"},
	}

	for _, tt := range tests {
		t.Run(tt.pillar, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newRootCmd(&out)
			cmd.SetArgs([]string{"rules", "--pillar", tt.pillar})

			require.NoError(t, cmd.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRulesCommand_UnknownPillar(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"rules", "--pillar", "speed"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMPLÉTUDE")
}

func TestRunCommand_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		run      func(*cobra.Command, []string) error
		wantCode int
		wantErr  []string
	}{
		{
			name:     "success",
			run:      func(*cobra.Command, []string) error { return nil },
			wantCode: pipeline.ExitOK,
		},
		{
			name:     "partial",
			run:      func(*cobra.Command, []string) error { return &exitError{code: pipeline.ExitPartial} },
			wantCode: pipeline.ExitPartial,
		},
		{
			name:     "plain error",
			run:      func(*cobra.Command, []string) error { return errors.New("boom") },
			wantCode: pipeline.ExitFatal,
			wantErr:  []string{"boom"},
		},
		{
			name:     "panic",
			run:      func(*cobra.Command, []string) error { panic("nil history") },
			wantCode: pipeline.ExitFatal,
			wantErr:  []string{"ERREUR CRITIQUE : nil history", "goroutine", "runCommand"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			cmd := &cobra.Command{Use: "dqvalidate", RunE: tt.run, SilenceUsage: true, SilenceErrors: true}

			assert.Equal(t, tt.wantCode, runCommand(cmd, nil, &stderr))
			for _, want := range tt.wantErr {
				assert.Contains(t, stderr.String(), want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "exit status 2", (&exitError{code: 2}).Error())
}
