package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/paralelo/workforce/api"
	"github.com/paralelo/workforce/config"
	"github.com/paralelo/workforce/generic"
	"github.com/paralelo/workforce/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRun(t *testing.T) {
	ctx := context.Background()

	// GIVEN: the demo scenario in a memory store
	st, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	require.NoError(t, api.LoadScenario(ctx, st, api.DefaultScenario))
	cfg := &config.Config{Payroll: config.PayrollConfig{DashboardPolicy: "all", ReportPolicy: "approved", EditWindowDays: 7}}

	july, err := generic.ParseMonth("2024-07")
	require.NoError(t, err)

	result, err := newHandler(cfg, st).Payroll.Run(ctx, july, payroll.RunOptions{Policy: payroll.ApprovedOnly})
	require.NoError(t, err)

	// WHEN
	var out bytes.Buffer
	require.NoError(t, printRun(&out, result))

	// THEN
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[2], "Ana Silva")
	assert.Contains(t, lines[2], "52:10")
	assert.Contains(t, lines[2], "652.08")
	assert.Contains(t, lines[4], "1302.08")
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}

func TestHours(t *testing.T) {
	assert.Equal(t, "0:00", hours(0))
	assert.Equal(t, "7:05", hours(425))
}
