package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitconv/internal/models"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestConvertCommand(t *testing.T) {
	code, out, errOut := run(t, "1", "m", "cm", "length")
	assert.Equal(t, 0, code)
	assert.Equal(t, "100\n", out)
	assert.Empty(t, errOut)

	code, out, _ = run(t, "100", "C", "F", "temperature")
	assert.Equal(t, 0, code)
	assert.Equal(t, "212\n", out)
}

func TestConvertNegativeValue(t *testing.T) {
	code, out, errOut := run(t, "-40", "C", "F", "temperature")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "-40\n", out)

	code, out, _ = run(t, "--pretty", "--", "-40", "C", "F", "temperature")
	require.Equal(t, 0, code)
	assert.Equal(t, "-40.00 °C = -40.00 °F\n", out)

	// flags after a negative value
	code, out, _ = run(t, "-40", "C", "K", "temperature", "-o", "json")
	require.Equal(t, 0, code)
	var resp models.ConversionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, 233.15, resp.Result, 1e-9)

	code, _, errOut = run(t, "-1", "m", "cm", "length")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "negative-value")

	code, out, _ = run(t, "--allow-negative", "-1", "m", "cm", "length")
	assert.Equal(t, 0, code)
	assert.Equal(t, "-100\n", out)
}

func TestConvertCommandErrors(t *testing.T) {
	code, out, errOut := run(t, "1", "xx", "m", "length")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, `unknown unit "xx"`)
	assert.Contains(t, errOut, "valid length units: mm, cm, m, km")

	code, _, errOut = run(t, "1", "m", "cm", "area")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unknown measurement domain "area"`)

	code, _, errOut = run(t, "abc", "m", "cm", "length")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid value")

	code, _, _ = run(t, "1", "m", "cm")
	assert.Equal(t, 1, code)
}

func TestPrettyAndJSON(t *testing.T) {
	code, out, _ := run(t, "--pretty", "1", "km", "m", "length")
	require.Equal(t, 0, code)
	assert.Equal(t, "1.000000 kilometers = 1000.000000 meters\n", out)

	code, out, _ = run(t, "1", "l", "ml", "volume", "--output", "json")
	require.Equal(t, 0, code)
	var resp models.ConversionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, 1000.0, resp.Result, 1e-9)
	assert.Equal(t, "volume", resp.Domain)

	code, _, _ = run(t, "1", "l", "ml", "volume", "--output", "xml")
	assert.Equal(t, 1, code)
}

func TestConvertNonFinite(t *testing.T) {
	code, out, errOut := run(t, "1e308", "km", "mm", "length", "-o", "json")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "out-of-range")

	code, out, errOut = run(t, "NaN", "C", "F", "temperature", "-o", "json")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "finite")
	assert.NotContains(t, errOut, "negative-value")

	code, _, errOut = run(t, "-Inf", "m", "cm", "length")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "finite")
}

func TestUnitsAndDomains(t *testing.T) {
	code, out, _ := run(t, "units", "temperature")
	require.Equal(t, 0, code)
	assert.Equal(t, "Celsius (C)\nFahrenheit (F)\nKelvin (K)\n", out)

	code, out, _ = run(t, "domains")
	require.Equal(t, 0, code)
	assert.Equal(t, "length\nweight\ntemperature\nvolume\n", out)

	code, _, errOut := run(t, "units", "area")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "area")
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	content := "value,from_unit,to_unit,domain\n1,km,m,length\n0,C,F,temperature\n1,xx,m,length\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	code, out, errOut := run(t, "batch", path, "--workers", "2")
	assert.Equal(t, 1, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1000", lines[0])
	assert.Equal(t, "32", lines[1])
	assert.Contains(t, lines[2], "error:")
	assert.Contains(t, errOut, "1 of 3 conversions failed")

	overflow := filepath.Join(t.TempDir(), "overflow.csv")
	require.NoError(t, os.WriteFile(overflow, []byte("value,from_unit,to_unit,domain\n1,kg,g,weight\n1e308,km,mm,length\n"), 0o600))
	code, out, errOut = run(t, "batch", overflow)
	assert.Equal(t, 1, code)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1000", lines[0])
	assert.Contains(t, lines[1], "out-of-range")
	assert.Contains(t, errOut, "1 of 2 conversions failed")

	good := filepath.Join(t.TempDir(), "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("value,from_unit,to_unit,domain\n2,kg,g,weight\n"), 0o600))
	code, out, _ = run(t, "batch", good)
	assert.Equal(t, 0, code)
	assert.Equal(t, "2000\n", out)
}

func TestEscapeNegativeNumbers(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{})

	got := escapeNegativeNumbers(root, []string{"-40", "C", "--log-level", "debug", "F", "temperature", "--pretty"})
	assert.Equal(t, []string{"--log-level", "debug", "--pretty", "--", "-40", "C", "F", "temperature"}, got)

	plain := []string{"1", "m", "cm", "length"}
	assert.Equal(t, plain, escapeNegativeNumbers(root, plain))

	sub := []string{"units", "length"}
	assert.Equal(t, sub, escapeNegativeNumbers(root, sub))
}
