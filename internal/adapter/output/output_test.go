package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/uptime-indicator/internal/config"
	"github.com/jmylchreest/uptime-indicator/internal/uptime"
)

func testReport() Report {
	readAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return Report{
		Snapshot: uptime.Snapshot{
			Source:  "system",
			Reading: 90000,
			Strings: uptime.Render(90000, nil),
			ReadAt:  readAt,
		},
		BootTime: time.Now().Add(-25 * time.Hour),
	}
}

func failedReport() Report {
	err := &uptime.ReadError{Source: "system", Err: errors.New("no counter")}
	return Report{
		Snapshot: uptime.Snapshot{
			Source:  "system",
			Err:     err,
			Strings: uptime.Render(0, err),
		},
	}
}

func TestPlainFormatter(t *testing.T) {
	tests := []struct {
		format config.OutputFormat
		want   string
	}{
		{config.FormatPlain, "1D01h\t25h 0m 0s\n"},
		{config.FormatShort, "1D01h\n"},
		{config.FormatFull, "25h 0m 0s\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := NewFormatter(tt.format, FormatterOptions{})
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, f.Format(&buf, testReport()))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPlainFormatter_Fallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(PlainBoth).Format(&buf, failedReport()))
	assert.Equal(t, "N/A\tFailed to retrieve uptime\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, testReport()))

	var rec Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.True(t, rec.OK)
	assert.Equal(t, uint64(90000), rec.Seconds)
	assert.Equal(t, "25h 0m 0s", rec.Full)
	assert.Equal(t, "1D01h", rec.Short)
	assert.Empty(t, rec.Error)
	assert.NotNil(t, rec.BootTime)
}

func TestJSONFormatter_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, failedReport()))

	assert.Contains(t, buf.String(), `"ok": false`)
	assert.Contains(t, buf.String(), "no counter")
	assert.NotContains(t, buf.String(), "boot_time")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().Format(&buf, testReport()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1D01h", decoded["short"])
	assert.Equal(t, "25h 0m 0s", decoded["full"])
	assert.Equal(t, true, decoded["ok"])
}

func TestTemplateFormatter(t *testing.T) {
	f, err := NewFormatter(config.FormatTemplate, FormatterOptions{Template: "{{.Short}} ({{.Full}}) {{comma .Seconds}}s"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, testReport()))
	assert.Equal(t, "1D01h (25h 0m 0s) 90,000s\n", buf.String())
}

func TestTemplateFormatter_Ago(t *testing.T) {
	f, err := NewTemplateFormatter("up since {{ago .BootTime}}")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, testReport()))
	assert.Equal(t, "up since 1 day ago\n", buf.String())
}

func TestTemplateFormatter_Errors(t *testing.T) {
	_, err := NewTemplateFormatter("")
	assert.Error(t, err)

	_, err = NewTemplateFormatter("{{.Short")
	assert.ErrorContains(t, err, "failed to parse template")
}

func TestNewFormatter_Unknown(t *testing.T) {
	_, err := NewFormatter("xml", FormatterOptions{})
	assert.Error(t, err)
}

func TestWaybarStatus(t *testing.T) {
	status := NewWaybarStatus(testReport())

	assert.Equal(t, "1D01h", status.Text)
	assert.Equal(t, "ok", status.Class)
	lines := strings.Split(status.Tooltip, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Uptime", lines[0])
	assert.Equal(t, "25h 0m 0s", lines[1])
	assert.Equal(t, "booted 1 day ago", lines[2])
}

func TestWaybarStatus_Error(t *testing.T) {
	status := NewWaybarStatus(failedReport())

	assert.Equal(t, "N/A", status.Text)
	assert.Equal(t, "error", status.Class)
	assert.Equal(t, "Uptime\nFailed to retrieve uptime", status.Tooltip)
}

func TestWaybarFormatter_SingleLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWaybarFormatter().Format(&buf, testReport()))

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.True(t, strings.HasPrefix(buf.String(), `{"text":"1D01h"`))
}

func TestWaybarStatusFromStrings(t *testing.T) {
	s := uptime.DisplayStrings{Full: "2h 0m 5s", Short: "0D02h"}

	status := WaybarStatusFromStrings(s, true, time.Time{})
	assert.Equal(t, "0D02h", status.Text)
	assert.Equal(t, "Uptime\n2h 0m 5s", status.Tooltip)
	assert.Equal(t, "ok", status.Class)

	status = WaybarStatusFromStrings(s, false, time.Now().Add(-time.Hour))
	assert.Equal(t, "error", status.Class)
	assert.NotContains(t, status.Tooltip, "booted")
}
