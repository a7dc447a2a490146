package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/stickymd/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	text := "test"
	assert.Equal(t, text, styles.SummaryTitle.Render(text), "no-color title should not add formatting")
	assert.Equal(t, text, styles.Add.Render(text))
	assert.Equal(t, text, styles.Remove.Render(text))
}

func TestStyles_AllFieldsInitialized(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	for _, s := range []string{
		styles.Add.Render("x"),
		styles.Remove.Render("x"),
		styles.SummaryTitle.Render("x"),
		styles.SummaryValue.Render("x"),
		styles.Failure.Render("x"),
		styles.TableHeader.Render("x"),
		styles.TableSeparator.Render("x"),
		styles.Dim.Render("x"),
	} {
		assert.Contains(t, s, "x")
	}
}

func TestIsColorEnabled_AlwaysMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled(pretty.ColorAlways, &buf), "always mode should return true")
}

func TestIsColorEnabled_NeverMode(t *testing.T) {
	t.Parallel()

	assert.False(t, pretty.IsColorEnabled(pretty.ColorNever, os.Stdout), "never mode should return false")
}

func TestIsColorEnabled_AutoMode_NonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, &buf), "auto mode with non-TTY should return false")
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, os.Stdout), "auto mode with NO_COLOR set should return false")
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf), "empty mode with non-TTY should return false (auto behavior)")
	assert.False(t, pretty.IsColorEnabled("unknown", &buf), "unknown mode with non-TTY should return false (auto behavior)")
}
