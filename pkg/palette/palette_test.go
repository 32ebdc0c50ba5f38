package palette_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehq/lattice/pkg/palette"
)

func testCommands(ran *[]string) []palette.Command {
	record := func(id string) func() {
		return func() { *ran = append(*ran, id) }
	}
	return []palette.Command{
		{ID: "layout-lr", Label: "Auto layout (left to right)", Keywords: []string{"arrange", "tidy"}, Run: record("layout-lr")},
		{ID: "layout-tb", Label: "Auto layout (top to bottom)", Keywords: []string{"arrange", "vertical"}, Run: record("layout-tb")},
		{ID: "deselect", Label: "Clear selection", Run: record("deselect")},
	}
}

func TestPalette_StartsClosed(t *testing.T) {
	p := palette.New(testCommands(&[]string{})...)
	assert.Equal(t, palette.StateClosed, p.State())
	assert.Nil(t, p.Matches())
}

func TestPalette_ToggleFlipsState(t *testing.T) {
	p := palette.New(testCommands(&[]string{})...)

	p.Toggle()
	assert.Equal(t, palette.StateOpen, p.State())

	p.Toggle()
	assert.Equal(t, palette.StateClosed, p.State())
}

func TestPalette_CloseClearsQuery(t *testing.T) {
	p := palette.New(testCommands(&[]string{})...)
	p.Open()
	p.SetQuery("layout")

	p.Close()
	assert.Equal(t, "", p.Query())

	// Reopening starts from an unfiltered list.
	p.Open()
	assert.Len(t, p.Matches(), 3)
}

func TestPalette_SetQueryIgnoredWhileClosed(t *testing.T) {
	p := palette.New(testCommands(&[]string{})...)
	p.SetQuery("layout")
	assert.Equal(t, "", p.Query())
}

func TestPalette_MatchesFiltersCaseInsensitively(t *testing.T) {
	p := palette.New(testCommands(&[]string{})...)
	p.Open()

	p.SetQuery("LAYOUT")
	matches := p.Matches()
	require.Len(t, matches, 2)
	assert.Equal(t, "layout-lr", matches[0].ID)
	assert.Equal(t, "layout-tb", matches[1].ID)
}

func TestPalette_MatchesKeywords(t *testing.T) {
	p := palette.New(testCommands(&[]string{})...)
	p.Open()

	p.SetQuery("vertical")
	matches := p.Matches()
	require.Len(t, matches, 1)
	assert.Equal(t, "layout-tb", matches[0].ID)
}

func TestPalette_ExecuteRunsAndCloses(t *testing.T) {
	var ran []string
	p := palette.New(testCommands(&ran)...)
	p.Open()
	p.SetQuery("vertical")

	require.NoError(t, p.Execute("layout-tb"))

	assert.Equal(t, []string{"layout-tb"}, ran)
	assert.Equal(t, palette.StateClosed, p.State())
	assert.Equal(t, "", p.Query())
}

func TestPalette_ExecuteRejectsFilteredOutCommand(t *testing.T) {
	var ran []string
	p := palette.New(testCommands(&ran)...)
	p.Open()
	p.SetQuery("vertical")

	err := p.Execute("deselect")
	assert.ErrorIs(t, err, palette.ErrUnknownCommand)
	assert.Empty(t, ran)
	assert.Equal(t, palette.StateOpen, p.State())
}

func TestPalette_ExecuteWhileClosed(t *testing.T) {
	var ran []string
	p := palette.New(testCommands(&ran)...)

	err := p.Execute("deselect")
	assert.ErrorIs(t, err, palette.ErrUnknownCommand)
	assert.Empty(t, ran)
}

func TestPalette_ExecuteUnknownID(t *testing.T) {
	p := palette.New(testCommands(&[]string{})...)
	p.Open()

	err := p.Execute("nope")
	assert.ErrorIs(t, err, palette.ErrUnknownCommand)
}
