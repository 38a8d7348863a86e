package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/duelcore/internal/game/spell"
	"github.com/udisondev/duelcore/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"necromancer", "paladin"}, c.DeckNames())

	squire, ok := c.Template("Squire")
	require.True(t, ok)
	assert.Equal(t, 3, squire.MaxTier())
	assert.Equal(t, "Paladin Champion", squire.StatsForTier(3).Name)
	assert.True(t, squire.StatsForTier(3).Transcendent)

	blade, ok := c.Template("Blessed Blade")
	require.True(t, ok)
	assert.Equal(t, model.KindEquipment, blade.Kind)
	assert.True(t, blade.TranscendentForm)

	ghoul, _ := c.Template("Ghoul")
	assert.True(t, ghoul.Undead)

	entries, err := c.Deck("paladin")
	require.NoError(t, err)
	total := 0
	for _, e := range entries {
		total += e.Copies
	}
	assert.Equal(t, 28, total)
}

func TestDefaultCatalog_SpellsResolve(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	for _, name := range c.Names() {
		tmpl, _ := c.Template(name)
		if tmpl.Kind != model.KindSpell {
			continue
		}
		_, err := spell.CreateEffect(tmpl.Spell, tmpl.SpellParams)
		assert.NoError(t, err, name)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "cards: [", "parsing catalog"},
		{"missing name", "cards:\n  - kind: monster\n", "missing name"},
		{"duplicate card", "cards:\n  - {name: A}\n  - {name: A}\n", "duplicate name"},
		{"unknown kind", "cards:\n  - {name: A, kind: trap}\n", "unknown card kind"},
		{"spell without effect", "cards:\n  - {name: A, kind: spell}\n", "without effect"},
		{"unknown deck card", "cards:\n  - {name: A}\ndecks:\n  - {name: d, cards: [{card: B}]}\n", `unknown card "B"`},
		{"duplicate deck", "decks:\n  - {name: d}\n  - {name: d}\n", "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseCatalog_Stages(t *testing.T) {
	raw := `
cards:
  - name: Imp
    attack: 1
    defense: 1
    stages:
      - {name: Fiend, attack: 3, defense: 2, transcendent: true}
decks:
  - name: tiny
    cards: [{card: Imp, copies: 0}]
`
	c, err := ParseCatalog([]byte(raw))
	require.NoError(t, err)

	imp, ok := c.Template("Imp")
	require.True(t, ok)
	assert.Equal(t, model.KindMonster, imp.Kind)
	assert.Equal(t, 2, imp.MaxTier())

	entries, err := c.Deck("tiny")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Copies, "copies below one count as one")

	_, err = c.Deck("missing")
	assert.ErrorIs(t, err, model.ErrMissingReference)
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cards:\n  - {name: Imp, attack: 1, defense: 1}\n"), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Imp"}, c.Names())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
