// Package data loads the card catalog: authored card templates and the deck
// lists built from them. A default catalog is embedded in the binary.
package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/duelcore/internal/game/deck"
	"github.com/udisondev/duelcore/internal/model"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type stageDef struct {
	Name         string `yaml:"name"`
	Attack       int    `yaml:"attack"`
	Defense      int    `yaml:"defense"`
	MaxHealth    int    `yaml:"max_health"`
	Armor        int    `yaml:"armor"`
	Transcendent bool   `yaml:"transcendent"`
}

type cardDef struct {
	Name             string            `yaml:"name"`
	Kind             string            `yaml:"kind"`
	Attack           int               `yaml:"attack"`
	Defense          int               `yaml:"defense"`
	MaxHealth        int               `yaml:"max_health"`
	Armor            int               `yaml:"armor"`
	EnergyCost       int               `yaml:"energy_cost"`
	Keywords         []string          `yaml:"keywords"`
	Durability       int               `yaml:"durability"`
	Undead           bool              `yaml:"undead"`
	TranscendentForm bool              `yaml:"transcendent_form"`
	Spell            string            `yaml:"spell"`
	Params           map[string]string `yaml:"params"`
	Stages           []stageDef        `yaml:"stages"`
}

type deckCardDef struct {
	Card   string `yaml:"card"`
	Copies int    `yaml:"copies"`
}

type deckDef struct {
	Name  string        `yaml:"name"`
	Cards []deckCardDef `yaml:"cards"`
}

type catalogFile struct {
	Cards []cardDef `yaml:"cards"`
	Decks []deckDef `yaml:"decks"`
}

// Catalog holds card templates by name and deck lists by name.
type Catalog struct {
	templates map[string]*model.CardTemplate
	names     []string
	decks     map[string][]deck.Entry
}

// LoadCatalog reads a catalog YAML file. An empty path loads the embedded
// default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	raw := embeddedCatalog
	source := "embedded"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", path, err)
		}
		raw = b
		source = path
	}
	c, err := ParseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", source, err)
	}
	slog.Info("loaded card catalog", "source", source, "cards", len(c.templates), "decks", len(c.decks))
	return c, nil
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog("")
}

// ParseCatalog builds a Catalog from YAML.
//
// Workflow:
//  1. Decode cards and decks
//  2. Reject unnamed or duplicate cards and unknown kinds
//  3. Resolve every deck entry against the card table
func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		templates: make(map[string]*model.CardTemplate, len(file.Cards)),
		decks:     make(map[string][]deck.Entry, len(file.Decks)),
	}
	for i, def := range file.Cards {
		if def.Name == "" {
			return nil, fmt.Errorf("card #%d: missing name", i)
		}
		if _, dup := c.templates[def.Name]; dup {
			return nil, fmt.Errorf("card %q: duplicate name", def.Name)
		}
		tmpl, err := def.template()
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", def.Name, err)
		}
		c.templates[def.Name] = tmpl
		c.names = append(c.names, def.Name)
	}

	for _, d := range file.Decks {
		if d.Name == "" {
			return nil, fmt.Errorf("deck with no name")
		}
		if _, dup := c.decks[d.Name]; dup {
			return nil, fmt.Errorf("deck %q: duplicate name", d.Name)
		}
		entries := make([]deck.Entry, 0, len(d.Cards))
		for _, dc := range d.Cards {
			tmpl, ok := c.templates[dc.Card]
			if !ok {
				return nil, fmt.Errorf("deck %q: unknown card %q", d.Name, dc.Card)
			}
			entries = append(entries, deck.Entry{Template: tmpl, Copies: max(1, dc.Copies)})
		}
		c.decks[d.Name] = entries
	}
	return c, nil
}

func (d cardDef) template() (*model.CardTemplate, error) {
	kind, err := model.ParseCardKind(d.Kind)
	if err != nil {
		return nil, err
	}
	if kind == model.KindSpell && d.Spell == "" {
		return nil, fmt.Errorf("spell card without effect")
	}
	tmpl := &model.CardTemplate{
		Name:             d.Name,
		Kind:             kind,
		Attack:           d.Attack,
		Defense:          d.Defense,
		MaxHealth:        d.MaxHealth,
		Armor:            d.Armor,
		EnergyCost:       d.EnergyCost,
		Keywords:         slices.Clone(d.Keywords),
		Durability:       d.Durability,
		Undead:           d.Undead,
		TranscendentForm: d.TranscendentForm,
		Spell:            d.Spell,
		SpellParams:      d.Params,
	}
	for _, st := range d.Stages {
		tmpl.Stages = append(tmpl.Stages, model.TierStage{
			Name:         st.Name,
			Attack:       st.Attack,
			Defense:      st.Defense,
			MaxHealth:    st.MaxHealth,
			Armor:        st.Armor,
			Transcendent: st.Transcendent,
		})
	}
	return tmpl, nil
}

// Template returns the card template named name.
func (c *Catalog) Template(name string) (*model.CardTemplate, bool) {
	t, ok := c.templates[name]
	return t, ok
}

// Names returns card names in authoring order.
func (c *Catalog) Names() []string { return slices.Clone(c.names) }

// Deck returns the entries of the deck named name.
func (c *Catalog) Deck(name string) ([]deck.Entry, error) {
	entries, ok := c.decks[name]
	if !ok {
		return nil, fmt.Errorf("unknown deck %q: %w", name, model.ErrMissingReference)
	}
	return slices.Clone(entries), nil
}

// DeckNames returns every deck name, sorted.
func (c *Catalog) DeckNames() []string {
	names := make([]string, 0, len(c.decks))
	for n := range c.decks {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
