package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Energy holds the per-side resource pool tuning.
type Energy struct {
	StartingEnergy int `yaml:"starting_energy" env:"STARTING_ENERGY"`
	MaxEnergy      int `yaml:"max_energy" env:"MAX_ENERGY"`
	BaseRollCost   int `yaml:"base_roll_cost" env:"BASE_ROLL_COST"`
}

// Attributes holds ability-score generation tuning.
type Attributes struct {
	BasePointPool           int `yaml:"base_point_pool" env:"BASE_POINT_POOL"`
	MinScore                int `yaml:"min_score" env:"MIN_SCORE"`
	MaxScore                int `yaml:"max_score" env:"MAX_SCORE"`
	BaseLife                int `yaml:"base_life" env:"BASE_LIFE"`
	HitDiceSize             int `yaml:"hit_dice_size" env:"HIT_DICE_SIZE"`
	MaxAllocationIterations int `yaml:"max_allocation_iterations" env:"MAX_ALLOCATION_ITERATIONS"`
}

// Life holds hero HP defaults applied before the attribute roll.
type Life struct {
	DefaultStartingHP int `yaml:"default_starting_hp" env:"DEFAULT_STARTING_HP"`
}

// Combat holds hero attack tuning.
type Combat struct {
	BaseDamage          int           `yaml:"base_damage" env:"BASE_DAMAGE"`
	AddStrengthModifier bool          `yaml:"add_strength_modifier" env:"ADD_STRENGTH_MODIFIER"`
	CriticalMultiplier  int           `yaml:"critical_multiplier" env:"CRITICAL_MULTIPLIER"`
	CounterAttackDelay  time.Duration `yaml:"counter_attack_delay" env:"COUNTER_ATTACK_DELAY"` // presentation only
}

// Deck holds draw rules.
type Deck struct {
	InitialHandSize  int `yaml:"initial_hand_size" env:"INITIAL_HAND_SIZE"`
	SingleDrawRoll   int `yaml:"single_draw_roll" env:"SINGLE_DRAW_ROLL"`     // roll >= this draws one card
	CriticalDraws    int `yaml:"critical_draws" env:"CRITICAL_DRAWS"`         // cards drawn on a natural 20
	CriticalEnergy   int `yaml:"critical_energy" env:"CRITICAL_ENERGY"`       // energy granted on a natural 20
	FumbleSkipTurns  int `yaml:"fumble_skip_turns" env:"FUMBLE_SKIP_TURNS"`   // draw turns skipped on a natural 1
	MaxDrawRollsTurn int `yaml:"max_draw_rolls_turn" env:"MAX_DRAW_ROLLS_TURN"` // AI limit
}

// Board holds zone layout.
type Board struct {
	SlotsPerZone int `yaml:"slots_per_zone" env:"SLOTS_PER_ZONE"`
}

// Turn holds turn flow tuning.
type Turn struct {
	EnergyPerTurn int    `yaml:"energy_per_turn" env:"ENERGY_PER_TURN"`
	FirstSide     string `yaml:"first_side" env:"FIRST_SIDE"` // "player" or "enemy"
}

// Balance holds every rules-engine tuning value for one match.
type Balance struct {
	Energy     Energy     `yaml:"energy" envPrefix:"ENERGY_"`
	Attributes Attributes `yaml:"attributes" envPrefix:"ATTRIBUTES_"`
	Life       Life       `yaml:"life" envPrefix:"LIFE_"`
	Combat     Combat     `yaml:"combat" envPrefix:"COMBAT_"`
	Deck       Deck       `yaml:"deck" envPrefix:"DECK_"`
	Board      Board      `yaml:"board" envPrefix:"BOARD_"`
	Turn       Turn       `yaml:"turn" envPrefix:"TURN_"`
}

// DefaultBalance returns the stock rules tuning.
func DefaultBalance() Balance {
	return Balance{
		Energy: Energy{
			StartingEnergy: 5,
			MaxEnergy:      10,
			BaseRollCost:   1,
		},
		Attributes: Attributes{
			BasePointPool:           72,
			MinScore:                8,
			MaxScore:                18,
			BaseLife:                20,
			HitDiceSize:             8,
			MaxAllocationIterations: 10000,
		},
		Life: Life{
			DefaultStartingHP: 20,
		},
		Combat: Combat{
			BaseDamage:          4,
			AddStrengthModifier: true,
			CriticalMultiplier:  2,
			CounterAttackDelay:  500 * time.Millisecond,
		},
		Deck: Deck{
			InitialHandSize:  3,
			SingleDrawRoll:   12,
			CriticalDraws:    2,
			CriticalEnergy:   1,
			FumbleSkipTurns:  2,
			MaxDrawRollsTurn: 1,
		},
		Board: Board{
			SlotsPerZone: 5,
		},
		Turn: Turn{
			EnergyPerTurn: 1,
			FirstSide:     "player",
		},
	}
}

// LoadBalance loads balance tuning from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadBalance(path string) (Balance, error) {
	cfg := DefaultBalance()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
