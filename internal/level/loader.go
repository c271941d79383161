package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlLevel is the on-disk YAML structure for a level file. The layout
// encodes walls only ('#' = solid, anything else = floor); doors,
// push-walls, spawns and the elevator switch are explicit lists so they
// carry their own attributes.
type yamlLevel struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Layout    []string       `yaml:"layout"`
	Doors     []DoorSpec     `yaml:"doors,omitempty"`
	PushWalls []PushWallSpec `yaml:"pushwalls,omitempty"`
	Spawns    []SpawnSpec    `yaml:"spawns,omitempty"`
	Elevators []ElevatorSpec `yaml:"elevators,omitempty"`
	Start     PlayerStart    `yaml:"start"`
}

// yamlDefinitions is the on-disk YAML structure for a definitions file.
type yamlDefinitions struct {
	States  []StateDef    `yaml:"states"`
	Actors  []ActorDef    `yaml:"actors,omitempty"`
	Weapons []WeaponDef   `yaml:"weapons,omitempty"`
	Scripts []ScriptChunk `yaml:"scripts,omitempty"`
}

// ParseLevel parses and validates a YAML level file.
func ParseLevel(data []byte) (*Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("level: yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return nil, fmt.Errorf("level: missing id")
	}
	if len(yl.Layout) == 0 {
		return nil, fmt.Errorf("level %s: empty layout", yl.ID)
	}

	height := len(yl.Layout)
	width := 0
	for _, row := range yl.Layout {
		if len(row) > width {
			width = len(row)
		}
	}

	l := &Level{
		ID:        yl.ID,
		Name:      yl.Name,
		Width:     width,
		Height:    height,
		Doors:     yl.Doors,
		PushWalls: yl.PushWalls,
		Spawns:    yl.Spawns,
		Elevators: yl.Elevators,
		Start:     yl.Start,
		tiles:     make([]Tile, width*height),
	}

	for y, row := range yl.Layout {
		for x := 0; x < width; x++ {
			solid := x < len(row) && row[x] == '#'
			l.tiles[y*width+x] = Tile{Solid: solid, Area: -1}
		}
	}

	if err := l.validatePlacement(); err != nil {
		return nil, err
	}
	l.assignAreas()

	return l, nil
}

// validatePlacement checks every placed entity sits on a legal tile.
func (l *Level) validatePlacement() error {
	for i, d := range l.Doors {
		if l.Tile(d.X, d.Y).Solid {
			return fmt.Errorf("level %s: door %d at (%d,%d) is inside a wall", l.ID, i, d.X, d.Y)
		}
	}
	for i, p := range l.PushWalls {
		if !l.Tile(p.X, p.Y).Solid {
			return fmt.Errorf("level %s: pushwall %d at (%d,%d) is not a wall tile", l.ID, i, p.X, p.Y)
		}
	}
	for i, s := range l.Spawns {
		if l.Tile(s.X, s.Y).Solid {
			return fmt.Errorf("level %s: spawn %d (%s) at (%d,%d) is inside a wall", l.ID, i, s.Type, s.X, s.Y)
		}
	}
	if l.Tile(l.Start.X, l.Start.Y).Solid {
		return fmt.Errorf("level %s: player start at (%d,%d) is inside a wall", l.ID, l.Start.X, l.Start.Y)
	}
	return nil
}

// ParseDefinitions parses and validates a YAML definitions file.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var yd yamlDefinitions
	if err := yaml.Unmarshal(data, &yd); err != nil {
		return nil, fmt.Errorf("level: yaml unmarshal: %w", err)
	}

	d := &Definitions{
		States:  make(map[string]*StateDef, len(yd.States)),
		Actors:  make(map[string]*ActorDef, len(yd.Actors)),
		Weapons: make(map[string]*WeaponDef, len(yd.Weapons)),
		Scripts: yd.Scripts,
	}

	for i := range yd.States {
		s := &yd.States[i]
		if s.Name == "" {
			return nil, fmt.Errorf("level: state %d has no name", i)
		}
		if _, dup := d.States[s.Name]; dup {
			return nil, fmt.Errorf("level: duplicate state %q", s.Name)
		}
		d.States[s.Name] = s
	}
	for i := range yd.Actors {
		a := &yd.Actors[i]
		if _, dup := d.Actors[a.Name]; dup {
			return nil, fmt.Errorf("level: duplicate actor type %q", a.Name)
		}
		d.Actors[a.Name] = a
	}
	for i := range yd.Weapons {
		w := &yd.Weapons[i]
		if _, dup := d.Weapons[w.Name]; dup {
			return nil, fmt.Errorf("level: duplicate weapon type %q", w.Name)
		}
		d.Weapons[w.Name] = w
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadLevel reads and parses a level file from disk.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: cannot read %s: %w", path, err)
	}
	return ParseLevel(data)
}

// LoadDefinitions reads and parses a definitions file from disk.
func LoadDefinitions(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: cannot read %s: %w", path, err)
	}
	return ParseDefinitions(data)
}
