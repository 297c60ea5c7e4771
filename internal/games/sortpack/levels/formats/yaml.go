// Package formats provides level file format parsers for SortPack.
package formats

import (
	"fmt"

	"github.com/vovakirdan/sortpack/internal/games/sortpack/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel is the on-disk level layout. Items can be listed one by one in
// placements, or drawn per layer in layers (layer -> row -> col -> slot,
// -1 for an empty slot). Both may be used in the same file.
type YAMLLevel struct {
	Number     int             `yaml:"number,omitempty"`
	ID         string          `yaml:"id,omitempty"`
	Name       string          `yaml:"name,omitempty"`
	Size       YAMLSize        `yaml:"size"`
	Slots      int             `yaml:"slots,omitempty"`
	Match      int             `yaml:"match,omitempty"`
	TimeLimit  int             `yaml:"time_limit,omitempty"`
	Locked     []YAMLPos       `yaml:"locked,omitempty"`
	Items      map[int]string  `yaml:"items,omitempty"`
	Placements []YAMLPlacement `yaml:"placements,omitempty"`
	Layers     [][][][]int     `yaml:"layers,omitempty"`
}

// YAMLSize holds grid dimensions.
type YAMLSize struct {
	Rows   int `yaml:"rows"`
	Cols   int `yaml:"cols"`
	Layers int `yaml:"layers,omitempty"`
}

// YAMLPos is a grid position.
type YAMLPos struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// YAMLPlacement is a single item placement.
type YAMLPlacement struct {
	Row   int `yaml:"row"`
	Col   int `yaml:"col"`
	Layer int `yaml:"layer"`
	Slot  int `yaml:"slot"`
	Item  int `yaml:"item"`
}

// ParseYAML parses a YAML level file. Structural problems other than a
// missing grid size are left to Level.Validate.
func ParseYAML(data []byte) (*core.Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.Size.Rows <= 0 || yl.Size.Cols <= 0 {
		return nil, fmt.Errorf("size must be at least 1x1, got %dx%d", yl.Size.Rows, yl.Size.Cols)
	}

	lvl := &core.Level{
		ID:            yl.ID,
		Number:        yl.Number,
		Name:          yl.Name,
		SizeX:         yl.Size.Rows,
		SizeY:         yl.Size.Cols,
		SizeZ:         yl.Size.Layers,
		SlotsPerCell:  yl.Slots,
		ItemsPerMatch: yl.Match,
		TimeLimit:     yl.TimeLimit,
	}
	if lvl.SlotsPerCell <= 0 {
		lvl.SlotsPerCell = core.DefaultSlotsPerCell
	}
	if lvl.ItemsPerMatch <= 0 {
		lvl.ItemsPerMatch = core.DefaultItemsPerMatch
	}

	for _, p := range yl.Placements {
		lvl.Placements = append(lvl.Placements, core.Placement{
			Row:    p.Row,
			Col:    p.Col,
			Layer:  p.Layer,
			Slot:   p.Slot,
			ItemID: core.ItemID(p.Item),
		})
	}
	for layer, rows := range yl.Layers {
		for row, cols := range rows {
			for col, slots := range cols {
				for slot, id := range slots {
					if id < 0 {
						continue
					}
					lvl.Placements = append(lvl.Placements, core.Placement{
						Row:    row,
						Col:    col,
						Layer:  layer,
						Slot:   slot,
						ItemID: core.ItemID(id),
					})
				}
			}
		}
	}
	if lvl.SizeZ <= 0 {
		for _, p := range lvl.Placements {
			if p.Layer+1 > lvl.SizeZ {
				lvl.SizeZ = p.Layer + 1
			}
		}
	}

	for _, p := range yl.Locked {
		lvl.Locked = append(lvl.Locked, core.P(p.Row, p.Col))
	}
	if len(yl.Items) > 0 {
		lvl.Items = make(map[core.ItemID]core.ItemType, len(yl.Items))
		for id, name := range yl.Items {
			lvl.Items[core.ItemID(id)] = core.ItemType(name)
		}
	}
	return lvl, nil
}

// MarshalYAML encodes a level in the layers layout.
func MarshalYAML(l *core.Level) ([]byte, error) {
	yl := YAMLLevel{
		Number:    l.Number,
		ID:        l.ID,
		Name:      l.Name,
		Size:      YAMLSize{Rows: l.SizeX, Cols: l.SizeY, Layers: l.SizeZ},
		Slots:     l.SlotsPerCell,
		Match:     l.ItemsPerMatch,
		TimeLimit: l.TimeLimit,
	}
	for _, p := range l.Locked {
		yl.Locked = append(yl.Locked, YAMLPos{Row: p.Row, Col: p.Col})
	}
	if len(l.Items) > 0 {
		yl.Items = make(map[int]string, len(l.Items))
		for id, t := range l.Items {
			yl.Items[int(id)] = string(t)
		}
	}

	layers := l.SizeZ
	for _, p := range l.Placements {
		if p.Layer+1 > layers {
			layers = p.Layer + 1
		}
	}
	yl.Layers = make([][][][]int, layers)
	for z := range yl.Layers {
		yl.Layers[z] = make([][][]int, l.SizeX)
		for r := range yl.Layers[z] {
			yl.Layers[z][r] = make([][]int, l.SizeY)
			for c := range yl.Layers[z][r] {
				slots := make([]int, l.SlotsPerCell)
				for i := range slots {
					slots[i] = -1
				}
				yl.Layers[z][r][c] = slots
			}
		}
	}
	for _, p := range l.Placements {
		if p.Layer < 0 || p.Row < 0 || p.Row >= l.SizeX || p.Col < 0 || p.Col >= l.SizeY ||
			p.Slot < 0 || p.Slot >= l.SlotsPerCell {
			yl.Placements = append(yl.Placements, YAMLPlacement{
				Row: p.Row, Col: p.Col, Layer: p.Layer, Slot: p.Slot, Item: int(p.ItemID),
			})
			continue
		}
		yl.Layers[p.Layer][p.Row][p.Col][p.Slot] = int(p.ItemID)
	}

	data, err := yaml.Marshal(yl)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
