package config

import (
	"fmt"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Color is RGB triple. In YAML it could be specified either as a list of
// three integers [r, g, b] or as a hex string "#RRGGBB".
type Color struct {
	R, G, B uint8
}

func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var rgb []int
		if err := value.Decode(&rgb); err != nil {
			return fmt.Errorf("line %d: bad color: %w", value.Line, err)
		}
		if len(rgb) != 3 {
			return fmt.Errorf("line %d: color must have exactly 3 components, got %d", value.Line, len(rgb))
		}
		for _, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("line %d: color component %d out of range [0, 255]", value.Line, v)
			}
		}
		c.R, c.G, c.B = uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2])
		return nil
	case yaml.ScalarNode:
		s := strings.TrimPrefix(strings.TrimSpace(value.Value), "#")
		if len(s) != 6 {
			return fmt.Errorf("line %d: bad color %q, expected #RRGGBB", value.Line, value.Value)
		}
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return fmt.Errorf("line %d: bad color %q: %w", value.Line, value.Value, err)
		}
		c.R, c.G, c.B = uint8(v>>16), uint8(v>>8), uint8(v)
		return nil
	default:
		return fmt.Errorf("line %d: color must be a list [r, g, b] or a string \"#RRGGBB\"", value.Line)
	}
}

func (c Color) MarshalYAML() (any, error) {
	return []int{int(c.R), int(c.G), int(c.B)}, nil
}
