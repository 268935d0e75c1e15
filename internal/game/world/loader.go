package world

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// yamlWorldFile is the top-level structure of a world file.
type yamlWorldFile struct {
	CurrRoom string              `yaml:"curr_room" validate:"required"`
	Rooms    map[string]yamlRoom `yaml:"rooms" validate:"required,min=1,dive"`
}

// yamlRoom is the YAML representation of a room.
type yamlRoom struct {
	Name   string     `yaml:"name" validate:"required"`
	Desc   string     `yaml:"desc"`
	Paths  yamlPaths  `yaml:"paths" validate:"dive"`
	Items  []yamlItem `yaml:"items" validate:"dive"`
	Allies []yamlAlly `yaml:"allies" validate:"dive"`
}

// yamlPath is the YAML representation of a pathway.
type yamlPath struct {
	Word    string  `yaml:"-" validate:"required"`
	Target  string  `yaml:"target" validate:"required"`
	Desc    string  `yaml:"desc"`
	Inspect string  `yaml:"inspect"`
	Opening *string `yaml:"opening"`
}

// yamlPaths keeps pathways in document order, which is the order exits are listed in.
type yamlPaths []yamlPath

// UnmarshalYAML decodes a word -> pathway mapping without losing key order.
func (p *yamlPaths) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: paths must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var path yamlPath
		if err := node.Content[i+1].Decode(&path); err != nil {
			return err
		}
		path.Word = node.Content[i].Value
		*p = append(*p, path)
	}
	return nil
}

// yamlItemBody holds the fields shared by every item variant plus the variant-specific ones.
type yamlItemBody struct {
	Name     string     `yaml:"name" validate:"required"`
	Desc     string     `yaml:"desc"`
	Inspect  string     `yaml:"inspect"`
	Damage   *int       `yaml:"damage" validate:"omitempty,gte=0"`
	AC       *int       `yaml:"ac" validate:"omitempty,gte=0"`
	Opening  *string    `yaml:"opening"`
	Contents []yamlItem `yaml:"contents" validate:"dive"`
}

// yamlItem is an externally tagged item, e.g. {Weapon: {name: sword, damage: 3}}.
type yamlItem struct {
	Tag string
	yamlItemBody
}

// UnmarshalYAML decodes a single-key mapping whose key names the variant.
func (it *yamlItem) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: item must be a mapping with exactly one variant key", node.Line)
	}
	it.Tag = node.Content[0].Value
	return node.Content[1].Decode(&it.yamlItemBody)
}

// yamlAlly is the YAML representation of an ally.
type yamlAlly struct {
	Name    string `yaml:"name" validate:"required"`
	Desc    string `yaml:"desc"`
	Inspect string `yaml:"inspect"`
	HP      *int   `yaml:"hp" validate:"required,gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadWorldFromFile reads and validates a world file.
//
// Precondition: path must point to a YAML or JSON world description.
// Postcondition: Returns a validated World or a non-nil error.
func LoadWorldFromFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	w, err := LoadWorldFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading world file %s: %w", path, err)
	}
	return w, nil
}

// LoadWorldFromBytes parses and validates a world description.
//
// Postcondition: Returns a validated World, or an error wrapping ErrMalformedWorld
// or ErrDanglingReference.
func LoadWorldFromBytes(data []byte) (*World, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing world YAML: %v", ErrMalformedWorld, err)
	}
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedWorld, describeValidation(err))
	}

	rooms := make([]*Room, 0, len(file.Rooms))
	for key, yr := range file.Rooms {
		room, err := convertYAMLRoom(RoomKey(key), yr)
		if err != nil {
			return nil, fmt.Errorf("%w: room %q: %v", ErrMalformedWorld, key, err)
		}
		rooms = append(rooms, room)
	}
	return NewWorld(rooms, RoomKey(file.CurrRoom))
}

// describeValidation turns validator errors into "field: rule" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "yamlWorldFile.")
		if e.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, e.Tag(), e.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, e.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// convertYAMLRoom converts a parsed room into its domain form.
func convertYAMLRoom(key RoomKey, yr yamlRoom) (*Room, error) {
	room := NewRoom(key, yr.Name, strings.TrimSpace(yr.Desc))
	for _, yp := range yr.Paths {
		door := NoDoor
		if yp.Opening != nil {
			o, err := ParseOpening(*yp.Opening)
			if err != nil {
				return nil, fmt.Errorf("pathway %q: %w", yp.Word, err)
			}
			door = DoorFor(o)
		}
		p := &Pathway{
			Target:  RoomKey(yp.Target),
			Desc:    yp.Desc,
			Inspect: yp.Inspect,
			Door:    door,
		}
		if err := room.AddPathway(yp.Word, p); err != nil {
			return nil, err
		}
	}
	for _, yi := range yr.Items {
		item, err := convertYAMLItem(yi)
		if err != nil {
			return nil, err
		}
		room.AddItem(item)
	}
	for _, ya := range yr.Allies {
		// An ally authored at zero hp is already defeated and never appears.
		if *ya.HP == 0 {
			continue
		}
		room.AddAlly(&Ally{
			Info: Info{Name: ya.Name, Desc: ya.Desc, Inspect: ya.Inspect},
			HP:   *ya.HP,
		})
	}
	return room, nil
}

// convertYAMLItem builds a fresh item tree. Contents are always new values, so the
// result cannot contain cycles.
func convertYAMLItem(yi yamlItem) (Item, error) {
	info := Info{Name: yi.Name, Desc: yi.Desc, Inspect: yi.Inspect}
	kind := ItemKind(strings.ToLower(yi.Tag))

	if err := checkVariantFields(kind, yi.yamlItemBody); err != nil {
		return nil, fmt.Errorf("item %q: %w", yi.Name, err)
	}

	switch kind {
	case KindWeapon:
		return &Weapon{Info: info, Damage: *yi.Damage}, nil
	case KindArmor:
		return &Armor{Info: info, AC: *yi.AC}, nil
	case KindThing:
		return &Thing{Info: info}, nil
	case KindContainer:
		opening, err := ParseOpening(*yi.Opening)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", yi.Name, err)
		}
		c := &Container{Info: info, Opening: opening}
		for _, child := range yi.Contents {
			item, err := convertYAMLItem(child)
			if err != nil {
				return nil, err
			}
			c.Contents = append(c.Contents, item)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("item %q: unknown variant %q", yi.Name, yi.Tag)
	}
}

// checkVariantFields rejects missing variant fields and fields that belong to another variant.
func checkVariantFields(kind ItemKind, b yamlItemBody) error {
	var errs []string
	want := func(present bool, field string, needed bool) {
		switch {
		case needed && !present:
			errs = append(errs, fmt.Sprintf("%s requires %s", kind, field))
		case !needed && present:
			errs = append(errs, fmt.Sprintf("%s does not take %s", kind, field))
		}
	}
	want(b.Damage != nil, "damage", kind == KindWeapon)
	want(b.AC != nil, "ac", kind == KindArmor)
	want(b.Opening != nil, "opening", kind == KindContainer)
	if kind != KindContainer && len(b.Contents) > 0 {
		errs = append(errs, fmt.Sprintf("%s does not take contents", kind))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
