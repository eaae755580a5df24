package registry

// boolProperty and axisProperty are the recurring property shapes across
// the representative block catalog below.
var boolProperty = func(name string) Property { return Property{Name: name, Values: []string{"false", "true"}} }

var facingProperty = Property{Name: "facing", Values: []string{"north", "south", "west", "east", "up", "down"}}

var ageProperty8 = Property{Name: "age", Values: []string{"0", "1", "2", "3", "4", "5", "6", "7"}}

var powerProperty = Property{Name: "power", Values: []string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15",
}}

// DefaultBlockKinds builds a representative catalog standing in for
// vanilla's ~796-kind/~25,000-state table: enough block shapes — simple,
// directional, liquid, and multi-property — to exercise every accessor
// and paletted-storage promotion path, with item lookups resolved
// against items so ids stay consistent across both registries.
func DefaultBlockKinds(items *ItemRegistry) []BlockKind {
	item := func(name string) ItemKind {
		id, _ := items.ByName(name)
		return id
	}

	return []BlockKind{
		{
			Name:          "air",
			Opacity:       0,
			Luminance:     0,
			Replaceable:   true,
			Item:          ItemNone,
			DefaultValues: nil,
		},
		{
			Name:          "stone",
			Opacity:       15,
			Item:          item("stone"),
			DefaultValues: nil,
		},
		{
			Name:          "dirt",
			Opacity:       15,
			Item:          item("dirt"),
			DefaultValues: nil,
		},
		{
			Name:          "grass_block",
			Properties:    []Property{boolProperty("snowy")},
			Opacity:       15,
			Item:          item("grass_block"),
			DefaultValues: []string{"false"},
		},
		{
			Name:          "oak_log",
			Properties:    []Property{{Name: "axis", Values: []string{"x", "y", "z"}}},
			Opacity:       15,
			Item:          item("oak_log"),
			DefaultValues: []string{"y"},
		},
		{
			Name:          "oak_planks",
			Opacity:       15,
			Item:          item("oak_planks"),
			DefaultValues: nil,
		},
		{
			Name: "oak_leaves",
			Properties: []Property{
				boolProperty("persistent"),
				{Name: "distance", Values: []string{"1", "2", "3", "4", "5", "6", "7"}},
			},
			Opacity:       1,
			Item:          item("oak_leaves"),
			DefaultValues: []string{"false", "7"},
		},
		{
			Name:          "glass",
			Opacity:       0,
			Item:          item("glass"),
			DefaultValues: nil,
		},
		{
			Name:          "sand",
			Opacity:       15,
			Item:          item("sand"),
			DefaultValues: nil,
		},
		{
			Name:          "gravel",
			Opacity:       15,
			Item:          item("gravel"),
			DefaultValues: nil,
		},
		{
			Name:          "cobblestone",
			Opacity:       15,
			Item:          item("cobblestone"),
			DefaultValues: nil,
		},
		{
			Name: "water",
			Properties: []Property{
				{Name: "level", Values: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}},
			},
			Opacity:       3,
			Liquid:        true,
			Replaceable:   true,
			Item:          ItemNone,
			DefaultValues: []string{"0"},
		},
		{
			Name: "lava",
			Properties: []Property{
				{Name: "level", Values: []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}},
			},
			Opacity:       15,
			Luminance:     15,
			Liquid:        true,
			Replaceable:   true,
			Item:          ItemNone,
			DefaultValues: []string{"0"},
		},
		{
			Name:          "torch",
			Opacity:       0,
			Luminance:     14,
			Item:          item("torch"),
			DefaultValues: nil,
		},
		{
			Name:          "glowstone",
			Opacity:       15,
			Luminance:     15,
			Item:          item("glowstone"),
			DefaultValues: nil,
		},
		{
			Name:          "redstone_wire",
			Properties:    []Property{powerProperty},
			Opacity:       0,
			Item:          item("redstone"),
			DefaultValues: []string{"0"},
		},
		{
			Name:          "redstone_torch",
			Properties:    []Property{boolProperty("lit")},
			Opacity:       0,
			Luminance:     7,
			Item:          item("redstone_torch"),
			DefaultValues: []string{"true"},
		},
		{
			Name: "repeater",
			Properties: []Property{
				facingProperty,
				{Name: "delay", Values: []string{"1", "2", "3", "4"}},
				boolProperty("powered"),
				boolProperty("locked"),
			},
			Opacity:       0,
			Item:          item("repeater"),
			DefaultValues: []string{"north", "1", "false", "false"},
		},
		{
			Name: "oak_door",
			Properties: []Property{
				facingProperty,
				boolProperty("open"),
				{Name: "half", Values: []string{"lower", "upper"}},
				{Name: "hinge", Values: []string{"left", "right"}},
				boolProperty("powered"),
			},
			Opacity:       0,
			Item:          item("oak_door"),
			DefaultValues: []string{"north", "false", "lower", "left", "false"},
		},
		{
			Name: "oak_trapdoor",
			Properties: []Property{
				facingProperty,
				boolProperty("open"),
				boolProperty("waterlogged"),
			},
			Opacity:       0,
			Item:          item("oak_trapdoor"),
			DefaultValues: []string{"north", "false", "false"},
		},
		{
			Name:          "chest",
			Properties:    []Property{{Name: "facing", Values: []string{"north", "south", "west", "east"}}},
			Opacity:       0,
			Item:          item("chest"),
			DefaultValues: []string{"north"},
		},
		{
			Name: "furnace",
			Properties: []Property{
				{Name: "facing", Values: []string{"north", "south", "west", "east"}},
				boolProperty("lit"),
			},
			Opacity:       15,
			Item:          item("furnace"),
			DefaultValues: []string{"north", "false"},
		},
		{
			Name:          "crafting_table",
			Opacity:       15,
			Item:          item("crafting_table"),
			DefaultValues: nil,
		},
	}
}
