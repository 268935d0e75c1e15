package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type kindCounter struct {
	weapons, armor, things, containers int
}

func (k *kindCounter) VisitWeapon(*Weapon) { k.weapons++ }
func (k *kindCounter) VisitArmor(*Armor)   { k.armor++ }
func (k *kindCounter) VisitThing(*Thing)   { k.things++ }
func (k *kindCounter) VisitContainer(c *Container) {
	k.containers++
	for _, it := range c.Contents {
		it.Accept(k)
	}
}

func TestItem_AcceptDispatchesByVariant(t *testing.T) {
	items := []Item{
		&Weapon{Info: Info{Name: "sword"}, Damage: 3},
		&Armor{Info: Info{Name: "mail"}, AC: 4},
		&Thing{Info: Info{Name: "rock"}},
		&Container{Info: Info{Name: "bag"}, Opening: Open, Contents: []Item{
			&Thing{Info: Info{Name: "marble"}},
		}},
	}
	var k kindCounter
	for _, it := range items {
		it.Accept(&k)
	}
	assert.Equal(t, kindCounter{weapons: 1, armor: 1, things: 2, containers: 1}, k)
}

func TestItem_Kind(t *testing.T) {
	assert.Equal(t, KindWeapon, (&Weapon{}).Kind())
	assert.Equal(t, KindArmor, (&Armor{}).Kind())
	assert.Equal(t, KindThing, (&Thing{}).Kind())
	assert.Equal(t, KindContainer, (&Container{}).Kind())
}

func TestParseOpening(t *testing.T) {
	o, err := ParseOpening("Closed")
	require.NoError(t, err)
	assert.Equal(t, Closed, o)

	o, err = ParseOpening(" OPEN ")
	require.NoError(t, err)
	assert.Equal(t, Open, o)

	_, err = ParseOpening("locked")
	assert.Error(t, err)
}

func TestDoor(t *testing.T) {
	_, ok := NoDoor.Opening()
	assert.False(t, ok)
	assert.False(t, NoDoor.Blocks())
	assert.Equal(t, "none", NoDoor.String())

	o, ok := DoorClosed.Opening()
	assert.True(t, ok)
	assert.Equal(t, Closed, o)
	assert.True(t, DoorClosed.Blocks())

	assert.False(t, DoorOpen.Blocks())
	assert.Equal(t, DoorOpen, DoorFor(Open))
	assert.Equal(t, DoorClosed, DoorFor(Closed))
}

func TestDoor_Text(t *testing.T) {
	for _, d := range []Door{NoDoor, DoorOpen, DoorClosed} {
		text, err := d.MarshalText()
		require.NoError(t, err)
		var back Door
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, d, back)
	}
	var d Door
	assert.Error(t, d.UnmarshalText([]byte("ajar")))
}

func TestContainer_Holds(t *testing.T) {
	gem := &Thing{Info: Info{Name: "gem"}}
	pouch := &Container{Info: Info{Name: "pouch"}, Opening: Closed, Contents: []Item{gem}}
	chest := &Container{Info: Info{Name: "chest"}, Opening: Open, Contents: []Item{pouch}}
	other := &Thing{Info: Info{Name: "gem"}}

	assert.True(t, chest.Holds(chest))
	assert.True(t, chest.Holds(pouch))
	assert.True(t, chest.Holds(gem))
	assert.False(t, chest.Holds(other))
	assert.False(t, pouch.Holds(chest))
}

func TestAlly_Defeated(t *testing.T) {
	a := &Ally{HP: 1}
	assert.False(t, a.Defeated())
	a.HP = 0
	assert.True(t, a.Defeated())
}

func TestNameMatches(t *testing.T) {
	assert.True(t, NameMatches("Leather Armor", "leather armor"))
	assert.True(t, NameMatches("chest", " chest "))
	assert.False(t, NameMatches("chest", "chests"))
}

func TestPropertyRemoveItemPreservesOthers(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "n")
		items := make([]Item, n)
		for i := range items {
			items[i] = &Thing{Info: Info{Name: "thing"}}
		}
		idx := rapid.IntRange(0, n-1).Draw(t, "idx")
		target := items[idx]
		original := append([]Item(nil), items...)

		rest, ok := RemoveItem(items, target)
		if !ok {
			t.Fatal("target not removed")
		}
		if len(rest) != n-1 {
			t.Fatalf("len = %d, want %d", len(rest), n-1)
		}
		for _, it := range rest {
			if it == target {
				t.Fatal("target still present")
			}
		}
		for i := range items {
			if items[i] != original[i] {
				t.Fatal("input slice was modified")
			}
		}
	})
}
