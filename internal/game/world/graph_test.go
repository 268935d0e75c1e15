package world

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testWorld(t *testing.T) *World {
	t.Helper()
	w, err := LoadWorldFromBytes([]byte(smallWorldYAML))
	require.NoError(t, err)
	return w
}

func TestNewWorld_Empty(t *testing.T) {
	_, err := NewWorld(nil, "a")
	assert.ErrorIs(t, err, ErrMalformedWorld)
}

func TestNewWorld_DuplicateKey(t *testing.T) {
	_, err := NewWorld([]*Room{NewRoom("a", "A", ""), NewRoom("a", "A again", "")}, "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedWorld)
	assert.Contains(t, err.Error(), "duplicate room key")
}

func TestNewWorld_DanglingTarget(t *testing.T) {
	a := NewRoom("a", "A", "")
	require.NoError(t, a.AddPathway("n", &Pathway{Target: "b"}))
	_, err := NewWorld([]*Room{a}, "a")
	assert.ErrorIs(t, err, ErrDanglingReference)
}

func TestRoom_AddPathwayDuplicate(t *testing.T) {
	a := NewRoom("a", "A", "")
	require.NoError(t, a.AddPathway("n", &Pathway{Target: "a"}))
	assert.Error(t, a.AddPathway("n", &Pathway{Target: "a"}))
}

func TestWorld_GetRoom(t *testing.T) {
	w := testWorld(t)

	r, err := w.GetRoom("a")
	require.NoError(t, err)
	assert.Equal(t, RoomKey("a"), r.Key)

	_, err = w.GetRoom("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestWorld_Keys(t *testing.T) {
	w := testWorld(t)
	assert.Equal(t, []RoomKey{"a", "b"}, w.Keys())
}

func TestWorld_SetPathwayState(t *testing.T) {
	w := testWorld(t)

	require.NoError(t, w.SetPathwayState("a", "gate", Open))
	err := w.WithRoom("a", func(r *Room) error {
		p, _ := r.Pathway("gate")
		assert.Equal(t, DoorOpen, p.Door)
		return nil
	})
	require.NoError(t, err)

	err = w.SetPathwayState("a", "gate", Open)
	assert.ErrorIs(t, err, ErrAlreadyInState)

	require.NoError(t, w.SetPathwayState("a", "gate", Closed))
	assert.ErrorIs(t, w.SetPathwayState("a", "gate", Closed), ErrAlreadyInState)
}

func TestWorld_SetPathwayState_Errors(t *testing.T) {
	w := testWorld(t)

	err := w.SetPathwayState("a", "north", Open)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPathway)
	assert.Contains(t, err.Error(), "nothing to open")

	assert.ErrorIs(t, w.SetPathwayState("a", "west", Open), ErrUnknownPathway)
	assert.ErrorIs(t, w.SetPathwayState("zz", "gate", Open), ErrUnknownRoom)
}

func TestWorld_WithRoomReleasesLockOnError(t *testing.T) {
	w := testWorld(t)
	boom := fmt.Errorf("boom")

	err := w.WithRoom("a", func(*Room) error { return boom })
	assert.ErrorIs(t, err, boom)

	// A second acquisition would deadlock if the first had leaked the lock.
	require.NoError(t, w.WithRoom("a", func(*Room) error { return nil }))
}

func TestWorld_MutateRoomItemsAndAllies(t *testing.T) {
	w := testWorld(t)

	var taken Item
	require.NoError(t, w.MutateRoomItems("a", func(items []Item) []Item {
		taken = items[0]
		rest, _ := RemoveItem(items, taken)
		return rest
	}))
	require.NoError(t, w.WithRoom("a", func(r *Room) error {
		assert.Len(t, r.Items(), 2)
		for _, it := range r.Items() {
			assert.NotSame(t, taken, it)
		}
		return nil
	}))

	require.NoError(t, w.MutateRoomAllies("a", func([]*Ally) []*Ally { return nil }))
	require.NoError(t, w.WithRoom("a", func(r *Room) error {
		assert.Empty(t, r.Allies())
		return nil
	}))
}

func TestWorld_ConcurrentRoomMutation(t *testing.T) {
	w := testWorld(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = w.MutateRoomItems("b", func(items []Item) []Item {
				return append(items, &Thing{Info: Info{Name: fmt.Sprintf("pebble-%d", i)}})
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, w.WithRoom("b", func(r *Room) error {
		assert.Len(t, r.Items(), 50)
		return nil
	}))
}

// genWorld builds a random connected world where every room has a pathway back
// to the previous room and some pathways carry doors.
func genWorld(t *rapid.T) *World {
	n := rapid.IntRange(1, 8).Draw(t, "rooms")
	rooms := make([]*Room, n)
	for i := range rooms {
		rooms[i] = NewRoom(RoomKey(fmt.Sprintf("r%d", i)), "Room", "")
	}
	for i := 1; i < n; i++ {
		door := NoDoor
		if rapid.Bool().Draw(t, fmt.Sprintf("door%d", i)) {
			door = DoorClosed
		}
		_ = rooms[i-1].AddPathway(fmt.Sprintf("to%d", i), &Pathway{Target: rooms[i].Key, Door: door})
		_ = rooms[i].AddPathway(fmt.Sprintf("to%d", i-1), &Pathway{Target: rooms[i-1].Key})
	}
	w, err := NewWorld(rooms, rooms[0].Key)
	if err != nil {
		t.Fatalf("generated world invalid: %v", err)
	}
	return w
}

func TestPropertyEveryPathwayTargetResolves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := genWorld(t)
		for _, key := range w.Keys() {
			_ = w.WithRoom(key, func(r *Room) error {
				for _, word := range r.Words() {
					p, _ := r.Pathway(word)
					if _, err := w.GetRoom(p.Target); err != nil {
						t.Fatalf("room %q pathway %q: %v", key, word, err)
					}
				}
				return nil
			})
		}
	})
}

func TestPropertyDoorToggleAlternates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := NewRoom("a", "A", "")
		_ = a.AddPathway("door", &Pathway{Target: "a", Door: DoorClosed})
		w, err := NewWorld([]*Room{a}, "a")
		if err != nil {
			t.Fatal(err)
		}
		open := false
		steps := rapid.SliceOf(rapid.Bool()).Draw(t, "opens")
		for _, wantOpen := range steps {
			state := Closed
			if wantOpen {
				state = Open
			}
			err := w.SetPathwayState("a", "door", state)
			if wantOpen == open {
				if err == nil {
					t.Fatalf("expected ErrAlreadyInState for %s", state)
				}
				continue
			}
			if err != nil {
				t.Fatalf("SetPathwayState(%s): %v", state, err)
			}
			open = wantOpen
		}
	})
}
