package league

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grassmasters(t *testing.T) *League {
	t.Helper()
	l := New("Frozen Grassmasters of Lambeau")
	for _, name := range []string{
		"Training Camp Hookie", "T-bone Chicken", "Dark Helmet", "Wish Sandwiches",
		"Flaming Moes", "Jello Puddin' Pops", "The Schlubs", "Kentucky Clears",
		"Mother of Dragons", "Demaryius Targaryen", "Winter is Coming", "King in the North",
	} {
		_, err := l.CreateTeam(name)
		require.NoError(t, err)
	}
	l.AddDivision("Beer")
	l.AddDivision("Cheese")
	l.AddDivision("Sausage")
	return l
}

func TestTeams(t *testing.T) {
	l := New("Test")

	t.Run("create keeps enumeration order", func(t *testing.T) {
		for _, n := range []string{"Zebras", "Apples", "Mangos"} {
			_, err := l.CreateTeam(n)
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"Zebras", "Apples", "Mangos"}, l.TeamNames())
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := l.CreateTeam("Apples")
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("lookup unknown team", func(t *testing.T) {
		_, err := l.Team("Nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set owner", func(t *testing.T) {
		require.NoError(t, l.SetOwner("Apples", "Pat"))
		team, err := l.Team("Apples")
		require.NoError(t, err)
		assert.Equal(t, "Pat", team.Owner)
		assert.ErrorIs(t, l.SetOwner("Nope", "Pat"), ErrNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, l.RemoveTeam("Apples"))
		assert.Equal(t, []string{"Zebras", "Mangos"}, l.TeamNames())
		assert.ErrorIs(t, l.RemoveTeam("Apples"), ErrNotFound)
	})
}

func TestDivisions(t *testing.T) {
	l := New("Test")
	_, err := l.CreateTeam("A")
	require.NoError(t, err)
	_, err = l.CreateTeam("B")
	require.NoError(t, err)
	_, err = l.CreateTeam("C")
	require.NoError(t, err)
	l.AddDivision("north")
	l.AddDivision("East")
	l.AddDivision("East")

	assert.Equal(t, []string{"East", "north"}, l.Divisions())

	t.Run("assign validates both names", func(t *testing.T) {
		require.NoError(t, l.AssignTeamToDivision("A", "East"))
		assert.ErrorIs(t, l.AssignTeamToDivision("A", "West"), ErrNotFound)
		assert.ErrorIs(t, l.AssignTeamToDivision("Z", "East"), ErrNotFound)
	})

	t.Run("membership buckets unassigned teams", func(t *testing.T) {
		require.NoError(t, l.AssignTeamToDivision("B", "north"))
		m := l.Membership()
		assert.Equal(t, []string{"A"}, m["East"])
		assert.Equal(t, []string{"B"}, m["north"])
		assert.Equal(t, []string{"C"}, m[Unassigned])
	})

	t.Run("removed division leaves stale names unassigned", func(t *testing.T) {
		require.NoError(t, l.RemoveDivision("north"))
		assert.ErrorIs(t, l.RemoveDivision("north"), ErrNotFound)

		m := l.Membership()
		assert.NotContains(t, m, "north")
		assert.Equal(t, []string{"B", "C"}, m[Unassigned])

		d, err := l.DivisionOf("B")
		require.NoError(t, err)
		assert.Equal(t, Unassigned, d)
	})

	t.Run("empty divisions still listed", func(t *testing.T) {
		l.AddDivision("West")
		m := l.Membership()
		require.Contains(t, m, "West")
		assert.Empty(t, m["West"])
	})
}

func TestSortedDivisionNames(t *testing.T) {
	m := map[string][]string{"sausage": nil, "Beer": nil, Unassigned: nil, "cheese": nil}
	assert.Equal(t, []string{Unassigned, "Beer", "cheese", "sausage"}, SortedDivisionNames(m))
}

func TestShuffleDivisions(t *testing.T) {
	t.Run("no divisions", func(t *testing.T) {
		l := New("Empty")
		_, err := l.CreateTeam("A")
		require.NoError(t, err)
		assert.ErrorIs(t, l.ShuffleDivisions(rand.New(rand.NewSource(1))), ErrInvalidState)
	})

	t.Run("even split", func(t *testing.T) {
		l := grassmasters(t)
		require.NoError(t, l.ShuffleDivisions(rand.New(rand.NewSource(42))))
		for d, teams := range l.Membership() {
			assert.Len(t, teams, 4, "division %s", d)
		}
	})

	t.Run("same seed same divisions", func(t *testing.T) {
		a, b := grassmasters(t), grassmasters(t)
		require.NoError(t, a.ShuffleDivisions(rand.New(rand.NewSource(7))))
		require.NoError(t, b.ShuffleDivisions(rand.New(rand.NewSource(7))))
		assert.Equal(t, a.Membership(), b.Membership())
	})

	tests := []struct {
		teams, divisions int
	}{
		{1, 1}, {2, 3}, {4, 3}, {5, 3}, {7, 2}, {10, 4}, {11, 3}, {13, 5}, {20, 6},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d teams %d divisions", tt.teams, tt.divisions), func(t *testing.T) {
			for seed := int64(0); seed < 50; seed++ {
				l := New("Sized")
				for i := 0; i < tt.teams; i++ {
					_, err := l.CreateTeam(fmt.Sprintf("T%02d", i))
					require.NoError(t, err)
				}
				for i := 0; i < tt.divisions; i++ {
					l.AddDivision(fmt.Sprintf("D%d", i))
				}
				require.NoError(t, l.ShuffleDivisions(rand.New(rand.NewSource(seed))))

				base := tt.teams / tt.divisions
				large := 0
				m := l.Membership()
				require.NotContains(t, m, Unassigned)
				for d, members := range m {
					switch len(members) {
					case base:
					case base + 1:
						large++
					default:
						t.Fatalf("seed %d: division %s has %d teams, want %d or %d",
							seed, d, len(members), base, base+1)
					}
				}
				assert.Equal(t, tt.teams%tt.divisions, large, "seed %d", seed)
			}
		})
	}
}
