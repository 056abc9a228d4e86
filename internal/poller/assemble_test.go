// internal/poller/assemble_test.go
package poller

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-gateway/internal/registers"
)

func reg(number, size int, group string) registers.Register {
	return registers.Register{Kind: registers.Integer, Number: number, Size: size, Group: group, Tag: "a.b"}
}

func numbers(s Sequence) []int {
	var out []int
	for _, r := range s.Registers {
		out = append(out, r.Number)
	}
	return out
}

func TestAssemble_GapSplitsSameGroup(t *testing.T) {
	groups, err := Assemble([]registers.Register{
		reg(100, 1, "g1"),
		reg(101, 1, "g1"),
		reg(103, 1, "g1"),
	}, 0, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, "g1", groups[0].Name)
	require.Len(t, groups[0].Sequences, 2)
	assert.Equal(t, []int{100, 101}, numbers(groups[0].Sequences[0]))
	assert.Equal(t, []int{103}, numbers(groups[0].Sequences[1]))
}

func TestAssemble_Empty(t *testing.T) {
	_, err := Assemble(nil, 0, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoRegisters)
}

func TestAssemble_GroupsInFirstAppearanceOrder(t *testing.T) {
	groups, err := Assemble([]registers.Register{
		reg(1, 1, "slow"),
		reg(2, 1, "fast"),
		reg(3, 1, "slow"),
		reg(4, 2, "slow"),
	}, 0, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "slow", groups[0].Name)
	assert.Equal(t, "fast", groups[1].Name)
	require.Len(t, groups[0].Sequences, 3)
	assert.Equal(t, []int{1}, numbers(groups[0].Sequences[0]))
	assert.Equal(t, []int{3}, numbers(groups[0].Sequences[1]))
	assert.Equal(t, []int{4}, numbers(groups[0].Sequences[2]), "size differs")
}

func TestAssemble_OffsetConventionBoundary(t *testing.T) {
	groups, err := Assemble([]registers.Register{
		reg(39999, 1, "g"),
		reg(40000, 1, "g"),
		reg(40001, 1, "g"),
	}, 0, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, groups[0].Sequences, 2)
	assert.Equal(t, 39999, groups[0].Sequences[0].Offset())
	assert.Equal(t, 1, groups[0].Sequences[0].Words())
	assert.Equal(t, 0, groups[0].Sequences[1].Offset())
	assert.Equal(t, 2, groups[0].Sequences[1].Words())
}

func TestAssemble_ReadLimit(t *testing.T) {
	var regs []registers.Register
	for i := 0; i < 5; i++ {
		regs = append(regs, reg(10+2*i, 2, "g"))
	}

	groups, err := Assemble(regs, 4, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, groups[0].Sequences, 3)
	assert.Equal(t, 4, groups[0].Sequences[0].Words())
	assert.Equal(t, 4, groups[0].Sequences[1].Words())
	assert.Equal(t, 2, groups[0].Sequences[2].Words())
}

func TestAssemble_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for iter := 0; iter < 200; iter++ {
		var regs []registers.Register
		number := 40001
		for i := 0; i < 1+rnd.Intn(30); i++ {
			r := reg(number, 1+rnd.Intn(2), []string{"a", "b"}[rnd.Intn(2)])
			regs = append(regs, r)
			number += r.Size + rnd.Intn(2)*rnd.Intn(3)
		}

		groups, err := Assemble(regs, 0, zerolog.Nop())
		require.NoError(t, err)

		// Sequences ordered by their first register reproduce the input.
		var seqs []Sequence
		for _, g := range groups {
			for _, s := range g.Sequences {
				assert.Equal(t, g.Name, s.Name())
				seqs = append(seqs, s)
			}
		}
		var flat []registers.Register
		for len(seqs) > 0 {
			best := 0
			for i := range seqs {
				if seqs[i].Start() < seqs[best].Start() {
					best = i
				}
			}
			flat = append(flat, seqs[best].Registers...)
			seqs = append(seqs[:best], seqs[best+1:]...)
		}
		require.Equal(t, regs, flat)

		// Boundaries fall exactly between incompatible neighbours.
		first := map[int]bool{}
		for _, g := range groups {
			for _, s := range g.Sequences {
				first[s.Start()] = true
				for i := 1; i < len(s.Registers); i++ {
					p, c := s.Registers[i-1], s.Registers[i]
					assert.Equal(t, p.Size, c.Size)
					assert.Equal(t, p.Number+p.Size, c.Number)
					assert.Equal(t, p.Group, c.Group)
				}
			}
		}
		for i := 1; i < len(regs); i++ {
			p, c := regs[i-1], regs[i]
			breaks := p.Size != c.Size || p.Number+p.Size != c.Number || p.Group != c.Group
			assert.Equal(t, breaks, first[c.Number], "between %d and %d", p.Number, c.Number)
		}
	}
}

func TestSequence_Geometry(t *testing.T) {
	s := Sequence{Registers: []registers.Register{reg(40010, 2, "g"), reg(40012, 2, "g")}}
	assert.Equal(t, 10, s.Offset())
	assert.Equal(t, 4, s.Words())
	assert.Equal(t, 40012, s.End())

	assert.Equal(t, 0, Offset(40000))
	assert.Equal(t, 39999, Offset(39999))
	assert.Equal(t, 100, Offset(100))
}

func TestResolveIntervals(t *testing.T) {
	perReg := reg(1, 1, "b")
	perReg.Interval = 15 * time.Second

	groups := []Group{
		{Name: "a", Sequences: []Sequence{{Registers: []registers.Register{reg(1, 1, "a")}}}},
		{Name: "b", Sequences: []Sequence{{Registers: []registers.Register{perReg}}}},
		{Name: "c", Sequences: []Sequence{{Registers: []registers.Register{perReg}}}},
	}
	ResolveIntervals(groups, map[string]time.Duration{"c": 5 * time.Second}, time.Minute)

	assert.Equal(t, time.Minute, groups[0].Interval)
	assert.Equal(t, 15*time.Second, groups[1].Interval)
	assert.Equal(t, 5*time.Second, groups[2].Interval)
}
