package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zymatik-com/octopusv/internal/record"
)

func TestSpatialStoreGroupsOverlappingInterval(t *testing.T) {
	predicate := func(first, candidate *record.Record) bool {
		return candidate.Pos-first.Pos <= 15
	}

	store := NewSpatialStore(predicate, 50)

	a := &record.Record{Pos: 1000, Info: record.NewInfoMap()}
	b := &record.Record{Pos: 1010, Info: record.NewInfoMap()}

	store.AddSpatial(a, 1000, 2000)
	store.AddSpatial(b, 1010, 2005)

	groups := store.Groups()
	assert.Len(t, groups, 1)
	assert.Equal(t, []*record.Record{a, b}, groups[0].Members())
}

func TestSpatialStoreKeepsDistantIntervalsApart(t *testing.T) {
	predicate := func(first, candidate *record.Record) bool {
		return candidate.Pos-first.Pos <= 15
	}

	store := NewSpatialStore(predicate, 50)

	a := &record.Record{Pos: 1000, Info: record.NewInfoMap()}
	b := &record.Record{Pos: 5000, Info: record.NewInfoMap()}

	store.AddSpatial(a, 1000, 2000)
	store.AddSpatial(b, 5000, 6000)

	groups := store.Groups()
	assert.Len(t, groups, 2)
}

func TestSpatialStoreFirstMatchFollowsInsertionOrderAcrossMultipleCandidateGroups(t *testing.T) {
	// Predicate deliberately keeps groupA and groupB apart at insertion time,
	// but a later candidate would satisfy either group's first member. First-
	// match-wins must pick groupA, the one inserted first, regardless of the
	// order augmentedtree.Query happens to return overlapping hits in.
	predicate := func(first, candidate *record.Record) bool {
		if first.ID == "groupA" && candidate.ID == "groupB" {
			return false
		}

		return first.ID == "groupA" || first.ID == "groupB"
	}

	store := NewSpatialStore(predicate, 50)

	groupA := &record.Record{ID: "groupA", Pos: 100, Info: record.NewInfoMap()}
	groupB := &record.Record{ID: "groupB", Pos: 100, Info: record.NewInfoMap()}
	candidate := &record.Record{ID: "candidate", Pos: 100, Info: record.NewInfoMap()}

	store.AddSpatial(groupA, 100, 100)
	store.AddSpatial(groupB, 100, 100)
	store.AddSpatial(candidate, 100, 100)

	groups := store.Groups()
	assert.Len(t, groups, 2)
	assert.Equal(t, []*record.Record{groupA, candidate}, groups[0].Members())
	assert.Equal(t, []*record.Record{groupB}, groups[1].Members())
}

func TestSpatialStoreIsChainingFree(t *testing.T) {
	predicate := func(first, candidate *record.Record) bool {
		return candidate.Pos-first.Pos <= 10
	}

	store := NewSpatialStore(predicate, 50)

	a := &record.Record{Pos: 100, Info: record.NewInfoMap()}
	b := &record.Record{Pos: 108, Info: record.NewInfoMap()}
	c := &record.Record{Pos: 116, Info: record.NewInfoMap()}

	store.AddSpatial(a, 100, 100)
	store.AddSpatial(b, 108, 108)
	store.AddSpatial(c, 116, 116)

	groups := store.Groups()
	assert.Len(t, groups, 2)
	assert.Equal(t, []*record.Record{a, b}, groups[0].Members())
	assert.Equal(t, []*record.Record{c}, groups[1].Members())
}
