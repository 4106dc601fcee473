package livequery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id     string
	author string
}

type joined struct {
	item
	name string
}

func TestJoinBatchProducesExactlyNInOrder(t *testing.T) {
	primaries := []item{
		{id: "p1", author: "u1"},
		{id: "p2", author: "u2"},
		{id: "p3", author: "u1"},
		{id: "p4", author: "u3"},
	}

	resolve := func(ctx context.Context, id string) (string, error) {
		if id == "u2" {
			return "", errors.New("profile read failed")
		}
		return "name-" + id, nil
	}

	out := JoinBatch(context.Background(), primaries,
		func(p item) string { return p.author },
		resolve,
		func(id string) string { return "Unknown" },
		func(p item, name string) joined { return joined{item: p, name: name} },
		0,
	)

	require.Len(t, out, len(primaries), "join must not drop items")
	assert.Equal(t, "p1", out[0].id)
	assert.Equal(t, "p2", out[1].id)
	assert.Equal(t, "p3", out[2].id)
	assert.Equal(t, "p4", out[3].id)

	assert.Equal(t, "name-u1", out[0].name)
	assert.Equal(t, "Unknown", out[1].name, "failed lookup degrades to placeholder")
	assert.Equal(t, "name-u1", out[2].name)
	assert.Equal(t, "name-u3", out[3].name)
}

func TestJoinBatchAllLookupsFail(t *testing.T) {
	primaries := []item{{id: "p1", author: "u1"}, {id: "p2", author: "u2"}}

	resolve := func(ctx context.Context, id string) (string, error) {
		return "", errors.New("down")
	}

	out := JoinBatch(context.Background(), primaries,
		func(p item) string { return p.author },
		resolve,
		func(id string) string { return "Unknown" },
		func(p item, name string) joined { return joined{item: p, name: name} },
		2,
	)

	require.Len(t, out, 2)
	for _, j := range out {
		assert.Equal(t, "Unknown", j.name)
	}
}

func TestJoinBatchResolvesEachReferenceOnce(t *testing.T) {
	primaries := make([]item, 10)
	for i := range primaries {
		primaries[i] = item{id: "p", author: "same-author"}
	}

	var calls atomic.Int32
	resolve := func(ctx context.Context, id string) (string, error) {
		calls.Add(1)
		return "n", nil
	}

	out := JoinBatch(context.Background(), primaries,
		func(p item) string { return p.author },
		resolve,
		func(id string) string { return "" },
		func(p item, name string) joined { return joined{item: p, name: name} },
		4,
	)

	require.Len(t, out, 10)
	assert.EqualValues(t, 1, calls.Load())
}

func TestJoinBatchEmptyInput(t *testing.T) {
	out := JoinBatch(context.Background(), nil,
		func(p item) string { return p.author },
		func(ctx context.Context, id string) (string, error) { return "", nil },
		func(id string) string { return "" },
		func(p item, name string) joined { return joined{} },
		0,
	)
	assert.Empty(t, out)
}
