// Package testutil provides JSON fixtures and line-model assertions shared by
// the package tests. Fixture generators are deterministic; the rapid
// generators drive the property tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strconv"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed     int64 // Random seed for determinism
	MaxDepth int   // Deepest container nesting
	MaxWidth int   // Most children per container
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Seed: 42, MaxDepth: 4, MaxWidth: 5}
}

// Generator builds pseudo-random JSON documents.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 4
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = 5
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Document returns a random container-rooted document.
func (g *Generator) Document() jsonvalue.Value {
	if g.rng.Intn(2) == 0 {
		return g.array(0)
	}
	return g.object(0)
}

func (g *Generator) value(depth int) jsonvalue.Value {
	if depth >= g.cfg.MaxDepth {
		return g.scalar()
	}
	switch g.rng.Intn(4) {
	case 0:
		return g.object(depth)
	case 1:
		return g.array(depth)
	default:
		return g.scalar()
	}
}

func (g *Generator) object(depth int) jsonvalue.Value {
	n := g.rng.Intn(g.cfg.MaxWidth + 1)
	members := make([]jsonvalue.Member, n)
	for i := range members {
		members[i] = jsonvalue.M(fmt.Sprintf("k%d_%d", depth, i), g.value(depth+1))
	}
	return jsonvalue.Object(members...)
}

func (g *Generator) array(depth int) jsonvalue.Value {
	n := g.rng.Intn(g.cfg.MaxWidth + 1)
	elems := make([]jsonvalue.Value, n)
	for i := range elems {
		elems[i] = g.value(depth + 1)
	}
	return jsonvalue.Array(elems...)
}

func (g *Generator) scalar() jsonvalue.Value {
	switch g.rng.Intn(5) {
	case 0:
		return jsonvalue.Null()
	case 1:
		return jsonvalue.Bool(g.rng.Intn(2) == 0)
	case 2:
		return jsonvalue.Int(g.rng.Int63n(1_000_000) - 500_000)
	case 3:
		return jsonvalue.Number(strconv.FormatFloat(g.rng.Float64()*1000, 'g', -1, 64))
	default:
		return jsonvalue.String(fmt.Sprintf("s<%d>&\"q\"", g.rng.Intn(100)))
	}
}

// Wide returns an object with n scalar members.
func Wide(n int) jsonvalue.Value {
	members := make([]jsonvalue.Member, n)
	for i := range members {
		members[i] = jsonvalue.M(fmt.Sprintf("key%d", i), jsonvalue.Int(int64(i)))
	}
	return jsonvalue.Object(members...)
}

// Deep returns depth arrays nested inside each other around a single null.
func Deep(depth int) jsonvalue.Value {
	v := jsonvalue.Null()
	for i := 0; i < depth; i++ {
		v = jsonvalue.Array(v)
	}
	return v
}

// ScalarGen draws any JSON scalar.
func ScalarGen() *rapid.Generator[jsonvalue.Value] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Value {
		switch rapid.IntRange(0, 5).Draw(t, "scalarKind") {
		case 0:
			return jsonvalue.Null()
		case 1:
			return jsonvalue.Bool(rapid.Bool().Draw(t, "bool"))
		case 2:
			return jsonvalue.Int(rapid.Int64().Draw(t, "int"))
		case 3:
			whole := rapid.Int32().Draw(t, "whole")
			frac := rapid.Uint16().Draw(t, "frac")
			return jsonvalue.Number(fmt.Sprintf("%d.%d", whole, frac))
		case 4:
			exp := rapid.IntRange(-400, 400).Draw(t, "exp")
			return jsonvalue.Number(fmt.Sprintf("%de%d", rapid.IntRange(1, 9).Draw(t, "mantissa"), exp))
		default:
			return jsonvalue.String(rapid.String().Draw(t, "string"))
		}
	})
}

// ValueGen draws JSON values nested at most maxDepth containers deep.
func ValueGen(maxDepth int) *rapid.Generator[jsonvalue.Value] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Value {
		return drawValue(t, maxDepth)
	})
}

// ContainerGen draws an object or array root.
func ContainerGen(maxDepth int) *rapid.Generator[jsonvalue.Value] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Value {
		if maxDepth < 1 {
			maxDepth = 1
		}
		return drawContainer(t, maxDepth)
	})
}

func drawValue(t *rapid.T, depth int) jsonvalue.Value {
	if depth <= 0 || rapid.IntRange(0, 2).Draw(t, "isContainer") == 0 {
		return ScalarGen().Draw(t, "scalar")
	}
	return drawContainer(t, depth)
}

func drawContainer(t *rapid.T, depth int) jsonvalue.Value {
	n := rapid.IntRange(0, 4).Draw(t, "width")
	if rapid.Bool().Draw(t, "isObject") {
		members := make([]jsonvalue.Member, n)
		for i := range members {
			key := rapid.StringN(0, 6, -1).Draw(t, "key")
			members[i] = jsonvalue.M(key, drawValue(t, depth-1))
		}
		return jsonvalue.Object(members...)
	}
	elems := make([]jsonvalue.Value, n)
	for i := range elems {
		elems[i] = drawValue(t, depth-1)
	}
	return jsonvalue.Array(elems...)
}
