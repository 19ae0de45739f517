package namespace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/surbind/pkg/parser"
)

// sig builds a signature from a qualified name and origin.
func sig(name, origin string) *parser.FunctionSignature {
	return &parser.FunctionSignature{
		Name:   strings.Split(strings.TrimPrefix(name, parser.NamespacePrefix), "::"),
		Origin: origin,
	}
}

func TestBuild_FlatAndNested(t *testing.T) {
	root, err := Build([]*parser.FunctionSignature{
		sig("fn::greet", "a.surql"),
		sig("fn::util::strings::upper", "b.surql"),
		sig("fn::util::strings::lower", "b.surql"),
		sig("fn::util::clamp", "c.surql"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, root.Count())
	require.NotNil(t, root.Function("greet"))

	util := root.Child("util")
	require.NotNil(t, util)
	assert.Equal(t, 3, util.Count())
	require.NotNil(t, util.Function("clamp"))

	strs := util.Child("strings")
	require.NotNil(t, strs)
	require.NotNil(t, strs.Function("upper"))
	require.NotNil(t, strs.Function("lower"))
}

func TestBuild_InsertionOrder(t *testing.T) {
	root, err := Build([]*parser.FunctionSignature{
		sig("fn::zeta", "x.surql"),
		sig("fn::alpha", "x.surql"),
		sig("fn::m::second", "x.surql"),
		sig("fn::a::third", "x.surql"),
	})
	require.NoError(t, err)

	funcs := root.Functions()
	require.Len(t, funcs, 2)
	assert.Equal(t, "zeta", funcs[0].Leaf())
	assert.Equal(t, "alpha", funcs[1].Leaf())

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "m", children[0].Name)
	assert.Equal(t, "a", children[1].Name)
}

func TestBuild_DuplicateFunction(t *testing.T) {
	_, err := Build([]*parser.FunctionSignature{
		sig("fn::greet", "first.surql"),
		sig("fn::greet", "second.surql"),
	})
	require.Error(t, err)

	var dupErr *DuplicateFunctionError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "fn::greet", dupErr.Name)
	assert.Equal(t, "first.surql", dupErr.First)
	assert.Equal(t, "second.surql", dupErr.Second)
}

func TestBuild_AmbiguousPath(t *testing.T) {
	t.Run("function then module", func(t *testing.T) {
		_, err := Build([]*parser.FunctionSignature{
			sig("fn::util", "a.surql"),
			sig("fn::util::upper", "a.surql"),
		})
		var ambErr *AmbiguousPathError
		require.ErrorAs(t, err, &ambErr)
		assert.Equal(t, "fn::util::upper", ambErr.Name)
		assert.Equal(t, "util", ambErr.Segment)
	})

	t.Run("module then function", func(t *testing.T) {
		_, err := Build([]*parser.FunctionSignature{
			sig("fn::util::upper", "a.surql"),
			sig("fn::util", "a.surql"),
		})
		var ambErr *AmbiguousPathError
		require.ErrorAs(t, err, &ambErr)
		assert.Equal(t, "fn::util", ambErr.Name)
		assert.Equal(t, "util", ambErr.Segment)
	})
}

func TestWalk_OrderAndPaths(t *testing.T) {
	root, err := Build([]*parser.FunctionSignature{
		sig("fn::top", "x.surql"),
		sig("fn::geo::dist", "x.surql"),
		sig("fn::geo::shape::area", "x.surql"),
		sig("fn::auth::login", "x.surql"),
	})
	require.NoError(t, err)

	type visit struct {
		path []string
		leaf string
	}
	var visits []visit
	root.Walk(func(path []string, s *parser.FunctionSignature) {
		visits = append(visits, visit{path: path, leaf: s.Leaf()})
	})

	require.Len(t, visits, 4)
	assert.Equal(t, visit{path: nil, leaf: "top"}, visits[0])
	assert.Equal(t, visit{path: []string{"geo"}, leaf: "dist"}, visits[1])
	assert.Equal(t, visit{path: []string{"geo", "shape"}, leaf: "area"}, visits[2])
	assert.Equal(t, visit{path: []string{"auth"}, leaf: "login"}, visits[3])
}

func TestBuild_Empty(t *testing.T) {
	root, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, root.Count())
	assert.Empty(t, root.Children())
	assert.Empty(t, root.Functions())
}
