package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
)

// Minimal stand-ins for the packages generated code imports. They mirror the
// signatures of the real API so generated files can be type-checked without
// building the module.
var stubSources = []struct {
	path, src string
}{
	{"sync", `package sync

func OnceValue[T any](f func() T) func() T { return f }
`},
	{PortsImport, `package ports

type UI interface{}

type Context interface {
	Window(title string, body func(UI))
}
`},
	{TweakImport, `package tweak

import "github.com/aretw0/tweak/pkg/ports"

type Panel struct{}

func Default() *Panel { return nil }

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

type Tweakable interface {
	tweakCell()
}

type Group[T any] struct{ v T }

func MustGroup[T any](p *Panel, id string, init T) *Group[T] { return &Group[T]{v: init} }

func (g *Group[T]) Show(ctx ports.Context) T { return g.v }
func (g *Group[T]) tweakCell()               {}

type Var[N Numeric] struct{ v N }

func MustVar[N Numeric](p *Panel, name string, init N) *Var[N] { return &Var[N]{v: init} }

func (v *Var[N]) Value() N   { return v.v }
func (v *Var[N]) tweakCell() {}

func Window(ctx ports.Context, title string, items ...Tweakable) {}
`},
}

type stubImporter map[string]*types.Package

func (imp stubImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := imp[path]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("no stub for %q", path)
}

func checkPackage(fset *token.FileSet, imp stubImporter, path, name string, src []byte) (*types.Package, error) {
	file, err := parser.ParseFile(fset, name, src, 0)
	if err != nil {
		return nil, err
	}
	conf := types.Config{Importer: imp}
	return conf.Check(path, fset, []*ast.File{file}, nil)
}

// typeCheck reports every compile error in a generated file.
func typeCheck(t *testing.T, src []byte) error {
	t.Helper()
	fset := token.NewFileSet()
	imp := stubImporter{}
	for _, stub := range stubSources {
		pkg, err := checkPackage(fset, imp, stub.path, stub.path+"/stub.go", []byte(stub.src))
		require.NoError(t, err, "stub %s", stub.path)
		imp[stub.path] = pkg
	}
	_, err := checkPackage(fset, imp, "example.com/hud", "hud_tweak.go", src)
	return err
}
