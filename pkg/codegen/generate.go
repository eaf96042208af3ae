package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"text/template"

	"github.com/aretw0/tweak/pkg/domain"
)

const (
	// TweakImport is the import path of the runtime the generated code calls.
	TweakImport = "github.com/aretw0/tweak"
	// PortsImport is the import path of the host interfaces.
	PortsImport = "github.com/aretw0/tweak/pkg/ports"
)

var source = template.Must(template.New("source").Funcs(template.FuncMap{
	"camel": domain.CamelCase,
}).Parse(`// Code generated by tweak gen. DO NOT EDIT.

package {{.Package}}

import (
	"sync"

	tweak "{{.TweakImport}}"
	"{{.PortsImport}}"
)
{{range .Groups}}{{$camel := camel .Name}}
// TweakGroup{{$camel}} is the record of the {{.Name}} tweak group.
type TweakGroup{{$camel}} struct {
{{- range .Vars}}
	{{camel .Name}} {{.Kind}} ` + "`" + `tweak:"{{.Name}}"` + "`" + `
{{- end}}
}

var tweakGroup{{$camel}} = sync.OnceValue(func() *tweak.Group[TweakGroup{{$camel}}] {
	return tweak.MustGroup(tweak.Default(), "{{.Name}}", TweakGroup{{$camel}}{
{{- range .Vars}}
		{{camel .Name}}: {{.Init}},
{{- end}}
	})
})

// Show{{$camel}} renders the {{.Name}} window and returns its values after
// this frame's edits.
func Show{{$camel}}(ctx ports.Context) TweakGroup{{$camel}} {
	return tweakGroup{{$camel}}().Show(ctx)
}
{{end}}
{{- if .Vars}}
{{- range .Vars}}{{$camel := camel .Name}}
var tweakVar{{$camel}} = sync.OnceValue(func() *tweak.Var[{{.Kind}}] {
	return tweak.MustVar(tweak.Default(), "{{.Name}}", {{.Kind}}({{.Init}}))
})

// TweakVar{{$camel}} returns the {{.Name}} variable.
func TweakVar{{$camel}}() *tweak.Var[{{.Kind}}] {
	return tweakVar{{$camel}}()
}
{{end}}
// ShowVars renders every standalone variable in the {{printf "%q" .Window}} window.
func ShowVars(ctx ports.Context) {
	tweak.Window(ctx, {{printf "%q" .Window}},
{{- range .Vars}}
		tweakVar{{camel .Name}}(),
{{- end}}
	)
}
{{- end}}
`))

type sourceData struct {
	*File
	TweakImport string
	PortsImport string
}

// Generate validates f and returns gofmt'd Go source declaring its groups and vars.
func Generate(f *File) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.Window == "" {
		f.Window = DefaultWindow
	}

	var buf bytes.Buffer
	data := sourceData{File: f, TweakImport: TweakImport, PortsImport: PortsImport}
	if err := source.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render source: %w", err)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return out, nil
}

// GenerateFrom parses the declarations in r and writes the generated source to w.
func GenerateFrom(r io.Reader, w io.Writer) error {
	f, err := Parse(r)
	if err != nil {
		return err
	}
	out, err := Generate(f)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func isGoIdentifier(s string) bool {
	return token.IsIdentifier(s) && s != "_"
}
