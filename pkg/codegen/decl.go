package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tweak/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultWindow titles the window of standalone vars when the file names none.
const DefaultWindow = "Tweaks"

// File is a parsed declaration file.
type File struct {
	Package string  `yaml:"package"`
	Window  string  `yaml:"window"`
	Groups  []Group `yaml:"groups"`
	Vars    []Var   `yaml:"vars"`
}

// Group declares one tweak group.
type Group struct {
	Name string `yaml:"name"`
	Vars []Var  `yaml:"vars"`
}

// Var declares one variable. Type is kept as written; Kind is set by Validate.
type Var struct {
	Name string      `mapstructure:"name"`
	Type string      `mapstructure:"type"`
	Init string      `mapstructure:"init"`
	Kind domain.Kind `mapstructure:"-"`
}

// UnmarshalYAML accepts the shorthand `name: type = init` (init defaults to
// zero) and the mapping form `{name: ..., type: ..., init: ...}`.
func (v *Var) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: variable must be a mapping: %w", node.Line, err)
	}

	if name, spec, ok := shorthand(raw); ok {
		typ, init, _ := strings.Cut(spec, "=")
		*v = Var{Name: name, Type: strings.TrimSpace(typ), Init: strings.TrimSpace(init)}
		return nil
	}

	var out Var
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = out
	return nil
}

// shorthand recognizes a single-entry mapping whose key is not a field of the
// mapping form.
func shorthand(raw map[string]any) (name, spec string, ok bool) {
	if len(raw) != 1 {
		return "", "", false
	}
	for k, val := range raw {
		switch k {
		case "name", "type", "init":
			return "", "", false
		}
		switch val := val.(type) {
		case string:
			return k, val, true
		case nil:
			return k, "", true
		default:
			return k, fmt.Sprint(val), true
		}
	}
	return "", "", false
}

// Parse decodes a declaration file. It does not validate it.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty declaration file")
		}
		return nil, fmt.Errorf("failed to parse declarations: %w", err)
	}
	return &f, nil
}

// varsName is the CamelCase suffix of ShowVars, reserved when the file
// declares standalone vars.
const varsName = "Vars"

// Validate checks every declaration, resolves variable kinds and normalizes
// initial values. All failures are returned together.
func (f *File) Validate() error {
	var errs []error
	fail := func(key, reason string, sentinel error) {
		errs = append(errs, &domain.ValidationError{Key: key, Reason: reason, Err: sentinel})
	}

	if !isGoIdentifier(f.Package) {
		fail("package", fmt.Sprintf("%q is not a valid package name", f.Package), domain.ErrInvalidIdentifier)
	}
	if len(f.Groups) == 0 && len(f.Vars) == 0 {
		fail("file", "declares no groups or vars", domain.ErrEmptyGroup)
	}

	// Generated identifiers must not collide either.
	groupNames := make(map[string]string)
	for gi := range f.Groups {
		g := &f.Groups[gi]
		key := fmt.Sprintf("groups[%d]", gi)
		if g.Name != "" {
			key = g.Name
		}
		switch {
		case !domain.ValidIdentifier(g.Name) || !isGoIdentifier(domain.CamelCase(g.Name)):
			fail(key, fmt.Sprintf("group name %q is not an identifier", g.Name), domain.ErrInvalidIdentifier)
		case len(f.Vars) > 0 && domain.CamelCase(g.Name) == varsName:
			fail(key, fmt.Sprintf("group name %q collides with ShowVars, the function of the standalone vars", g.Name), domain.ErrDuplicateIdentifier)
		case groupNames[domain.CamelCase(g.Name)] != "":
			fail(key, fmt.Sprintf("group name collides with %q", groupNames[domain.CamelCase(g.Name)]), domain.ErrDuplicateIdentifier)
		default:
			groupNames[domain.CamelCase(g.Name)] = g.Name
		}
		if len(g.Vars) == 0 {
			fail(key, "group declares no vars", domain.ErrEmptyGroup)
		}
		errs = append(errs, validateVars(key, g.Vars)...)
	}
	errs = append(errs, validateVars("vars", f.Vars)...)

	return domain.Join(errs)
}

func validateVars(scope string, vars []Var) []error {
	var errs []error
	fail := func(key, reason string, sentinel error) {
		errs = append(errs, &domain.ValidationError{Key: key, Reason: reason, Err: sentinel})
	}

	fields := make(map[string]string)
	for i := range vars {
		v := &vars[i]
		key := fmt.Sprintf("%s[%d]", scope, i)
		if v.Name != "" {
			key = scope + "." + v.Name
		}

		switch {
		case !domain.ValidIdentifier(v.Name) || !isGoIdentifier(domain.CamelCase(v.Name)):
			fail(key, fmt.Sprintf("variable name %q is not an identifier", v.Name), domain.ErrInvalidIdentifier)
		case fields[domain.CamelCase(v.Name)] != "":
			fail(key, fmt.Sprintf("variable collides with %q", fields[domain.CamelCase(v.Name)]), domain.ErrDuplicateIdentifier)
		default:
			fields[domain.CamelCase(v.Name)] = v.Name
		}

		kind, err := domain.ParseKind(v.Type)
		if err != nil {
			fail(key, fmt.Sprintf("type %q is not an integer or floating-point type", v.Type), domain.ErrUnsupportedType)
			continue
		}
		v.Kind = kind

		init := v.Init
		if init == "" {
			init = "0"
		}
		lit, err := kind.FormatLiteral(init)
		if err != nil {
			fail(key, fmt.Sprintf("initial value %q is not a valid %s", init, kind), domain.ErrInvalidLiteral)
			continue
		}
		v.Init = lit
	}
	return errs
}
