// Package gen turns yaml model definitions into Go source declaring
// simpleorm columns and model constructors.
package gen

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"
)

const (
	ormPkg    = "github.com/m-housh/simpleorm"
	columnPkg = "github.com/m-housh/simpleorm/schema/column"
	connPkg   = "github.com/m-housh/simpleorm/conn"
)

// Spec is the root of a yaml model definition file.
//
//	package: models
//	models:
//	  - name: User
//	    table: users
//	    columns:
//	      - {name: id, key: _id, type: uuid, primary_key: true, default: uuid}
//	      - {name: name, type: string}
//	      - {name: email, type: string, size: 255}
type Spec struct {
	Package string  `yaml:"package"`
	Models  []Model `yaml:"models"`
}

// Model declares one model.
type Model struct {
	Name    string   `yaml:"name"`
	Table   string   `yaml:"table"`
	Columns []Column `yaml:"columns"`
}

// Column declares one column of a model.
type Column struct {
	Name       string `yaml:"name"`
	Key        string `yaml:"key"`
	Type       string `yaml:"type"`
	Size       int    `yaml:"size"`
	PrimaryKey bool   `yaml:"primary_key"`
	Default    any    `yaml:"default"`
}

// constructors maps yaml type names to column package constructors.
var constructors = map[string]string{
	"string":  "String",
	"text":    "String",
	"int":     "Int",
	"int64":   "Int64",
	"float":   "Float",
	"numeric": "Numeric",
	"bool":    "Bool",
	"time":    "Time",
	"date":    "Date",
	"uuid":    "UUID",
	"json":    "JSON",
	"bytes":   "Bytes",
	"serial":  "Serial",
}

// Load parses a yaml model definition file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("gen: parse %s: %w", path, err)
	}
	if spec.Package == "" {
		return nil, fmt.Errorf("gen: %s: missing package", path)
	}
	if len(spec.Models) == 0 {
		return nil, fmt.Errorf("gen: %s: no models declared", path)
	}
	return &spec, nil
}

// Generate renders the Go source for a spec, formatted and with
// imports resolved.
func Generate(spec *Spec) ([]byte, error) {
	f := jen.NewFile(spec.Package)
	f.HeaderComment("Code generated by simpleormgen. DO NOT EDIT.")

	for _, m := range spec.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("gen: model without a name")
		}
		cols, err := columnExprs(m)
		if err != nil {
			return nil, err
		}
		name := Pascal(m.Name)

		f.Commentf("%sColumns returns the column declarations of the %s model.", name, m.Name)
		f.Func().Id(name+"Columns").Params().Index().Op("*").Qual(columnPkg, "Column").Block(
			jen.Return(jen.Index().Op("*").Qual(columnPkg, "Column").Values(cols...)),
		)

		cfg := jen.Dict{
			jen.Id("Name"):    jen.Lit(m.Name),
			jen.Id("Manager"): jen.Id("mgr"),
		}
		if m.Table != "" {
			cfg[jen.Id("Table")] = jen.Lit(m.Table)
		}
		f.Commentf("New%s defines the %s model on the given manager.", name, m.Name)
		f.Func().Id("New"+name).Params(
			jen.Id("mgr").Qual(connPkg, "Manager"),
		).Params(
			jen.Op("*").Qual(ormPkg, "Model"), jen.Error(),
		).Block(
			jen.Return(jen.Qual(ormPkg, "Define").Call(
				jen.Qual(ormPkg, "Config").Values(cfg),
				jen.Id(name+"Columns").Call().Op("..."),
			)),
		)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: render: %w", err)
	}
	return imports.Process("", buf.Bytes(), nil)
}

// Run loads a spec and writes the generated source to out.
func Run(in, out string) error {
	spec, err := Load(in)
	if err != nil {
		return err
	}
	src, err := Generate(spec)
	if err != nil {
		return err
	}
	return os.WriteFile(out, src, 0o644)
}

// columnExprs renders the builder chain for every column of a model.
func columnExprs(m Model) ([]jen.Code, error) {
	exprs := make([]jen.Code, 0, len(m.Columns))
	for _, c := range m.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("gen: model %s: column without a name", m.Name)
		}
		ctor := "New"
		if c.Type != "" {
			var ok bool
			if ctor, ok = constructors[c.Type]; !ok {
				return nil, fmt.Errorf("gen: model %s: unknown column type %q", m.Name, c.Type)
			}
		}
		expr := jen.Qual(columnPkg, ctor).Call(jen.Lit(c.Name))
		if c.Key != "" && c.Key != c.Name {
			expr = expr.Dot("Key").Call(jen.Lit(c.Key))
		}
		if c.Size > 0 {
			expr = expr.Dot("Size").Call(jen.Lit(c.Size))
		}
		if c.PrimaryKey {
			expr = expr.Dot("PrimaryKey").Call()
		}
		switch d := c.Default.(type) {
		case nil:
		case string:
			if d == "uuid" {
				expr = expr.Dot("DefaultFunc").Call(jen.Qual(columnPkg, "NewUUID"))
			} else {
				expr = expr.Dot("Default").Call(jen.Lit(d))
			}
		default:
			expr = expr.Dot("Default").Call(jen.Lit(d))
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// Pascal converts a snake_case name to PascalCase. Names that already
// carry upper-case letters pass through segment-wise untouched.
func Pascal(s string) string {
	title := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if p == strings.ToLower(p) {
			parts[i] = cases.Title(language.Und).String(p)
		} else {
			parts[i] = title.String(p)
		}
	}
	return strings.Join(parts, "")
}
