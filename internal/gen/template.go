package gen

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"versiongen/internal/common"
)

// header is the first line of every generated file. The analyzer recognises
// it to skip earlier output when reloading a package.
const header = "// Code generated by " + common.GeneratedBy + ". DO NOT EDIT."

func templateFuncs() template.FuncMap {
	funcMap := sprig.TxtFuncMap()
	funcMap["structTag"] = structTag
	funcMap["header"] = func() string { return header }

	return funcMap
}

// structTag renders a struct tag literal, preferring a raw string.
func structTag(tag string) string {
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}

	return "`" + tag + "`"
}

var fileTemplate = template.Must(template.New("file").Funcs(templateFuncs()).Parse(`{{header}}

package {{.PackageName}}
{{if .Imports}}
import (
{{range $i, $group := .Imports}}{{if $i}}
{{end}}{{range $group}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}}{{end}})
{{end}}
{{- range .Bundles}}
{{template "bundle" .}}
{{- end}}
{{define "bundle"}}
{{- if .Flatten}}
{{if .Comments}}// {{.Inner}} is {{.Name}} without its methods.
{{end}}type {{.Inner}}{{.TypeParams}} {{.Type}}
{{end}}
{{if .Comments}}// {{.Wrapper}} is the version {{.Version}} form of {{.Name}}.
{{end}}type {{.Wrapper}}{{.TypeParams}} struct {
{{range .Fields}}	{{if not .Embedded}}{{.Name}} {{end}}{{.Type}}{{with .Tag}} {{structTag .}}{{end}}
{{end}}}

{{if .Comments}}// {{.Constructor}} converts {{.Recv}} to {{.Wrapper}}, stamped with version {{.Version}}.
{{end}}func {{.Constructor}}{{.TypeParams}}({{.Recv}} {{.Type}}) {{.WrapperType}} {
{{- if .Flatten}}
	return {{.WrapperType}}{ {{- .VersionField}}: {{.Version}}, {{.Inner}}: {{.InnerType}}({{.Recv}})}
{{- else}}
	var {{.WRecv}} {{.WrapperType}}
{{range .Forward}}	{{$.WRecv}}.{{.Target}} = {{if .Source}}{{$.Recv}}.{{.Source}}{{else}}{{$.Version}}{{end}}
{{end}}
	return {{.WRecv}}
{{- end}}
}

{{if .Comments}}// ToVersioned converts {{.Recv}} to {{.Wrapper}}.
{{end}}func ({{.Recv}} {{.Type}}) ToVersioned() {{.WrapperType}} {
	return {{.Constructor}}({{.Recv}})
}

{{if .Comments}}// Unversioned converts {{.WRecv}} back to {{.Name}}, dropping the version tag.
{{end}}func ({{.WRecv}} {{.WrapperType}}) Unversioned() {{.Type}} {
{{- if .Flatten}}
	return {{.Type}}({{.WRecv}}.{{.Inner}})
{{- else}}
	var {{.Recv}} {{.Type}}
{{range .Backward}}	{{$.Recv}}.{{.Target}} = {{$.WRecv}}.{{.Source}}
{{end}}
	return {{.Recv}}
{{- end}}
}

{{if .Comments}}// SchemaVersion returns the version tag carried by {{.WRecv}}.
{{end}}func ({{.WRecv}} {{.WrapperType}}) SchemaVersion() uint8 {
	return {{.WRecv}}.{{.VersionField}}
}
{{range .Codecs}}
{{if $.Comments}}// {{.Marshal}} encodes {{$.Recv}} as {{$.Wrapper}}.
{{end}}{{if .Node}}func ({{$.Recv}} {{$.Type}}) {{.Marshal}}() (any, error) {
	return {{$.Constructor}}({{$.Recv}}), nil
}
{{else}}func ({{$.Recv}} {{$.Type}}) {{.Marshal}}() ([]byte, error) {
	return {{.Pkg}}.Marshal({{$.Constructor}}({{$.Recv}}))
}
{{end}}
{{if $.Comments}}// {{.Unmarshal}} decodes {{upper .Name}} written as {{$.Wrapper}} into {{$.Recv}}.
{{end}}{{if .Node}}func ({{$.Recv}} *{{$.Type}}) {{.Unmarshal}}(value *{{.Pkg}}.Node) error {
	var {{$.WRecv}} {{$.WrapperType}}
	if err := value.Decode(&{{$.WRecv}}); err != nil {
		return err
	}
{{else}}func ({{$.Recv}} *{{$.Type}}) {{.Unmarshal}}(data []byte) error {
	var {{$.WRecv}} {{$.WrapperType}}
	if err := {{.Pkg}}.Unmarshal(data, &{{$.WRecv}}); err != nil {
		return err
	}
{{end}}
	*{{$.Recv}} = {{$.WRecv}}.Unversioned()

	return nil
}
{{end}}
{{- if .Versioned}}
var (
	_ {{.Versioned}}.Wrapper[{{.Type}}] = {{.WrapperType}}{}
	_ {{.Versioned}}.Source[{{.WrapperType}}] = {{.Type}}{}
)
{{end}}
{{- end}}
`))
