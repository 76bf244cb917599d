package server

import "html/template"

// pageTemplate is the whole GUI: upload control, protein and domain
// multi-selects, shape selector, per-domain color pickers, a draw
// button, and the rendered figure inline.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>protplot</title>
<style>
  body { font-family: sans-serif; margin: 2rem auto; max-width: 70rem; color: #222; }
  h1 { font-size: 1.4rem; }
  fieldset { border: 1px solid #ccc; border-radius: 4px; margin-bottom: 1rem; }
  legend { font-weight: bold; }
  .selects { display: flex; gap: 2rem; flex-wrap: wrap; }
  select[multiple] { min-width: 14rem; min-height: 8rem; }
  .colors label { display: inline-flex; align-items: center; gap: 0.4rem; margin-right: 1.2rem; }
  .error { color: #b00020; }
  .info { color: #555; }
  .figure { border: 1px solid #eee; margin-top: 1rem; overflow-x: auto; }
</style>
</head>
<body>
<h1>protplot — protein domain tracks</h1>

{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Message}}<p class="info">{{.Message}}</p>{{end}}

<form method="post" action="/upload" enctype="multipart/form-data">
  <fieldset>
    <legend>Feature file</legend>
    {{if .FileName}}<p>Loaded: <strong>{{.FileName}}</strong></p>{{end}}
    <input type="file" name="file" accept=".gff,.gff3,.txt">
    <button type="submit">Upload</button>
  </fieldset>
</form>

{{if .FileName}}
<form method="post" action="/render">
  <fieldset>
    <legend>Selection</legend>
    <div class="selects">
      <label>Proteins<br>
        <select name="protein" multiple>
          {{range .Proteins}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>{{end}}
        </select>
      </label>
      <label>Domains<br>
        <select name="domain" multiple>
          {{range .Domains}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>{{end}}
        </select>
      </label>
      <label>Shape<br>
        <select name="shape">
          {{range .Shapes}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
        </select>
      </label>
    </div>
    {{if .ColoredDomains}}
    <div class="colors">
      <p>Domain colors:</p>
      {{range .ColoredDomains}}
      <label>{{.Name}}
        <input type="color" name="color_{{.Name}}" value="{{.Color}}">
      </label>
      {{end}}
    </div>
    {{end}}
    <p><button type="submit">Draw tracks</button></p>
  </fieldset>
</form>
{{end}}

{{if .SVG}}<div class="figure">{{.SVG}}</div>{{end}}
</body>
</html>
`))

// optionView is one entry in a multi-select.
type optionView struct {
	Name     string
	Selected bool
}

// shapeView is one entry in the shape selector.
type shapeView struct {
	Value    string
	Label    string
	Selected bool
}

// colorView is one per-domain color picker, shown once the domain has
// an assigned color.
type colorView struct {
	Name  string
	Color string
}

// pageData feeds pageTemplate.
type pageData struct {
	FileName       string
	Error          string
	Message        string
	Proteins       []optionView
	Domains        []optionView
	Shapes         []shapeView
	ColoredDomains []colorView
	SVG            template.HTML
}
