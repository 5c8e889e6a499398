package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var tmplFS embed.FS

var indexTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"cardImage":   func(u string, placeholder bool) string { return imageSrc(u, placeholder, 400) },
	"detailImage": func(u string, placeholder bool) string { return imageSrc(u, placeholder, 800) },
	"inc":         func(i int) int { return i + 1 },
}).ParseFS(tmplFS, "templates/index.html"))
