package offline

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

const offlineMarkdown = `# Você está offline

Não foi possível carregar esta página agora.
Verifique sua conexão e tente novamente.

[Voltar para a EBD](/)
`

var pageTmpl = template.Must(template.New("offline").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/static/portal.css">
</head>
<body class="offline">
<main>{{.Content}}</main>
</body>
</html>
`))

var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

// RenderPage renders a Markdown document into a standalone HTML page.
func RenderPage(title string, source []byte) ([]byte, error) {
	var content bytes.Buffer
	if err := md.Convert(source, &content); err != nil {
		return nil, errors.Wrap(err, "converting markdown")
	}
	var page bytes.Buffer
	err := pageTmpl.Execute(&page, struct {
		Title   string
		Content template.HTML
	}{Title: title, Content: template.HTML(content.String())}) // raw HTML is omitted by goldmark
	if err != nil {
		return nil, errors.Wrap(err, "executing offline template")
	}
	return page.Bytes(), nil
}

// OfflinePage renders the page shown to navigations the network could not answer.
func OfflinePage(appName string) ([]byte, error) {
	return RenderPage(appName+" - offline", []byte(offlineMarkdown))
}
