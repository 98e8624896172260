package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
	"truncate": func(s string, n int) string {
		if len(s) <= n {
			return s
		}
		return s[:n] + "..."
	},
	"typeBadge": func(docType string) string {
		switch docType {
		case "workflow":
			return "bg-indigo-100 text-indigo-800"
		case "tasks":
			return "bg-purple-100 text-purple-800"
		case "mixed":
			return "bg-blue-100 text-blue-800"
		default:
			return "bg-gray-100 text-gray-800"
		}
	},
	"severityBadge": func(severity string) string {
		if severity == "warning" {
			return "bg-yellow-100 text-yellow-800"
		}
		return "bg-red-100 text-red-800"
	},
	"callKindBadge": func(kind string) string {
		if kind == "workflow" {
			return "bg-sky-100 text-sky-800"
		}
		return "bg-violet-100 text-violet-800"
	},
	"anchor": func(name string) string {
		return "task-" + name
	},
	"lower": strings.ToLower,
}

// renderTemplate renders a named page template inside the shared layout.
func renderTemplate(w io.Writer, name string, data map[string]any) error {
	content, ok := templates[name]
	if !ok {
		return fmt.Errorf("template not found: %s", name)
	}
	layout, ok := templates["layout"]
	if !ok {
		return fmt.Errorf("layout template not found")
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).Parse(layout)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	if _, err := tmpl.New("content").Parse(content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}
	return tmpl.Execute(w, data)
}

// templates holds all page content. The site is fully static, so every page
// resolves assets through .Root, the relative prefix back to the site root.
var templates = map[string]string{
	"layout": `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <link rel="stylesheet" href="{{.Root}}static/site.css">
    {{if .HasGraph}}
    <script type="module">
        import mermaid from 'https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs';
        mermaid.initialize({ startOnLoad: true, securityLevel: 'loose', theme: 'default' });
    </script>
    {{end}}
</head>
<body class="bg-gray-50 min-h-screen">
    <nav class="bg-white shadow-sm border-b">
        <div class="max-w-6xl mx-auto px-4 sm:px-6 lg:px-8">
            <div class="flex justify-between h-14">
                <div class="flex items-center space-x-8">
                    <a href="{{.Root}}index.html" class="text-xl font-bold text-indigo-600">{{.SiteName}}</a>
                    <a href="{{.Root}}index.html" class="text-sm text-gray-500 hover:text-gray-700">Documents</a>
                    <a href="{{.Root}}docker-images.html" class="text-sm text-gray-500 hover:text-gray-700">Docker Images</a>
                </div>
                <div class="flex items-center text-xs text-gray-400">generated {{.GeneratedAt}}</div>
            </div>
        </div>
    </nav>
    <main class="max-w-6xl mx-auto py-6 px-4 sm:px-6 lg:px-8">
        {{template "content" .}}
    </main>
</body>
</html>`,

	"index": `{{define "content"}}
<div class="mb-8">
    <h1 class="text-2xl font-semibold text-gray-900">{{.SiteName}}</h1>
    <p class="mt-1 text-sm text-gray-500">
        {{comma .Stats.Documents}} documents, {{comma .Stats.Workflows}} workflows,
        {{comma .Stats.Tasks}} tasks
    </p>
</div>

{{if .Errors}}
<div class="mb-8 bg-white shadow rounded-lg">
    <div class="px-4 py-4 border-b border-gray-200">
        <h2 class="text-lg font-medium text-gray-900">
            Parse problems ({{len .Errors}})
        </h2>
    </div>
    <ul class="divide-y divide-gray-200">
        {{range .Errors}}
        <li class="px-4 py-3">
            <div class="flex items-center justify-between">
                <span class="text-sm font-mono text-gray-900">{{.RelativePath}}</span>
                <span class="inline-flex items-center px-2 py-0.5 rounded text-xs font-medium {{severityBadge .Severity}}">{{.Type}}</span>
            </div>
            <p class="mt-1 text-sm text-gray-500">{{.ShortMessage}}{{with .Location}} ({{.}}){{end}}</p>
        </li>
        {{end}}
    </ul>
</div>
{{end}}

<div class="bg-white shadow overflow-hidden sm:rounded-md">
    <ul class="divide-y divide-gray-200">
        {{range .Entries}}
        <li>
            <a href="{{.Link}}" class="block hover:bg-gray-50 px-4 py-4">
                <div class="flex items-center justify-between">
                    <div class="flex items-center">
                        <p class="text-sm font-medium text-indigo-600">{{.Name}}</p>
                        <span class="ml-2 inline-flex items-center px-2 py-0.5 rounded text-xs font-medium {{typeBadge .Type}}">{{.Type}}</span>
                        {{if .External}}
                        <span class="ml-2 inline-flex items-center px-2 py-0.5 rounded text-xs font-medium bg-amber-100 text-amber-800">external</span>
                        {{end}}
                        {{if .CallerCount}}
                        <span class="ml-2 text-xs text-gray-500">used by {{.CallerCount}} {{plural .CallerCount "workflow" "workflows"}}</span>
                        {{end}}
                    </div>
                    <span class="text-xs font-mono text-gray-400">{{.Path}}</span>
                </div>
                {{with .Description}}
                <p class="mt-1 text-sm text-gray-500">{{truncate . 160}}</p>
                {{end}}
            </a>
        </li>
        {{else}}
        <li class="px-4 py-8 text-center text-gray-500">No WDL documents found</li>
        {{end}}
    </ul>
</div>
{{end}}`,

	"document": `{{define "content"}}
<div class="mb-6">
    <div class="flex items-center justify-between">
        <div>
            <h1 class="text-2xl font-semibold text-gray-900">{{.Doc.Name}}</h1>
            <p class="mt-1 text-xs font-mono text-gray-400">{{.Doc.RelativePath}} &middot; WDL {{.Doc.Version}}</p>
            {{with .Doc.Description}}<p class="mt-2 text-sm text-gray-600">{{.}}</p>{{end}}
        </div>
        {{if .GraphLink}}
        <a href="{{.Root}}{{.GraphLink}}" class="inline-flex items-center px-3 py-1 border border-gray-300 text-sm font-medium rounded text-gray-700 bg-white hover:bg-gray-50">
            Standalone graph
        </a>
        {{end}}
    </div>
</div>

{{if .UsedBy}}
<div class="mb-6 rounded-md bg-sky-50 border border-sky-200 p-4">
    <h2 class="text-sm font-medium text-sky-900">
        Used as subworkflow by {{len .UsedBy}} {{plural (len .UsedBy) "workflow" "workflows"}}
    </h2>
    <ul class="mt-2 space-y-1">
        {{range .UsedBy}}
        <li class="text-sm">
            <a href="{{$.Root}}{{.Link}}" class="text-sky-700 hover:text-sky-900 font-medium">{{.Name}}</a>
            <span class="ml-1 text-xs font-mono text-sky-600">{{.Path}}</span>
        </li>
        {{end}}
    </ul>
</div>
{{end}}

{{with .Doc.Workflow}}
<div class="bg-white shadow sm:rounded-lg mb-6">
    <div class="px-4 py-4 border-b border-gray-200">
        <h2 class="text-lg font-medium text-gray-900">Workflow {{.Name}}</h2>
    </div>

    {{if .HasGraph}}
    <div class="border-b border-gray-200 px-4 py-4 overflow-x-auto">
        <pre class="mermaid">{{.Graph}}</pre>
    </div>
    {{end}}

    {{if .Inputs}}
    <div class="px-4 py-4 border-b border-gray-200">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Inputs</h3>
        <table class="min-w-full divide-y divide-gray-200 text-sm">
            <thead>
                <tr class="text-left text-xs text-gray-500 uppercase">
                    <th class="py-2 pr-4">Name</th><th class="py-2 pr-4">Type</th><th class="py-2">Default</th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-100">
                {{range .Inputs}}
                <tr>
                    <td class="py-2 pr-4 font-medium text-gray-900">{{.Name}}</td>
                    <td class="py-2 pr-4 font-mono text-gray-500">{{.Type}}</td>
                    <td class="py-2 font-mono text-gray-500">{{if .HasDefault}}{{.DefaultString}}{{else}}&mdash;{{end}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{end}}

    {{if .HasCalls}}
    <div class="px-4 py-4 border-b border-gray-200">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Calls</h3>
        <table class="min-w-full divide-y divide-gray-200 text-sm">
            <thead>
                <tr class="text-left text-xs text-gray-500 uppercase">
                    <th class="py-2 pr-4">Name</th><th class="py-2 pr-4">Target</th><th class="py-2 pr-4">Kind</th><th class="py-2">Inputs</th>
                </tr>
            </thead>
            <tbody class="divide-y divide-gray-100">
                {{range .Calls}}
                <tr>
                    <td class="py-2 pr-4 font-medium text-gray-900">{{.Name}}</td>
                    <td class="py-2 pr-4">
                        <a href="{{if .IsLocal}}{{.LinkTarget}}{{else}}{{$.Root}}{{.LinkTarget}}{{end}}" class="text-indigo-600 hover:text-indigo-500 font-mono">{{.Callee}}</a>
                    </td>
                    <td class="py-2 pr-4">
                        <span class="inline-flex items-center px-2 py-0.5 rounded text-xs font-medium {{callKindBadge (printf "%s" .CallType)}}">{{.CallType}}</span>
                    </td>
                    <td class="py-2 font-mono text-xs text-gray-500">
                        {{range $i, $in := .Inputs}}{{if $i}}, {{end}}{{$in.Name}}={{$in.Value}}{{end}}
                    </td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{end}}

    {{if .DockerImages}}
    <div class="px-4 py-4 border-b border-gray-200">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Docker images</h3>
        <ul class="space-y-1">
            {{range .DockerImages}}
            <li class="text-sm">
                <span class="font-mono text-gray-900">{{.DisplayImage}}</span>
                {{if .Parameterized}}
                <span class="ml-1 inline-flex items-center px-2 py-0.5 rounded text-xs font-medium bg-amber-100 text-amber-800">parameterized{{with .ParameterName}}: {{.}}{{end}}</span>
                {{end}}
                <span class="ml-2 text-xs text-gray-500">{{len .TaskNames}} {{plural (len .TaskNames) "task" "tasks"}}: {{range $i, $n := .TaskNames}}{{if $i}}, {{end}}{{$n}}{{end}}</span>
            </li>
            {{end}}
        </ul>
    </div>
    {{end}}

    {{if .Outputs}}
    <div class="px-4 py-4">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Outputs</h3>
        <table class="min-w-full divide-y divide-gray-200 text-sm">
            <tbody class="divide-y divide-gray-100">
                {{range .Outputs}}
                <tr>
                    <td class="py-2 pr-4 font-medium text-gray-900">{{.Name}}</td>
                    <td class="py-2 pr-4 font-mono text-gray-500">{{.Type}}</td>
                    <td class="py-2 font-mono text-gray-500">{{.ExprText}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{end}}
</div>
{{end}}

{{if .Doc.HasImports}}
<div class="bg-white shadow sm:rounded-lg mb-6">
    <div class="px-4 py-4 border-b border-gray-200">
        <h2 class="text-lg font-medium text-gray-900">Imports</h2>
    </div>
    <ul class="divide-y divide-gray-100">
        {{range .Doc.Imports}}
        <li class="px-4 py-2 text-sm">
            <span class="font-medium text-gray-900">{{.DisplayName}}</span>
            <span class="ml-2 font-mono text-xs text-gray-500">{{.Path}}</span>
            {{if not .ResolvedPath}}<span class="ml-2 text-xs text-red-600">unresolved</span>{{end}}
        </li>
        {{end}}
    </ul>
</div>
{{end}}

{{range .Doc.Tasks}}
<div class="bg-white shadow sm:rounded-lg mb-6" id="{{anchor .Name}}">
    <div class="px-4 py-4 border-b border-gray-200">
        <h2 class="text-lg font-medium text-gray-900">Task {{.Name}}</h2>
        {{with .Description}}<p class="mt-1 text-sm text-gray-500">{{.}}</p>{{end}}
    </div>

    {{if .Inputs}}
    <div class="px-4 py-4 border-b border-gray-200">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Inputs</h3>
        <table class="min-w-full text-sm">
            <tbody class="divide-y divide-gray-100">
                {{range .Inputs}}
                <tr>
                    <td class="py-1 pr-4 font-medium text-gray-900">{{.Name}}</td>
                    <td class="py-1 pr-4 font-mono text-gray-500">{{.Type}}</td>
                    <td class="py-1 font-mono text-gray-500">{{if .HasDefault}}{{.DefaultString}}{{else}}&mdash;{{end}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{end}}

    {{if .HasCommand}}
    <div class="px-4 py-4 border-b border-gray-200">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Command</h3>
        <pre class="bg-gray-900 text-gray-100 p-4 rounded-lg overflow-x-auto text-sm"><code>{{.Command.Formatted}}</code></pre>
    </div>
    {{end}}

    {{if .HasRuntime}}
    <div class="px-4 py-4 border-b border-gray-200">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Runtime</h3>
        <table class="min-w-full text-sm">
            <tbody class="divide-y divide-gray-100">
                {{range .Runtime}}
                <tr>
                    <td class="py-1 pr-4 font-medium text-gray-900">{{.Key}}</td>
                    <td class="py-1 font-mono text-gray-500">{{.Value}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{end}}

    {{if .Outputs}}
    <div class="px-4 py-4">
        <h3 class="text-sm font-medium text-gray-700 mb-2">Outputs</h3>
        <table class="min-w-full text-sm">
            <tbody class="divide-y divide-gray-100">
                {{range .Outputs}}
                <tr>
                    <td class="py-1 pr-4 font-medium text-gray-900">{{.Name}}</td>
                    <td class="py-1 pr-4 font-mono text-gray-500">{{.Type}}</td>
                    <td class="py-1 font-mono text-gray-500">{{.ExprText}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
    {{end}}
</div>
{{end}}
{{end}}`,

	"graph": `{{define "content"}}
<div class="mb-6">
    <h1 class="text-2xl font-semibold text-gray-900">{{.Doc.Name}}</h1>
    <p class="mt-1 text-xs font-mono text-gray-400">{{.Doc.RelativePath}}</p>
</div>
<div class="bg-white shadow sm:rounded-lg px-4 py-6 overflow-x-auto">
    <pre class="mermaid">{{.Graph}}</pre>
</div>
<div class="mt-4">
    <a href="{{.Root}}{{.DocLink}}" class="text-sm text-indigo-600 hover:text-indigo-500">&larr; Back to document</a>
</div>
{{end}}`,

	"dockers": `{{define "content"}}
<div class="mb-8">
    <h1 class="text-2xl font-semibold text-gray-900">Docker Images</h1>
    <p class="mt-1 text-sm text-gray-500">{{comma (len .Images)}} distinct {{plural (len .Images) "image" "images"}} across the corpus</p>
</div>
<div class="bg-white shadow overflow-hidden sm:rounded-md">
    <ul class="divide-y divide-gray-200">
        {{range .Images}}
        <li class="px-4 py-4">
            <div class="flex items-center">
                <span class="text-sm font-mono font-medium text-gray-900">{{.Image}}</span>
                {{if .Parameterized}}
                <span class="ml-2 inline-flex items-center px-2 py-0.5 rounded text-xs font-medium bg-amber-100 text-amber-800">parameterized</span>
                {{end}}
            </div>
            <ul class="mt-2 space-y-1">
                {{range .Workflows}}
                <li class="text-sm">
                    <a href="{{.Link}}" class="text-indigo-600 hover:text-indigo-500">{{.Name}}</a>
                    <span class="ml-2 text-xs text-gray-500">{{range $i, $t := .Tasks}}{{if $i}}, {{end}}{{$t}}{{end}}</span>
                </li>
                {{end}}
            </ul>
        </li>
        {{else}}
        <li class="px-4 py-8 text-center text-gray-500">No container declarations found</li>
        {{end}}
    </ul>
</div>
{{end}}`,
}
