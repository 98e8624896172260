package analyze

import (
	"strings"

	"github.com/me/wdldoc/internal/graph"
	"github.com/me/wdldoc/pkg/wdl"
)

// runtime keys recognized as container image declarations, checked in order.
var dockerKeys = []string{"docker", "container", "dockerImage"}

// DockerImages collects the container images used by the workflow's call
// tree, grouped by image. Tasks are looked up both locally and through the
// document's resolved imports; byPath maps resolved import paths to their
// parsed documents.
func DockerImages(doc *wdl.Document, byPath map[string]*wdl.Document) []wdl.DockerImage {
	if doc.Workflow == nil {
		return nil
	}
	tasks := taskIndex(doc, byPath)

	var order []string
	grouped := make(map[string]*wdl.DockerImage)

	var walk func(body []wdl.BodyElement)
	walk = func(body []wdl.BodyElement) {
		for _, el := range body {
			switch el := el.(type) {
			case *wdl.Call:
				if el.Callee == nil || el.Callee.Name == "" {
					continue
				}
				task, ok := tasks[el.Target]
				if !ok {
					task, ok = tasks[el.Callee.Name]
				}
				if !ok {
					continue
				}
				img, found := taskImage(task)
				if !found {
					continue
				}
				key := groupKey(img)
				entry, seen := grouped[key]
				if !seen {
					copied := img
					grouped[key] = &copied
					order = append(order, key)
					entry = grouped[key]
				}
				entry.TaskNames = appendUniqueName(entry.TaskNames, el.Name())
			case *wdl.Scatter:
				walk(el.Body)
			case *wdl.Conditional:
				walk(el.Body)
			}
		}
	}
	walk(doc.Workflow.Body)

	images := make([]wdl.DockerImage, 0, len(order))
	for _, key := range order {
		images = append(images, *grouped[key])
	}
	return images
}

// taskIndex maps both bare and namespace-qualified task names to their
// definitions.
func taskIndex(doc *wdl.Document, byPath map[string]*wdl.Document) map[string]*wdl.Task {
	index := make(map[string]*wdl.Task)
	for _, task := range doc.Tasks {
		index[task.Name] = task
	}
	for _, imp := range doc.Imports {
		if imp.ResolvedPath == "" {
			continue
		}
		imported, ok := byPath[imp.ResolvedPath]
		if !ok {
			continue
		}
		for _, task := range imported.Tasks {
			index[imp.Namespace+"."+task.Name] = task
			if _, exists := index[task.Name]; !exists {
				index[task.Name] = task
			}
		}
	}
	return index
}

// taskImage inspects a task's runtime section for a container declaration.
func taskImage(task *wdl.Task) (wdl.DockerImage, bool) {
	for _, key := range dockerKeys {
		expr := task.RuntimeValue(key)
		if expr == nil {
			continue
		}
		return imageFromExpr(expr, task), true
	}
	return wdl.DockerImage{}, false
}

func imageFromExpr(expr wdl.Expr, task *wdl.Task) wdl.DockerImage {
	if lit, ok := expr.(*wdl.StringLit); ok && !lit.HasPlaceholders() {
		return wdl.DockerImage{Image: lit.Text()}
	}

	img := wdl.DockerImage{
		Image:         wdl.ExprString(expr),
		Parameterized: true,
	}
	if idents := graph.Identifiers(expr); len(idents) > 0 {
		img.ParameterName = idents[0]
		img.DefaultValue = inputDefault(task, img.ParameterName)
	}
	return img
}

// inputDefault returns the string default of the named task input, if any.
func inputDefault(task *wdl.Task, name string) string {
	for _, in := range task.Inputs {
		if in.Name != name {
			continue
		}
		if lit, ok := in.Default.(*wdl.StringLit); ok && !lit.HasPlaceholders() {
			return lit.Text()
		}
	}
	return ""
}

// groupKey folds parameterized images with the same default onto one entry.
func groupKey(img wdl.DockerImage) string {
	if img.Parameterized {
		if img.DefaultValue != "" {
			return img.DefaultValue
		}
		if img.ParameterName != "" {
			return "param:" + img.ParameterName
		}
		return "param:" + img.Image
	}
	return strings.TrimSpace(img.Image)
}

func appendUniqueName(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
