package wdl

import "strings"

// DockerImage is a container image referenced by one or more tasks called
// from a workflow.
type DockerImage struct {
	// Image is the literal image string, or the raw expression text when
	// the image is parameterized.
	Image string
	// TaskNames are the call names using this image, in discovery order.
	TaskNames []string
	// Parameterized marks images selected through a task input rather
	// than a literal.
	Parameterized bool
	// ParameterName is the input supplying the image, when known.
	ParameterName string
	// DefaultValue is the input's default image, when declared.
	DefaultValue string
}

// DisplayImage returns a display-friendly image string.
func (d DockerImage) DisplayImage() string {
	if d.Parameterized {
		if d.DefaultValue != "" {
			return d.DefaultValue
		}
		if d.ParameterName != "" {
			return "Parameterized (via " + d.ParameterName + ")"
		}
		return "Parameterized"
	}
	return d.Image
}

// ShortName returns the image name without repository prefix or tag.
func (d DockerImage) ShortName() string {
	s := d.Image
	if d.Parameterized {
		if d.DefaultValue == "" {
			return "parameterized"
		}
		s = d.DefaultValue
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}

// TaskCount returns the number of tasks using this image.
func (d DockerImage) TaskCount() int { return len(d.TaskNames) }
