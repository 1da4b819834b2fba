// Package render turns a metric snapshot and its per-metric severities into
// terminal dashboard output. Rendering is best-effort from the sampling
// loop's point of view: a render failure never stops the loop.
package render

import (
	"github.com/sysmon-tools/sysmon/internal/alert"
	"github.com/sysmon-tools/sysmon/internal/models"
)

// Renderer consumes one cycle's snapshot and severity classifications.
// Render must be idempotent: rendering the same snapshot twice produces the
// same output and no other side effects.
type Renderer interface {
	Render(snapshot *models.Snapshot, severities map[string]alert.Severity) error
}
