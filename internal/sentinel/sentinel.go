// Package sentinel detects the application-level error flag that the forecast
// backend embeds in otherwise successful responses.
package sentinel

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"
)

// Key is the reserved top-level field that marks an error payload
const Key = "ACCUWEATHER_ERROR_RESPONSE"

// AlertMessage is shown to the user when a payload carries the sentinel
const AlertMessage = "The weather service returned an error, check the log for details"

// Alerter surfaces a message to the user
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a plain function to Alerter
type AlerterFunc func(message string)

// Alert calls f(message)
func (f AlerterFunc) Alert(message string) {
	f(message)
}

// Detector checks decoded payloads for the sentinel field
type Detector struct {
	alerter Alerter
	logger  *slog.Logger
}

// NewDetector creates a detector. A nil alerter only logs.
func NewDetector(alerter Alerter, logger *slog.Logger) *Detector {
	return &Detector{
		alerter: alerter,
		logger:  logger.With("component", "sentinel-detector"),
	}
}

// Check reports whether payload carries a truthy sentinel. When it does, the
// user is alerted and the full payload is logged. Check never fails; the caller
// keeps processing the payload either way.
func (d *Detector) Check(payload []byte) bool {
	if !Present(payload) {
		return false
	}

	if d.alerter != nil {
		d.alerter.Alert(AlertMessage)
	}
	d.logger.Error("response carries error sentinel", "payload", string(payload))

	return true
}

// Present reports whether payload is a JSON object whose sentinel field is truthy
func Present(payload []byte) bool {
	if !gjson.ValidBytes(payload) {
		return false
	}

	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return false
	}

	return truthy(root.Get(Key))
}

// truthy follows JavaScript truthiness: objects and arrays are always truthy
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return v.Float() != 0
	case gjson.String:
		return v.Str != ""
	default:
		return false
	}
}

// Wrap builds the sentinel object sent to clients for an upstream error body.
// The upstream Reference field is dropped.
func Wrap(body []byte) map[string]any {
	detail := map[string]any{}
	if err := json.Unmarshal(body, &detail); err != nil || detail == nil {
		detail = map[string]any{"Message": strings.TrimSpace(string(body))}
	}
	delete(detail, "Reference")

	return map[string]any{
		Key: map[string]any{"error": detail},
	}
}
