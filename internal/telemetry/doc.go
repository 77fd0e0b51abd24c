// Package telemetry reads the target application's introspection feed.
//
// The showcase application, when started with telemetry enabled, rewrites
// a JSON file on every UI change. The file lists the visible elements that
// carry a test id together with their bounds in window client coordinates,
// plus free-form state values and a short event log:
//
//	{
//	  "states":   {"selected_section": "Buttons", ...},
//	  "events":   ["[1700000000000] Nav selected: Buttons", ...],
//	  "elements": [{"test_id": "nav_buttons", "x": 8, "y": 72, "width": 264, "height": 48}, ...]
//	}
//
// Reads never block: an unknown test id is reported as ErrElementNotFound.
package telemetry
