package htmx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response header names.
const (
	HeaderLocation           = "HX-Location"
	HeaderPushURL            = "HX-Push-Url"
	HeaderRedirect           = "HX-Redirect"
	HeaderRefresh            = "HX-Refresh"
	HeaderReplaceURL         = "HX-Replace-Url"
	HeaderReswap             = "HX-Reswap"
	HeaderRetarget           = "HX-Retarget"
	HeaderReselect           = "HX-Reselect"
	HeaderTriggerAfterSettle = "HX-Trigger-After-Settle"
	HeaderTriggerAfterSwap   = "HX-Trigger-After-Swap"
)

// StatusStopPolling tells htmx to cancel an hx-trigger="every ..." poll.
const StatusStopPolling = 286

// When selects which HX-Trigger header TriggerClientEvent writes.
type When int

const (
	Receive When = iota
	Settle
	Swap
)

func (w When) header() string {
	switch w {
	case Settle:
		return HeaderTriggerAfterSettle
	case Swap:
		return HeaderTriggerAfterSwap
	default:
		return HeaderTrigger
	}
}

// PushURL pushes url onto the browser history. Pass "false" to prevent a
// push that the triggering element requested.
func PushURL(w http.ResponseWriter, url string) {
	w.Header().Set(HeaderPushURL, url)
}

// ReplaceURL replaces the current browser location without a new history
// entry.
func ReplaceURL(w http.ResponseWriter, url string) {
	w.Header().Set(HeaderReplaceURL, url)
}

// Reswap overrides the swap strategy, e.g. "outerHTML".
func Reswap(w http.ResponseWriter, method string) {
	w.Header().Set(HeaderReswap, method)
}

// Retarget overrides the element the response is swapped into.
func Retarget(w http.ResponseWriter, selector string) {
	w.Header().Set(HeaderRetarget, selector)
}

// Reselect picks the part of the response to swap in.
func Reselect(w http.ResponseWriter, selector string) {
	w.Header().Set(HeaderReselect, selector)
}

// ClientRedirect makes htmx perform a full page navigation to url.
func ClientRedirect(w http.ResponseWriter, url string) {
	w.Header().Set(HeaderRedirect, url)
	w.WriteHeader(http.StatusOK)
}

// ClientRefresh makes htmx reload the page.
func ClientRefresh(w http.ResponseWriter) {
	w.Header().Set(HeaderRefresh, "true")
	w.WriteHeader(http.StatusOK)
}

// LocationOptions are the optional fields of an HX-Location header.
type LocationOptions struct {
	Source  string            `json:"source,omitempty"`
	Event   string            `json:"event,omitempty"`
	Target  string            `json:"target,omitempty"`
	Swap    string            `json:"swap,omitempty"`
	Select  string            `json:"select,omitempty"`
	Values  map[string]any    `json:"values,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Location makes htmx load path via AJAX as if a boosted link was followed.
func Location(w http.ResponseWriter, path string, opts *LocationOptions) error {
	loc := map[string]any{"path": path}
	if opts != nil {
		b, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("encode location options: %w", err)
		}
		if err := json.Unmarshal(b, &loc); err != nil {
			return fmt.Errorf("encode location options: %w", err)
		}
		loc["path"] = path
	}
	b, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	w.Header().Set(HeaderLocation, string(b))
	w.WriteHeader(http.StatusOK)
	return nil
}

// StopPolling writes the status code that ends polling.
func StopPolling(w http.ResponseWriter) {
	w.WriteHeader(StatusStopPolling)
}

// TriggerClientEvent adds a client side event to the HX-Trigger family of
// headers selected by when. Events already present on the header are kept,
// so several calls accumulate. params may be nil.
func TriggerClientEvent(w http.ResponseWriter, name string, params any, when When) error {
	key := when.header()
	events := map[string]any{}
	if existing := w.Header().Get(key); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			// A bare event name list written by someone else; keep it.
			events = map[string]any{existing: nil}
		}
	}
	if params == nil {
		params = map[string]any{}
	}
	events[name] = params

	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	w.Header().Set(key, string(b))
	return nil
}
