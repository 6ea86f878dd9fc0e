package dashpages

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
)

// PropsEvent is the HX-Trigger event that carries property updates to the
// client. Its detail is a list of {id, property, value} objects.
const PropsEvent = "dash:props"

type propUpdate struct {
	ID       string `json:"id"`
	Property string `json:"property"`
	Value    any    `json:"value"`
}

func propUpdates(updates []Update) []propUpdate {
	out := make([]propUpdate, len(updates))
	for i, u := range updates {
		out[i] = propUpdate{ID: u.Prop.ID, Property: u.Prop.Property, Value: u.Value}
	}
	return out
}

// writeHTMX answers an htmx update request: fragments holds out-of-band swaps
// for children updates, props is sent as a PropsEvent trigger. The main swap
// is disabled since the request does not target an element.
func writeHTMX(ctx context.Context, w http.ResponseWriter, fragments templ.Component, props []Update) error {
	resp := htmx.NewResponse().Reswap(htmx.SwapNone)
	if len(props) > 0 {
		resp = resp.AddTrigger(htmx.TriggerObject(PropsEvent, propUpdates(props)))
	}
	return resp.RenderTempl(ctx, w, fragments)
}

func isHTMX(r *http.Request) bool {
	return htmx.IsHTMX(r)
}

// triggerID returns the ID of the element that sent an htmx request.
func triggerID(r *http.Request) string {
	id, _ := htmx.GetTrigger(r)
	return id
}
