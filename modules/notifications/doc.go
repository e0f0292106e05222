// Package notifications wires the notification pipeline to the outside
// world. It exposes the write path as a Service (persist, fan out, alert)
// and the read path as a chi router with JSON endpoints, a server-sent
// events stream, and a WebSocket stream.
//
// Mount the router under an authenticated path:
//
//	r.Mount("/notifications", notifications.Router(notifications.RouterOptions{
//	    Storage:     store,
//	    Preferences: store,
//	    Feed:        fanout,
//	}))
package notifications
