package models

import "encoding/json"

// PullResponse carries the entities matching a pull. The pull body itself
// is a [Request].
type PullResponse[E any] struct {
	Entities []E `json:"entities"`
	Length   int `json:"length"`
}

// PushRequest carries entities written on the client.
type PushRequest[E any] struct {
	Entities []E `json:"entities"`
	Length   int `json:"length"`
}

// PopRequest lists identifiers deleted on the client.
type PopRequest[ID comparable] struct {
	IDs    []ID `json:"ids"`
	Length int  `json:"length"`
}

// StreamMessageType tags frames sent over the realtime stream.
type StreamMessageType string

const (
	// StreamHello is the first frame a server sends; it carries the session id.
	StreamHello StreamMessageType = "hello"
	// StreamUpsert carries entities created or changed remotely.
	StreamUpsert StreamMessageType = "upsert"
	// StreamDelete carries identifiers deleted remotely.
	StreamDelete StreamMessageType = "delete"
)

// StreamMessage is one realtime frame. Entities stay raw so the transport
// does not need to know the entity type.
type StreamMessage struct {
	Type     StreamMessageType `json:"type"`
	Session  string            `json:"session,omitempty"`
	Entities []json.RawMessage `json:"entities,omitempty"`
	IDs      []json.RawMessage `json:"ids,omitempty"`
}
