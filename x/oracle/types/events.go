package types

// Oracle module event type constants
const (
	// EventTypeSetNumberOfNodes defines the event type for (re)initializing the node registry
	EventTypeSetNumberOfNodes = "set_number_of_nodes"

	// EventTypeSetNodeAddress defines the event type for registering a node address
	EventTypeSetNodeAddress = "set_node_address"

	// EventTypeSetOracleResponse defines the event type for an accepted oracle response
	EventTypeSetOracleResponse = "set_oracle_response"
)

// Event attribute keys
const (
	AttributeKeyNumberOfNodes      = "number_of_nodes"
	AttributeKeyCountOfTrustNumber = "count_of_trust_number"
	AttributeKeyIndex              = "index"
	AttributeKeyNodeAddress        = "node_address"
	AttributeKeyCid                = "cid"
	AttributeKeyURI                = "uri"
	AttributeKeyPost               = "post"
	AttributeKeyTime               = "time"
	AttributeKeyResults            = "results"
	AttributeKeyValidSignatures    = "valid_signatures"
)
