package entities

// ChainTransaction is one account transaction as reported by the chain read
// API. Only inbound-message fields are relevant for deposit matching; a
// transaction without an inbound message (external-out, internal bookkeeping)
// carries a nil InMsg and is never a match candidate.
type ChainTransaction struct {
	Hash  string
	LT    int64
	UTime int64
	InMsg *InboundMessage
}

type InboundMessage struct {
	ValueNano   int64
	Source      string
	Destination string
}

// JettonTransfer is one token-transfer record from the chain's jetton index.
// Addresses in this feed are already canonical raw form.
type JettonTransfer struct {
	TransactionHash string
	Amount          int64
	Source          string
	Destination     string
	UTime           int64
}
