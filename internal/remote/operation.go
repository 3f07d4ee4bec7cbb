// Package remote is the HTTP transport to the remote tokenization and auth APIs.
package remote

// Operation identifies a remote tokenization endpoint.
type Operation string

const (
	OpTokenize        Operation = "tokenize"
	OpDetokenize      Operation = "detokenize"
	OpBatchTokenize   Operation = "batch_tokenize"
	OpBatchDetokenize Operation = "batch_detokenize"
)

// Endpoint paths served by the remote APIs.
const (
	PathTokenize        = "/v1/tokenize"
	PathDetokenize      = "/v1/detokenize"
	PathBatchTokenize   = "/v1/tokenize/batch"
	PathBatchDetokenize = "/v1/detokenize/batch"
	PathToken           = "/oauth/token"
)

// Request headers shared by the client and the dev server.
const (
	HeaderEncrypted           = "X-Encrypted"
	HeaderEncryptionAlgorithm = "X-Encryption-Algorithm"
	HeaderRequestID           = "X-Request-Id"
)

// Path returns the endpoint path of the operation.
func (o Operation) Path() string {
	switch o {
	case OpTokenize:
		return PathTokenize
	case OpDetokenize:
		return PathDetokenize
	case OpBatchTokenize:
		return PathBatchTokenize
	case OpBatchDetokenize:
		return PathBatchDetokenize
	default:
		return ""
	}
}

// OperationFromPath maps an endpoint path back to its operation.
func OperationFromPath(path string) (Operation, bool) {
	for _, op := range []Operation{OpTokenize, OpDetokenize, OpBatchTokenize, OpBatchDetokenize} {
		if op.Path() == path {
			return op, true
		}
	}
	return "", false
}

// String returns the string representation of the operation.
func (o Operation) String() string {
	return string(o)
}
