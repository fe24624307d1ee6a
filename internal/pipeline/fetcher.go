package pipeline

import "context"

// Fetcher is the external stream-provider-addon collaborator: given a
// request it returns whatever candidate streams its addons produced.
// A cancelled context aborts pending addon fetches; a Fetcher must
// never block past ctx's deadline.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]ParsedStream, error)
}
