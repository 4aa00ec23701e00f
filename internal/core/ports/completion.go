package ports

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// CompletionGateway is the single exit point to the external LLM. Complete
// never returns an error: any failure of the upstream call is absorbed and
// replaced by a fixed fallback reply, so a turn always produces some text.
type CompletionGateway interface {
	Complete(ctx context.Context, turns []*schema.Message) string
}
