package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinch/furniture-watch/internal/notify"
	"github.com/mfinch/furniture-watch/pkg/logger"
	domain "github.com/mfinch/furniture-watch/pkg/types"
)

func TestNoOpNotifier_Send(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := notify.NewNoOpNotifier(logger.NewWithWriter(&buf, "debug", "text"))

	err := n.Send(context.Background(), &notify.AlertPayload{
		Title:    "Red Couch",
		URL:      "https://communityfurniture.org/sofa/red-couch",
		Category: domain.CategorySofa,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "alerts disabled")
	assert.Contains(t, buf.String(), "Red Couch")
}
