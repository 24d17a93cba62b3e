//go:build integration

package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecognizerInputIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	dev, err := RecognizerInput(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, dev.ID)
}
