package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hoehoe5252-yong/yong2/internal/events"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

func TestNewPublisherRequiresClient(t *testing.T) {
	assert.Nil(t, events.NewPublisher(nil, nil))
}

func TestRunClosedNilReceiverIsNoOp(t *testing.T) {
	var pub *events.Publisher

	err := pub.RunClosed(context.Background(), &models.CrawlRun{
		ID:       "run-1",
		SourceID: "yozm_it",
		Status:   models.RunStatusSuccess,
	})
	assert.NoError(t, err)
}
