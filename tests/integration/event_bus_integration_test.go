//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeenaAbe/dify-mental-health/internal/adapters/events"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/entities"
	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
)

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	channel := providers.EventChannelAssessmentUpdates
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := eventBus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx2, channel)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewAssessmentEvent(
		"MHD-REDIS1",
		entities.AssessmentEventTypeRiskAlertRaised,
		map[string]interface{}{"risk_level": "high"},
	)

	err = eventBus.Publish(context.Background(), channel, event)
	require.NoError(t, err)

	received1 := waitForAssessmentEvent(t, sub1)
	received2 := waitForAssessmentEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, entities.AssessmentEventTypeRiskAlertRaised, received1.EventType)
}

func TestRedisEventBusSessionChannelIntegration(t *testing.T) {
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	redisClient := newTestRedisClient(t)
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	defer eventBus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionChan, err := eventBus.Subscribe(ctx, providers.GetSessionChannel("MHD-SESS1"))
	require.NoError(t, err)
	otherChan, err := eventBus.Subscribe(ctx, providers.GetSessionChannel("MHD-SESS2"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewAssessmentEvent(
		"MHD-SESS1",
		entities.AssessmentEventTypeAnswerRecorded,
		map[string]interface{}{"question_id": "phq9-1", "points": 2},
	)
	require.NoError(t, eventBus.Publish(context.Background(), providers.GetSessionChannel("MHD-SESS1"), event))

	received := waitForAssessmentEvent(t, sessionChan)
	assert.Equal(t, "MHD-SESS1", received.SessionID)

	select {
	case unexpected := <-otherChan:
		t.Fatalf("session channel leaked event: %v", unexpected)
	case <-time.After(500 * time.Millisecond):
	}
}

func waitForAssessmentEvent(t *testing.T, ch <-chan *entities.AssessmentEvent) *entities.AssessmentEvent {
	t.Helper()
	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for assessment event")
		return nil
	}
}
