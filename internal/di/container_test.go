package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediaconfig "motive-archive/internal/media/config"
	"motive-archive/internal/notify"
	searchconfig "motive-archive/internal/search/config"
	"motive-archive/internal/shared/logger"
)

type recordingNotifier struct {
	closed bool
}

func (n *recordingNotifier) Notify(ctx context.Context, msg *notify.Notification) error {
	return nil
}

func (n *recordingNotifier) Close() error {
	n.closed = true
	return nil
}

func TestInitializeInfrastructure_CreatesEventBus(t *testing.T) {
	c := NewContainer(logger.NewLogger())

	c.InitializeInfrastructure(nil, nil)

	assert.NotNil(t, c.Bus, "infrastructure init should create the event bus")
}

func TestInitializeModules_RequireInfrastructure(t *testing.T) {
	c := NewContainer(logger.NewLogger())

	err := c.InitializeSearch(&searchconfig.SearchConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infrastructure must be initialized")

	err = c.InitializeNotify(&notify.NotifyConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infrastructure must be initialized")
}

func TestInitializeMedia_RequiresArchiveModule(t *testing.T) {
	c := NewContainer(logger.NewLogger())
	c.InitializeInfrastructure(nil, nil)

	err := c.InitializeMedia(&mediaconfig.MediaConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive module must be initialized")
}

func TestCleanup_ClosesNotifierAndResetsModules(t *testing.T) {
	c := NewContainer(logger.NewLogger())
	notifier := &recordingNotifier{}
	c.Notifier = notifier

	err := c.Cleanup(context.Background())

	require.NoError(t, err)
	assert.True(t, notifier.closed, "cleanup should close the notifier")
	assert.Nil(t, c.Notifier)
	assert.Nil(t, c.MediaModule)
	assert.Nil(t, c.ArchiveModule)
}

func TestHealthCheck_NoInfrastructure(t *testing.T) {
	c := NewContainer(logger.NewLogger())

	assert.NoError(t, c.HealthCheck(context.Background()))
}
