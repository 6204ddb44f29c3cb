package di

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	echoportal "github.com/adrodovia/portal/apps/portal/echo"
	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/services/offline"
)

func testConfig() *core.Config {
	conf := &core.Config{AppName: "AD Rodovia", Debug: true, TestMode: true, SecretKey: "s3cr3t", StaticDir: "static"}
	conf.Cache.Version = "ad-rodovia-v1"
	conf.Cache.OfflinePage = "/offline"
	conf.Server.DisableReqLogs = true
	return conf
}

func TestNew(t *testing.T) {
	c := New(testConfig)

	err := c.Invoke(func(server *echoportal.Server, api portal.API, worker *offline.Worker, notifier core.NotificationService) {
		assert.NotNil(t, server)
		assert.NotNil(t, api)
		assert.Equal(t, offline.Idle, worker.State())
		assert.Equal(t, "ad-rodovia-v1", worker.Version())
		assert.NotNil(t, notifier)
	})
	assert.NoError(t, err)
}

func TestNewStorage(t *testing.T) {
	conf := testConfig()
	logger := newLogger(conf)

	storage, err := newStorage(conf, logger)
	assert.NoError(t, err)
	assert.NotNil(t, storage)

	conf.Cache.Backend = BackendRedis
	conf.Cache.RedisAddr = miniredis.RunT(t).Addr()
	storage, err = newStorage(conf, logger)
	if assert.NoError(t, err) {
		names, err := storage.Caches(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, names)
		assert.NoError(t, storage.(io.Closer).Close())
	}

	conf.Cache.Backend = "disk"
	_, err = newStorage(conf, logger)
	assert.Error(t, err)
}

func TestNewNotifier(t *testing.T) {
	conf := testConfig()
	conf.Notify.SendgridApiKey = "SG.key"
	conf.Notify.DefaultFromEmail = "AD Rodovia <noreply@localhost>"
	conf.Notify.To = "secretaria@localhost"

	n, err := newNotifier(conf)
	assert.NoError(t, err)
	assert.NotNil(t, n)

	conf.Debug = false
	n, err = newNotifier(conf)
	assert.NoError(t, err)
	assert.NotNil(t, n)

	conf.Notify.To = "not an address"
	_, err = newNotifier(conf)
	assert.Error(t, err)
}
