package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/config"
	"github.com/voicevista/voicevista/internal/download"
	"github.com/voicevista/voicevista/internal/logging"
	"github.com/voicevista/voicevista/internal/session"
	"github.com/voicevista/voicevista/internal/storage"
	"github.com/voicevista/voicevista/internal/theme"
	"github.com/voicevista/voicevista/internal/transcript"
)

var errNotLoggedIn = errors.New("not logged in; run `voicevista login` first")

type commandContext struct {
	configFlag *string
	apiURLFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, apiURLFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiURLFlag: apiURLFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.apiURLFlag != nil {
			if url := strings.TrimRight(strings.TrimSpace(*c.apiURLFlag), "/"); url != "" {
				cfg.API.BaseURL = url
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// appContext holds the stores one command runs against.
type appContext struct {
	cfg        *config.Config
	store      *storage.Store
	client     *api.Client
	session    *session.Store
	theme      *theme.Store
	downloader *download.Downloader
	cache      *transcript.Cache
	logger     zerolog.Logger
	logFile    io.Closer
}

func (a *appContext) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// owner keys the local snapshot cache.
func (a *appContext) owner() string {
	u, ok := a.session.User()
	if !ok || u.ID == 0 {
		return ""
	}
	return fmt.Sprint(u.ID)
}

func (c *commandContext) openApp() (*appContext, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logFile, err := logging.Open(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		TimeFormat: time.RFC3339,
	}, cfg.LogPath())
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	logger := logging.WithComponent("cli")
	client := api.New(cfg.API.BaseURL,
		api.WithUploadsPath(cfg.API.UploadsPath),
		api.WithLogger(logging.WithComponent("api")),
	)
	sess := session.New(store, client,
		session.WithLockFile(cfg.LockPath()),
		session.WithLogger(logging.WithComponent("session")),
	)
	sess.Restore()

	return &appContext{
		cfg:        cfg,
		store:      store,
		client:     client,
		session:    sess,
		theme:      theme.Load(store),
		downloader: download.New(client, cfg.Paths.DownloadDir, download.WithLogger(logging.WithComponent("download"))),
		cache:      transcript.NewCache(store),
		logger:     logger,
		logFile:    logFile,
	}, nil
}

// withApp opens the local stores for the duration of fn.
func (c *commandContext) withApp(fn func(*appContext) error) error {
	app, err := c.openApp()
	if err != nil {
		return err
	}
	defer app.close()
	return fn(app)
}

// withSession is withApp for commands that need a signed-in user.
func (c *commandContext) withSession(fn func(*appContext) error) error {
	return c.withApp(func(app *appContext) error {
		if !app.session.Authenticated() {
			return errNotLoggedIn
		}
		return fn(app)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
