package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/jmylchreest/sinkswitch/internal/config"
	"github.com/jmylchreest/sinkswitch/internal/dbus"
	"github.com/jmylchreest/sinkswitch/internal/model"
	"github.com/jmylchreest/sinkswitch/internal/pulse"
	"github.com/jmylchreest/sinkswitch/internal/switcher"
)

// Chime plays the confirmation sound after a switch.
type Chime interface {
	Configure(path string, volume int)
	Play() error
	Close()
}

// Options configures a Daemon. Zero values select the production
// implementations.
type Options struct {
	// ConfigPath is the config file to load and watch. Empty means the default path.
	ConfigPath string
	// DryRun logs mutating sound server commands instead of running them.
	DryRun bool
	// Logger receives all daemon logs.
	Logger *slog.Logger
	// LogLevel, when set, follows the log level of the loaded config.
	LogLevel *slog.LevelVar

	// Runner executes sound server commands.
	Runner pulse.Runner
	// Notify delivers desktop notifications. Nil connects to the session bus
	// the first time notifications are enabled.
	Notify NotifyFunc
	// Chime plays the switch sound. Nil disables the sound.
	Chime Chime
}

// Daemon routes audio between the configured sinks until its context ends
// or the event subscription fails.
type Daemon struct {
	mu     sync.Mutex
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	switcher *switcher.Reconciler
	notifier *Notifier
	watcher  *config.Watcher
	bus      *dbus.Client

	reloads  chan model.Roles
	switches chan model.Switch
	done     chan struct{}
}

// New loads the configuration and builds the daemon.
func New(opts Options) (*Daemon, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.ConfigPath()
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = pulse.NewExecRunner()
	}
	if opts.DryRun {
		runner = pulse.NewDryRunRunner(runner, opts.Logger)
	}

	d := &Daemon{
		opts:     opts,
		logger:   opts.Logger,
		switcher: switcher.New(pulse.NewClient(runner, cfg.Commands), cfg.Roles, opts.Logger),
		notifier: NewNotifier(opts.Logger),
		reloads:  make(chan model.Roles),
		switches: make(chan model.Switch, 8),
		done:     make(chan struct{}),
	}
	d.switcher.SetSwitchHandler(d.enqueue)
	d.configure(cfg)

	return d, nil
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Switcher returns the reconciler driven by the daemon.
func (d *Daemon) Switcher() *switcher.Reconciler {
	return d.switcher
}

// Run processes sound server events until ctx is cancelled, the event feed
// closes, or an event fails. Announcements queued before that are delivered
// before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	d.startWatcher()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for sw := range d.switches {
			d.announce(sw)
		}
	}()

	roles := d.Config().Roles
	d.logger.Info("sinkswitchd running",
		"config", d.opts.ConfigPath,
		"fallback", roles.Fallback,
		"preferred", roles.Preferred,
		"dry_run", d.opts.DryRun)

	err := d.switcher.Run(ctx, d.reloads)
	close(d.done)

	if d.watcher != nil {
		if stopErr := d.watcher.Stop(); stopErr != nil {
			d.logger.Debug("config watcher stop failed", "error", stopErr)
		}
	}

	close(d.switches)
	wg.Wait()
	d.shutdown()

	return err
}

func (d *Daemon) startWatcher() {
	if _, err := os.Stat(filepath.Dir(d.opts.ConfigPath)); err != nil {
		d.logger.Debug("config directory missing, hot reload disabled", "path", d.opts.ConfigPath)
		return
	}

	w, err := config.NewWatcher(d.opts.ConfigPath, d.logger)
	if err != nil {
		d.logger.Warn("failed to create config watcher", "error", err)
		return
	}
	w.SetReloadCallback(d.reload)
	w.SetErrorCallback(func(err error) { d.notifier.NotifyConfigError(err) })
	if err := w.Start(); err != nil {
		d.logger.Warn("failed to start config watcher", "error", err)
		_ = w.Stop()
		return
	}
	d.watcher = w
}

// reload applies a changed config. Roles are handed to the event loop so
// they change between events. Commands only take effect after a restart.
func (d *Daemon) reload(cfg *config.Config) {
	d.mu.Lock()
	prev := d.cfg
	d.mu.Unlock()

	if !reflect.DeepEqual(prev.Commands, cfg.Commands) {
		d.logger.Warn("command changes take effect after restart")
	}

	d.configure(cfg)

	if cfg.Roles != prev.Roles {
		select {
		case d.reloads <- cfg.Roles:
		case <-d.done:
			return
		}
	}
	d.logger.Info("configuration reloaded", "fallback", cfg.Roles.Fallback, "preferred", cfg.Roles.Preferred)
	d.notifier.NotifyConfigReloaded(cfg.Roles)
}

// configure applies the parts of cfg that don't belong to the event loop.
func (d *Daemon) configure(cfg *config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	if d.opts.LogLevel != nil {
		if level, err := config.ParseLogLevel(cfg.Log.Level); err == nil {
			d.opts.LogLevel.Set(level)
		}
	}

	d.notifier.SetMinInterval(cfg.Notify.MinInterval.Duration())
	d.notifier.SetExpireTimeout(cfg.Notify.ExpireTimeout.Duration())
	d.notifier.SetEnabled(cfg.Notify.Enabled && d.ensureNotifyHandler())

	if d.opts.Chime != nil {
		d.opts.Chime.Configure(cfg.SoundPath(), cfg.Feedback.Volume)
	}
}

// ensureNotifyHandler installs a notification handler, connecting to the
// session bus if none was supplied. It reports whether one is available.
func (d *Daemon) ensureNotifyHandler() bool {
	if d.opts.Notify != nil {
		d.notifier.SetNotifyHandler(d.opts.Notify)
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus != nil {
		return true
	}
	bus, err := dbus.Connect()
	if err != nil {
		d.logger.Warn("notifications disabled", "error", err)
		return false
	}
	d.bus = bus
	d.notifier.SetNotifyHandler(bus.Notify)
	return true
}

// enqueue hands a switch to the announcer without blocking the event loop.
func (d *Daemon) enqueue(sw model.Switch) {
	select {
	case d.switches <- sw:
	default:
		d.logger.Warn("announcement queue full, dropping", "switch_id", sw.ID, "sink", sw.StableName)
	}
}

func (d *Daemon) announce(sw model.Switch) {
	d.notifier.NotifySwitch(sw)

	d.mu.Lock()
	feedback := d.cfg.Feedback.Enabled
	d.mu.Unlock()
	if !feedback || d.opts.Chime == nil {
		return
	}

	if err := d.opts.Chime.Play(); err != nil {
		d.logger.Warn("failed to play switch sound", "switch_id", sw.ID, "error", err)
		d.notifier.NotifyAudioError(err)
	}
}

func (d *Daemon) shutdown() {
	if d.opts.Chime != nil {
		d.opts.Chime.Close()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus != nil {
		if err := d.bus.Close(); err != nil {
			d.logger.Debug("session bus close failed", "error", err)
		}
		d.bus = nil
	}
}
