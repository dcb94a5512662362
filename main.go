package main

import (
	"flag"
	"os"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/movement/movement"
	"github.com/oomph-ac/movement/session"
	"github.com/oomph-ac/movement/settings"
	"github.com/oomph-ac/movement/transport"
	"github.com/oomph-ac/movement/world"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const tickRate = 64

var (
	settingsPath = flag.String("settings", "settings.toml", "path of the settings file, created with defaults if missing")
	mode         = flag.String("mode", "local", "one of server, client or local")
	network      = flag.String("network", "", "overrides the network of the settings, raknet or kcp")
	ticks        = flag.Int("ticks", 10*tickRate, "amount of ticks the client runs for")
	debug        = flag.Bool("debug", false, "enables debug logging")
	running      = flag.Bool("running", false, "runs the actor at its running speed")
)

// The following program runs a predicting and an authoritative movement component against each
// other, either in one process or over the network.
func main() {
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if *debug {
		log.Level = logrus.DebugLevel
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Fatalf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}
	if os.Getenv("PPROF_ENABLED") != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		mgr := statsview.New()
		go mgr.Start()
	}

	s := readSettings(log)
	if *network != "" {
		s.Network.Network = *network
	}

	switch *mode {
	case "server":
		runServer(log, s)
	case "client":
		conn, err := transport.Dial(transport.Network(s.Network.Network), s.Network.Address)
		if err != nil {
			log.Fatalf("unable to connect to %s: %v", s.Network.Address, err)
		}
		runClient(log, s, conn)
	case "local":
		clientConn, serverConn := transport.Pipe()
		h := newHub(log)
		h.add(newServer(log, s, serverConn))
		go h.run()
		runClient(log, s, clientConn)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func readSettings(log *logrus.Logger) settings.Settings {
	if _, err := os.Stat(*settingsPath); os.IsNotExist(err) {
		if err := settings.SaveDefault(*settingsPath); err != nil {
			log.Fatalf("unable to save default settings: %v", err)
		}
	}
	s, err := settings.Load(*settingsPath)
	if err != nil {
		log.Fatalf("unable to load settings: %v", err)
	}
	return s
}

// demoWorld returns the geometry the authoritative side knows about. The predicting side knows
// nothing about it, so teleports into it are corrected.
func demoWorld() *world.Geometry {
	g := world.NewGeometry(cube.Box(1500, -500, -100, 1600, 500, 400))
	// Glass: visible through, but still in the way of the camera.
	g.Add(cube.Box(3000, -500, -100, 3010, 500, 400), world.ChannelCamera)
	return g
}

func runServer(log *logrus.Logger, s settings.Settings) {
	l, err := transport.Listen(transport.Network(s.Network.Network), s.Network.Address)
	if err != nil {
		log.Fatalf("unable to listen on %s: %v", s.Network.Address, err)
	}
	defer l.Close()
	log.Infof("listening for %s connections on %v", s.Network.Network, l.Addr())

	h := newHub(log)
	go h.run()
	for {
		conn, err := l.Accept()
		if err != nil {
			log.Errorf("unable to accept connection: %v", err)
			return
		}
		h.add(newServer(log, s, conn))
	}
}

func newServer(log *logrus.Logger, s settings.Settings, conn transport.Conn) *session.Server {
	c := movement.New(movement.RoleAuthoritative, s.MovementConfig(), mgl32.Vec3{})
	c.SetWorld(demoWorld())
	c.SetStance(&stance{settings: s, running: *running})

	srv := session.NewServer(session.ServerConfig{
		CorrectionThreshold: s.Network.CorrectionThreshold,
		MaxMoveDelta:        s.Prediction.MaxMoveDeltaTime,
		Log:                 log,
	}, c, conn)
	srv.Start()
	return srv
}

func runClient(log *logrus.Logger, s settings.Settings, conn transport.Conn) {
	c := movement.New(movement.RolePredicting, s.MovementConfig(), mgl32.Vec3{})
	c.SetStance(&stance{settings: s, running: *running})
	if *debug {
		c.SetDebugf(log.Debugf)
	}

	var limit rate.Limit
	if s.Network.FrameTimeRate > 0 {
		limit = rate.Limit(s.Network.FrameTimeRate)
	}
	cl := session.NewClient(session.ClientConfig{
		SendInterval:  s.Network.SendInterval,
		FrameTimeRate: limit,
		Log:           log,
	}, c, conn)
	cl.Start()
	defer cl.Close()

	t := time.NewTicker(time.Second / tickRate)
	defer t.Stop()
	for i := range *ticks {
		select {
		case <-t.C:
		case <-cl.Done():
			log.Warnf("connection closed")
			return
		}
		cl.Tick(script(c, i))
		if i%tickRate == 0 {
			log.Infof("tick %d: position %v, mode %v, jetpack force %.1f", i, c.State().Position(), c.State().Mode(), c.Abilities().Jetpack().Force())
		}
	}
	cl.Flush()
	// Give the last answers a moment to arrive before closing.
	time.Sleep(250 * time.Millisecond)
	log.Infof("sent %d moves, %d acknowledgements, %d corrections, final position %v", cl.Sent(), cl.Acks(), cl.Corrections(), c.State().Position())
}
