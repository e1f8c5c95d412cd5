// Command tello-dashboard wires a session, an optional telemetry
// recorder, and the websocket dashboard together, configured from a
// YAML file.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tellogo/internal/config"
	"tellogo/internal/recorder"
	"tellogo/internal/session"
	"tellogo/internal/webui"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	sess, err := session.New(session.Options{
		DroneIP:     cfg.Session.DroneIP,
		CommandPort: cfg.Session.CommandPort,
		VideoPort:   cfg.Session.VideoPort,
		ForwardIP:   cfg.Session.ForwardIP,
		ForwardPort: cfg.Session.ForwardPort,
	})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer sess.Shutdown()

	var rec *recorder.Recorder
	if cfg.Collaborators.Recorder.Enabled {
		rec, err = recorder.Open(cfg.Collaborators.Recorder.DBPath)
		if err != nil {
			log.Fatalf("open recorder: %v", err)
		}
		defer rec.Close()
		go pollAndRecord(sess, rec, cfg.Collaborators.Recorder.PollRate)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if !cfg.Collaborators.Dashboard.Enabled {
		<-stop
		return
	}

	app, err := webui.NewApp(sess, rec, webui.Credentials{
		Username: cfg.Collaborators.Dashboard.Username,
		Password: cfg.Collaborators.Dashboard.Password,
	}, cfg.Collaborators.Dashboard.BroadcastHz)
	if err != nil {
		log.Fatalf("build dashboard: %v", err)
	}

	go func() {
		if err := app.Start(cfg.Collaborators.Dashboard.ListenAddr); err != nil {
			log.Printf("dashboard server: %v", err)
		}
	}()

	<-stop
	app.Stop()
}

func pollAndRecord(sess *session.Session, rec *recorder.Recorder, hz int) {
	if hz <= 0 {
		hz = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()
	for range ticker.C {
		fd, ok := sess.FlightData()
		snap := recorder.Snapshot{Time: time.Now(), Connected: sess.IsConnected()}
		if ok {
			snap.FlightData = &fd
		}
		if err := rec.Record(snap); err != nil {
			log.Printf("record telemetry: %v", err)
		}
	}
}
