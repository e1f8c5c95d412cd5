// Command tello-demo connects to a drone, takes off, hovers briefly, and
// lands — the Go equivalent of the take_off_and_land demo.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tellogo/internal/session"
)

func main() {
	droneIP := flag.String("drone-ip", session.DefaultDroneIP, "drone command-channel IP")
	commandPort := flag.Int("command-port", session.DefaultCommandPort, "drone command-channel port")
	videoPort := flag.Int("video-port", session.DefaultVideoPort, "local video-channel port")
	hoverSeconds := flag.Int("hover", 5, "seconds to hover before landing")
	flag.Parse()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	sess, err := session.New(session.Options{
		DroneIP:     *droneIP,
		CommandPort: *commandPort,
		VideoPort:   *videoPort,
	})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer sess.Shutdown()

	log.Println("waiting for the drone to connect...")
	connected := make(chan struct{})
	go func() {
		sess.WaitUntilConnected()
		close(connected)
	}()

	select {
	case <-connected:
	case <-stop:
		log.Println("interrupted before connecting")
		return
	}

	log.Println("connected, taking off")
	if !sess.TakeOff() {
		log.Println("take-off ack timed out")
		return
	}

	select {
	case <-time.After(time.Duration(*hoverSeconds) * time.Second):
	case <-stop:
		log.Println("interrupted while hovering")
	}

	log.Println("landing")
	if !sess.Land() {
		log.Println("land ack timed out")
	}
}
