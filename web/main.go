package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/df07/go-phong-raytracer/internal/logger"
	"github.com/df07/go-phong-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	sceneDir := flag.String("scenes", "scenes", "Directory of .yaml scene files")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	_ = godotenv.Load()
	if level := os.Getenv("RAYTRACER_LOG_LEVEL"); level != "" {
		*logLevel = level
	}

	log := logger.NewLogger(*logLevel)
	defer log.Close()

	// Create and start web server
	webServer := server.NewServer(*port, *sceneDir, log)

	log.Infof("Phong Raytracer Web Server")
	log.Infof("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Errorf("Error starting server: %v", err)
		os.Exit(1)
	}
}
