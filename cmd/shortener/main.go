package main

import (
	"log"

	"github.com/patric-chuzhbe/shortlinks/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalln("Unable to initialize the application:", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		log.Fatalln("The application finished with error:", err)
	}
}
