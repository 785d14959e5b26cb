package main

import (
	"github.com/izzat2702/KognitDeck/internal/app"
)

func main() {
	app.Run()
}
