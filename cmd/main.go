package main

import (
	"github.com/grubline/order-svc/internal/app"
	"github.com/grubline/order-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
