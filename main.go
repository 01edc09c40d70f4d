package main

import (
	"embed"
	"flag"

	"github.com/golang/glog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	flag.Parse()
	defer glog.Flush()

	app := NewApp()
	err := wails.Run(&options.App{
		Title:  "polytope",
		Width:  app.cfg.Viewer.Width,
		Height: app.cfg.Viewer.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		glog.Fatalf("wails: %v", err)
	}
}
