package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/tambler/gbcore/backend/terminal"
	"github.com/tambler/gbcore/gb"
	"github.com/tambler/gbcore/serial"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "gbcore --rom <path> [options]"
	app.Description = "A DMG Game Boy emulation core"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "run without the terminal renderer",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run in headless mode",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "terminal renderer scale factor (reserved, currently always 1)",
			Value: 1,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}

	sys, err := gb.New(rom, serial.NewStdoutSink())
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}

		slog.Info("running headless", "rom", romPath, "frames", frames)
		for i := 0; i < frames; i++ {
			sys.RunFrame()
		}
		return nil
	}

	display, err := terminal.New(sys)
	if err != nil {
		return err
	}
	return display.Run()
}
