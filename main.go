package main

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/slidetxt/slidetxt/deck"
)

// compile parses one deck source and returns the compiled document.
func compile(inputFileName string, configFileName string, sugar *zap.SugaredLogger) (*deck.Document, error) {

	var cfg *deck.Config
	var err error

	// Load the deck configuration if the user specified one
	if len(configFileName) > 0 {
		cfg, err = deck.LoadConfig(configFileName)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", configFileName, err)
		}
	}

	return deck.ParseFileWithConfig(inputFileName, cfg, sugar)
}

// writeDocument writes the compiled document as JSON to the output file.
func writeDocument(doc *deck.Document, outputFileName string) error {
	out, err := os.Create(outputFileName)
	if err != nil {
		return err
	}
	defer out.Close()
	return doc.WriteJSON(out)
}

// processWatch recompiles the input file every time its modification
// timestamp changes. Useful while writing a deck.
func processWatch(inputFileName, outputFileName, configFileName string, sugar *zap.SugaredLogger) error {

	var oldTimestamp time.Time

	// Loop forever
	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}
		currentTimestamp := info.ModTime()

		// If the file is newer than last time, compile it again.
		// A broken deck only logs: the watcher keeps running so the user
		// can fix the source and save again.
		if oldTimestamp.Before(currentTimestamp) {
			oldTimestamp = currentTimestamp
			doc, err := compile(inputFileName, configFileName, sugar)
			if err != nil {
				sugar.Errorw("compilation failed", "error", err)
			} else if err := writeDocument(doc, outputFileName); err != nil {
				return err
			} else {
				fmt.Printf("compiled %v (%v slides)\n", inputFileName, len(doc.Slides))
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)

	}
}

// describe reloads a previously compiled deck and prints its shape,
// without needing the sources it was compiled from.
func describe(c *cli.Context) error {
	if !c.Args().Present() {
		return fmt.Errorf("info needs the compiled deck file as argument")
	}
	fileName := c.Args().First()

	doc, err := deck.LoadJSONFile(fileName)
	if err != nil {
		return err
	}

	fmt.Printf("%v: %v slides, %v fonts\n", fileName, len(doc.Slides), len(doc.Fonts))
	for i, s := range doc.Slides {
		fmt.Printf("  slide %v: background %v, %v blocks\n", i+1, s.Background.Hex(), len(s.Blocks))
	}
	return nil
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	// Default input file name
	var inputFileName = "slides.txt"

	outputFileName := c.String("output")
	configFileName := c.String("config")
	dryrun := c.Bool("dryrun")
	debug := c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	// Get the input file name
	if c.Args().Present() {
		inputFileName = c.Args().First()
	} else {
		fmt.Printf("no input file provided, using %q\n", inputFileName)
	}

	// Generate the output file name from the input one
	if len(outputFileName) == 0 {
		ext := path.Ext(inputFileName)
		if len(ext) == 0 {
			outputFileName = inputFileName + ".json"
		} else {
			outputFileName = strings.Replace(inputFileName, ext, ".json", 1)
		}
	}

	// If the user specified to watch, loop forever recompiling the input
	// file whenever it changes
	if c.Bool("watch") {
		return processWatch(inputFileName, outputFileName, configFileName, sugar)
	}

	doc, err := compile(inputFileName, configFileName, sugar)
	if err != nil {
		return err
	}

	// Do nothing more if flag dryrun was specified
	if dryrun {
		fmt.Printf("dry run: %v compiles to %v slides\n", inputFileName, len(doc.Slides))
		return nil
	}

	if err := writeDocument(doc, outputFileName); err != nil {
		return err
	}
	fmt.Printf("compiled %v into %v (%v slides)\n", inputFileName, outputFileName, len(doc.Slides))

	return nil
}

func main() {

	app := &cli.App{
		Name:      "slidetxt",
		Version:   "v0.1",
		Compiled:  time.Now(),
		Usage:     "compile a plain-text slide deck into its JSON document model",
		UsageText: "slidetxt [options] [INPUT_FILE] (default input file is slides.txt)",
		Action:    process,
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print a summary of an already compiled deck",
				UsageText: "slidetxt info COMPILED_FILE",
				Action:    describe,
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the compiled deck to `FILE` (default is input file name with extension .json)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read deck configuration (fonts, default colors) from `FILE`",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just compile the input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the input file and recompile on changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
