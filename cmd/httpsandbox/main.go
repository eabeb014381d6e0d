package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/alside/httpsandbox/pkg/sandbox"
)

const defaultReposMode = "WEB API"

func main() {
	app := kingpin.New("httpsandbox", "Demonstrates HTTP verbs against the JSON placeholder and GitHub APIs and imports the responses into staging tables.")
	flags := registerFlags(app)

	runCmd := app.Command("run", "Run display modes and wait for all of them.").Default()
	runModes := runCmd.Arg("mode", "Display modes, e.g. \"HTTP PUT\". Unknown modes run the default GET.").Default(sandbox.ModeHTTPGet).Strings()

	reposCmd := app.Command("repos", "Import the organization's repositories.")
	reposMode := reposCmd.Flag("mode", "Display mode recorded with the imported rows.").Default(defaultReposMode).String()

	serveCmd := app.Command("serve", "Serve the dispatcher over HTTP.")

	modesCmd := app.Command("modes", "List the display modes.")

	sealCmd := app.Command("seal-token", "Seal a personal access token for the github.sealed_token setting.")
	sealToken := sealCmd.Flag("token", "Personal access token to seal.").Envar("GITHUB_TOKEN").Required().String()
	sealKey := sealCmd.Flag("key", "16, 24 or 32 byte key.").Envar("HTTPSANDBOX_SEAL_KEY").Required().String()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case runCmd.FullCommand():
		err = runModesCmd(ctx, flags, *runModes)
	case reposCmd.FullCommand():
		err = reposCmdRun(ctx, flags, *reposMode)
	case serveCmd.FullCommand():
		err = serve(ctx, flags)
	case modesCmd.FullCommand():
		printModes(os.Stdout)
	case sealCmd.FullCommand():
		err = sealTokenCmd(os.Stdout, *sealToken, *sealKey)
	}
	if err != nil {
		stop()
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
