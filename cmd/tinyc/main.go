// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// tinyc is the command line front end for the Tiny language.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/probechain/go-tiny/lang/diag"
	"github.com/probechain/go-tiny/lang/frontend"
	"github.com/probechain/go-tiny/log"
	"gopkg.in/urfave/cli.v1"
)

const clientIdentifier = "tinyc"

// Exit statuses of the checking commands.
const (
	exitOK    = 0
	exitDiags = 1 // the source has diagnostics
	exitFatal = 2 // a file could not be read or a parse was abandoned
)

var app = newApp()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = clientIdentifier
	app.Usage = "the Tiny language front end"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		noColorFlag,
		foldCaseFlag,
		maxErrorsFlag,
	}
	app.Commands = []cli.Command{
		tokensCommand,
		checkCommand,
		astCommand,
		symbolsCommand,
		replCommand,
		dumpConfigCommand,
	}
	app.Before = setupLogging
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	w, color := log.Terminal()
	if ctx.GlobalBool(noColorFlag.Name) {
		color = false
	}
	lvl := log.Lvl(ctx.GlobalInt(verbosityFlag.Name))
	h := log.StreamHandler(w, log.TerminalFormat(color))
	if lvl >= log.LvlDebug {
		h = log.CallerFileHandler(h)
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, h))
	return nil
}

// session holds what every command needs: the effective configuration, a
// compiler and a diagnostics printer.
type session struct {
	cfg      tinycConfig
	compiler *frontend.Compiler
	printer  *diag.Printer
	out      io.Writer
}

func newSession(cfg tinycConfig, out io.Writer, color bool) (*session, error) {
	c, err := frontend.New(cfg.Parser, cfg.Cache.Size)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:      cfg,
		compiler: c,
		printer:  diag.NewPrinter(out, color, cfg.Output.MaxDiagnostics),
		out:      out,
	}, nil
}

// makeSession builds a session writing to standard output from the command
// line configuration.
func makeSession(ctx *cli.Context) (*session, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, os.Stdout, cfg.useColor())
}

// exitStatus turns a non-zero status into an error urfave/cli exits with.
func exitStatus(status int) error {
	if status == exitOK {
		return nil
	}
	return cli.NewExitError("", status)
}
